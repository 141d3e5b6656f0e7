package renderer_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer"
)

type fakeTarget struct {
	label         string
	width, height int
	released      bool
}

func (t *fakeTarget) Label() string { return t.label }
func (t *fakeTarget) Width() int { return t.width }
func (t *fakeTarget) Height() int { return t.height }
func (t *fakeTarget) View() *wgpu.TextureView { return nil }
func (t *fakeTarget) Release() { t.released = true }

type fakeTargets struct {
	created []*fakeTarget
	err     error
}

func (f *fakeTargets) factory(label string, width, height int) (renderer.Target, error) {
	if f.err != nil {
		return nil, f.err
	}
	t := &fakeTarget{label: fmt.Sprintf("%s#%d", label, len(f.created)), width: width, height: height}
	f.created = append(f.created, t)
	return t, nil
}

type call struct {
	read, write string
}

type fakePass struct {
	name    string
	enabled bool
	swap    bool
	err     error
	sizes   [][2]int
	calls   []call
}

func newFakePass(name string) *fakePass {
	return &fakePass{name: name, enabled: true, swap: true}
}

func (p *fakePass) Name() string { return p.name }
func (p *fakePass) Enabled() bool { return p.enabled }
func (p *fakePass) SetEnabled(enabled bool) { p.enabled = enabled }
func (p *fakePass) NeedsSwap() bool { return p.swap }

func (p *fakePass) SetSize(width, height int) error {
	p.sizes = append(p.sizes, [2]int{width, height})
	return nil
}

func (p *fakePass) Render(_ *renderer.Frame, read, write renderer.Target) error {
	p.calls = append(p.calls, call{read: read.Label(), write: write.Label()})
	return p.err
}

func TestComposerSetSize(t *testing.T) {
	t.Run("should create two targets and resize every pass", func(t *testing.T) {
		// given
		targets := &fakeTargets{}
		c := renderer.NewComposer(targets.factory)
		a, b := newFakePass("a"), newFakePass("b")
		c.AddPass(a)
		c.AddPass(b)
		// when
		err := c.SetSize(640, 480)
		// then
		require.NoError(t, err)
		assert.Len(t, targets.created, 2)
		assert.Equal(t, [][2]int{{640, 480}}, a.sizes)
		assert.Equal(t, [][2]int{{640, 480}}, b.sizes)
		w, h := c.Size()
		assert.Equal(t, 640, w)
		assert.Equal(t, 480, h)
	})
	t.Run("should release the previous targets on resize", func(t *testing.T) {
		targets := &fakeTargets{}
		c := renderer.NewComposer(targets.factory)
		require.NoError(t, c.SetSize(10, 10))
		require.NoError(t, c.SetSize(20, 20))
		require.Len(t, targets.created, 4)
		assert.True(t, targets.created[0].released)
		assert.True(t, targets.created[1].released)
		assert.False(t, targets.created[2].released)
		assert.Equal(t, 20, targets.created[3].Width())
	})
	t.Run("should reject empty sizes and keep the old targets", func(t *testing.T) {
		targets := &fakeTargets{}
		c := renderer.NewComposer(targets.factory)
		require.NoError(t, c.SetSize(10, 10))
		assert.ErrorIs(t, c.SetSize(0, 10), renderer.ErrZeroSize)
		assert.ErrorIs(t, c.SetSize(10, -1), renderer.ErrZeroSize)
		assert.Len(t, targets.created, 2)
		assert.False(t, targets.created[0].released)
	})
	t.Run("should report target creation failures", func(t *testing.T) {
		boom := errors.New("out of memory")
		c := renderer.NewComposer((&fakeTargets{err: boom}).factory)
		assert.ErrorIs(t, c.SetSize(10, 10), boom)
	})
	t.Run("should size passes added after the first resize", func(t *testing.T) {
		c := renderer.NewComposer((&fakeTargets{}).factory)
		require.NoError(t, c.SetSize(32, 16))
		p := newFakePass("late")
		c.AddPass(p)
		assert.Equal(t, [][2]int{{32, 16}}, p.sizes)
	})
}

func TestComposerRender(t *testing.T) {
	screen := &fakeTarget{label: "screen"}

	t.Run("should fail before the first resize", func(t *testing.T) {
		c := renderer.NewComposer((&fakeTargets{}).factory)
		c.AddPass(newFakePass("a"))
		assert.ErrorIs(t, c.Render(&renderer.Frame{Screen: screen}), renderer.ErrNotSized)
	})
	t.Run("should chain passes and route the last one to the screen", func(t *testing.T) {
		// given
		c := renderer.NewComposer((&fakeTargets{}).factory)
		scenePass, shiftPass := newFakePass("scene"), newFakePass("rgb_shift")
		c.AddPass(scenePass)
		c.AddPass(shiftPass)
		require.NoError(t, c.SetSize(8, 8))
		// when
		err := c.Render(&renderer.Frame{Screen: screen})
		// then
		require.NoError(t, err)
		require.Len(t, scenePass.calls, 1)
		require.Len(t, shiftPass.calls, 1)
		assert.Equal(t, "composer write#1", scenePass.calls[0].write)
		assert.Equal(t, "composer write#1", shiftPass.calls[0].read)
		assert.Equal(t, "screen", shiftPass.calls[0].write)
	})
	t.Run("should hand the previous output on across three passes", func(t *testing.T) {
		c := renderer.NewComposer((&fakeTargets{}).factory)
		a, b, d := newFakePass("a"), newFakePass("b"), newFakePass("c")
		c.AddPass(a)
		c.AddPass(b)
		c.AddPass(d)
		require.NoError(t, c.SetSize(8, 8))
		require.NoError(t, c.Render(&renderer.Frame{Screen: screen}))
		assert.Equal(t, call{read: "composer read#0", write: "composer write#1"}, a.calls[0])
		assert.Equal(t, call{read: "composer write#1", write: "composer read#0"}, b.calls[0])
		assert.Equal(t, call{read: "composer read#0", write: "screen"}, d.calls[0])
	})
	t.Run("should not swap after a pass that leaves its target untouched", func(t *testing.T) {
		c := renderer.NewComposer((&fakeTargets{}).factory)
		a, b, d := newFakePass("a"), newFakePass("b"), newFakePass("c")
		b.swap = false
		c.AddPass(a)
		c.AddPass(b)
		c.AddPass(d)
		require.NoError(t, c.SetSize(8, 8))
		require.NoError(t, c.Render(&renderer.Frame{Screen: screen}))
		assert.Equal(t, "composer write#1", d.calls[0].read)
	})
	t.Run("should skip disabled passes and send the last enabled one to the screen", func(t *testing.T) {
		c := renderer.NewComposer((&fakeTargets{}).factory)
		scenePass, shiftPass := newFakePass("scene"), newFakePass("rgb_shift")
		shiftPass.SetEnabled(false)
		c.AddPass(scenePass)
		c.AddPass(shiftPass)
		require.NoError(t, c.SetSize(8, 8))
		require.NoError(t, c.Render(&renderer.Frame{Screen: screen}))
		assert.Equal(t, "screen", scenePass.calls[0].write)
		assert.Empty(t, shiftPass.calls)
	})
	t.Run("should do nothing when every pass is disabled", func(t *testing.T) {
		c := renderer.NewComposer((&fakeTargets{}).factory)
		p := newFakePass("a")
		p.enabled = false
		c.AddPass(p)
		require.NoError(t, c.SetSize(8, 8))
		assert.NoError(t, c.Render(&renderer.Frame{Screen: screen}))
		assert.Empty(t, p.calls)
	})
	t.Run("should stop at the first failing pass and name it", func(t *testing.T) {
		c := renderer.NewComposer((&fakeTargets{}).factory)
		boom := errors.New("device lost")
		a, b := newFakePass("scene"), newFakePass("rgb_shift")
		a.err = boom
		c.AddPass(a)
		c.AddPass(b)
		require.NoError(t, c.SetSize(8, 8))
		err := c.Render(&renderer.Frame{Screen: screen})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "pass scene")
		assert.Empty(t, b.calls)
	})
	t.Run("should keep insertion order in Passes", func(t *testing.T) {
		c := renderer.NewComposer((&fakeTargets{}).factory)
		c.AddPass(newFakePass("scene"))
		c.AddPass(newFakePass("rgb_shift"))
		var names []string
		for _, p := range c.Passes() {
			names = append(names, p.Name())
		}
		assert.Equal(t, []string{"scene", "rgb_shift"}, names)
	})
}
