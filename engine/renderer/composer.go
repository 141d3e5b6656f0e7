package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-ironman/engine/scene"
)

// ErrNotSized is returned by Composer.Render before the first successful SetSize.
var ErrNotSized = errors.New("composer has no render targets, call SetSize first")

// ErrZeroSize is returned by Composer.SetSize for a zero or negative dimension.
var ErrZeroSize = errors.New("render size must be positive")

// Frame is the per-frame state shared by every pass.
type Frame struct {
	// Encoder records the commands of the frame. Nil in tests that never touch the GPU.
	Encoder *wgpu.CommandEncoder

	// Scene is the state being drawn.
	Scene scene.Scene

	// Screen is the swapchain image the last enabled pass writes to.
	Screen Target
}

// Pass is one stage of the post-processing chain.
type Pass interface {
	// Name identifies the pass in logs and errors.
	Name() string

	// Enabled reports whether the pass runs. Disabled passes are skipped and the next enabled
	// pass reads what the previous enabled pass wrote.
	Enabled() bool

	// SetEnabled turns the pass on or off.
	SetEnabled(enabled bool)

	// NeedsSwap reports whether the pass wrote into its write target, so the composer must
	// hand that target to the next pass as its input.
	NeedsSwap() bool

	// SetSize resizes any size-dependent resources held by the pass.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if resources could not be recreated
	SetSize(width, height int) error

	// Render records the pass.
	//
	// Parameters:
	//   - frame: the frame being rendered
	//   - read: the output of the previous pass
	//   - write: where this pass must write; the screen for the last enabled pass
	//
	// Returns:
	//   - error: an error if the pass could not be recorded
	Render(frame *Frame, read, write Target) error
}

// Composer runs an ordered chain of passes, ping-ponging between two offscreen targets and
// routing the last enabled pass to the screen.
type Composer interface {
	// AddPass appends a pass to the chain. Passes run in insertion order.
	//
	// Parameters:
	//   - p: the pass
	AddPass(p Pass)

	// Passes returns the chain in order.
	//
	// Returns:
	//   - []Pass: a copy of the pass list
	Passes() []Pass

	// SetSize recreates both offscreen targets and resizes every pass.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: ErrZeroSize for empty sizes, or the first target or pass error
	SetSize(width, height int) error

	// Size returns the current target size.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// Render runs every enabled pass once.
	//
	// Parameters:
	//   - frame: the frame to render
	//
	// Returns:
	//   - error: ErrNotSized, or the first pass error wrapped with the pass name
	Render(frame *Frame) error

	// Release frees the offscreen targets.
	Release()
}

type composer struct {
	mu *sync.Mutex

	passes    []Pass
	newTarget TargetFactory

	read, write   Target
	width, height int
}

var _ Composer = &composer{}

// NewComposer creates an empty Composer that allocates its offscreen targets with newTarget.
//
// Parameters:
//   - newTarget: creates the ping-pong targets on SetSize
//
// Returns:
//   - Composer: the composer
func NewComposer(newTarget TargetFactory) Composer {
	return &composer{
		mu:        &sync.Mutex{},
		newTarget: newTarget,
	}
}

func (c *composer) AddPass(p Pass) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.passes = append(c.passes, p)
	if c.read != nil {
		_ = p.SetSize(c.width, c.height)
	}
}

func (c *composer) Passes() []Pass {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Pass, len(c.passes))
	copy(out, c.passes)
	return out
}

func (c *composer) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrZeroSize
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	read, err := c.newTarget("composer read", width, height)
	if err != nil {
		return fmt.Errorf("create read target: %w", err)
	}
	write, err := c.newTarget("composer write", width, height)
	if err != nil {
		read.Release()
		return fmt.Errorf("create write target: %w", err)
	}
	c.releaseTargets()
	c.read, c.write = read, write
	c.width, c.height = width, height

	for _, p := range c.passes {
		if err := p.SetSize(width, height); err != nil {
			return fmt.Errorf("resize pass %s: %w", p.Name(), err)
		}
	}
	return nil
}

func (c *composer) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *composer) Render(frame *Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.read == nil {
		return ErrNotSized
	}

	last := -1
	for i, p := range c.passes {
		if p.Enabled() {
			last = i
		}
	}

	read, write := c.read, c.write
	for i := 0; i <= last; i++ {
		p := c.passes[i]
		if !p.Enabled() {
			continue
		}
		out := write
		if i == last {
			out = frame.Screen
		}
		if err := p.Render(frame, read, out); err != nil {
			return fmt.Errorf("pass %s: %w", p.Name(), err)
		}
		if p.NeedsSwap() {
			read, write = write, read
		}
	}
	return nil
}

func (c *composer) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseTargets()
}

func (c *composer) releaseTargets() {
	if c.read != nil {
		c.read.Release()
	}
	if c.write != nil {
		c.write.Release()
	}
	c.read, c.write = nil, nil
}
