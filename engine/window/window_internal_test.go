package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineWindowOptions(t *testing.T) {
	t.Run("should start at 1280x720", func(t *testing.T) {
		w := newEngineWindow()
		assert.Equal(t, 1280, w.Width())
		assert.Equal(t, 720, w.Height())
		assert.Equal(t, "IRONMAN", w.title)
	})
	t.Run("should apply options", func(t *testing.T) {
		w := newEngineWindow(WithTitle("demo"), WithSize(800, 600), WithMinSize(10, 20), WithMaxSize(1000, 900))
		assert.Equal(t, "demo", w.title)
		assert.Equal(t, 800, w.Width())
		assert.Equal(t, 600, w.Height())
		assert.Equal(t, [4]int{10, 20, 1000, 900}, [4]int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
	})
	t.Run("should ignore non-positive sizes", func(t *testing.T) {
		w := newEngineWindow(WithSize(0, 600))
		assert.Equal(t, 1280, w.Width())
	})
}

func TestEngineWindowCallbacks(t *testing.T) {
	t.Run("should record and forward resizes", func(t *testing.T) {
		w := newEngineWindow()
		var got [2]int
		w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })
		w.resized(640, 480)
		assert.Equal(t, [2]int{640, 480}, got)
		assert.Equal(t, 640, w.Width())
		assert.Equal(t, 480, w.Height())
	})
	t.Run("should forward pointer moves", func(t *testing.T) {
		w := newEngineWindow()
		var got [2]float64
		w.SetPointerMoveCallback(func(x, y float64) { got = [2]float64{x, y} })
		w.pointerMoved(3.5, 7)
		assert.Equal(t, [2]float64{3.5, 7}, got)
	})
	t.Run("should tolerate missing callbacks", func(t *testing.T) {
		w := newEngineWindow()
		assert.NotPanics(t, func() {
			w.resized(1, 1)
			w.pointerMoved(1, 1)
		})
	})
	t.Run("should report closed state without a platform window", func(t *testing.T) {
		w := newEngineWindow()
		assert.False(t, w.IsRunning())
		assert.False(t, w.PollEvents())
		assert.Error(t, w.Close())
		assert.Nil(t, w.SurfaceDescriptor())
		lw, lh := w.LogicalSize()
		assert.Equal(t, 0, lw+lh)
		assert.Equal(t, float32(1), w.ContentScale())
	})
}
