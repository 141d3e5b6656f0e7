package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestPickAlphaMode(t *testing.T) {
	all := []wgpu.CompositeAlphaMode{
		wgpu.CompositeAlphaModeOpaque,
		wgpu.CompositeAlphaModePostMultiplied,
		wgpu.CompositeAlphaModePreMultiplied,
	}
	t.Run("transparent surfaces prefer premultiplied alpha", func(t *testing.T) {
		assert.Equal(t, wgpu.CompositeAlphaModePreMultiplied, pickAlphaMode(all, true))
	})
	t.Run("transparent surfaces fall back to postmultiplied alpha", func(t *testing.T) {
		modes := []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque, wgpu.CompositeAlphaModePostMultiplied}
		assert.Equal(t, wgpu.CompositeAlphaModePostMultiplied, pickAlphaMode(modes, true))
	})
	t.Run("opaque surfaces prefer opaque", func(t *testing.T) {
		assert.Equal(t, wgpu.CompositeAlphaModeOpaque, pickAlphaMode(all, false))
	})
	t.Run("the first mode is used when nothing matches", func(t *testing.T) {
		assert.Equal(t, wgpu.CompositeAlphaModeOpaque, pickAlphaMode([]wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque}, true))
		assert.Equal(t, wgpu.CompositeAlphaModePreMultiplied, pickAlphaMode([]wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModePreMultiplied}, false))
	})
	t.Run("no reported modes yields auto", func(t *testing.T) {
		assert.Equal(t, wgpu.CompositeAlphaModeAuto, pickAlphaMode(nil, true))
	})
}

func TestRendererOptions(t *testing.T) {
	t.Run("defaults keep a transparent surface and the stock shift", func(t *testing.T) {
		r := newRenderer()
		assert.True(t, r.transparent)
		assert.False(t, r.forceFallbackAdapter)
		assert.Nil(t, r.pendingMSAA)
		assert.Nil(t, r.pendingPresentMode)
		assert.Equal(t, float32(0.0045), r.shiftAmount)
		assert.Equal(t, float32(0), r.shiftAngle)
	})
	t.Run("options are applied before the backend exists", func(t *testing.T) {
		r := newRenderer(
			WithMSAA(MSAAOff),
			WithPresentMode(PresentModeUncapped),
			WithForceSoftwareRenderer(true),
			WithTransparentSurface(false),
			WithRGBShift(0.01, 1.5),
		)
		assert.Equal(t, MSAAOff, *r.pendingMSAA)
		assert.Equal(t, PresentModeUncapped, *r.pendingPresentMode)
		assert.True(t, r.forceFallbackAdapter)
		assert.False(t, r.transparent)
		assert.Equal(t, float32(0.01), r.shiftAmount)
		assert.Equal(t, float32(1.5), r.shiftAngle)
	})
	t.Run("zero sized frames are skipped before the first resize", func(t *testing.T) {
		r := newRenderer()
		assert.NoError(t, r.RenderFrame(nil))
		assert.NoError(t, r.Resize(0, 0))
	})
}

func TestRGBShiftPass(t *testing.T) {
	t.Run("starts enabled with the default amount and angle", func(t *testing.T) {
		p := NewRGBShiftPass(nil)
		assert.Equal(t, "rgb_shift", p.Name())
		assert.True(t, p.Enabled())
		assert.True(t, p.NeedsSwap())
		assert.Equal(t, DefaultRGBShiftAmount, p.Amount())
		assert.Equal(t, DefaultRGBShiftAngle, p.Angle())
	})
	t.Run("parameters flow into the uniform", func(t *testing.T) {
		p := NewRGBShiftPass(nil).(*rgbShiftPass)
		p.SetAmount(0.02)
		p.SetAngle(math.Pi / 2)
		buf := p.uniform().Marshal()
		assert.Len(t, buf, 16)
		assert.Equal(t, float32(0.02), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
		assert.InDelta(t, math.Pi/2, math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])), 1e-6)
	})
	t.Run("can be disabled", func(t *testing.T) {
		p := NewRGBShiftPass(nil)
		p.SetEnabled(false)
		assert.False(t, p.Enabled())
	})
	t.Run("resizing without GPU state is harmless", func(t *testing.T) {
		p := NewRGBShiftPass(nil)
		assert.NoError(t, p.SetSize(100, 50))
		assert.NotPanics(t, p.Release)
	})
}

func TestScenePass(t *testing.T) {
	t.Run("refuses to render before it has targets", func(t *testing.T) {
		p := NewScenePass(nil)
		assert.Equal(t, "scene", p.Name())
		assert.True(t, p.NeedsSwap())
		assert.ErrorIs(t, p.Render(&Frame{}, nil, nil), ErrNotSized)
	})
	t.Run("release without GPU state is harmless", func(t *testing.T) {
		assert.NotPanics(t, NewScenePass(nil).Release)
	})
}

func TestRenderTarget(t *testing.T) {
	t.Run("borrowed swapchain targets ignore release", func(t *testing.T) {
		target := &renderTarget{label: "screen", width: 3, height: 2}
		assert.NotPanics(t, target.Release)
		assert.Equal(t, "screen", target.Label())
		assert.Equal(t, 3, target.Width())
		assert.Equal(t, 2, target.Height())
		assert.Nil(t, target.View())
	})
}

func TestGPURGBShiftUniform(t *testing.T) {
	u := GPURGBShiftUniform{Amount: 0.0045}
	assert.Equal(t, 16, u.Size())
	assert.Equal(t, float32(0.0045), math.Float32frombits(binary.LittleEndian.Uint32(u.Marshal()[0:])))
}
