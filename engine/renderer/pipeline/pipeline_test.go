package pipeline_test

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/shader"
)

func TestPipeline(t *testing.T) {
	s, err := shader.Load(shader.KeyRGBShift)
	require.NoError(t, err)

	t.Run("should default to an opaque depth tested triangle list", func(t *testing.T) {
		p := pipeline.NewPipeline("scene", s)
		assert.Equal(t, "scene", p.Key())
		assert.Same(t, s, p.Shader())
		assert.True(t, p.DepthEnabled())
		assert.True(t, p.DepthWriteEnabled())
		assert.False(t, p.BlendEnabled())
		assert.Equal(t, wgpu.CullModeNone, p.CullMode())
		assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
		assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
		assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
		assert.Equal(t, uint32(0), p.SampleCount())
		assert.Nil(t, p.RenderPipeline())
	})
	t.Run("should not write depth when depth is disabled", func(t *testing.T) {
		p := pipeline.NewPipeline("post", s, pipeline.WithDepth(false), pipeline.WithSampleCount(1))
		assert.False(t, p.DepthEnabled())
		assert.False(t, p.DepthWriteEnabled())
		assert.Equal(t, uint32(1), p.SampleCount())
	})
	t.Run("should apply render state options", func(t *testing.T) {
		blend := &wgpu.BlendState{}
		p := pipeline.NewPipeline("x", s,
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithFrontFace(wgpu.FrontFaceCW),
			pipeline.WithBlendEnabled(true),
			pipeline.WithBlendState(blend),
			pipeline.WithDepthWriteEnabled(false),
		)
		assert.Equal(t, wgpu.CullModeBack, p.CullMode())
		assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
		assert.True(t, p.BlendEnabled())
		assert.Same(t, blend, p.BlendState())
		assert.False(t, p.DepthWriteEnabled())
	})
	t.Run("should return nil layouts outside the registered range", func(t *testing.T) {
		p := pipeline.NewPipeline("x", s)
		assert.Nil(t, p.BindGroupLayout(0))
		assert.Nil(t, p.BindGroupLayout(-1))
		p.Release()
	})
}
