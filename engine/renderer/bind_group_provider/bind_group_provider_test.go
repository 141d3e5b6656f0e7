package bind_group_provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/bind_group_provider"
)

func TestBindGroupProvider(t *testing.T) {
	t.Run("should start empty", func(t *testing.T) {
		p := bind_group_provider.NewBindGroupProvider("Material chrome")
		assert.Equal(t, "Material chrome", p.Label())
		assert.Nil(t, p.BindGroup())
		assert.Nil(t, p.BindGroupLayout())
		assert.Nil(t, p.Buffer(0))
		assert.Nil(t, p.TextureView(1))
		assert.Nil(t, p.Sampler(2))
		assert.Nil(t, p.VertexBuffer())
		assert.Nil(t, p.IndexBuffer())
		assert.Zero(t, p.IndexCount())
	})
	t.Run("should forget geometry and borrowed views on release", func(t *testing.T) {
		// given
		p := bind_group_provider.NewBindGroupProvider("RGB Shift composer read")
		p.SetIndexCount(36)
		p.BorrowTextureView(1, nil)
		// when
		p.Release()
		// then
		assert.Zero(t, p.IndexCount())
		assert.Nil(t, p.TextureView(1))
	})
	t.Run("should be reusable after release", func(t *testing.T) {
		p := bind_group_provider.NewBindGroupProvider("Mesh box/0")
		p.Release()
		p.SetIndexCount(3)
		assert.Equal(t, 3, p.IndexCount())
	})
}
