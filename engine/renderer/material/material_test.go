package material_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/material"
)

func TestMaterial(t *testing.T) {
	t.Run("defaults follow gltf", func(t *testing.T) {
		m := material.NewMaterial()
		assert.Equal(t, [4]float32{1, 1, 1, 1}, m.BaseColor())
		assert.Equal(t, float32(1), m.Metallic())
		assert.Equal(t, float32(1), m.Roughness())
		assert.Equal(t, common.Color{}, m.Emissive())
	})
	t.Run("factors are clamped", func(t *testing.T) {
		m := material.NewMaterial(material.WithMetallic(2), material.WithRoughness(-1))
		assert.Equal(t, float32(1), m.Metallic())
		assert.Equal(t, float32(0), m.Roughness())
	})
	t.Run("set color keeps alpha", func(t *testing.T) {
		m := material.NewMaterial(material.WithBaseColor([4]float32{0.5, 0.5, 0.5, 0.25}))
		m.SetColor(common.RGB(0.22, 1.0, 0.08))
		assert.Equal(t, [4]float32{0.22, 1.0, 0.08, 0.25}, m.BaseColor())
	})
	t.Run("uniform reports changes once", func(t *testing.T) {
		m := material.NewMaterial()
		_, changed := m.Uniform()
		assert.True(t, changed)
		_, changed = m.Uniform()
		assert.False(t, changed)
		m.SetEmissive(common.RGB(0, 0.1, 0.3))
		u, changed := m.Uniform()
		assert.True(t, changed)
		assert.Equal(t, [3]float32{0, 0.1, 0.3}, u.Emissive)
	})
}

func TestGPUMaterialUniformMarshal(t *testing.T) {
	u := material.GPUMaterialUniform{
		BaseColor: [4]float32{0.22, 1, 0.08, 1},
		Emissive:  [3]float32{0, 0.1, 0.3},
		Metallic:  0.5,
		Roughness: 0.25,
	}
	buf := u.Marshal()
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }

	assert.Len(t, buf, 48)
	assert.Equal(t, float32(0.22), f(0))
	assert.Equal(t, float32(0.3), f(24))
	assert.Equal(t, float32(0.5), f(28))
	assert.Equal(t, float32(0.25), f(32))
	assert.Equal(t, float32(0), f(44))
}
