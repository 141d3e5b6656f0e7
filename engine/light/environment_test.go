package light_test

import (
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/Carmen-Shannon/oxy-ironman/engine/light"
)

func TestNewEnvironmentMap(t *testing.T) {
	t.Run("rejects zero size", func(t *testing.T) {
		_, err := light.NewEnvironmentMap("x", 0, 4, nil)
		assert.ErrorIs(t, err, light.ErrEmptyEnvironment)
	})
	t.Run("rejects pixel count mismatch", func(t *testing.T) {
		_, err := light.NewEnvironmentMap("x", 2, 2, make([]float32, 3))
		assert.Error(t, err)
	})
	t.Run("at clamps coordinates", func(t *testing.T) {
		env, err := light.NewEnvironmentMap("x", 2, 1, []float32{1, 2, 3, 4, 5, 6})
		require.NoError(t, err)
		assert.Equal(t, [3]float32{1, 2, 3}, env.At(-5, 0))
		assert.Equal(t, [3]float32{4, 5, 6}, env.At(9, 9))
	})
}

func TestFromImage(t *testing.T) {
	t.Run("ldr image is linearized", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 2, 1))
		img.Set(0, 0, color.RGBA{255, 0, 0, 255})
		img.Set(1, 0, color.RGBA{0, 0, 0, 255})

		env, err := light.FromImage("ldr", img)

		require.NoError(t, err)
		assert.Equal(t, 2, env.Width)
		assert.InDelta(t, 1, env.At(0, 0)[0], 1e-4)
		assert.InDelta(t, 0, env.At(1, 0)[0], 1e-6)
	})
	t.Run("empty image is rejected", func(t *testing.T) {
		_, err := light.FromImage("empty", image.NewRGBA(image.Rectangle{}))
		assert.ErrorIs(t, err, light.ErrEmptyEnvironment)
	})
}

func TestMipChain(t *testing.T) {
	pixels := make([]float32, 4*2*3)
	for i := range 4 * 2 {
		pixels[i*3] = float32(i)
	}
	env, err := light.NewEnvironmentMap("grad", 4, 2, pixels)
	require.NoError(t, err)

	chain := env.MipChain()

	require.Len(t, chain, 3)
	assert.Equal(t, [2]int{2, 1}, [2]int{chain[1].Width, chain[1].Height})
	assert.Equal(t, [2]int{1, 1}, [2]int{chain[2].Width, chain[2].Height})
	// level 1 texel 0 averages 0, 1, 4 and 5
	assert.InDelta(t, 2.5, chain[1].At(0, 0)[0], 1e-6)
	assert.InDelta(t, 3.5, chain[2].At(0, 0)[0], 1e-6)
}

func TestRGBA16Float(t *testing.T) {
	env, err := light.NewEnvironmentMap("half", 1, 1, []float32{0.5, -1, 1e6})
	require.NoError(t, err)

	buf := env.RGBA16Float()

	require.Len(t, buf, light.BytesPerTexelRGBA16F)
	half := func(off int) float32 { return float16.Frombits(binary.LittleEndian.Uint16(buf[off:])).Float32() }
	assert.Equal(t, float32(0.5), half(0))
	assert.Equal(t, float32(0), half(2))
	assert.Equal(t, float32(65504), half(4))
	assert.Equal(t, float32(1), half(6))
}
