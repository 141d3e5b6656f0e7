package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-ironman/common"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, common.Coalesce(0, 3, 4))
	assert.Equal(t, "", common.Coalesce[string]())
}

func TestPixelRatio(t *testing.T) {
	cases := []struct {
		scale float32
		want  float32
	}{
		{0, 1},
		{0.5, 1},
		{1, 1},
		{1.5, 1.5},
		{2, 2},
		{3, 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, common.PixelRatio(tc.scale), "scale %v", tc.scale)
	}
}

func TestScaledSize(t *testing.T) {
	t.Run("zero size stays zero", func(t *testing.T) {
		w, h := common.ScaledSize(0, 720, 2)
		assert.Equal(t, 0, w)
		assert.Equal(t, 0, h)
	})
	t.Run("scales both axes", func(t *testing.T) {
		w, h := common.ScaledSize(640, 360, 2)
		assert.Equal(t, 1280, w)
		assert.Equal(t, 720, h)
	})
	t.Run("never rounds down to zero", func(t *testing.T) {
		w, h := common.ScaledSize(1, 1, 0.25)
		assert.Equal(t, 1, w)
		assert.Equal(t, 1, h)
	})
}

func TestImportedTextureDecode(t *testing.T) {
	t.Run("returns error for empty texture", func(t *testing.T) {
		var tex *common.ImportedTexture
		_, err := tex.Decode()
		assert.Error(t, err)
	})
	t.Run("returns error for garbage data", func(t *testing.T) {
		tex := &common.ImportedTexture{Name: "bad", Data: []byte("not an image")}
		_, err := tex.Decode()
		assert.Error(t, err)
	})
	t.Run("solid texture is a single rgba texel", func(t *testing.T) {
		s := common.SolidTexture(1, 2, 3, 4)
		assert.Equal(t, []byte{1, 2, 3, 4}, s.Pixels)
		assert.Equal(t, uint32(1), s.Width)
		assert.Equal(t, uint32(4), s.BytesPerPixel)
	})
}
