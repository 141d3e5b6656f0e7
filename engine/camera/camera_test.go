package camera_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-ironman/engine/camera"
)

func TestCamera(t *testing.T) {
	t.Run("defaults place the eye on the z axis looking at the origin", func(t *testing.T) {
		c := camera.NewCamera()
		assert.Equal(t, mgl32.Vec3{0, 0, 9}, c.Position())
		assert.InDelta(t, 55*math.Pi/180, c.Fov(), 1e-6)
		assert.Equal(t, float32(0.1), c.Near())
		assert.Equal(t, float32(1000), c.Far())

		clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		ndc := clip.Vec3().Mul(1 / clip.W())
		assert.InDelta(t, 0, ndc.X(), 1e-6)
		assert.InDelta(t, 0, ndc.Y(), 1e-6)
		assert.Greater(t, ndc.Z(), float32(0))
		assert.Less(t, ndc.Z(), float32(1))
	})
	t.Run("set aspect changes the horizontal scale only", func(t *testing.T) {
		c := camera.NewCamera()
		before := c.ProjectionMatrix()
		c.SetAspect(2)
		after := c.ProjectionMatrix()
		assert.InDelta(t, before.At(0, 0)/2, after.At(0, 0), 1e-6)
		assert.Equal(t, before.At(1, 1), after.At(1, 1))
	})
	t.Run("invalid aspect is ignored", func(t *testing.T) {
		c := camera.NewCamera(camera.WithAspect(1.5))
		c.SetAspect(0)
		c.SetAspect(float32(math.Inf(1)))
		assert.Equal(t, float32(1.5), c.Aspect())
	})
	t.Run("uniform carries view projection and position", func(t *testing.T) {
		c := camera.NewCamera(camera.WithPosition(mgl32.Vec3{1, 2, 3}))
		u := c.Uniform()
		buf := u.Marshal()
		assert.Len(t, buf, 80)
		assert.Equal(t, [16]float32(c.ViewProjectionMatrix()), u.ViewProj)
		assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[68:])))
	})
}
