package common_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-ironman/common"
)

func TestPerspective(t *testing.T) {
	proj := common.Perspective(mgl32.DegToRad(55), 16.0/9.0, 0.1, 1000)

	depth := func(z float32) float32 {
		clip := proj.Mul4x1(mgl32.Vec4{0, 0, z, 1})
		return clip.Z() / clip.W()
	}

	t.Run("near plane maps to depth 0", func(t *testing.T) {
		assert.InDelta(t, 0, depth(-0.1), 1e-4)
	})
	t.Run("far plane maps to depth 1", func(t *testing.T) {
		assert.InDelta(t, 1, depth(-1000), 1e-4)
	})
	t.Run("horizontal scale accounts for aspect", func(t *testing.T) {
		f := 1 / math.Tan(float64(mgl32.DegToRad(55))/2)
		assert.InDelta(t, f/(16.0/9.0), proj.At(0, 0), 1e-5)
		assert.InDelta(t, f, proj.At(1, 1), 1e-5)
	})
}

func TestModelMatrix(t *testing.T) {
	t.Run("identity transform leaves points unchanged", func(t *testing.T) {
		m := common.ModelMatrix(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
		assert.True(t, m.ApproxEqual(mgl32.Ident4()))
	})
	t.Run("scale is applied before translation", func(t *testing.T) {
		m := common.ModelMatrix(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2})
		p := mgl32.TransformCoordinate(mgl32.Vec3{1, 1, 1}, m)
		assert.True(t, p.ApproxEqual(mgl32.Vec3{3, 2, 2}))
	})
	t.Run("rotation about y turns +x into -z", func(t *testing.T) {
		m := common.ModelMatrix(mgl32.Vec3{}, mgl32.Vec3{0, math.Pi / 2, 0}, mgl32.Vec3{1, 1, 1})
		p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m)
		assert.True(t, p.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5))
	})
	t.Run("euler order applies z first, then y, then x", func(t *testing.T) {
		rot := mgl32.Vec3{0.3, 0.2, 0.1}
		want := mgl32.HomogRotate3DX(0.3).Mul4(mgl32.HomogRotate3DY(0.2)).Mul4(mgl32.HomogRotate3DZ(0.1))
		assert.True(t, common.EulerXYZ(rot).ApproxEqual(want))
	})
}

func TestTRSMatrix(t *testing.T) {
	t.Run("identity quaternion yields pure translation and scale", func(t *testing.T) {
		m := common.TRSMatrix([3]float32{1, 2, 3}, [4]float32{0, 0, 0, 1}, [3]float32{2, 2, 2})
		p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m)
		assert.True(t, p.ApproxEqual(mgl32.Vec3{3, 2, 3}))
	})
	t.Run("zero quaternion is treated as identity", func(t *testing.T) {
		m := common.TRSMatrix([3]float32{}, [4]float32{}, [3]float32{1, 1, 1})
		assert.True(t, m.ApproxEqual(mgl32.Ident4()))
	})
}

func TestNormalMatrix(t *testing.T) {
	t.Run("uniform scale keeps normal direction", func(t *testing.T) {
		n := common.NormalMatrix(mgl32.Scale3D(2, 2, 2))
		v := n.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3().Normalize()
		assert.True(t, v.ApproxEqual(mgl32.Vec3{0, 1, 0}))
	})
	t.Run("singular matrix falls back to identity", func(t *testing.T) {
		n := common.NormalMatrix(mgl32.Scale3D(0, 1, 1))
		assert.True(t, n.ApproxEqual(mgl32.Ident4()))
	})
}
