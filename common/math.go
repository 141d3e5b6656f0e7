package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// glToWebGPUDepth remaps OpenGL clip-space depth [-1, 1] to the WebGPU range [0, 1].
// Column-major: z' = 0.5*z + 0.5*w.
var glToWebGPUDepth = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Perspective creates a right-handed perspective projection matrix for WebGPU clip space,
// where depth maps to [0, 1] instead of OpenGL's [-1, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	return glToWebGPUDepth.Mul4(mgl32.Perspective(fovY, aspect, near, far))
}

// LookAt creates a view matrix that positions the eye and orients it toward a target.
//
// Parameters:
//   - eye: camera position in world space
//   - target: point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
//
// Returns:
//   - mgl32.Mat4: the column-major view matrix
func LookAt(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, target, up)
}

// EulerXYZ builds a rotation matrix from Euler angles applied in intrinsic X, then Y, then Z order
// (R = Rx * Ry * Rz), the default ordering for scene-graph objects.
//
// Parameters:
//   - rot: rotation angles in radians around each axis
//
// Returns:
//   - mgl32.Mat4: the homogeneous rotation matrix
func EulerXYZ(rot mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(rot.X()).
		Mul4(mgl32.HomogRotate3DY(rot.Y())).
		Mul4(mgl32.HomogRotate3DZ(rot.Z()))
}

// ModelMatrix composes translation, Euler XYZ rotation and scale into a single model matrix
// (M = T * R * S). Rotation therefore pivots around the object's own origin.
//
// Parameters:
//   - pos: translation in world space
//   - rot: Euler rotation in radians
//   - scale: per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func ModelMatrix(pos, rot, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(EulerXYZ(rot)).Mul4(s)
}

// NormalMatrix returns the inverse-transpose of the upper 3x3 of m, padded to a Mat4 so it
// can be uploaded with std140 column alignment.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - mgl32.Mat4: the normal matrix, or identity if m is singular
func NormalMatrix(m mgl32.Mat4) mgl32.Mat4 {
	n3 := m.Mat3()
	if n3.Det() == 0 {
		return mgl32.Ident4()
	}
	return n3.Inv().Transpose().Mat4()
}

// TRSMatrix composes a translation, quaternion rotation and scale, the transform layout used by
// scene-description nodes.
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion stored as (x, y, z, w)
//   - s: scale
//
// Returns:
//   - mgl32.Mat4: the column-major local transform
func TRSMatrix(t [3]float32, r [4]float32, s [3]float32) mgl32.Mat4 {
	q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}
