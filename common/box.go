package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box3 is an axis-aligned bounding box. The zero value is not empty; use EmptyBox to start an
// accumulation.
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox returns an inverted box that contains nothing. Expanding it by any point yields a
// degenerate box around that point.
//
// Returns:
//   - Box3: the empty box
func EmptyBox() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max.X() < b.Min.X() || b.Max.Y() < b.Min.Y() || b.Max.Z() < b.Min.Z()
}

// ExpandByPoint grows the box so it contains p.
func (b *Box3) ExpandByPoint(p mgl32.Vec3) {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Union grows the box so it contains o. Empty boxes are ignored.
func (b *Box3) Union(o Box3) {
	if o.IsEmpty() {
		return
	}
	b.ExpandByPoint(o.Min)
	b.ExpandByPoint(o.Max)
}

// Transform returns the axis-aligned box enclosing all eight corners of b after applying m.
//
// Parameters:
//   - m: the affine transform to apply
//
// Returns:
//   - Box3: the transformed bounds, or an empty box if b is empty
func (b Box3) Transform(m mgl32.Mat4) Box3 {
	out := EmptyBox()
	if b.IsEmpty() {
		return out
	}
	for i := range 8 {
		corner := mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if i&1 != 0 {
			corner[0] = b.Max.X()
		}
		if i&2 != 0 {
			corner[1] = b.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = b.Max.Z()
		}
		out.ExpandByPoint(mgl32.TransformCoordinate(corner, m))
	}
	return out
}

// Center returns the midpoint of the box, or the origin when empty.
func (b Box3) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent along each axis, or zero when empty.
func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// MaxDim returns the largest of the three extents.
func (b Box3) MaxDim() float32 {
	s := b.Size()
	return max(s.X(), s.Y(), s.Z())
}
