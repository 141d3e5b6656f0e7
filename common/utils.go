package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to the closed range [lo, hi].
func Clamp[T ~float32 | ~float64 | ~int](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// MaxPixelRatio caps the framebuffer-to-window scale used for rendering.
const MaxPixelRatio = 2.0

// PixelRatio returns the device pixel ratio clamped to [1, MaxPixelRatio].
//
// Parameters:
//   - contentScale: the platform-reported content scale (DPI factor)
//
// Returns:
//   - float32: the ratio the renderer should use
func PixelRatio(contentScale float32) float32 {
	if contentScale <= 0 {
		return 1
	}
	return Clamp(contentScale, 1, MaxPixelRatio)
}

// ScaledSize converts a logical window size to the render size for the given pixel ratio.
//
// Parameters:
//   - width, height: logical size in screen coordinates
//   - ratio: the pixel ratio from PixelRatio
//
// Returns:
//   - int, int: the render size in pixels, each at least 1 when the input is non-zero
func ScaledSize(width, height int, ratio float32) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	w := max(int(float32(width)*ratio), 1)
	h := max(int(float32(height)*ratio), 1)
	return w, h
}
