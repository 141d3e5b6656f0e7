package interaction

import (
	"time"

	"github.com/tanema/gween/ease"
)

// PointerBuilderOption is a functional option for configuring a Pointer.
type PointerBuilderOption func(*pointer)

// WithFactor sets the rotation range in radians across the full viewport.
//
// Parameters:
//   - factor: the rotation range
//
// Returns:
//   - PointerBuilderOption: functional option to set the factor
func WithFactor(factor float32) PointerBuilderOption {
	return func(p *pointer) {
		p.factor = factor
	}
}

// WithDuration sets how long each rotation tween runs.
//
// Parameters:
//   - d: the tween duration
//
// Returns:
//   - PointerBuilderOption: functional option to set the duration
func WithDuration(d time.Duration) PointerBuilderOption {
	return func(p *pointer) {
		p.duration = d
	}
}

// WithEasing sets the easing curve of the rotation tweens.
//
// Parameters:
//   - fn: the easing function
//
// Returns:
//   - PointerBuilderOption: functional option to set the easing
func WithEasing(fn ease.TweenFunc) PointerBuilderOption {
	return func(p *pointer) {
		if fn != nil {
			p.easing = fn
		}
	}
}
