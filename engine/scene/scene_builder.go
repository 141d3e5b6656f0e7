package scene

import "github.com/Carmen-Shannon/oxy-ironman/common"

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithTint sets the base color and emissive color applied to every material of an installed model.
//
// Parameters:
//   - color: the base color
//   - emissive: the emissive color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTint(color, emissive common.Color) SceneBuilderOption {
	return func(s *scene) {
		s.tint = color
		s.emissive = emissive
	}
}

// WithTargetSize sets the largest dimension an installed model is scaled to.
//
// Parameters:
//   - size: the target size, non-positive values are ignored
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTargetSize(size float32) SceneBuilderOption {
	return func(s *scene) {
		if size > 0 {
			s.targetSize = size
		}
	}
}

// WithClearColor sets the RGBA color frames are cleared to. The default is fully transparent black.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithClearColor(c [4]float64) SceneBuilderOption {
	return func(s *scene) {
		s.clearColor = c
	}
}

// WithExposure sets the tone mapping exposure.
//
// Parameters:
//   - exposure: the exposure multiplier
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithExposure(exposure float32) SceneBuilderOption {
	return func(s *scene) {
		s.exposure = exposure
	}
}

// WithEnvironmentIntensity sets the multiplier applied to environment lighting.
//
// Parameters:
//   - intensity: the intensity
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEnvironmentIntensity(intensity float32) SceneBuilderOption {
	return func(s *scene) {
		s.envIntensity = intensity
	}
}
