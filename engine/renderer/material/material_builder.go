package material

import (
	"github.com/Carmen-Shannon/oxy-ironman/common"
)

// MaterialBuilderOption is a functional option used to configure a Material during construction.
type MaterialBuilderOption func(*material)

// WithName sets the identifier of the material.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: a function that sets the material name
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor sets the albedo RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA values
//
// Returns:
//   - MaterialBuilderOption: a function that sets the base color
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithEmissive sets the emitted linear RGB color.
//
// Parameters:
//   - color: the emissive color
//
// Returns:
//   - MaterialBuilderOption: a function that sets the emissive color
func WithEmissive(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.emissive = color
	}
}

// WithMetallic sets the metallic factor, clamped to [0, 1].
//
// Parameters:
//   - metallic: the metallic factor
//
// Returns:
//   - MaterialBuilderOption: a function that sets the metallic factor
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallic = common.Clamp(metallic, 0, 1)
	}
}

// WithRoughness sets the roughness factor, clamped to [0, 1].
//
// Parameters:
//   - roughness: the roughness factor
//
// Returns:
//   - MaterialBuilderOption: a function that sets the roughness factor
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = common.Clamp(roughness, 0, 1)
	}
}

// WithBaseColorTexture sets the albedo texture sampled and multiplied by the base color.
//
// Parameters:
//   - tex: the imported texture
//
// Returns:
//   - MaterialBuilderOption: a function that sets the base color texture
func WithBaseColorTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.baseColorTexture = tex
	}
}
