package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/bind_group_provider"
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name             string
	baseColor        [4]float32
	emissive         common.Color
	metallic         float32
	roughness        float32
	baseColorTexture *common.ImportedTexture

	bindGroupProvider bind_group_provider.BindGroupProvider
	dirty             bool
}

// Material defines the interface for a physically based surface, encapsulating the base color,
// emissive color, metal/rough factors and the GPU resources needed to draw with it.
//
// Surface properties are imported from the model file and may be overridden afterwards with
// SetColor and SetEmissive. Any change marks the material dirty so the renderer re-uploads its
// uniform before the next draw.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// Emissive retrieves the emitted linear RGB color.
	//
	// Returns:
	//   - common.Color: the emissive color
	Emissive() common.Color

	// Metallic retrieves the metallic factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// BaseColorTexture retrieves the albedo texture, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the base color texture, or nil
	BaseColorTexture() *common.ImportedTexture

	// SetColor replaces the RGB part of the base color, keeping the current alpha.
	//
	// Parameters:
	//   - c: the new base color
	SetColor(c common.Color)

	// SetEmissive replaces the emissive color.
	//
	// Parameters:
	//   - c: the new emissive color
	SetEmissive(c common.Color)

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)

	// Uniform returns the GPU representation of the surface factors and clears the dirty flag.
	//
	// Returns:
	//   - GPUMaterialUniform: the uniform block
	//   - bool: true if the material changed since the previous call
	Uniform() (GPUMaterialUniform, bool)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults follow the glTF specification: white, fully metallic, fully rough, no emission.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:        &sync.Mutex{},
		baseColor: [4]float32{1, 1, 1, 1},
		metallic:  1.0,
		roughness: 1.0,
		dirty:     true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseColor
}

func (m *material) Emissive() common.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emissive
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) BaseColorTexture() *common.ImportedTexture {
	return m.baseColorTexture
}

func (m *material) SetColor(c common.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseColor = [4]float32{c[0], c[1], c[2], m.baseColor[3]}
	m.dirty = true
}

func (m *material) SetEmissive(c common.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emissive = c
	m.dirty = true
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindGroupProvider = provider
	m.dirty = true
}

func (m *material) Uniform() (GPUMaterialUniform, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	changed := m.dirty
	m.dirty = false
	return GPUMaterialUniform{
		BaseColor: m.baseColor,
		Emissive:  [3]float32(m.emissive),
		Metallic:  m.metallic,
		Roughness: m.roughness,
	}, changed
}
