package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialUniformSource is the WGSL MaterialUniform struct matching GPUMaterialUniform.
//
//go:embed assets/material_uniform.wgsl
var GPUMaterialUniformSource string

// GPUMaterialUniform is the GPU-aligned uniform for the mesh fragment shader.
// Matches the WGSL MaterialUniform struct in the mesh shader.
// Size: 48 bytes (std140 aligned).
type GPUMaterialUniform struct {
	BaseColor [4]float32 // offset  0: albedo RGBA (vec4<f32>)
	Emissive  [3]float32 // offset 16: emitted linear RGB (vec3<f32>)
	Metallic  float32    // offset 28: metallic factor (f32)
	Roughness float32    // offset 32: roughness factor (f32)
	_pad      [3]float32 // offset 36: padding to 48 bytes
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.BaseColor[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Emissive[i]))
	}
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(g.Metallic))
	binary.LittleEndian.PutUint32(buf[32:], math.Float32bits(g.Roughness))
	return buf
}
