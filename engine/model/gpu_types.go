package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertexSource is the WGSL VertexInput struct matching GPUVertex.
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the VertexInput struct of the mesh shader.
// Size: 32 bytes (tightly packed, no padding required).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.marshalInto(buf)
	return buf
}

func (g *GPUVertex) marshalInto(buf []byte) {
	fields := [8]float32{
		g.Position[0], g.Position[1], g.Position[2],
		g.Normal[0], g.Normal[1], g.Normal[2],
		g.TexCoord[0], g.TexCoord[1],
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
}

// MarshalVertices packs a vertex slice into one contiguous upload buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*32 bytes
func MarshalVertices(vertices []GPUVertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	stride := vertices[0].Size()
	buf := make([]byte, stride*len(vertices))
	for i := range vertices {
		vertices[i].marshalInto(buf[i*stride:])
	}
	return buf
}

// MarshalIndices packs 32-bit indices little-endian.
//
// Parameters:
//   - indices: the index list
//
// Returns:
//   - []byte: len(indices)*4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// VertexBufferLayout describes GPUVertex to the render pipeline: position at location 0,
// normal at location 1 and texture coordinate at location 2.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for vertex buffer slot 0
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 32,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// GPUObjectUniformSource is the WGSL ObjectUniform struct matching GPUObjectUniform.
//
//go:embed assets/object_uniform.wgsl
var GPUObjectUniformSource string

// GPUObjectUniform is the per-draw uniform carrying the world transform of one mesh.
// Size: 128 bytes.
type GPUObjectUniform struct {
	Model  [16]float32 // offset  0: model-to-world matrix (mat4x4<f32>)
	Normal [16]float32 // offset 64: inverse transpose of Model (mat4x4<f32>)
}

// NewGPUObjectUniform builds the uniform for a world transform.
//
// Parameters:
//   - world: the model-to-world matrix
//   - normal: the matrix used to transform normals
//
// Returns:
//   - GPUObjectUniform: the uniform block
func NewGPUObjectUniform(world, normal mgl32.Mat4) GPUObjectUniform {
	return GPUObjectUniform{Model: world, Normal: normal}
}

// Size returns the size of the GPUObjectUniform struct in bytes.
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer
func (g *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Normal[i]))
	}
	return buf
}
