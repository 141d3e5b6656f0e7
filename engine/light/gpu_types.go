package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/x448/float16"
)

// BytesPerTexelRGBA16F is the texel size of the environment texture format.
const BytesPerTexelRGBA16F = 8

// maxHalf is the largest finite half-float value.
const maxHalf = 65504

// RGBA16Float packs the map into half-float RGBA texels (alpha 1) for upload to an
// rgba16float texture, which is filterable on every WebGPU adapter.
//
// Returns:
//   - []byte: Width*Height*8 bytes, little endian
func (e *EnvironmentMap) RGBA16Float() []byte {
	n := e.Width * e.Height
	buf := make([]byte, n*BytesPerTexelRGBA16F)
	one := float16.Fromfloat32(1).Bits()
	for i := range n {
		o := i * BytesPerTexelRGBA16F
		for c := range 3 {
			v := e.Pixels[i*3+c]
			if math.IsNaN(float64(v)) || v < 0 {
				v = 0
			}
			v = min(v, maxHalf)
			binary.LittleEndian.PutUint16(buf[o+c*2:], float16.Fromfloat32(v).Bits())
		}
		binary.LittleEndian.PutUint16(buf[o+6:], one)
	}
	return buf
}

// GPULightingUniformSource is the WGSL LightingUniform struct matching GPULightingUniform.
//
//go:embed assets/lighting_uniform.wgsl
var GPULightingUniformSource string

// GPULightingUniform carries the image based lighting parameters to the mesh shader.
// Size: 16 bytes.
type GPULightingUniform struct {
	Exposure       float32 // offset  0: tone mapping exposure
	Intensity      float32 // offset  4: environment light multiplier
	MaxMip         float32 // offset  8: index of the smallest environment mip level
	HasEnvironment float32 // offset 12: 1 when an environment map is bound, else 0
}

// Size returns the size of the GPULightingUniform struct in bytes.
func (g *GPULightingUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer
func (g *GPULightingUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Exposure))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.Intensity))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.MaxMip))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.HasEnvironment))
	return buf
}
