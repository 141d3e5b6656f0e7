package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPURGBShiftUniform is the GPU-aligned uniform of the RGB shift pass.
// Matches the WGSL ShiftParams struct in rgb_shift.wgsl.
// Size: 16 bytes.
type GPURGBShiftUniform struct {
	Amount float32    // offset 0: offset length in UV units
	Angle  float32    // offset 4: offset direction in radians
	_pad   [2]float32 // offset 8: padding to 16 bytes
}

// Size returns the size of the GPURGBShiftUniform struct in bytes.
func (g *GPURGBShiftUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer
func (g *GPURGBShiftUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Amount))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.Angle))
	return buf
}
