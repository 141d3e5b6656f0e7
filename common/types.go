// package common contains plain value types and math helpers shared across the engine. They are not interface-wrapped
// structs, just data that crosses package boundaries between the loader, the scene and the renderer.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cogentcore/webgpu/wgpu"
)

// Color is a linear RGB color with components nominally in [0, 1].
type Color [3]float32

// RGB constructs a Color from its components.
func RGB(r, g, b float32) Color {
	return Color{r, g, b}
}

// TextureStagingData holds pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the raw pixel data, tightly packed row by row.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
	// Format is the GPU texel format of Pixels. The zero value is treated as RGBA8UnormSrgb.
	Format wgpu.TextureFormat
	// BytesPerPixel is the size of one texel in Pixels. The zero value is treated as 4.
	BytesPerPixel uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	MaxAnisotropy                            uint16
}

// ImportedTexture is an encoded image extracted from a model file, either embedded in a buffer,
// inlined as a data URI, or read from a sibling file. Data always holds the encoded bytes.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g. "baseColor").
	Name string

	// Data contains the encoded image bytes (PNG/JPEG).
	Data []byte

	// MimeType indicates the image format (e.g. "image/png").
	MimeType string

	// Sampler holds sampler parameters declared by the model file, or nil for defaults.
	Sampler *SamplerStagingData
}

// Decode decodes the texture to 8-bit sRGB RGBA pixels ready for upload.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - TextureStagingData: the decoded pixels and dimensions
//   - error: error if the texture is empty or decoding fails
func (t *ImportedTexture) Decode() (TextureStagingData, error) {
	if t == nil || len(t.Data) == 0 {
		return TextureStagingData{}, fmt.Errorf("texture has no data")
	}

	img, _, err := image.Decode(bytes.NewReader(t.Data))
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode texture %q: %w", t.Name, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels:        rgba.Pix,
		Width:         uint32(bounds.Dx()),
		Height:        uint32(bounds.Dy()),
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		BytesPerPixel: 4,
	}, nil
}

// SolidTexture returns a 1x1 RGBA8 texture filled with the given 8-bit color.
// Used as a stand-in wherever a material or environment has no image bound.
//
// Parameters:
//   - r, g, b, a: channel values
//
// Returns:
//   - TextureStagingData: a single-texel staging texture
func SolidTexture(r, g, b, a uint8) TextureStagingData {
	return TextureStagingData{
		Pixels:        []byte{r, g, b, a},
		Width:         1,
		Height:        1,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		BytesPerPixel: 4,
	}
}
