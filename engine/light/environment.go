package light

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/mdouchement/hdr"
)

// ErrEmptyEnvironment is returned when an environment map has no pixels.
var ErrEmptyEnvironment = errors.New("environment map is empty")

// EnvironmentMap is a linear, high dynamic range image in equirectangular layout used for
// image based lighting. Pixels are tightly packed RGB triples, row-major from the top row.
// Installed once into the scene and never modified afterwards.
type EnvironmentMap struct {
	// Name identifies the source of the map, usually its URL.
	Name string

	Width  int
	Height int

	// Pixels holds Width*Height*3 linear RGB values.
	Pixels []float32
}

// NewEnvironmentMap creates an EnvironmentMap from packed RGB pixels.
//
// Parameters:
//   - name: identifier of the map
//   - width: width in texels
//   - height: height in texels
//   - pixels: Width*Height*3 linear RGB values
//
// Returns:
//   - *EnvironmentMap: the environment map
//   - error: ErrEmptyEnvironment for a zero size, or a size mismatch error
func NewEnvironmentMap(name string, width, height int, pixels []float32) (*EnvironmentMap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyEnvironment
	}
	if len(pixels) != width*height*3 {
		return nil, fmt.Errorf("environment map %s: want %d values, got %d", name, width*height*3, len(pixels))
	}
	return &EnvironmentMap{Name: name, Width: width, Height: height, Pixels: pixels}, nil
}

// FromImage converts a decoded image into an EnvironmentMap. HDR images keep their full
// float range; any other image is treated as sRGB-encoded and linearized.
//
// Parameters:
//   - name: identifier of the map
//   - img: the decoded image
//
// Returns:
//   - *EnvironmentMap: the environment map
//   - error: ErrEmptyEnvironment if the image has no pixels
func FromImage(name string, img image.Image) (*EnvironmentMap, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyEnvironment
	}
	pixels := make([]float32, 0, w*h*3)
	if hi, ok := img.(hdr.Image); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := hi.HDRAt(x, y).HDRRGBA()
				pixels = append(pixels, float32(r), float32(g), float32(bl))
			}
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				pixels = append(pixels, srgbToLinear(r), srgbToLinear(g), srgbToLinear(bl))
			}
		}
	}
	return NewEnvironmentMap(name, w, h, pixels)
}

// At returns the linear RGB value of the texel at (x, y). Coordinates are clamped to the map.
//
// Parameters:
//   - x: column
//   - y: row
//
// Returns:
//   - [3]float32: the texel color
func (e *EnvironmentMap) At(x, y int) [3]float32 {
	x = min(max(x, 0), e.Width-1)
	y = min(max(y, 0), e.Height-1)
	i := (y*e.Width + x) * 3
	return [3]float32{e.Pixels[i], e.Pixels[i+1], e.Pixels[i+2]}
}

// Downsample returns a map half the size in each dimension (minimum 1) where every texel is
// the average of the 2x2 block it covers.
//
// Returns:
//   - *EnvironmentMap: the downsampled map
func (e *EnvironmentMap) Downsample() *EnvironmentMap {
	w, h := max(e.Width/2, 1), max(e.Height/2, 1)
	out := make([]float32, w*h*3)
	for y := range h {
		for x := range w {
			var sum [3]float32
			for dy := range 2 {
				for dx := range 2 {
					c := e.At(x*2+dx, y*2+dy)
					sum[0] += c[0]
					sum[1] += c[1]
					sum[2] += c[2]
				}
			}
			i := (y*w + x) * 3
			out[i], out[i+1], out[i+2] = sum[0]/4, sum[1]/4, sum[2]/4
		}
	}
	return &EnvironmentMap{Name: e.Name, Width: w, Height: h, Pixels: out}
}

// MipChain returns the map followed by successive Downsample levels down to 1x1.
// Rough surfaces and diffuse lighting sample the lower levels.
//
// Returns:
//   - []*EnvironmentMap: the levels, largest first
func (e *EnvironmentMap) MipChain() []*EnvironmentMap {
	chain := []*EnvironmentMap{e}
	for cur := e; cur.Width > 1 || cur.Height > 1; {
		cur = cur.Downsample()
		chain = append(chain, cur)
	}
	return chain
}

func srgbToLinear(v uint32) float32 {
	c := float64(v) / 0xffff
	if c <= 0.04045 {
		return float32(c / 12.92)
	}
	return float32(math.Pow((c+0.055)/1.055, 2.4))
}
