package loader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/material"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	mu   sync.Mutex
	doc  *gltf.Document
	fsys fs.FS

	materials map[int]material.Material
	fallback  material.Material
}

// gltfMaterialExtractor resolves glTF material indices into shared engine Materials.
// Primitives referencing the same index receive the same Material instance.
type gltfMaterialExtractor interface {
	// Material returns the Material for a glTF material index, extracting it on first use.
	// Invalid or negative indices resolve to a shared default material.
	//
	// Parameters:
	//   - materialIndex: the index of the material in the document, or -1
	//
	// Returns:
	//   - material.Material: the material
	Material(materialIndex int) material.Material
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a decoded document.
//
// Parameters:
//   - doc: the decoded document
//   - fsys: resolves external image URIs
//
// Returns:
//   - gltfMaterialExtractor: the material extractor
func newGLTFMaterialExtractor(doc *gltf.Document, fsys fs.FS) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{
		doc:       doc,
		fsys:      fsys,
		materials: make(map[int]material.Material),
	}
}

func (e *gltfMaterialExtractorImpl) Material(materialIndex int) material.Material {
	e.mu.Lock()
	defer e.mu.Unlock()

	if materialIndex < 0 || materialIndex >= len(e.doc.Materials) || e.doc.Materials[materialIndex] == nil {
		if e.fallback == nil {
			e.fallback = material.NewMaterial(material.WithName("default"))
		}
		return e.fallback
	}
	if m, ok := e.materials[materialIndex]; ok {
		return m
	}
	m := e.extract(materialIndex)
	e.materials[materialIndex] = m
	return m
}

func (e *gltfMaterialExtractorImpl) extract(materialIndex int) material.Material {
	src := e.doc.Materials[materialIndex]
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("material_%d", materialIndex)
	}

	opts := []material.MaterialBuilderOption{
		material.WithName(name),
		material.WithEmissive(common.RGB(
			float32(src.EmissiveFactor[0]),
			float32(src.EmissiveFactor[1]),
			float32(src.EmissiveFactor[2]),
		)),
	}
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		c := pbr.BaseColorFactorOrDefault()
		opts = append(opts,
			material.WithBaseColor([4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}),
			material.WithMetallic(float32(pbr.MetallicFactorOrDefault())),
			material.WithRoughness(float32(pbr.RoughnessFactorOrDefault())),
		)
		if pbr.BaseColorTexture != nil {
			tex, err := e.loadTexture(pbr.BaseColorTexture.Index)
			if err != nil {
				// a missing image leaves the material untextured rather than failing the model
				slog.Warn("Skipping base color texture", "material", name, "error", err)
			} else if tex != nil {
				opts = append(opts, material.WithBaseColorTexture(tex))
			}
		}
	}
	return material.NewMaterial(opts...)
}

// loadTexture resolves a glTF texture index into an ImportedTexture holding the encoded image.
// Images may live in a buffer view (common in GLB), in a data URI or in a sibling file.
func (e *gltfMaterialExtractorImpl) loadTexture(textureIndex int) (*common.ImportedTexture, error) {
	doc := e.doc
	if textureIndex < 0 || textureIndex >= len(doc.Textures) || doc.Textures[textureIndex] == nil {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}
	tex := doc.Textures[textureIndex]
	if tex.Source == nil {
		return nil, nil
	}
	if *tex.Source < 0 || *tex.Source >= len(doc.Images) || doc.Images[*tex.Source] == nil {
		return nil, fmt.Errorf("image index %d out of range", *tex.Source)
	}
	img := doc.Images[*tex.Source]

	result := &common.ImportedTexture{
		Name:     img.Name,
		MimeType: img.MimeType,
	}
	if tex.Sampler != nil && *tex.Sampler >= 0 && *tex.Sampler < len(doc.Samplers) && doc.Samplers[*tex.Sampler] != nil {
		result.Sampler = gltfSamplerToStagingData(doc.Samplers[*tex.Sampler])
	}

	switch {
	case img.BufferView != nil:
		if *img.BufferView < 0 || *img.BufferView >= len(doc.BufferViews) {
			return nil, fmt.Errorf("bufferView index %d out of range", *img.BufferView)
		}
		data, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("failed to read image buffer view: %w", err)
		}
		result.Data = data
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data URI: %w", err)
		}
		result.Data = data
	case img.URI != "":
		p, err := url.PathUnescape(img.URI)
		if err != nil {
			p = img.URI
		}
		data, err := fs.ReadFile(e.fsys, path.Clean(p))
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", img.URI, err)
		}
		result.Data = data
	default:
		return nil, nil
	}
	if result.Name == "" {
		result.Name = fmt.Sprintf("texture_%d", textureIndex)
	}
	return result, nil
}

// gltfSamplerToStagingData converts a glTF sampler definition into engine-ready SamplerStagingData.
// Any unset fields in the glTF sampler fall back to linear filtering and repeat wrapping.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-sampler
//
// Parameters:
//   - s: the glTF sampler to convert
//
// Returns:
//   - *common.SamplerStagingData: the converted sampler staging data
func gltfSamplerToStagingData(s *gltf.Sampler) *common.SamplerStagingData {
	result := &common.SamplerStagingData{
		AddressModeU:  gltfWrapToAddressMode(s.WrapS),
		AddressModeV:  gltfWrapToAddressMode(s.WrapT),
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
	if s.MagFilter == gltf.MagNearest {
		result.MagFilter = wgpu.FilterModeNearest
	}
	switch s.MinFilter {
	case gltf.MinNearest, gltf.MinNearestMipMapNearest, gltf.MinNearestMipMapLinear:
		result.MinFilter = wgpu.FilterModeNearest
	}
	switch s.MinFilter {
	case gltf.MinNearestMipMapNearest, gltf.MinLinearMipMapNearest, gltf.MinNearest, gltf.MinLinear:
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	}
	return result
}

// gltfWrapToAddressMode converts a glTF wrap mode to a wgpu AddressMode.
func gltfWrapToAddressMode(wrap gltf.WrappingMode) wgpu.AddressMode {
	switch wrap {
	case gltf.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltf.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}
