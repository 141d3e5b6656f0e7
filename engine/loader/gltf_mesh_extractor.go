package loader

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	doc       *gltf.Document
	materials gltfMaterialExtractor
}

// gltfMeshExtractor defines the interface for extracting mesh primitives from a decoded glTF document.
type gltfMeshExtractor interface {
	// ExtractMesh extracts every triangle primitive of a mesh. Non-triangle primitives are skipped.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh in the document
	//
	// Returns:
	//   - []*model.Mesh: one mesh per primitive
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]*model.Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a decoded document.
//
// Parameters:
//   - doc: the decoded document
//   - materials: resolves primitive material indices
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(doc *gltf.Document, materials gltfMaterialExtractor) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{doc: doc, materials: materials}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]*model.Mesh, error) {
	if meshIndex < 0 || meshIndex >= len(e.doc.Meshes) || e.doc.Meshes[meshIndex] == nil {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}
	mesh := e.doc.Meshes[meshIndex]
	meshName := mesh.Name
	if meshName == "" {
		meshName = fmt.Sprintf("mesh_%d", meshIndex)
	}

	var result []*model.Mesh
	for i, prim := range mesh.Primitives {
		if prim == nil || prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		m, err := e.extractPrimitive(prim, fmt.Sprintf("%s/%d", meshName, i))
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		result = append(result, m)
	}
	return result, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltf.Primitive, name string) (*model.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	posAcc, err := e.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(e.doc, posAcc, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	vertices := make([]model.GPUVertex, len(positions))
	for i, p := range positions {
		vertices[i].Position = p
	}

	hasNormals := false
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := e.accessor(idx)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(e.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
		for i := range min(len(normals), len(vertices)) {
			vertices[i].Normal = normals[i]
		}
		hasNormals = true
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := e.accessor(idx)
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(e.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
		for i := range min(len(uvs), len(vertices)) {
			vertices[i].TexCoord = uvs[i]
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acc, err := e.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(e.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
		indices = dropOutOfRange(indices, uint32(len(vertices)))
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	indices = indices[:len(indices)-len(indices)%3]

	if !hasNormals {
		generateNormals(vertices, indices)
	}

	materialIndex := -1
	if prim.Material != nil {
		materialIndex = *prim.Material
	}

	return &model.Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Material: e.materials.Material(materialIndex),
		Bounds:   model.ComputeBounds(vertices),
	}, nil
}

func (e *gltfMeshExtractorImpl) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(e.doc.Accessors) || e.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return e.doc.Accessors[idx], nil
}

// dropOutOfRange removes every triangle that references a vertex outside [0, n).
func dropOutOfRange(indices []uint32, n uint32) []uint32 {
	out := indices[:0]
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a < n && b < n && c < n {
			out = append(out, a, b, c)
		}
	}
	return out
}

// generateNormals computes smooth per-vertex normals by accumulating area-weighted face normals.
//
// Parameters:
//   - vertices: the vertex slice to write normals into
//   - indices: the triangle index buffer
func generateNormals(vertices []model.GPUVertex, indices []uint32) {
	accum := make([][3]float32, len(vertices))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0, p1, p2 := vertices[i0].Position, vertices[i1].Position, vertices[i2].Position

		edge1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		edge2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}

		// cross product, length proportional to triangle area
		face := [3]float32{
			edge1[1]*edge2[2] - edge1[2]*edge2[1],
			edge1[2]*edge2[0] - edge1[0]*edge2[2],
			edge1[0]*edge2[1] - edge1[1]*edge2[0],
		}
		for _, idx := range []uint32{i0, i1, i2} {
			accum[idx][0] += face[0]
			accum[idx][1] += face[1]
			accum[idx][2] += face[2]
		}
	}

	for i, a := range accum {
		length := float32(math.Sqrt(float64(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])))
		if length < 1e-6 {
			vertices[i].Normal = [3]float32{0, 1, 0}
			continue
		}
		vertices[i].Normal = [3]float32{a[0] / length, a[1] / length, a[2] / length}
	}
}
