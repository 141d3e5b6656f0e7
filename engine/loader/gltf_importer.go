package loader

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
)

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter defines the interface for orchestrating a glTF/GLB import.
// It decodes the document and combines the mesh and material extractors into a Model.
type gltfImporter interface {
	// Import decodes a glTF or GLB file and extracts its node hierarchy, meshes and materials.
	//
	// Parameters:
	//   - ctx: cancels reading
	//   - fsys: the directory holding the file and its referenced buffers and images
	//   - name: the file name within fsys
	//   - onProgress: optional byte progress sink
	//
	// Returns:
	//   - model.Model: the imported model
	//   - error: error if import fails
	Import(ctx context.Context, fsys fs.FS, name string, onProgress ProgressFunc) (model.Model, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(ctx context.Context, fsys fs.FS, name string, onProgress ProgressFunc) (model.Model, error) {
	tracker := newProgressTracker(ctx, onProgress)
	cfs := countingFS{fsys: fsys, p: tracker}

	f, err := cfs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(f, cfs).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	materials := newGLTFMaterialExtractor(doc, cfs)
	meshes := newGLTFMeshExtractor(doc, materials)

	// each glTF mesh becomes one model.Mesh per primitive
	var allMeshes []*model.Mesh
	primitives := make([][]int, len(doc.Meshes))
	for i := range doc.Meshes {
		extracted, err := meshes.ExtractMesh(i)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		for _, m := range extracted {
			primitives[i] = append(primitives[i], len(allMeshes))
			allMeshes = append(allMeshes, m)
		}
	}
	if len(allMeshes) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoMeshes)
	}

	nodes := make([]model.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n == nil {
			nodes[i] = model.Node{Local: mgl32.Ident4()}
			continue
		}
		node := model.Node{
			Name:     n.Name,
			Local:    gltfNodeLocal(n),
			Children: gltfValidIndices(n.Children, len(doc.Nodes)),
		}
		if n.Mesh != nil && *n.Mesh >= 0 && *n.Mesh < len(primitives) {
			node.Meshes = primitives[*n.Mesh]
		}
		nodes[i] = node
	}

	options := []model.ModelBuilderOption{
		model.WithName(gltfExtractModelName(doc, name)),
		model.WithNodes(nodes),
		model.WithMeshes(allMeshes),
	}
	if roots := gltfSceneRoots(doc); roots != nil {
		options = append(options, model.WithRoots(roots))
	}
	return model.NewModel(options...), nil
}

// gltfNodeLocal returns the node transform, preferring an explicit matrix over TRS properties.
func gltfNodeLocal(n *gltf.Node) mgl32.Mat4 {
	if m := n.MatrixOrDefault(); m != identityMatrix {
		var out mgl32.Mat4
		for i, v := range m {
			out[i] = float32(v)
		}
		return out
	}
	t, r, s := n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
	return common.TRSMatrix(
		[3]float32{float32(t[0]), float32(t[1]), float32(t[2])},
		[4]float32{float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3])},
		[3]float32{float32(s[0]), float32(s[1]), float32(s[2])},
	)
}

// gltfSceneRoots returns the node list of the default scene, or of the first scene when no default
// is declared. Returns nil for documents without scenes so the model falls back to parentless nodes.
func gltfSceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	idx := 0
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		idx = *doc.Scene
	}
	if doc.Scenes[idx] == nil {
		return nil
	}
	return gltfValidIndices(doc.Scenes[idx].Nodes, len(doc.Nodes))
}

// gltfExtractModelName derives a model name from the default scene or a file name fallback.
func gltfExtractModelName(doc *gltf.Document, fallback string) string {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) && doc.Scenes[*doc.Scene] != nil {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "unnamed_model"
}

func gltfValidIndices(indices []int, n int) []int {
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < n {
			out = append(out, i)
		}
	}
	return out
}
