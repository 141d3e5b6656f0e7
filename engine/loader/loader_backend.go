package loader

import (
	"context"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
)

// loaderBackend defines the generic interface for decoding a model file into a Model.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load decodes the named file from fsys. Files the model references (buffers, images) are
	// resolved relative to fsys as well.
	//
	// Parameters:
	//   - ctx: cancels reading
	//   - fsys: the directory holding the model and its sibling files
	//   - name: the model file name within fsys
	//   - onProgress: optional byte progress sink
	//
	// Returns:
	//   - model.Model: the decoded model
	//   - error: error if decoding fails
	Load(ctx context.Context, fsys fs.FS, name string, onProgress ProgressFunc) (model.Model, error)
}
