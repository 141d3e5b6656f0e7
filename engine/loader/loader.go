package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"golang.org/x/sync/singleflight"

	"github.com/Carmen-Shannon/oxy-ironman/engine/light"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// defaults for the worker pool running loads
const (
	defaultWorkers     = 2
	defaultQueueSize   = 16
	defaultIdleTimeout = 5 * time.Second
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	httpClient *http.Client
	pool       worker.DynamicWorkerPool
	workers    int
	taskID     atomic.Int64
	sfg        *singleflight.Group

	modelCache       map[string]model.Model
	environmentCache map[string]*light.EnvironmentMap

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching scene assets.
// Every load runs on a background worker and reports through a channel buffered to hold its
// single Result, so a caller that never reads does not leak the worker.
// Loads of the same path or URL that overlap share one fetch, and successful results are cached.
type Loader interface {
	// LoadModel imports a model file in the background.
	// The backend is selected based on the file extension (.gltf/.glb → glTF backend); any other
	// extension yields ErrUnsupportedFormat.
	//
	// Parameters:
	//   - ctx: cancels reading the file
	//   - path: the file path to the model file
	//   - onProgress: optional byte progress sink, called from the worker goroutine
	//
	// Returns:
	//   - <-chan Result[model.Model]: receives exactly one result
	LoadModel(ctx context.Context, path string, onProgress ProgressFunc) <-chan Result[model.Model]

	// LoadEnvironment fetches and decodes a Radiance RGBE environment map in the background.
	// http and https URLs are fetched with the loader's HTTP client, anything else is read from disk.
	// A response status of 400 or above yields an HTTPError, data that is not RGBE yields ErrNotHDR.
	//
	// Parameters:
	//   - ctx: cancels the request
	//   - url: the location of the .hdr file
	//
	// Returns:
	//   - <-chan Result[*light.EnvironmentMap]: receives exactly one result
	LoadEnvironment(ctx context.Context, url string) <-chan Result[*light.EnvironmentMap]

	// Get retrieves a cached model by path. Returns nil if not loaded.
	//
	// Parameters:
	//   - path: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(path string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by path
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers:          defaultWorkers,
		sfg:              new(singleflight.Group),
		modelCache:       make(map[string]model.Model),
		environmentCache: make(map[string]*light.EnvironmentMap),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	if l.httpClient == nil {
		l.httpClient = &http.Client{Transport: LoggedTransport{}}
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, defaultQueueSize, defaultIdleTimeout)
	return l
}

func (l *loader) LoadModel(ctx context.Context, path string, onProgress ProgressFunc) <-chan Result[model.Model] {
	if m := l.Get(path); m != nil {
		return deliver(m, nil)
	}
	if _, err := l.resolveBackend(path); err != nil {
		return deliver[model.Model](nil, err)
	}

	ch := make(chan Result[model.Model], 1)
	l.submit(func() (any, error) {
		x, err, _ := l.sfg.Do("model:"+path, func() (any, error) {
			return l.loadModel(ctx, path, onProgress)
		})
		m, _ := x.(model.Model)
		ch <- Result[model.Model]{Value: m, Err: err}
		return m, err
	})
	return ch
}

func (l *loader) LoadEnvironment(ctx context.Context, url string) <-chan Result[*light.EnvironmentMap] {
	l.mu.RLock()
	cached, ok := l.environmentCache[url]
	l.mu.RUnlock()
	if ok {
		return deliver(cached, nil)
	}

	ch := make(chan Result[*light.EnvironmentMap], 1)
	l.submit(func() (any, error) {
		x, err, _ := l.sfg.Do("env:"+url, func() (any, error) {
			env, err := l.loadEnvironment(ctx, url)
			if err != nil {
				return nil, err
			}
			l.mu.Lock()
			l.environmentCache[url] = env
			l.mu.Unlock()
			return env, nil
		})
		env, _ := x.(*light.EnvironmentMap)
		ch <- Result[*light.EnvironmentMap]{Value: env, Err: err}
		return env, err
	})
	return ch
}

func (l *loader) Get(path string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[path]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// submit runs fn on the worker pool.
func (l *loader) submit(fn func() (any, error)) {
	l.pool.SubmitTask(worker.Task{
		ID: int(l.taskID.Add(1)),
		Do: fn,
	})
}

func (l *loader) loadModel(ctx context.Context, path string, onProgress ProgressFunc) (model.Model, error) {
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	m, err := backend.Load(ctx, os.DirFS(dir), name, onProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	slog.Info("Model loaded", "path", path, "meshes", len(m.Meshes()), "elapsed", time.Since(start))
	return m, nil
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend != nil {
			return l.backend, nil
		}
	}
	return nil, fmt.Errorf("model %q: %w", ext, ErrUnsupportedFormat)
}
