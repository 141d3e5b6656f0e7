package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-ironman/engine/loader"
)

func receive[T any](t *testing.T, ch <-chan loader.Result[T]) loader.Result[T] {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for load result")
	}
	panic("unreachable")
}

func TestLoadModel(t *testing.T) {
	ctx := context.Background()

	t.Run("should import nodes, meshes and materials from gltf", func(t *testing.T) {
		l := loader.NewLoader(loader.BackendTypeGLTF)

		r := receive(t, l.LoadModel(ctx, filepath.Join("testdata", "box.gltf"), nil))

		require.NoError(t, r.Err)
		m := r.Value
		assert.Equal(t, "box", m.Name())
		require.Len(t, m.Meshes(), 1)
		assert.Len(t, m.Meshes()[0].Indices, 36)
		assert.Len(t, m.Nodes(), 2)
		assert.Equal(t, []int{0}, m.Roots())

		bounds := m.Bounds()
		assert.True(t, bounds.Size().ApproxEqual(mgl32.Vec3{2, 4, 1}))
		assert.True(t, bounds.Center().ApproxEqual(mgl32.Vec3{2, 2, 0.5}))

		mats := m.Materials()
		require.Len(t, mats, 1)
		assert.Equal(t, "paint", mats[0].Name())
		assert.Equal(t, float32(0.2), mats[0].Metallic())
		assert.Equal(t, float32(0.7), mats[0].Roughness())
		assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 1}, mats[0].BaseColor())
	})
	t.Run("should generate normals when the file has none", func(t *testing.T) {
		l := loader.NewLoader(loader.BackendTypeGLTF)
		r := receive(t, l.LoadModel(ctx, filepath.Join("testdata", "box.gltf"), nil))
		require.NoError(t, r.Err)
		for _, v := range r.Value.Meshes()[0].Vertices {
			n := mgl32.Vec3(v.Normal)
			assert.InDelta(t, 1, n.Len(), 1e-5)
		}
	})
	t.Run("should report progress over referenced files", func(t *testing.T) {
		l := loader.NewLoader(loader.BackendTypeGLTF)
		var mu sync.Mutex
		var lastLoaded, lastTotal int64
		calls := 0
		progress := func(loaded, total int64) {
			mu.Lock()
			defer mu.Unlock()
			lastLoaded, lastTotal = loaded, total
			calls++
		}

		r := receive(t, l.LoadModel(ctx, filepath.Join("testdata", "box_external.gltf"), progress))

		require.NoError(t, r.Err)
		main, err := os.Stat(filepath.Join("testdata", "box_external.gltf"))
		require.NoError(t, err)
		bin, err := os.Stat(filepath.Join("testdata", "box.bin"))
		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.Greater(t, calls, 1)
		assert.Equal(t, main.Size()+bin.Size(), lastTotal)
		assert.Positive(t, lastLoaded)
		assert.LessOrEqual(t, lastLoaded, lastTotal)
	})
	t.Run("should return cached model on second load", func(t *testing.T) {
		p := filepath.Join("testdata", "box.gltf")
		l := loader.NewLoader(loader.BackendTypeGLTF)
		first := receive(t, l.LoadModel(ctx, p, nil))
		require.NoError(t, first.Err)

		second := receive(t, l.LoadModel(ctx, p, nil))

		require.NoError(t, second.Err)
		assert.Same(t, first.Value.Meshes()[0], second.Value.Meshes()[0])
		assert.NotNil(t, l.Get(p))
		assert.Len(t, l.Models(), 1)
	})
	t.Run("should reject unknown extensions", func(t *testing.T) {
		l := loader.NewLoader(loader.BackendTypeGLTF)
		r := receive(t, l.LoadModel(ctx, "scene.fbx", nil))
		assert.ErrorIs(t, r.Err, loader.ErrUnsupportedFormat)
		assert.Nil(t, r.Value)
	})
	t.Run("should fail for models without meshes", func(t *testing.T) {
		l := loader.NewLoader(loader.BackendTypeGLTF)
		r := receive(t, l.LoadModel(ctx, filepath.Join("testdata", "empty.gltf"), nil))
		assert.ErrorIs(t, r.Err, loader.ErrNoMeshes)
	})
	t.Run("should fail for missing files", func(t *testing.T) {
		l := loader.NewLoader(loader.BackendTypeGLTF)
		r := receive(t, l.LoadModel(ctx, filepath.Join("testdata", "missing.gltf"), nil))
		assert.ErrorIs(t, r.Err, os.ErrNotExist)
		assert.Nil(t, l.Get(filepath.Join("testdata", "missing.gltf")))
	})
	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		l := loader.NewLoader(loader.BackendTypeGLTF)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		r := receive(t, l.LoadModel(cctx, filepath.Join("testdata", "box.gltf"), nil))
		assert.True(t, errors.Is(r.Err, context.Canceled))
	})
	t.Run("log progress tolerates unknown totals", func(t *testing.T) {
		p := loader.LogProgress("x")
		assert.NotPanics(t, func() {
			p(10, 0)
			p(5, 10)
			p(10, 10)
		})
	})
}
