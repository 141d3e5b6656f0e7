package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-ironman/engine"
	"github.com/Carmen-Shannon/oxy-ironman/engine/camera"
	"github.com/Carmen-Shannon/oxy-ironman/engine/interaction"
	"github.com/Carmen-Shannon/oxy-ironman/engine/light"
	"github.com/Carmen-Shannon/oxy-ironman/engine/loader"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ironman/engine/scene"
)

// fakeWindow stays open for frames polls; a negative value keeps it open forever.
type fakeWindow struct {
	frames  int
	polls   int
	onPoll  func(poll int)
	resize  func(width, height int)
	pointer func(x, y float64)
	logical [2]int
}

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.resize = cb }
func (w *fakeWindow) SetPointerMoveCallback(cb func(x, y float64)) { w.pointer = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return w.frames < 0 || w.polls < w.frames }
func (w *fakeWindow) Close() error { return nil }
func (w *fakeWindow) Width() int { return 1280 }
func (w *fakeWindow) Height() int { return 720 }
func (w *fakeWindow) LogicalSize() (int, int) { return w.logical[0], w.logical[1] }
func (w *fakeWindow) ContentScale() float32 { return 1 }

func (w *fakeWindow) PollEvents() bool {
	w.polls++
	if w.onPoll != nil {
		w.onPoll(w.polls)
	}
	return w.frames < 0 || w.polls <= w.frames
}

type fakeRenderer struct {
	frames  int
	resizes [][2]int
	err     error
	panics  bool
}

func (r *fakeRenderer) RenderFrame(_ scene.Scene) error {
	if r.panics {
		panic("device lost")
	}
	r.frames++
	return r.err
}

func (r *fakeRenderer) Resize(width, height int) error {
	r.resizes = append(r.resizes, [2]int{width, height})
	return nil
}

type fakeLoader struct {
	model       model.Model
	modelErr    error
	environment *light.EnvironmentMap
	envErr      error
	modelPath   string
	envURL      string
}

func (l *fakeLoader) LoadModel(_ context.Context, path string, onProgress loader.ProgressFunc) <-chan loader.Result[model.Model] {
	l.modelPath = path
	if onProgress != nil {
		onProgress(10, 10)
	}
	ch := make(chan loader.Result[model.Model], 1)
	ch <- loader.Result[model.Model]{Value: l.model, Err: l.modelErr}
	return ch
}

func (l *fakeLoader) LoadEnvironment(_ context.Context, url string) <-chan loader.Result[*light.EnvironmentMap] {
	l.envURL = url
	ch := make(chan loader.Result[*light.EnvironmentMap], 1)
	ch <- loader.Result[*light.EnvironmentMap]{Value: l.environment, Err: l.envErr}
	return ch
}

func (l *fakeLoader) Get(string) model.Model { return nil }
func (l *fakeLoader) Models() map[string]model.Model { return map[string]model.Model{} }

func boxModel() model.Model {
	verts := []model.GPUVertex{{Position: [3]float32{-1, -1, -1}}, {Position: [3]float32{1, 1, 1}}}
	mesh := &model.Mesh{Name: "box", Vertices: verts, Indices: []uint32{0, 1, 0}, Material: material.NewMaterial(), Bounds: model.ComputeBounds(verts)}
	return model.NewModel(
		model.WithName("box"),
		model.WithMeshes([]*model.Mesh{mesh}),
		model.WithNodes([]model.Node{{Name: "root", Local: mgl32.Ident4(), Meshes: []int{0}}}),
	)
}

func environment(t *testing.T) *light.EnvironmentMap {
	env, err := light.NewEnvironmentMap("studio", 2, 1, []float32{1, 1, 1, 0.5, 0.5, 0.5})
	require.NoError(t, err)
	return env
}

func TestEngineRun(t *testing.T) {
	t.Run("should refuse to run without a window, renderer and scene", func(t *testing.T) {
		e := engine.NewEngine()
		assert.ErrorIs(t, e.Run(context.Background()), engine.ErrNotConfigured)
	})
	t.Run("should render one frame per poll until the window closes", func(t *testing.T) {
		// given
		w := &fakeWindow{frames: 3}
		r := &fakeRenderer{}
		e := engine.NewEngine(
			engine.WithWindow(w),
			engine.WithRenderer(r),
			engine.WithScene(scene.NewScene("main", camera.NewCamera())),
		)
		// when
		err := e.Run(context.Background())
		// then
		require.NoError(t, err)
		assert.Equal(t, 3, r.frames)
		assert.Equal(t, engine.WaitingForAssets, e.AssetState())
	})
	t.Run("should install both assets and become steady", func(t *testing.T) {
		// given
		s := scene.NewScene("main", camera.NewCamera())
		l := &fakeLoader{model: boxModel(), environment: environment(t)}
		var progress [][2]int64
		e := engine.NewEngine(
			engine.WithWindow(&fakeWindow{frames: 1}),
			engine.WithRenderer(&fakeRenderer{}),
			engine.WithScene(s),
			engine.WithLoader(l),
			engine.WithAssets("https://example.com/env.hdr", "testdata/ironman.glb"),
			engine.WithProgress(func(loaded, total int64) { progress = append(progress, [2]int64{loaded, total}) }),
		)
		// when
		require.NoError(t, e.Run(context.Background()))
		// then
		assert.Equal(t, "https://example.com/env.hdr", l.envURL)
		assert.Equal(t, "testdata/ironman.glb", l.modelPath)
		assert.Equal(t, [][2]int64{{10, 10}}, progress)
		assert.False(t, s.Model().IsEmpty())
		assert.False(t, s.Environment().IsEmpty())
		assert.Equal(t, engine.Steady, e.AssetState())
	})
	t.Run("should keep rendering when both loads fail", func(t *testing.T) {
		s := scene.NewScene("main", camera.NewCamera())
		r := &fakeRenderer{}
		l := &fakeLoader{modelErr: loader.ErrUnsupportedFormat, envErr: &loader.HTTPError{StatusCode: 404, Status: "404 Not Found"}}
		e := engine.NewEngine(
			engine.WithWindow(&fakeWindow{frames: 4}),
			engine.WithRenderer(r),
			engine.WithScene(s),
			engine.WithLoader(l),
			engine.WithAssets("https://example.com/missing.hdr", "model.obj"),
		)
		require.NoError(t, e.Run(context.Background()))
		assert.Equal(t, 4, r.frames)
		assert.True(t, s.Model().IsEmpty())
		assert.True(t, s.Environment().IsEmpty())
		assert.Equal(t, engine.WaitingForAssets, e.AssetState())
	})
	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		r := &fakeRenderer{}
		e := engine.NewEngine(
			engine.WithWindow(&fakeWindow{frames: -1}),
			engine.WithRenderer(r),
			engine.WithScene(scene.NewScene("main", camera.NewCamera())),
		)
		e.SetTickCallback(func(float32) {
			if r.frames == 2 {
				cancel()
			}
		})
		require.NoError(t, e.Run(ctx))
		assert.Equal(t, 3, r.frames)
	})
	t.Run("should stop after quit", func(t *testing.T) {
		r := &fakeRenderer{}
		var e engine.Engine
		e = engine.NewEngine(
			engine.WithWindow(&fakeWindow{frames: -1, onPoll: func(poll int) {
				if poll == 2 {
					e.Quit()
					e.Quit()
				}
			}}),
			engine.WithRenderer(r),
			engine.WithScene(scene.NewScene("main", camera.NewCamera())),
		)
		require.NoError(t, e.Run(context.Background()))
		assert.Equal(t, 2, r.frames)
	})
	t.Run("should recover a panicking frame and report it", func(t *testing.T) {
		e := engine.NewEngine(
			engine.WithWindow(&fakeWindow{frames: 2}),
			engine.WithRenderer(&fakeRenderer{panics: true}),
			engine.WithScene(scene.NewScene("main", camera.NewCamera())),
		)
		err := e.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "device lost")
	})
	t.Run("should give up after many consecutive frame failures", func(t *testing.T) {
		boom := errors.New("surface lost")
		r := &fakeRenderer{err: boom}
		e := engine.NewEngine(
			engine.WithWindow(&fakeWindow{frames: -1}),
			engine.WithRenderer(r),
			engine.WithScene(scene.NewScene("main", camera.NewCamera())),
		)
		err := e.Run(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 120, r.frames)
	})
}

func TestEngineCallbacks(t *testing.T) {
	t.Run("should resize the renderer and the camera aspect", func(t *testing.T) {
		// given
		cam := camera.NewCamera()
		r := &fakeRenderer{}
		w := &fakeWindow{frames: 1}
		w.onPoll = func(int) {
			w.resize(800, 400)
			w.resize(0, 400)
		}
		e := engine.NewEngine(engine.WithWindow(w), engine.WithRenderer(r), engine.WithScene(scene.NewScene("main", cam)))
		// when
		require.NoError(t, e.Run(context.Background()))
		// then
		assert.Equal(t, [][2]int{{800, 400}}, r.resizes)
		assert.Equal(t, float32(2), cam.Aspect())
	})
	t.Run("should ignore pointer movement while the model is missing", func(t *testing.T) {
		w := &fakeWindow{frames: 1, logical: [2]int{100, 100}}
		w.onPoll = func(int) { w.pointer(100, 0) }
		e := engine.NewEngine(engine.WithWindow(w), engine.WithRenderer(&fakeRenderer{}), engine.WithScene(scene.NewScene("main", camera.NewCamera())))
		require.NoError(t, e.Run(context.Background()))
		assert.Zero(t, e.Tweens().Len())
	})
	t.Run("should tween the model toward the pointer in window coordinates", func(t *testing.T) {
		// given
		s := scene.NewScene("main", camera.NewCamera())
		s.InstallModel(boxModel())
		w := &fakeWindow{frames: 1, logical: [2]int{200, 100}}
		w.onPoll = func(int) { w.pointer(200, 100) }
		e := engine.NewEngine(engine.WithWindow(w), engine.WithRenderer(&fakeRenderer{}), engine.WithScene(s))
		// when
		require.NoError(t, e.Run(context.Background()))
		// then
		yaw, pitch := e.Pointer().Target()
		assert.InDelta(t, 0.5*interaction.DefaultFactor, yaw, 1e-6)
		assert.InDelta(t, 0.5*interaction.DefaultFactor, pitch, 1e-6)
		assert.True(t, e.Tweens().Active(interaction.KeyRotationX))
		assert.True(t, e.Tweens().Active(interaction.KeyRotationY))
	})
}

func TestAssetState(t *testing.T) {
	assert.Equal(t, "WaitingForAssets", engine.WaitingForAssets.String())
	assert.Equal(t, "Steady", engine.Steady.String())
	assert.Equal(t, "AssetState(7)", engine.AssetState(7).String())
}
