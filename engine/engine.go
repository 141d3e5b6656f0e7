package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ironman/engine/interaction"
	"github.com/Carmen-Shannon/oxy-ironman/engine/light"
	"github.com/Carmen-Shannon/oxy-ironman/engine/loader"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
	"github.com/Carmen-Shannon/oxy-ironman/engine/profiler"
	"github.com/Carmen-Shannon/oxy-ironman/engine/scene"
	"github.com/Carmen-Shannon/oxy-ironman/engine/tween"
	"github.com/Carmen-Shannon/oxy-ironman/engine/window"
)

// ErrNotConfigured is returned by Run when the engine has no window, renderer or scene.
var ErrNotConfigured = errors.New("engine needs a window, a renderer and a scene")

// maxFrameFailures is the number of consecutive failed frames after which Run gives up.
const maxFrameFailures = 120

// AssetState tells whether every asset the scene waits for has been installed.
type AssetState int

const (
	// WaitingForAssets means the model or the environment map is still missing.
	WaitingForAssets AssetState = iota

	// Steady means both the model and the environment map are installed.
	Steady
)

func (s AssetState) String() string {
	switch s {
	case WaitingForAssets:
		return "WaitingForAssets"
	case Steady:
		return "Steady"
	default:
		return fmt.Sprintf("AssetState(%d)", int(s))
	}
}

// FrameRenderer draws one frame of a scene and follows framebuffer resizes.
// renderer.Renderer satisfies it.
type FrameRenderer interface {
	RenderFrame(s scene.Scene) error
	Resize(width, height int) error
}

// engine implements the Engine interface.
// Window events, asset installation, tweens and rendering all run on the goroutine calling Run.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	renderer FrameRenderer
	scene    scene.Scene
	loader   loader.Loader
	tweens   tween.Group
	pointer  interaction.Pointer

	pointerOptions []interaction.PointerBuilderOption

	environmentURL string
	modelPath      string
	progress       loader.ProgressFunc

	modelResults       <-chan loader.Result[model.Model]
	environmentResults <-chan loader.Result[*light.EnvironmentMap]
	state              AssetState

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback     func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
}

// Engine runs the demo: it starts the asset loads, installs results as they arrive, turns pointer
// movement into rotation tweens and renders one frame per loop iteration.
type Engine interface {
	// Window returns the window the engine polls.
	Window() window.Window

	// Scene returns the scene the engine renders.
	Scene() scene.Scene

	// Pointer returns the handler fed by cursor movement.
	Pointer() interaction.Pointer

	// Tweens returns the group advanced once per frame.
	Tweens() tween.Group

	// AssetState reports whether the scene still waits for assets.
	AssetState() AssetState

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers a function called every frame after tweens advance and before
	// the frame renders.
	//
	// Parameters:
	//   - callback: receives the frame delta in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to rely on the present mode alone (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the asset loads and runs the frame loop on the calling goroutine until the
	// window closes, Quit is called or ctx is cancelled. The caller must own the window's thread.
	//
	// Parameters:
	//   - ctx: cancels the loop and any load still in flight
	//
	// Returns:
	//   - error: ErrNotConfigured, a recovered panic, or repeated frame failures
	Run(ctx context.Context) error

	// Quit stops the loop after the current iteration. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern, then the
// pointer handler and the window callbacks are wired.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		tweens:      tween.NewGroup(),
		profiler:    profiler.NewProfiler(time.Second),
		quitChannel: make(chan struct{}),
		state:       WaitingForAssets,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.scene != nil {
		e.pointer = interaction.NewPointer(e.scene, e.tweens, e.pointerOptions...)
	}
	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
		e.window.SetPointerMoveCallback(e.pointerMoved)
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Pointer() interaction.Pointer {
	return e.pointer
}

func (e *engine) Tweens() tween.Group {
	return e.tweens
}

func (e *engine) AssetState() AssetState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Run(ctx context.Context) (err error) {
	if e.window == nil || e.renderer == nil || e.scene == nil {
		return ErrNotConfigured
	}
	// Recover from panics inside the loop so the caller can release the window and GPU.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("frame loop recovered from panic", "panic", r)
			err = fmt.Errorf("frame loop panic: %v", r)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.startLoads(ctx)
	slog.Info("Engine running", "scene", e.scene.Name(), "state", e.AssetState())

	lastFrame := time.Now()
	failures := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("Engine stopped", "reason", ctx.Err())
			return nil
		case <-e.quitChannel:
			slog.Info("Engine stopped", "reason", "quit")
			return nil
		default:
		}

		if !e.window.PollEvents() {
			slog.Info("Engine stopped", "reason", "window closed")
			return nil
		}

		now := time.Now()
		dt := now.Sub(lastFrame)
		lastFrame = now

		if frameErr := e.frame(dt); frameErr != nil {
			failures++
			slog.Warn("frame failed", "error", frameErr, "consecutive", failures)
			if failures >= maxFrameFailures {
				return fmt.Errorf("%d consecutive frames failed: %w", failures, frameErr)
			}
		} else {
			failures = 0
		}

		e.mu.Lock()
		limit := e.renderFrameLimit
		e.mu.Unlock()
		if limit > 0 {
			if remaining := limit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// startLoads submits both loads to the loader. Either may be skipped when not configured.
func (e *engine) startLoads(ctx context.Context) {
	if e.loader == nil {
		slog.Warn("no loader configured, rendering without assets")
		return
	}
	if e.environmentURL != "" {
		e.environmentResults = e.loader.LoadEnvironment(ctx, e.environmentURL)
	}
	if e.modelPath != "" {
		progress := e.progress
		if progress == nil {
			progress = loader.LogProgress(e.modelPath)
		}
		e.modelResults = e.loader.LoadModel(ctx, e.modelPath, progress)
	}
}

// frame runs one loop iteration after events were polled.
func (e *engine) frame(dt time.Duration) error {
	e.drainResults()
	e.tweens.Update(dt)

	e.mu.Lock()
	tick := e.tickCallback
	profiling := e.profilingEnabled
	e.mu.Unlock()
	if tick != nil {
		tick(float32(dt.Seconds()))
	}

	err := e.renderer.RenderFrame(e.scene)

	if profiling && e.profiler != nil {
		e.profiler.Tick()
	}
	return err
}

// drainResults installs completed loads without blocking. Each channel delivers one result and
// is dropped afterwards.
func (e *engine) drainResults() {
	if e.environmentResults != nil {
		select {
		case res := <-e.environmentResults:
			e.environmentResults = nil
			if res.Err != nil {
				slog.Error("environment map failed to load, rendering without image based lighting", "url", e.environmentURL, "error", res.Err)
			} else {
				e.scene.SetEnvironment(res.Value)
				slog.Info("Environment installed", "name", res.Value.Name, "width", res.Value.Width, "height", res.Value.Height)
			}
		default:
		}
	}
	if e.modelResults != nil {
		select {
		case res := <-e.modelResults:
			e.modelResults = nil
			if res.Err != nil {
				slog.Error("model failed to load", "path", e.modelPath, "error", res.Err)
			} else {
				e.scene.InstallModel(res.Value)
			}
		default:
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == WaitingForAssets && e.scene.Ready() {
		e.state = Steady
		slog.Info("Asset state changed", "state", e.state)
	}
}

// resize runs inside PollEvents. Zero sizes come from minimized windows and are ignored.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.scene != nil {
		e.scene.Camera().SetAspect(float32(width) / float32(height))
	}
	if e.renderer != nil {
		if err := e.renderer.Resize(width, height); err != nil {
			slog.Error("resize failed", "width", width, "height", height, "error", err)
		}
	}
}

// pointerMoved runs inside PollEvents with window coordinates, so it is normalized against the
// logical window size rather than the framebuffer.
func (e *engine) pointerMoved(x, y float64) {
	if e.pointer == nil {
		return
	}
	w, h := e.window.LogicalSize()
	e.pointer.Move(x, y, float64(w), float64(h))
}
