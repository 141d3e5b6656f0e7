package engine

import (
	"github.com/Carmen-Shannon/oxy-ironman/engine/interaction"
	"github.com/Carmen-Shannon/oxy-ironman/engine/loader"
	"github.com/Carmen-Shannon/oxy-ironman/engine/scene"
	"github.com/Carmen-Shannon/oxy-ironman/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets the window the engine polls for events.
//
// Parameters:
//   - w: a created Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer that draws each frame and follows resizes.
//
// Parameters:
//   - r: the FrameRenderer, usually a renderer.Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r FrameRenderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithScene sets the scene assets are installed into.
//
// Parameters:
//   - s: the Scene to render
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithLoader sets the loader that fetches the environment map and the model.
//
// Parameters:
//   - l: the Loader
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoader(l loader.Loader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithAssets sets where the environment map and the model are loaded from. An empty value skips
// that load.
//
// Parameters:
//   - environmentURL: URL or path of the Radiance .hdr file
//   - modelPath: path of the .gltf or .glb file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAssets(environmentURL, modelPath string) EngineBuilderOption {
	return func(e *engine) {
		e.environmentURL = environmentURL
		e.modelPath = modelPath
	}
}

// WithProgress replaces the default model progress sink, which logs percentages.
//
// Parameters:
//   - fn: called from the loader worker with bytes read so far and the expected total
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProgress(fn loader.ProgressFunc) EngineBuilderOption {
	return func(e *engine) {
		e.progress = fn
	}
}

// WithPointerOptions configures the pointer handler created for the scene.
//
// Parameters:
//   - options: rotation factor, duration and easing options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPointerOptions(options ...interaction.PointerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.pointerOptions = append(e.pointerOptions, options...)
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
