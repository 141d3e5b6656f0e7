package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-ironman/engine/scene"
	"github.com/Carmen-Shannon/oxy-ironman/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	composer    Composer
	scenePass   ScenePass
	rgbShift    RGBShiftPass

	width, height int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	transparent          bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	shiftAmount          float32
	shiftAngle           float32
}

// Renderer draws a scene through the post-processing chain to the window surface.
//
// The chain is fixed at construction: a ScenePass renders the model with image based lighting
// into an offscreen target, then an RGBShiftPass samples it and writes the swapchain image.
type Renderer interface {
	// RenderFrame acquires the swapchain image, runs every enabled pass, submits and presents.
	// Must be called once per loop tick from the thread that owns the window.
	//
	// Parameters:
	//   - s: the scene to draw
	//
	// Returns:
	//   - error: an error if the frame could not be acquired or a pass failed
	RenderFrame(s scene.Scene) error

	// Resize reconfigures the surface and recreates every size-dependent target.
	// Zero sizes, as reported for minimized windows, are ignored.
	//
	// Parameters:
	//   - width: the new framebuffer width in pixels
	//   - height: the new framebuffer height in pixels
	//
	// Returns:
	//   - error: an error if a target could not be recreated
	Resize(width, height int) error

	// Size returns the current surface size in pixels.
	Size() (int, int)

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Composer returns the pass chain.
	Composer() Composer

	// RGBShift returns the RGB shift pass so its parameters can be changed at runtime.
	RGBShift() RGBShiftPass

	// Release frees every GPU object, including the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU backend for the window surface, configures the surface at the
// window framebuffer size and builds the pass chain. Backend initialization failures panic.
//
// Parameters:
//   - backendType: the RendererBackendType to use
//   - w: the window whose surface is rendered to
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the window has no surface or the initial targets cannot be created
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) (Renderer, error) {
	descriptor := w.SurfaceDescriptor()
	if descriptor == nil {
		return nil, fmt.Errorf("window has no surface")
	}

	r := newRenderer(options...)
	r.backendType = backendType

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(descriptor, r.forceFallbackAdapter, msaa, r.transparent)
	}
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.buildComposer()
	if err := r.Resize(w.Width(), w.Height()); err != nil {
		r.Release()
		return nil, err
	}
	slog.Info("renderer ready", "format", r.backend.SurfaceFormat(), "msaa", uint32(msaa), "width", r.width, "height", r.height)
	return r, nil
}

// newRenderer applies options to a renderer without a backend.
func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		transparent: true,
		shiftAmount: DefaultRGBShiftAmount,
		shiftAngle:  DefaultRGBShiftAngle,
	}
	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) buildComposer() {
	r.composer = NewComposer(func(label string, width, height int) (Target, error) {
		return r.backend.CreateRenderTarget(label, width, height, r.backend.SurfaceFormat(), uint32(MSAAOff))
	})
	r.scenePass = NewScenePass(r.backend)
	r.rgbShift = NewRGBShiftPass(r.backend)
	r.rgbShift.SetAmount(r.shiftAmount)
	r.rgbShift.SetAngle(r.shiftAngle)
	r.composer.AddPass(r.scenePass)
	r.composer.AddPass(r.rgbShift)
}

func (r *renderer) RenderFrame(s scene.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.width == 0 || r.height == 0 {
		return nil
	}

	encoder, screen, err := r.backend.BeginFrame()
	if err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	renderErr := r.composer.Render(&Frame{Encoder: encoder, Scene: s, Screen: screen})
	if err := r.backend.EndFrame(); err != nil && renderErr == nil {
		renderErr = fmt.Errorf("end frame: %w", err)
	}
	r.backend.Present()
	return renderErr
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		return nil
	}
	if width == r.width && height == r.height {
		return nil
	}
	r.backend.ConfigureSurface(width, height)
	if err := r.composer.SetSize(width, height); err != nil {
		return err
	}
	r.width, r.height = width, height
	return nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
	if r.width > 0 && r.height > 0 {
		r.backend.ConfigureSurface(r.width, r.height)
	}
}

func (r *renderer) Composer() Composer {
	return r.composer
}

func (r *renderer) RGBShift() RGBShiftPass {
	return r.rgbShift
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.scenePass != nil {
		r.scenePass.Release()
	}
	if r.rgbShift != nil {
		r.rgbShift.Release()
	}
	if r.composer != nil {
		r.composer.Release()
	}
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
