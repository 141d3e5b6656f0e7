package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
// The default is PresentModeVSync.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count of the scene pass.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithTransparentSurface sets whether the surface keeps the alpha of the rendered image so the
// desktop shows through cleared pixels. Enabled by default.
//
// Parameters:
//   - transparent: false to composite the surface as opaque
//
// Returns:
//   - RendererBuilderOption: a function that applies the transparency option to a renderer
func WithTransparentSurface(transparent bool) RendererBuilderOption {
	return func(r *renderer) {
		r.transparent = transparent
	}
}

// WithRGBShift sets the initial parameters of the RGB shift pass.
//
// Parameters:
//   - amount: the channel offset length in UV units
//   - angle: the offset direction in radians
//
// Returns:
//   - RendererBuilderOption: a function that applies the RGB shift option to a renderer
func WithRGBShift(amount, angle float32) RendererBuilderOption {
	return func(r *renderer) {
		r.shiftAmount = amount
		r.shiftAngle = angle
	}
}
