package renderer

import (
	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

type wgpuRendererBackend interface {
	// SurfaceFormat returns the texel format of the swapchain, which every render target shares.
	SurfaceFormat() wgpu.TextureFormat

	// SampleCount returns the MSAA sample count of the scene pass.
	SampleCount() MSAASampleCount

	// ConfigureSurface is a wrapper for boilerplate logic required when calling Configure on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the shader module, bind group layouts, pipeline layout and
	// render pipeline for p, targeting the surface format. The results are stored on p.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data and stores the buffers on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes
	//   - indexData: the raw uint32 index data bytes
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates any missing uniform buffers described by descriptor and a bind group
	// with the given layout. Textures and samplers must already be stored on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - layout: the bind group layout created with the pipeline
	//   - descriptor: the reflected layout descriptor listing the entries
	//
	// Returns:
	//   - error: an error if a resource is missing or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, layout *wgpu.BindGroupLayout, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView creates a 2D texture with one mip level per staging entry, uploads every
	// level and stores the texture and view on the provider at binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture on
	//   - binding: the binding index of the texture
	//   - levels: the mip levels, largest first, all with the same format
	//
	// Returns:
	//   - error: an error if no level is given or creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, levels ...common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on the provider at binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - binding: the binding index of the sampler
	//   - staging: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// CreateRenderTarget creates a texture in the surface format that can be rendered to and,
	// when single-sampled, sampled by a later pass.
	//
	// Parameters:
	//   - label: the debug label
	//   - width: the width in pixels
	//   - height: the height in pixels
	//   - format: the texel format
	//   - sampleCount: 1 for sampled targets, the MSAA count for multisample attachments
	//
	// Returns:
	//   - Target: the render target
	//   - error: an error if texture creation fails
	CreateRenderTarget(label string, width, height int, format wgpu.TextureFormat, sampleCount uint32) (Target, error)

	// BeginFrame acquires the next swapchain texture and creates the frame's command encoder.
	// Must be paired with EndFrame and Present.
	//
	// Returns:
	//   - *wgpu.CommandEncoder: the encoder passes record into
	//   - Target: the swapchain image
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() (*wgpu.CommandEncoder, Target, error)

	// EndFrame finishes the frame's command encoder and submits it to the GPU queue.
	//
	// Returns:
	//   - error: an error if the encoder could not be finished
	EndFrame() error

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Release frees the device, surface and every object owned by the backend.
	Release()
}
