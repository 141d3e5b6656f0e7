package renderer

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/shader"
)

const (
	// DefaultRGBShiftAmount is the channel offset length in UV units.
	DefaultRGBShiftAmount float32 = 0.0045

	// DefaultRGBShiftAngle is the channel offset direction in radians.
	DefaultRGBShiftAngle float32 = 0
)

// RGBShiftPass splits the red and blue channels of its input along a direction, sampling red at
// uv+offset and blue at uv-offset where offset = amount * (cos(angle), sin(angle)).
type RGBShiftPass interface {
	Pass

	// Amount returns the offset length in UV units.
	Amount() float32

	// SetAmount sets the offset length. Takes effect on the next frame.
	SetAmount(amount float32)

	// Angle returns the offset direction in radians.
	Angle() float32

	// SetAngle sets the offset direction. Takes effect on the next frame.
	SetAngle(angle float32)

	// Release frees the pipeline and the cached bind groups.
	Release()
}

type rgbShiftPass struct {
	mu      *sync.Mutex
	backend RendererBackend

	enabled bool
	amount  float32
	angle   float32

	pipeline pipeline.Pipeline

	// One bind group per input view; the composer alternates between two targets.
	inputs map[*wgpu.TextureView]bind_group_provider.BindGroupProvider
}

var _ RGBShiftPass = &rgbShiftPass{}

// NewRGBShiftPass creates an enabled pass with the default amount and angle. GPU objects are
// created on the first Render.
//
// Parameters:
//   - backend: the backend used to create the pipeline and bind groups
//
// Returns:
//   - RGBShiftPass: the pass
func NewRGBShiftPass(backend RendererBackend) RGBShiftPass {
	return &rgbShiftPass{
		mu:      &sync.Mutex{},
		backend: backend,
		enabled: true,
		amount:  DefaultRGBShiftAmount,
		angle:   DefaultRGBShiftAngle,
		inputs:  make(map[*wgpu.TextureView]bind_group_provider.BindGroupProvider),
	}
}

func (p *rgbShiftPass) Name() string {
	return "rgb_shift"
}

func (p *rgbShiftPass) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *rgbShiftPass) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

func (p *rgbShiftPass) NeedsSwap() bool {
	return true
}

func (p *rgbShiftPass) Amount() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.amount
}

func (p *rgbShiftPass) SetAmount(amount float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.amount = amount
}

func (p *rgbShiftPass) Angle() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.angle
}

func (p *rgbShiftPass) SetAngle(angle float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.angle = angle
}

func (p *rgbShiftPass) uniform() GPURGBShiftUniform {
	return GPURGBShiftUniform{Amount: p.amount, Angle: p.angle}
}

// SetSize drops the cached bind groups because the composer recreates its targets.
func (p *rgbShiftPass) SetSize(_, _ int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseInputs()
	return nil
}

func (p *rgbShiftPass) Render(frame *Frame, read, write Target) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.initPipeline(); err != nil {
		return err
	}
	provider, err := p.inputBindGroup(read)
	if err != nil {
		return err
	}

	u := p.uniform()
	p.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: provider,
		Binding:  0,
		Data:     u.Marshal(),
	}})

	pass := frame.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "RGB Shift Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       write.View(),
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{},
		}},
	})
	pass.SetPipeline(p.pipeline.RenderPipeline())
	pass.SetBindGroup(0, provider.BindGroup(), nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()
	pass.Release()
	return nil
}

func (p *rgbShiftPass) initPipeline() error {
	if p.pipeline != nil {
		return nil
	}
	s, err := shader.Load(shader.KeyRGBShift)
	if err != nil {
		return err
	}
	pl := pipeline.NewPipeline(shader.KeyRGBShift, s,
		pipeline.WithDepth(false),
		pipeline.WithSampleCount(1),
	)
	if err := p.backend.RegisterRenderPipeline(pl); err != nil {
		return fmt.Errorf("register %s pipeline: %w", shader.KeyRGBShift, err)
	}
	p.pipeline = pl
	return nil
}

func (p *rgbShiftPass) inputBindGroup(read Target) (bind_group_provider.BindGroupProvider, error) {
	if provider, ok := p.inputs[read.View()]; ok {
		return provider, nil
	}
	s := p.pipeline.Shader()
	provider := bind_group_provider.NewBindGroupProvider("RGB Shift " + read.Label())

	texBinding, _ := s.Binding(0, "input_texture")
	samplerBinding, _ := s.Binding(0, "input_sampler")
	provider.BorrowTextureView(texBinding, read.View())
	if err := p.backend.InitSampler(provider, samplerBinding, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	}); err != nil {
		provider.Release()
		return nil, err
	}
	if err := p.backend.InitBindGroup(provider, p.pipeline.BindGroupLayout(0), s.BindGroupLayoutDescriptor(0)); err != nil {
		provider.Release()
		return nil, err
	}
	p.inputs[read.View()] = provider
	return provider, nil
}

func (p *rgbShiftPass) releaseInputs() {
	for view, provider := range p.inputs {
		provider.Release()
		delete(p.inputs, view)
	}
}

func (p *rgbShiftPass) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseInputs()
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
}
