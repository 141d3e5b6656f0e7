package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ironman/engine/light"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-ironman/engine/scene"
)

// Bind group indices of the mesh shader.
const (
	groupFrame    = 0
	groupMaterial = 1
	groupObject   = 2
)

// ScenePass draws the scene's model with image based lighting into its write target.
type ScenePass interface {
	Pass

	// Release frees every GPU object created for the scene.
	Release()
}

type scenePass struct {
	mu      *sync.Mutex
	backend RendererBackend
	enabled bool

	pipeline pipeline.Pipeline
	bindings map[string]int

	depth Target
	msaa  Target

	frame       bind_group_provider.BindGroupProvider
	environment *light.EnvironmentMap
	maxMip      float32

	model     model.Model
	meshes    []bind_group_provider.BindGroupProvider
	materials []material.Material
	objects   []bind_group_provider.BindGroupProvider
}

var _ ScenePass = &scenePass{}

// NewScenePass creates an enabled scene pass. The mesh pipeline is created on the first Render
// and GPU resources for the model and environment are uploaded the first time they appear.
//
// Parameters:
//   - backend: the backend used for every GPU object
//
// Returns:
//   - ScenePass: the pass
func NewScenePass(backend RendererBackend) ScenePass {
	return &scenePass{
		mu:       &sync.Mutex{},
		backend:  backend,
		enabled:  true,
		bindings: make(map[string]int),
	}
}

func (p *scenePass) Name() string {
	return "scene"
}

func (p *scenePass) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *scenePass) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

func (p *scenePass) NeedsSwap() bool {
	return true
}

func (p *scenePass) SetSize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := uint32(p.backend.SampleCount())
	depth, err := p.backend.CreateRenderTarget("Depth Texture", width, height, wgpu.TextureFormatDepth24Plus, count)
	if err != nil {
		return err
	}
	var msaa Target
	if count > 1 {
		msaa, err = p.backend.CreateRenderTarget("MSAA Texture", width, height, p.backend.SurfaceFormat(), count)
		if err != nil {
			depth.Release()
			return err
		}
	}
	p.releaseTargets()
	p.depth, p.msaa = depth, msaa
	return nil
}

func (p *scenePass) Render(frame *Frame, _, write Target) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.depth == nil {
		return ErrNotSized
	}
	if err := p.initPipeline(); err != nil {
		return err
	}
	s := frame.Scene

	if err := p.syncEnvironment(s); err != nil {
		return fmt.Errorf("upload environment: %w", err)
	}

	var obj game_object.GameObject
	s.Model().IfPresent(func(g game_object.GameObject) { obj = g })
	var items []model.DrawItem
	if obj != nil && obj.Enabled() {
		if err := p.syncModel(obj.Model()); err != nil {
			return fmt.Errorf("upload model: %w", err)
		}
		items = obj.Model().DrawList()
	}

	p.backend.WriteBuffers(p.uniformWrites(s, obj, items))

	color := wgpu.RenderPassColorAttachment{
		View:       write.View(),
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: clearValue(s.ClearColor()),
	}
	if p.msaa != nil {
		color.View = p.msaa.View()
		color.ResolveTarget = write.View()
		color.StoreOp = wgpu.StoreOpDiscard
	}
	pass := frame.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "Scene Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            p.depth.View(),
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	pass.SetPipeline(p.pipeline.RenderPipeline())
	pass.SetBindGroup(groupFrame, p.frame.BindGroup(), nil)
	for i, item := range items {
		mesh := item.Mesh
		if mesh.Provider == nil || mesh.Provider.IndexCount() == 0 {
			continue
		}
		pass.SetBindGroup(groupMaterial, mesh.Material.BindGroupProvider().BindGroup(), nil)
		pass.SetBindGroup(groupObject, p.objects[i].BindGroup(), nil)
		pass.SetVertexBuffer(0, mesh.Provider.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.Provider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(mesh.Provider.IndexCount()), 1, 0, 0, 0)
	}
	pass.End()
	pass.Release()
	return nil
}

func clearValue(c [4]float64) wgpu.Color {
	return wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func (p *scenePass) initPipeline() error {
	if p.pipeline != nil {
		return nil
	}
	s, err := shader.Load(shader.KeyMesh)
	if err != nil {
		return err
	}
	for group, names := range map[int][]string{
		groupFrame:    {"camera", "lighting", "env_texture", "env_sampler"},
		groupMaterial: {"material", "base_texture", "base_sampler"},
		groupObject:   {"object"},
	} {
		for _, name := range names {
			b, ok := s.Binding(group, name)
			if !ok {
				return fmt.Errorf("shader %s: missing binding %q in group %d", s.Key(), name, group)
			}
			p.bindings[name] = b
		}
	}
	pl := pipeline.NewPipeline(shader.KeyMesh, s, pipeline.WithSampleCount(uint32(p.backend.SampleCount())))
	if err := p.backend.RegisterRenderPipeline(pl); err != nil {
		return fmt.Errorf("register %s pipeline: %w", shader.KeyMesh, err)
	}
	p.pipeline = pl
	return nil
}

// syncEnvironment uploads the scene environment as a mip-mapped RGBA16Float texture the first time
// it appears. Until then a black texel stands in and the lighting uniform disables the IBL term.
func (p *scenePass) syncEnvironment(s scene.Scene) error {
	var env *light.EnvironmentMap
	s.Environment().IfPresent(func(e *light.EnvironmentMap) { env = e })
	if p.frame != nil && env == p.environment {
		return nil
	}
	if p.frame == nil {
		p.frame = bind_group_provider.NewBindGroupProvider("Scene Frame")
		if err := p.backend.InitSampler(p.frame, p.bindings["env_sampler"], common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeRepeat,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
		}); err != nil {
			return err
		}
	}

	var levels []common.TextureStagingData
	if env == nil {
		levels = []common.TextureStagingData{common.SolidTexture(0, 0, 0, 255)}
	} else {
		for _, level := range env.MipChain() {
			levels = append(levels, common.TextureStagingData{
				Pixels:        level.RGBA16Float(),
				Width:         uint32(level.Width),
				Height:        uint32(level.Height),
				Format:        wgpu.TextureFormatRGBA16Float,
				BytesPerPixel: light.BytesPerTexelRGBA16F,
			})
		}
		slog.Debug("environment uploaded", "name", env.Name, "width", env.Width, "height", env.Height, "mips", len(levels))
	}
	if err := p.backend.InitTextureView(p.frame, p.bindings["env_texture"], levels...); err != nil {
		return err
	}
	if err := p.backend.InitBindGroup(p.frame, p.pipeline.BindGroupLayout(groupFrame), p.pipeline.Shader().BindGroupLayoutDescriptor(groupFrame)); err != nil {
		return err
	}
	p.environment = env
	p.maxMip = float32(len(levels) - 1)
	return nil
}

// syncModel uploads mesh buffers, material bind groups and one object bind group per draw item
// the first time a model is drawn. A mesh referenced by several nodes shares its buffers but gets
// an object uniform per placement.
func (p *scenePass) syncModel(m model.Model) error {
	if m == p.model {
		return nil
	}
	p.releaseModel()

	for _, mesh := range m.Meshes() {
		if len(mesh.Indices) == 0 {
			continue
		}
		provider := bind_group_provider.NewBindGroupProvider("Mesh " + mesh.Name)
		if err := p.backend.InitMeshBuffers(provider, model.MarshalVertices(mesh.Vertices), model.MarshalIndices(mesh.Indices), len(mesh.Indices)); err != nil {
			provider.Release()
			return fmt.Errorf("mesh %s: %w", mesh.Name, err)
		}
		mesh.Provider = provider
		p.meshes = append(p.meshes, provider)
	}

	for _, mat := range m.Materials() {
		if err := p.initMaterial(mat); err != nil {
			return fmt.Errorf("material %s: %w", mat.Name(), err)
		}
		p.materials = append(p.materials, mat)
	}

	layout := p.pipeline.BindGroupLayout(groupObject)
	desc := p.pipeline.Shader().BindGroupLayoutDescriptor(groupObject)
	for i, item := range m.DrawList() {
		provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Object %d %s", i, item.Mesh.Name))
		if err := p.backend.InitBindGroup(provider, layout, desc); err != nil {
			provider.Release()
			return err
		}
		p.objects = append(p.objects, provider)
	}

	p.model = m
	slog.Debug("model uploaded", "name", m.Name(), "meshes", len(p.meshes), "materials", len(p.materials), "draws", len(p.objects))
	return nil
}

func (p *scenePass) initMaterial(mat material.Material) error {
	provider := bind_group_provider.NewBindGroupProvider("Material " + mat.Name())

	staging := common.SolidTexture(255, 255, 255, 255)
	samplerData := common.SamplerStagingData{}
	if tex := mat.BaseColorTexture(); tex != nil {
		decoded, err := tex.Decode()
		if err != nil {
			slog.Warn("base color texture unusable, drawing untextured", "material", mat.Name(), "error", err)
		} else {
			staging = decoded
		}
		if tex.Sampler != nil {
			samplerData = *tex.Sampler
		}
	}
	// Single level textures cannot be sampled between mips.
	samplerData.MipmapFilter = wgpu.MipmapFilterModeNearest

	if err := p.backend.InitTextureView(provider, p.bindings["base_texture"], staging); err != nil {
		provider.Release()
		return err
	}
	if err := p.backend.InitSampler(provider, p.bindings["base_sampler"], samplerData); err != nil {
		provider.Release()
		return err
	}
	if err := p.backend.InitBindGroup(provider, p.pipeline.BindGroupLayout(groupMaterial), p.pipeline.Shader().BindGroupLayoutDescriptor(groupMaterial)); err != nil {
		provider.Release()
		return err
	}
	mat.SetBindGroupProvider(provider)
	return nil
}

func (p *scenePass) uniformWrites(s scene.Scene, obj game_object.GameObject, items []model.DrawItem) []bind_group_provider.BufferWrite {
	cam := s.Camera().Uniform()
	hasEnv := float32(0)
	if p.environment != nil {
		hasEnv = 1
	}
	lighting := light.GPULightingUniform{
		Exposure:       s.Exposure(),
		Intensity:      s.EnvironmentIntensity(),
		MaxMip:         p.maxMip,
		HasEnvironment: hasEnv,
	}
	writes := []bind_group_provider.BufferWrite{
		{Provider: p.frame, Binding: p.bindings["camera"], Data: cam.Marshal()},
		{Provider: p.frame, Binding: p.bindings["lighting"], Data: lighting.Marshal()},
	}

	for _, mat := range p.materials {
		u, changed := mat.Uniform()
		if !changed {
			continue
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: mat.BindGroupProvider(),
			Binding:  p.bindings["material"],
			Data:     u.Marshal(),
		})
	}

	if obj == nil {
		return writes
	}
	base := obj.ModelMatrix()
	for i, item := range items {
		if i >= len(p.objects) {
			break
		}
		world := base.Mul4(item.Transform)
		u := model.NewGPUObjectUniform(world, common.NormalMatrix(world))
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: p.objects[i],
			Binding:  p.bindings["object"],
			Data:     u.Marshal(),
		})
	}
	return writes
}

func (p *scenePass) releaseModel() {
	for _, provider := range p.meshes {
		provider.Release()
	}
	for _, mat := range p.materials {
		if provider := mat.BindGroupProvider(); provider != nil {
			provider.Release()
		}
	}
	for _, provider := range p.objects {
		provider.Release()
	}
	if p.model != nil {
		for _, mesh := range p.model.Meshes() {
			mesh.Provider = nil
		}
	}
	p.meshes, p.materials, p.objects = nil, nil, nil
	p.model = nil
}

func (p *scenePass) releaseTargets() {
	if p.depth != nil {
		p.depth.Release()
		p.depth = nil
	}
	if p.msaa != nil {
		p.msaa.Release()
		p.msaa = nil
	}
}

func (p *scenePass) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseModel()
	if p.frame != nil {
		p.frame.Release()
		p.frame = nil
	}
	p.environment = nil
	p.releaseTargets()
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
}
