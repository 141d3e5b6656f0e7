package shader

import (
	"embed"
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/*.wgsl assets/chunks/*.wgsl
var assets embed.FS

// Built-in shader programs shipped with the renderer.
const (
	// KeyMesh is the lit mesh program drawn by the scene pass.
	KeyMesh = "mesh"

	// KeyRGBShift is the full-screen chromatic aberration program.
	KeyRGBShift = "rgb_shift"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota

	// StageFragment is the fragment stage.
	StageFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key    string
	source string

	entryPoints      map[Stage]string
	bindGroupLayouts map[int]wgpu.BindGroupLayoutDescriptor
	bindingNames     map[int]map[int]string
	vertexLayouts    []wgpu.VertexBufferLayout
}

// Shader is a pre-processed WGSL module holding both the vertex and fragment entry points of one
// render program, together with the bind group and vertex buffer layouts reflected from its source.
// The renderer builds pipeline layouts from the reflected descriptors, so the WGSL declarations are
// the single source of truth for binding indices and uniform sizes.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source.
	//
	// Returns:
	//   - string: WGSL with every annotation expanded
	Source() string

	// EntryPoint returns the function name of the given stage, or "" if the module has none.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint(stage Stage) string

	// BindGroupLayoutDescriptor returns the reflected layout of one bind group. The zero
	// descriptor is returned for groups the shader does not declare.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every reflected bind group layout keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Groups returns the declared group indices in ascending order.
	//
	// Returns:
	//   - []int: the group indices
	Groups() []int

	// Binding looks up the binding index of a named resource variable within a group.
	//
	// Parameters:
	//   - group: the @group index
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - int: the binding index, or -1
	//   - bool: true if the variable exists
	Binding(group int, name string) (int, bool)

	// VertexLayouts returns the vertex buffer layouts reflected from the vertex input structs.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns a module descriptor ready for Device.CreateShaderModule.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source and reflects its layouts.
//
// Parameters:
//   - key: a unique identifier used for labels and caching
//   - source: raw WGSL which may contain @oxy: annotations
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if an annotation is malformed or the module has no vertex entry point
func NewShader(key, source string) (Shader, error) {
	processed, err := NewPreProcessor().Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:    key,
		source: processed,
		entryPoints: map[Stage]string{
			StageVertex:   parseEntryPoint(processed, StageVertex),
			StageFragment: parseEntryPoint(processed, StageFragment),
		},
		vertexLayouts: parseVertexLayouts(processed),
	}
	if s.entryPoints[StageVertex] == "" {
		return nil, fmt.Errorf("shader %s: no @vertex entry point", key)
	}
	s.bindGroupLayouts, s.bindingNames = parseBindGroupLayouts(processed, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	return s, nil
}

// Load reads one of the built-in programs (KeyMesh, KeyRGBShift) and returns it processed.
//
// Parameters:
//   - key: the program key
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if the program does not exist or fails to process
func Load(key string) (Shader, error) {
	data, err := assets.ReadFile("assets/" + key + ".wgsl")
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return NewShader(key, string(data))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage Stage) string {
	return s.entryPoints[stage]
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayouts[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayouts
}

func (s *shader) Groups() []int {
	groups := make([]int, 0, len(s.bindGroupLayouts))
	for g := range s.bindGroupLayouts {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	return groups
}

func (s *shader) Binding(group int, name string) (int, bool) {
	for binding, n := range s.bindingNames[group] {
		if n == name {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}
