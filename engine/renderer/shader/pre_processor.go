package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-ironman/engine/camera"
	"github.com/Carmen-Shannon/oxy-ironman/engine/light"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/material"
)

// annotationPrefix marks a pre-processor directive inside a WGSL line comment.
const annotationPrefix = "//@oxy:"

// registryEntry pairs injectable WGSL source with the type name it declares.
// Chunks of helper functions have no Type and cannot be used in group declarations.
type registryEntry struct {
	Source string
	Type   string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	registry      map[string]registryEntry
	addressSpaces map[string]string
}

// PreProcessor expands @oxy: directives in WGSL source.
//
// Two directives are understood, each on its own line:
//
//	//@oxy:include <key>
//	//@oxy:group <group> <binding> <address_space> <var_name> <key>
//
// include injects the registered WGSL for key. Every key is injected at most once per Process call
// so shared structs can be requested by several chunks. group emits a @group/@binding variable
// declaration whose type is the struct registered under key; address_space is one of uniform,
// storage_read or storage_read_write.
type PreProcessor interface {
	// Process expands every directive in source.
	//
	// Parameters:
	//   - source: raw WGSL
	//
	// Returns:
	//   - string: WGSL with directives replaced
	//   - error: an error naming the line of a malformed directive or unknown key
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor whose registry holds the engine's GPU struct sources and
// the helper chunks embedded with this package.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	p := &preProcessor{
		registry: map[string]registryEntry{
			"camera":   {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			"vertex":   {Source: model.GPUVertexSource, Type: "VertexInput"},
			"object":   {Source: model.GPUObjectUniformSource, Type: "ObjectUniform"},
			"material": {Source: material.GPUMaterialUniformSource, Type: "MaterialUniform"},
			"lighting": {Source: light.GPULightingUniformSource, Type: "LightingUniform"},
		},
		addressSpaces: map[string]string{
			"uniform":            "var<uniform>",
			"storage_read":       "var<storage, read>",
			"storage_read_write": "var<storage, read_write>",
		},
	}
	chunks, _ := assets.ReadDir("assets/chunks")
	for _, c := range chunks {
		data, err := assets.ReadFile("assets/chunks/" + c.Name())
		if err != nil {
			continue
		}
		p.registry[strings.TrimSuffix(c.Name(), ".wgsl")] = registryEntry{Source: string(data)}
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	included := make(map[string]bool)

	for i, line := range lines {
		directive, ok := strings.CutPrefix(strings.TrimSpace(line), annotationPrefix)
		if !ok {
			out = append(out, line)
			continue
		}
		fields := strings.Fields(directive)
		if len(fields) == 0 {
			return "", fmt.Errorf("line %d: empty directive", i+1)
		}

		switch fields[0] {
		case "include":
			if len(fields) != 2 {
				return "", fmt.Errorf("line %d: include expects 1 argument, got %d", i+1, len(fields)-1)
			}
			entry, ok := p.registry[fields[1]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown include %q", i+1, fields[1])
			}
			if included[fields[1]] {
				continue
			}
			included[fields[1]] = true
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case "group":
			decl, err := p.declaration(fields[1:])
			if err != nil {
				return "", fmt.Errorf("line %d: %w", i+1, err)
			}
			out = append(out, decl)
		default:
			return "", fmt.Errorf("line %d: unknown directive %q", i+1, fields[0])
		}
	}
	return strings.Join(out, "\n"), nil
}

// declaration renders the arguments of a group directive as a WGSL variable declaration.
func (p *preProcessor) declaration(args []string) (string, error) {
	if len(args) != 5 {
		return "", fmt.Errorf("group expects 5 arguments, got %d", len(args))
	}
	group, err := strconv.Atoi(args[0])
	if err != nil || group < 0 {
		return "", fmt.Errorf("invalid group index %q", args[0])
	}
	binding, err := strconv.Atoi(args[1])
	if err != nil || binding < 0 {
		return "", fmt.Errorf("invalid binding index %q", args[1])
	}
	space, ok := p.addressSpaces[args[2]]
	if !ok {
		return "", fmt.Errorf("unknown address space %q", args[2])
	}
	entry, ok := p.registry[args[4]]
	if !ok || entry.Type == "" {
		return "", fmt.Errorf("unknown struct %q", args[4])
	}
	return fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", group, binding, space, args[3], entry.Type), nil
}
