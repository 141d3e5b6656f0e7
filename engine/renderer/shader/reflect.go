package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// typeLayout is the size and alignment of a WGSL type in host-shareable memory.
type typeLayout struct {
	size  uint64
	align uint64
}

// vertexFormat maps a WGSL vertex attribute type to its format and byte size.
type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

type field struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type structDecl struct {
	name   string
	fields []field
}

// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]typeLayout{
	"f32": {4, 4}, "i32": {4, 4}, "u32": {4, 4},
	"vec2<f32>": {8, 8}, "vec2f": {8, 8},
	"vec3<f32>": {12, 16}, "vec3f": {12, 16},
	"vec4<f32>": {16, 16}, "vec4f": {16, 16},
	"vec2<u32>": {8, 8}, "vec4<u32>": {16, 16},
	"mat3x3<f32>": {48, 16}, "mat4x4<f32>": {64, 16}, "mat4x4f": {64, 16},
}

var vertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
}

var textureDimensions = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_cube":     wgpu.TextureViewDimensionCube,
	"texture_3d":       wgpu.TextureViewDimension3D,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	structRegex    = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex  = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex   = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRegex     = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)
	bindingRegex   = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
	vertexEntry    = regexp.MustCompile(`(?s)@vertex\s+fn\s+(\w+)`)
	fragmentEntry  = regexp.MustCompile(`(?s)@fragment\s+fn\s+(\w+)`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// parseEntryPoint returns the name of the first function tagged with the stage attribute.
func parseEntryPoint(source string, stage Stage) string {
	re := vertexEntry
	if stage == StageFragment {
		re = fragmentEntry
	}
	if m := re.FindStringSubmatch(stripComments(source)); m != nil {
		return m[1]
	}
	return ""
}

// parseBindGroupLayouts reflects every @group/@binding declaration into layout descriptors.
// Uniform and storage buffers get MinBindingSize from the size of their struct, so buffers
// created from the descriptor are large enough without further configuration.
//
// Parameters:
//   - source: pre-processed WGSL
//   - visibility: the stages every entry is visible to
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group, entries sorted by binding
//   - map[int]map[int]string: variable names keyed by group and binding
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	cleaned := stripComments(source)
	sizes := structLayouts(parseStructs(cleaned))

	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)
	for _, m := range bindingRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		space, name, typeName := strings.TrimSpace(m[3]), m[4], strings.TrimSpace(m[5])

		entry := classify(uint32(binding), visibility, space, typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := resolveLayout(typeName, sizes); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}
		entries[group] = append(entries[group], entry)
		if names[group] == nil {
			names[group] = make(map[int]string)
		}
		names[group][binding] = name
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, es := range entries {
		sort.Slice(es, func(i, j int) bool { return es[i].Binding < es[j].Binding })
		out[g] = wgpu.BindGroupLayoutDescriptor{Entries: es}
	}
	return out, names
}

// parseVertexLayouts turns every struct made only of @location fields into a vertex buffer
// layout with tightly packed attributes. Output structs, which carry @builtin(position), are skipped.
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	var layouts []wgpu.VertexBufferLayout
	for _, s := range parseStructs(stripComments(source)) {
		if !isVertexInput(s) {
			continue
		}
		attrs := make([]wgpu.VertexAttribute, 0, len(s.fields))
		var offset uint64
		ok := true
		for _, f := range s.fields {
			vf, known := vertexFormats[f.typeName]
			if !known {
				ok = false
				break
			}
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         vf.format,
				Offset:         offset,
				ShaderLocation: uint32(f.location),
			})
			offset += vf.size
		}
		if ok {
			layouts = append(layouts, wgpu.VertexBufferLayout{
				ArrayStride: offset,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes:  attrs,
			})
		}
	}
	return layouts
}

func classify(binding uint32, visibility wgpu.ShaderStage, space, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}

	switch {
	case space == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(space, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(space, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(typeName, "texture_"):
		base, param, _ := strings.Cut(strings.TrimSuffix(typeName, ">"), "<")
		entry.Texture.ViewDimension = textureDimensions[base]
		entry.Texture.SampleType = sampleTypes[strings.TrimSpace(param)]
	}
	return entry
}

func parseStructs(source string) []structDecl {
	var out []structDecl
	for _, m := range structRegex.FindAllStringSubmatch(source, -1) {
		s := structDecl{name: m[1]}
		for _, part := range splitTopLevel(m[2]) {
			part = strings.TrimSpace(part)
			fm := fieldRegex.FindStringSubmatch(part)
			if part == "" || fm == nil {
				continue
			}
			f := field{name: fm[1], typeName: strings.TrimSpace(fm[2]), location: -1}
			f.builtin = builtinRegex.MatchString(part)
			if lm := locationRegex.FindStringSubmatch(part); lm != nil {
				f.location, _ = strconv.Atoi(lm[1])
			}
			s.fields = append(s.fields, f)
		}
		out = append(out, s)
	}
	return out
}

// structLayouts computes the layout of every struct, resolving structs nested in other
// structs by repeating until no more progress is made.
func structLayouts(structs []structDecl) map[string]typeLayout {
	known := make(map[string]typeLayout, len(structs))
	for progress := true; progress; {
		progress = false
		for _, s := range structs {
			if _, done := known[s.name]; done {
				continue
			}
			offset, align, ok := uint64(0), uint64(1), true
			for _, f := range s.fields {
				if f.builtin {
					continue
				}
				l, resolved := resolveLayout(f.typeName, known)
				if !resolved {
					ok = false
					break
				}
				offset = roundUp(l.align, offset) + l.size
				align = max(align, l.align)
			}
			if ok {
				known[s.name] = typeLayout{roundUp(align, offset), align}
				progress = true
			}
		}
	}
	return known
}

func resolveLayout(typeName string, known map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}
	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok {
		return typeLayout{}, false
	}
	elem, count, sized := strings.Cut(strings.TrimSuffix(inner, ">"), ",")
	el, ok := resolveLayout(strings.TrimSpace(elem), known)
	if !ok {
		return typeLayout{}, false
	}
	stride := roundUp(el.align, el.size)
	if !sized {
		return typeLayout{stride, el.align}, true
	}
	n, err := strconv.ParseUint(strings.TrimSpace(count), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	return typeLayout{n * stride, el.align}, true
}

func isVertexInput(s structDecl) bool {
	located := false
	for _, f := range s.fields {
		if f.builtin {
			return false
		}
		located = located || f.location >= 0
	}
	return located
}

func roundUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// splitTopLevel splits a struct body on commas outside angle brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func stripComments(source string) string {
	source = blockCommentRe.ReplaceAllString(source, "")
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
