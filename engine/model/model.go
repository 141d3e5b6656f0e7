package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name   string
	nodes  []Node
	roots  []int
	meshes []*Mesh
}

// Model defines the interface for an imported, immutable node hierarchy of meshes.
// Per-instance placement (scale, position, rotation) lives on a GameObject, not on the Model.
type Model interface {
	// Name returns the model identifier, usually the source path.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Nodes returns the flat node list; hierarchy is expressed through Node.Children.
	//
	// Returns:
	//   - []Node: every node in the model
	Nodes() []Node

	// Roots returns the indices of the top-level nodes.
	//
	// Returns:
	//   - []int: root node indices
	Roots() []int

	// Meshes returns every primitive in the model.
	//
	// Returns:
	//   - []*Mesh: the meshes
	Meshes() []*Mesh

	// Materials returns the distinct materials referenced by mesh-bearing nodes, in first-seen order.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// Walk visits every node depth-first with its accumulated model-space transform.
	// Cycles in malformed input are broken by visiting each node at most once.
	//
	// Parameters:
	//   - visit: called once per node
	Walk(visit func(index int, node Node, transform mgl32.Mat4))

	// DrawList returns every mesh instance reachable from the roots, with its transform.
	//
	// Returns:
	//   - []DrawItem: the draw list in traversal order
	DrawList() []DrawItem

	// Bounds returns the axis-aligned box of all mesh geometry in model space, honoring node transforms.
	//
	// Returns:
	//   - common.Box3: the bounds, empty if the model has no geometry
	Bounds() common.Box3

	// Tint sets the base color and emissive color of every material used by a mesh-bearing node.
	//
	// Parameters:
	//   - color: the new base color
	//   - emissive: the new emissive color
	//
	// Returns:
	//   - int: the number of materials changed
	Tint(color, emissive common.Color) int
}

var _ Model = &model{}

// NewModel creates a new Model configured with the provided options.
// A model built without explicit roots treats every node that is nobody's child as a root.
//
// Parameters:
//   - options: functional options for configuring the Model
//
// Returns:
//   - Model: the new model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.roots == nil {
		m.roots = detectRoots(m.nodes)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Nodes() []Node {
	return m.nodes
}

func (m *model) Roots() []int {
	return m.roots
}

func (m *model) Meshes() []*Mesh {
	return m.meshes
}

func (m *model) Materials() []material.Material {
	seen := make(map[material.Material]bool)
	var out []material.Material
	m.Walk(func(_ int, node Node, _ mgl32.Mat4) {
		for _, mi := range node.Meshes {
			mat := m.meshAt(mi)
			if mat == nil || mat.Material == nil || seen[mat.Material] {
				continue
			}
			seen[mat.Material] = true
			out = append(out, mat.Material)
		}
	})
	return out
}

func (m *model) Walk(visit func(index int, node Node, transform mgl32.Mat4)) {
	visited := make([]bool, len(m.nodes))
	var walk func(idx int, parent mgl32.Mat4)
	walk = func(idx int, parent mgl32.Mat4) {
		if idx < 0 || idx >= len(m.nodes) || visited[idx] {
			return
		}
		visited[idx] = true
		node := m.nodes[idx]
		world := parent.Mul4(node.Local)
		visit(idx, node, world)
		for _, child := range node.Children {
			walk(child, world)
		}
	}
	for _, r := range m.roots {
		walk(r, mgl32.Ident4())
	}
}

func (m *model) DrawList() []DrawItem {
	var items []DrawItem
	m.Walk(func(_ int, node Node, transform mgl32.Mat4) {
		for _, mi := range node.Meshes {
			if mesh := m.meshAt(mi); mesh != nil {
				items = append(items, DrawItem{Mesh: mesh, Transform: transform})
			}
		}
	})
	return items
}

func (m *model) Bounds() common.Box3 {
	box := common.EmptyBox()
	for _, item := range m.DrawList() {
		box.Union(item.Mesh.Bounds.Transform(item.Transform))
	}
	return box
}

func (m *model) Tint(color, emissive common.Color) int {
	mats := m.Materials()
	for _, mat := range mats {
		mat.SetColor(color)
		mat.SetEmissive(emissive)
	}
	return len(mats)
}

func (m *model) meshAt(i int) *Mesh {
	if i < 0 || i >= len(m.meshes) {
		return nil
	}
	return m.meshes[i]
}

// detectRoots returns every node index that does not appear as a child of another node.
func detectRoots(nodes []Node) []int {
	isChild := make([]bool, len(nodes))
	for _, n := range nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(nodes) {
				isChild[c] = true
			}
		}
	}
	roots := []int{}
	for i := range nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}
