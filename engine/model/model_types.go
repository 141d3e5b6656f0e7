package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/material"
)

// Mesh is one drawable primitive: an indexed triangle list with a single material.
type Mesh struct {
	// Name identifies the primitive for logging, usually "<mesh>/<primitive index>".
	Name string

	// Vertices holds the interleaved vertex data in model space.
	Vertices []GPUVertex

	// Indices holds the triangle list indices into Vertices.
	Indices []uint32

	// Material is the surface the primitive is drawn with. Never nil after import.
	Material material.Material

	// Bounds is the axis-aligned box of Vertices in the mesh's local space.
	Bounds common.Box3

	// Provider holds the GPU vertex/index buffers and the per-draw uniform once uploaded.
	Provider bind_group_provider.BindGroupProvider
}

// Node is one element of the imported node hierarchy.
type Node struct {
	// Name is the node identifier from the source file.
	Name string

	// Local is the node transform relative to its parent.
	Local mgl32.Mat4

	// Meshes lists indices into Model.Meshes drawn at this node. Empty for pure transform nodes.
	Meshes []int

	// Children lists indices into Model.Nodes.
	Children []int
}

// DrawItem pairs a mesh with its accumulated model-space transform.
type DrawItem struct {
	Mesh      *Mesh
	Transform mgl32.Mat4
}

// ComputeBounds returns the box enclosing the positions of the given vertices.
//
// Parameters:
//   - vertices: the vertices to enclose
//
// Returns:
//   - common.Box3: the bounds, empty if there are no vertices
func ComputeBounds(vertices []GPUVertex) common.Box3 {
	b := common.EmptyBox()
	for _, v := range vertices {
		b.ExpandByPoint(mgl32.Vec3(v.Position))
	}
	return b
}
