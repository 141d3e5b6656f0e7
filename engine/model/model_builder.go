package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithNodes is an option builder that sets the node hierarchy of the Model.
//
// Parameters:
//   - nodes: the flat node list
//
// Returns:
//   - ModelBuilderOption: a function that applies the nodes option to a model
func WithNodes(nodes []Node) ModelBuilderOption {
	return func(m *model) {
		m.nodes = nodes
	}
}

// WithRoots is an option builder that sets which nodes start the hierarchy, typically the
// nodes of the file's default scene.
//
// Parameters:
//   - roots: root node indices
//
// Returns:
//   - ModelBuilderOption: a function that applies the roots option to a model
func WithRoots(roots []int) ModelBuilderOption {
	return func(m *model) {
		m.roots = roots
	}
}

// WithMeshes is an option builder that sets the primitives referenced by Node.Meshes.
//
// Parameters:
//   - meshes: the meshes
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes []*Mesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = meshes
	}
}
