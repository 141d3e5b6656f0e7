package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/camera"
	"github.com/Carmen-Shannon/oxy-ironman/engine/light"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-ironman/engine/scene"
)

func boxModel(mat material.Material) model.Model {
	verts := []model.GPUVertex{{Position: [3]float32{3, 1, -2}}, {Position: [3]float32{5, 5, -1}}}
	mesh := &model.Mesh{Name: "box", Vertices: verts, Indices: []uint32{0, 1, 0}, Material: mat, Bounds: model.ComputeBounds(verts)}
	return model.NewModel(
		model.WithName("box"),
		model.WithMeshes([]*model.Mesh{mesh}),
		model.WithNodes([]model.Node{{Name: "root", Local: mgl32.Ident4(), Meshes: []int{0}}}),
	)
}

func TestScene(t *testing.T) {
	t.Run("new scene has neither model nor environment", func(t *testing.T) {
		s := scene.NewScene("main", camera.NewCamera())
		assert.True(t, s.Model().IsEmpty())
		assert.True(t, s.Environment().IsEmpty())
		assert.False(t, s.Ready())
		assert.Equal(t, [4]float64{}, s.ClearColor())
		assert.Equal(t, float32(1), s.Exposure())
	})
	t.Run("nil camera panics", func(t *testing.T) {
		assert.Panics(t, func() { scene.NewScene("main", nil) })
	})
	t.Run("install model tints, scales and centers", func(t *testing.T) {
		mat := material.NewMaterial(material.WithBaseColor([4]float32{1, 1, 1, 0.5}))
		s := scene.NewScene("main", camera.NewCamera())

		obj := s.InstallModel(boxModel(mat))

		require.False(t, s.Model().IsEmpty())
		assert.Same(t, obj, s.Model().ValueOrZero())
		assert.Equal(t, [4]float32{0.22, 1.0, 0.08, 0.5}, mat.BaseColor())
		assert.Equal(t, common.RGB(0, 0.1, 0.3), mat.Emissive())
		assert.InDelta(t, 1.25, obj.Scale().X(), 1e-6)
		assert.True(t, obj.WorldBounds().Center().ApproxEqualThreshold(mgl32.Vec3{}, 1e-5))
	})
	t.Run("custom tint and target size are honored", func(t *testing.T) {
		mat := material.NewMaterial()
		s := scene.NewScene("main", camera.NewCamera(),
			scene.WithTint(common.RGB(1, 0, 0), common.RGB(0, 0, 1)),
			scene.WithTargetSize(10),
		)
		obj := s.InstallModel(boxModel(mat))
		assert.Equal(t, [4]float32{1, 0, 0, 1}, mat.BaseColor())
		assert.InDelta(t, 2.5, obj.Scale().X(), 1e-6)
	})
	t.Run("ready once both assets are present", func(t *testing.T) {
		s := scene.NewScene("main", camera.NewCamera())
		env, err := light.NewEnvironmentMap("env", 1, 1, []float32{1, 1, 1})
		require.NoError(t, err)

		s.SetEnvironment(nil)
		assert.True(t, s.Environment().IsEmpty())
		s.SetEnvironment(env)
		assert.False(t, s.Ready())
		s.InstallModel(boxModel(material.NewMaterial()))

		assert.True(t, s.Ready())
	})
}
