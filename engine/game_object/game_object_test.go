package game_object_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-ironman/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer/material"
)

func boxModel(lo, hi mgl32.Vec3) model.Model {
	verts := []model.GPUVertex{{Position: [3]float32(lo)}, {Position: [3]float32(hi)}}
	mesh := &model.Mesh{
		Name:     "box",
		Vertices: verts,
		Indices:  []uint32{0, 1, 0},
		Material: material.NewMaterial(),
		Bounds:   model.ComputeBounds(verts),
	}
	return model.NewModel(
		model.WithMeshes([]*model.Mesh{mesh}),
		model.WithNodes([]model.Node{{Name: "root", Local: mgl32.Ident4(), Meshes: []int{0}}}),
	)
}

func TestFitToSize(t *testing.T) {
	t.Run("box of size 2,4,1 is scaled by 1.25 and centered", func(t *testing.T) {
		obj := game_object.NewGameObject(game_object.WithModel(boxModel(mgl32.Vec3{3, 1, -2}, mgl32.Vec3{5, 5, -1})))

		scale := obj.FitToSize(5)

		assert.InDelta(t, 1.25, scale, 1e-6)
		assert.Equal(t, mgl32.Vec3{1.25, 1.25, 1.25}, obj.Scale())
		wb := obj.WorldBounds()
		assert.InDelta(t, 5, wb.MaxDim(), 1e-5)
		assert.True(t, wb.Center().ApproxEqualThreshold(mgl32.Vec3{}, 1e-5))
	})
	t.Run("scale is target over max dimension for any box", func(t *testing.T) {
		for _, size := range []mgl32.Vec3{{0.01, 0.02, 0.005}, {100, 3, 7}, {1, 1, 1}} {
			obj := game_object.NewGameObject(game_object.WithModel(boxModel(mgl32.Vec3{-1, 2, 3}, mgl32.Vec3{-1, 2, 3}.Add(size))))
			maxDim := max(size.X(), size.Y(), size.Z())
			assert.InDelta(t, 5/maxDim, obj.FitToSize(5), 1e-3)
			assert.True(t, obj.WorldBounds().Center().ApproxEqualThreshold(mgl32.Vec3{}, 1e-3))
		}
	})
	t.Run("degenerate box keeps scale and is only centered", func(t *testing.T) {
		p := mgl32.Vec3{2, 3, 4}
		obj := game_object.NewGameObject(game_object.WithModel(boxModel(p, p)))
		assert.Equal(t, float32(1), obj.FitToSize(5))
		assert.Equal(t, mgl32.Vec3{-2, -3, -4}, obj.Position())
	})
	t.Run("object without model is left alone", func(t *testing.T) {
		obj := game_object.NewGameObject()
		assert.Equal(t, float32(1), obj.FitToSize(5))
		assert.Equal(t, mgl32.Vec3{}, obj.Position())
	})
}

func TestGameObjectTransform(t *testing.T) {
	t.Run("rotation axis updates only one angle", func(t *testing.T) {
		obj := game_object.NewGameObject(game_object.WithRotation(mgl32.Vec3{0.1, 0.2, 0.3}))
		obj.SetRotationAxis(1, 0.5)
		obj.SetRotationAxis(3, 9)
		assert.Equal(t, mgl32.Vec3{0.1, 0.5, 0.3}, obj.Rotation())
	})
	t.Run("new objects get distinct ids", func(t *testing.T) {
		a, b := game_object.NewGameObject(), game_object.NewGameObject()
		assert.NotEqual(t, a.ID(), b.ID())
		assert.True(t, a.Enabled())
	})
	t.Run("model matrix applies scale before translation", func(t *testing.T) {
		obj := game_object.NewGameObject(
			game_object.WithPosition(mgl32.Vec3{1, 0, 0}),
			game_object.WithScale(mgl32.Vec3{2, 2, 2}),
		)
		p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, obj.ModelMatrix())
		assert.True(t, p.ApproxEqual(mgl32.Vec3{3, 0, 0}))
	})
}
