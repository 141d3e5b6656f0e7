package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
)

// objectCount generates unique IDs for objects built without WithID.
var objectCount atomic.Uint64

type gameObject struct {
	mu *sync.Mutex

	id      uint64
	enabled atomic.Bool
	mdl     model.Model

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
}

// GameObject defines the interface for a placed instance of a Model in the scene.
// The transform is applied on top of the model's own node hierarchy as T * R * S,
// with R built from Euler angles in XYZ order.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model associated with this object.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Position returns the translation of the object.
	//
	// Returns:
	//   - mgl32.Vec3: position in world space
	Position() mgl32.Vec3

	// Rotation returns the Euler rotation of the object in radians.
	//
	// Returns:
	//   - mgl32.Vec3: rotation about x, y and z
	Rotation() mgl32.Vec3

	// Scale returns the per-axis scale of the object.
	//
	// Returns:
	//   - mgl32.Vec3: scale factors
	Scale() mgl32.Vec3

	// ModelMatrix returns the object's world transform.
	//
	// Returns:
	//   - mgl32.Mat4: T * R * S
	ModelMatrix() mgl32.Mat4

	// WorldBounds returns the model bounds after applying the object transform.
	//
	// Returns:
	//   - common.Box3: world-space bounds, empty when there is no model geometry
	WorldBounds() common.Box3

	// SetEnabled sets whether the object is drawn.
	//
	// Parameters:
	//   - enabled: true to draw the object
	SetEnabled(enabled bool)

	// SetPosition sets the translation of the object.
	//
	// Parameters:
	//   - p: position in world space
	SetPosition(p mgl32.Vec3)

	// SetRotation sets all three Euler angles of the object.
	//
	// Parameters:
	//   - r: rotation in radians
	SetRotation(r mgl32.Vec3)

	// SetRotationAxis sets one Euler angle, leaving the others untouched.
	//
	// Parameters:
	//   - axis: 0 for x, 1 for y, 2 for z
	//   - radians: the new angle
	SetRotationAxis(axis int, radians float32)

	// SetScale sets the per-axis scale of the object.
	//
	// Parameters:
	//   - s: scale factors
	SetScale(s mgl32.Vec3)

	// FitToSize uniformly scales the object so the largest dimension of its model bounds equals
	// size, then translates it so the center of the scaled bounds sits at the origin.
	// A model with a zero largest dimension keeps scale 1 and is only centered.
	//
	// Parameters:
	//   - size: the target largest dimension
	//
	// Returns:
	//   - float32: the applied uniform scale
	FitToSize(size float32) float32
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject with identity transform, enabled for rendering.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the new object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:    &sync.Mutex{},
		id:    objectCount.Add(1),
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return common.ModelMatrix(g.position, g.rotation, g.scale)
}

func (g *gameObject) WorldBounds() common.Box3 {
	if g.mdl == nil {
		return common.EmptyBox()
	}
	return g.mdl.Bounds().Transform(g.ModelMatrix())
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = r
}

func (g *gameObject) SetRotationAxis(axis int, radians float32) {
	if axis < 0 || axis > 2 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation[axis] = radians
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) FitToSize(size float32) float32 {
	if g.mdl == nil {
		return 1
	}
	box := g.mdl.Bounds()
	scale := float32(1)
	if d := box.MaxDim(); d > 0 {
		scale = size / d
	}
	center := box.Center()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = mgl32.Vec3{scale, scale, scale}
	g.position = center.Mul(-scale)
	return scale
}
