package interaction

import (
	"math"
	"sync"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/common/optional"
	"github.com/Carmen-Shannon/oxy-ironman/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ironman/engine/tween"
)

// Tween keys for the two animated rotation axes.
const (
	KeyRotationX = "rotation.x"
	KeyRotationY = "rotation.y"
)

// DefaultFactor is the rotation range in radians across the full viewport (0.12π).
const DefaultFactor = math.Pi * 0.12

// DefaultDuration is how long the model takes to settle on a new target.
const DefaultDuration = 800 * time.Millisecond

// ModelSource exposes the scene model that pointer movement rotates.
type ModelSource interface {
	Model() optional.Optional[game_object.GameObject]
}

type pointer struct {
	mu *sync.Mutex

	source   ModelSource
	tweens   tween.Group
	factor   float32
	duration time.Duration
	easing   ease.TweenFunc

	lastYaw   float32
	lastPitch float32
}

// Pointer turns cursor movement into rotation targets for the scene model.
// The horizontal position drives the rotation about the y axis (yaw) and the vertical
// position drives the rotation about the x axis (pitch). The viewport center maps to zero.
type Pointer interface {
	// Move handles a cursor position. Does nothing when the scene has no model or the
	// viewport has no area. Coordinates outside the viewport are clamped to its edges.
	//
	// Parameters:
	//   - x: cursor x in window coordinates
	//   - y: cursor y in window coordinates
	//   - width: viewport width in window coordinates
	//   - height: viewport height in window coordinates
	//
	// Returns:
	//   - bool: true if new rotation tweens were started
	Move(x, y, width, height float64) bool

	// Target returns the most recent rotation target.
	//
	// Returns:
	//   - float32: target yaw (rotation about y)
	//   - float32: target pitch (rotation about x)
	Target() (yaw, pitch float32)
}

var _ Pointer = &pointer{}

// NewPointer creates a Pointer rotating the model provided by source through the given tween group.
//
// Parameters:
//   - source: provides the optional scene model
//   - tweens: the group the rotation tweens run in
//   - options: functional options to configure the pointer
//
// Returns:
//   - Pointer: the new pointer handler
func NewPointer(source ModelSource, tweens tween.Group, options ...PointerBuilderOption) Pointer {
	p := &pointer{
		mu:       &sync.Mutex{},
		source:   source,
		tweens:   tweens,
		factor:   DefaultFactor,
		duration: DefaultDuration,
		easing:   tween.Power2Out,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *pointer) Move(x, y, width, height float64) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	obj, err := p.source.Model().Value()
	if err != nil || obj == nil {
		return false
	}

	nx := common.Clamp(x/width, 0, 1)
	ny := common.Clamp(y/height, 0, 1)
	yaw := float32(nx-0.5) * p.factor
	pitch := float32(ny-0.5) * p.factor

	p.mu.Lock()
	p.lastYaw, p.lastPitch = yaw, pitch
	p.mu.Unlock()

	rot := obj.Rotation()
	p.tweens.To(KeyRotationX, rot.X(), pitch, p.duration, p.easing, func(v float32) {
		obj.SetRotationAxis(0, v)
	})
	p.tweens.To(KeyRotationY, rot.Y(), yaw, p.duration, p.easing, func(v float32) {
		obj.SetRotationAxis(1, v)
	})
	return true
}

func (p *pointer) Target() (float32, float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastYaw, p.lastPitch
}
