package scene

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/common/optional"
	"github.com/Carmen-Shannon/oxy-ironman/engine/camera"
	"github.com/Carmen-Shannon/oxy-ironman/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ironman/engine/light"
	"github.com/Carmen-Shannon/oxy-ironman/engine/model"
)

// Defaults for the model presentation.
var (
	DefaultTint     = common.RGB(0.22, 1.0, 0.08)
	DefaultEmissive = common.RGB(0, 0.1, 0.3)
)

// DefaultTargetSize is the largest dimension an installed model is scaled to.
const DefaultTargetSize float32 = 5

// Scene holds the state drawn every frame: a camera, an optional model instance and an optional
// environment map. Both optionals start empty and are filled once when their asset arrives.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Model returns the placed model, empty until InstallModel succeeds.
	//
	// Returns:
	//   - optional.Optional[game_object.GameObject]: the model instance
	Model() optional.Optional[game_object.GameObject]

	// Environment returns the lighting environment, empty until SetEnvironment is called.
	//
	// Returns:
	//   - optional.Optional[*light.EnvironmentMap]: the environment map
	Environment() optional.Optional[*light.EnvironmentMap]

	// InstallModel tints every material of m, scales the model so its largest dimension equals
	// the target size, centers it at the origin and makes it the scene model.
	//
	// Parameters:
	//   - m: the imported model
	//
	// Returns:
	//   - game_object.GameObject: the placed instance
	InstallModel(m model.Model) game_object.GameObject

	// SetEnvironment installs the lighting environment. A nil map is ignored.
	//
	// Parameters:
	//   - env: the environment map
	SetEnvironment(env *light.EnvironmentMap)

	// Ready reports whether both the model and the environment are present.
	//
	// Returns:
	//   - bool: true once every asset has arrived
	Ready() bool

	// ClearColor returns the RGBA color the frame is cleared to.
	//
	// Returns:
	//   - [4]float64: the clear color
	ClearColor() [4]float64

	// Exposure returns the tone mapping exposure.
	//
	// Returns:
	//   - float32: the exposure multiplier
	Exposure() float32

	// EnvironmentIntensity returns the multiplier applied to environment lighting.
	//
	// Returns:
	//   - float32: the intensity
	EnvironmentIntensity() float32
}

type scene struct {
	mu *sync.RWMutex

	name string
	cam  camera.Camera

	model       optional.Optional[game_object.GameObject]
	environment optional.Optional[*light.EnvironmentMap]

	tint       common.Color
	emissive   common.Color
	targetSize float32

	clearColor   [4]float64
	exposure     float32
	envIntensity float32
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera. The camera is required and NewScene
// panics if it is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	s := &scene{
		mu:           &sync.RWMutex{},
		name:         name,
		cam:          cam,
		tint:         DefaultTint,
		emissive:     DefaultEmissive,
		targetSize:   DefaultTargetSize,
		exposure:     1,
		envIntensity: 1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Model() optional.Optional[game_object.GameObject] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

func (s *scene) Environment() optional.Optional[*light.EnvironmentMap] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.environment
}

func (s *scene) InstallModel(m model.Model) game_object.GameObject {
	s.mu.RLock()
	tint, emissive, size := s.tint, s.emissive, s.targetSize
	s.mu.RUnlock()

	tinted := m.Tint(tint, emissive)
	obj := game_object.NewGameObject(game_object.WithModel(m))
	scale := obj.FitToSize(size)

	s.mu.Lock()
	s.model.Set(obj)
	s.mu.Unlock()

	slog.Info("Model installed",
		"scene", s.name,
		"model", m.Name(),
		"materials", tinted,
		"scale", scale,
		"position", obj.Position(),
	)
	return obj
}

func (s *scene) SetEnvironment(env *light.EnvironmentMap) {
	if env == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environment.Set(env)
}

func (s *scene) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.model.IsEmpty() && !s.environment.IsEmpty()
}

func (s *scene) ClearColor() [4]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clearColor
}

func (s *scene) Exposure() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exposure
}

func (s *scene) EnvironmentIntensity() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.envIntensity
}
