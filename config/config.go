package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/Carmen-Shannon/oxy-ironman/common"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable of the demo. The zero value is not usable; start from Default.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Assets   AssetsConfig   `yaml:"assets"`
	Model    ModelConfig    `yaml:"model"`
	Pointer  PointerConfig  `yaml:"pointer"`
	Camera   CameraConfig   `yaml:"camera"`
	Effect   EffectConfig   `yaml:"effect"`
	Renderer RendererConfig `yaml:"renderer"`
	Loader   LoaderConfig   `yaml:"loader"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type AssetsConfig struct {
	EnvironmentURL string `yaml:"environment_url"`
	ModelPath      string `yaml:"model_path"`
}

type ModelConfig struct {
	Tint       common.Color `yaml:"tint"`
	Emissive   common.Color `yaml:"emissive"`
	TargetSize float32      `yaml:"target_size"`
}

type PointerConfig struct {
	// Factor is the rotation range in radians across the whole viewport.
	Factor   float32       `yaml:"factor"`
	Duration time.Duration `yaml:"duration"`
}

type CameraConfig struct {
	// Fov is the vertical field of view in degrees.
	Fov      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
}

type EffectConfig struct {
	Amount float32 `yaml:"amount"`
	Angle  float32 `yaml:"angle"`
}

type RendererConfig struct {
	MSAA        bool    `yaml:"msaa"`
	VSync       bool    `yaml:"vsync"`
	Transparent bool    `yaml:"transparent"`
	Software    bool    `yaml:"software"`
	FrameLimit  float64 `yaml:"frame_limit"`
	Profiling   bool    `yaml:"profiling"`
}

type LoaderConfig struct {
	Workers     int           `yaml:"workers"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// Default returns the configuration the demo runs with when no file is given.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "IRONMAN",
			Width:  1280,
			Height: 720,
		},
		Assets: AssetsConfig{
			EnvironmentURL: "https://dl.polyhaven.org/file/ph-assets/HDRIs/hdr/1k/lakeside_dawn_1k.hdr",
			ModelPath:      "assets/scene.gltf",
		},
		Model: ModelConfig{
			Tint:       common.RGB(0.22, 1.0, 0.08),
			Emissive:   common.RGB(0, 0.1, 0.3),
			TargetSize: 5,
		},
		Pointer: PointerConfig{
			Factor:   math.Pi * 0.12,
			Duration: 800 * time.Millisecond,
		},
		Camera: CameraConfig{
			Fov:      55,
			Near:     0.1,
			Far:      1000,
			Position: [3]float32{0, 0, 9},
		},
		Effect: EffectConfig{
			Amount: 0.0045,
		},
		Renderer: RendererConfig{
			MSAA:        true,
			VSync:       true,
			Transparent: true,
		},
		Loader: LoaderConfig{
			Workers:     2,
			HTTPTimeout: 30 * time.Second,
		},
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file keep their default.
//
// Parameters:
//   - path: the YAML file, empty for defaults only
//
// Returns:
//   - Config: the merged configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode unmarshals YAML into cfg, leaving fields the document does not mention untouched.
// Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	return yaml.UnmarshalWithOptions(data, cfg, yaml.Strict())
}

// Validate rejects sizes, durations and clip planes the renderer cannot work with.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalid naming the first bad field
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Model.TargetSize <= 0:
		return fmt.Errorf("%w: target_size %v", ErrInvalid, c.Model.TargetSize)
	case c.Pointer.Duration <= 0:
		return fmt.Errorf("%w: pointer duration %v", ErrInvalid, c.Pointer.Duration)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return fmt.Errorf("%w: fov %v", ErrInvalid, c.Camera.Fov)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: clip planes %v..%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Effect.Amount < 0:
		return fmt.Errorf("%w: effect amount %v", ErrInvalid, c.Effect.Amount)
	case c.Renderer.FrameLimit < 0:
		return fmt.Errorf("%w: frame_limit %v", ErrInvalid, c.Renderer.FrameLimit)
	case c.Loader.Workers <= 0:
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Loader.Workers)
	case c.Loader.HTTPTimeout <= 0:
		return fmt.Errorf("%w: http_timeout %v", ErrInvalid, c.Loader.HTTPTimeout)
	}
	return nil
}
