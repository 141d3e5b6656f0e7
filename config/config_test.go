package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ironman.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, common.RGB(0.22, 1.0, 0.08), cfg.Model.Tint)
	assert.Equal(t, common.RGB(0, 0.1, 0.3), cfg.Model.Emissive)
	assert.Equal(t, float32(5), cfg.Model.TargetSize)
	assert.InDelta(t, math.Pi*0.12, cfg.Pointer.Factor, 1e-6)
	assert.Equal(t, 800*time.Millisecond, cfg.Pointer.Duration)
	assert.Equal(t, float32(0.0045), cfg.Effect.Amount)
	assert.Equal(t, [3]float32{0, 0, 9}, cfg.Camera.Position)
	assert.Equal(t, "assets/scene.gltf", cfg.Assets.ModelPath)
}

func TestLoad(t *testing.T) {
	t.Run("should return defaults without a path", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})
	t.Run("should override only the keys present in the file", func(t *testing.T) {
		// given
		path := writeConfig(t, `
assets:
  model_path: models/mark42.glb
effect:
  amount: 0.01
pointer:
  duration: 1.5s
model:
  tint: [1, 0, 0]
`)
		// when
		cfg, err := config.Load(path)
		// then
		require.NoError(t, err)
		assert.Equal(t, "models/mark42.glb", cfg.Assets.ModelPath)
		assert.Equal(t, config.Default().Assets.EnvironmentURL, cfg.Assets.EnvironmentURL)
		assert.Equal(t, float32(0.01), cfg.Effect.Amount)
		assert.Equal(t, 1500*time.Millisecond, cfg.Pointer.Duration)
		assert.Equal(t, common.RGB(1, 0, 0), cfg.Model.Tint)
		assert.Equal(t, float32(5), cfg.Model.TargetSize)
	})
	t.Run("should reject unknown keys", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "effekt:\n  amount: 1\n"))
		assert.Error(t, err)
	})
	t.Run("should reject values that fail validation", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "window:\n  width: 0\n"))
		assert.ErrorIs(t, err, config.ErrInvalid)
	})
	t.Run("should report a missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *config.Config){
		"zero target size":      func(c *config.Config) { c.Model.TargetSize = 0 },
		"negative duration":     func(c *config.Config) { c.Pointer.Duration = -time.Second },
		"far plane before near": func(c *config.Config) { c.Camera.Far = 0.05 },
		"flat field of view":    func(c *config.Config) { c.Camera.Fov = 180 },
		"negative effect":       func(c *config.Config) { c.Effect.Amount = -0.1 },
		"no workers":            func(c *config.Config) { c.Loader.Workers = 0 },
		"no http timeout":       func(c *config.Config) { c.Loader.HTTPTimeout = 0 },
		"negative frame limit":  func(c *config.Config) { c.Renderer.FrameLimit = -1 },
	}
	for name, mutate := range cases {
		t.Run("should reject "+name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}
