// Ironman renders a tinted glTF model lit by an HDR environment map through an RGB shift
// post-processing pass. The model turns toward the mouse cursor.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Carmen-Shannon/oxy-ironman/common"
	"github.com/Carmen-Shannon/oxy-ironman/config"
	"github.com/Carmen-Shannon/oxy-ironman/engine"
	"github.com/Carmen-Shannon/oxy-ironman/engine/camera"
	"github.com/Carmen-Shannon/oxy-ironman/engine/interaction"
	"github.com/Carmen-Shannon/oxy-ironman/engine/loader"
	"github.com/Carmen-Shannon/oxy-ironman/engine/renderer"
	"github.com/Carmen-Shannon/oxy-ironman/engine/scene"
	"github.com/Carmen-Shannon/oxy-ironman/engine/window"
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		slog.Error("ironman stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var out io.Writer = os.Stderr
	if *logFileFlag != "" {
		out = &lumberjack.Logger{
			Filename:   *logFileFlag,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: levelFlag.value})))

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *environmentFlag != "" {
		cfg.Assets.EnvironmentURL = *environmentFlag
	}
	if *modelFlag != "" {
		cfg.Assets.ModelPath = *modelFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The window locks the calling goroutine to its OS thread; everything below runs on it.
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()
	// The surface has to match the framebuffer, so a content scale above the cap is only reported.
	ratio := common.PixelRatio(win.ContentScale())
	lw, lh := win.LogicalSize()
	cw, ch := common.ScaledSize(lw, lh, ratio)
	if cw < win.Width() || ch < win.Height() {
		slog.Warn("framebuffer exceeds the pixel ratio cap", "contentScale", win.ContentScale(), "cap", common.MaxPixelRatio)
	}
	slog.Info("window created",
		"framebuffer", fmt.Sprintf("%dx%d", win.Width(), win.Height()),
		"pixelRatio", ratio,
	)

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Release()

	cam := camera.NewCamera(
		camera.WithFov(cfg.Camera.Fov*math.Pi/180),
		camera.WithClip(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithPosition(mgl32.Vec3(cfg.Camera.Position)),
		camera.WithAspect(float32(win.Width())/float32(max(win.Height(), 1))),
	)
	sc := scene.NewScene("ironman", cam,
		scene.WithTint(cfg.Model.Tint, cfg.Model.Emissive),
		scene.WithTargetSize(cfg.Model.TargetSize),
	)

	ld := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithWorkers(cfg.Loader.Workers),
		loader.WithHTTPClient(&http.Client{
			Transport: loader.LoggedTransport{},
			Timeout:   cfg.Loader.HTTPTimeout,
		}),
	)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithLoader(ld),
		engine.WithAssets(cfg.Assets.EnvironmentURL, cfg.Assets.ModelPath),
		engine.WithPointerOptions(
			interaction.WithFactor(cfg.Pointer.Factor),
			interaction.WithDuration(cfg.Pointer.Duration),
		),
		engine.WithProfiling(*profileFlag || cfg.Renderer.Profiling),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
	)
	return eng.Run(ctx)
}

func rendererOptions(cfg config.Config) []renderer.RendererBuilderOption {
	options := []renderer.RendererBuilderOption{
		renderer.WithTransparentSurface(cfg.Renderer.Transparent),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
		renderer.WithRGBShift(cfg.Effect.Amount, cfg.Effect.Angle),
	}
	if !cfg.Renderer.MSAA {
		options = append(options, renderer.WithMSAA(renderer.MSAAOff))
	}
	if !cfg.Renderer.VSync {
		options = append(options, renderer.WithPresentMode(renderer.PresentModeUncapped))
	}
	return options
}
