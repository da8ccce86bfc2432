// Command pathtrace loads a render config and a .ptscene scene file, runs
// the core path tracer, and writes a gamma-corrected PNG. This is the
// image-output collaborator the core documentation describes but does
// not implement: gamma correction, clamping, quantization, and file
// encoding all live here, outside the core.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	stdmath "math"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/lumenforge/pathtracer/config"
	"github.com/lumenforge/pathtracer/pathtracer"
	"github.com/lumenforge/pathtracer/sceneio"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	configPath := flag.String("config", "", "path to a render config YAML file")
	flag.Parse()

	if *configPath == "" {
		logger.Error("missing required -config flag")
		os.Exit(1)
	}

	if err := run(logger, *configPath); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	scene, err := sceneio.LoadScene(cfg.ScenePath, cfg.MaxDepth)
	if err != nil {
		return errors.Wrap(err, "load scene")
	}

	logger.Info("rendering",
		"scene", scene.Name,
		"spp", cfg.SPP,
		"max_depth", cfg.MaxDepth,
		"width", scene.Camera.Width,
		"height", scene.Camera.Height,
	)

	start := time.Now()
	fb := pathtracer.Render(scene, cfg.SPP, cfg.MaxDepth)
	logger.Info("render complete", "elapsed", time.Since(start).String())

	if err := writePNG(cfg.OutPath, fb); err != nil {
		return errors.Wrap(err, "write output")
	}
	logger.Info("wrote image", "path", cfg.OutPath)
	return nil
}

// writePNG applies gamma correction (x -> x^(1/2.2)), clamps to [0,1],
// quantizes to 8-bit, and encodes a PNG. None of this is part of the
// core, which only ever produces linear, non-gamma-encoded radiance.
func writePNG(path string, fb *pathtracer.Framebuffer) error {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	const invGamma = 1.0 / 2.2

	for row := 0; row < fb.Height; row++ {
		for col := 0; col < fb.Width; col++ {
			c := fb.At(row, col)
			img.Set(col, row, color.RGBA{
				R: toByte(c.X, invGamma),
				G: toByte(c.Y, invGamma),
				B: toByte(c.Z, invGamma),
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func toByte(v float32, invGamma float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	corrected := stdmath.Pow(float64(v), invGamma)
	return uint8(corrected*255 + 0.5)
}
