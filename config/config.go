// Package config loads render settings (samples per pixel, max bounce
// depth, output path) from a YAML file, with functional-option overrides
// for callers that want to tweak a loaded config without re-parsing it.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RenderConfig holds the host-side settings that drive one call to
// pathtracer.Render; none of these fields are part of the core itself.
type RenderConfig struct {
	ScenePath string `yaml:"scene_path"`
	OutPath   string `yaml:"out_path"`
	SPP       int    `yaml:"spp"`
	MaxDepth  int    `yaml:"max_depth"`
}

// defaults provides reasonable fallbacks so a render can proceed even if
// a config file omits most fields.
var defaults = RenderConfig{
	OutPath:  "render.png",
	SPP:      16,
	MaxDepth: 5,
}

// Attr is an optional override applied to a RenderConfig after it is
// loaded.
//
//	cfg, err := config.Load("scene.yaml", config.SPP(256), config.MaxDepth(8))
type Attr func(*RenderConfig)

// SPP overrides the samples-per-pixel setting.
func SPP(n int) Attr {
	return func(c *RenderConfig) { c.SPP = n }
}

// MaxDepth overrides the maximum path depth.
func MaxDepth(n int) Attr {
	return func(c *RenderConfig) { c.MaxDepth = n }
}

// OutPath overrides the output image path.
func OutPath(path string) Attr {
	return func(c *RenderConfig) { c.OutPath = path }
}

// Load reads a YAML render config from path, applies defaults for any
// zero-valued field, then applies the given overrides in order.
func Load(path string, attrs ...Attr) (RenderConfig, error) {
	cfg := defaults

	data, err := os.ReadFile(path)
	if err != nil {
		return RenderConfig{}, errors.Wrapf(err, "read config %q", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RenderConfig{}, errors.Wrapf(err, "parse config %q", path)
	}

	if cfg.SPP <= 0 {
		cfg.SPP = defaults.SPP
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = defaults.MaxDepth
	}
	if cfg.OutPath == "" {
		cfg.OutPath = defaults.OutPath
	}

	for _, attr := range attrs {
		attr(&cfg)
	}

	if cfg.ScenePath == "" {
		return RenderConfig{}, errors.New("config: scene_path is required")
	}
	return cfg, nil
}
