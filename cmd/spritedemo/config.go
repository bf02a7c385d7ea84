package main

import (
	"fmt"

	"github.com/hubastard/sprig/engine/assets"
	"github.com/hubastard/sprig/engine/core"
	"github.com/hubastard/sprig/engine/geom"
	"github.com/hubastard/sprig/engine/gfx/spritesheet"
	"github.com/hubastard/sprig/engine/scene"
)

type demoConfig struct {
	Engine core.Config  `yaml:"engine"`
	Sprite spriteConfig `yaml:"sprite"`
}

type spriteConfig struct {
	Image     string     `yaml:"image"`
	ShaderDir string     `yaml:"shader_dir"` // overrides the embedded shaders when set
	TexRect   [4]float32 `yaml:"tex_rect"`   // x0, y0, x1, y1 in normalized UV
	TexPixels *[4]int    `yaml:"tex_pixels"` // x, y, w, h from the image's top-left; wins over tex_rect
	Grid      [4]int     `yaml:"grid"`       // x0, y0, x1, y1 in cells
	FPS       float64    `yaml:"fps"`
	Loop      bool       `yaml:"loop"`
	Filter    string     `yaml:"filter"`
	Pose      poseConfig `yaml:"pose"`
}

// poseConfig leaves unset fields at the sprite's defaults.
type poseConfig struct {
	X      *float32 `yaml:"x"`
	Y      *float32 `yaml:"y"`
	Width  *float32 `yaml:"width"`
	Height *float32 `yaml:"height"`
	Angle  *float32 `yaml:"angle"` // radians
}

func defaultDemoConfig() demoConfig {
	eng := core.DefaultConfig()
	eng.Title = "sprig sprite demo"
	return demoConfig{
		Engine: eng,
		Sprite: spriteConfig{
			Image:   "assets/example.png",
			TexRect: [4]float32{0, 0, 1, 1},
			Grid:    [4]int{0, 0, 1, 1},
			Loop:    true,
			Filter:  "nearest",
		},
	}
}

func loadDemoConfig(path string) (demoConfig, error) {
	cfg := defaultDemoConfig()
	if path == "" {
		return cfg, nil
	}
	if err := core.LoadYAML(path, &cfg); err != nil {
		return demoConfig{}, err
	}
	if err := cfg.validate(); err != nil {
		return demoConfig{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c demoConfig) validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if c.Sprite.Image == "" {
		return fmt.Errorf("sprite.image is required")
	}
	if p := c.Sprite.TexPixels; p != nil && (p[0] < 0 || p[1] < 0 || p[2] <= 0 || p[3] <= 0) {
		return fmt.Errorf("sprite.tex_pixels %v needs a non-negative origin and positive size", *p)
	}
	if c.Sprite.FPS < 0 {
		return fmt.Errorf("sprite.fps %g must not be negative", c.Sprite.FPS)
	}
	return nil
}

// texRect resolves the sampled region, reading the image header when the
// region is given in pixels.
func (s spriteConfig) texRect() (geom.FloatRect, error) {
	if p := s.TexPixels; p != nil {
		w, h, err := assets.ImageSize(s.Image)
		if err != nil {
			return geom.FloatRect{}, err
		}
		return spritesheet.FromPixels(p[0], p[1], p[2], p[3], w, h), nil
	}
	return geom.R(s.TexRect[0], s.TexRect[1], s.TexRect[2], s.TexRect[3]), nil
}

func (s spriteConfig) grid() geom.IntRect {
	return geom.R(s.Grid[0], s.Grid[1], s.Grid[2], s.Grid[3])
}

func (p poseConfig) update() scene.Update {
	var u scene.Update
	set := func(dst *scene.Optional, v *float32) {
		if v != nil {
			*dst = scene.Some(*v)
		}
	}
	set(&u.X, p.X)
	set(&u.Y, p.Y)
	set(&u.Width, p.Width)
	set(&u.Height, p.Height)
	set(&u.Angle, p.Angle)
	return u
}
