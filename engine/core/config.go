package core

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hubastard/sprig/engine/colors"
	"gopkg.in/yaml.v3"
)

// Config for the engine run.
type Config struct {
	Title      string       `yaml:"title"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	VSync      bool         `yaml:"vsync"`
	Fullscreen bool         `yaml:"fullscreen"`
	ClearColor colors.Color `yaml:"clear_color"`
	LogLevel   string       `yaml:"log_level"`
	TickRate   int          `yaml:"tick_rate"` // fixed updates per second
}

// DefaultConfig matches the window the sandbox opens without a config file.
func DefaultConfig() Config {
	return Config{
		Title:      "sprig",
		Width:      600,
		Height:     600,
		VSync:      true,
		ClearColor: colors.Color{0, 0, 0, 0.5},
		LogLevel:   "info",
		TickRate:   60,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := LoadYAML(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// LoadYAML decodes path into out, rejecting unknown keys. Fields missing
// from the file keep whatever out already holds.
func LoadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode config %q: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate %d must be positive", c.TickRate)
	}
	return nil
}
