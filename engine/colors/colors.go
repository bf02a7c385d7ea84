package colors

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Color [4]float32

var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{0, 0, 0, 0}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Parse reads "#rrggbb" or "#rrggbbaa" (the '#' is optional).
func Parse(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		float32(v>>24&0xff) / 255,
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// Hex formats c as "#rrggbbaa".
func (c Color) Hex() string {
	b := func(f float32) uint8 {
		if f <= 0 {
			return 0
		}
		if f >= 1 {
			return 255
		}
		return uint8(f*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", b(c[0]), b(c[1]), b(c[2]), b(c[3]))
}

// UnmarshalYAML accepts a hex string or a list of 3-4 floats.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		parsed, err := Parse(n.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var f []float32
	if err := n.Decode(&f); err != nil {
		return err
	}
	switch len(f) {
	case 3:
		*c = Color{f[0], f[1], f[2], 1}
	case 4:
		*c = Color{f[0], f[1], f[2], f[3]}
	default:
		return fmt.Errorf("line %d: color needs 3 or 4 components, got %d", n.Line, len(f))
	}
	return nil
}

func (c Color) MarshalYAML() (any, error) { return c.Hex(), nil }
