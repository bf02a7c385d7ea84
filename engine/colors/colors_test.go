package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	c, err := Parse("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, Color{1, 0, 0, 1}, c)

	c, err = Parse("00ff0080")
	require.NoError(t, err)
	assert.InDelta(t, 1, c[1], 1e-6)
	assert.InDelta(t, 128.0/255, c[3], 1e-6)

	for _, bad := range []string{"", "#fff", "#gg0000", "#1234567"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestHexRoundTrip(t *testing.T) {
	assert.Equal(t, "#ffffffff", White.Hex())
	assert.Equal(t, "#00000000", Transparent.Hex())
}

func TestUnmarshalYAML(t *testing.T) {
	var v struct {
		A Color `yaml:"a"`
		B Color `yaml:"b"`
		C Color `yaml:"c"`
	}
	src := "a: \"#000000\"\nb: [0.5, 0.25, 1]\nc: [0, 0, 0, 0.5]\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &v))
	assert.Equal(t, Black, v.A)
	assert.Equal(t, Color{0.5, 0.25, 1, 1}, v.B)
	assert.Equal(t, Color{0, 0, 0, 0.5}, v.C)

	assert.Error(t, yaml.Unmarshal([]byte("a: [1, 2]\n"), &v))
}

func TestWithAlpha(t *testing.T) {
	assert.Equal(t, Color{1, 1, 1, 0.5}, White.WithAlpha(0.5))
}
