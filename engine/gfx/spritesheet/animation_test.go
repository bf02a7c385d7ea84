package spritesheet

import (
	"testing"

	"github.com/hubastard/sprig/engine/geom"
	"github.com/stretchr/testify/assert"
)

func TestAnimation_Loop(t *testing.T) {
	l := Layout{TexRect: unit, Grid: geom.R(0, 0, 2, 2)}
	a := NewAnimation(l, 4) // one frame every 0.25s

	assert.Equal(t, 0, a.Step())
	assert.Equal(t, 0, a.Advance(0.1))
	assert.Equal(t, 1, a.Advance(0.2))
	assert.Equal(t, 3, a.Advance(0.5))
	assert.Equal(t, 0, a.Advance(0.25))
	assert.Equal(t, 0, a.Advance(-1))

	a.Reset()
	assert.Equal(t, 0, a.Step())
}

func TestAnimation_Once(t *testing.T) {
	l := Layout{TexRect: unit, Grid: geom.R(0, 0, 3, 1)}
	a := NewAnimation(l, 10)
	a.Loop = false

	assert.False(t, a.Done())
	assert.Equal(t, 2, a.Advance(5))
	assert.True(t, a.Done())
}

func TestAnimation_ZeroFPS(t *testing.T) {
	l := Layout{TexRect: unit, Grid: geom.R(0, 0, 2, 2)}
	a := NewAnimation(l, 0)
	assert.Equal(t, 0, a.Advance(10))
}
