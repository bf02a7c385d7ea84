package scene

import (
	"testing"

	"github.com/hubastard/sprig/engine/core"
	"github.com/stretchr/testify/assert"
)

func press(in *core.Input, keys ...core.Key) {
	for _, k := range keys {
		in.Handle(core.EventKey{Key: k, Down: true})
	}
}

func TestPoseControllerMoves(t *testing.T) {
	tr := NewTransform()
	pc := NewPoseController(tr)
	in := core.NewInput()

	assert.False(t, pc.Update(in, 1))

	press(in, core.KeyD, core.KeyUp)
	assert.True(t, pc.Update(in, 0.5))
	x, y := tr.Position()
	assert.InDelta(t, 0.5, x, eps)
	assert.InDelta(t, 0.5, y, eps)

	in.Handle(core.EventKey{Key: core.KeyD, Down: false})
	press(in, core.KeyA)
	pc.Update(in, 1)
	x, _ = tr.Position()
	assert.InDelta(t, -0.5, x, eps)
}

func TestPoseControllerRotates(t *testing.T) {
	tr := NewTransform()
	pc := NewPoseController(tr)
	in := core.NewInput()

	press(in, core.KeyQ)
	pc.Update(in, 0.25)
	assert.InDelta(t, 0.5, tr.Angle(), eps)

	press(in, core.KeyE) // both held cancel out
	assert.False(t, pc.Update(in, 1))
}
