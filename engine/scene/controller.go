package scene

import "github.com/hubastard/sprig/engine/core"

// Mover is anything that can be nudged around by a controller.
type Mover interface {
	Move(dx, dy float32)
	Rotate(dRad float32)
}

// PoseController: WASD/arrows move, Q/E rotate.
type PoseController struct {
	MoveSpeed float32 // units per second
	RotSpeed  float32 // radians per second
	Target    Mover
}

func NewPoseController(target Mover) *PoseController {
	return &PoseController{
		MoveSpeed: 1,
		RotSpeed:  2.0,
		Target:    target,
	}
}

// Update applies the held keys for dt seconds and reports whether the target changed.
func (pc *PoseController) Update(in *core.Input, dt float32) bool {
	speed := pc.MoveSpeed * dt
	rotSpeed := pc.RotSpeed * dt

	var dx, dy, da float32
	if in.IsAnyDown(core.KeyW, core.KeyUp) {
		dy += speed
	}
	if in.IsAnyDown(core.KeyS, core.KeyDown) {
		dy -= speed
	}
	if in.IsAnyDown(core.KeyA, core.KeyLeft) {
		dx -= speed
	}
	if in.IsAnyDown(core.KeyD, core.KeyRight) {
		dx += speed
	}
	if in.IsKeyDown(core.KeyQ) {
		da += rotSpeed
	}
	if in.IsKeyDown(core.KeyE) {
		da -= rotSpeed
	}

	if dx != 0 || dy != 0 {
		pc.Target.Move(dx, dy)
	}
	if da != 0 {
		pc.Target.Rotate(da)
	}
	return dx != 0 || dy != 0 || da != 0
}
