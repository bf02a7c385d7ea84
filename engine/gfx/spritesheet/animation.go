package spritesheet

// Animation turns elapsed time into animation steps at a fixed frame rate.
type Animation struct {
	FPS     float64
	Loop    bool // when false the step sticks on the last frame
	frames  int
	elapsed float64
}

// NewAnimation plays every frame of l at fps.
func NewAnimation(l Layout, fps float64) *Animation {
	return &Animation{FPS: fps, Loop: true, frames: l.Frames()}
}

// Advance moves the clock forward by dt seconds and returns the current step.
func (a *Animation) Advance(dt float64) int {
	if dt > 0 {
		a.elapsed += dt
	}
	return a.Step()
}

// Step is the step for the time accumulated so far.
func (a *Animation) Step() int {
	if a.FPS <= 0 || a.frames <= 0 {
		return 0
	}
	step := int(a.elapsed * a.FPS)
	if !a.Loop && step >= a.frames {
		return a.frames - 1
	}
	return step % a.frames
}

// Done reports whether a non-looping animation reached its last frame.
func (a *Animation) Done() bool {
	return !a.Loop && a.frames > 0 && int(a.elapsed*a.FPS) >= a.frames-1
}

func (a *Animation) Reset() { a.elapsed = 0 }
