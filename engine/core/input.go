package core

// Input tracks key state from events so it can be polled during updates.
type Input struct {
	keys           map[Key]bool
	pressed        map[Key]bool // went down since the last EndFrame
	mouseX, mouseY float64
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}, pressed: map[Key]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		if e.Down && !in.keys[e.Key] {
			in.pressed[e.Key] = true
		}
		in.keys[e.Key] = e.Down
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
	}
}

func (in *Input) IsKeyDown(k Key) bool { return in.keys[k] }

// IsAnyDown reports whether at least one of ks is held.
func (in *Input) IsAnyDown(ks ...Key) bool {
	for _, k := range ks {
		if in.keys[k] {
			return true
		}
	}
	return false
}

// WasPressed is edge-triggered: true once per press until EndFrame.
func (in *Input) WasPressed(k Key) bool { return in.pressed[k] }

// EndFrame clears edge-triggered state.
func (in *Input) EndFrame() { clear(in.pressed) }

func (in *Input) Mouse() (float64, float64) { return in.mouseX, in.mouseY }
