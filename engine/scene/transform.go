// Package scene holds the pose of drawable objects.
//
// Angles are radians everywhere, counter-clockwise positive. The model matrix
// is built straight from that value, so no degree conversion happens anywhere.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/sprig/engine/geom"
)

// Optional is a float that may be left unset in an Update.
type Optional struct {
	v  float32
	ok bool
}

func Some(v float32) Optional { return Optional{v: v, ok: true} }

// Get returns the value when set, otherwise fallback.
func (o Optional) Get(fallback float32) float32 {
	if o.ok {
		return o.v
	}
	return fallback
}

func (o Optional) IsSet() bool { return o.ok }

// Update is a partial pose change. Unset fields keep their current value,
// which keeps 0 usable as a real position or angle.
type Update struct {
	X, Y          Optional
	Width, Height Optional
	Angle         Optional
}

// Transform is a position/size/angle triple with its cached model matrix.
// The matrix is T(x,y,0) * Rz(angle) * S(w,h,1): the unit quad is scaled in
// object space, rotated about its own centre, then moved into place.
type Transform struct {
	pos   mgl32.Vec2
	size  mgl32.Vec2
	angle float32
	mat   mgl32.Mat4
}

// NewTransform starts at the origin with size (1,1) and no rotation.
func NewTransform() *Transform {
	t := &Transform{size: mgl32.Vec2{1, 1}}
	t.recalculate()
	return t
}

func (t *Transform) Position() (x, y float32) { return t.pos[0], t.pos[1] }
func (t *Transform) Size() (w, h float32)     { return t.size[0], t.size[1] }
func (t *Transform) Angle() float32           { return t.angle }
func (t *Transform) Matrix() mgl32.Mat4       { return t.mat }

func (t *Transform) SetPosition(x, y float32) {
	t.pos = mgl32.Vec2{x, y}
	t.recalculate()
}

// SetSize accepts any size; zero or negative values give a degenerate or mirrored quad.
func (t *Transform) SetSize(w, h float32) {
	t.size = mgl32.Vec2{w, h}
	t.recalculate()
}

func (t *Transform) SetAngle(rad float32) {
	t.angle = rad
	t.recalculate()
}

func (t *Transform) Move(dx, dy float32) { t.SetPosition(t.pos[0]+dx, t.pos[1]+dy) }
func (t *Transform) Rotate(dRad float32) { t.SetAngle(t.angle + dRad) }

// Set applies the fields of u that are set.
func (t *Transform) Set(u Update) {
	t.pos = mgl32.Vec2{u.X.Get(t.pos[0]), u.Y.Get(t.pos[1])}
	t.size = mgl32.Vec2{u.Width.Get(t.size[0]), u.Height.Get(t.size[1])}
	t.angle = u.Angle.Get(t.angle)
	t.recalculate()
}

// Apply maps an object-space point the way Matrix does, without the 4x4 product.
func (t *Transform) Apply(x, y float32) (float32, float32) {
	x, y = geom.RotatePoint(x*t.size[0], y*t.size[1], t.angle, 0, 0)
	return x + t.pos[0], y + t.pos[1]
}

func (t *Transform) recalculate() {
	t.mat = mgl32.Translate3D(t.pos[0], t.pos[1], 0).
		Mul4(mgl32.HomogRotate3DZ(t.angle)).
		Mul4(mgl32.Scale3D(t.size[0], t.size[1], 1))
}
