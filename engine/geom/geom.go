package geom

import (
	"math"
	"unsafe"
)

// RotatePoint rotates (px,py) counter-clockwise by rad radians around (ox,oy).
func RotatePoint(px, py, rad, ox, oy float32) (float32, float32) {
	s, c := math.Sincos(float64(rad))
	sin, cos := float32(s), float32(c)
	px -= ox
	py -= oy
	return px*cos - py*sin + ox, px*sin + py*cos + oy
}

// SizeOf returns the size in bytes of the elements held by s,
// which is what GL buffer uploads expect.
func SizeOf[T any](s []T) int {
	var zero T
	return len(s) * int(unsafe.Sizeof(zero))
}
