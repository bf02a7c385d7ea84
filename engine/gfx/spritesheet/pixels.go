package spritesheet

import "github.com/hubastard/sprig/engine/geom"

// FromPixels builds a normalized texRect from a pixel rectangle inside an image.
// x,y is the top-left corner in image space (y grows downward). Images are
// uploaded bottom row first, so V is flipped: v=0 is the bottom edge.
func FromPixels(x, y, w, h, imgW, imgH int) geom.FloatRect {
	u0 := float32(x) / float32(imgW)
	u1 := float32(x+w) / float32(imgW)
	v0 := 1 - float32(y+h)/float32(imgH)
	v1 := 1 - float32(y)/float32(imgH)
	return geom.FloatRect{X0: u0, Y0: v0, X1: u1, Y1: v1}
}
