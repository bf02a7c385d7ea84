// Package quad is the CPU-side mirror of a sprite's vertex and index buffers.
package quad

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/sprig/engine/core"
	"github.com/hubastard/sprig/engine/geom"
)

// Vertex order; the two triangles are (0,1,3) and (1,2,3).
const (
	TopRight = iota
	BottomRight
	BottomLeft
	TopLeft
)

// Vertex: pos2 + uv2 => 4 floats
const Stride = 4

const (
	VertexCount = 4
	IndexCount  = 6
)

// Attribute slots expected by the sprite shader. Slot 1 is left unused.
const (
	AttribPosition = 0
	AttribTexCoord = 2
)

var Layout = core.VertexLayout{
	Stride: Stride * 4,
	Attributes: []core.VertexAttrib{
		{Location: AttribPosition, Size: 2, Type: core.AttribFloat32, Offset: 0},     // pos
		{Location: AttribTexCoord, Size: 2, Type: core.AttribFloat32, Offset: 2 * 4}, // uv
	},
}

type Vertex struct {
	Pos mgl32.Vec2
	UV  mgl32.Vec2
}

type Quad [VertexCount]Vertex

// Indices returns a fresh copy of the index list.
func Indices() []uint32 { return []uint32{0, 1, 3, 1, 2, 3} }

// New returns a w x h quad centred on the origin sampling the whole texture.
func New(w, h float32) Quad {
	var q Quad
	q.SetPositions(w, h)
	q.SetTexRect(geom.R[float32](0, 0, 1, 1))
	return q
}

// Unit is New(1, 1); sized placement is left to the model matrix.
func Unit() Quad { return New(1, 1) }

// SetPositions bakes a w x h rectangle centred on the origin.
func (q *Quad) SetPositions(w, h float32) {
	hw, hh := w*0.5, h*0.5
	q[TopRight].Pos = mgl32.Vec2{hw, hh}
	q[BottomRight].Pos = mgl32.Vec2{hw, -hh}
	q[BottomLeft].Pos = mgl32.Vec2{-hw, -hh}
	q[TopLeft].Pos = mgl32.Vec2{-hw, hh}
}

// SetTexRect assigns r to the texture coordinates; Y1 is the top edge.
func (q *Quad) SetTexRect(r geom.FloatRect) {
	q[TopRight].UV = mgl32.Vec2{r.X1, r.Y1}
	q[BottomRight].UV = mgl32.Vec2{r.X1, r.Y0}
	q[BottomLeft].UV = mgl32.Vec2{r.X0, r.Y0}
	q[TopLeft].UV = mgl32.Vec2{r.X0, r.Y1}
}

// TexRect reads the texture rectangle back from the corners.
func (q *Quad) TexRect() geom.FloatRect {
	return geom.FloatRect{
		X0: q[BottomLeft].UV[0], Y0: q[BottomLeft].UV[1],
		X1: q[TopRight].UV[0], Y1: q[TopRight].UV[1],
	}
}

// AppendFloats appends the interleaved vertex data in buffer layout.
func (q *Quad) AppendFloats(dst []float32) []float32 {
	for _, v := range q {
		dst = append(dst, v.Pos[0], v.Pos[1], v.UV[0], v.UV[1])
	}
	return dst
}
