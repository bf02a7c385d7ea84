package geom

// Number is the set of scalar types a Rect can be expressed in.
type Number interface {
	~int | ~int32 | ~float32 | ~float64
}

// Rect is an axis-aligned rectangle spanning (X0,Y0)-(X1,Y1).
// Width and height are expected to be positive but this is not enforced.
type Rect[T Number] struct {
	X0, Y0 T
	X1, Y1 T
}

// IntRect is used for cell grids, FloatRect for normalized texture regions.
type (
	IntRect   = Rect[int]
	FloatRect = Rect[float32]
)

func R[T Number](x0, y0, x1, y1 T) Rect[T] {
	return Rect[T]{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func (r Rect[T]) W() T { return r.X1 - r.X0 }
func (r Rect[T]) H() T { return r.Y1 - r.Y0 }

// Valid reports whether the rectangle has a strictly positive area.
func (r Rect[T]) Valid() bool { return r.X1 > r.X0 && r.Y1 > r.Y0 }

// Area is W*H; negative for inverted rectangles.
func (r Rect[T]) Area() T { return r.W() * r.H() }
