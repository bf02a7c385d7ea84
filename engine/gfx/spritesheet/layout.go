// Package spritesheet maps animation steps to texture regions of a sheet
// whose frames are laid out on a regular grid.
package spritesheet

import (
	"errors"
	"fmt"
	"math"

	"github.com/hubastard/sprig/engine/geom"
)

// ErrInvalidLayout is returned for grids without cells or texRects without area.
var ErrInvalidLayout = errors.New("spritesheet: invalid layout")

// Layout describes where the frames live inside a texture.
//
// TexRect is the normalized region of the image holding the whole grid.
// Grid only matters through its extent: cols = X1-X0, rows = Y1-Y0.
// Step 0 is the top-left cell, steps advance left to right then downward.
type Layout struct {
	TexRect geom.FloatRect
	Grid    geom.IntRect
}

// NewLayout returns a validated layout.
func NewLayout(texRect geom.FloatRect, grid geom.IntRect) (Layout, error) {
	l := Layout{TexRect: texRect, Grid: grid}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

func (l Layout) Cols() int   { return l.Grid.W() }
func (l Layout) Rows() int   { return l.Grid.H() }
func (l Layout) Frames() int { return l.Cols() * l.Rows() }

func (l Layout) Validate() error {
	if l.Cols() <= 0 || l.Rows() <= 0 {
		return fmt.Errorf("%w: grid is %dx%d cells", ErrInvalidLayout, l.Cols(), l.Rows())
	}
	// cols*rows must fit in an int for step wrapping.
	if l.Rows() > math.MaxInt/l.Cols() {
		return fmt.Errorf("%w: grid of %dx%d cells overflows the step count", ErrInvalidLayout, l.Cols(), l.Rows())
	}
	if !l.TexRect.Valid() {
		return fmt.Errorf("%w: texRect %v has no area", ErrInvalidLayout, l.TexRect)
	}
	return nil
}

// Wrap reduces step into [0, Frames). Negative steps wrap backwards.
// The layout must be valid.
func (l Layout) Wrap(step int) int {
	n := l.Frames()
	step %= n
	if step < 0 {
		step += n
	}
	return step
}

// Cell returns the column and row of step, counted from the top-left cell.
func (l Layout) Cell(step int) (cx, cy int) {
	step = l.Wrap(step)
	cols := l.Cols()
	return step % cols, step / cols
}

// StepRect returns the sample region for step. The layout must be valid;
// use TexRectForStep when that is not already known.
func (l Layout) StepRect(step int) geom.FloatRect {
	cx, cy := l.Cell(step)
	cellW := l.TexRect.W() / float32(l.Cols())
	cellH := l.TexRect.H() / float32(l.Rows())

	// Texture V grows upward, grid rows grow downward.
	row := l.Rows() - 1 - cy

	return geom.FloatRect{
		X0: l.TexRect.X0 + float32(cx)*cellW,
		Y0: l.TexRect.Y0 + float32(row)*cellH,
		X1: l.TexRect.X0 + float32(cx+1)*cellW,
		Y1: l.TexRect.Y0 + float32(row+1)*cellH,
	}
}

// TexRectForStep validates layout and returns the sample region for step.
func TexRectForStep(layout Layout, step int) (geom.FloatRect, error) {
	if err := layout.Validate(); err != nil {
		return geom.FloatRect{}, err
	}
	return layout.StepRect(step), nil
}
