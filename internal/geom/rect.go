// Package geom provides the rectangle algebra the compositor is built on.
//
// All types are plain values. Offsets are signed so that composition can
// place one block above or left of another before the result is normalized;
// sizes and positions are never negative.
package geom

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned when a signed offset with a negative coordinate is
// converted to a position. The conversion never clamps or wraps.
var ErrOverflow = errors.New("offset has negative coordinate")

// Offset is a signed 2D translation.
type Offset struct {
	X int
	Y int
}

// Add returns the elementwise sum of two offsets.
func (o Offset) Add(p Offset) Offset {
	return Offset{X: o.X + p.X, Y: o.Y + p.Y}
}

// Sub returns the elementwise difference of two offsets.
func (o Offset) Sub(p Offset) Offset {
	return Offset{X: o.X - p.X, Y: o.Y - p.Y}
}

// Neg returns the offset with both coordinates negated.
func (o Offset) Neg() Offset {
	return Offset{X: -o.X, Y: -o.Y}
}

// Position converts the offset to a nonnegative position. It fails with
// ErrOverflow if either coordinate is negative.
func (o Offset) Position() (Position, error) {
	if o.X < 0 || o.Y < 0 {
		return Position{}, fmt.Errorf("converting offset (%d, %d): %w", o.X, o.Y, ErrOverflow)
	}
	return Position{X: o.X, Y: o.Y}, nil
}

// Position is a nonnegative 2D coordinate inside a buffer.
type Position struct {
	X int
	Y int
}

// Offset widens the position back to a signed offset. Always succeeds.
func (p Position) Offset() Offset {
	return Offset{X: p.X, Y: p.Y}
}

// Size is a nonnegative 2D extent.
type Size struct {
	W int
	H int
}

// IsZero reports whether either dimension is zero.
func (s Size) IsZero() bool {
	return s.W == 0 || s.H == 0
}

// Area returns the number of cells the size spans.
func (s Size) Area() int {
	return s.W * s.H
}

// Rect is a signed offset plus a nonnegative size. Rects are transient
// computation values; nothing stores them long term.
type Rect struct {
	Offset Offset
	Size   Size
}

// RectAt returns a rect with the given offset and size.
func RectAt(off Offset, size Size) Rect {
	return Rect{Offset: off, Size: size}
}

// RectOf returns a rect of the given size at the zero offset.
func RectOf(size Size) Rect {
	return Rect{Size: size}
}

// IsEmpty reports whether the rect covers no cells.
func (r Rect) IsEmpty() bool {
	return r.Size.IsZero()
}

// FarCorner returns the offset one past the rect's bottom-right cell.
func (r Rect) FarCorner() Offset {
	return Offset{X: r.Offset.X + r.Size.W, Y: r.Offset.Y + r.Size.H}
}

// Intersect returns the overlap of two rects. The offset is the elementwise
// maximum of the two offsets; each size dimension is the smaller of the two
// distances from the new offset to each rect's far corner. The second return
// is false when either dimension comes out nonpositive. Commutative.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	off := Offset{
		X: max(r.Offset.X, other.Offset.X),
		Y: max(r.Offset.Y, other.Offset.Y),
	}
	rFar := r.FarCorner()
	oFar := other.FarCorner()
	w := min(rFar.X, oFar.X) - off.X
	h := min(rFar.Y, oFar.Y) - off.Y
	if w <= 0 || h <= 0 {
		return Rect{}, false
	}
	return Rect{Offset: off, Size: Size{W: w, H: h}}, true
}

// Union returns the smallest rect covering both inputs. The offset is the
// elementwise minimum of the two offsets; each size dimension is the larger
// of the two distances from the new offset to each rect's far corner. Always
// defined and commutative.
func (r Rect) Union(other Rect) Rect {
	off := Offset{
		X: min(r.Offset.X, other.Offset.X),
		Y: min(r.Offset.Y, other.Offset.Y),
	}
	rFar := r.FarCorner()
	oFar := other.FarCorner()
	return Rect{
		Offset: off,
		Size: Size{
			W: max(rFar.X, oFar.X) - off.X,
			H: max(rFar.Y, oFar.Y) - off.Y,
		},
	}
}
