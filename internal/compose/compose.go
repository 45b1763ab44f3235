// Package compose provides the stateless combinators that join buffers into
// larger composites. All functions allocate fresh buffers and never mutate
// their inputs.
package compose

import (
	"github.com/dshills/textweave/internal/cellbuf"
	"github.com/dshills/textweave/internal/geom"
)

// Direction names the side of the first operand that receives the second.
type Direction uint8

// Sides a buffer can be slapped onto.
const (
	DirLeft Direction = iota
	DirRight
	DirTop
	DirBottom
)

// Flip returns the complementary side: left and right swap, top and bottom
// swap.
func (d Direction) Flip() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirTop:
		return DirBottom
	case DirBottom:
		return DirTop
	default:
		return d
	}
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirTop:
		return "top"
	case DirBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Alignment selects where along the perpendicular axis two touching edges
// line up.
type Alignment uint8

// Alignment positions along the touching edge.
const (
	AlignClose Alignment = iota
	AlignCenter
	AlignFar
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignClose:
		return "close"
	case AlignCenter:
		return "center"
	case AlignFar:
		return "far"
	default:
		return "unknown"
	}
}

// Unify overlays b onto a at the given offset and returns the flattened
// composite. The result is sized to the union of both footprints; a is drawn
// first and b second, so b's cells win wherever the two overlap.
func Unify(a, b *cellbuf.Buffer, at geom.Offset) (*cellbuf.Buffer, error) {
	union := geom.RectOf(a.Size()).Union(geom.RectAt(at, b.Size()))
	out := cellbuf.New(union.Size)
	if err := out.Blit(a, union.Offset.Neg()); err != nil {
		return nil, err
	}
	if err := out.Blit(b, at.Sub(union.Offset)); err != nil {
		return nil, err
	}
	return out, nil
}

// Slap places b against the given side of a with the given alignment and
// returns the composite.
func Slap(a, b *cellbuf.Buffer, dir Direction, align Alignment) (*cellbuf.Buffer, error) {
	return Unify(a, b, SlapOffset(a.Size(), b.Size(), dir, align))
}

// SlapOffset computes the translation that places a b-sized buffer against
// the given side of an a-sized buffer: the anchor on a's (dir, align)
// boundary minus the anchor on b's (dir.Flip(), align) boundary.
func SlapOffset(a, b geom.Size, dir Direction, align Alignment) geom.Offset {
	return anchor(a, dir, align).Sub(anchor(b, dir.Flip(), align))
}

// UnifySize returns the size of the composite Unify would produce.
func UnifySize(a, b geom.Size, at geom.Offset) geom.Size {
	return geom.RectOf(a).Union(geom.RectAt(at, b)).Size
}

// Stack folds Slap over the buffers with an empty 0x0 accumulator, applying
// the same direction and alignment at every step. Zero buffers yield the
// empty buffer; one buffer yields a composite equal in content to its clone.
// Slice order is significant and preserved.
func Stack(bufs []*cellbuf.Buffer, dir Direction, align Alignment) (*cellbuf.Buffer, error) {
	acc := cellbuf.New(geom.Size{})
	for _, b := range bufs {
		next, err := Slap(acc, b, dir, align)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// anchor returns the reference point on a buffer boundary for a direction
// and alignment. The close alignment anchors at the near corner, center at
// the midpoint, far at the far corner.
func anchor(size geom.Size, dir Direction, align Alignment) geom.Offset {
	switch dir {
	case DirLeft:
		return geom.Offset{X: 0, Y: alignPos(size.H, align)}
	case DirRight:
		return geom.Offset{X: size.W, Y: alignPos(size.H, align)}
	case DirTop:
		return geom.Offset{X: alignPos(size.W, align), Y: 0}
	case DirBottom:
		return geom.Offset{X: alignPos(size.W, align), Y: size.H}
	default:
		return geom.Offset{}
	}
}

// alignPos picks a coordinate along an edge of the given extent.
func alignPos(extent int, align Alignment) int {
	switch align {
	case AlignCenter:
		return extent / 2
	case AlignFar:
		return extent
	default:
		return 0
	}
}
