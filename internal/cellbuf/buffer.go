package cellbuf

import (
	"strings"

	"github.com/dshills/textweave/internal/geom"
)

// Buffer is a row-major grid of cells. The backing slice always holds
// exactly width*height cells; the canonical empty buffer is 0x0.
type Buffer struct {
	width  int
	height int
	cells  []Cell
}

// New creates a buffer of the given size filled with blank default-style
// cells. Nonpositive dimensions produce the empty 0x0 buffer.
func New(size geom.Size) *Buffer {
	return newFilled(size, BlankCell(DefaultStyle()))
}

// newFilled creates a buffer with every cell set to fill.
func newFilled(size geom.Size, fill Cell) *Buffer {
	if size.W <= 0 || size.H <= 0 {
		return &Buffer{}
	}
	b := &Buffer{
		width:  size.W,
		height: size.H,
		cells:  make([]Cell, size.W*size.H),
	}
	for i := range b.cells {
		b.cells[i] = fill
	}
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() geom.Size {
	return geom.Size{W: b.width, H: b.height}
}

// Width returns the buffer width in cells.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in rows.
func (b *Buffer) Height() int {
	return b.height
}

// IsEmpty reports whether the buffer holds no cells.
func (b *Buffer) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}

// At returns the cell at the given position. Out-of-bounds positions return
// a blank default cell.
func (b *Buffer) At(pos geom.Position) Cell {
	if pos.X < 0 || pos.X >= b.width || pos.Y < 0 || pos.Y >= b.height {
		return BlankCell(DefaultStyle())
	}
	return b.cells[pos.Y*b.width+pos.X]
}

// Set writes a cell at the given position. Out-of-bounds writes are ignored.
func (b *Buffer) Set(pos geom.Position, cell Cell) {
	if pos.X < 0 || pos.X >= b.width || pos.Y < 0 || pos.Y >= b.height {
		return
	}
	b.cells[pos.Y*b.width+pos.X] = cell
}

// Fill overwrites every cell with the given rune and style.
func (b *Buffer) Fill(style Style, r rune) {
	cell := NewCell(r, style)
	for i := range b.cells {
		b.cells[i] = cell
	}
}

// Clone returns a deep copy with independent storage.
func (b *Buffer) Clone() *Buffer {
	clone := &Buffer{
		width:  b.width,
		height: b.height,
	}
	if len(b.cells) > 0 {
		clone.cells = make([]Cell, len(b.cells))
		copy(clone.cells, b.cells)
	}
	return clone
}

// Equal reports whether two buffers have the same size and cell contents.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.cells {
		if !b.cells[i].Equals(other.cells[i]) {
			return false
		}
	}
	return true
}

// WriteString writes text starting at pos. A '\n' resets the column to the
// starting column and advances the row. Wide runes occupy their width with a
// continuation cell; cells falling outside the buffer are skipped. Control
// characters other than '\n' are dropped.
func (b *Buffer) WriteString(pos geom.Position, style Style, s string) {
	y := pos.Y
	for _, line := range strings.Split(s, "\n") {
		x := pos.X
		for _, cell := range cellsForString(line, style) {
			b.Set(geom.Position{X: x, Y: y}, cell)
			x++
		}
		y++
	}
}

// Blit copies src into the buffer at the given offset. The copied region is
// the intersection of src's footprint with the buffer bounds; an empty
// intersection is a silent no-op, never an error. Out-of-bounds portions of
// src are simply not copied.
func (b *Buffer) Blit(src *Buffer, at geom.Offset) error {
	overlap, ok := geom.RectAt(at, src.Size()).Intersect(geom.RectOf(b.Size()))
	if !ok {
		return nil
	}
	dst, err := overlap.Offset.Position()
	if err != nil {
		return err
	}
	from, err := overlap.Offset.Sub(at).Position()
	if err != nil {
		return err
	}
	for row := 0; row < overlap.Size.H; row++ {
		d := (dst.Y+row)*b.width + dst.X
		s := (from.Y+row)*src.width + from.X
		copy(b.cells[d:d+overlap.Size.W], src.cells[s:s+overlap.Size.W])
	}
	return nil
}

// Rows returns an iterator over the buffer's rows, top to bottom. The
// yielded slices alias the buffer's storage and are valid until the buffer
// is mutated or released.
func (b *Buffer) Rows() *RowIter {
	return &RowIter{buf: b}
}

// RowIter iterates over buffer rows. The zero row is yielded first; Reset
// restarts the iteration from the top.
type RowIter struct {
	buf *Buffer
	row int
}

// Next returns the next row and true, or nil and false after the last row.
func (it *RowIter) Next() ([]Cell, bool) {
	if it.row >= it.buf.height {
		return nil, false
	}
	start := it.row * it.buf.width
	it.row++
	return it.buf.cells[start : start+it.buf.width], true
}

// Reset restarts the iterator at the first row.
func (it *RowIter) Reset() {
	it.row = 0
}
