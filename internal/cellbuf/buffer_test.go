package cellbuf

import (
	"testing"

	"github.com/dshills/textweave/internal/geom"
)

func TestNewBuffer(t *testing.T) {
	b := New(geom.Size{W: 4, H: 3})

	if b.Width() != 4 || b.Height() != 3 {
		t.Errorf("expected size (4, 3), got (%d, %d)", b.Width(), b.Height())
	}
	blank := BlankCell(DefaultStyle())
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got := b.At(geom.Position{X: x, Y: y}); !got.Equals(blank) {
				t.Fatalf("expected blank cell at (%d, %d), got %+v", x, y, got)
			}
		}
	}
}

func TestNewBufferEmpty(t *testing.T) {
	for _, size := range []geom.Size{{W: 0, H: 0}, {W: 0, H: 5}, {W: 5, H: 0}} {
		b := New(size)
		if !b.IsEmpty() {
			t.Errorf("expected empty buffer for size %+v", size)
		}
		if b.Width() != 0 || b.Height() != 0 {
			t.Errorf("expected canonical 0x0, got (%d, %d)", b.Width(), b.Height())
		}
	}
}

func TestSetAndAt(t *testing.T) {
	b := New(geom.Size{W: 3, H: 2})
	cell := NewCell('x', NewStyle(ColorRed))

	b.Set(geom.Position{X: 2, Y: 1}, cell)
	if got := b.At(geom.Position{X: 2, Y: 1}); !got.Equals(cell) {
		t.Errorf("expected %+v, got %+v", cell, got)
	}

	// Out-of-bounds access must not panic and must not change state.
	b.Set(geom.Position{X: 3, Y: 0}, cell)
	b.Set(geom.Position{X: 0, Y: 2}, cell)
	if got := b.At(geom.Position{X: 3, Y: 0}); !got.Equals(BlankCell(DefaultStyle())) {
		t.Errorf("expected blank for out-of-bounds read, got %+v", got)
	}
}

func TestFill(t *testing.T) {
	b := New(geom.Size{W: 2, H: 2})
	style := NewStyle(ColorBlue)
	b.Fill(style, '#')

	want := NewCell('#', style)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := b.At(geom.Position{X: x, Y: y}); !got.Equals(want) {
				t.Errorf("expected fill cell at (%d, %d), got %+v", x, y, got)
			}
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	b := New(geom.Size{W: 2, H: 2})
	b.Set(geom.Position{X: 0, Y: 0}, NewCell('a', DefaultStyle()))

	c := b.Clone()
	if !c.Equal(b) {
		t.Fatal("expected clone to equal source")
	}

	c.Set(geom.Position{X: 0, Y: 0}, NewCell('z', DefaultStyle()))
	if b.At(geom.Position{X: 0, Y: 0}).Rune != 'a' {
		t.Error("expected source unchanged after mutating clone")
	}
}

func TestWriteString(t *testing.T) {
	b := New(geom.Size{W: 4, H: 3})
	style := NewStyle(ColorGreen)
	b.WriteString(geom.Position{X: 1, Y: 0}, style, "ab\ncd")

	wantRunes := map[geom.Position]rune{
		{X: 1, Y: 0}: 'a',
		{X: 2, Y: 0}: 'b',
		{X: 1, Y: 1}: 'c',
		{X: 2, Y: 1}: 'd',
	}
	for pos, r := range wantRunes {
		got := b.At(pos)
		if got.Rune != r {
			t.Errorf("expected %q at %+v, got %q", r, pos, got.Rune)
		}
		if !got.Style.Equals(style) {
			t.Errorf("expected style carried at %+v", pos)
		}
	}

	// The newline resets to the starting column, not column zero.
	if got := b.At(geom.Position{X: 0, Y: 1}); got.Rune != ' ' {
		t.Errorf("expected blank at (0, 1), got %q", got.Rune)
	}
}

func TestWriteStringWideRune(t *testing.T) {
	b := New(geom.Size{W: 4, H: 1})
	b.WriteString(geom.Position{X: 0, Y: 0}, DefaultStyle(), "世x")

	if got := b.At(geom.Position{X: 0, Y: 0}); got.Rune != '世' || got.Width != 2 {
		t.Errorf("expected wide rune at column 0, got %+v", got)
	}
	if !b.At(geom.Position{X: 1, Y: 0}).IsContinuation() {
		t.Error("expected continuation cell at column 1")
	}
	if got := b.At(geom.Position{X: 2, Y: 0}); got.Rune != 'x' {
		t.Errorf("expected 'x' at column 2, got %q", got.Rune)
	}
}

func TestWriteStringClips(t *testing.T) {
	b := New(geom.Size{W: 2, H: 1})
	b.WriteString(geom.Position{X: 0, Y: 0}, DefaultStyle(), "abcdef")

	if got := b.At(geom.Position{X: 0, Y: 0}).Rune; got != 'a' {
		t.Errorf("expected 'a', got %q", got)
	}
	if got := b.At(geom.Position{X: 1, Y: 0}).Rune; got != 'b' {
		t.Errorf("expected 'b', got %q", got)
	}
}

func TestBlitCopiesOverlap(t *testing.T) {
	dst := New(geom.Size{W: 4, H: 4})
	src := New(geom.Size{W: 2, H: 2})
	src.Fill(NewStyle(ColorRed), '*')

	if err := dst.Blit(src, geom.Offset{X: 1, Y: 1}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := dst.At(geom.Position{X: x, Y: y}).Rune
			inside := x >= 1 && x <= 2 && y >= 1 && y <= 2
			if inside && got != '*' {
				t.Errorf("expected '*' at (%d, %d), got %q", x, y, got)
			}
			if !inside && got != ' ' {
				t.Errorf("expected blank at (%d, %d), got %q", x, y, got)
			}
		}
	}
}

// Out-of-bounds blits clip silently. That is the documented policy, not an
// error; this test pins it so a policy change is caught.
func TestBlitClipsSilently(t *testing.T) {
	dst := New(geom.Size{W: 3, H: 3})
	src := New(geom.Size{W: 2, H: 2})
	src.Fill(DefaultStyle(), '*')

	if err := dst.Blit(src, geom.Offset{X: -1, Y: -1}); err != nil {
		t.Fatalf("expected silent clip, got error %v", err)
	}
	if got := dst.At(geom.Position{X: 0, Y: 0}).Rune; got != '*' {
		t.Errorf("expected '*' at (0, 0), got %q", got)
	}
	if got := dst.At(geom.Position{X: 1, Y: 1}).Rune; got != ' ' {
		t.Errorf("expected blank at (1, 1), got %q", got)
	}

	// Fully outside: a no-op, still no error.
	before := dst.Clone()
	if err := dst.Blit(src, geom.Offset{X: 10, Y: 10}); err != nil {
		t.Fatalf("expected silent no-op, got error %v", err)
	}
	if !dst.Equal(before) {
		t.Error("expected destination unchanged by fully clipped blit")
	}
}

func TestBlitIdempotent(t *testing.T) {
	src := New(geom.Size{W: 2, H: 2})
	src.Fill(NewStyle(ColorCyan), '#')

	once := New(geom.Size{W: 4, H: 4})
	if err := once.Blit(src, geom.Offset{X: 1, Y: 1}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	twice := New(geom.Size{W: 4, H: 4})
	for i := 0; i < 2; i++ {
		if err := twice.Blit(src, geom.Offset{X: 1, Y: 1}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	if !once.Equal(twice) {
		t.Error("expected blitting twice to equal blitting once")
	}
}

func TestRowIteration(t *testing.T) {
	b := New(geom.Size{W: 3, H: 2})
	b.WriteString(geom.Position{X: 0, Y: 0}, DefaultStyle(), "abc\ndef")

	it := b.Rows()
	var rows []string
	for row, ok := it.Next(); ok; row, ok = it.Next() {
		if len(row) != 3 {
			t.Fatalf("expected row width 3, got %d", len(row))
		}
		s := ""
		for _, cell := range row {
			s += string(cell.Rune)
		}
		rows = append(rows, s)
	}

	if len(rows) != 2 || rows[0] != "abc" || rows[1] != "def" {
		t.Errorf("expected rows [abc def], got %v", rows)
	}

	// Reset restarts from the top.
	it.Reset()
	row, ok := it.Next()
	if !ok || row[0].Rune != 'a' {
		t.Error("expected reset iterator to yield the first row again")
	}
}

func TestRowIterationEmpty(t *testing.T) {
	it := New(geom.Size{}).Rows()
	if _, ok := it.Next(); ok {
		t.Error("expected no rows for the empty buffer")
	}
}
