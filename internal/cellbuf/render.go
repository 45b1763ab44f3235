package cellbuf

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/textweave/internal/geom"
)

// Render builds a buffer from text. The text is split on '\n' and trailing
// empty lines are stripped; the buffer is as wide as the widest line and as
// tall as the remaining line count. Every cell starts blank with the given
// style, then each line's characters overwrite the prefix of its row, so
// shorter lines stay padded with styled blanks. Text with no lines yields
// the empty 0x0 buffer.
func Render(style Style, text string) *Buffer {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return &Buffer{}
	}

	width := 0
	for _, line := range lines {
		if w := uniseg.StringWidth(line); w > width {
			width = w
		}
	}
	if width == 0 {
		return &Buffer{}
	}

	b := newFilled(geom.Size{W: width, H: len(lines)}, BlankCell(style))
	for y, line := range lines {
		b.WriteString(geom.Position{X: 0, Y: y}, style, line)
	}
	return b
}

// cellsForString converts a single line into cells, one grapheme cluster at
// a time. A cluster's base rune lands in Cell.Rune and its remaining runes
// in Cell.Combining, so multi-rune clusters survive the round trip through
// a buffer. Wide clusters are followed by continuation cells so each
// cluster occupies exactly its display width; zero-width clusters (control
// characters, lone combining marks) are dropped.
func cellsForString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if w <= 0 {
			continue
		}
		runes := g.Runes()
		cell := Cell{Rune: runes[0], Width: w, Style: style}
		if len(runes) > 1 {
			cell.Combining = runes[1:]
		}
		cells = append(cells, cell)
		for i := 1; i < w; i++ {
			cells = append(cells, ContinuationCell(style))
		}
	}
	return cells
}
