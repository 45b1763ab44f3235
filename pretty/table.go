package pretty

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/textweave"
)

// Table lays out rows of text in aligned columns. Column widths follow the
// widest cell, measured in terminal columns.
type Table struct {
	header      []string
	rows        [][]string
	aligns      map[int]textweave.Alignment
	headerStyle textweave.Style
	cellStyle   textweave.Style
	sepStyle    textweave.Style
	separator   string
	rule        bool
}

// NewTable creates an empty table with a two-space column separator and a
// bold header style.
func NewTable() *Table {
	return &Table{
		aligns:      make(map[int]textweave.Alignment),
		headerStyle: textweave.DefaultStyle().Bold(),
		cellStyle:   textweave.DefaultStyle(),
		sepStyle:    textweave.DefaultStyle(),
		separator:   "  ",
	}
}

// Header sets the header cells.
func (t *Table) Header(cells ...string) *Table {
	t.header = cells
	return t
}

// Row appends a data row. Rows may be ragged; missing cells render empty.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Align sets the alignment for one column. The default is AlignClose,
// which lays text out flush left.
func (t *Table) Align(col int, a textweave.Alignment) *Table {
	t.aligns[col] = a
	return t
}

// HeaderStyle sets the style for header cells.
func (t *Table) HeaderStyle(st textweave.Style) *Table {
	t.headerStyle = st
	return t
}

// CellStyle sets the style for data cells.
func (t *Table) CellStyle(st textweave.Style) *Table {
	t.cellStyle = st
	return t
}

// Separator sets the text placed between columns.
func (t *Table) Separator(s string) *Table {
	t.separator = s
	return t
}

// SeparatorStyle sets the style for separators and the header rule.
func (t *Table) SeparatorStyle(st textweave.Style) *Table {
	t.sepStyle = st
	return t
}

// Rule draws a dashed line under the header.
func (t *Table) Rule(on bool) *Table {
	t.rule = on
	return t
}

// Render composes the table into a single chunk. On error nothing stays
// allocated: rows already built are released before the error returns.
func (t *Table) Render(a *textweave.Arena) (textweave.Ref, error) {
	widths := t.columnWidths()

	var lines []textweave.Ref
	if len(t.header) > 0 {
		ref, err := t.renderRow(a, t.header, widths, t.headerStyle)
		if err != nil {
			return textweave.Ref{}, err
		}
		lines = append(lines, ref)

		if t.rule {
			total := 0
			for _, w := range widths {
				total += w
			}
			if len(widths) > 1 {
				total += uniseg.StringWidth(t.separator) * (len(widths) - 1)
			}
			ref, err := a.RenderText(t.sepStyle, strings.Repeat("-", total))
			if err != nil {
				releaseAll(a, lines)
				return textweave.Ref{}, err
			}
			lines = append(lines, ref)
		}
	}

	for _, row := range t.rows {
		ref, err := t.renderRow(a, row, widths, t.cellStyle)
		if err != nil {
			releaseAll(a, lines)
			return textweave.Ref{}, err
		}
		lines = append(lines, ref)
	}

	out, err := a.Stack(lines, textweave.DirBottom, textweave.AlignClose)
	if err != nil {
		releaseAll(a, lines)
		return textweave.Ref{}, err
	}
	return out, nil
}

// renderRow slaps padded cells and separators into one row chunk, releasing
// the partial row when a step fails.
func (t *Table) renderRow(a *textweave.Arena, cells []string, widths []int, st textweave.Style) (textweave.Ref, error) {
	row, err := a.Stub()
	if err != nil {
		return textweave.Ref{}, err
	}

	for col, width := range widths {
		if col > 0 && t.separator != "" {
			sep, err := a.RenderText(t.sepStyle, t.separator)
			if err != nil {
				a.Release(row)
				return textweave.Ref{}, err
			}
			row, err = join(a, row, sep, textweave.DirRight, textweave.AlignClose)
			if err != nil {
				return textweave.Ref{}, err
			}
		}

		text := ""
		if col < len(cells) {
			text = cells[col]
		}
		cell, err := a.RenderText(st, pad(text, width, t.aligns[col]))
		if err != nil {
			a.Release(row)
			return textweave.Ref{}, err
		}
		row, err = join(a, row, cell, textweave.DirRight, textweave.AlignClose)
		if err != nil {
			return textweave.Ref{}, err
		}
	}
	return row, nil
}

// columnWidths measures every column across header and rows.
func (t *Table) columnWidths() []int {
	cols := len(t.header)
	for _, row := range t.rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := uniseg.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}
