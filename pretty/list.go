package pretty

import (
	"github.com/dshills/textweave"
)

// List lays out bulleted items with arbitrary nesting. Each nesting level
// shifts the item right by the indent width.
type List struct {
	entries     []listEntry
	bullet      string
	indent      int
	bulletStyle textweave.Style
	textStyle   textweave.Style
}

type listEntry struct {
	depth int
	text  string
}

// NewList creates an empty list with a "- " bullet and two-column indents.
func NewList() *List {
	return &List{
		bullet:      "- ",
		indent:      2,
		bulletStyle: textweave.DefaultStyle(),
		textStyle:   textweave.DefaultStyle(),
	}
}

// Bullet sets the marker placed before each item.
func (l *List) Bullet(s string) *List {
	l.bullet = s
	return l
}

// Indent sets the columns added per nesting level.
func (l *List) Indent(n int) *List {
	l.indent = n
	return l
}

// BulletStyle sets the style for bullets.
func (l *List) BulletStyle(st textweave.Style) *List {
	l.bulletStyle = st
	return l
}

// TextStyle sets the style for item text.
func (l *List) TextStyle(st textweave.Style) *List {
	l.textStyle = st
	return l
}

// Item appends a top-level item.
func (l *List) Item(text string) *List {
	return l.Nested(0, text)
}

// Nested appends an item at the given nesting depth.
func (l *List) Nested(depth int, text string) *List {
	if depth < 0 {
		depth = 0
	}
	l.entries = append(l.entries, listEntry{depth: depth, text: text})
	return l
}

// Render composes the list into a single chunk. Indentation is built from
// blank chunks so nested items keep their offset when the list is combined
// with other chunks. On error nothing stays allocated: entries already
// built are released before the error returns.
func (l *List) Render(a *textweave.Arena) (textweave.Ref, error) {
	var lines []textweave.Ref
	for _, entry := range l.entries {
		line, err := l.renderEntry(a, entry)
		if err != nil {
			releaseAll(a, lines)
			return textweave.Ref{}, err
		}
		lines = append(lines, line)
	}
	out, err := a.Stack(lines, textweave.DirBottom, textweave.AlignClose)
	if err != nil {
		releaseAll(a, lines)
		return textweave.Ref{}, err
	}
	return out, nil
}

func (l *List) renderEntry(a *textweave.Arena, entry listEntry) (textweave.Ref, error) {
	line, err := a.RenderText(l.bulletStyle, l.bullet)
	if err != nil {
		return textweave.Ref{}, err
	}

	text, err := a.RenderText(l.textStyle, entry.text)
	if err != nil {
		a.Release(line)
		return textweave.Ref{}, err
	}
	line, err = join(a, line, text, textweave.DirRight, textweave.AlignClose)
	if err != nil {
		return textweave.Ref{}, err
	}

	if entry.depth > 0 && l.indent > 0 {
		_, h := a.Size(line)
		margin, err := a.Alloc(entry.depth*l.indent, h)
		if err != nil {
			a.Release(line)
			return textweave.Ref{}, err
		}
		line, err = join(a, line, margin, textweave.DirLeft, textweave.AlignClose)
		if err != nil {
			return textweave.Ref{}, err
		}
	}
	return line, nil
}
