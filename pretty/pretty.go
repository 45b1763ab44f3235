// Package pretty builds tables, lists, and panels as chunks. Everything is
// composed through the public arena operations, so the results combine
// freely with other chunks.
package pretty

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/textweave"
)

// pad widens s to the given column width with spaces, placing the text per
// the alignment. Strings already at or over the width pass through.
func pad(s string, width int, align textweave.Alignment) string {
	gap := width - uniseg.StringWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case textweave.AlignFar:
		return strings.Repeat(" ", gap) + s
	case textweave.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// join slaps b against the given side of acc. A failed join releases both
// operands, so error paths leave no chunks behind.
func join(a *textweave.Arena, acc, b textweave.Ref, dir textweave.Direction, align textweave.Alignment) (textweave.Ref, error) {
	out, err := a.Slap(acc, b, dir, align)
	if err != nil {
		a.Release(acc)
		a.Release(b)
		return textweave.Ref{}, err
	}
	return out, nil
}

// releaseAll releases every ref in refs.
func releaseAll(a *textweave.Arena, refs []textweave.Ref) {
	for _, ref := range refs {
		a.Release(ref)
	}
}

// truncate cuts s to at most maxWidth columns on a grapheme cluster
// boundary, so wide runes are never split.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	g := uniseg.NewGraphemes(s)
	width := 0
	end := 0
	for g.Next() {
		w := g.Width()
		if width+w > maxWidth {
			break
		}
		width += w
		_, end = g.Positions()
	}
	return s[:end]
}
