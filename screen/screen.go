// Package screen draws chunks onto a tcell screen.
package screen

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textweave"
)

// Draw blits a chunk onto s with its top left corner at the given position.
// The ref is consumed, like Write. Cells outside the screen bounds are
// dropped by tcell, and the caller remains responsible for Show.
func Draw(s tcell.Screen, a *textweave.Arena, ref textweave.Ref, at textweave.Position) {
	a.Visit(ref, func(x, y int, c textweave.Cell) {
		s.SetContent(at.X+x, at.Y+y, c.Rune, c.Combining, convertStyle(c.Style))
	})
	a.Release(ref)
}

// convertStyle maps a cell style onto tcell's style model.
func convertStyle(s textweave.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		if s.Foreground.Indexed {
			style = style.Foreground(tcell.PaletteColor(int(s.Foreground.R)))
		} else {
			style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
		}
	}

	if !s.Background.IsDefault() {
		if s.Background.Indexed {
			style = style.Background(tcell.PaletteColor(int(s.Background.R)))
		} else {
			style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
		}
	}

	if s.Attributes.Has(textweave.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(textweave.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(textweave.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(textweave.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(textweave.AttrBlink) {
		style = style.Blink(true)
	}
	if s.Attributes.Has(textweave.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(textweave.AttrStrike) {
		style = style.StrikeThrough(true)
	}

	return style
}
