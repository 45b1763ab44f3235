package textweave

import "github.com/dshills/textweave/internal/cellbuf"

// Style describes the visual styling of a cell: foreground color, background
// color, and emphasis attributes. Re-exported from the cellbuf package.
type Style = cellbuf.Style

// Color is a cell color: the terminal default, one of the eight ANSI palette
// colors, or a 24-bit RGB color. Re-exported from the cellbuf package.
type Color = cellbuf.Color

// Attribute is a bitmask of text emphases.
// Re-exported from the cellbuf package.
type Attribute = cellbuf.Attribute

// Cell is one styled character cell of a chunk.
// Re-exported from the cellbuf package.
type Cell = cellbuf.Cell

// Text attribute flags.
const (
	AttrNone      = cellbuf.AttrNone
	AttrBold      = cellbuf.AttrBold
	AttrDim       = cellbuf.AttrDim
	AttrItalic    = cellbuf.AttrItalic
	AttrUnderline = cellbuf.AttrUnderline
	AttrBlink     = cellbuf.AttrBlink
	AttrReverse   = cellbuf.AttrReverse
	AttrHidden    = cellbuf.AttrHidden
	AttrStrike    = cellbuf.AttrStrike
)

// Default and palette colors.
var (
	ColorDefault = cellbuf.ColorDefault
	ColorBlack   = cellbuf.ColorBlack
	ColorRed     = cellbuf.ColorRed
	ColorGreen   = cellbuf.ColorGreen
	ColorYellow  = cellbuf.ColorYellow
	ColorBlue    = cellbuf.ColorBlue
	ColorMagenta = cellbuf.ColorMagenta
	ColorCyan    = cellbuf.ColorCyan
	ColorWhite   = cellbuf.ColorWhite
)

// DefaultStyle returns the terminal's default style.
func DefaultStyle() Style {
	return cellbuf.DefaultStyle()
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return cellbuf.NewStyle(fg)
}

// ColorRGB creates a 24-bit color from RGB components.
func ColorRGB(r, g, b uint8) Color {
	return cellbuf.ColorRGB(r, g, b)
}

// ColorIndex creates one of the eight ANSI palette colors. Indices above 7
// are masked down to the basic range.
func ColorIndex(index uint8) Color {
	return cellbuf.ColorIndex(index)
}
