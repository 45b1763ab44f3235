// Package cellbuf provides the styled cell grid that chunks are made of.
//
// Cells, styles, and colors are plain values and copy freely. A Buffer owns
// its cell storage exclusively; whoever holds the Buffer (an arena slot, or a
// local during construction) is its only owner.
package cellbuf

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Attribute is a bitmask of text emphases.
type Attribute uint16

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint/dim text
	AttrItalic              // Italic text
	AttrUnderline           // Underlined text
	AttrBlink               // Blinking text (rarely supported)
	AttrReverse             // Reverse video (swap fg/bg)
	AttrHidden              // Hidden/invisible text
	AttrStrike              // Strikethrough text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Color represents a cell color. It is either the terminal's default color,
// one of the eight ANSI palette colors, or a 24-bit RGB color.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-7).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// The eight ANSI palette colors. Their indices are the values added to the
// SGR base codes (30 for foreground, 40 for background) on output.
var (
	ColorBlack   = Color{R: 0, Indexed: true}
	ColorRed     = Color{R: 1, Indexed: true}
	ColorGreen   = Color{R: 2, Indexed: true}
	ColorYellow  = Color{R: 3, Indexed: true}
	ColorBlue    = Color{R: 4, Indexed: true}
	ColorMagenta = Color{R: 5, Indexed: true}
	ColorCyan    = Color{R: 6, Indexed: true}
	ColorWhite   = Color{R: 7, Indexed: true}
)

// ColorRGB creates a true color from RGB components.
func ColorRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorIndex creates a palette color. Indices above 7 are masked down to the
// basic range.
func ColorIndex(index uint8) Color {
	return Color{R: index & 7, Indexed: true}
}

// IsDefault returns true if this is the terminal's default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Index returns the palette index for an indexed color.
func (c Color) Index() uint8 {
	return c.R
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Style represents the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
		Attributes: AttrNone,
	}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{
		Foreground: fg,
		Background: ColorDefault,
		Attributes: AttrNone,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithAttributes returns a new style with the given attributes.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes = attrs
	return s
}

// Bold returns a new style with the bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns a new style with the dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Italic returns a new style with the italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underline returns a new style with the underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Blink returns a new style with the blink attribute added.
func (s Style) Blink() Style {
	s.Attributes |= AttrBlink
	return s
}

// Reverse returns a new style with the reverse video attribute added.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Strike returns a new style with the strikethrough attribute added.
func (s Style) Strike() Style {
	s.Attributes |= AttrStrike
	return s
}

// Merge combines two styles. Non-default colors and all attributes of other
// take precedence.
func (s Style) Merge(other Style) Style {
	result := s
	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Attributes |= other.Attributes
	return result
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// IsDefault returns true if this is the default style.
func (s Style) IsDefault() bool {
	return s.Foreground.IsDefault() &&
		s.Background.IsDefault() &&
		s.Attributes == AttrNone
}

// Invert returns a style with foreground and background swapped.
func (s Style) Invert() Style {
	return Style{
		Foreground: s.Background,
		Background: s.Foreground,
		Attributes: s.Attributes,
	}
}

// Cell represents a single grid cell.
type Cell struct {
	// Rune is the base character to display.
	Rune rune

	// Combining holds the combining runes that complete the grapheme
	// cluster, in order after Rune. Nil for single-rune cells. The slice is
	// never mutated once the cell is built, so copies may share it.
	Combining []rune

	// Width is the display width of this cell. Continuation cells that
	// follow a wide rune have width 0.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// BlankCell returns a space cell carrying the given style.
func BlankCell(style Style) Cell {
	return Cell{Rune: ' ', Width: 1, Style: style}
}

// NewCell creates a cell with the given rune and style. The display width
// comes from the system-wide rune width tables.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: runewidth.RuneWidth(r), Style: style}
}

// ContinuationCell returns the filler cell placed after a wide rune.
func ContinuationCell(style Style) Cell {
	return Cell{Rune: 0, Width: 0, Style: style}
}

// IsContinuation returns true if this is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Equals returns true if two cells are identical, combining runes included.
func (c Cell) Equals(other Cell) bool {
	if c.Rune != other.Rune ||
		c.Width != other.Width ||
		!c.Style.Equals(other.Style) {
		return false
	}
	if len(c.Combining) != len(other.Combining) {
		return false
	}
	for i, r := range c.Combining {
		if r != other.Combining[i] {
			return false
		}
	}
	return true
}
