// Package ansi renders styles as ANSI SGR escape sequences. It provides the
// default formatter the root package writes chunks through.
package ansi

import (
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/textweave/internal/cellbuf"
)

// Mode selects how much color the formatter emits.
type Mode int

const (
	// ModeNone suppresses escape sequences entirely; output is plain text.
	ModeNone Mode = iota
	// Mode8 emits the eight basic palette codes only; RGB colors are
	// quantized to the nearest palette entry.
	Mode8
	// ModeTrue emits 24-bit sequences for RGB colors and palette codes for
	// palette colors.
	ModeTrue
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case Mode8:
		return "8color"
	case ModeTrue:
		return "truecolor"
	default:
		return "unknown"
	}
}

// SGR bases for the palette codes. The 24-bit extensions use base+8
// (38/48) followed by the 2;R;G;B parameters.
const (
	fgBase = 30
	bgBase = 40
)

// Pre-allocated sequence fragments (avoid allocations during emission).
var (
	seqRestyle = []byte("\x1b[0")
	seqReset   = []byte("\x1b[0m")
)

// attrCodes maps each attribute flag to its SGR parameter, in emission
// order.
var attrCodes = []struct {
	attr cellbuf.Attribute
	code byte
}{
	{cellbuf.AttrBold, '1'},
	{cellbuf.AttrDim, '2'},
	{cellbuf.AttrItalic, '3'},
	{cellbuf.AttrUnderline, '4'},
	{cellbuf.AttrBlink, '5'},
	{cellbuf.AttrReverse, '7'},
	{cellbuf.AttrHidden, '8'},
	{cellbuf.AttrStrike, '9'},
}

// Formatter appends SGR escape sequences for styles. It satisfies the root
// package's Formatter interface.
type Formatter struct {
	mode Mode
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithMode sets the color mode.
func WithMode(m Mode) Option {
	return func(f *Formatter) {
		f.mode = m
	}
}

// New creates a formatter. The default mode is ModeTrue.
func New(opts ...Option) *Formatter {
	f := &Formatter{mode: ModeTrue}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Mode returns the formatter's color mode.
func (f *Formatter) Mode() Mode {
	return f.mode
}

// AppendStyle appends the single combined sequence that moves the output
// from any prior state into style: a reset parameter followed by the
// style's emphasis and color parameters.
func (f *Formatter) AppendStyle(dst []byte, style cellbuf.Style) []byte {
	if f.mode == ModeNone {
		return dst
	}

	dst = append(dst, seqRestyle...)
	for _, ac := range attrCodes {
		if style.Attributes.Has(ac.attr) {
			dst = append(dst, ';', ac.code)
		}
	}
	dst = f.appendColor(dst, style.Foreground, fgBase)
	dst = f.appendColor(dst, style.Background, bgBase)
	return append(dst, 'm')
}

// AppendReset appends the plain reset sequence.
func (f *Formatter) AppendReset(dst []byte) []byte {
	if f.mode == ModeNone {
		return dst
	}
	return append(dst, seqReset...)
}

// appendColor appends the color parameters for c against the given SGR
// base. Default colors emit nothing; the terminal's own defaults apply
// after the reset parameter.
func (f *Formatter) appendColor(dst []byte, c cellbuf.Color, base int) []byte {
	if c.IsDefault() {
		return dst
	}
	if c.Indexed {
		dst = append(dst, ';')
		return strconv.AppendUint(dst, uint64(base)+uint64(c.Index()), 10)
	}
	if f.mode == Mode8 {
		dst = append(dst, ';')
		return strconv.AppendUint(dst, uint64(base)+uint64(quantize(c)), 10)
	}

	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(base)+8, 10)
	dst = append(dst, ';', '2')
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(c.R), 10)
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(c.G), 10)
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(c.B), 10)
	return dst
}

// palette holds reference values for the eight basic colors (the common
// xterm defaults), used to pick the nearest code for an RGB color in Mode8.
var palette = [8]colorful.Color{
	{R: 0, G: 0, B: 0},
	{R: 205.0 / 255, G: 0, B: 0},
	{R: 0, G: 205.0 / 255, B: 0},
	{R: 205.0 / 255, G: 205.0 / 255, B: 0},
	{R: 0, G: 0, B: 238.0 / 255},
	{R: 205.0 / 255, G: 0, B: 205.0 / 255},
	{R: 0, G: 205.0 / 255, B: 205.0 / 255},
	{R: 229.0 / 255, G: 229.0 / 255, B: 229.0 / 255},
}

// quantize returns the palette index nearest to c in Lab space.
func quantize(c cellbuf.Color) uint8 {
	in := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}

	best := 0
	bestDist := math.Inf(1)
	for i, p := range palette {
		if d := in.DistanceLab(p); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return uint8(best)
}
