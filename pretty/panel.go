package pretty

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/textweave"
)

// Border holds the characters a panel is framed with.
type Border struct {
	TopLeft     string
	Top         string
	TopRight    string
	Left        string
	Right       string
	BottomLeft  string
	Bottom      string
	BottomRight string
}

// BorderUnicode draws with box-drawing characters.
var BorderUnicode = Border{
	TopLeft:     "┌",
	Top:         "─",
	TopRight:    "┐",
	Left:        "│",
	Right:       "│",
	BottomLeft:  "└",
	Bottom:      "─",
	BottomRight: "┘",
}

// BorderASCII draws with plain ASCII characters.
var BorderASCII = Border{
	TopLeft:     "+",
	Top:         "-",
	TopRight:    "+",
	Left:        "|",
	Right:       "|",
	BottomLeft:  "+",
	Bottom:      "-",
	BottomRight: "+",
}

// Panel frames a chunk with a border, an optional title in the top bar, and
// optional interior padding.
type Panel struct {
	border      Border
	borderStyle textweave.Style
	title       string
	titleStyle  textweave.Style
	padding     int
}

// NewPanel creates a panel with the unicode border and no padding.
func NewPanel() *Panel {
	return &Panel{
		border:      BorderUnicode,
		borderStyle: textweave.DefaultStyle(),
		titleStyle:  textweave.DefaultStyle().Bold(),
	}
}

// Border sets the frame characters.
func (p *Panel) Border(b Border) *Panel {
	p.border = b
	return p
}

// BorderStyle sets the style for the frame.
func (p *Panel) BorderStyle(st textweave.Style) *Panel {
	p.borderStyle = st
	return p
}

// Title places text in the top bar. Titles wider than the bar are cut on a
// grapheme boundary; when no room is left, the title is dropped.
func (p *Panel) Title(s string) *Panel {
	p.title = s
	return p
}

// TitleStyle sets the style for the title text.
func (p *Panel) TitleStyle(st textweave.Style) *Panel {
	p.titleStyle = st
	return p
}

// Padding adds blank columns and rows between the border and the content.
func (p *Panel) Padding(n int) *Panel {
	if n < 0 {
		n = 0
	}
	p.padding = n
	return p
}

// Wrap frames the chunk. The content ref is consumed into the panel, even
// when framing fails partway. On error nothing stays allocated.
func (p *Panel) Wrap(a *textweave.Arena, content textweave.Ref) (textweave.Ref, error) {
	body, err := p.padContent(a, content)
	if err != nil {
		return textweave.Ref{}, err
	}
	innerW, innerH := a.Size(body)

	top, err := p.renderTopBar(a, innerW)
	if err != nil {
		a.Release(body)
		return textweave.Ref{}, err
	}

	left, err := a.RenderText(p.borderStyle, column(p.border.Left, innerH))
	if err != nil {
		a.Release(top)
		a.Release(body)
		return textweave.Ref{}, err
	}
	body, err = join(a, body, left, textweave.DirLeft, textweave.AlignClose)
	if err != nil {
		a.Release(top)
		return textweave.Ref{}, err
	}
	right, err := a.RenderText(p.borderStyle, column(p.border.Right, innerH))
	if err != nil {
		a.Release(top)
		a.Release(body)
		return textweave.Ref{}, err
	}
	body, err = join(a, body, right, textweave.DirRight, textweave.AlignClose)
	if err != nil {
		a.Release(top)
		return textweave.Ref{}, err
	}

	bottom, err := a.RenderText(p.borderStyle,
		p.border.BottomLeft+strings.Repeat(p.border.Bottom, innerW)+p.border.BottomRight)
	if err != nil {
		a.Release(top)
		a.Release(body)
		return textweave.Ref{}, err
	}

	out, err := a.Stack([]textweave.Ref{top, body, bottom}, textweave.DirBottom, textweave.AlignClose)
	if err != nil {
		releaseAll(a, []textweave.Ref{top, body, bottom})
		return textweave.Ref{}, err
	}
	return out, nil
}

// padContent surrounds the content with blank chunks per the padding. The
// content is consumed even when a padding step fails.
func (p *Panel) padContent(a *textweave.Arena, content textweave.Ref) (textweave.Ref, error) {
	if p.padding == 0 {
		return content, nil
	}

	w, h := a.Size(content)
	body := content

	for _, dir := range []textweave.Direction{textweave.DirLeft, textweave.DirRight} {
		margin, err := a.Alloc(p.padding, h)
		if err != nil {
			a.Release(body)
			return textweave.Ref{}, err
		}
		body, err = join(a, body, margin, dir, textweave.AlignClose)
		if err != nil {
			return textweave.Ref{}, err
		}
	}
	for _, dir := range []textweave.Direction{textweave.DirTop, textweave.DirBottom} {
		margin, err := a.Alloc(w+2*p.padding, p.padding)
		if err != nil {
			a.Release(body)
			return textweave.Ref{}, err
		}
		body, err = join(a, body, margin, dir, textweave.AlignClose)
		if err != nil {
			return textweave.Ref{}, err
		}
	}
	return body, nil
}

// renderTopBar builds the top border, embedding the title when it fits.
// Bar layout between the corners is one border rune, a spaced title, then
// border runes to fill the width.
func (p *Panel) renderTopBar(a *textweave.Arena, innerW int) (textweave.Ref, error) {
	title := p.title
	if avail := innerW - 3; uniseg.StringWidth(title) > avail {
		title = truncate(title, avail)
	}

	if title == "" {
		return a.RenderText(p.borderStyle,
			p.border.TopLeft+strings.Repeat(p.border.Top, innerW)+p.border.TopRight)
	}

	prefix, err := a.RenderText(p.borderStyle, p.border.TopLeft+p.border.Top+" ")
	if err != nil {
		return textweave.Ref{}, err
	}
	text, err := a.RenderText(p.titleStyle, title)
	if err != nil {
		a.Release(prefix)
		return textweave.Ref{}, err
	}
	bar, err := join(a, prefix, text, textweave.DirRight, textweave.AlignClose)
	if err != nil {
		return textweave.Ref{}, err
	}

	fill := innerW - 3 - uniseg.StringWidth(title)
	suffix, err := a.RenderText(p.borderStyle,
		" "+strings.Repeat(p.border.Top, fill)+p.border.TopRight)
	if err != nil {
		a.Release(bar)
		return textweave.Ref{}, err
	}
	return join(a, bar, suffix, textweave.DirRight, textweave.AlignClose)
}

// column repeats a border rune into a one-column chunk of the given height.
func column(s string, height int) string {
	if height <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat(s+"\n", height), "\n")
}
