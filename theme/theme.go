// Package theme provides named style tables for chunk composition. Themes
// load from TOML or YAML files, resolve palette references and derived
// color variants, and can be reloaded live through a Watcher.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/textweave"
)

// Theme maps role names ("title", "error", "accent", ...) to styles.
type Theme struct {
	name   string
	styles map[string]textweave.Style
}

// themeFile is the on-disk schema, shared by the TOML and YAML formats.
type themeFile struct {
	Name    string               `toml:"name" yaml:"name"`
	Palette map[string]string    `toml:"palette" yaml:"palette"`
	Styles  map[string]styleSpec `toml:"styles" yaml:"styles"`
}

// styleSpec is one style entry. Colors are written as a basic color name,
// a palette reference, or a "#RRGGBB" hex value.
type styleSpec struct {
	FG        string `toml:"fg" yaml:"fg"`
	BG        string `toml:"bg" yaml:"bg"`
	Bold      bool   `toml:"bold" yaml:"bold"`
	Dim       bool   `toml:"dim" yaml:"dim"`
	Italic    bool   `toml:"italic" yaml:"italic"`
	Underline bool   `toml:"underline" yaml:"underline"`
	Blink     bool   `toml:"blink" yaml:"blink"`
	Reverse   bool   `toml:"reverse" yaml:"reverse"`
	Strike    bool   `toml:"strike" yaml:"strike"`
}

// ParseError reports a malformed theme file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Default returns the built-in theme.
func Default() *Theme {
	return &Theme{
		name: "default",
		styles: map[string]textweave.Style{
			"default": textweave.DefaultStyle(),
			"title":   textweave.DefaultStyle().Bold(),
			"header":  textweave.NewStyle(textweave.ColorCyan).Bold(),
			"accent":  textweave.NewStyle(textweave.ColorCyan),
			"muted":   textweave.DefaultStyle().Dim(),
			"ok":      textweave.NewStyle(textweave.ColorGreen),
			"warn":    textweave.NewStyle(textweave.ColorYellow),
			"error":   textweave.NewStyle(textweave.ColorRed).Bold(),
			"border":  textweave.DefaultStyle().Dim(),
		},
	}
}

// Load reads a theme file. The format follows the extension (.toml, .yaml,
// .yml). A missing file is not an error: it yields the built-in theme. File
// entries override the built-in defaults; roles the file does not define
// keep their default styles.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading theme file %s: %w", path, err)
	}
	return parse(path, data)
}

// parse decodes data per the extension of path and builds the theme.
func parse(path string, data []byte) (*Theme, error) {
	var tf themeFile

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &tf); err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tf); err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("unsupported theme format %q", ext)
	}

	return build(path, &tf)
}

// build resolves the palette and style specs into a Theme layered over the
// built-in defaults.
func build(path string, tf *themeFile) (*Theme, error) {
	palette, err := resolvePalette(tf.Palette)
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	t := Default()
	for name, spec := range tf.Styles {
		st, err := spec.style(palette)
		if err != nil {
			return nil, &ParseError{Path: path, Message: fmt.Sprintf("style %q: %v", name, err), Err: err}
		}
		t.styles[name] = st
	}

	if tf.Name != "" {
		t.name = tf.Name
	} else {
		t.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Name returns the theme's name: the file's name entry, or the file stem
// when the entry is absent.
func (t *Theme) Name() string {
	return t.name
}

// Style returns the named style. Unknown names resolve to the default
// style rather than an error, so rendering never fails on a missing role.
func (t *Theme) Style(name string) textweave.Style {
	if st, ok := t.styles[name]; ok {
		return st
	}
	return textweave.DefaultStyle()
}

// Has reports whether the theme defines the named style.
func (t *Theme) Has(name string) bool {
	_, ok := t.styles[name]
	return ok
}

// Names returns the defined style names, sorted.
func (t *Theme) Names() []string {
	names := make([]string, 0, len(t.styles))
	for name := range t.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolvePalette parses the palette entries and derives "<name>.bright"
// and "<name>.dim" variants for RGB entries, blended toward white and
// black in Lab space.
func resolvePalette(raw map[string]string) (map[string]textweave.Color, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make(map[string]textweave.Color, len(raw)*3)
	for name, val := range raw {
		c, err := parseColor(val, nil)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", name, err)
		}
		out[name] = c

		if c.Indexed || c.Default {
			continue
		}
		base := colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}
		// Lab blending can leave the sRGB gamut; clamp before converting
		// back to channel values.
		bright := base.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.4).Clamped()
		dim := base.BlendLab(colorful.Color{}, 0.4).Clamped()
		out[name+".bright"] = fromColorful(bright)
		out[name+".dim"] = fromColorful(dim)
	}
	return out, nil
}

func fromColorful(c colorful.Color) textweave.Color {
	r, g, b := c.RGB255()
	return textweave.ColorRGB(r, g, b)
}

// ParseColor resolves a color word: empty or "default", one of the eight
// basic names, or a "#RRGGBB" hex value.
func ParseColor(s string) (textweave.Color, error) {
	return parseColor(s, nil)
}

// parseColor additionally resolves palette references.
func parseColor(s string, palette map[string]textweave.Color) (textweave.Color, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return textweave.ColorDefault, nil
	case "black":
		return textweave.ColorBlack, nil
	case "red":
		return textweave.ColorRed, nil
	case "green":
		return textweave.ColorGreen, nil
	case "yellow":
		return textweave.ColorYellow, nil
	case "blue":
		return textweave.ColorBlue, nil
	case "magenta":
		return textweave.ColorMagenta, nil
	case "cyan":
		return textweave.ColorCyan, nil
	case "white":
		return textweave.ColorWhite, nil
	}

	if c, ok := palette[s]; ok {
		return c, nil
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return textweave.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return fromColorful(c), nil
	}

	return textweave.Color{}, fmt.Errorf("unknown color %q", s)
}

// style builds the cell style a spec describes against the palette.
func (s styleSpec) style(palette map[string]textweave.Color) (textweave.Style, error) {
	fg, err := parseColor(s.FG, palette)
	if err != nil {
		return textweave.Style{}, err
	}
	bg, err := parseColor(s.BG, palette)
	if err != nil {
		return textweave.Style{}, err
	}

	st := textweave.DefaultStyle().WithForeground(fg).WithBackground(bg)
	if s.Bold {
		st = st.Bold()
	}
	if s.Dim {
		st = st.Dim()
	}
	if s.Italic {
		st = st.Italic()
	}
	if s.Underline {
		st = st.Underline()
	}
	if s.Blink {
		st = st.Blink()
	}
	if s.Reverse {
		st = st.Reverse()
	}
	if s.Strike {
		st = st.Strike()
	}
	return st, nil
}
