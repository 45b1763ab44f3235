package ansi

import (
	"bytes"
	"testing"

	"github.com/dshills/textweave/internal/cellbuf"
)

func TestAppendStyleDefault(t *testing.T) {
	f := New()
	got := string(f.AppendStyle(nil, cellbuf.DefaultStyle()))
	if got != "\x1b[0m" {
		t.Errorf("expected %q, got %q", "\x1b[0m", got)
	}
}

func TestAppendStylePalette(t *testing.T) {
	tests := []struct {
		name  string
		style cellbuf.Style
		want  string
	}{
		{
			name:  "foreground red",
			style: cellbuf.NewStyle(cellbuf.ColorRed),
			want:  "\x1b[0;31m",
		},
		{
			name:  "background blue",
			style: cellbuf.DefaultStyle().WithBackground(cellbuf.ColorBlue),
			want:  "\x1b[0;44m",
		},
		{
			name:  "foreground green on blue",
			style: cellbuf.NewStyle(cellbuf.ColorGreen).WithBackground(cellbuf.ColorBlue),
			want:  "\x1b[0;32;44m",
		},
		{
			name:  "bold red",
			style: cellbuf.NewStyle(cellbuf.ColorRed).Bold(),
			want:  "\x1b[0;1;31m",
		},
		{
			name:  "underlined dim cyan",
			style: cellbuf.NewStyle(cellbuf.ColorCyan).Dim().Underline(),
			want:  "\x1b[0;2;4;36m",
		},
		{
			name: "every attribute",
			style: cellbuf.NewStyle(cellbuf.ColorWhite).WithAttributes(
				cellbuf.AttrBold | cellbuf.AttrDim | cellbuf.AttrItalic |
					cellbuf.AttrUnderline | cellbuf.AttrBlink | cellbuf.AttrReverse |
					cellbuf.AttrHidden | cellbuf.AttrStrike),
			want: "\x1b[0;1;2;3;4;5;7;8;9;37m",
		},
	}

	f := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(f.AppendStyle(nil, tt.style))
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAppendStyleTrueColor(t *testing.T) {
	f := New(WithMode(ModeTrue))

	fg := cellbuf.NewStyle(cellbuf.ColorRGB(255, 128, 0))
	if got := string(f.AppendStyle(nil, fg)); got != "\x1b[0;38;2;255;128;0m" {
		t.Errorf("expected %q, got %q", "\x1b[0;38;2;255;128;0m", got)
	}

	bg := cellbuf.DefaultStyle().WithBackground(cellbuf.ColorRGB(10, 20, 30))
	if got := string(f.AppendStyle(nil, bg)); got != "\x1b[0;48;2;10;20;30m" {
		t.Errorf("expected %q, got %q", "\x1b[0;48;2;10;20;30m", got)
	}
}

func TestAppendStyleMode8QuantizesRGB(t *testing.T) {
	tests := []struct {
		name  string
		color cellbuf.Color
		want  string
	}{
		{name: "near black", color: cellbuf.ColorRGB(5, 5, 5), want: "\x1b[0;30m"},
		{name: "near red", color: cellbuf.ColorRGB(230, 10, 10), want: "\x1b[0;31m"},
		{name: "near white", color: cellbuf.ColorRGB(250, 250, 250), want: "\x1b[0;37m"},
	}

	f := New(WithMode(Mode8))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(f.AppendStyle(nil, cellbuf.NewStyle(tt.color)))
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAppendStyleModeNone(t *testing.T) {
	f := New(WithMode(ModeNone))

	style := cellbuf.NewStyle(cellbuf.ColorRed).Bold()
	if got := f.AppendStyle(nil, style); len(got) != 0 {
		t.Errorf("expected no output, got %q", got)
	}
	if got := f.AppendReset(nil); len(got) != 0 {
		t.Errorf("expected no output, got %q", got)
	}
}

func TestAppendReset(t *testing.T) {
	f := New()
	if got := string(f.AppendReset(nil)); got != "\x1b[0m" {
		t.Errorf("expected %q, got %q", "\x1b[0m", got)
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeNone, "none"},
		{Mode8, "8color"},
		{ModeTrue, "truecolor"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String(): expected %q, got %q", int(tt.mode), tt.want, got)
		}
	}
}

func TestDetectMode(t *testing.T) {
	clear := func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("TERM", "xterm-256color")
		t.Setenv("CLICOLOR_FORCE", "")
		t.Setenv("COLORTERM", "")
	}

	t.Run("NO_COLOR wins", func(t *testing.T) {
		clear(t)
		t.Setenv("NO_COLOR", "1")
		t.Setenv("CLICOLOR_FORCE", "1")
		if got := DetectMode(&bytes.Buffer{}); got != ModeNone {
			t.Errorf("expected ModeNone, got %v", got)
		}
	})

	t.Run("dumb terminal", func(t *testing.T) {
		clear(t)
		t.Setenv("TERM", "dumb")
		t.Setenv("CLICOLOR_FORCE", "1")
		if got := DetectMode(&bytes.Buffer{}); got != ModeNone {
			t.Errorf("expected ModeNone, got %v", got)
		}
	})

	t.Run("forced color without terminal", func(t *testing.T) {
		clear(t)
		t.Setenv("CLICOLOR_FORCE", "1")
		if got := DetectMode(&bytes.Buffer{}); got != Mode8 {
			t.Errorf("expected Mode8, got %v", got)
		}
	})

	t.Run("forced color with truecolor terminal", func(t *testing.T) {
		clear(t)
		t.Setenv("CLICOLOR_FORCE", "1")
		t.Setenv("COLORTERM", "truecolor")
		if got := DetectMode(&bytes.Buffer{}); got != ModeTrue {
			t.Errorf("expected ModeTrue, got %v", got)
		}
	})

	t.Run("non-terminal writer", func(t *testing.T) {
		clear(t)
		if got := DetectMode(&bytes.Buffer{}); got != ModeNone {
			t.Errorf("expected ModeNone, got %v", got)
		}
	})
}
