package ansi

import (
	"io"
	"os"

	"golang.org/x/term"
)

// DetectMode chooses a color mode for w from the environment. NO_COLOR and
// TERM=dumb force ModeNone; CLICOLOR_FORCE enables color even when w is not
// a terminal; COLORTERM reporting truecolor support upgrades palette output
// to 24-bit.
func DetectMode(w io.Writer) Mode {
	if os.Getenv("NO_COLOR") != "" {
		return ModeNone
	}
	if os.Getenv("TERM") == "dumb" {
		return ModeNone
	}

	force := os.Getenv("CLICOLOR_FORCE")
	if force == "" || force == "0" {
		f, ok := w.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return ModeNone
		}
	}

	switch os.Getenv("COLORTERM") {
	case "truecolor", "24bit":
		return ModeTrue
	}
	return Mode8
}
