// Package main is the entry point for the textweave demo CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/dshills/textweave"
	"github.com/dshills/textweave/ansi"
	"github.com/dshills/textweave/pretty"
	"github.com/dshills/textweave/screen"
	"github.com/dshills/textweave/script"
	"github.com/dshills/textweave/theme"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	themePath  string
	scriptPath string
	demo       bool
	colorMode  string
	screenMode bool
	logLevel   string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg := textweave.DefaultLoggerConfig()
	cfg.Level = textweave.ParseLogLevel(opts.logLevel)
	logger := textweave.NewLogger(cfg)

	th := theme.Default()
	if opts.themePath != "" {
		loaded, err := theme.Load(opts.themePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		th = loaded
	}

	arena := textweave.New(
		textweave.WithFormatter(ansi.New(ansi.WithMode(colorMode(opts)))),
		textweave.WithLogger(logger.WithComponent("arena")),
	)

	switch {
	case opts.scriptPath != "":
		return runScript(arena, th, logger, opts.scriptPath)
	case opts.screenMode:
		return runScreen(arena, th)
	case opts.demo:
		return runDemo(arena, th)
	default:
		flag.Usage()
		return 0
	}
}

// colorMode maps the -color flag onto an output mode. The screen preview
// ignores it because tcell negotiates color with the terminal itself.
func colorMode(opts options) ansi.Mode {
	switch opts.colorMode {
	case "always":
		return ansi.ModeTrue
	case "never":
		return ansi.ModeNone
	default:
		return ansi.DetectMode(os.Stdout)
	}
}

func runScript(arena *textweave.Arena, th *theme.Theme, logger *textweave.Logger, path string) int {
	eng := script.NewEngine(arena,
		script.WithOutput(os.Stdout),
		script.WithTheme(th),
		script.WithLogger(logger.WithComponent("script")),
	)
	defer eng.Close()

	if err := eng.RunFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runDemo(arena *textweave.Arena, th *theme.Theme) int {
	ref, err := buildDemo(arena, th)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if ttyWidth, _, err := term.GetSize(fd); err == nil {
			ref, err = centerChunk(arena, ref, ttyWidth)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
		}
	}

	if err := arena.Write(ref, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runScreen(arena *textweave.Arena, th *theme.Theme) int {
	ref, err := buildDemo(arena, th)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	s, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := s.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize screen: %v\n", err)
		return 1
	}
	defer s.Fini()

	screen.Draw(s, arena, ref, textweave.Position{X: 2, Y: 1})
	s.Show()

	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyEnter, ev.Key() == tcell.KeyCtrlC:
				return 0
			case ev.Rune() == 'q':
				return 0
			}
		case *tcell.EventResize:
			s.Sync()
		}
	}
}

// buildDemo composes the showcase layout: a titled panel holding a table of
// operations and a feature list.
func buildDemo(a *textweave.Arena, th *theme.Theme) (textweave.Ref, error) {
	table, err := pretty.NewTable().
		HeaderStyle(th.Style("header")).
		Header("Op", "Effect").
		Row("unify", "merge two chunks at an offset").
		Row("slap", "attach a chunk to a side").
		Row("stack", "fold a series along a direction").
		Render(a)
	if err != nil {
		return textweave.Ref{}, err
	}

	list, err := pretty.NewList().
		BulletStyle(th.Style("accent")).
		Item("themes load from TOML or YAML").
		Item("layouts script in Lua").
		Nested(1, "chunks cross the boundary as userdata").
		Render(a)
	if err != nil {
		return textweave.Ref{}, err
	}

	gap, err := a.Alloc(1, 1)
	if err != nil {
		return textweave.Ref{}, err
	}

	body, err := a.Stack([]textweave.Ref{table, gap, list}, textweave.DirBottom, textweave.AlignClose)
	if err != nil {
		return textweave.Ref{}, err
	}

	return pretty.NewPanel().
		Title("textweave").
		TitleStyle(th.Style("title")).
		BorderStyle(th.Style("border")).
		Padding(1).
		Wrap(a, body)
}

// centerChunk pads the chunk on the left so it prints centered in a
// terminal of the given width.
func centerChunk(a *textweave.Arena, ref textweave.Ref, width int) (textweave.Ref, error) {
	w, _ := a.Size(ref)
	if w >= width {
		return ref, nil
	}
	margin, err := a.Alloc((width-w)/2, 1)
	if err != nil {
		return textweave.Ref{}, err
	}
	return a.Slap(ref, margin, textweave.DirLeft, textweave.AlignClose)
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.themePath, "theme", "", "Path to a theme file (TOML or YAML)")
	flag.StringVar(&opts.themePath, "t", "", "Path to a theme file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Run a Lua layout script")
	flag.StringVar(&opts.scriptPath, "s", "", "Run a Lua layout script (shorthand)")
	flag.BoolVar(&opts.demo, "demo", false, "Print the demo layout to stdout")
	flag.StringVar(&opts.colorMode, "color", "auto", "Color output: auto, always, or never")
	flag.BoolVar(&opts.screenMode, "screen", false, "Preview the demo layout on a full terminal screen")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Set log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textweave - compose styled text chunks\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -demo                  Print the demo layout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -s layout.lua          Run a layout script\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -t dusk.toml -demo     Print the demo with a theme\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -screen                Preview on a terminal screen\n", os.Args[0])
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("textweave %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.colorMode {
	case "auto", "always", "never":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid color mode %q (must be auto, always, or never)\n", opts.colorMode)
		os.Exit(1)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	return opts
}
