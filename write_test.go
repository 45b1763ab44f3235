package textweave

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/textweave/ansi"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestWriteSingleStyledRow(t *testing.T) {
	ar := New()
	ref, _ := ar.RenderText(NewStyle(ColorRed), "hi")

	var buf bytes.Buffer
	if err := ar.Write(ref, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	want := "\x1b[0;31mhi\x1b[0m\n\x1b[0m\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteDefaultStyleRows(t *testing.T) {
	ar := New()
	ref, _ := ar.RenderText(DefaultStyle(), "ab\ncd")

	var buf bytes.Buffer
	if err := ar.Write(ref, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	want := "\x1b[0mab\x1b[0m\n\x1b[0mcd\x1b[0m\n\x1b[0m\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteCoalescesStyleRuns(t *testing.T) {
	ar := New()
	a, _ := ar.RenderText(NewStyle(ColorRed), "ab")
	b, _ := ar.RenderText(NewStyle(ColorGreen), "cd")

	ref, err := ar.Unify(a, b, Offset{X: 2})
	if err != nil {
		t.Fatalf("Unify() error: %v", err)
	}

	var buf bytes.Buffer
	if err := ar.Write(ref, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	// One sequence per run, one per row end, one trailing: four total.
	want := "\x1b[0;31mab\x1b[0;32mcd\x1b[0m\n\x1b[0m\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if n := strings.Count(buf.String(), "\x1b["); n != 4 {
		t.Errorf("expected 4 escape sequences, got %d", n)
	}
}

func TestWritePadsShortLines(t *testing.T) {
	ar := New()
	ref, _ := ar.RenderText(DefaultStyle(), "ab\nc")

	var buf bytes.Buffer
	if err := ar.Write(ref, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	// The padding blank shares the line's style, so the second row is a
	// single run.
	want := "\x1b[0mab\x1b[0m\n\x1b[0mc \x1b[0m\n\x1b[0m\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteWideRune(t *testing.T) {
	ar := New()
	ref, _ := ar.RenderText(DefaultStyle(), "世")

	var buf bytes.Buffer
	if err := ar.Write(ref, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	want := "\x1b[0m世\x1b[0m\n\x1b[0m\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteCombiningMark(t *testing.T) {
	ar := New()
	ref, _ := ar.RenderText(DefaultStyle(), "e\u0301x")

	var buf bytes.Buffer
	if err := ar.Write(ref, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	// The decomposed cluster occupies one column yet round-trips intact.
	want := "\x1b[0me\u0301x\x1b[0m\n\x1b[0m\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteEmptyChunk(t *testing.T) {
	ar := New()
	ref, _ := ar.Stub()

	var buf bytes.Buffer
	if err := ar.Write(ref, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	// No rows, just the trailing reset line.
	if got := buf.String(); got != "\x1b[0m\n" {
		t.Errorf("expected %q, got %q", "\x1b[0m\n", got)
	}
}

func TestWriteModeNonePlainText(t *testing.T) {
	ar := New(WithFormatter(ansi.New(ansi.WithMode(ansi.ModeNone))))
	ref, _ := ar.RenderText(NewStyle(ColorRed).Bold(), "hi")

	var buf bytes.Buffer
	if err := ar.Write(ref, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if got := buf.String(); got != "hi\n\n" {
		t.Errorf("expected %q, got %q", "hi\n\n", got)
	}
}

func TestWriteConsumesRef(t *testing.T) {
	ar := New()
	ref, _ := ar.RenderText(DefaultStyle(), "x")

	var buf bytes.Buffer
	if err := ar.Write(ref, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if ar.Len() != 0 {
		t.Errorf("expected 0 live chunks after write, got %d", ar.Len())
	}
	mustPanic(t, "deref after write", func() { ar.Size(ref) })
}

func TestWriteReleasesOnSinkError(t *testing.T) {
	ar := New()
	ref, _ := ar.RenderText(DefaultStyle(), "x")

	if err := ar.Write(ref, failingWriter{}); err == nil {
		t.Fatal("expected sink error")
	}

	// The ref is consumed even when the sink fails.
	if ar.Len() != 0 {
		t.Errorf("expected 0 live chunks, got %d", ar.Len())
	}
	mustPanic(t, "deref after failed write", func() { ar.Size(ref) })
}
