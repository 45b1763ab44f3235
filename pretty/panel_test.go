package pretty

import (
	"errors"
	"testing"

	"github.com/dshills/textweave"
)

func mustText(t *testing.T, a *textweave.Arena, text string) textweave.Ref {
	t.Helper()
	ref, err := a.RenderText(textweave.DefaultStyle(), text)
	if err != nil {
		t.Fatalf("RenderText error = %v", err)
	}
	return ref
}

func TestPanelWrap(t *testing.T) {
	a := plainArena()
	box, err := NewPanel().Wrap(a, mustText(t, a, "hi"))
	if err != nil {
		t.Fatalf("Wrap error = %v", err)
	}

	if got := a.Len(); got != 1 {
		t.Errorf("arena Len() = %d, want 1 after Wrap", got)
	}

	want := "┌──┐\n│hi│\n└──┘\n\n"
	if got := chunkString(t, a, box); got != want {
		t.Errorf("panel = %q, want %q", got, want)
	}
}

func TestPanelMultilineContent(t *testing.T) {
	a := plainArena()
	box, err := NewPanel().Wrap(a, mustText(t, a, "ab\ncd"))
	if err != nil {
		t.Fatalf("Wrap error = %v", err)
	}

	want := "┌──┐\n│ab│\n│cd│\n└──┘\n\n"
	if got := chunkString(t, a, box); got != want {
		t.Errorf("panel = %q, want %q", got, want)
	}
}

func TestPanelTitle(t *testing.T) {
	a := plainArena()
	box, err := NewPanel().Title("T").Wrap(a, mustText(t, a, "content"))
	if err != nil {
		t.Fatalf("Wrap error = %v", err)
	}

	want := "┌─ T ───┐\n│content│\n└───────┘\n\n"
	if got := chunkString(t, a, box); got != want {
		t.Errorf("panel = %q, want %q", got, want)
	}
}

func TestPanelTitleTruncated(t *testing.T) {
	a := plainArena()
	box, err := NewPanel().Title("TooLongTitle").Wrap(a, mustText(t, a, "widebody"))
	if err != nil {
		t.Fatalf("Wrap error = %v", err)
	}

	want := "┌─ TooLo ┐\n│widebody│\n└────────┘\n\n"
	if got := chunkString(t, a, box); got != want {
		t.Errorf("panel = %q, want %q", got, want)
	}
}

func TestPanelTitleDroppedWhenNoRoom(t *testing.T) {
	a := plainArena()
	box, err := NewPanel().Title("Long").Wrap(a, mustText(t, a, "ab"))
	if err != nil {
		t.Fatalf("Wrap error = %v", err)
	}

	want := "┌──┐\n│ab│\n└──┘\n\n"
	if got := chunkString(t, a, box); got != want {
		t.Errorf("panel = %q, want %q", got, want)
	}
}

func TestPanelPadding(t *testing.T) {
	a := plainArena()
	box, err := NewPanel().Padding(1).Wrap(a, mustText(t, a, "x"))
	if err != nil {
		t.Fatalf("Wrap error = %v", err)
	}

	want := "┌───┐\n│   │\n│ x │\n│   │\n└───┘\n\n"
	if got := chunkString(t, a, box); got != want {
		t.Errorf("panel = %q, want %q", got, want)
	}
}

func TestPanelASCIIBorder(t *testing.T) {
	a := plainArena()
	box, err := NewPanel().Border(BorderASCII).Wrap(a, mustText(t, a, "hi"))
	if err != nil {
		t.Fatalf("Wrap error = %v", err)
	}

	want := "+--+\n|hi|\n+--+\n\n"
	if got := chunkString(t, a, box); got != want {
		t.Errorf("panel = %q, want %q", got, want)
	}
}

func TestPanelWrapReleasesOnBudgetError(t *testing.T) {
	a := textweave.New(textweave.WithMaxCells(9))
	content := mustText(t, a, "hi")
	_, err := NewPanel().Wrap(a, content)
	if !errors.Is(err, textweave.ErrArenaExhausted) {
		t.Fatalf("expected ErrArenaExhausted, got %v", err)
	}

	if got := a.Len(); got != 0 {
		t.Errorf("arena Len() = %d after failed Wrap, want 0", got)
	}
}
