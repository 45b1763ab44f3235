package pretty

import (
	"errors"
	"testing"

	"github.com/dshills/textweave"
)

func TestListRender(t *testing.T) {
	a := plainArena()
	ref, err := NewList().
		Item("fruit").
		Nested(1, "apple").
		Nested(1, "pear").
		Item("nuts").
		Render(a)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}

	want := "- fruit  \n  - apple\n  - pear \n- nuts   \n\n"
	if got := chunkString(t, a, ref); got != want {
		t.Errorf("list = %q, want %q", got, want)
	}
}

func TestListCustomBulletAndIndent(t *testing.T) {
	a := plainArena()
	ref, err := NewList().
		Bullet("* ").
		Indent(4).
		Item("a").
		Nested(1, "b").
		Render(a)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}

	want := "* a    \n    * b\n\n"
	if got := chunkString(t, a, ref); got != want {
		t.Errorf("list = %q, want %q", got, want)
	}
}

func TestListDeepNesting(t *testing.T) {
	a := plainArena()
	ref, err := NewList().
		Item("a").
		Nested(2, "b").
		Render(a)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}

	want := "- a    \n    - b\n\n"
	if got := chunkString(t, a, ref); got != want {
		t.Errorf("list = %q, want %q", got, want)
	}
}

func TestListEmpty(t *testing.T) {
	a := plainArena()
	ref, err := NewList().Render(a)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}

	if got := chunkString(t, a, ref); got != "\n" {
		t.Errorf("empty list = %q, want %q", got, "\n")
	}
}

func TestListBulletStyle(t *testing.T) {
	a := textweave.New()
	ref, err := NewList().
		BulletStyle(textweave.NewStyle(textweave.ColorCyan)).
		Item("x").
		Render(a)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}

	want := "\x1b[0;36m- \x1b[0mx\x1b[0m\n\x1b[0m\n"
	if got := chunkString(t, a, ref); got != want {
		t.Errorf("list = %q, want %q", got, want)
	}
}

func TestListRenderReleasesOnBudgetError(t *testing.T) {
	a := textweave.New(textweave.WithMaxCells(8))
	_, err := NewList().
		Item("x").
		Item("y").
		Render(a)
	if !errors.Is(err, textweave.ErrArenaExhausted) {
		t.Fatalf("expected ErrArenaExhausted, got %v", err)
	}

	if got := a.Len(); got != 0 {
		t.Errorf("arena Len() = %d after failed Render, want 0", got)
	}
}
