// Package textweave composes multi-line, styled text blocks ("chunks") into
// larger terminal layouts and emits them as a single color-coded stream.
//
// All chunks live inside an Arena and are addressed through opaque Refs.
// Compositing operations (Slap, Stack, Unify) and Write consume their ref
// operands: after the call the passed ref values are moved-from and must not
// be used again. The arena validates every dereference against the slot's
// generation counter, so reusing a moved-from ref fails loudly instead of
// silently reading recycled storage.
//
// A minimal session:
//
//	a := textweave.New()
//	title, _ := a.RenderText(textweave.NewStyle(textweave.ColorCyan).Bold(), "Report")
//	body, _ := a.RenderText(textweave.DefaultStyle(), "all systems nominal")
//	page, _ := a.Stack([]textweave.Ref{title, body}, textweave.DirBottom, textweave.AlignClose)
//	_ = a.Write(page, os.Stdout)
//
// Arenas are single-threaded: one arena belongs to one logical thread of
// control. Parallel composition should use independent arenas and merge the
// results on a single thread.
package textweave
