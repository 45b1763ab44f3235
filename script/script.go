// Package script embeds a sandboxed Lua interpreter that drives chunk
// composition from scripts. Scripts see a single weave module whose
// functions mirror the arena operations; refs cross the boundary as
// userdata and are consumed by the same rules as in Go.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textweave"
	"github.com/dshills/textweave/theme"
)

// DefaultTimeout bounds a single script run. Long-running scripts are
// interrupted between VM instructions.
const DefaultTimeout = 5 * time.Second

// ErrEngineClosed is returned when running on a closed engine.
var ErrEngineClosed = errors.New("script engine is closed")

const refTypeName = "weave.ref"
const styleTypeName = "weave.style"

// Engine wraps a sandboxed Lua state bound to one arena.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes Go
// callers, but a single run executes on the calling goroutine.
//
// Only the base, table, string, and math libraries are opened. io, os,
// debug, and the load family are unavailable to scripts.
type Engine struct {
	mu      sync.Mutex
	L       *lua.LState
	arena   *textweave.Arena
	out     io.Writer
	th      *theme.Theme
	logger  *textweave.Logger
	timeout time.Duration
	closed  bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithOutput sets the writer weave.write and print target. The default
// discards output.
func WithOutput(w io.Writer) EngineOption {
	return func(e *Engine) {
		e.out = w
	}
}

// WithTheme makes weave.style resolve named styles from t.
func WithTheme(t *theme.Theme) EngineOption {
	return func(e *Engine) {
		e.th = t
	}
}

// WithTimeout bounds each RunString/RunFile call. Zero disables the limit.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLogger sets the logger for script activity.
func WithLogger(l *textweave.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates a sandboxed engine whose weave module operates on a.
func NewEngine(a *textweave.Arena, opts ...EngineOption) *Engine {
	e := &Engine{
		arena:   a,
		out:     io.Discard,
		logger:  textweave.NullLogger,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	e.L = L

	openSafeLibraries(L)
	e.installSandbox()
	e.registerWeave()

	return e
}

// openSafeLibraries opens only safe Lua standard libraries. io, os, debug,
// and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes the load family that OpenBase brings in and
// redirects print to the engine's output writer.
func (e *Engine) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		e.L.SetGlobal(name, lua.LNil)
	}

	e.L.SetGlobal("print", e.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, top)
		for i := 1; i <= top; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(e.out, strings.Join(parts, "\t"))
		return 0
	}))
}

// registerWeave installs the weave module and the ref userdata type.
func (e *Engine) registerWeave() {
	L := e.L

	refMT := L.NewTypeMetatable(refTypeName)
	L.SetField(refMT, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(refTypeName))
		return 1
	}))

	styleMT := L.NewTypeMetatable(styleTypeName)
	L.SetField(styleMT, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(styleTypeName))
		return 1
	}))

	weave := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":    e.luaText,
		"blank":   e.luaBlank,
		"unify":   e.luaUnify,
		"slap":    e.luaSlap,
		"stack":   e.luaStack,
		"clone":   e.luaClone,
		"release": e.luaRelease,
		"write":   e.luaWrite,
		"size":    e.luaSize,
		"style":   e.luaStyle,
	})
	L.SetGlobal("weave", weave)
}

// RunString executes Lua source against the engine's arena.
func (e *Engine) RunString(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	return e.run(func() error {
		return e.L.DoString(code)
	})
}

// RunFile executes a Lua script file against the engine's arena.
func (e *Engine) RunFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	e.logger.Debug("running script %s", path)
	return e.run(func() error {
		return e.L.DoFile(path)
	})
}

// run executes fn under the timeout with panic recovery. Arena panics
// raised inside weave functions surface as script errors.
func (e *Engine) run(fn func() error) (err error) {
	if e.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		e.L.SetContext(ctx)
		defer e.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	err = fn()
	if err != nil {
		e.logger.Warn("script error: %v", err)
	}
	return err
}

// Global returns a global variable from the script environment.
func (e *Engine) Global(name string) lua.LValue {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return lua.LNil
	}
	return e.L.GetGlobal(name)
}

// Arena returns the arena the weave module operates on.
func (e *Engine) Arena() *textweave.Arena {
	return e.arena
}

// Close releases the Lua state. It is safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.L.Close()
	e.closed = true
	return nil
}

// luaText implements weave.text(style?, s).
func (e *Engine) luaText(L *lua.LState) int {
	st := textweave.DefaultStyle()
	var text string
	if L.GetTop() >= 2 {
		st = e.checkStyle(L, 1)
		text = L.CheckString(2)
	} else {
		text = L.CheckString(1)
	}

	ref, err := e.arena.RenderText(st, text)
	if err != nil {
		L.RaiseError("weave.text: %s", err.Error())
	}
	L.Push(wrapRef(L, ref))
	return 1
}

// luaBlank implements weave.blank(w, h).
func (e *Engine) luaBlank(L *lua.LState) int {
	w := L.CheckInt(1)
	h := L.CheckInt(2)

	ref, err := e.arena.Alloc(w, h)
	if err != nil {
		L.RaiseError("weave.blank: %s", err.Error())
	}
	L.Push(wrapRef(L, ref))
	return 1
}

// luaUnify implements weave.unify(a, b, dx, dy).
func (e *Engine) luaUnify(L *lua.LState) int {
	a := checkRef(L, 1)
	b := checkRef(L, 2)
	at := textweave.Offset{X: L.CheckInt(3), Y: L.CheckInt(4)}

	ref, err := e.arena.Unify(a, b, at)
	if err != nil {
		L.RaiseError("weave.unify: %s", err.Error())
	}
	L.Push(wrapRef(L, ref))
	return 1
}

// luaSlap implements weave.slap(a, b, dir, align?).
func (e *Engine) luaSlap(L *lua.LState) int {
	a := checkRef(L, 1)
	b := checkRef(L, 2)
	dir := checkDirection(L, 3)
	align := textweave.AlignClose
	if L.GetTop() >= 4 {
		align = checkAlignment(L, 4)
	}

	ref, err := e.arena.Slap(a, b, dir, align)
	if err != nil {
		L.RaiseError("weave.slap: %s", err.Error())
	}
	L.Push(wrapRef(L, ref))
	return 1
}

// luaStack implements weave.stack(list, dir, align?).
func (e *Engine) luaStack(L *lua.LState) int {
	tbl := L.CheckTable(1)
	dir := checkDirection(L, 2)
	align := textweave.AlignClose
	if L.GetTop() >= 3 {
		align = checkAlignment(L, 3)
	}

	refs := make([]textweave.Ref, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		ud, ok := tbl.RawGetInt(i).(*lua.LUserData)
		if !ok {
			L.ArgError(1, fmt.Sprintf("element %d is not a chunk ref", i))
		}
		ref, ok := ud.Value.(textweave.Ref)
		if !ok {
			L.ArgError(1, fmt.Sprintf("element %d is not a chunk ref", i))
		}
		refs = append(refs, ref)
	}

	ref, err := e.arena.Stack(refs, dir, align)
	if err != nil {
		L.RaiseError("weave.stack: %s", err.Error())
	}
	L.Push(wrapRef(L, ref))
	return 1
}

// luaClone implements weave.clone(a).
func (e *Engine) luaClone(L *lua.LState) int {
	ref, err := e.arena.Clone(checkRef(L, 1))
	if err != nil {
		L.RaiseError("weave.clone: %s", err.Error())
	}
	L.Push(wrapRef(L, ref))
	return 1
}

// luaRelease implements weave.release(a).
func (e *Engine) luaRelease(L *lua.LState) int {
	e.arena.Release(checkRef(L, 1))
	return 0
}

// luaWrite implements weave.write(a), serializing to the engine output.
func (e *Engine) luaWrite(L *lua.LState) int {
	if err := e.arena.Write(checkRef(L, 1), e.out); err != nil {
		L.RaiseError("weave.write: %s", err.Error())
	}
	return 0
}

// luaSize implements weave.size(a), returning width and height.
func (e *Engine) luaSize(L *lua.LState) int {
	w, h := e.arena.Size(checkRef(L, 1))
	L.Push(lua.LNumber(w))
	L.Push(lua.LNumber(h))
	return 2
}

// luaStyle implements weave.style(name), resolving against the configured
// theme.
func (e *Engine) luaStyle(L *lua.LState) int {
	name := L.CheckString(1)
	if e.th == nil {
		L.RaiseError("weave.style: no theme configured")
	}
	L.Push(wrapStyle(L, e.th.Style(name)))
	return 1
}

func wrapRef(L *lua.LState, ref textweave.Ref) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = ref
	L.SetMetatable(ud, L.GetTypeMetatable(refTypeName))
	return ud
}

func checkRef(L *lua.LState, idx int) textweave.Ref {
	ud := L.CheckUserData(idx)
	if ref, ok := ud.Value.(textweave.Ref); ok {
		return ref
	}
	L.ArgError(idx, "chunk ref expected")
	return textweave.Ref{} // unreachable, but required for Go compiler
}

func wrapStyle(L *lua.LState, st textweave.Style) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = st
	L.SetMetatable(ud, L.GetTypeMetatable(styleTypeName))
	return ud
}

// checkStyle accepts either a style userdata from weave.style or a table
// of the form {fg=..., bg=..., bold=true, ...}.
func (e *Engine) checkStyle(L *lua.LState, idx int) textweave.Style {
	switch v := L.Get(idx).(type) {
	case *lua.LUserData:
		if st, ok := v.Value.(textweave.Style); ok {
			return st
		}
	case *lua.LTable:
		return styleFromTable(L, idx, v)
	}
	L.ArgError(idx, "style table or weave.style expected")
	return textweave.Style{}
}

func styleFromTable(L *lua.LState, idx int, tbl *lua.LTable) textweave.Style {
	st := textweave.DefaultStyle()

	if fg, ok := tbl.RawGetString("fg").(lua.LString); ok {
		c, err := theme.ParseColor(string(fg))
		if err != nil {
			L.ArgError(idx, err.Error())
		}
		st = st.WithForeground(c)
	}
	if bg, ok := tbl.RawGetString("bg").(lua.LString); ok {
		c, err := theme.ParseColor(string(bg))
		if err != nil {
			L.ArgError(idx, err.Error())
		}
		st = st.WithBackground(c)
	}

	if lua.LVAsBool(tbl.RawGetString("bold")) {
		st = st.Bold()
	}
	if lua.LVAsBool(tbl.RawGetString("dim")) {
		st = st.Dim()
	}
	if lua.LVAsBool(tbl.RawGetString("italic")) {
		st = st.Italic()
	}
	if lua.LVAsBool(tbl.RawGetString("underline")) {
		st = st.Underline()
	}
	if lua.LVAsBool(tbl.RawGetString("blink")) {
		st = st.Blink()
	}
	if lua.LVAsBool(tbl.RawGetString("reverse")) {
		st = st.Reverse()
	}
	if lua.LVAsBool(tbl.RawGetString("strike")) {
		st = st.Strike()
	}
	return st
}

func checkDirection(L *lua.LState, idx int) textweave.Direction {
	switch s := L.CheckString(idx); s {
	case "left":
		return textweave.DirLeft
	case "right":
		return textweave.DirRight
	case "top":
		return textweave.DirTop
	case "bottom":
		return textweave.DirBottom
	default:
		L.ArgError(idx, fmt.Sprintf("unknown direction %q", s))
		return textweave.DirLeft
	}
}

func checkAlignment(L *lua.LState, idx int) textweave.Alignment {
	switch s := L.CheckString(idx); s {
	case "close":
		return textweave.AlignClose
	case "center":
		return textweave.AlignCenter
	case "far":
		return textweave.AlignFar
	default:
		L.ArgError(idx, fmt.Sprintf("unknown alignment %q", s))
		return textweave.AlignClose
	}
}
