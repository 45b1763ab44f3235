package textweave

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/textweave/ansi"
	"github.com/dshills/textweave/internal/cellbuf"
	"github.com/dshills/textweave/internal/compose"
	"github.com/dshills/textweave/internal/geom"
)

// Ref is an opaque handle to a chunk owned by an Arena. Refs are issued by
// arena operations and validated on every dereference: a ref whose chunk has
// been consumed or released is stale, and using it panics.
type Ref struct {
	index uint32
	gen   uint32
}

// slot holds one chunk and the generation counter that stale refs are
// detected against. A vacant slot keeps its generation until the next
// install; release advances it.
type slot struct {
	gen  uint32
	buf  *cellbuf.Buffer
	live bool
}

// Arena owns every live chunk and hands out generation-checked refs.
// Compositing operations consume their ref operands: after Unify, Slap,
// Stack, Write, or Release, the passed refs are moved-from and must not be
// used again.
//
// An Arena is not safe for concurrent use. One arena belongs to one logical
// thread of control; parallel composition should use independent arenas and
// merge the results on a single thread.
type Arena struct {
	id    string
	slots []slot
	free  []uint32

	liveCount int
	liveCells int

	maxChunks int
	maxCells  int

	formatter Formatter
	logger    *Logger
}

// Option configures an Arena.
type Option func(*Arena)

// WithMaxChunks caps how many chunks may be live at once. Zero means no
// cap. Operations that would exceed the cap fail with ErrArenaExhausted and
// leave the arena untouched.
func WithMaxChunks(n int) Option {
	return func(ar *Arena) {
		ar.maxChunks = n
	}
}

// WithMaxCells caps the total cell count across live chunks. Zero means no
// cap. Operations that would exceed the cap fail with ErrArenaExhausted and
// leave the arena untouched.
func WithMaxCells(n int) Option {
	return func(ar *Arena) {
		ar.maxCells = n
	}
}

// WithFormatter sets the style formatter Write emits escape sequences
// through.
func WithFormatter(f Formatter) Option {
	return func(ar *Arena) {
		ar.formatter = f
	}
}

// WithLogger sets the logger for arena diagnostics.
func WithLogger(l *Logger) Option {
	return func(ar *Arena) {
		ar.logger = l
	}
}

// New creates an empty arena with the given options.
func New(opts ...Option) *Arena {
	ar := &Arena{
		id:        uuid.New().String(),
		formatter: ansi.New(),
		logger:    NullLogger,
	}

	for _, opt := range opts {
		opt(ar)
	}

	ar.logger.Debug("arena %s created", ar.id)
	return ar
}

// ID returns the arena's unique instance identifier.
func (ar *Arena) ID() string {
	return ar.id
}

// Len reports how many chunks are currently live.
func (ar *Arena) Len() int {
	return ar.liveCount
}

// Alloc creates a blank chunk of the given dimensions carrying the default
// style. Nonpositive dimensions yield the canonical empty chunk.
func (ar *Arena) Alloc(width, height int) (Ref, error) {
	buf := cellbuf.New(geom.Size{W: width, H: height})
	if err := ar.reserve("alloc", buf.Size().Area()); err != nil {
		return Ref{}, err
	}
	return ar.install(buf), nil
}

// Stub creates the canonical empty chunk. It is the neutral value for
// composition: slapping anything onto a stub yields that thing.
func (ar *Arena) Stub() (Ref, error) {
	return ar.Alloc(0, 0)
}

// RenderText creates a chunk from text. Lines are split on '\n', trailing
// empty lines are stripped, and the chunk is as wide as the widest line;
// shorter lines are padded with blanks carrying style.
func (ar *Arena) RenderText(style Style, text string) (Ref, error) {
	buf := cellbuf.Render(style, text)
	if err := ar.reserve("render", buf.Size().Area()); err != nil {
		return Ref{}, err
	}
	return ar.install(buf), nil
}

// Clone creates an independent copy of the chunk behind ref. The input ref
// stays live.
func (ar *Arena) Clone(ref Ref) (Ref, error) {
	buf := ar.deref("clone", ref)
	if err := ar.reserve("clone", buf.Size().Area()); err != nil {
		return Ref{}, err
	}
	return ar.install(buf.Clone()), nil
}

// Release frees the chunk behind ref. The slot's generation advances, so
// every copy of ref still held anywhere is stale from here on.
func (ar *Arena) Release(ref Ref) {
	ar.deref("release", ref)
	ar.releaseSlot(ref.index)
}

// Unify overlays the chunk behind b onto the chunk behind a, with b's
// origin translated by at relative to a's, and returns a composite sized to
// the union of both extents. Cells of b win where the chunks overlap. Unify
// consumes both input refs.
func (ar *Arena) Unify(a, b Ref, at Offset) (Ref, error) {
	ar.checkDistinct("unify", a, b)
	bufA := ar.deref("unify", a)
	bufB := ar.deref("unify", b)

	size := compose.UnifySize(bufA.Size(), bufB.Size(), at)
	if err := ar.reserve("unify", size.Area()); err != nil {
		return Ref{}, err
	}

	out, err := compose.Unify(bufA, bufB, at)
	if err != nil {
		return Ref{}, NewOpError("unify", err)
	}

	ref := ar.install(out)
	ar.releaseSlot(a.index)
	ar.releaseSlot(b.index)
	return ref, nil
}

// Slap places the chunk behind b against the given side of the chunk behind
// a, lined up per align along the perpendicular axis, and returns the
// composite. Slap consumes both input refs.
func (ar *Arena) Slap(a, b Ref, dir Direction, align Alignment) (Ref, error) {
	ar.checkDistinct("slap", a, b)
	bufA := ar.deref("slap", a)
	bufB := ar.deref("slap", b)

	at := compose.SlapOffset(bufA.Size(), bufB.Size(), dir, align)
	size := compose.UnifySize(bufA.Size(), bufB.Size(), at)
	if err := ar.reserve("slap", size.Area()); err != nil {
		return Ref{}, err
	}

	out, err := compose.Slap(bufA, bufB, dir, align)
	if err != nil {
		return Ref{}, NewOpError("slap", err)
	}

	ref := ar.install(out)
	ar.releaseSlot(a.index)
	ar.releaseSlot(b.index)
	return ref, nil
}

// Stack folds Slap over refs in order, starting from the empty chunk, with
// the same direction and alignment at every step. No refs yields the empty
// chunk; a single ref yields a chunk equal in content to its clone. Stack
// consumes every input ref.
func (ar *Arena) Stack(refs []Ref, dir Direction, align Alignment) (Ref, error) {
	seen := make(map[Ref]struct{}, len(refs))
	bufs := make([]*cellbuf.Buffer, len(refs))
	for i, r := range refs {
		if _, dup := seen[r]; dup {
			panic(fmt.Sprintf("textweave: stack: duplicate ref to slot %d (arena %s); consuming operands must be distinct live refs", r.index, ar.id))
		}
		seen[r] = struct{}{}
		bufs[i] = ar.deref("stack", r)
	}

	out, err := compose.Stack(bufs, dir, align)
	if err != nil {
		return Ref{}, NewOpError("stack", err)
	}
	if err := ar.reserve("stack", out.Size().Area()); err != nil {
		return Ref{}, err
	}

	ref := ar.install(out)
	for _, r := range refs {
		ar.releaseSlot(r.index)
	}
	return ref, nil
}

// Size reports the dimensions of the chunk behind ref without consuming it.
func (ar *Arena) Size(ref Ref) (width, height int) {
	buf := ar.deref("size", ref)
	return buf.Width(), buf.Height()
}

// Visit calls fn for each visible cell of the chunk behind ref in row-major
// order. Continuation cells that pad wide runes are skipped. Visit does not
// consume ref; it exists so alternative sinks can enumerate cells without
// going through Write.
func (ar *Arena) Visit(ref Ref, fn func(x, y int, c Cell)) {
	buf := ar.deref("visit", ref)

	it := buf.Rows()
	y := 0
	for row, ok := it.Next(); ok; row, ok = it.Next() {
		for x, c := range row {
			if c.IsContinuation() {
				continue
			}
			fn(x, y, c)
		}
		y++
	}
}

// deref resolves ref to its buffer, panicking with a diagnostic on any
// stale or out-of-range ref. Stale refs are a programmer defect, not a
// runtime condition; the move-semantics contract cannot be recovered from
// at the point of detection.
func (ar *Arena) deref(op string, ref Ref) *cellbuf.Buffer {
	if int(ref.index) >= len(ar.slots) {
		panic(fmt.Sprintf("textweave: %s: ref to unknown slot %d (arena %s holds %d slots)",
			op, ref.index, ar.id, len(ar.slots)))
	}
	s := &ar.slots[ref.index]
	if !s.live || s.gen != ref.gen {
		panic(fmt.Sprintf("textweave: %s: stale ref to slot %d (ref generation %d, slot generation %d, arena %s); refs are consumed by unify/slap/stack/write/release and must not be reused",
			op, ref.index, ref.gen, s.gen, ar.id))
	}
	return s.buf
}

// checkDistinct panics when a consuming operation receives the same ref
// twice, which would otherwise release one slot two times.
func (ar *Arena) checkDistinct(op string, a, b Ref) {
	if a == b {
		panic(fmt.Sprintf("textweave: %s: duplicate ref to slot %d (arena %s); consuming operands must be distinct live refs", op, a.index, ar.id))
	}
}

// reserve checks the configured budgets before a new chunk of the given
// cell count is installed. Inputs of the pending operation are still live
// here, so budgets bound the peak, not the settled state.
func (ar *Arena) reserve(op string, cells int) error {
	if ar.maxChunks > 0 && ar.liveCount+1 > ar.maxChunks {
		ar.logger.Warn("%s rejected: %d chunks live, budget %d", op, ar.liveCount, ar.maxChunks)
		return NewOpError(op, ErrArenaExhausted).
			WithContext(fmt.Sprintf("%d chunks live, budget %d", ar.liveCount, ar.maxChunks))
	}
	if ar.maxCells > 0 && ar.liveCells+cells > ar.maxCells {
		ar.logger.Warn("%s rejected: %d cells live, %d requested, budget %d", op, ar.liveCells, cells, ar.maxCells)
		return NewOpError(op, ErrArenaExhausted).
			WithContext(fmt.Sprintf("%d cells live, %d requested, budget %d", ar.liveCells, cells, ar.maxCells))
	}
	return nil
}

// install moves buf into a vacant slot, or appends a fresh slot when the
// free list is empty, and returns the ref addressing it. Callers reserve
// budget headroom first.
func (ar *Arena) install(buf *cellbuf.Buffer) Ref {
	var idx uint32
	if n := len(ar.free); n > 0 {
		idx = ar.free[n-1]
		ar.free = ar.free[:n-1]
		s := &ar.slots[idx]
		s.buf = buf
		s.live = true
	} else {
		idx = uint32(len(ar.slots))
		ar.slots = append(ar.slots, slot{buf: buf, live: true})
	}

	ar.liveCount++
	ar.liveCells += buf.Size().Area()
	return Ref{index: idx, gen: ar.slots[idx].gen}
}

// releaseSlot drops a live slot to vacant: the buffer is discarded, the
// generation advances, and the index is recycled through the free list.
func (ar *Arena) releaseSlot(idx uint32) {
	s := &ar.slots[idx]
	ar.liveCount--
	ar.liveCells -= s.buf.Size().Area()
	s.buf = nil
	s.live = false
	s.gen++
	ar.free = append(ar.free, idx)
}
