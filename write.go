package textweave

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// Formatter converts styles into the escape sequences that bracket styled
// runs on output. Implementations append to dst and return the extended
// slice. The default is the ansi package formatter; plugging in another
// implementation changes the wire format without touching composition.
type Formatter interface {
	// AppendStyle appends the sequence that puts the output into the given
	// style, regardless of what state preceded it.
	AppendStyle(dst []byte, style Style) []byte

	// AppendReset appends the sequence that returns the output to its
	// default state.
	AppendReset(dst []byte) []byte
}

// Write serializes the chunk behind ref to w and consumes ref; the slot is
// released even when w fails. Rows are emitted top to bottom. Runs of
// identically styled cells share a single style sequence, each row ends
// with a reset and a newline, and one more reset line follows the final
// row. The coalescing only reduces escape traffic; output content is
// identical either way.
func (ar *Arena) Write(ref Ref, w io.Writer) error {
	buf := ar.deref("write", ref)
	ar.releaseSlot(ref.index)

	out := bufio.NewWriter(w)
	run := make([]byte, 0, 128)

	it := buf.Rows()
	for row, ok := it.Next(); ok; row, ok = it.Next() {
		for i := 0; i < len(row); {
			style := row[i].Style
			run = ar.formatter.AppendStyle(run[:0], style)
			for ; i < len(row) && row[i].Style.Equals(style); i++ {
				if row[i].IsContinuation() {
					continue
				}
				run = utf8.AppendRune(run, row[i].Rune)
				for _, cm := range row[i].Combining {
					run = utf8.AppendRune(run, cm)
				}
			}
			_, _ = out.Write(run)
		}
		run = ar.formatter.AppendReset(run[:0])
		run = append(run, '\n')
		_, _ = out.Write(run)
	}

	run = ar.formatter.AppendReset(run[:0])
	run = append(run, '\n')
	_, _ = out.Write(run)

	return out.Flush()
}
