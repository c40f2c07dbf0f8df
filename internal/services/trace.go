package services

import (
	"bufio"
	"fmt"
	"io"
)

// Trace is a per-request diagnostic sink. Lines are buffered and written
// out at the end of each line group by Flush, so groups from one request
// never interleave. A nil *Trace discards everything, which lets callers
// trace unconditionally.
type Trace struct {
	w   *bufio.Writer
	err error
}

func NewTrace(w io.Writer) *Trace {
	return &Trace{w: bufio.NewWriter(w)}
}

func (t *Trace) Enabled() bool { return t != nil }

// Printf writes one line; a trailing newline is added.
func (t *Trace) Printf(format string, args ...any) {
	if t == nil || t.err != nil {
		return
	}
	if _, err := fmt.Fprintf(t.w, format, args...); err != nil {
		t.err = err
		return
	}
	t.err = t.w.WriteByte('\n')
}

// Flush ends a line group. It returns the first write error seen.
func (t *Trace) Flush() error {
	if t == nil {
		return nil
	}
	if t.err != nil {
		return t.err
	}
	t.err = t.w.Flush()
	return t.err
}
