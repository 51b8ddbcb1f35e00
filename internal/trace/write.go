package trace

import (
	"bufio"
	"fmt"
	"io"
)

// WriteTo writes t in the trace file format.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	emit := func(format string, args ...any) error {
		c, err := fmt.Fprintf(bw, format, args...)
		n += int64(c)
		return err
	}

	if err := emit("%d\n%d\n%d\n%d\n", t.SuggestedHeapSize, t.NumIDs, len(t.Ops), t.Weight); err != nil {
		return n, err
	}
	for _, op := range t.Ops {
		if err := emit("%s\n", op); err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
