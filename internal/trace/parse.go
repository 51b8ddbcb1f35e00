package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// maxOpsHint caps the preallocation taken from an untrusted header.
const maxOpsHint = 1 << 16

// ParseFile reads a trace from path. The trace is named after the file.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// Parse reads a trace. Blank lines are ignored. The op count in the header
// must match the ops that follow, and every id must be below the id count.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() ([]string, bool) {
		for sc.Scan() {
			line++
			if fields := strings.Fields(sc.Text()); len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}
	syntaxErr := func(format string, args ...any) error {
		return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
	}

	var header [4]int
	names := [4]string{"heap size", "id count", "op count", "weight"}
	for i := range header {
		fields, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("trace: read: %w", err)
			}
			return nil, syntaxErr("missing %s", names[i])
		}
		if len(fields) != 1 {
			return nil, syntaxErr("%s: want one number, got %q", names[i], strings.Join(fields, " "))
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 0 {
			return nil, syntaxErr("%s: bad number %q", names[i], fields[0])
		}
		header[i] = n
	}

	t := &Trace{
		SuggestedHeapSize: header[0],
		NumIDs:            header[1],
		Weight:            header[3],
		Ops:               make([]Op, 0, min(header[2], maxOpsHint)),
	}

	for {
		fields, ok := next()
		if !ok {
			break
		}
		op, err := parseOp(fields, t.NumIDs)
		if err != nil {
			return nil, syntaxErr("%v", err)
		}
		t.Ops = append(t.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}
	if len(t.Ops) != header[2] {
		return nil, fmt.Errorf("%w: header declares %d ops, found %d", ErrSyntax, header[2], len(t.Ops))
	}
	return t, nil
}

func parseOp(fields []string, numIDs int) (Op, error) {
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("unknown op %q", fields[0])
	}
	op := Op{Kind: OpKind(fields[0][0])}

	want := 3
	switch op.Kind {
	case OpAlloc, OpRealloc:
	case OpFree:
		want = 2
	default:
		return Op{}, fmt.Errorf("unknown op %q", fields[0])
	}
	if len(fields) != want {
		return Op{}, fmt.Errorf("%s takes %d operands, got %d", op.Kind, want-1, len(fields)-1)
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 || id >= numIDs {
		return Op{}, fmt.Errorf("bad id %q (trace declares %d ids)", fields[1], numIDs)
	}
	op.ID = id

	if want == 3 {
		size, err := strconv.Atoi(fields[2])
		if err != nil || size < 0 {
			return Op{}, fmt.Errorf("bad size %q", fields[2])
		}
		op.Size = size
	}
	return op, nil
}
