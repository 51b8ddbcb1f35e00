package writer

import (
	"bytes"
	"io"
)

// MemWriter captures output in memory.
type MemWriter struct {
	Buf []byte
}

// Emit replaces Buf with the encoding of src.
func (w *MemWriter) Emit(src io.WriterTo) error {
	b := bytes.NewBuffer(w.Buf[:0])
	if _, err := src.WriteTo(b); err != nil {
		return err
	}
	w.Buf = b.Bytes()
	return nil
}

// StreamWriter forwards output to an io.Writer such as os.Stdout.
type StreamWriter struct {
	W io.Writer
}

// Emit writes src to the wrapped writer.
func (w StreamWriter) Emit(src io.WriterTo) error {
	_, err := src.WriteTo(w.W)
	return err
}
