// Package writer exposes sinks for generated traces.
package writer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink receives encoded output, such as a *trace.Trace.
type Sink interface {
	Emit(src io.WriterTo) error
}

// FileWriter writes to a filesystem path atomically.
type FileWriter struct {
	Path string
}

// Emit encodes src to the configured path atomically via temp file + rename.
// A failed write leaves any existing file untouched.
func (w *FileWriter) Emit(src io.WriterTo) error {
	// Create temp file in same directory to ensure atomic rename
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, ".heapkit-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmpFile)
	if _, writeErr := src.WriteTo(bw); writeErr != nil {
		return fmt.Errorf("write temp file: %w", writeErr)
	}
	if flushErr := bw.Flush(); flushErr != nil {
		return fmt.Errorf("write temp file: %w", flushErr)
	}

	// Sync to disk
	if syncErr := tmpFile.Sync(); syncErr != nil {
		return fmt.Errorf("sync temp file: %w", syncErr)
	}

	// Close before rename
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil // Don't clean up in defer

	if renameErr := os.Rename(tmpPath, w.Path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", renameErr)
	}

	return nil
}
