package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/heapkit/internal/trace"
)

const sampleTrace = `4096
3
7
1
a 0 40
a 1 100
r 0 500
f 1
a 2 16
f 0
f 2
`

// writeTrace writes body to a trace file in a temp dir and returns its path.
func writeTrace(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write trace: %v", err)
	}
	return path
}

// writeGeneratedTrace writes a random trace and returns its path.
func writeGeneratedTrace(t *testing.T, name string, cfg trace.GenConfig) string {
	t.Helper()
	tr, err := trace.Generate(cfg)
	if err != nil {
		t.Fatalf("failed to generate trace: %v", err)
	}
	var buf bytes.Buffer
	if _, err := tr.WriteTo(&buf); err != nil {
		t.Fatalf("failed to encode trace: %v", err)
	}
	return writeTrace(t, name, buf.String())
}

// resetFlags restores every flag to its default between test cases.
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	configPath = ""
	hostKind = "slice"
	capacity = 4 << 20
	runMetricsOut = ""
	runStats = false
	classesPreset = ""
	genOps = trace.DefaultGenConfig.Ops
	genIDs = trace.DefaultGenConfig.IDs
	genSeed = trace.DefaultGenConfig.Seed
	genMaxSize = trace.DefaultGenConfig.MaxSize
	genOut = ""
	setupLogging()
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
