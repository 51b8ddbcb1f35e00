package main

import (
	"testing"

	"github.com/joshuapare/heapkit/internal/trace"
)

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		json        bool
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "healthy trace",
			body:        sampleTrace,
			wantContain: []string{"check.rep: OK (7 ops"},
		},
		{
			name:        "healthy trace json",
			body:        sampleTrace,
			json:        true,
			wantContain: []string{`"ok": true`, `"ops": 7`},
		},
		{
			name:    "free of unknown id",
			body:    "0\n1\n1\n1\nf 0\n",
			wantErr: true,
		},
		{
			name:        "bad op json",
			body:        "0\n1\n2\n1\na 0 8\na 0 8\n",
			json:        true,
			wantErr:     true,
			wantContain: []string{`"ok": false`, "already allocated"},
		},
		{
			name:    "syntax error",
			body:    "0\n1\n1\n1\nx 0\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.json
			path := writeTrace(t, "check.rep", tt.body)

			output, err := captureOutput(t, func() error {
				return runCheck([]string{path})
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("runCheck() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
			}
			if tt.json {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestCheckGeneratedTrace(t *testing.T) {
	resetFlags()
	path := writeGeneratedTrace(t, "gen.rep", trace.GenConfig{Ops: 400, IDs: 40, Seed: 11, MaxSize: 1024})

	output, err := captureOutput(t, func() error {
		return runCheck([]string{path})
	})
	if err != nil {
		t.Fatalf("runCheck() error = %v\nOutput: %s", err, output)
	}
	assertContains(t, output, []string{"gen.rep: OK"})
}
