package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/trace"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay a trace validating the heap after every operation",
		Long: `The check command replays a trace and runs the heap validator after
each operation: boundary tags, free-list membership, size classes, and
coalescing are all verified. The first failure is reported with the
operation that caused it.

Example:
  heapctl check traces/coalescing.rep
  heapctl check --config tuned.toml traces/realloc.rep`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

// CheckReport is the JSON output of check.
type CheckReport struct {
	Trace  string   `json:"trace"`
	Ops    int      `json:"ops"`
	OK     bool     `json:"ok"`
	Errors []string `json:"errors,omitempty"`
}

func runCheck(args []string) error {
	path := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tr, err := trace.ParseFile(path)
	if err != nil {
		return err
	}
	a, release, err := newAllocator(cfg)
	if err != nil {
		return err
	}
	defer release()

	printVerbose("Checking %s (%d ops)\n", tr.Name, len(tr.Ops))
	res, replayErr := trace.Replay(tr, a, trace.Options{Validate: true})

	report := CheckReport{Trace: tr.Name, Ops: res.Ops, OK: replayErr == nil}
	if replayErr != nil {
		report.Errors = []string{replayErr.Error()}
	}

	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else if replayErr == nil {
		printInfo("%s: OK (%s ops, heap %s)\n", tr.Name, formatNumber(int64(res.Ops)), formatBytes(int64(res.HeapSize)))
	} else {
		printError("%s: FAILED\n", tr.Name)
		if !quiet {
			for _, v := range a.Validate() {
				printError("  %v\n", v)
			}
		}
	}

	if replayErr != nil {
		if errors.Is(replayErr, trace.ErrCorrupted) {
			return fmt.Errorf("heap check failed: %w", replayErr)
		}
		return fmt.Errorf("replay failed: %w", replayErr)
	}
	return nil
}
