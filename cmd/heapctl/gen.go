package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/trace"
	"github.com/joshuapare/heapkit/internal/writer"
)

var (
	genOps     int
	genIDs     int
	genSeed    int64
	genMaxSize int
	genOut     string
)

func init() {
	cmd := newGenCmd()
	cmd.Flags().IntVar(&genOps, "ops", trace.DefaultGenConfig.Ops, "Number of random operations")
	cmd.Flags().IntVar(&genIDs, "ids", trace.DefaultGenConfig.IDs, "Number of distinct block ids")
	cmd.Flags().Int64Var(&genSeed, "seed", trace.DefaultGenConfig.Seed, "Random seed")
	cmd.Flags().IntVar(&genMaxSize, "max-size", trace.DefaultGenConfig.MaxSize, "Largest request in bytes")
	cmd.Flags().StringVarP(&genOut, "output", "o", "", "Write the trace to a file instead of stdout")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random trace",
		Long: `The gen command writes a random alloc/realloc/free trace. The same
seed always produces the same trace. Every block still live at the end is
freed, so a replay leaves a single free block.

Example:
  heapctl gen --ops 5000 --ids 500 --seed 7 -o random.rep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen()
		},
	}
	return cmd
}

func runGen() error {
	var sink writer.Sink = writer.StreamWriter{W: os.Stdout}
	if genOut != "" {
		sink = &writer.FileWriter{Path: genOut}
	}

	tr, err := generateTo(sink)
	if err != nil {
		return err
	}
	if genOut != "" {
		printVerbose("Wrote %d ops to %s\n", len(tr.Ops), genOut)
	}
	return nil
}

// generateTo builds a trace from the gen flags and emits it to sink.
func generateTo(sink writer.Sink) (*trace.Trace, error) {
	tr, err := trace.Generate(trace.GenConfig{
		Ops:     genOps,
		IDs:     genIDs,
		Seed:    genSeed,
		MaxSize: genMaxSize,
		Weight:  1,
	})
	if err != nil {
		return nil, err
	}
	if err := sink.Emit(tr); err != nil {
		return nil, fmt.Errorf("failed to write trace: %w", err)
	}
	return tr, nil
}
