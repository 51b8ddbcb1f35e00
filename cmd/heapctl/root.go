package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string
	hostKind   string
	capacity   int
)

// logger receives allocator events; discarded unless --verbose.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Replay and inspect heapkit allocator traces",
	Long: `heapctl drives the heapkit segregated free-list allocator with
malloc-lab style trace files. It reports space utilization and throughput,
validates the heap after every operation, and generates random traces.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Allocator config file (TOML)")
	rootCmd.PersistentFlags().StringVar(&hostKind, "host", "slice", "Arena host: slice or mmap")
	rootCmd.PersistentFlags().IntVar(&capacity, "capacity", 64<<20, "Arena capacity in bytes")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging() {
	if !verbose || quiet {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if jsonOut {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
		return
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadConfig returns the allocator config from --config, or the defaults.
func loadConfig() (alloc.Config, error) {
	if configPath == "" {
		return alloc.DefaultConfig(), nil
	}
	printVerbose("Loading config: %s\n", configPath)
	return alloc.LoadConfig(configPath)
}

// newAllocator builds and initializes an allocator on the host selected by
// --host. The returned release func frees the host's memory.
func newAllocator(cfg alloc.Config) (*alloc.Allocator, func(), error) {
	var host arena.Host
	release := func() {}

	switch hostKind {
	case "slice":
		host = arena.NewSliceHost(capacity)
	case "mmap":
		h, err := arena.NewMmapHost(capacity)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to reserve arena: %w", err)
		}
		host = h
		release = func() {
			if err := h.Close(); err != nil {
				logger.Warn("unmap arena", "err", err)
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown host %q (want slice or mmap)", hostKind)
	}

	cfg.Logger = logger
	a, err := alloc.New(host, &cfg)
	if err != nil {
		release()
		return nil, nil, err
	}
	if err := a.Init(); err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to initialize heap: %w", err)
	}
	return a, release, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
