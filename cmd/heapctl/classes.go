package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
)

var classesPreset string

func init() {
	cmd := newClassesCmd()
	cmd.Flags().StringVar(&classesPreset, "preset", "", "Size-class table: reference, fine, or coarse (default: from config)")
	rootCmd.AddCommand(cmd)
}

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Print the free-list size classes",
		Long: `The classes command prints the segregated free-list size classes:
each class holds free blocks whose total size falls in [min, max).

Example:
  heapctl classes
  heapctl classes --preset fine
  heapctl classes --config tuned.toml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
	return cmd
}

func runClasses() error {
	var bounds []int
	if classesPreset != "" {
		b, err := alloc.ClassBoundsPreset(classesPreset)
		if err != nil {
			return err
		}
		bounds = b
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		bounds = cfg.ClassBounds
	}

	classes := alloc.SizeClasses(bounds)
	if jsonOut {
		return printJSON(classes)
	}

	printInfo("%-6s %10s %10s\n", "CLASS", "MIN", "MAX")
	for _, c := range classes {
		hi := "-"
		if c.Max >= 0 {
			hi = formatNumber(int64(c.Max))
		}
		printInfo("%-6d %10s %10s\n", c.Index, formatNumber(int64(c.Min)), hi)
	}
	printInfo("\n%d classes\n", len(classes))
	return nil
}
