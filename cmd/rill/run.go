package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rill/internal/diagfmt"
	"rill/internal/driver"
	"rill/internal/interp"
	"rill/internal/project"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] file.rl",
	Short: "Check a rill program and execute it",
	Long:  `Run verifies ownership and borrows of one .rl file and, when it is admitted, executes its main function`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Bool("trace-drops", false, "log every drop as it happens")
}

func runRun(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	traceDrops, err := cmd.Flags().GetBool("trace-drops")
	if err != nil {
		return fmt.Errorf("failed to get trace-drops flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiagnostics <= 0 {
		manifest, _, derr := project.Discover(filepath.Dir(filePath))
		if derr != nil {
			return derr
		}
		maxDiagnostics = manifest.Check.MaxDiagnostics
	}

	result, err := driver.Run(filePath, driver.RunOptions{
		Options:    driver.Options{MaxDiagnostics: maxDiagnostics},
		Stdout:     os.Stdout,
		TraceDrops: traceDrops,
	})

	if result != nil && result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColorFor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}
	if result != nil && result.Bag.HasErrors() {
		os.Exit(1)
	}

	if err != nil {
		var rte *interp.RuntimeError
		if errors.As(err, &rte) && result != nil {
			start, _ := result.FileSet.Resolve(rte.Span)
			fmt.Fprintf(os.Stderr, "%s:%d:%d: runtime error: %s\n",
				result.File.Path, start.Line, start.Col, rte.Msg)
			os.Exit(1)
		}
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}
