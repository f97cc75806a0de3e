package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rill/internal/diag"
	"rill/internal/diagfmt"
	"rill/internal/driver"
	"rill/internal/project"
	"rill/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] path",
	Short: "Check ownership and borrows of a file or directory",
	Long:  `Check runs the full front end over one .rl file, or over every .rl file under a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().String("ui", "auto", "progress display for directory checks (auto|on|off)")
	checkCmd.Flags().Bool("no-cache", false, "skip the on-disk result cache")
	checkCmd.Flags().Int("jobs", 0, "parallel workers for directory checks (0 = project default)")
}

// checkSettings folds manifest defaults under explicit flags.
type checkSettings struct {
	format         string
	ui             uiMode
	noCache        bool
	jobs           int
	maxDiagnostics int
	useColor       bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", target, err)
	}
	startDir := target
	if !info.IsDir() {
		startDir = filepath.Dir(target)
	}

	settings, err := readCheckSettings(cmd, startDir)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return checkDirectory(cmd.Context(), target, settings)
	}
	return checkSingleFile(target, settings)
}

func readCheckSettings(cmd *cobra.Command, startDir string) (checkSettings, error) {
	var s checkSettings

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return s, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return s, fmt.Errorf("unknown format: %s", format)
	}
	s.format = format

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return s, err
	}
	s.ui = mode

	s.noCache, err = cmd.Flags().GetBool("no-cache")
	if err != nil {
		return s, fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	s.jobs, err = cmd.Flags().GetInt("jobs")
	if err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}

	s.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	// Manifest settings fill whatever the flags left at zero.
	manifest, _, err := project.Discover(startDir)
	if err != nil {
		return s, err
	}
	if s.maxDiagnostics <= 0 {
		s.maxDiagnostics = manifest.Check.MaxDiagnostics
	}
	if s.jobs <= 0 {
		s.jobs = manifest.Check.Jobs
	}

	s.useColor = useColorFor(cmd, os.Stderr)
	return s, nil
}

func checkSingleFile(path string, settings checkSettings) error {
	result, err := driver.CheckFile(path, driver.Options{
		MaxDiagnostics: settings.maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if err := emitDiagnostics(result.Bag, result.FileSet, settings); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		os.Exit(1)
	}
	return nil
}

func checkDirectory(ctx context.Context, dir string, settings checkSettings) error {
	opts := driver.DirOptions{
		Options: driver.Options{MaxDiagnostics: settings.maxDiagnostics},
		Jobs:    settings.jobs,
	}
	if !settings.noCache {
		cache, err := driver.OpenDiskCache("rill")
		if err == nil {
			opts.Cache = cache
		}
		// A cache that cannot be opened just means a cold check.
	}

	var (
		fileSet *source.FileSet
		results []driver.FileResult
		err     error
	)
	if settings.format == "pretty" && shouldUseTUI(settings.ui) {
		files, listErr := driver.ListFiles(dir)
		if listErr != nil {
			return listErr
		}
		fileSet, results, err = runCheckDirWithUI(ctx, "checking "+dir, files, dir, opts)
	} else {
		fileSet, results, err = driver.CheckDir(ctx, dir, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	// Bag caps are uint16; clamp the merged capacity accordingly.
	merged := diag.NewBag(min(settings.maxDiagnostics*max(len(results), 1), 1<<16-1))
	for _, res := range results {
		merged.Merge(res.Bag)
	}
	merged.Sort()

	if err := emitDiagnostics(merged, fileSet, settings); err != nil {
		return err
	}
	if merged.HasErrors() {
		os.Exit(1)
	}
	return nil
}

func emitDiagnostics(bag *diag.Bag, fs *source.FileSet, settings checkSettings) error {
	switch settings.format {
	case "json":
		return diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		})
	default:
		if bag.Len() > 0 {
			diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
				Color:     settings.useColor,
				ShowNotes: true,
			})
		}
		return nil
	}
}
