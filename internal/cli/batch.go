package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spacesedan/postlens/internal/batch"
	"github.com/spf13/cobra"
)

var batchFlags struct {
	json       bool
	workers    int
	noProgress bool
}

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Analyze every matching file in a directory",
	Long: `Walk a directory, analyze every file selected by batch.includes and not
excluded by batch.excludes, and print a summary table or a JSON array.

Examples:
  postlens batch ./drafts
  postlens batch ./drafts --workers 8 --json > report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-analyze files as they change",
	Long: `Watch a directory and print a fresh report whenever a matching file is
written. Changes are debounced by batch.debounce.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	batchCmd.Flags().BoolVar(&batchFlags.json, "json", false, "output as JSON")
	batchCmd.Flags().IntVarP(&batchFlags.workers, "workers", "w", 0, "number of workers (default from config)")
	batchCmd.Flags().BoolVar(&batchFlags.noProgress, "no-progress", false, "hide the progress bar")
}

func targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	root, err := filepath.Abs(targetDir(args))
	if err != nil {
		return err
	}

	walker := batch.NewWalker(cfg.Batch.Includes, cfg.Batch.Excludes)
	files, err := walker.Walk(root)
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no matching files under %s", root)
	}

	workers := cfg.Batch.Workers
	if batchFlags.workers > 0 {
		workers = batchFlags.workers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	var progress batch.ProgressFunc
	if !batchFlags.noProgress {
		progress = batch.BarProgress(batch.NewProgressBar(cmd.ErrOrStderr(), len(files)))
	}

	results := batch.NewRunner(rt.Service, workers).Run(ctx, root, files, progress)

	if batchFlags.json {
		return writeJSON(cmd.OutOrStdout(), toBatchEntries(root, results))
	}
	return writeBatchTable(cmd.OutOrStdout(), root, results)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	root, err := filepath.Abs(targetDir(args))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	walker := batch.NewWalker(cfg.Batch.Includes, cfg.Batch.Excludes)
	watcher, err := batch.NewWatcher(root, walker, cfg.Batch.Debounce)
	if err != nil {
		return err
	}
	defer watcher.Close()

	runner := batch.NewRunner(rt.Service, 1)
	out := cmd.OutOrStdout()
	var mu sync.Mutex
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", root)

	err = watcher.Watch(ctx, func(path string) {
		result := runner.AnalyzeFile(ctx, path, displayPath(root, path))
		mu.Lock()
		defer mu.Unlock()
		if result.Record == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", displayPath(root, path), result.Err)
			return
		}
		writeReport(out, result.Record)
		fmt.Fprintln(out)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
