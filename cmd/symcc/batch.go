package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 4

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Instrument every module file in a directory",
	Long:  "Instrument every *.mir.msgpack file in a directory, bounded by --concurrency distinct modules at a time. Each module is instrumented single-threaded; this is the CLI's own concurrency above that, never within one module.",
	Args:  cobra.ExactArgs(1),
	RunE:  batchExecution,
}

func init() {
	batchCmd.Flags().Int("concurrency", defaultBatchConcurrency, "maximum number of modules instrumented at once")
	batchCmd.Flags().Bool("warnings-as-errors", false, "treat unsupported-skip warnings as errors")
}

func batchExecution(cmd *cobra.Command, args []string) error {
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	if err := applyColorMode(colorMode); err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	warnAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return err
	}
	if !warnAsErrors {
		warnAsErrors = resolveConfig().Symbolize.WarningsAsErrors
	}

	files, err := collectModuleFiles(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%s: no *.mir.msgpack files found", args[0])
	}

	opts := processOptions{
		maxDiagnostics: maxDiagnostics,
		warnAsErrors:   warnAsErrors,
		showTimings:    showTimings,
	}

	results := make([]*processResult, len(files))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			result, err := processModule(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	anyErrors := false
	for _, result := range results {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", result.path)
			printDiagnostics(cmd.OutOrStdout(), result.bag)
			fmt.Fprint(cmd.OutOrStdout(), result.report.String())
		}
		anyErrors = anyErrors || result.bag.HasErrors()
	}
	if anyErrors {
		return fmt.Errorf("one or more modules reported errors")
	}
	return nil
}

// collectModuleFiles returns every *.mir.msgpack file directly under dir,
// sorted for deterministic batch ordering regardless of directory-read
// order.
func collectModuleFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.mir.msgpack"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}
