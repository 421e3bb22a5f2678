package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <module.mir.msgpack>",
	Short: "Instrument a single module with shadow-value tracking",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecution,
}

func init() {
	runCmd.Flags().String("out", "", "output path (defaults to overwriting the input)")
	runCmd.Flags().Bool("ui", false, "show a live progress bar while instrumenting")
	runCmd.Flags().Bool("warnings-as-errors", false, "treat unsupported-skip warnings as errors")
}

func runExecution(cmd *cobra.Command, args []string) error {
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
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	useUI, err := cmd.Flags().GetBool("ui")
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

	opts := processOptions{
		maxDiagnostics: maxDiagnostics,
		warnAsErrors:   warnAsErrors,
		showTimings:    showTimings,
		useUI:          useUI,
		outPath:        outPath,
	}

	result, err := processModule(args[0], opts)
	if err != nil {
		return err
	}

	if !quiet {
		printDiagnostics(cmd.OutOrStdout(), result.bag)
		fmt.Fprint(cmd.OutOrStdout(), result.report.String())
	}
	if result.bag.HasErrors() {
		return fmt.Errorf("%s: instrumentation reported errors", args[0])
	}
	return nil
}
