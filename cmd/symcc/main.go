// Package main implements the symcc CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"symcc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "symcc",
	Short: "Shadow-value instrumentation pass over typed SSA modules",
	Long:  `symcc rewrites a compiled module in place so every concrete value carries a parallel symbolic expression.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show per-function timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to collect")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
