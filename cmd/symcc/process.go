package main

import (
	"fmt"
	"io"
	"os"

	"symcc/internal/config"
	"symcc/internal/diag"
	"symcc/internal/mir"
	"symcc/internal/observ"
	"symcc/internal/symbolize"
	"symcc/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// processOptions carries the flags every module-processing path (run,
// batch) resolves the same way.
type processOptions struct {
	maxDiagnostics int
	warnAsErrors   bool
	showTimings    bool
	useUI          bool
	outPath        string
}

// processResult is what one module run produced, for the caller to print
// or fold into a batch summary.
type processResult struct {
	path   string
	report *symbolize.Report
	bag    *diag.Bag
}

// loadModule decodes a module from path.
func loadModule(path string) (*mir.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	m, err := mir.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}

// saveModule re-encodes m to outPath, creating it if necessary.
func saveModule(m *mir.Module, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()
	if err := mir.Encode(f, m); err != nil {
		return fmt.Errorf("encode %s: %w", outPath, err)
	}
	return nil
}

// resolveConfig loads symbolize.toml starting from cwd, falling back to
// config.Default() when none is found — running against an explicitly
// named module file should not require a manifest.
func resolveConfig() config.Config {
	manifest, err := config.Load(".")
	if err != nil {
		return config.Default()
	}
	return manifest.Config
}

// processModule runs Symbolize over the module at path and writes the
// result to opts.outPath, returning the report and collected diagnostics.
func processModule(path string, opts processOptions) (*processResult, error) {
	m, err := loadModule(path)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.maxDiagnostics)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	var timer *observ.Timer
	if opts.showTimings {
		timer = observ.NewTimer()
	}

	var report *symbolize.Report
	if opts.useUI {
		report = runWithUI(m, rep, timer, path)
	} else {
		report = symbolize.SymbolizeOpts(m, rep, symbolize.Options{Timer: timer})
	}

	if opts.warnAsErrors {
		bag.PromoteWarnings()
	}

	outPath := opts.outPath
	if outPath == "" {
		outPath = path
	}
	if err := saveModule(m, outPath); err != nil {
		return nil, err
	}

	return &processResult{path: path, report: report, bag: bag}, nil
}

// runWithUI drives Symbolize behind a live progress bar: the pass runs in
// its own goroutine and feeds per-function events over a channel to a
// bubbletea program.
func runWithUI(m *mir.Module, rep diag.Reporter, timer *observ.Timer, title string) *symbolize.Report {
	funcs := make([]string, 0, len(m.Funcs))
	for i := range m.Funcs {
		if len(m.Funcs[i].Blocks) > 0 {
			funcs = append(funcs, m.Funcs[i].Name)
		}
	}

	events := make(chan symbolize.Event, 256)
	reportCh := make(chan *symbolize.Report, 1)

	go func() {
		reportCh <- symbolize.SymbolizeOpts(m, rep, symbolize.Options{Events: events, Timer: timer})
		close(events)
	}()

	model := ui.NewProgressModel(title, funcs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "progress UI: %v\n", err)
	}
	return <-reportCh
}

// printDiagnostics writes one line per diagnostic in bag to w, colorized by
// severity when color is enabled.
func printDiagnostics(w io.Writer, bag *diag.Bag) {
	bag.Sort()
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s: %s [%s]\n", severityLabel(d.Severity), d.Primary.String(), d.Message, d.Code.String())
	}
}
