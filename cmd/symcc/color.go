package main

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"symcc/internal/diag"
)

var (
	severityError   = color.New(color.FgRed, color.Bold)
	severityWarning = color.New(color.FgYellow, color.Bold)
	severityInfo    = color.New(color.FgCyan)
)

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// applyColorMode sets the package-wide color.NoColor switch from the
// --color flag value (auto|on|off), the same three-way knob the root
// command exposes for every subcommand.
func applyColorMode(mode string) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return errUnsupportedColorMode(mode)
	}
	return nil
}

func errUnsupportedColorMode(mode string) error {
	return &unsupportedColorModeError{mode: mode}
}

type unsupportedColorModeError struct{ mode string }

func (e *unsupportedColorModeError) Error() string {
	return "unsupported --color value " + e.mode + " (must be auto, on, or off)"
}

// severityLabel renders sev as a colorized short tag for diagnostic lines.
func severityLabel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return severityError.Sprint(sev.String())
	case diag.SevWarning:
		return severityWarning.Sprint(sev.String())
	default:
		return severityInfo.Sprint(sev.String())
	}
}
