// Package diag defines the diagnostic model shared by the symbolizer pass
// and its CLI.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     outcomes from the pass's error-handling design: warnings for
//     constructs the pass leaves unshadowed, and fatal aborts.
//   - Offer light-weight utilities (Reporter, Bag) that let the builder and
//     module-init stages emit diagnostics without coupling to a concrete
//     output format.
//
// # Scope
//
// Package diag performs no formatting or CLI integration; rendering lives in
// cmd/symcc. It has no notion of automated fixes — a warning here always
// means "shadow left unset", never "here's how to patch the input".
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, or Error.
//   - Code – compact numeric identifier (codes.go) with a stable string form.
//   - Message – short, actionable text.
//   - Primary – the source.Span (function/block/instruction) of the finding.
//   - Notes – optional secondary spans/messages for extra context.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter to decouple emission from storage: build via
// diag.ReportWarning/ReportError and chain WithNote before calling Emit, or
// call Reporter.Report directly for simple cases. diag.BagReporter collects
// diagnostics into a Bag, which supports sorting and deduplication for
// deterministic output (property P2).
package diag
