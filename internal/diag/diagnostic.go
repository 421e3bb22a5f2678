package diag

import "symcc/internal/source"

// Note attaches secondary context to a Diagnostic, e.g. "shadow producer
// required here" pointing at the dominating definition site.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding: an outcome of the pass (warning for
// an unsupported-skip construct, or a fatal abort) tied to the site in the
// module that produced it.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
