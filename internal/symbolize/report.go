package symbolize

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// String renders a human-readable summary of a run, with thousands
// separators on the counts — cosmetic for a handful of functions, but
// genuinely useful on a module large enough to produce four-digit counts.
func (r *Report) String() string {
	if r == nil {
		return "no report"
	}
	p := message.NewPrinter(language.English)
	var b strings.Builder
	p.Fprintf(&b, "%d function(s) instrumented, %d global(s) shadowed\n", r.FuncsVisited, r.GlobalsShadowed)
	if len(r.Timings.Phases) > 0 {
		for _, phase := range r.Timings.Phases {
			p.Fprintf(&b, "  %-20s %7.2f ms\n", phase.Name, phase.DurationMS)
		}
		p.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.Timings.TotalMS)
	}
	return b.String()
}
