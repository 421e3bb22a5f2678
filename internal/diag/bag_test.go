package diag

import (
	"testing"

	"symcc/internal/source"
)

func TestBagPromoteWarnings(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevWarning, Code: WarnStackArray, Primary: source.Span{Func: "f"}})
	bag.Add(Diagnostic{Severity: SevInfo, Code: UnknownCode, Primary: source.Span{Func: "f"}})

	if bag.HasErrors() {
		t.Fatalf("HasErrors = true before promotion")
	}

	bag.PromoteWarnings()

	if !bag.HasErrors() {
		t.Fatalf("HasErrors = false after PromoteWarnings")
	}
	items := bag.Items()
	if items[0].Severity != SevError {
		t.Fatalf("items[0].Severity = %v, want SevError", items[0].Severity)
	}
	if items[1].Severity != SevInfo {
		t.Fatalf("items[1].Severity = %v, want unchanged SevInfo", items[1].Severity)
	}
}
