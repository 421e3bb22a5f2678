package main

import "testing"

func TestApplyColorModeRejectsUnknown(t *testing.T) {
	if err := applyColorMode("sometimes"); err == nil {
		t.Fatalf("applyColorMode(sometimes): want error")
	}
}

func TestApplyColorModeAcceptsKnownValues(t *testing.T) {
	for _, mode := range []string{"on", "off", "auto", ""} {
		if err := applyColorMode(mode); err != nil {
			t.Fatalf("applyColorMode(%q): %v", mode, err)
		}
	}
}
