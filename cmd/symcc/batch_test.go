package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCollectModuleFilesSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	names := []string{"b.mir.msgpack", "a.mir.msgpack", "notes.txt"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	got, err := collectModuleFiles(dir)
	if err != nil {
		t.Fatalf("collectModuleFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "a.mir.msgpack"), filepath.Join(dir, "b.mir.msgpack")}
	if len(got) != len(want) {
		t.Fatalf("collectModuleFiles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("collectModuleFiles[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
