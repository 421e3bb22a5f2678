package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, manifestName)
	data := `[symbolize]
warnings-as-errors = true
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write symbolize.toml: %v", err)
	}

	manifest, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !manifest.Config.Symbolize.WarningsAsErrors {
		t.Fatalf("WarningsAsErrors = false, want true")
	}
	if manifest.Config.Target.PtrBits != 64 {
		t.Fatalf("PtrBits = %d, want default 64", manifest.Config.Target.PtrBits)
	}
	if manifest.Config.Runtime.Prefix != "_sym_" {
		t.Fatalf("Prefix = %q, want default %q", manifest.Config.Runtime.Prefix, "_sym_")
	}
}

func TestLoadSearchesAncestors(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, manifestName), []byte("[target]\nptr-bits = 32\n"), 0o600); err != nil {
		t.Fatalf("write symbolize.toml: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	manifest, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if manifest.Config.Target.PtrBits != 32 {
		t.Fatalf("PtrBits = %d, want 32", manifest.Config.Target.PtrBits)
	}
	if manifest.Root != root {
		t.Fatalf("Root = %q, want %q", manifest.Root, root)
	}
}

func TestLoadNoManifest(t *testing.T) {
	root := t.TempDir()
	if _, err := Load(root); err != ErrNoManifest {
		t.Fatalf("Load: err = %v, want ErrNoManifest", err)
	}
}

func TestLoadRejectsBadPtrBits(t *testing.T) {
	root := t.TempDir()
	data := "[target]\nptr-bits = 16\n"
	if err := os.WriteFile(filepath.Join(root, manifestName), []byte(data), 0o600); err != nil {
		t.Fatalf("write symbolize.toml: %v", err)
	}
	if _, err := Load(root); err == nil {
		t.Fatalf("Load: want error for unsupported ptr-bits")
	}
}
