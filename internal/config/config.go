// Package config loads symbolize.toml, the project-level settings file the
// CLI reads before running the pass. It carries whether warnings should be
// treated as errors, an emit-mir switch, the target pointer width, and a
// runtime call-name prefix. The CLI reads only warnings-as-errors; emit-mir,
// ptr-bits and prefix are parsed and validated here but not read by the CLI
// or the pass, whose runtime prefix is the fixed "_sym_".
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "symbolize.toml"

const noManifestMessage = "no symbolize.toml found\n" +
	"please specify the module explicitly, e.g.:\n" +
	"  symcc run path/to/module.mir.msgpack"

// ErrNoManifest is returned by Load when no symbolize.toml is found between
// startDir and the filesystem root.
var ErrNoManifest = errors.New(noManifestMessage)

// Config is the decoded shape of symbolize.toml: its [symbolize], [target]
// and [runtime] tables.
type Config struct {
	Symbolize SymbolizeConfig `toml:"symbolize"`
	Target    TargetConfig    `toml:"target"`
	Runtime   RuntimeConfig   `toml:"runtime"`
}

type SymbolizeConfig struct {
	WarningsAsErrors bool `toml:"warnings-as-errors"`
	EmitMIR          bool `toml:"emit-mir"`
}

type TargetConfig struct {
	PtrBits uint8 `toml:"ptr-bits"`
}

type RuntimeConfig struct {
	Prefix string `toml:"prefix"`
}

// Default returns the configuration a run uses when no symbolize.toml is
// present and the caller chose to proceed anyway (e.g. `symcc run` given an
// explicit module path).
func Default() Config {
	return Config{
		Target:  TargetConfig{PtrBits: 64},
		Runtime: RuntimeConfig{Prefix: "_sym_"},
	}
}

// Manifest is a located and decoded symbolize.toml, along with the
// directory it was found in — config-relative paths (none yet, but any
// future ones) resolve against Root.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Find searches startDir and each of its ancestors for symbolize.toml,
// the same upward-search shape a per-project manifest lookup uses.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load searches startDir upward for symbolize.toml and decodes it, applying
// Default() for any table or field the file omits.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	cfg, err := decode(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

func decode(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("runtime", "prefix") && strings.TrimSpace(cfg.Runtime.Prefix) == "" {
		return Config{}, fmt.Errorf("%s: [runtime].prefix must not be blank", path)
	}
	if cfg.Target.PtrBits != 32 && cfg.Target.PtrBits != 64 {
		return Config{}, fmt.Errorf("%s: [target].ptr-bits must be 32 or 64, got %d", path, cfg.Target.PtrBits)
	}
	return cfg, nil
}
