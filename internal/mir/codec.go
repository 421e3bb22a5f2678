package mir

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"symcc/internal/layout"
	"symcc/internal/types"
)

// wireModuleSchemaVersion guards the on-disk format; bump when Module's
// shape changes in a way old consumers can't decode.
const wireModuleSchemaVersion uint16 = 1

// wireModule is the msgpack wire shape for a Module. Unexported bookkeeping
// fields (name indexes, dominance trees, the dense value-type table) are
// never serialized — Decode recomputes them.
type wireModule struct {
	Schema uint16

	Name    string
	Funcs   []Func
	Globals []GlobalVar

	Target layout.Target
	Types  []types.Type
	// StructFields parallels struct TypeIDs in declaration order; the
	// struct registry itself is restored slot by slot with RestoreStructs
	// (not by calling RegisterStruct again), since TypeID assignment must
	// stay in lockstep with Types.
	StructNames  []string
	StructFields [][]types.StructField
}

// Encode serializes m to w in the module interchange format — the format
// a batch-mode run persists between the instrumentation pass and whatever
// consumes its output.
func Encode(w io.Writer, m *Module) error {
	wm := wireModule{
		Schema:  wireModuleSchemaVersion,
		Name:    m.Name,
		Funcs:   m.Funcs,
		Globals: m.Globals,
	}
	if m.Layout != nil {
		wm.Target = m.Layout.Target
	}
	if m.Types != nil {
		wm.Types = m.Types.AllTypes()
		wm.StructNames, wm.StructFields = m.Types.AllStructs()
	}
	return msgpack.NewEncoder(w).Encode(&wm)
}

// Decode reads a Module previously written by Encode and rebuilds its
// derived state (name indexes, per-function value tables, dominance).
func Decode(r io.Reader) (*Module, error) {
	var wm wireModule
	if err := msgpack.NewDecoder(r).Decode(&wm); err != nil {
		return nil, fmt.Errorf("mir: decode module: %w", err)
	}
	if wm.Schema != wireModuleSchemaVersion {
		return nil, fmt.Errorf("mir: unsupported module schema %d (want %d)", wm.Schema, wireModuleSchemaVersion)
	}

	in := types.NewInterner()
	in.RestoreTypes(wm.Types)
	in.RestoreStructs(wm.StructNames, wm.StructFields)

	lay := layout.New(wm.Target, in)

	m := &Module{
		Name:    wm.Name,
		Funcs:   wm.Funcs,
		Globals: wm.Globals,
		Types:   in,
		Layout:  lay,
	}
	m.reindex()
	for i := range m.Funcs {
		m.Funcs[i].rebuildValueTypes(in)
		m.Funcs[i].Finalize()
	}
	return m, nil
}
