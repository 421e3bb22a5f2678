// Package testkit holds invariant checkers shared by the module's test
// files: assertions that walk a MIR module or function looking for a
// specific structural property, returning a descriptive error rather than
// failing a *testing.T directly, so callers can wrap them with t.Fatalf.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"symcc/internal/mir"
)

// CheckPhiArity re-derives, independently of mir.Validate, that every φ in
// f has exactly one incoming value per predecessor block. f.Finalize must
// already have run so Preds is populated.
func CheckPhiArity(f *mir.Func) error {
	for bi := range f.Blocks {
		b := &f.Blocks[bi]
		for _, phi := range b.Phis {
			seen := make(map[mir.BlockID]int, len(phi.Phi.Incoming))
			for _, inc := range phi.Phi.Incoming {
				seen[inc.Block]++
			}
			for _, p := range b.Preds {
				switch seen[p] {
				case 1:
					delete(seen, p)
				case 0:
					return fmt.Errorf("block %d: phi missing incoming for predecessor %d", b.ID, p)
				default:
					return fmt.Errorf("block %d: phi has %d incoming values for predecessor %d", b.ID, seen[p], p)
				}
			}
			for extra := range seen {
				return fmt.Errorf("block %d: phi incoming from %d, which is not a predecessor", b.ID, extra)
			}
		}
	}
	return nil
}

// CheckDominance runs the module's full structural validation (dominance
// and phi-arity together) and returns mir.Validate's error, which joins
// every violation it found; it then uses safecast to check that each
// function's block count fits in an int32.
func CheckDominance(m *mir.Module) error {
	if err := mir.Validate(m); err != nil {
		return err
	}
	for i := range m.Funcs {
		f := &m.Funcs[i]
		n, err := safecast.Conv[int32](len(f.Blocks))
		if err != nil {
			return fmt.Errorf("func %s: block count overflow: %w", f.Name, err)
		}
		if n < 0 {
			return fmt.Errorf("func %s: negative block count", f.Name)
		}
	}
	return nil
}

// CheckConstantHoisting asserts invariant P4: within f, every call to
// buildInteger sits in the entry block, before any non-buildInteger call,
// and no two calls build the same (value, bits) pair — resolve()'s cache
// is supposed to prevent that duplication entirely.
func CheckConstantHoisting(f *mir.Func, buildInteger mir.FuncID) error {
	entry := f.BlockByID(f.Entry)
	if entry == nil {
		return fmt.Errorf("func %s: entry block %d not found", f.Name, f.Entry)
	}

	seenPairs := make(map[[2]int64]bool)
	sawOtherCall := false
	for i, in := range entry.Instrs {
		if in.Kind != mir.InstrCall {
			continue
		}
		if in.Call.Target.Kind != mir.CallDirect || in.Call.Target.Func != buildInteger {
			sawOtherCall = true
			continue
		}
		if sawOtherCall {
			return fmt.Errorf("func %s: build_integer call at instr %d follows a non-build_integer call in entry", f.Name, i)
		}
		if len(in.Call.Args) != 2 {
			return fmt.Errorf("func %s: build_integer call at instr %d has %d args, want 2", f.Name, i, len(in.Call.Args))
		}
		v, okV := in.Call.Args[0].IsConstInt()
		bits, okB := in.Call.Args[1].IsConstInt()
		if !okV || !okB {
			continue
		}
		key := [2]int64{v, bits}
		if seenPairs[key] {
			return fmt.Errorf("func %s: value %d (bits=%d) hoisted more than once", f.Name, v, bits)
		}
		seenPairs[key] = true
	}

	for bi := range f.Blocks {
		if f.Blocks[bi].ID == f.Entry {
			continue
		}
		for i, in := range f.Blocks[bi].Instrs {
			if in.Kind == mir.InstrCall && in.Call.Target.Kind == mir.CallDirect && in.Call.Target.Func == buildInteger {
				return fmt.Errorf("func %s: build_integer call at block %d instr %d outside entry block", f.Name, f.Blocks[bi].ID, i)
			}
		}
	}
	return nil
}
