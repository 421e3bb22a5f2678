package mir

import (
	"errors"
	"fmt"
)

// defSite records where a ValueID was defined, for the dominance check.
// Index is -1 for φ results (defined at the block's entry, before
// index 0 of Instrs) and the index within Instrs for ordinary results.
type defSite struct {
	Block BlockID
	Index int
}

// Validate checks every structural invariant the pass depends on:
//   - every block has exactly one terminator (already true by construction;
//     re-checked defensively since Validate also runs on decoded modules)
//   - every operand referencing a value is defined by a dominating
//     instruction/φ, or is a function parameter (P1)
//   - every φ has exactly one incoming value per predecessor block, no
//     more, no fewer, matching Preds exactly (P5)
//
// Errors are aggregated with errors.Join so a single run reports every
// violation found, not just the first.
func Validate(m *Module) error {
	var errs []error
	for i := range m.Funcs {
		if err := validateFunc(m, &m.Funcs[i]); err != nil {
			errs = append(errs, fmt.Errorf("func %s: %w", m.Funcs[i].Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(m *Module, f *Func) error {
	var errs []error

	defs := make(map[ValueID]defSite, f.NumValues())
	for _, p := range f.Params {
		defs[p.ID] = defSite{Block: NoBlockID, Index: -1}
	}
	for bi := range f.Blocks {
		b := &f.Blocks[bi]
		for _, in := range b.Phis {
			if in.HasResult() {
				defs[in.Dst] = defSite{Block: b.ID, Index: -1}
			}
		}
		for ii, in := range b.Instrs {
			if in.HasResult() {
				defs[in.Dst] = defSite{Block: b.ID, Index: ii}
			}
		}
	}

	for bi := range f.Blocks {
		b := &f.Blocks[bi]

		for _, in := range b.Phis {
			if in.Kind != InstrPhi {
				errs = append(errs, fmt.Errorf("block %d: non-phi instruction in phi prologue", b.ID))
				continue
			}
			if err := checkPhiArity(b, in); err != nil {
				errs = append(errs, err)
			}
			for _, inc := range in.Phi.Incoming {
				if err := checkOperandDominance(f, defs, inc.Value, b.ID, -1, inc.Block); err != nil {
					errs = append(errs, err)
				}
			}
		}

		for ii, in := range b.Instrs {
			for _, op := range operandsOf(in) {
				if err := checkOperandDominance(f, defs, op, b.ID, ii, NoBlockID); err != nil {
					errs = append(errs, err)
				}
			}
		}

		if b.Term.Kind == TermInvalid {
			errs = append(errs, fmt.Errorf("block %d: missing terminator", b.ID))
		}
		if b.Term.Kind == TermCondBr {
			if err := checkOperandDominance(f, defs, b.Term.Cond, b.ID, len(b.Instrs), NoBlockID); err != nil {
				errs = append(errs, err)
			}
		}
		if b.Term.Kind == TermRet && b.Term.HasValue {
			if err := checkOperandDominance(f, defs, b.Term.Value, b.ID, len(b.Instrs), NoBlockID); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// checkPhiArity enforces P5: a φ must have exactly one incoming value per
// predecessor, covering every predecessor exactly once.
func checkPhiArity(b *Block, phi Instr) error {
	seen := make(map[BlockID]int, len(phi.Phi.Incoming))
	for _, inc := range phi.Phi.Incoming {
		seen[inc.Block]++
	}
	for _, p := range b.Preds {
		switch seen[p] {
		case 0:
			return fmt.Errorf("block %d: phi missing incoming value for predecessor %d", b.ID, p)
		case 1:
		default:
			return fmt.Errorf("block %d: phi has %d incoming values for predecessor %d, want 1", b.ID, seen[p], p)
		}
		delete(seen, p)
	}
	for extra := range seen {
		return fmt.Errorf("block %d: phi has incoming value from %d, which is not a predecessor", b.ID, extra)
	}
	return nil
}

// checkOperandDominance enforces P1: if op references a Value, its
// definition must dominate the use. fromBlock is where the φ incoming edge
// is considered to originate (the predecessor block) when useBlock/-1
// represents a φ; otherwise fromBlock is NoBlockID and ordinary same-block
// ordering applies.
func checkOperandDominance(f *Func, defs map[ValueID]defSite, op Operand, useBlock BlockID, useIndex int, fromBlock BlockID) error {
	if op.Kind != OperandValue {
		return nil
	}
	def, ok := defs[op.Value]
	if !ok {
		return fmt.Errorf("block %d: use of undefined value %%%d", useBlock, op.Value)
	}
	if def.Index == -1 && def.Block == NoBlockID {
		return nil // function parameter, dominates everything
	}

	effectiveUseBlock := useBlock
	if fromBlock != NoBlockID {
		effectiveUseBlock = fromBlock
		useIndex = len(mustBlock(f, fromBlock).Instrs) // as if used at the end of the predecessor
	}

	if def.Block == effectiveUseBlock {
		if def.Index < useIndex {
			return nil
		}
		if def.Index == -1 {
			return nil // phi result, defined before any ordinary instruction in its own block
		}
		return fmt.Errorf("value %%%d used in block %d before its definition at index %d", op.Value, effectiveUseBlock, def.Index)
	}

	if f.StrictlyDominates(def.Block, effectiveUseBlock) {
		return nil
	}
	return fmt.Errorf("value %%%d defined in block %d does not dominate use in block %d", op.Value, def.Block, effectiveUseBlock)
}

func mustBlock(f *Func, id BlockID) *Block {
	if b := f.BlockByID(id); b != nil {
		return b
	}
	return &Block{}
}

// operandsOf returns every Operand an ordinary (non-φ) instruction reads.
func operandsOf(in Instr) []Operand {
	switch in.Kind {
	case InstrBinOp:
		return []Operand{in.BinOp.Lhs, in.BinOp.Rhs}
	case InstrICmp:
		return []Operand{in.ICmp.Lhs, in.ICmp.Rhs}
	case InstrSelect:
		return []Operand{in.Select.Cond, in.Select.IfTrue, in.Select.IfFalse}
	case InstrAlloca:
		return []Operand{in.Alloca.Count}
	case InstrLoad:
		return []Operand{in.Load.Ptr}
	case InstrStore:
		return []Operand{in.Store.Val, in.Store.Ptr}
	case InstrGEP:
		ops := []Operand{in.GEP.Base}
		for _, idx := range in.GEP.Indices {
			if idx.Kind == GEPElement {
				ops = append(ops, idx.Index)
			}
		}
		return ops
	case InstrBitCast:
		return []Operand{in.BitCast.Val}
	case InstrTrunc:
		return []Operand{in.Trunc.Val}
	case InstrSExt:
		return []Operand{in.SExt.Val}
	case InstrZExt:
		return []Operand{in.ZExt.Val}
	case InstrCall:
		ops := append([]Operand{}, in.Call.Args...)
		if in.Call.Target.Kind == CallIndirect {
			ops = append(ops, in.Call.Target.Value)
		}
		return ops
	case InstrUnknown:
		return in.Unknown.Operands
	default:
		return nil
	}
}
