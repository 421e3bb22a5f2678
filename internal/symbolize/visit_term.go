package symbolize

import "symcc/internal/mir"

// visitTerminator implements "Conditional branch" and "Return".
// Unconditional branches and Unreachable need no shadow code.
// Insertion happens at the block's end (just before the terminator, which
// never moves), using the `at` threaded in from the block's last ordinary
// instruction.
func (b *Builder) visitTerminator(blk *mir.Block, at mir.InsertPoint) error {
	switch blk.Term.Kind {
	case mir.TermCondBr:
		condShadow, newAt, err := b.resolve(blk.Term.Cond, at)
		if err != nil {
			return err
		}
		b.emitVoidCall(newAt, b.ABI.PushPathConstraint, condShadow, blk.Term.Cond)
		return nil

	case mir.TermRet:
		if !blk.Term.HasValue {
			return nil
		}
		retShadow, newAt, err := b.resolve(blk.Term.Value, at)
		if err != nil {
			return err
		}
		b.emitVoidCall(newAt, b.ABI.SetReturnExpr, retShadow)
		return nil

	default:
		return nil
	}
}
