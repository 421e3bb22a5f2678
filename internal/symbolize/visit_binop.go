package symbolize

import (
	"symcc/internal/diag"
	"symcc/internal/mir"
)

// visitBinOp implements "Binary op": σ(r) = R.binop_for(op)(σ(a), σ(b)).
func (b *Builder) visitBinOp(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	fn, ok := b.ABI.BinOps[in.BinOp.Op]
	if !ok {
		return at, &unsupportedError{code: diag.WarnUnknownInstruction, what: "binary op " + in.BinOp.Op.String()}
	}

	lhs, at, err := b.resolve(in.BinOp.Lhs, at)
	if err != nil {
		return at, err
	}
	rhs, at, err := b.resolve(in.BinOp.Rhs, at)
	if err != nil {
		return at, err
	}

	shadow, at := b.emitCall(at, fn, b.opaque(), lhs, rhs)
	b.cache[mir.ValueOperand(in.Dst, in.Type)] = shadow
	return at, nil
}

// visitICmp implements "Integer compare".
func (b *Builder) visitICmp(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	fn, ok := b.ABI.Cmps[in.ICmp.Pred]
	if !ok {
		return at, &unsupportedError{code: diag.WarnUnknownInstruction, what: "icmp predicate " + in.ICmp.Pred.String()}
	}

	lhs, at, err := b.resolve(in.ICmp.Lhs, at)
	if err != nil {
		return at, err
	}
	rhs, at, err := b.resolve(in.ICmp.Rhs, at)
	if err != nil {
		return at, err
	}

	shadow, at := b.emitCall(at, fn, b.opaque(), lhs, rhs)
	b.cache[mir.ValueOperand(in.Dst, in.Type)] = shadow
	return at, nil
}

// visitSelect implements "Select (ternary)": the condition is
// recorded as a path constraint even though select never branches, and the
// result shadow is a native select over the two σ-handles.
func (b *Builder) visitSelect(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	condShadow, at, err := b.resolve(in.Select.Cond, at)
	if err != nil {
		return at, err
	}
	at = b.emitVoidCall(at, b.ABI.PushPathConstraint, condShadow, in.Select.Cond)

	trueShadow, at, err := b.resolve(in.Select.IfTrue, at)
	if err != nil {
		return at, err
	}
	falseShadow, at, err := b.resolve(in.Select.IfFalse, at)
	if err != nil {
		return at, err
	}

	sel := mir.Instr{
		Kind: mir.InstrSelect,
		Dst:  b.Func.NewValue(b.opaque()),
		Type: b.opaque(),
		Select: mir.SelectInstr{
			Cond:    in.Select.Cond,
			IfTrue:  trueShadow,
			IfFalse: falseShadow,
		},
	}
	at = b.insert(at, sel)
	b.cache[mir.ValueOperand(in.Dst, in.Type)] = mir.ValueOperand(sel.Dst, b.opaque())
	return at, nil
}

// unsupportedError is returned by a visitor when an instruction falls into
// the "unsupported-skip" outcome: the driver catches
// this, reports a warning with Code, and leaves the result's shadow
// unresolved rather than aborting the whole pass.
type unsupportedError struct {
	code diag.Code
	what string
}

func (e *unsupportedError) Error() string { return "symbolize: unsupported " + e.what }

func (e *unsupportedError) Code() diag.Code { return e.code }
