package symbolize

import (
	"errors"
	"fmt"

	"symcc/internal/diag"
	"symcc/internal/mir"
	"symcc/internal/source"
	"symcc/internal/types"
)

// ErrUnsupportedValue is returned by resolve when a value falls through
// every resolve() rule: "emit a warning; the pass fails
// that value (assertion)". Callers are expected to report a diagnostic and
// abandon shadow propagation for whatever result depends on it.
var ErrUnsupportedValue = errors.New("symbolize: value has no shadow representation")

// Builder is the per-function Expression Builder E. One Builder is created
// per function and discarded afterward — its cache is the per-function
// shadow map σ, which lives only while that function is being rewritten.
type Builder struct {
	Module *mir.Module
	ABI    *ABI
	Shadow *ShadowTypeMapper
	Func   *mir.Func

	file source.FileID
	rep  diag.Reporter

	cache map[mir.Operand]mir.Operand

	// entryAt is the insertion cursor for hoisted integer constants: it
	// only ever advances forward through the entry
	// block, after any φ-prologue, so every hoisted constant lands before
	// the next and after the last (P4: exactly one call per constant, in
	// the entry block).
	entryAt mir.InsertPoint
}

// NewBuilder creates the Expression Builder for one function.
func NewBuilder(m *mir.Module, abi *ABI, shadow *ShadowTypeMapper, f *mir.Func, file source.FileID, rep diag.Reporter) *Builder {
	return &Builder{
		Module:  m,
		ABI:     abi,
		Shadow:  shadow,
		Func:    f,
		file:    file,
		rep:     rep,
		cache:   make(map[mir.Operand]mir.Operand, 16),
		entryAt: mir.AtEntryStart(f),
	}
}

// resolve implements the resolve(v, at) rules of , in order.
func (b *Builder) resolve(v mir.Operand, at mir.InsertPoint) (mir.Operand, mir.InsertPoint, error) {
	// Rule 1: cached.
	if shadow, ok := b.cache[v]; ok {
		return shadow, at, nil
	}

	switch {
	case v.Kind == mir.OperandConst && v.Const.Kind == mir.ConstInt:
		return b.resolveIntConst(v, at)

	case v.Kind == mir.OperandConst && v.Const.Kind == mir.ConstNullPtr:
		shadow, newAt := b.emitCall(at, b.ABI.BuildNullPointer, b.opaque())
		return shadow, newAt, nil

	case v.Kind == mir.OperandValue && b.isParam(v.Value):
		idx, _ := b.paramIndex(v.Value)
		shadow, newAt := b.emitCall(at, b.ABI.GetParameterExpr, b.opaque(), intArg(b, idx))
		b.cache[v] = shadow
		return shadow, newAt, nil

	case v.Kind == mir.OperandGlobalAddr:
		return b.resolveAddrConst(v, int64(v.Global), at)

	case v.Kind == mir.OperandFuncAddr:
		return b.resolveAddrConst(v, int64(v.Func), at)

	default:
		return mir.Operand{}, at, fmt.Errorf("%w: %+v", ErrUnsupportedValue, v)
	}
}

// resolveIntConst implements rule 2: hoist to the entry block, after any
// φ-prologue, cached — exactly one _sym_build_integer per constant per
// function (P4). If the caller's own insertion point is also in the entry
// block, the hoist lands strictly before it, so `at` is pushed forward by
// the number of instructions just inserted.
func (b *Builder) resolveIntConst(v mir.Operand, at mir.InsertPoint) (mir.Operand, mir.InsertPoint, error) {
	vArg := mir.ConstOperand(mir.IntConst(b.u64Type(), 64, v.Const.I64))
	bitsArg := mir.ConstOperand(mir.IntConst(b.u8Type(), 8, int64(v.Const.Bits)))

	before := b.entryAt.Index
	shadow, newEntryAt := b.emitCallRaw(b.entryAt, b.Func.Entry, b.ABI.BuildInteger, b.opaque(), []mir.Operand{vArg, bitsArg})
	inserted := newEntryAt.Index - before
	b.entryAt = newEntryAt
	b.cache[v] = shadow

	newAt := at
	if at.Block == b.Func.Entry && at.Index >= before {
		newAt.Index += inserted
	}
	return shadow, newAt, nil
}

// resolveAddrConst implements rule 5: a constant pointer to a global or
// function. Real link-time addresses are not known to this pass; the
// identity value fed to _sym_build_integer is the global/function's own
// ID, a deterministic stand-in the runtime is expected to treat opaquely.
func (b *Builder) resolveAddrConst(v mir.Operand, identity int64, at mir.InsertPoint) (mir.Operand, mir.InsertPoint, error) {
	ptrBits := b.Module.Layout.Target.PtrBits()
	idArg := mir.ConstOperand(mir.IntConst(b.ABI.PtrSizedInt, ptrBits, identity))
	bitsArg := mir.ConstOperand(mir.IntConst(b.u8Type(), 8, int64(ptrBits)))
	shadow, newAt := b.emitCall(at, b.ABI.BuildInteger, b.opaque(), idArg, bitsArg)
	b.cache[v] = shadow
	return shadow, newAt, nil
}

func (b *Builder) isParam(v mir.ValueID) bool {
	_, ok := b.paramIndex(v)
	return ok
}

func (b *Builder) paramIndex(v mir.ValueID) (int, bool) {
	for i, p := range b.Func.Params {
		if p.ID == v {
			return i, true
		}
	}
	return 0, false
}

func (b *Builder) opaque() types.TypeID  { return b.Module.Types.Builtins().Opaque }
func (b *Builder) u8Type() types.TypeID  { return b.Module.Types.Builtins().Int8 }
func (b *Builder) u64Type() types.TypeID { return b.Module.Types.Builtins().Int64 }
func (b *Builder) u1Type() types.TypeID  { return b.Module.Types.Builtins().Bool }

func intArg(b *Builder, i int) mir.Operand {
	return mir.ConstOperand(mir.IntConst(b.u8Type(), 8, int64(i)))
}

// emitCall inserts a Call instruction at ip invoking fn with args, and
// returns an Operand for its result plus the insertion point immediately
// after it (so a caller building several shadow instructions for the same
// conceptual site can keep chaining emitCall/emitBinOp calls in order).
func (b *Builder) emitCall(ip mir.InsertPoint, fn mir.FuncID, resultType types.TypeID, args ...mir.Operand) (mir.Operand, mir.InsertPoint) {
	return b.emitCallRaw(ip, ip.Block, fn, resultType, args)
}

func (b *Builder) emitCallRaw(ip mir.InsertPoint, block mir.BlockID, fn mir.FuncID, resultType types.TypeID, args []mir.Operand) (mir.Operand, mir.InsertPoint) {
	dst := b.Func.NewValue(resultType)
	in := mir.Instr{
		Kind: mir.InstrCall,
		Dst:  dst,
		Type: resultType,
		Call: mir.CallInstr{
			Target: mir.CallTarget{Kind: mir.CallDirect, Func: fn},
			Args:   args,
		},
	}
	newIP := b.insert(mir.InsertPoint{Block: block, Index: ip.Index}, in)
	return mir.ValueOperand(dst, resultType), newIP
}

// emitVoidCall inserts a call with no result, such as
// _sym_push_path_constraint or _sym_set_parameter_expression.
func (b *Builder) emitVoidCall(ip mir.InsertPoint, fn mir.FuncID, args ...mir.Operand) mir.InsertPoint {
	in := mir.Instr{
		Kind: mir.InstrCall,
		Dst:  mir.NoValueID,
		Call: mir.CallInstr{
			Target: mir.CallTarget{Kind: mir.CallDirect, Func: fn},
			Args:   args,
		},
	}
	return b.insert(ip, in)
}

// insert is the single choke point for every shadow instruction this
// builder creates.
func (b *Builder) insert(ip mir.InsertPoint, instrs ...mir.Instr) mir.InsertPoint {
	if len(instrs) == 0 {
		return ip
	}
	return b.Func.InsertBefore(ip, instrs...)
}

func (b *Builder) reportWarning(code diag.Code, at source.Span, msg string) {
	if b.rep == nil {
		return
	}
	b.rep.Report(code, diag.SevWarning, at, msg, nil)
}

func (b *Builder) reportFatal(code diag.Code, at source.Span, msg string) {
	if b.rep == nil {
		return
	}
	b.rep.Report(code, diag.SevError, at, msg, nil)
}

func (b *Builder) spanAt(blockID mir.BlockID, instrIdx int) source.Span {
	return source.Span{File: b.file, Func: b.Func.Name, Block: int32(blockID), Instr: int32(instrIdx)}
}
