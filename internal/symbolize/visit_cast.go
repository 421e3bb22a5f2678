package symbolize

import (
	"symcc/internal/mir"
	"symcc/internal/types"
)

// visitBitCast implements "Bit-cast": pointer-to-pointer only,
// shadow is identity. A non-pointer bitcast reaching here is an
// implementation invariant violation, not a diagnosable condition.
func (b *Builder) visitBitCast(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	srcType, ok := b.Module.Types.Lookup(in.BitCast.Val.Type)
	if !ok || srcType.Kind != types.KindPointer {
		panic("symbolize: bitcast operand is not a pointer")
	}
	dstType, ok := b.Module.Types.Lookup(in.Type)
	if !ok || dstType.Kind != types.KindPointer {
		panic("symbolize: bitcast result is not a pointer")
	}

	shadow, at, err := b.resolve(in.BitCast.Val, at)
	if err != nil {
		return at, err
	}
	b.cache[mir.ValueOperand(in.Dst, in.Type)] = shadow
	return at, nil
}

// visitTrunc implements "Truncate".
func (b *Builder) visitTrunc(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	src, at, err := b.resolve(in.Trunc.Val, at)
	if err != nil {
		return at, err
	}
	widthArg := mir.ConstOperand(mir.IntConst(b.u8Type(), 8, int64(in.Trunc.ToBits)))
	shadow, at := b.emitCall(at, b.ABI.BuildTrunc, b.opaque(), src, widthArg)
	b.cache[mir.ValueOperand(in.Dst, in.Type)] = shadow
	return at, nil
}

// visitSExt/visitZExt implement "Sign/Zero extend": a Boolean
// source (width 1) has its shadow passed through untouched — the solver
// has no bit-vector representation narrower than its Boolean sort, so
// there is nothing to extend.
func (b *Builder) visitSExt(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	return b.visitExt(in, at, in.SExt.Val, in.SExt.ToBits, b.ABI.BuildSExt)
}

func (b *Builder) visitZExt(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	return b.visitExt(in, at, in.ZExt.Val, in.ZExt.ToBits, b.ABI.BuildZExt)
}

func (b *Builder) visitExt(in mir.Instr, at mir.InsertPoint, val mir.Operand, toBits uint8, extFn mir.FuncID) (mir.InsertPoint, error) {
	src, at, err := b.resolve(val, at)
	if err != nil {
		return at, err
	}

	srcType, ok := b.Module.Types.Lookup(val.Type)
	if ok && srcType.Kind == types.KindInt && srcType.Bits == 1 {
		b.cache[mir.ValueOperand(in.Dst, in.Type)] = src
		return at, nil
	}

	srcBits := uint8(0)
	if ok {
		srcBits = srcType.Bits
	}
	addedArg := mir.ConstOperand(mir.IntConst(b.u8Type(), 8, int64(toBits)-int64(srcBits)))
	shadow, at := b.emitCall(at, extFn, b.opaque(), src, addedArg)
	b.cache[mir.ValueOperand(in.Dst, in.Type)] = shadow
	return at, nil
}
