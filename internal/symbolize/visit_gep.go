package symbolize

import (
	"symcc/internal/diag"
	"symcc/internal/mir"
)

// visitGEP implements "Address computation within an aggregate":
// expr starts as resolve(base), then each index step either adds a
// constant struct-field offset or, for an array/pointer element step,
// skips (the constant-zero fast path) or multiplies a resolved runtime
// index by the element's allocation size before adding.
func (b *Builder) visitGEP(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	ptrBits := b.Module.Layout.Target.PtrBits()
	ptrType := b.ABI.PtrSizedInt

	expr, at, err := b.resolve(in.GEP.Base, at)
	if err != nil {
		return at, err
	}

	for _, idx := range in.GEP.Indices {
		switch idx.Kind {
		case mir.GEPField:
			offset, err := b.Module.Layout.FieldOffset(idx.ElemType, idx.FieldIdx)
			if err != nil {
				return at, &unsupportedError{code: diag.WarnUnsupportedType, what: "gep field offset: " + err.Error()}
			}
			offConst := mir.ConstOperand(mir.IntConst(ptrType, ptrBits, int64(offset)))
			offShadow, newAt, err := b.resolve(offConst, at)
			if err != nil {
				return at, err
			}
			at = newAt
			expr, at = b.emitCall(at, b.ABI.BinOps[mir.BinAdd], b.opaque(), expr, offShadow)

		case mir.GEPElement:
			if n, ok := idx.Index.IsConstInt(); ok && n == 0 {
				continue
			}

			size, err := b.Module.Layout.SizeOf(idx.ElemType)
			if err != nil {
				return at, &unsupportedError{code: diag.WarnUnsupportedType, what: "gep element size: " + err.Error()}
			}
			sizeConst := mir.ConstOperand(mir.IntConst(ptrType, ptrBits, int64(size)))
			sizeShadow, newAt, err := b.resolve(sizeConst, at)
			if err != nil {
				return at, err
			}
			at = newAt

			idxShadow, newAt, err := b.resolve(idx.Index, at)
			if err != nil {
				return at, err
			}
			at = newAt

			offShadow, at2 := b.emitCall(at, b.ABI.BinOps[mir.BinMul], b.opaque(), idxShadow, sizeShadow)
			at = at2
			expr, at = b.emitCall(at, b.ABI.BinOps[mir.BinAdd], b.opaque(), expr, offShadow)

		default:
			return at, &unsupportedError{code: diag.WarnUnknownInstruction, what: "gep index kind"}
		}
	}

	b.cache[mir.ValueOperand(in.Dst, in.Type)] = expr
	return at, nil
}
