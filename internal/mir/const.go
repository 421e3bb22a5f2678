package mir

import "symcc/internal/types"

// ConstKind discriminates the literal kinds the pass needs to recognize
// structurally — integer constants get cached-and-hoisted shadow building
//; null pointers are explicitly excluded from
// that cache and built fresh at every use site.
type ConstKind uint8

const (
	ConstInvalid ConstKind = iota
	ConstInt
	ConstNullPtr
	ConstUndef
)

// Const is an immediate value embedded directly at a use site. Constants
// are not ValueIDs: LLVM uniques ConstantInt/ConstantPointerNull objects at
// the context level, so two textually-identical constants used in the same
// function are the same Value and must resolve to the same cached shadow;
// Const's field equality stands in for that uniquing when used as a
// resolve() cache key (see builder.go).
type Const struct {
	Kind ConstKind
	Type types.TypeID

	Bits uint8 // width in bits, for ConstInt
	I64  int64 // sign-extended payload, for ConstInt
}

func IntConst(t types.TypeID, bits uint8, v int64) Const {
	return Const{Kind: ConstInt, Type: t, Bits: bits, I64: v}
}

func NullPtrConst(t types.TypeID) Const {
	return Const{Kind: ConstNullPtr, Type: t}
}

func UndefConst(t types.TypeID) Const {
	return Const{Kind: ConstUndef, Type: t}
}
