package mir

import "symcc/internal/types"

// BinOp enumerates the integer arithmetic/bitwise opcodes the expression
// builder maps to _sym_build_* runtime calls.
type BinOp uint8

const (
	BinInvalid BinOp = iota
	BinAdd
	BinSub
	BinMul
	BinSDiv
	BinUDiv
	BinSRem
	BinURem
	BinAnd
	BinOr
	BinXor
	BinShl
	BinLShr
	BinAShr
)

func (op BinOp) String() string {
	switch op {
	case BinAdd:
		return "add"
	case BinSub:
		return "sub"
	case BinMul:
		return "mul"
	case BinSDiv:
		return "sdiv"
	case BinUDiv:
		return "udiv"
	case BinSRem:
		return "srem"
	case BinURem:
		return "urem"
	case BinAnd:
		return "and"
	case BinOr:
		return "or"
	case BinXor:
		return "xor"
	case BinShl:
		return "shl"
	case BinLShr:
		return "lshr"
	case BinAShr:
		return "ashr"
	default:
		return "invalid"
	}
}

// ICmpPred enumerates integer comparison predicates.
type ICmpPred uint8

const (
	CmpInvalid ICmpPred = iota
	CmpEq
	CmpNe
	CmpSlt
	CmpSle
	CmpSgt
	CmpSge
	CmpUlt
	CmpUle
	CmpUgt
	CmpUge
)

func (p ICmpPred) String() string {
	switch p {
	case CmpEq:
		return "eq"
	case CmpNe:
		return "ne"
	case CmpSlt:
		return "slt"
	case CmpSle:
		return "sle"
	case CmpSgt:
		return "sgt"
	case CmpSge:
		return "sge"
	case CmpUlt:
		return "ult"
	case CmpUle:
		return "ule"
	case CmpUgt:
		return "ugt"
	case CmpUge:
		return "uge"
	default:
		return "invalid"
	}
}

// InstrKind tags which variant field of Instr is populated.
type InstrKind uint8

const (
	InstrInvalid InstrKind = iota
	InstrBinOp
	InstrICmp
	InstrSelect
	InstrAlloca
	InstrLoad
	InstrStore
	InstrGEP
	InstrBitCast
	InstrTrunc
	InstrSExt
	InstrZExt
	InstrPhi
	InstrCall
	InstrUnknown
)

func (k InstrKind) String() string {
	switch k {
	case InstrBinOp:
		return "binop"
	case InstrICmp:
		return "icmp"
	case InstrSelect:
		return "select"
	case InstrAlloca:
		return "alloca"
	case InstrLoad:
		return "load"
	case InstrStore:
		return "store"
	case InstrGEP:
		return "gep"
	case InstrBitCast:
		return "bitcast"
	case InstrTrunc:
		return "trunc"
	case InstrSExt:
		return "sext"
	case InstrZExt:
		return "zext"
	case InstrPhi:
		return "phi"
	case InstrCall:
		return "call"
	case InstrUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// GEPIndexKind discriminates a GEP step into a struct field (constant,
// known at pass time) or an array/pointer element (a runtime index).
type GEPIndexKind uint8

const (
	GEPField GEPIndexKind = iota
	GEPElement
)

// GEPIndex is one step of a getelementptr chain.
type GEPIndex struct {
	Kind GEPIndexKind

	FieldIdx int     // GEPField
	Index    Operand // GEPElement
	ElemType types.TypeID // the type being indexed into at this step
}

// CallKind distinguishes a direct call to a known function, an indirect
// call through a function-pointer value, or a call to a compiler
// intrinsic (memcpy family, lifetime markers) — call-site
// dispatch and the indirect-call/non-memcpy-intrinsic Non-goals both key
// off this.
type CallKind uint8

const (
	CallDirect CallKind = iota
	CallIndirect
	CallIntrinsic
)

// CallTarget identifies what a Call instruction invokes.
type CallTarget struct {
	Kind CallKind

	Func  FuncID  // CallDirect
	Value Operand // CallIndirect: the function-pointer operand
	Name  string  // CallIntrinsic: e.g. "memcpy", "lifetime.start"
}

// PhiIncoming is one (predecessor block, value) pair of a φ-node.
type PhiIncoming struct {
	Block BlockID
	Value Operand
}

// Instr is a single MIR instruction. Exactly one of the variant fields is
// meaningful, selected by Kind.
type Instr struct {
	Kind InstrKind

	// Dst is the ValueID this instruction defines, or NoValueID for
	// instructions with no result (Store, void Call).
	Dst ValueID
	// Type is the type of Dst; zero value when Dst is NoValueID.
	Type types.TypeID

	BinOp   BinOpInstr
	ICmp    ICmpInstr
	Select  SelectInstr
	Alloca  AllocaInstr
	Load    LoadInstr
	Store   StoreInstr
	GEP     GEPInstr
	BitCast CastInstr
	Trunc   CastInstr
	SExt    CastInstr
	ZExt    CastInstr
	Phi     PhiInstr
	Call    CallInstr
	Unknown UnknownInstr
}

type BinOpInstr struct {
	Op       BinOp
	Lhs, Rhs Operand
}

type ICmpInstr struct {
	Pred     ICmpPred
	Lhs, Rhs Operand
}

type SelectInstr struct {
	Cond, IfTrue, IfFalse Operand
}

// AllocaInstr reserves stack space for one value of ElemType, Count times.
// Count is an Operand (not a bare int) so the builder can recognize the
// common constant-1 case from the non-constant/array case.
type AllocaInstr struct {
	ElemType types.TypeID
	Count    Operand
}

type LoadInstr struct {
	Ptr Operand
}

type StoreInstr struct {
	Val, Ptr Operand
}

// GEPInstr computes an address from a Base pointer plus a chain of field
// and element steps, exactly as LLVM's getelementptr — one of the
// instructions this pass rewrites most heavily.
type GEPInstr struct {
	Base    Operand
	Indices []GEPIndex
}

// CastInstr covers BitCast/Trunc/SExt/ZExt; ToBits is meaningful for the
// integer-width-changing casts.
type CastInstr struct {
	Val    Operand
	ToBits uint8
}

type PhiInstr struct {
	Incoming []PhiIncoming
}

type CallInstr struct {
	Target CallTarget
	Args   []Operand
}

// UnknownInstr is an opaque passthrough for any host-IR opcode the pass
// does not model — kept
// distinct from InstrInvalid, which never appears in a valid module.
type UnknownInstr struct {
	Mnemonic string
	Operands []Operand
}

// HasResult reports whether the instruction defines a value.
func (in Instr) HasResult() bool {
	return in.Dst != NoValueID
}
