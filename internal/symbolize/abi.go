// Package symbolize implements the instrumentation pass itself: Module Init
// registers the runtime ABI and shadow globals, and the expression builder
// walks each function inserting shadow computation: a fixed opcode-to-handler
// table built once, and a per-function visitor that mutates MIR in place, but
// every operation here is this pass's own — there is no direct
// analogue for a symbolic-shadow rewriter.
package symbolize

import (
	"symcc/internal/layout"
	"symcc/internal/mir"
	"symcc/internal/types"
)

// ABI holds the FuncIDs of every runtime function this pass may call,
// registered once per module by Module Init. These are
// declarations only — mir.Func values with no Blocks — never given a body,
// and the per-function pass never revisits them.
type ABI struct {
	BuildInteger      mir.FuncID
	BuildNullPointer  mir.FuncID
	BuildVariable     mir.FuncID // sentinel; recognized by name, not called by M
	BuildNeg          mir.FuncID
	BuildSExt         mir.FuncID
	BuildZExt         mir.FuncID
	BuildTrunc        mir.FuncID
	BinOps            map[mir.BinOp]mir.FuncID
	Cmps              map[mir.ICmpPred]mir.FuncID
	PushPathConstraint mir.FuncID
	SetParameterExpr  mir.FuncID
	GetParameterExpr  mir.FuncID
	SetReturnExpr     mir.FuncID
	GetReturnExpr     mir.FuncID
	InitializeArray8  mir.FuncID
	InitializeArray16 mir.FuncID
	InitializeArray32 mir.FuncID
	InitializeArray64 mir.FuncID
	Memcpy            mir.FuncID
	Initialize        mir.FuncID

	PtrSizedInt types.TypeID
}

// runtimeFuncPrefix is the reserved name prefix identifying instrumentation
// functions: any
// direct call whose callee name has this prefix, other than BuildVariable's
// name, is the pass's own output and is never re-instrumented.
const runtimeFuncPrefix = "_sym_"

// buildVariableName is the host-provided input-symbolizing sentinel that
// must be preserved and treated as an ordinary call site.
const buildVariableName = "_sym_build_variable"

// ctorName is the reserved name of the generated module constructor,
// itself excluded from instrumentation.
const ctorName = "__sym_ctor"

// registerRuntimeABI declares every R function on m and returns the table
// of their FuncIDs, reusing an existing declaration by name if the module
// already has one (idempotent — Symbolize can be handed a module that was
// partially instrumented and resumed).
func registerRuntimeABI(m *mir.Module) *ABI {
	b := m.Types.Builtins()
	ptr := b.Opaque
	u8 := b.Int8
	u64 := b.Int64
	u1 := b.Bool
	uptr := ptrSizedInt(m)
	void := types.NoTypeID

	a := &ABI{
		BinOps:      make(map[mir.BinOp]mir.FuncID, 12),
		Cmps:        make(map[mir.ICmpPred]mir.FuncID, 10),
		PtrSizedInt: uptr,
	}

	decl := func(name string, result types.TypeID, params ...types.TypeID) mir.FuncID {
		return declareExternal(m, name, result, params...)
	}

	a.BuildInteger = decl("_sym_build_integer", ptr, u64, u8)
	a.BuildNullPointer = decl("_sym_build_null_pointer", ptr)
	a.BuildVariable = decl(buildVariableName, ptr)
	a.BuildNeg = decl("_sym_build_neg", ptr, ptr)
	a.BuildSExt = decl("_sym_build_sext", ptr, ptr, u8)
	a.BuildZExt = decl("_sym_build_zext", ptr, ptr, u8)
	a.BuildTrunc = decl("_sym_build_trunc", ptr, ptr, u8)

	binNames := map[mir.BinOp]string{
		mir.BinAdd:  "_sym_build_add",
		mir.BinSub:  "_sym_build_sub",
		mir.BinMul:  "_sym_build_mul",
		mir.BinSDiv: "_sym_build_signed_div",
		mir.BinUDiv: "_sym_build_unsigned_div",
		mir.BinSRem: "_sym_build_signed_rem",
		mir.BinURem: "_sym_build_unsigned_rem",
		mir.BinShl:  "_sym_build_shift_left",
		mir.BinLShr: "_sym_build_logical_shift_right",
		mir.BinAShr: "_sym_build_arithmetic_shift_right",
		mir.BinAnd:  "_sym_build_and",
		mir.BinOr:   "_sym_build_or",
		mir.BinXor:  "_sym_build_xor",
	}
	for op, name := range binNames {
		a.BinOps[op] = decl(name, ptr, ptr, ptr)
	}

	cmpNames := map[mir.ICmpPred]string{
		mir.CmpEq:  "_sym_build_equal",
		mir.CmpNe:  "_sym_build_not_equal",
		mir.CmpSlt: "_sym_build_signed_less_than",
		mir.CmpSle: "_sym_build_signed_less_equal",
		mir.CmpSgt: "_sym_build_signed_greater_than",
		mir.CmpSge: "_sym_build_signed_greater_equal",
		mir.CmpUlt: "_sym_build_unsigned_less_than",
		mir.CmpUle: "_sym_build_unsigned_less_equal",
		mir.CmpUgt: "_sym_build_unsigned_greater_than",
		mir.CmpUge: "_sym_build_unsigned_greater_equal",
	}
	for pred, name := range cmpNames {
		a.Cmps[pred] = decl(name, ptr, ptr, ptr)
	}

	a.PushPathConstraint = decl("_sym_push_path_constraint", void, ptr, u1)
	a.SetParameterExpr = decl("_sym_set_parameter_expression", void, u8, ptr)
	a.GetParameterExpr = decl("_sym_get_parameter_expression", ptr, u8)
	a.SetReturnExpr = decl("_sym_set_return_expression", void, ptr)
	a.GetReturnExpr = decl("_sym_get_return_expression", ptr)

	arrPtr := m.Types.Intern(types.MakePointer(ptr))
	a.InitializeArray8 = decl("_sym_initialize_array_8", void, arrPtr, b.Ptr, u64)
	a.InitializeArray16 = decl("_sym_initialize_array_16", void, arrPtr, b.Ptr, u64)
	a.InitializeArray32 = decl("_sym_initialize_array_32", void, arrPtr, b.Ptr, u64)
	a.InitializeArray64 = decl("_sym_initialize_array_64", void, arrPtr, b.Ptr, u64)
	a.Memcpy = decl("_sym_memcpy", void, b.Ptr, b.Ptr, uptr)
	a.Initialize = decl("_sym_initialize", void)

	return a
}

func declareExternal(m *mir.Module, name string, result types.TypeID, params ...types.TypeID) mir.FuncID {
	if id, ok := m.FuncByName(name); ok {
		return id
	}
	ps := make([]mir.Param, len(params))
	for i, t := range params {
		ps[i] = mir.Param{ID: mir.ValueID(i), Type: t}
	}
	return m.AddFunc(mir.Func{Name: name, Params: ps, Result: result})
}

func ptrSizedInt(m *mir.Module) types.TypeID {
	tgt := layout.Target64
	if m.Layout != nil {
		tgt = m.Layout.Target
	}
	return m.Types.Intern(types.MakeInt(tgt.PtrBits()))
}

// arrayInitFor returns the ABI function for _sym_initialize_array_W given
// an element bit width, and whether that width is supported.
func (a *ABI) arrayInitFor(elemBits uint8) (mir.FuncID, bool) {
	switch elemBits {
	case 8:
		return a.InitializeArray8, true
	case 16:
		return a.InitializeArray16, true
	case 32:
		return a.InitializeArray32, true
	case 64:
		return a.InitializeArray64, true
	default:
		return mir.NoFuncID, false
	}
}
