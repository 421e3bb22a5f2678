package symbolize

import (
	"testing"

	"symcc/internal/diag"
	"symcc/internal/layout"
	"symcc/internal/mir"
	"symcc/internal/source"
	"symcc/internal/testkit"
	"symcc/internal/types"
)

// buildAddOne builds:
//
//	define i32 @addOne(i32 %p):
//	bb0: %0 = add %p, i32 1
//	     %1 = add %0, i32 1
//	     ret %1
//
// The repeated "i32 1" constant exercises resolve()'s caching rule: both
// uses must share one hoisted _sym_build_integer call.
func buildAddOne(t *testing.T) (*mir.Module, *mir.Func) {
	t.Helper()
	in := types.NewInterner()
	i32 := in.Intern(types.MakeInt(32))
	lay := layout.New(layout.Target64, in)
	m := mir.NewModule("addone", in, lay)

	f := mir.Func{Name: "addOne", Result: i32}
	p0 := f.NewValue(i32)
	f.Params = []mir.Param{{ID: p0, Type: i32}}
	f.Blocks = []mir.Block{{ID: 0}}
	f.Entry = 0

	one := mir.ConstOperand(mir.IntConst(i32, 32, 1))
	a0 := f.NewValue(i32)
	a1 := f.NewValue(i32)
	f.Blocks[0].Instrs = []mir.Instr{
		{Kind: mir.InstrBinOp, Dst: a0, Type: i32, BinOp: mir.BinOpInstr{Op: mir.BinAdd, Lhs: mir.ValueOperand(p0, i32), Rhs: one}},
		{Kind: mir.InstrBinOp, Dst: a1, Type: i32, BinOp: mir.BinOpInstr{Op: mir.BinAdd, Lhs: mir.ValueOperand(a0, i32), Rhs: one}},
	}
	f.Blocks[0].Term = mir.RetValue(mir.ValueOperand(a1, i32))
	f.Finalize()

	m.AddFunc(f)
	return m, m.Func(0)
}

func countCalls(f *mir.Func, target mir.FuncID) int {
	n := 0
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			if in.Kind == mir.InstrCall && in.Call.Target.Kind == mir.CallDirect && in.Call.Target.Func == target {
				n++
			}
		}
	}
	return n
}

func TestRunFuncHoistsAndCachesIntegerConstant(t *testing.T) {
	m, f := buildAddOne(t)
	abi := registerRuntimeABI(m)
	shadow := NewShadowTypeMapper(m.Types)

	RunFunc(m, abi, shadow, f, source.FileID(0), nil)

	if got := countCalls(f, abi.BuildInteger); got != 1 {
		t.Fatalf("_sym_build_integer calls = %d, want 1 (the repeated constant must be cached)", got)
	}
	if got := countCalls(f, abi.BinOps[mir.BinAdd]); got != 2 {
		t.Fatalf("_sym_build_add calls = %d, want 2", got)
	}
	if got := countCalls(f, abi.GetParameterExpr); got != 1 {
		t.Fatalf("_sym_get_parameter_expression calls = %d, want 1", got)
	}

	if err := testkit.CheckDominance(m); err != nil {
		t.Fatalf("CheckDominance: %v", err)
	}
}

func TestRunFuncBuildIntegerHoistedToEntry(t *testing.T) {
	m, f := buildAddOne(t)
	abi := registerRuntimeABI(m)
	shadow := NewShadowTypeMapper(m.Types)
	RunFunc(m, abi, shadow, f, source.FileID(0), nil)

	if err := testkit.CheckConstantHoisting(f, abi.BuildInteger); err != nil {
		t.Fatalf("CheckConstantHoisting: %v", err)
	}

	for i, in := range f.Blocks[f.Entry].Instrs {
		if in.Kind == mir.InstrCall && in.Call.Target.Func == abi.BuildInteger {
			if i != 0 {
				t.Fatalf("_sym_build_integer call at index %d, want 0 (entry-block hoist, before any other shadow code)", i)
			}
			return
		}
	}
	t.Fatalf("no _sym_build_integer call found")
}

// collectingReporter records every diagnostic it receives.
type collectingReporter struct {
	codes []diag.Code
}

func (r *collectingReporter) Report(code diag.Code, _ diag.Severity, _ source.Span, _ string, _ []diag.Note) {
	r.codes = append(r.codes, code)
}

func TestRunFuncWarnsOnNonUnitAlloca(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Intern(types.MakeInt(32))
	ptrI32 := in.Intern(types.MakePointer(i32))
	lay := layout.New(layout.Target64, in)
	m := mir.NewModule("allocarray", in, lay)

	f := mir.Func{Name: "allocarray"}
	f.Blocks = []mir.Block{{ID: 0}}
	f.Entry = 0
	dst := f.NewValue(ptrI32)
	f.Blocks[0].Instrs = []mir.Instr{
		{Kind: mir.InstrAlloca, Dst: dst, Type: ptrI32, Alloca: mir.AllocaInstr{
			ElemType: i32,
			Count:    mir.ConstOperand(mir.IntConst(i32, 32, 4)),
		}},
	}
	f.Blocks[0].Term = mir.RetVoid()
	f.Finalize()
	m.AddFunc(f)
	fn := m.Func(0)

	abi := registerRuntimeABI(m)
	shadow := NewShadowTypeMapper(m.Types)
	rep := &collectingReporter{}
	RunFunc(m, abi, shadow, fn, source.FileID(0), rep)

	if len(rep.codes) != 1 || rep.codes[0] != diag.WarnStackArray {
		t.Fatalf("codes = %v, want exactly [%v]", rep.codes, diag.WarnStackArray)
	}
	if countCalls(fn, abi.BuildInteger) != 0 {
		t.Fatalf("non-unit alloca should not have produced any shadow instructions")
	}
}

func TestSymbolizeInitializesIntGlobal(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Intern(types.MakeInt(32))
	lay := layout.New(layout.Target64, in)
	m := mir.NewModule("withglobal", in, lay)

	m.AddGlobal(mir.GlobalVar{Name: "counter", Type: i32, Init: &mir.GlobalInit{
		Kind:   mir.GlobalInitScalar,
		Scalar: mir.IntConst(i32, 32, 42),
	}})

	report := Symbolize(m, nil)
	if report.GlobalsShadowed != 1 {
		t.Fatalf("GlobalsShadowed = %d, want 1", report.GlobalsShadowed)
	}

	g := m.Globals[0]
	if g.Shadow == mir.NoGlobalID {
		t.Fatalf("global %q has no shadow sibling", g.Name)
	}
	shadowG := m.Global(g.Shadow)
	if shadowG.Name != "counter.shadow" {
		t.Fatalf("shadow global name = %q, want %q", shadowG.Name, "counter.shadow")
	}

	ctorID, ok := m.FuncByName(ctorName)
	if !ok {
		t.Fatalf("constructor %q was not created", ctorName)
	}
	ctor := m.Func(ctorID)
	abi := registerRuntimeABI(m) // idempotent: re-fetches the same FuncIDs
	if countCalls(ctor, abi.BuildInteger) != 1 {
		t.Fatalf("constructor should build exactly one shadow integer for the global's initializer")
	}
}

// buildFieldLoad builds:
//
//	struct Pair { a i32; b i32 }
//	define i32 @second(ptr %p):
//	bb0: %0 = gep %p, field 1
//	     %1 = load %0
//	     ret %1
func buildFieldLoad(t *testing.T) (*mir.Module, *mir.Func, types.TypeID) {
	t.Helper()
	in := types.NewInterner()
	i32 := in.Intern(types.MakeInt(32))
	pairID := in.RegisterStruct("Pair")
	in.SetStructFields(pairID, []types.StructField{
		{Name: "a", Type: i32},
		{Name: "b", Type: i32},
	})
	ptrPair := in.Intern(types.MakePointer(pairID))
	lay := layout.New(layout.Target64, in)
	m := mir.NewModule("fieldload", in, lay)

	f := mir.Func{Name: "second", Result: i32}
	p0 := f.NewValue(ptrPair)
	f.Params = []mir.Param{{ID: p0, Type: ptrPair}}
	f.Blocks = []mir.Block{{ID: 0}}
	f.Entry = 0

	ptrI32 := in.Intern(types.MakePointer(i32))
	gepDst := f.NewValue(ptrI32)
	loadDst := f.NewValue(i32)
	f.Blocks[0].Instrs = []mir.Instr{
		{Kind: mir.InstrGEP, Dst: gepDst, Type: ptrI32, GEP: mir.GEPInstr{
			Base:    mir.ValueOperand(p0, ptrPair),
			Indices: []mir.GEPIndex{{Kind: mir.GEPField, FieldIdx: 1, ElemType: pairID}},
		}},
		{Kind: mir.InstrLoad, Dst: loadDst, Type: i32, Load: mir.LoadInstr{Ptr: mir.ValueOperand(gepDst, ptrI32)}},
	}
	f.Blocks[0].Term = mir.RetValue(mir.ValueOperand(loadDst, i32))
	f.Finalize()

	m.AddFunc(f)
	return m, m.Func(0), pairID
}

func TestRunFuncGEPFieldOffset(t *testing.T) {
	m, f, pairID := buildFieldLoad(t)
	abi := registerRuntimeABI(m)
	shadow := NewShadowTypeMapper(m.Types)
	rep := &collectingReporter{}

	RunFunc(m, abi, shadow, f, source.FileID(0), rep)

	if len(rep.codes) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes)
	}
	if got := countCalls(f, abi.BinOps[mir.BinAdd]); got != 1 {
		t.Fatalf("_sym_build_add calls = %d, want 1 (base + field offset)", got)
	}

	offset, err := m.Layout.FieldOffset(pairID, 1)
	if err != nil {
		t.Fatalf("FieldOffset: %v", err)
	}
	if offset != 4 {
		t.Fatalf("FieldOffset(Pair, 1) = %d, want 4", offset)
	}

	if err := testkit.CheckDominance(m); err != nil {
		t.Fatalf("CheckDominance: %v", err)
	}
	if err := testkit.CheckPhiArity(f); err != nil {
		t.Fatalf("CheckPhiArity: %v", err)
	}
}

// buildMaxOf builds:
//
//	define i32 @maxOf(i32 %a, i32 %b):
//	bb0: %c = icmp sgt %a, %b
//	     condbr %c, bb1, bb2
//	bb1: br bb2
//	bb2: %r = phi [%a from bb1, %b from bb0]
//	     ret %r
//
// bb2 has two predecessors with distinct incoming values — the minimal
// shape that exercises a real φ merge, both directly (P5 arity) and
// through resolve()'s "resolve each incoming at the end of its own
// predecessor" rule (P1).
func buildMaxOf(t *testing.T) (*mir.Module, *mir.Func) {
	t.Helper()
	in := types.NewInterner()
	i32 := in.Intern(types.MakeInt(32))
	boolT := in.Intern(types.MakeInt(1))
	lay := layout.New(layout.Target64, in)
	m := mir.NewModule("maxof", in, lay)

	f := mir.Func{Name: "maxOf", Result: i32}
	a := f.NewValue(i32)
	b := f.NewValue(i32)
	f.Params = []mir.Param{{ID: a, Type: i32}, {ID: b, Type: i32}}

	cond := f.NewValue(boolT)
	r := f.NewValue(i32)

	f.Blocks = []mir.Block{
		{ID: 0, Instrs: []mir.Instr{
			{Kind: mir.InstrICmp, Dst: cond, Type: boolT, ICmp: mir.ICmpInstr{
				Pred: mir.CmpSgt, Lhs: mir.ValueOperand(a, i32), Rhs: mir.ValueOperand(b, i32),
			}},
		}, Term: mir.CondBr(mir.ValueOperand(cond, boolT), 1, 2)},
		{ID: 1, Term: mir.Br(2)},
		{ID: 2, Phis: []mir.Instr{
			{Kind: mir.InstrPhi, Dst: r, Type: i32, Phi: mir.PhiInstr{Incoming: []mir.PhiIncoming{
				{Block: 1, Value: mir.ValueOperand(a, i32)},
				{Block: 0, Value: mir.ValueOperand(b, i32)},
			}}},
		}, Term: mir.RetValue(mir.ValueOperand(r, i32))},
	}
	f.Entry = 0
	f.Finalize()

	m.AddFunc(f)
	return m, m.Func(0)
}

// buildCallWithResult builds:
//
//	declare i32 @callee(i32)
//	define i32 @caller(i32 %p):
//	bb0: %r = call @callee(%p)
//	     ret %r
func buildCallWithResult(t *testing.T) (*mir.Module, *mir.Func, mir.FuncID) {
	t.Helper()
	in := types.NewInterner()
	i32 := in.Intern(types.MakeInt(32))
	lay := layout.New(layout.Target64, in)
	m := mir.NewModule("callresult", in, lay)

	calleeID := m.AddFunc(mir.Func{Name: "callee", Params: []mir.Param{{ID: 0, Type: i32}}, Result: i32})

	f := mir.Func{Name: "caller", Result: i32}
	p0 := f.NewValue(i32)
	f.Params = []mir.Param{{ID: p0, Type: i32}}
	f.Blocks = []mir.Block{{ID: 0}}
	f.Entry = 0

	r := f.NewValue(i32)
	f.Blocks[0].Instrs = []mir.Instr{
		{Kind: mir.InstrCall, Dst: r, Type: i32, Call: mir.CallInstr{
			Target: mir.CallTarget{Kind: mir.CallDirect, Func: calleeID},
			Args:   []mir.Operand{mir.ValueOperand(p0, i32)},
		}},
	}
	f.Blocks[0].Term = mir.RetValue(mir.ValueOperand(r, i32))
	f.Finalize()

	callerID := m.AddFunc(f)
	return m, m.Func(callerID), calleeID
}

func TestRunFuncReturnExpressionFollowsConcreteCall(t *testing.T) {
	m, f, calleeID := buildCallWithResult(t)
	abi := registerRuntimeABI(m)
	shadow := NewShadowTypeMapper(m.Types)
	rep := &collectingReporter{}

	RunFunc(m, abi, shadow, f, source.FileID(0), rep)

	if len(rep.codes) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes)
	}

	block := f.Blocks[0]
	var concreteIdx, returnExprIdx = -1, -1
	for i, in := range block.Instrs {
		if in.Kind != mir.InstrCall {
			continue
		}
		switch in.Call.Target.Func {
		case calleeID:
			concreteIdx = i
		case abi.GetReturnExpr:
			returnExprIdx = i
		}
	}
	if concreteIdx == -1 {
		t.Fatalf("concrete call to callee not found in %v", block.Instrs)
	}
	if returnExprIdx == -1 {
		t.Fatalf("_sym_get_return_expression call not found in %v", block.Instrs)
	}
	if returnExprIdx != concreteIdx+1 {
		t.Fatalf("_sym_get_return_expression at index %d, want %d (immediately after the concrete call at %d)",
			returnExprIdx, concreteIdx+1, concreteIdx)
	}

	if err := testkit.CheckDominance(m); err != nil {
		t.Fatalf("CheckDominance: %v", err)
	}
}

// buildMemcpyIntrinsic builds:
//
//	define void @copy(ptr %dst, ptr %src, i64 %n):
//	bb0: call llvm.memcpy(%dst, %src, %n)
//	     ret
func buildMemcpyIntrinsic(t *testing.T) (*mir.Module, *mir.Func, mir.Operand, mir.Operand, mir.Operand) {
	t.Helper()
	in := types.NewInterner()
	i64 := in.Intern(types.MakeInt(64))
	i8 := in.Intern(types.MakeInt(8))
	ptrI8 := in.Intern(types.MakePointer(i8))
	lay := layout.New(layout.Target64, in)
	m := mir.NewModule("memcpymod", in, lay)

	f := mir.Func{Name: "copy"}
	dst := f.NewValue(ptrI8)
	src := f.NewValue(ptrI8)
	n := f.NewValue(i64)
	f.Params = []mir.Param{{ID: dst, Type: ptrI8}, {ID: src, Type: ptrI8}, {ID: n, Type: i64}}
	f.Blocks = []mir.Block{{ID: 0}}
	f.Entry = 0

	dstOp := mir.ValueOperand(dst, ptrI8)
	srcOp := mir.ValueOperand(src, ptrI8)
	nOp := mir.ValueOperand(n, i64)
	f.Blocks[0].Instrs = []mir.Instr{
		{Kind: mir.InstrCall, Dst: mir.NoValueID, Call: mir.CallInstr{
			Target: mir.CallTarget{Kind: mir.CallIntrinsic, Name: "llvm.memcpy.p0.p0.i64"},
			Args:   []mir.Operand{dstOp, srcOp, nOp},
		}},
	}
	f.Blocks[0].Term = mir.RetVoid()
	f.Finalize()

	m.AddFunc(f)
	return m, m.Func(0), dstOp, srcOp, nOp
}

func TestRunFuncMemcpyPassesConcreteOperands(t *testing.T) {
	m, f, dstOp, srcOp, nOp := buildMemcpyIntrinsic(t)
	abi := registerRuntimeABI(m)
	shadow := NewShadowTypeMapper(m.Types)
	rep := &collectingReporter{}

	RunFunc(m, abi, shadow, f, source.FileID(0), rep)

	if len(rep.codes) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes)
	}

	var found bool
	for _, in := range f.Blocks[0].Instrs {
		if in.Kind == mir.InstrCall && in.Call.Target.Kind == mir.CallDirect && in.Call.Target.Func == abi.Memcpy {
			found = true
			if len(in.Call.Args) != 3 {
				t.Fatalf("_sym_memcpy args = %v, want 3", in.Call.Args)
			}
			if in.Call.Args[0] != dstOp || in.Call.Args[1] != srcOp || in.Call.Args[2] != nOp {
				t.Fatalf("_sym_memcpy args = %v, want the concrete operands %v, %v, %v unchanged",
					in.Call.Args, dstOp, srcOp, nOp)
			}
		}
	}
	if !found {
		t.Fatalf("no _sym_memcpy call emitted")
	}
}

func TestRunFuncPhiMergesBothPredecessors(t *testing.T) {
	m, f := buildMaxOf(t)
	abi := registerRuntimeABI(m)
	shadow := NewShadowTypeMapper(m.Types)
	rep := &collectingReporter{}

	RunFunc(m, abi, shadow, f, source.FileID(0), rep)

	if len(rep.codes) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes)
	}
	if got := countCalls(f, abi.Cmps[mir.CmpSgt]); got != 1 {
		t.Fatalf("_sym_build_signed_greater_than calls = %d, want 1", got)
	}
	if got := countCalls(f, abi.PushPathConstraint); got != 1 {
		t.Fatalf("_sym_push_path_constraint calls = %d, want 1", got)
	}

	mergeBlock := f.BlockByID(2)
	if mergeBlock == nil || len(mergeBlock.Phis) != 2 {
		t.Fatalf("merge block should have the original phi plus its shadow phi, got %v", mergeBlock)
	}

	if err := testkit.CheckPhiArity(f); err != nil {
		t.Fatalf("CheckPhiArity: %v", err)
	}
	if err := testkit.CheckDominance(m); err != nil {
		t.Fatalf("CheckDominance: %v", err)
	}
}
