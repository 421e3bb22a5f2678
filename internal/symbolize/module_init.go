package symbolize

import (
	"symcc/internal/diag"
	"symcc/internal/mir"
	"symcc/internal/observ"
	"symcc/internal/source"
	"symcc/internal/types"
)

// Report summarizes one Symbolize run, for the CLI's summary line and for
// tests that want a coarse sanity check without walking the whole module.
type Report struct {
	FuncsVisited    int
	GlobalsShadowed int
	Timings         observ.Report
}

// EventStatus is the lifecycle stage a function progresses through as
// Symbolize visits it, for a UI to render live status.
type EventStatus uint8

const (
	EventWorking EventStatus = iota
	EventDone
)

// Event reports one function's progress through the pass. Symbolize sends
// one EventWorking then one EventDone per function it visits.
type Event struct {
	Func   string
	Status EventStatus
}

// Options configures a Symbolize run beyond its required module and
// reporter. The zero value runs with no event stream and no timing.
type Options struct {
	// Events, if non-nil, receives a Working/Done pair per visited
	// function. Symbolize never closes it.
	Events chan<- Event
	// Timer, if non-nil, records each function's wall-clock cost under
	// its name and the result is copied into Report.Timings.
	Timer *observ.Timer
}

// Symbolize runs Module Init and then the per-function
// Expression Builder over every function that already had a
// body when Symbolize was called. Functions and globals introduced by this
// call itself — the runtime ABI declarations and the constructor — are
// never revisited, by construction: the ID snapshots below are taken before
// any of them exist.
func Symbolize(m *mir.Module, rep diag.Reporter) *Report {
	return SymbolizeOpts(m, rep, Options{})
}

// SymbolizeOpts is Symbolize with progress/timing instrumentation attached,
// for the CLI's --ui and --timings flags.
func SymbolizeOpts(m *mir.Module, rep diag.Reporter, opts Options) *Report {
	origFuncIDs := make([]mir.FuncID, len(m.Funcs))
	for i := range m.Funcs {
		origFuncIDs[i] = m.Funcs[i].ID
	}
	origGlobalIDs := make([]mir.GlobalID, len(m.Globals))
	for i := range m.Globals {
		origGlobalIDs[i] = m.Globals[i].ID
	}

	abi := registerRuntimeABI(m)
	shadow := NewShadowTypeMapper(m.Types)

	report := &Report{}
	for _, gid := range origGlobalIDs {
		createShadowGlobal(m, shadow, gid, rep)
		if m.Global(gid).Shadow != mir.NoGlobalID {
			report.GlobalsShadowed++
		}
	}

	buildCtor(m, abi, shadow, origGlobalIDs, rep)

	for _, fid := range origFuncIDs {
		f := m.Func(fid)
		if f == nil || len(f.Blocks) == 0 {
			continue // declaration, nothing to rewrite
		}
		emitEvent(opts.Events, f.Name, EventWorking)
		var timerIdx int
		if opts.Timer != nil {
			timerIdx = opts.Timer.Begin(f.Name)
		}
		RunFunc(m, abi, shadow, f, source.FileID(0), rep)
		if opts.Timer != nil {
			opts.Timer.End(timerIdx, "")
		}
		emitEvent(opts.Events, f.Name, EventDone)
		report.FuncsVisited++
	}
	if opts.Timer != nil {
		report.Timings = opts.Timer.Report()
	}
	return report
}

func emitEvent(ch chan<- Event, name string, status EventStatus) {
	if ch != nil {
		ch <- Event{Func: name, Status: status}
	}
}

// createShadowGlobal adds gid's "g.shadow" sibling global and records it on the original global. A type with no shadow
// representation is fatal: every other global's initializer may reference
// this one by address, so leaving it unshadowed is not a value this pass
// can skip around.
func createShadowGlobal(m *mir.Module, shadow *ShadowTypeMapper, gid mir.GlobalID, rep diag.Reporter) {
	g := m.Global(gid)
	shadowType, ok := shadow.Map(g.Type)
	if !ok {
		reportGlobalFatal(rep, g.Name, "global type has no shadow representation")
		return
	}
	shadowID := m.AddGlobal(mir.GlobalVar{Name: g.Name + ".shadow", Type: shadowType})
	m.Global(gid).Shadow = shadowID
}

// buildCtor synthesizes __sym_ctor: it calls
// _sym_initialize, then for every original global with a compile-time
// initializer, lowers that initializer into shadow-store instructions.
func buildCtor(m *mir.Module, abi *ABI, shadow *ShadowTypeMapper, origGlobals []mir.GlobalID, rep diag.Reporter) mir.FuncID {
	fnID := m.AddFunc(mir.Func{Name: ctorName, Result: types.NoTypeID})
	fn := m.Func(fnID)
	fn.Blocks = []mir.Block{{ID: 0, Name: "entry", Term: mir.RetVoid()}}
	fn.Entry = 0

	at := mir.AtEntryStart(fn)
	initCall := mir.Instr{
		Kind: mir.InstrCall,
		Dst:  mir.NoValueID,
		Call: mir.CallInstr{Target: mir.CallTarget{Kind: mir.CallDirect, Func: abi.Initialize}},
	}
	at = fn.InsertBefore(at, initCall)

	for _, gid := range origGlobals {
		g := m.Global(gid)
		if g.Init == nil || g.Shadow == mir.NoGlobalID {
			continue
		}
		shadowG := m.Global(g.Shadow)
		concreteAddr := mir.GlobalAddrOperand(gid, ptrTo(m, g.Type))
		shadowAddr := mir.GlobalAddrOperand(g.Shadow, ptrTo(m, shadowG.Type))
		at = lowerGlobalInit(m, abi, shadow, fn, at, concreteAddr, shadowAddr, g.Type, g.Init, rep)
	}

	fn.Finalize()
	return fnID
}

// lowerGlobalInit recursively lowers one initializer node, dispatching by
// shape.
// GlobalInitZero needs no shadow store at all: shadow memory for a global
// starts zeroed, and a zero opaque handle is this pass's representation of
// "no symbolic expression, trust the concrete value".
func lowerGlobalInit(m *mir.Module, abi *ABI, shadow *ShadowTypeMapper, fn *mir.Func, at mir.InsertPoint, concreteAddr, shadowAddr mir.Operand, containerType types.TypeID, init *mir.GlobalInit, rep diag.Reporter) mir.InsertPoint {
	switch init.Kind {
	case mir.GlobalInitZero:
		return at

	case mir.GlobalInitScalar:
		return lowerScalarInit(m, abi, fn, at, shadowAddr, init.Scalar, rep)

	case mir.GlobalInitArray:
		return lowerArrayInit(m, abi, shadow, fn, at, concreteAddr, shadowAddr, containerType, init, rep)

	case mir.GlobalInitStruct:
		return lowerStructInit(m, abi, shadow, fn, at, concreteAddr, shadowAddr, containerType, init, rep)

	default:
		reportGlobalFatal(rep, fn.Name, "unsupported global initializer shape")
		return at
	}
}

func lowerScalarInit(m *mir.Module, abi *ABI, fn *mir.Func, at mir.InsertPoint, shadowAddr mir.Operand, c mir.Const, rep diag.Reporter) mir.InsertPoint {
	opaque := m.Types.Builtins().Opaque

	var shadowVal mir.Operand
	switch c.Kind {
	case mir.ConstInt:
		vArg := mir.ConstOperand(mir.IntConst(m.Types.Builtins().Int64, 64, c.I64))
		bitsArg := mir.ConstOperand(mir.IntConst(m.Types.Builtins().Int8, 8, int64(c.Bits)))
		dst := fn.NewValue(opaque)
		call := mir.Instr{
			Kind: mir.InstrCall,
			Dst:  dst,
			Type: opaque,
			Call: mir.CallInstr{Target: mir.CallTarget{Kind: mir.CallDirect, Func: abi.BuildInteger}, Args: []mir.Operand{vArg, bitsArg}},
		}
		at = fn.InsertBefore(at, call)
		shadowVal = mir.ValueOperand(dst, opaque)

	case mir.ConstNullPtr:
		dst := fn.NewValue(opaque)
		call := mir.Instr{
			Kind: mir.InstrCall,
			Dst:  dst,
			Type: opaque,
			Call: mir.CallInstr{Target: mir.CallTarget{Kind: mir.CallDirect, Func: abi.BuildNullPointer}},
		}
		at = fn.InsertBefore(at, call)
		shadowVal = mir.ValueOperand(dst, opaque)

	default:
		reportGlobalFatal(rep, fn.Name, "unsupported global scalar initializer kind")
		return at
	}

	st := mir.Instr{Kind: mir.InstrStore, Dst: mir.NoValueID, Store: mir.StoreInstr{Val: shadowVal, Ptr: shadowAddr}}
	return fn.InsertBefore(at, st)
}

// lowerArrayInit takes the bulk _sym_initialize_array_W path
// when every element is a same-width integer scalar; otherwise it recurses
// element by element via GEP, matching the struct case.
func lowerArrayInit(m *mir.Module, abi *ABI, shadow *ShadowTypeMapper, fn *mir.Func, at mir.InsertPoint, concreteAddr, shadowAddr mir.Operand, arrType types.TypeID, init *mir.GlobalInit, rep diag.Reporter) mir.InsertPoint {
	arrT, ok := m.Types.Lookup(arrType)
	if !ok || arrT.Kind != types.KindArray {
		reportGlobalFatal(rep, fn.Name, "array initializer on non-array global type")
		return at
	}
	elemType := arrT.Elem
	elemT, okElem := m.Types.Lookup(elemType)

	if okElem && elemT.Kind == types.KindInt && isUniformIntArray(init, elemT.Bits) {
		if arrFn, okArr := abi.arrayInitFor(elemT.Bits); okArr {
			lengthArg := mir.ConstOperand(mir.IntConst(m.Types.Builtins().Int64, 64, int64(len(init.Elems))))
			call := mir.Instr{
				Kind: mir.InstrCall,
				Dst:  mir.NoValueID,
				Call: mir.CallInstr{Target: mir.CallTarget{Kind: mir.CallDirect, Func: arrFn}, Args: []mir.Operand{shadowAddr, concreteAddr, lengthArg}},
			}
			return fn.InsertBefore(at, call)
		}
	}

	shadowElemType, okShadow := shadow.Map(elemType)
	if !okShadow {
		reportGlobalFatal(rep, fn.Name, "array element type has no shadow representation")
		return at
	}

	for i := range init.Elems {
		elem := init.Elems[i]
		idxVal := mir.ConstOperand(mir.IntConst(m.Types.Builtins().Int64, 64, int64(i)))

		concreteElemAddr, newAt := gepStep(m, fn, at, concreteAddr, mir.GEPIndex{Kind: mir.GEPElement, Index: idxVal, ElemType: elemType}, elemType)
		at = newAt
		shadowElemAddr, newAt2 := gepStep(m, fn, at, shadowAddr, mir.GEPIndex{Kind: mir.GEPElement, Index: idxVal, ElemType: shadowElemType}, shadowElemType)
		at = newAt2

		at = lowerGlobalInit(m, abi, shadow, fn, at, concreteElemAddr, shadowElemAddr, elemType, &elem, rep)
	}
	return at
}

func lowerStructInit(m *mir.Module, abi *ABI, shadow *ShadowTypeMapper, fn *mir.Func, at mir.InsertPoint, concreteAddr, shadowAddr mir.Operand, structType types.TypeID, init *mir.GlobalInit, rep diag.Reporter) mir.InsertPoint {
	info, ok := m.Types.StructInfoOf(structType)
	if !ok || len(info.Fields) != len(init.Elems) {
		reportGlobalFatal(rep, fn.Name, "struct initializer field count mismatch")
		return at
	}
	shadowStructType, okShadow := shadow.Map(structType)
	if !okShadow {
		reportGlobalFatal(rep, fn.Name, "struct type has no shadow representation")
		return at
	}
	shadowInfo, _ := m.Types.StructInfoOf(shadowStructType)

	for i := range init.Elems {
		elem := init.Elems[i]
		fieldType := info.Fields[i].Type
		shadowFieldType := fieldType
		if shadowInfo != nil && i < len(shadowInfo.Fields) {
			shadowFieldType = shadowInfo.Fields[i].Type
		}

		concreteFieldAddr, newAt := gepStep(m, fn, at, concreteAddr, mir.GEPIndex{Kind: mir.GEPField, FieldIdx: i, ElemType: structType}, fieldType)
		at = newAt
		shadowFieldAddr, newAt2 := gepStep(m, fn, at, shadowAddr, mir.GEPIndex{Kind: mir.GEPField, FieldIdx: i, ElemType: shadowStructType}, shadowFieldType)
		at = newAt2

		at = lowerGlobalInit(m, abi, shadow, fn, at, concreteFieldAddr, shadowFieldAddr, fieldType, &elem, rep)
	}
	return at
}

func isUniformIntArray(init *mir.GlobalInit, bits uint8) bool {
	if len(init.Elems) == 0 {
		return false
	}
	for _, e := range init.Elems {
		if e.Kind != mir.GlobalInitScalar || e.Scalar.Kind != mir.ConstInt || e.Scalar.Bits != bits {
			return false
		}
	}
	return true
}

// gepStep inserts a single-index GEP computing the address of one
// element/field reached from base, in the ctor's own, never-reinstrumented
// address arithmetic (unlike visitGEP, this never calls resolve — there is
// no symbolic expression for an address the ctor itself is computing).
func gepStep(m *mir.Module, fn *mir.Func, at mir.InsertPoint, base mir.Operand, idx mir.GEPIndex, resultElemType types.TypeID) (mir.Operand, mir.InsertPoint) {
	ptrType := ptrTo(m, resultElemType)
	dst := fn.NewValue(ptrType)
	in := mir.Instr{
		Kind: mir.InstrGEP,
		Dst:  dst,
		Type: ptrType,
		GEP:  mir.GEPInstr{Base: base, Indices: []mir.GEPIndex{idx}},
	}
	newAt := fn.InsertBefore(at, in)
	return mir.ValueOperand(dst, ptrType), newAt
}

func ptrTo(m *mir.Module, elem types.TypeID) types.TypeID {
	return m.Types.Intern(types.MakePointer(elem))
}

func reportGlobalFatal(rep diag.Reporter, fnName, msg string) {
	if rep == nil {
		return
	}
	rep.Report(diag.FatalGlobalInitType, diag.SevError, source.Span{Func: fnName}, msg, nil)
}
