package symbolize

import (
	"symcc/internal/diag"
	"symcc/internal/mir"
	"symcc/internal/types"
)

// visitAlloca implements "Stack allocation": a unit alloca
// gets a sibling shadow stack slot of type T(τ); a non-unit count (an
// array alloca) is unsupported-skip (Open Question decision 4 leaves this a
// warning rather than allocating T(τ)[n]).
func (b *Builder) visitAlloca(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	if n, ok := in.Alloca.Count.IsConstInt(); !ok || n != 1 {
		return at, &unsupportedError{code: diag.WarnStackArray, what: "stack array (non-unit alloca count)"}
	}

	shadowElem, ok := b.Shadow.Map(in.Alloca.ElemType)
	if !ok {
		return at, &unsupportedError{code: diag.WarnUnsupportedType, what: "alloca element type with no shadow representation"}
	}
	slotType := b.pointerTo(shadowElem)

	slot := mir.Instr{
		Kind: mir.InstrAlloca,
		Dst:  b.Func.NewValue(slotType),
		Type: slotType,
		Alloca: mir.AllocaInstr{
			ElemType: shadowElem,
			Count:    mir.ConstOperand(mir.IntConst(b.u64Type(), 64, 1)),
		},
	}
	at = b.insert(at, slot)
	b.cache[mir.ValueOperand(in.Dst, in.Type)] = mir.ValueOperand(slot.Dst, slot.Type)
	return at, nil
}

// visitLoad implements "Load": σ(r) = load(resolve(p)), where
// resolve(p) for a stack slot or global yields a pointer into shadow
// memory whose pointee is the σ-handle.
func (b *Builder) visitLoad(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	ptrShadow, at, err := b.resolve(in.Load.Ptr, at)
	if err != nil {
		return at, err
	}
	ld := mir.Instr{
		Kind: mir.InstrLoad,
		Dst:  b.Func.NewValue(b.opaque()),
		Type: b.opaque(),
		Load: mir.LoadInstr{Ptr: ptrShadow},
	}
	at = b.insert(at, ld)
	b.cache[mir.ValueOperand(in.Dst, in.Type)] = mir.ValueOperand(ld.Dst, b.opaque())
	return at, nil
}

// visitStore implements "Store": store(resolve(v), resolve(p)).
func (b *Builder) visitStore(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	valShadow, at, err := b.resolve(in.Store.Val, at)
	if err != nil {
		return at, err
	}
	ptrShadow, at, err := b.resolve(in.Store.Ptr, at)
	if err != nil {
		return at, err
	}
	st := mir.Instr{
		Kind:  mir.InstrStore,
		Dst:   mir.NoValueID,
		Store: mir.StoreInstr{Val: valShadow, Ptr: ptrShadow},
	}
	at = b.insert(at, st)
	return at, nil
}

func (b *Builder) pointerTo(elem types.TypeID) types.TypeID {
	return b.Module.Types.Intern(types.MakePointer(elem))
}
