// Package layout computes the concrete data layout (size, alignment, struct
// field offsets) of MIR types. This is the source of struct_offset(k)
// and element_alloc_size the GEP handler and Module Init's
// per-field global descent need — a data layout is required
// input the pass must know before it can rewrite any address computation.
package layout

import (
	"fmt"

	"fortio.org/safecast"

	"symcc/internal/types"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Struct-only: byte offset of each field, parallel to StructInfo.Fields.
	FieldOffsets []int
}

// Engine computes and caches type layouts for one Target/Interner pair.
type Engine struct {
	Target Target
	Types  *types.Interner

	cache map[types.TypeID]TypeLayout
}

// New creates a layout Engine for the given target and type interner.
func New(target Target, typesIn *types.Interner) *Engine {
	return &Engine{
		Target: target,
		Types:  typesIn,
		cache:  make(map[types.TypeID]TypeLayout, 64),
	}
}

// LayoutOf computes (and caches) the layout of a type.
func (e *Engine) LayoutOf(t types.TypeID) (TypeLayout, error) {
	if e == nil || e.Types == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	if l, ok := e.cache[t]; ok {
		return l, nil
	}
	l, err := e.computeLayout(t)
	if err != nil {
		return TypeLayout{}, err
	}
	e.cache[t] = l
	return l, nil
}

// SizeOf returns the size in bytes of a type — the "element alloc size" the
// GEP array-index case multiplies by.
func (e *Engine) SizeOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// FieldOffset returns the byte offset of struct field fieldIdx — the
// struct_offset(k) the GEP struct-field case adds.
func (e *Engine) FieldOffset(structT types.TypeID, fieldIdx int) (int, error) {
	l, err := e.LayoutOf(structT)
	if err != nil {
		return 0, err
	}
	if fieldIdx < 0 || fieldIdx >= len(l.FieldOffsets) {
		return 0, fmt.Errorf("layout: field index %d out of range for %v", fieldIdx, structT)
	}
	return l.FieldOffsets[fieldIdx], nil
}

func (e *Engine) computeLayout(id types.TypeID) (TypeLayout, error) {
	t, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{}, fmt.Errorf("layout: unknown TypeID %d", id)
	}

	switch t.Kind {
	case types.KindInt:
		bits := int(t.Bits)
		if bits == 0 {
			bits = 8
		}
		size := (bits + 7) / 8
		return scalarLayout(size), nil

	case types.KindPointer, types.KindOpaque, types.KindFunc:
		return e.ptrLayout(), nil

	case types.KindLabel:
		return TypeLayout{Size: 0, Align: 1}, nil

	case types.KindArray:
		return e.arrayLayout(t.Elem, t.Count)

	case types.KindStruct:
		return e.structLayout(id)

	default:
		return TypeLayout{}, fmt.Errorf("layout: unsupported kind %v", t.Kind)
	}
}

func (e *Engine) ptrLayout() TypeLayout {
	size := e.Target.PtrSize
	align := e.Target.PtrAlign
	if size <= 0 {
		size = 8
	}
	if align <= 0 {
		align = size
	}
	return TypeLayout{Size: size, Align: align}
}

func scalarLayout(size int) TypeLayout {
	if size <= 0 {
		size = 1
	}
	return TypeLayout{Size: size, Align: size}
}

func (e *Engine) arrayLayout(elem types.TypeID, count uint32) (TypeLayout, error) {
	el, err := e.LayoutOf(elem)
	if err != nil {
		return TypeLayout{}, err
	}
	n, err := safecast.Conv[int](count)
	if err != nil {
		return TypeLayout{}, fmt.Errorf("layout: array count overflow: %w", err)
	}
	return TypeLayout{Size: el.Size * n, Align: el.Align}, nil
}

func (e *Engine) structLayout(id types.TypeID) (TypeLayout, error) {
	info, ok := e.Types.StructInfoOf(id)
	if !ok {
		return TypeLayout{}, fmt.Errorf("layout: struct info missing for %v", id)
	}

	offsets := make([]int, len(info.Fields))
	offset := 0
	align := 1
	for i, f := range info.Fields {
		fl, err := e.LayoutOf(f.Type)
		if err != nil {
			return TypeLayout{}, err
		}
		offset = roundUp(offset, fl.Align)
		offsets[i] = offset
		offset += fl.Size
		if fl.Align > align {
			align = fl.Align
		}
	}
	size := roundUp(offset, align)
	return TypeLayout{Size: size, Align: align, FieldOffsets: offsets}, nil
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}
