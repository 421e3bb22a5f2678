// Package types is the MIR type system: the data model of (scalar,
// pointer, array, struct) plus the pass-introduced opaque shadow-handle type.
// TypeIDs are interned so that structurally identical descriptors compare
// equal by ID.
package types

import "fmt"

// TypeID uniquely identifies a type inside an Interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the type constructors the pass understands. Anything not
// listed here (vectors, floats, variable-sized arrays) has no Kind and is
// therefore, by construction, a type the Shadow-Type Mapper cannot handle
//.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindInt is an integer of a fixed bit width.
	KindInt
	// KindPointer is a pointer; its Elem is the pointee type (informational
	// only — the mapper treats all pointers as a single opaque handle).
	KindPointer
	// KindArray is a fixed-length array of Count elements of type Elem.
	KindArray
	// KindStruct is a nominal aggregate; field types live in StructInfo.
	KindStruct
	// KindFunc is a function type (used for constant function addresses).
	KindFunc
	// KindLabel is a basic-block label type (branch targets).
	KindLabel
	// KindOpaque is the shadow-handle type T maps everything scalar to:
	// a pointer-sized opaque token returned by the runtime ABI.
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindFunc:
		return "func"
	case KindLabel:
		return "label"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Type is a compact structural descriptor. Payload indexes into the
// Interner's struct-info table when Kind == KindStruct.
type Type struct {
	Kind    Kind
	Elem    TypeID // Pointer/Array element type
	Count   uint32 // Array length
	Bits    uint8  // Int bit width
	Payload uint32 // Struct: index into Interner.structs
}

// MakeInt describes an integer type of the given bit width.
func MakeInt(bits uint8) Type {
	return Type{Kind: KindInt, Bits: bits}
}

// MakePointer describes a pointer to elem (informational; all pointers
// shadow to the same opaque handle type).
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeArray describes a fixed-length array of count elements of elem.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// MakeFunc describes a function type, used only for constant function
// addresses reaching resolve().
func MakeFunc() Type {
	return Type{Kind: KindFunc}
}

// MakeLabel describes a basic-block label type.
func MakeLabel() Type {
	return Type{Kind: KindLabel}
}
