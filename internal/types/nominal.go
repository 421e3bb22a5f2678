package types

import (
	"slices"

	"fortio.org/safecast"
)

// StructField describes one field of a nominal struct type, in declaration
// order (the order GEP field indices and layout offsets are computed in).
type StructField struct {
	Name string
	Type TypeID
}

// StructInfo stores the field list for a struct type.
type StructInfo struct {
	Name   string
	Fields []StructField
}

// RegisterStruct allocates a nominal struct type slot and returns its
// TypeID. Fields are attached afterwards via SetStructFields so that
// self-referential struct-of-pointer-to-self shapes can be built.
func (in *Interner) RegisterStruct(name string) TypeID {
	slot, err := safecast.Conv[uint32](len(in.structs))
	if err != nil {
		panic(err)
	}
	in.structs = append(in.structs, StructInfo{Name: name})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// SetStructFields stores the resolved field descriptors for a struct TypeID.
func (in *Interner) SetStructFields(id TypeID, fields []StructField) {
	info := in.structInfo(id)
	if info == nil {
		return
	}
	info.Fields = slices.Clone(fields)
}

// StructInfoOf returns the field metadata for a struct TypeID.
func (in *Interner) StructInfoOf(id TypeID) (*StructInfo, bool) {
	info := in.structInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) structInfo(id TypeID) *StructInfo {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindStruct {
		return nil
	}
	if int(t.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[t.Payload]
}
