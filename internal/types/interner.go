package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins holds TypeIDs for the fixed types every module needs regardless
// of its own type declarations.
type Builtins struct {
	Bool    TypeID // i1, used for branch/select conditions
	Ptr     TypeID // generic byte pointer
	Opaque  TypeID // T(scalar) — the shadow-handle type
	Int8    TypeID
	Int32   TypeID
	Int64   TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors. Two calls to
// Intern with structurally equal descriptors return the same TypeID — this
// is the substrate invariant I3 ("T is deterministic and stable") and
// testable property P6 are built on.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	structs  []StructInfo
}

// NewInterner constructs an interner seeded with the fixed builtin types.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 64),
	}
	in.structs = append(in.structs, StructInfo{}) // reserve slot 0
	in.internRaw(Type{Kind: KindInvalid})          // NoTypeID sentinel
	in.builtins.Bool = in.Intern(MakeInt(1))
	in.builtins.Ptr = in.Intern(MakePointer(NoTypeID))
	in.builtins.Opaque = in.Intern(Type{Kind: KindOpaque})
	in.builtins.Int8 = in.Intern(MakeInt(8))
	in.builtins.Int32 = in.Intern(MakeInt(32))
	in.builtins.Int64 = in.Intern(MakeInt(64))
	return in
}

// Builtins returns the interner's fixed builtin TypeIDs.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the descriptor has a stable TypeID, returning the existing
// one for a structurally equal Type when present.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	id, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("type table overflow: %w", err))
	}
	tid := TypeID(id)
	in.types = append(in.types, t)
	in.index[t] = tid
	return tid
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics if id is not registered; used at sites where the caller
// already validated the id (e.g. it produced it via Intern).
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Errorf("types: unknown TypeID %d", id))
	}
	return t
}

// AllTypes returns the full type table in TypeID order, for serialization.
func (in *Interner) AllTypes() []Type {
	out := make([]Type, len(in.types))
	copy(out, in.types)
	return out
}

// AllStructs returns every registered struct's name and fields, in
// RegisterStruct order (slot 0, the reserved sentinel, is skipped) — paired
// with RestoreTypes this lets a decoded module reconstruct the same
// TypeID-to-struct-info association it had when encoded.
func (in *Interner) AllStructs() ([]string, [][]StructField) {
	names := make([]string, 0, len(in.structs))
	fields := make([][]StructField, 0, len(in.structs))
	for i, s := range in.structs {
		if i == 0 {
			continue
		}
		names = append(names, s.Name)
		fields = append(fields, s.Fields)
	}
	return names, fields
}

// RestoreStructs replaces the interner's struct registry wholesale, in
// AllStructs order, without allocating new TypeIDs — the counterpart to
// RestoreTypes: struct TypeIDs already exist in the restored type table
// (their Payload fields index into this slice), so this must reproduce the
// exact same slot order RegisterStruct originally produced instead of
// calling RegisterStruct again (which would intern a second, spurious type).
func (in *Interner) RestoreStructs(names []string, fields [][]StructField) {
	in.structs = make([]StructInfo, 1, len(names)+1) // slot 0 reserved
	for i, name := range names {
		in.structs = append(in.structs, StructInfo{Name: name, Fields: fields[i]})
	}
}

// RestoreTypes replaces the interner's type table and index wholesale with
// a previously-encoded table, preserving TypeIDs exactly — used by the
// module decoder before RestoreStructs restores the struct registry, so
// struct TypeIDs line up with AllStructs' order.
func (in *Interner) RestoreTypes(all []Type) {
	in.types = append([]Type(nil), all...)
	in.index = make(map[Type]TypeID, len(all))
	for i, t := range in.types {
		if t.Kind == KindInvalid && i != 0 {
			continue
		}
		in.index[t] = TypeID(i)
	}
	in.builtins = Builtins{}
	if b, ok := in.index[MakeInt(1)]; ok {
		in.builtins.Bool = b
	}
	if b, ok := in.index[MakePointer(NoTypeID)]; ok {
		in.builtins.Ptr = b
	}
	if b, ok := in.index[Type{Kind: KindOpaque}]; ok {
		in.builtins.Opaque = b
	}
	if b, ok := in.index[MakeInt(8)]; ok {
		in.builtins.Int8 = b
	}
	if b, ok := in.index[MakeInt(32)]; ok {
		in.builtins.Int32 = b
	}
	if b, ok := in.index[MakeInt(64)]; ok {
		in.builtins.Int64 = b
	}
}
