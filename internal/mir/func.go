package mir

import "symcc/internal/types"

// Param is one formal parameter of a Func; its ValueID is live from the
// function's entry and dominates every reachable block.
type Param struct {
	ID   ValueID
	Type types.TypeID
	Name string
}

// Func is one function body: a flat list of Blocks in declaration order,
// with Entry naming the first. The expression builder walks
// Blocks in this order and mutates Instrs/Phis in place to insert shadow
// computation, never touching concrete semantics (P3).
type Func struct {
	ID     FuncID
	Name   string
	Params []Param
	Result types.TypeID // NoTypeID for a void function

	Blocks []Block
	Entry  BlockID

	// valueTypes is the dense, append-only type table backing every
	// ValueID this Func has ever allocated (params first, then
	// instruction/φ results in creation order). Populated by NewValue and
	// consulted by TypeOf; not part of the serialized form — codec.go
	// rebuilds it from Params/Blocks on decode.
	valueTypes []types.TypeID

	dom *Dominance
}

// NewValue allocates a fresh ValueID of type t and records its type.
func (f *Func) NewValue(t types.TypeID) ValueID {
	id := ValueID(len(f.valueTypes))
	f.valueTypes = append(f.valueTypes, t)
	return id
}

// TypeOf returns the type of a previously allocated ValueID.
func (f *Func) TypeOf(v ValueID) (types.TypeID, bool) {
	if v < 0 || int(v) >= len(f.valueTypes) {
		return types.NoTypeID, false
	}
	return f.valueTypes[v], true
}

// NumValues reports how many ValueIDs have been allocated so far.
func (f *Func) NumValues() int {
	return len(f.valueTypes)
}

// BlockByID returns a pointer to the block with the given ID, or nil.
func (f *Func) BlockByID(id BlockID) *Block {
	if id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	b := &f.Blocks[id]
	if b.ID != id {
		// Blocks are addressed positionally by convention (ID == index);
		// fall back to a scan if that invariant was ever violated.
		for i := range f.Blocks {
			if f.Blocks[i].ID == id {
				return &f.Blocks[i]
			}
		}
		return nil
	}
	return b
}

// rebuildValueTypes reconstructs the dense value-type table from Params and
// Blocks — used after decoding a Func from the wire format, where
// valueTypes is not transmitted.
func (f *Func) rebuildValueTypes(in *types.Interner) {
	maxID := ValueID(-1)
	for _, p := range f.Params {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	walk := func(in Instr) {
		if in.Dst > maxID {
			maxID = in.Dst
		}
	}
	for _, b := range f.Blocks {
		for _, in := range b.Phis {
			walk(in)
		}
		for _, in := range b.Instrs {
			walk(in)
		}
	}

	f.valueTypes = make([]types.TypeID, maxID+1)
	for _, p := range f.Params {
		f.valueTypes[p.ID] = p.Type
	}
	set := func(in Instr) {
		if in.HasResult() {
			f.valueTypes[in.Dst] = in.Type
		}
	}
	for _, b := range f.Blocks {
		for _, in := range b.Phis {
			set(in)
		}
		for _, in := range b.Instrs {
			set(in)
		}
	}
}
