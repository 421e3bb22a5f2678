package mir

import "fmt"

// InsertPoint names a position within a Block's Instrs slice where new
// instructions can be spliced without disturbing existing ones — the
// expression builder's core operation: for every concrete instruction it
// visits, it inserts zero or more shadow instructions immediately before
// it, and for integer-constant hoisting it inserts at the
// start of the entry block.
type InsertPoint struct {
	Block BlockID
	// Index is the position within Instrs to insert before; it is NOT
	// updated when other insertions shift the slice, so callers build all
	// their code for one instruction at the same point with InsertBefore,
	// which always re-resolves relative to the current length.
	Index int
}

// AtEntryStart returns the insert point at the very beginning of f's entry
// block, after any φ-prologue is irrelevant there's none in the entry
// — used to hoist per-function integer-constant shadow building (P4).
func AtEntryStart(f *Func) InsertPoint {
	return InsertPoint{Block: f.Entry, Index: 0}
}

// Before returns the insert point immediately preceding instruction index i
// of block b.
func Before(b BlockID, i int) InsertPoint {
	return InsertPoint{Block: b, Index: i}
}

// AtBlockEnd returns the insert point just before the terminator of block b.
func AtBlockEnd(f *Func, b BlockID) InsertPoint {
	blk := f.BlockByID(b)
	if blk == nil {
		return InsertPoint{Block: b, Index: 0}
	}
	return InsertPoint{Block: b, Index: len(blk.Instrs)}
}

// InsertBefore splices instrs into f at ip, before whatever currently sits
// at ip.Index, and returns an updated InsertPoint pointing just after the
// inserted instructions — so a caller chaining several InsertBefore calls
// for the same conceptual position keeps appending in order.
func (f *Func) InsertBefore(ip InsertPoint, instrs ...Instr) InsertPoint {
	if len(instrs) == 0 {
		return ip
	}
	b := f.BlockByID(ip.Block)
	if b == nil {
		return ip
	}
	idx := ip.Index
	if idx < 0 {
		idx = 0
	}
	if idx > len(b.Instrs) {
		idx = len(b.Instrs)
	}
	grown := make([]Instr, 0, len(b.Instrs)+len(instrs))
	grown = append(grown, b.Instrs[:idx]...)
	grown = append(grown, instrs...)
	grown = append(grown, b.Instrs[idx:]...)
	b.Instrs = grown
	return InsertPoint{Block: ip.Block, Index: idx + len(instrs)}
}

// AppendPhi adds a φ instruction to the end of block b's prologue; it does
// nothing when f has no block b.
func (f *Func) AppendPhi(b BlockID, in Instr) {
	blk := f.BlockByID(b)
	if blk == nil {
		return
	}
	blk.Phis = append(blk.Phis, in)
}

// SetPhiIncoming fills in the incoming list of the φ in block b whose
// result is dst — used to finish a φ declared with AppendPhi once its
// operands are ready to be resolved.
func (f *Func) SetPhiIncoming(b BlockID, dst ValueID, incoming []PhiIncoming) error {
	blk := f.BlockByID(b)
	if blk == nil {
		return fmt.Errorf("mir: block %d not found", b)
	}
	for i := range blk.Phis {
		if blk.Phis[i].Dst == dst {
			blk.Phis[i].Phi.Incoming = incoming
			return nil
		}
	}
	return fmt.Errorf("mir: block %d has no phi with result %%%d", b, dst)
}
