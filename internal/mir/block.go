package mir

import "symcc/internal/source"

// Block is a basic block: a φ-node prologue, a straight-line instruction
// list, and one terminator. Preds/Succs are derived from the function's
// terminators by Func.Finalize and are not part of the serialized form.
type Block struct {
	ID   BlockID
	Name string

	Phis   []Instr // each has Kind == InstrPhi
	Instrs []Instr
	Term   Terminator

	Preds []BlockID `msgpack:"-"`
	Succs []BlockID `msgpack:"-"`
}

// SpanAt returns the diagnostic span for the instruction at index i within
// Instrs (i == -1 means "the block's φ prologue", used for φ-arity
// diagnostics).
func (b *Block) SpanAt(file source.FileID, fn string, i int) source.Span {
	idx := int32(i)
	return source.Span{File: file, Func: fn, Block: int32(b.ID), Instr: idx}
}
