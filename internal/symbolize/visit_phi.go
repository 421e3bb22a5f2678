package symbolize

import (
	"symcc/internal/diag"
	"symcc/internal/mir"
)

// declarePhi implements the first half of "φ-node": it allocates the
// shadow φ's result value and caches it immediately, before any ordinary
// instruction is visited. An ordinary instruction elsewhere in the
// function may consume the original φ's result long before this builder
// gets around to resolving that φ's own incoming edges, so resolve()'s
// cache (rule 1) must already have an answer for it the first time it's
// asked — the incoming list itself is filled in later, by resolvePhiEdges.
func (b *Builder) declarePhi(f *mir.Func, block *mir.Block, in mir.Instr) mir.ValueID {
	shadowPhi := mir.Instr{
		Kind: mir.InstrPhi,
		Dst:  f.NewValue(b.opaque()),
		Type: b.opaque(),
	}
	f.AppendPhi(block.ID, shadowPhi)
	b.cache[mir.ValueOperand(in.Dst, in.Type)] = mir.ValueOperand(shadowPhi.Dst, b.opaque())
	return shadowPhi.Dst
}

// resolvePhiEdges fills in the shadow φ's incoming list, one value per
// predecessor, each resolved at the end of its predecessor block — never
// at the φ's own position, since an incoming value's shadow-producing
// code must dominate the edge it flows across, not the φ itself (P1, P5).
//
// This must run only after every block's ordinary instructions have
// already been visited: resolving an incoming value may need to insert
// new shadow code at the predecessor's block-end insertion point, and
// that point only stays valid — dominating everything already in the
// block — once nothing will be inserted earlier in that block again.
func (b *Builder) resolvePhiEdges(f *mir.Func, block *mir.Block, shadowDst mir.ValueID, in mir.Instr) error {
	incoming := make([]mir.PhiIncoming, len(in.Phi.Incoming))
	for i, inc := range in.Phi.Incoming {
		pred := f.BlockByID(inc.Block)
		if pred == nil {
			return &unsupportedError{code: diag.WarnUnknownInstruction, what: "phi incoming predecessor not found"}
		}
		shadow, _, err := b.resolve(inc.Value, mir.AtBlockEnd(f, pred.ID))
		if err != nil {
			return err
		}
		incoming[i] = mir.PhiIncoming{Block: inc.Block, Value: shadow}
	}
	return f.SetPhiIncoming(block.ID, shadowDst, incoming)
}
