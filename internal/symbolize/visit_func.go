package symbolize

import (
	"errors"

	"symcc/internal/diag"
	"symcc/internal/mir"
	"symcc/internal/source"
)

// RunFunc walks every block of f in declaration order and rewrites it in
// place with shadow computation. One Builder is created and
// discarded per function.
func RunFunc(m *mir.Module, abi *ABI, shadow *ShadowTypeMapper, f *mir.Func, file source.FileID, rep diag.Reporter) {
	b := NewBuilder(m, abi, shadow, f, file, rep)
	b.run()
}

// pendingPhi remembers one φ whose shadow destination has been declared
// (and cached, so ordinary instructions anywhere can already resolve uses
// of the original φ's result) but whose incoming list is not yet filled.
type pendingPhi struct {
	block     mir.BlockID
	orig      mir.Instr
	shadowDst mir.ValueID
}

func (b *Builder) run() {
	// Phase 1: declare every φ's shadow destination, in every block,
	// before any ordinary instruction is visited — an ordinary
	// instruction may consume the original φ's result long before this
	// loop gets around to that φ's own block.
	var pending []pendingPhi
	for bi := range b.Func.Blocks {
		blk := &b.Func.Blocks[bi]
		origPhis := append([]mir.Instr(nil), blk.Phis...)
		for _, phi := range origPhis {
			shadowDst := b.declarePhi(b.Func, blk, phi)
			pending = append(pending, pendingPhi{block: blk.ID, orig: phi, shadowDst: shadowDst})
		}
	}

	// Phase 2: ordinary instructions and terminators, every block. This
	// must finish completely before phase 3: resolving a φ's incoming
	// value may insert shadow code at its predecessor's block-end
	// insertion point, and that point only dominates everything already
	// in the block once nothing will be inserted earlier in it again.
	for bi := range b.Func.Blocks {
		blk := &b.Func.Blocks[bi]
		orig := append([]mir.Instr(nil), blk.Instrs...)
		liveIdx := 0
		for origIdx, in := range orig {
			at := mir.Before(blk.ID, liveIdx)
			newAt, err := b.visitInstr(in, at)
			if err != nil {
				b.reportInstrError(err, blk.ID, origIdx)
				newAt = at
			}
			liveIdx = newAt.Index + 1
		}

		at := mir.Before(blk.ID, liveIdx)
		if err := b.visitTerminator(blk, at); err != nil {
			b.reportInstrError(err, blk.ID, len(orig))
		}
	}

	// Phase 3: fill in every φ's incoming list now that every block's
	// ordinary instructions have settled into their final positions.
	for _, p := range pending {
		blk := b.Func.BlockByID(p.block)
		if err := b.resolvePhiEdges(b.Func, blk, p.shadowDst, p.orig); err != nil {
			b.reportInstrError(err, p.block, -1)
		}
	}
}

// visitInstr dispatches one ordinary instruction to its handler by Kind.
func (b *Builder) visitInstr(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	switch in.Kind {
	case mir.InstrBinOp:
		return b.visitBinOp(in, at)
	case mir.InstrICmp:
		return b.visitICmp(in, at)
	case mir.InstrSelect:
		return b.visitSelect(in, at)
	case mir.InstrAlloca:
		return b.visitAlloca(in, at)
	case mir.InstrLoad:
		return b.visitLoad(in, at)
	case mir.InstrStore:
		return b.visitStore(in, at)
	case mir.InstrGEP:
		return b.visitGEP(in, at)
	case mir.InstrBitCast:
		return b.visitBitCast(in, at)
	case mir.InstrTrunc:
		return b.visitTrunc(in, at)
	case mir.InstrSExt:
		return b.visitSExt(in, at)
	case mir.InstrZExt:
		return b.visitZExt(in, at)
	case mir.InstrCall:
		return b.visitCall(in, at)
	case mir.InstrPhi:
		// φ-nodes live in Block.Phis and are handled by the prologue pass
		// above; an InstrPhi reaching here would mean one was misplaced
		// into Instrs.
		return at, &unsupportedError{code: diag.WarnUnknownInstruction, what: "phi found outside block prologue"}
	default:
		return at, &unsupportedError{code: diag.WarnUnknownInstruction, what: "instruction kind " + in.Kind.String()}
	}
}

// reportInstrError classifies and reports an error from a visitor:
// unsupportedError is the "unsupported-skip" outcome and
// reports at Warning severity with its own code; anything else —
// including ErrUnsupportedValue surfacing from resolve's fallthrough rule
// — is the "assertion" outcome and is fatal.
func (b *Builder) reportInstrError(err error, blockID mir.BlockID, instrIdx int) {
	span := b.spanAt(blockID, instrIdx)
	var ue *unsupportedError
	if errors.As(err, &ue) {
		b.reportWarning(ue.code, span, err.Error())
		return
	}
	b.reportFatal(diag.FatalUnresolvedValue, span, err.Error())
}
