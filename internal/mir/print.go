package mir

import (
	"fmt"
	"strings"
)

// Print renders a Module as readable text, in declaration order — a
// deterministic dump (P2) useful for golden tests and diagnostics.
func Print(m *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %q\n", m.Name)
	for i := range m.Globals {
		printGlobal(&b, &m.Globals[i])
	}
	for i := range m.Funcs {
		printFunc(&b, &m.Funcs[i])
	}
	return b.String()
}

func printGlobal(b *strings.Builder, g *GlobalVar) {
	fmt.Fprintf(b, "global @%s", g.Name)
	if g.Shadow != NoGlobalID {
		fmt.Fprintf(b, " shadow=@%d", g.Shadow)
	}
	b.WriteByte('\n')
}

func printFunc(b *strings.Builder, f *Func) {
	fmt.Fprintf(b, "func @%s(", f.Name)
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%%%d", p.ID)
	}
	b.WriteString(") {\n")
	for i := range f.Blocks {
		printBlock(b, &f.Blocks[i])
	}
	b.WriteString("}\n")
}

func printBlock(b *strings.Builder, blk *Block) {
	fmt.Fprintf(b, "bb%d:\n", blk.ID)
	for _, in := range blk.Phis {
		fmt.Fprintf(b, "  %s\n", printInstr(in))
	}
	for _, in := range blk.Instrs {
		fmt.Fprintf(b, "  %s\n", printInstr(in))
	}
	fmt.Fprintf(b, "  %s\n", printTerm(blk.Term))
}

func printInstr(in Instr) string {
	lhs := ""
	if in.HasResult() {
		lhs = fmt.Sprintf("%%%d = ", in.Dst)
	}
	switch in.Kind {
	case InstrBinOp:
		return fmt.Sprintf("%s%s %s, %s", lhs, in.BinOp.Op, printOperand(in.BinOp.Lhs), printOperand(in.BinOp.Rhs))
	case InstrICmp:
		return fmt.Sprintf("%sicmp.%s %s, %s", lhs, in.ICmp.Pred, printOperand(in.ICmp.Lhs), printOperand(in.ICmp.Rhs))
	case InstrSelect:
		return fmt.Sprintf("%sselect %s, %s, %s", lhs, printOperand(in.Select.Cond), printOperand(in.Select.IfTrue), printOperand(in.Select.IfFalse))
	case InstrAlloca:
		return fmt.Sprintf("%salloca count=%s", lhs, printOperand(in.Alloca.Count))
	case InstrLoad:
		return fmt.Sprintf("%sload %s", lhs, printOperand(in.Load.Ptr))
	case InstrStore:
		return fmt.Sprintf("store %s, %s", printOperand(in.Store.Val), printOperand(in.Store.Ptr))
	case InstrGEP:
		return fmt.Sprintf("%sgep %s%s", lhs, printOperand(in.GEP.Base), printGEPIndices(in.GEP.Indices))
	case InstrBitCast:
		return fmt.Sprintf("%sbitcast %s", lhs, printOperand(in.BitCast.Val))
	case InstrTrunc:
		return fmt.Sprintf("%strunc %s to i%d", lhs, printOperand(in.Trunc.Val), in.Trunc.ToBits)
	case InstrSExt:
		return fmt.Sprintf("%ssext %s to i%d", lhs, printOperand(in.SExt.Val), in.SExt.ToBits)
	case InstrZExt:
		return fmt.Sprintf("%szext %s to i%d", lhs, printOperand(in.ZExt.Val), in.ZExt.ToBits)
	case InstrPhi:
		return fmt.Sprintf("%sphi%s", lhs, printPhiIncoming(in.Phi.Incoming))
	case InstrCall:
		return fmt.Sprintf("%scall %s%s", lhs, printCallTarget(in.Call.Target), printOperandList(in.Call.Args))
	case InstrUnknown:
		return fmt.Sprintf("%s%s%s", lhs, in.Unknown.Mnemonic, printOperandList(in.Unknown.Operands))
	default:
		return lhs + "<invalid>"
	}
}

func printTerm(t Terminator) string {
	switch t.Kind {
	case TermRet:
		if t.HasValue {
			return "ret " + printOperand(t.Value)
		}
		return "ret void"
	case TermBr:
		return fmt.Sprintf("br bb%d", t.Target)
	case TermCondBr:
		return fmt.Sprintf("condbr %s, bb%d, bb%d", printOperand(t.Cond), t.True, t.False)
	case TermUnreachable:
		return "unreachable"
	default:
		return "<invalid-term>"
	}
}

func printOperand(o Operand) string {
	switch o.Kind {
	case OperandValue:
		return fmt.Sprintf("%%%d", o.Value)
	case OperandConst:
		switch o.Const.Kind {
		case ConstInt:
			return fmt.Sprintf("i%d %d", o.Const.Bits, o.Const.I64)
		case ConstNullPtr:
			return "null"
		default:
			return "undef"
		}
	case OperandGlobalAddr:
		return fmt.Sprintf("@%d", o.Global)
	case OperandFuncAddr:
		return fmt.Sprintf("@func%d", o.Func)
	default:
		return "<invalid-operand>"
	}
}

func printOperandList(ops []Operand) string {
	if len(ops) == 0 {
		return "()"
	}
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = printOperand(o)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func printGEPIndices(idx []GEPIndex) string {
	var b strings.Builder
	for _, i := range idx {
		if i.Kind == GEPField {
			fmt.Fprintf(&b, ", field %d", i.FieldIdx)
		} else {
			fmt.Fprintf(&b, ", elem %s", printOperand(i.Index))
		}
	}
	return b.String()
}

func printPhiIncoming(incoming []PhiIncoming) string {
	var b strings.Builder
	for _, inc := range incoming {
		fmt.Fprintf(&b, " [bb%d: %s]", inc.Block, printOperand(inc.Value))
	}
	return b.String()
}

func printCallTarget(t CallTarget) string {
	switch t.Kind {
	case CallDirect:
		return fmt.Sprintf("@func%d", t.Func)
	case CallIndirect:
		return printOperand(t.Value)
	case CallIntrinsic:
		return "@" + t.Name
	default:
		return "<invalid-target>"
	}
}
