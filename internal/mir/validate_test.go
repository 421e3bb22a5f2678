package mir

import (
	"testing"

	"symcc/internal/layout"
	"symcc/internal/types"
)

// buildDiamond builds:
//
//	bb0: %0 = icmp.slt %p, i32 0; condbr %0, bb1, bb2
//	bb1: br bb3
//	bb2: br bb3
//	bb3: %1 = phi [bb1: i32 1] [bb2: i32 2]; ret %1
func buildDiamond(t *testing.T) (*Module, *Func) {
	t.Helper()
	in := types.NewInterner()
	i32 := in.Intern(types.MakeInt(32))
	lay := layout.New(layout.Target64, in)
	m := NewModule("diamond", in, lay)

	f := Func{Name: "diamond", Result: i32}
	p0 := f.NewValue(i32)
	f.Params = []Param{{ID: p0, Type: i32}}

	f.Blocks = []Block{{ID: 0}, {ID: 1}, {ID: 2}, {ID: 3}}
	f.Entry = 0

	cmpDst := f.NewValue(in.Builtins().Bool)
	f.Blocks[0].Instrs = []Instr{
		{Kind: InstrICmp, Dst: cmpDst, Type: in.Builtins().Bool, ICmp: ICmpInstr{
			Pred: CmpSlt,
			Lhs:  ValueOperand(p0, i32),
			Rhs:  ConstOperand(IntConst(i32, 32, 0)),
		}},
	}
	f.Blocks[0].Term = CondBr(ValueOperand(cmpDst, in.Builtins().Bool), 1, 2)

	f.Blocks[1].Term = Br(3)
	f.Blocks[2].Term = Br(3)

	phiDst := f.NewValue(i32)
	f.Blocks[3].Phis = []Instr{
		{Kind: InstrPhi, Dst: phiDst, Type: i32, Phi: PhiInstr{Incoming: []PhiIncoming{
			{Block: 1, Value: ConstOperand(IntConst(i32, 32, 1))},
			{Block: 2, Value: ConstOperand(IntConst(i32, 32, 2))},
		}}},
	}
	f.Blocks[3].Term = RetValue(ValueOperand(phiDst, i32))

	f.Finalize()
	m.AddFunc(f)
	return m, m.Func(0)
}

func TestValidateDiamondOK(t *testing.T) {
	m, _ := buildDiamond(t)
	if err := Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateCatchesMissingPhiIncoming(t *testing.T) {
	m, f := buildDiamond(t)
	f.Blocks[3].Phis[0].Phi.Incoming = f.Blocks[3].Phis[0].Phi.Incoming[:1]
	if err := Validate(m); err == nil {
		t.Fatalf("Validate: expected error for missing phi incoming value")
	}
}

func TestValidateCatchesUseBeforeDef(t *testing.T) {
	m, f := buildDiamond(t)
	// Move the icmp's result to be referenced by a new, earlier instruction.
	badUse := Instr{Kind: InstrBinOp, Dst: f.NewValue(f.valueTypes[0]), Type: f.valueTypes[0], BinOp: BinOpInstr{
		Op:  BinAdd,
		Lhs: ValueOperand(f.Blocks[0].Instrs[0].Dst, f.valueTypes[0]),
		Rhs: ConstOperand(IntConst(f.valueTypes[0], 32, 1)),
	}}
	f.Blocks[0].Instrs = append([]Instr{badUse}, f.Blocks[0].Instrs...)
	if err := Validate(m); err == nil {
		t.Fatalf("Validate: expected error for use before definition")
	}
}

func TestDominanceAcrossDiamond(t *testing.T) {
	_, f := buildDiamond(t)
	if !f.Dominates(0, 3) {
		t.Fatalf("entry block should dominate join block")
	}
	if f.Dominates(1, 2) || f.Dominates(2, 1) {
		t.Fatalf("sibling branches should not dominate each other")
	}
	if !f.StrictlyDominates(0, 1) {
		t.Fatalf("entry should strictly dominate bb1")
	}
}

func TestPrintIsDeterministic(t *testing.T) {
	m, _ := buildDiamond(t)
	a := Print(m)
	b := Print(m)
	if a != b {
		t.Fatalf("Print is not deterministic:\n%s\n!=\n%s", a, b)
	}
	if a == "" {
		t.Fatalf("Print returned empty output")
	}
}
