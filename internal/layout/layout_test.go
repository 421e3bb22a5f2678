package layout

import (
	"reflect"
	"testing"

	"symcc/internal/types"
)

func TestScalarLayouts(t *testing.T) {
	in := types.NewInterner()
	e := New(Target64, in)

	i32 := in.Intern(types.MakeInt(32))
	l, err := e.LayoutOf(i32)
	if err != nil {
		t.Fatalf("LayoutOf(i32): %v", err)
	}
	if l.Size != 4 || l.Align != 4 {
		t.Fatalf("i32 layout = %+v, want size=4 align=4", l)
	}

	ptr := in.Intern(types.MakePointer(i32))
	pl, err := e.LayoutOf(ptr)
	if err != nil {
		t.Fatalf("LayoutOf(ptr): %v", err)
	}
	if pl.Size != 8 || pl.Align != 8 {
		t.Fatalf("ptr layout = %+v, want size=8 align=8", pl)
	}
}

func TestStructFieldOffsets(t *testing.T) {
	in := types.NewInterner()
	e := New(Target64, in)

	i8 := in.Intern(types.MakeInt(8))
	i32 := in.Intern(types.MakeInt(32))

	sid := in.RegisterStruct("Mixed")
	in.SetStructFields(sid, []types.StructField{
		{Name: "flag", Type: i8},
		{Name: "value", Type: i32},
	})

	off0, err := e.FieldOffset(sid, 0)
	if err != nil {
		t.Fatalf("FieldOffset(0): %v", err)
	}
	if off0 != 0 {
		t.Fatalf("field 0 offset = %d, want 0", off0)
	}

	off1, err := e.FieldOffset(sid, 1)
	if err != nil {
		t.Fatalf("FieldOffset(1): %v", err)
	}
	if off1 != 4 {
		t.Fatalf("field 1 offset = %d, want 4 (padded for i32 alignment)", off1)
	}

	l, err := e.LayoutOf(sid)
	if err != nil {
		t.Fatalf("LayoutOf(struct): %v", err)
	}
	if l.Size != 8 {
		t.Fatalf("struct size = %d, want 8", l.Size)
	}
}

func TestArrayLayoutIsElementSizeTimesCount(t *testing.T) {
	in := types.NewInterner()
	e := New(Target64, in)

	i32 := in.Intern(types.MakeInt(32))
	arr := in.Intern(types.MakeArray(i32, 100))

	l, err := e.LayoutOf(arr)
	if err != nil {
		t.Fatalf("LayoutOf(array): %v", err)
	}
	if l.Size != 400 {
		t.Fatalf("array size = %d, want 400", l.Size)
	}
	if l.Align != 4 {
		t.Fatalf("array align = %d, want 4", l.Align)
	}
}

func TestLayoutIsCached(t *testing.T) {
	in := types.NewInterner()
	e := New(Target64, in)
	i32 := in.Intern(types.MakeInt(32))

	l1, _ := e.LayoutOf(i32)
	l2, _ := e.LayoutOf(i32)
	if !reflect.DeepEqual(l1, l2) {
		t.Fatalf("cached layout differs across calls: %+v != %+v", l1, l2)
	}
}
