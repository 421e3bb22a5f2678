package types

import "testing"

func TestInternDeterministic(t *testing.T) {
	in := NewInterner()
	a := in.Intern(MakeInt(32))
	b := in.Intern(MakeInt(32))
	if a != b {
		t.Fatalf("Intern(int32) not stable: %d != %d", a, b)
	}

	arrA := in.Intern(MakeArray(a, 10))
	arrB := in.Intern(MakeArray(a, 10))
	if arrA != arrB {
		t.Fatalf("Intern(array) not stable: %d != %d", arrA, arrB)
	}

	arrC := in.Intern(MakeArray(a, 11))
	if arrA == arrC {
		t.Fatalf("arrays of different length interned to same TypeID")
	}
}

func TestInternPointerDistinguishesPointee(t *testing.T) {
	in := NewInterner()
	i32 := in.Intern(MakeInt(32))
	i64 := in.Intern(MakeInt(64))

	ptrToI32 := in.Intern(MakePointer(i32))
	ptrToI64 := in.Intern(MakePointer(i64))
	if ptrToI32 == ptrToI64 {
		t.Fatalf("pointer types to different pointees interned identically")
	}
}

func TestStructFields(t *testing.T) {
	in := NewInterner()
	i32 := in.Intern(MakeInt(32))
	sid := in.RegisterStruct("Point")
	in.SetStructFields(sid, []StructField{
		{Name: "x", Type: i32},
		{Name: "y", Type: i32},
	})

	info, ok := in.StructInfoOf(sid)
	if !ok {
		t.Fatalf("StructInfoOf: not found")
	}
	if len(info.Fields) != 2 || info.Fields[0].Name != "x" || info.Fields[1].Name != "y" {
		t.Fatalf("unexpected fields: %+v", info.Fields)
	}
}

func TestBuiltinsStable(t *testing.T) {
	in := NewInterner()
	b1 := in.Builtins()
	b2 := in.Builtins()
	if b1 != b2 {
		t.Fatalf("Builtins() not stable across calls")
	}
}
