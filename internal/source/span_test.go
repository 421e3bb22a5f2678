package source

import "testing"

func TestSpanString(t *testing.T) {
	tests := []struct {
		name string
		span Span
		want string
	}{
		{"module only", Span{File: 3}, "<module 3>"},
		{"function site", Span{Func: "add", Block: 0, Instr: 2}, "add:bb0:i2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{Func: "f", Block: 1, Instr: 5}
	b := Span{Func: "f", Block: 0, Instr: 1}
	if got := a.Cover(b); got != b {
		t.Errorf("Cover() = %+v, want earlier span %+v", got, b)
	}

	other := Span{Func: "g", Block: 0, Instr: 0}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover() across functions changed span: got %+v, want %+v", got, a)
	}
}
