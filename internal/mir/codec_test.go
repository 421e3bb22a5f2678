package mir

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m, _ := buildDiamond(t)

	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if err := Validate(decoded); err != nil {
		t.Fatalf("Validate(decoded): %v", err)
	}

	if got, want := Print(decoded), Print(m); got != want {
		t.Fatalf("round-tripped module prints differently:\ngot:\n%s\nwant:\n%s", got, want)
	}

	if _, ok := decoded.FuncByName("diamond"); !ok {
		t.Fatalf("decoded module lost function name index")
	}
}
