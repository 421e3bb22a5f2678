package source

import "fmt"

// Span locates a construct inside a MIR module: which function, which block,
// which instruction index within it. There is no source text at this level,
// so the coordinates are the ones a diagnostic about instrumentation
// actually needs, not a byte offset.
type Span struct {
	File  FileID
	Func  string
	Block int32
	Instr int32
}

func (s Span) String() string {
	if s.Func == "" {
		return fmt.Sprintf("<module %d>", s.File)
	}
	return fmt.Sprintf("%s:bb%d:i%d", s.Func, s.Block, s.Instr)
}

// Cover returns whichever of s and other comes first (lower block, then
// lower instruction index) when they share a function; otherwise it returns
// s unchanged, since spans in different functions cannot be meaningfully
// merged.
func (s Span) Cover(other Span) Span {
	if s.Func != other.Func {
		return s
	}
	if other.Block < s.Block || (other.Block == s.Block && other.Instr < s.Instr) {
		return other
	}
	return s
}
