package diag

import "fmt"

// Code identifies the kind of finding a diagnostic reports. Ranges mirror
// the outcome table of the pass: 1000s are warnings for constructs the pass
// deliberately leaves unshadowed, 2000s are fatal aborts (unreachable
// invariant violations, or a global initializer the pass cannot lower).
type Code uint16

const (
	UnknownCode Code = 0

	// Unsupported-skip: shadow propagation stops here, concrete program
	// is left untouched.
	WarnIndirectCall       Code = 1001
	WarnStackArray         Code = 1002
	WarnUnknownIntrinsic   Code = 1003
	WarnUnsupportedCast    Code = 1004
	WarnUnknownInstruction Code = 1005
	WarnUnsupportedType    Code = 1006

	// Fatal: implementation invariant violated or a global cannot be
	// initialized at all.
	FatalBitCastOperand   Code = 2001
	FatalGlobalInitType   Code = 2002
	FatalUnresolvedValue  Code = 2003
)

func (c Code) String() string {
	switch c {
	case UnknownCode:
		return "UNKNOWN"
	case WarnIndirectCall:
		return "W1001-indirect-call"
	case WarnStackArray:
		return "W1002-stack-array"
	case WarnUnknownIntrinsic:
		return "W1003-unknown-intrinsic"
	case WarnUnsupportedCast:
		return "W1004-unsupported-cast"
	case WarnUnknownInstruction:
		return "W1005-unknown-instruction"
	case WarnUnsupportedType:
		return "W1006-unsupported-type"
	case FatalBitCastOperand:
		return "E2001-bitcast-operand"
	case FatalGlobalInitType:
		return "E2002-global-init-type"
	case FatalUnresolvedValue:
		return "E2003-unresolved-value"
	default:
		return fmt.Sprintf("Code(%d)", uint16(c))
	}
}
