package symbolize

import (
	"strings"

	"symcc/internal/diag"
	"symcc/internal/mir"
)

// visitCall implements call-site dispatch: indirect
// calls have no symbolic fallback, calls into the runtime ABI itself are
// never re-instrumented, intrinsics get special-cased handling, and an
// ordinary direct call threads the caller's argument/return shadows
// through _sym_set_parameter_expression / _sym_get_return_expression.
func (b *Builder) visitCall(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	switch in.Call.Target.Kind {
	case mir.CallIndirect:
		return at, &unsupportedError{code: diag.WarnIndirectCall, what: "indirect call"}

	case mir.CallIntrinsic:
		return b.visitIntrinsicCall(in, at)

	case mir.CallDirect:
		return b.visitDirectCall(in, at)

	default:
		return at, &unsupportedError{code: diag.WarnUnknownInstruction, what: "call target kind"}
	}
}

// visitIntrinsicCall implements intrinsic table: lifetime
// markers are no-ops (they carry no concrete semantics to shadow),
// llvm.memcpy-family intrinsics lower to _sym_memcpy, and anything else is
// unsupported-skip.
func (b *Builder) visitIntrinsicCall(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	name := in.Call.Target.Name
	switch {
	case strings.Contains(name, "lifetime.start"), strings.Contains(name, "lifetime.end"):
		return at, nil

	case strings.Contains(name, "memcpy"):
		if len(in.Call.Args) < 3 {
			return at, &unsupportedError{code: diag.WarnUnknownIntrinsic, what: "memcpy intrinsic arity"}
		}
		// _sym_memcpy takes the concrete destination/source pointers and a
		// concrete uptr length, not shadow handles — it indexes the
		// runtime's own shadow memory from these addresses directly.
		at = b.emitVoidCall(at, b.ABI.Memcpy, in.Call.Args[0], in.Call.Args[1], in.Call.Args[2])
		return at, nil

	default:
		return at, &unsupportedError{code: diag.WarnUnknownIntrinsic, what: "intrinsic " + name}
	}
}

// visitDirectCall implements the ordinary call case: a call into the
// runtime ABI (other than the build-variable sentinel) passes through
// untouched — it is the pass's own output — while every other direct
// call, including
// build-variable, gets its argument shadows exported before the call and
// its return shadow imported after.
func (b *Builder) visitDirectCall(in mir.Instr, at mir.InsertPoint) (mir.InsertPoint, error) {
	callee := b.Module.Func(in.Call.Target.Func)
	if callee != nil && strings.HasPrefix(callee.Name, runtimeFuncPrefix) && callee.Name != buildVariableName {
		return at, nil
	}

	for i, arg := range in.Call.Args {
		argShadow, newAt, err := b.resolve(arg, at)
		if err != nil {
			return at, err
		}
		at = newAt
		at = b.emitVoidCall(at, b.ABI.SetParameterExpr, intArg(b, i), argShadow)
	}

	if in.HasResult() {
		// _sym_get_return_expression reads the runtime's last-return slot,
		// so it must run after the concrete call, not before it — insert it
		// one slot past the call's own position rather than at `at`, which
		// still points at the call itself.
		afterCall := mir.Before(at.Block, at.Index+1)
		retShadow, _ := b.emitCall(afterCall, b.ABI.GetReturnExpr, b.opaque())
		b.cache[mir.ValueOperand(in.Dst, in.Type)] = retShadow
		return afterCall, nil
	}
	return at, nil
}
