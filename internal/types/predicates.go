package types

// IsSingleValue reports whether t is a non-aggregate kind: integers,
// pointers, opaque handles, function and label types. Everything else
// (arrays, structs) is an aggregate that recurses structurally in the
// Shadow-Type Mapper. The mapper gives label types no shadow at all.
func IsSingleValue(k Kind) bool {
	switch k {
	case KindInt, KindPointer, KindOpaque, KindFunc, KindLabel:
		return true
	default:
		return false
	}
}
