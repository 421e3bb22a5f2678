package symbolize

import "symcc/internal/types"

// ShadowTypeMapper is the Shadow-Type Mapper T: a pure, structural function
// from a MIR type to the type used to store its symbolic shadow.
// Results are memoized on the interner's own TypeID space,
// so T(T(τ)) stays well-defined and two calls on the same τ return the
// same TypeID — invariant I3 and testable property P6.
type ShadowTypeMapper struct {
	types *types.Interner
	cache map[types.TypeID]types.TypeID
}

func NewShadowTypeMapper(in *types.Interner) *ShadowTypeMapper {
	return &ShadowTypeMapper{types: in, cache: make(map[types.TypeID]types.TypeID, 64)}
}

// Map computes T(t). The second return is false when t has no shadow
// representation — callers diagnose at the point of use, not here, so a failed
// Map never itself emits a diagnostic.
func (s *ShadowTypeMapper) Map(t types.TypeID) (types.TypeID, bool) {
	if shadow, ok := s.cache[t]; ok {
		return shadow, true
	}
	shadow, ok := s.compute(t)
	if !ok {
		return types.NoTypeID, false
	}
	s.cache[t] = shadow
	return shadow, true
}

func (s *ShadowTypeMapper) compute(t types.TypeID) (types.TypeID, bool) {
	desc, ok := s.types.Lookup(t)
	if !ok {
		return types.NoTypeID, false
	}

	switch desc.Kind {
	case types.KindInt, types.KindPointer, types.KindOpaque, types.KindFunc:
		// Scalar, single-value: the shadow is an opaque σ-handle,
		// uniformly, regardless of the pointee for pointers.
		return s.types.Builtins().Opaque, true

	case types.KindArray:
		elemShadow, ok := s.Map(desc.Elem)
		if !ok {
			return types.NoTypeID, false
		}
		return s.types.Intern(types.MakeArray(elemShadow, desc.Count)), true

	case types.KindStruct:
		info, ok := s.types.StructInfoOf(t)
		if !ok {
			return types.NoTypeID, false
		}
		shadowID := s.types.RegisterStruct(info.Name + ".shadow")
		fields := make([]types.StructField, len(info.Fields))
		for i, f := range info.Fields {
			fShadow, ok := s.Map(f.Type)
			if !ok {
				return types.NoTypeID, false
			}
			fields[i] = types.StructField{Name: f.Name, Type: fShadow}
		}
		s.types.SetStructFields(shadowID, fields)
		return shadowID, true

	default:
		// KindLabel and anything else: no shadow representation.
		return types.NoTypeID, false
	}
}
