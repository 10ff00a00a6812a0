package dynamic

import "github.com/oy3o/xcdr/types"

// Default returns the value an unwritten member of type t encodes as, for types carried as a
// single scalar: false, zero, the default enumerator, an empty mask or an empty string.
func Default(t types.Type) (Scalar, bool) {
	if t == nil {
		return nil, false
	}
	z := layoutOf(t).zero
	return z, z != nil
}

func zeroOf(l *layout) Scalar {
	switch l.kind {
	case types.KindFloat32:
		return Float32(0)
	case types.KindFloat64:
		return Float64(0)
	case types.KindFloat128:
		return Float128{}
	case types.KindString8:
		return String8("")
	case types.KindString16:
		return String16("")
	case types.KindEnum:
		lit, _ := types.DefaultLiteral(l.base)
		s, _ := integer(l.repr, int64(lit.Value))
		return s
	case types.KindBitmask:
		if l.repr == types.KindNone {
			return nil
		}
		return mask(l.repr, 0)
	}
	s, _ := integer(l.repr, 0)
	return s
}

// defaultLabel is the label of a union whose discriminator was never written.
func defaultLabel(disc types.Type) int64 {
	if l := layoutOf(disc); l.kind == types.KindEnum {
		lit, _ := types.DefaultLiteral(l.base)
		return int64(lit.Value)
	}
	return 0
}
