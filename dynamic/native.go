package dynamic

import (
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	"golang.org/x/exp/constraints"

	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/errors"
	"github.com/oy3o/xcdr/types"
)

// DiscriminatorKey is the mapping key FromNative reads a union discriminator from.
const DiscriminatorKey = "discriminator"

// FromNative builds a value of type t from a decoded YAML or JSON tree.
//
// Structures are mappings by member name. A union is a mapping holding at most one member
// and optionally DiscriminatorKey. Sequences and arrays are lists. Enums take an enumerator
// name or number, bitmasks a list of flag names or a number. Every write goes through the
// regular write protocol.
func FromNative(t types.Type, data any) (*Value, error) {
	if t == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidArgument).Detail("nil type").Build()
	}
	v := New(t)
	if err := v.populate(data); err != nil {
		return nil, err
	}
	return v, nil
}

func loadMismatch(path []string, t types.Type, data any, want string) error {
	return errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
		Path(path...).
		Type(t.Name()).
		Value(data).
		Detail("expected %s, got %T", want, data).
		Build()
}

func (v *Value) populate(data any) error {
	l := v.layout()
	switch l.kind {
	case types.KindStructure:
		fields, ok := data.(map[string]any)
		if !ok {
			return loadMismatch(nil, v.typ, data, "a mapping")
		}
		for _, name := range sortedKeys(fields) {
			m, ok := l.base.MemberByName(name)
			if !ok {
				return errors.New(errors.PhaseLoad, errors.KindNotFound).Path(name).Type(l.name).Detail("no such member").Build()
			}
			if err := v.fill(m.ID, m.Type, fields[name]); err != nil {
				return errors.WithPath(err, name)
			}
		}
		return nil

	case types.KindUnion:
		fields, ok := data.(map[string]any)
		if !ok {
			return loadMismatch(nil, v.typ, data, "a mapping")
		}
		if d, ok := fields[DiscriminatorKey]; ok {
			if err := v.fill(DiscriminatorID, l.disc, d); err != nil {
				return errors.WithPath(err, DiscriminatorKey)
			}
		}
		for _, name := range sortedKeys(fields) {
			if name == DiscriminatorKey {
				continue
			}
			m, ok := l.base.MemberByName(name)
			if !ok {
				return errors.New(errors.PhaseLoad, errors.KindNotFound).Path(name).Type(l.name).Detail("no such member").Build()
			}
			if err := v.fill(m.ID, m.Type, fields[name]); err != nil {
				return errors.WithPath(err, name)
			}
		}
		return nil

	case types.KindSequence, types.KindArray:
		items, ok := data.([]any)
		if !ok {
			return loadMismatch(nil, v.typ, data, "a list")
		}
		for i, item := range items {
			if err := v.fill(types.MemberID(i), l.elem, item); err != nil {
				return errors.WithPath(err, indexPath(uint64(i)))
			}
		}
		return nil

	case types.KindMap, types.KindBitset:
		return errors.Unsupported(errors.PhaseLoad, l.kind.String()+" values")
	}

	s, err := scalarFor(v.typ, data)
	if err != nil {
		return err
	}
	return v.SetScalar(SelfID, s)
}

// fill writes data at id where a value of type t is expected.
func (v *Value) fill(id types.MemberID, t types.Type, data any) error {
	if layoutOf(t).scalarLike() {
		s, err := scalarFor(t, data)
		if err != nil {
			return err
		}
		return v.SetScalar(id, s)
	}
	n := New(t)
	if err := n.populate(data); err != nil {
		return err
	}
	if err := v.checkComplex(id, n); err != nil {
		return v.reject(id, types.KindNone, err)
	}
	v.putNested(id, n)
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// scalarFor converts a decoded leaf to the scalar carrying a value of type t.
func scalarFor(t types.Type, data any) (Scalar, error) {
	l := layoutOf(t)
	switch l.kind {
	case types.KindEnum:
		if name, ok := data.(string); ok {
			lit, ok := types.LiteralByName(l.base, name)
			if !ok {
				return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).Type(l.name).Detail("no enumerator %q", name).Build()
			}
			data = int64(lit.Value)
		}
	case types.KindBitmask:
		return maskFor(l, data)
	case types.KindBoolean:
		if b, ok := data.(bool); ok {
			return Bool(b), nil
		}
		return nil, loadMismatch(nil, t, data, "a boolean")
	case types.KindFloat32, types.KindFloat64, types.KindFloat128:
		f, ok := toFloat(data)
		if !ok {
			return nil, loadMismatch(nil, t, data, "a number")
		}
		switch l.kind {
		case types.KindFloat32:
			if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
				return nil, loadMismatch(nil, t, data, "a float32")
			}
			return Float32(f), nil
		case types.KindFloat64:
			return Float64(f), nil
		}
		return F128(f), nil
	case types.KindChar8:
		if s, ok := data.(string); ok && len(s) == 1 {
			return Char8(s[0]), nil
		}
		return nil, loadMismatch(nil, t, data, "a single byte character")
	case types.KindChar16:
		if s, ok := data.(string); ok && utf8.RuneCountInString(s) == 1 {
			if r, _ := utf8.DecodeRuneInString(s); r <= math.MaxUint16 {
				return Char16(r), nil
			}
		}
		return nil, loadMismatch(nil, t, data, "a BMP character")
	case types.KindString8, types.KindString16:
		s, ok := data.(string)
		if !ok {
			return nil, loadMismatch(nil, t, data, "a string")
		}
		if l.kind == types.KindString8 {
			return String8(s), nil
		}
		return String16(s), nil
	case types.KindUInt64:
		if u, ok := toUint64(data); ok {
			return UInt64(u), nil
		}
		return nil, loadMismatch(nil, t, data, "an unsigned integer")
	}
	if !l.scalarLike() {
		return nil, loadMismatch(nil, t, data, l.kind.String())
	}
	n, ok := toInt64(data)
	if !ok {
		return nil, loadMismatch(nil, t, data, "an integer")
	}
	s, ok := integer(l.repr, n)
	if !ok {
		return nil, loadMismatch(nil, t, data, l.repr.String()+" in range")
	}
	return s, nil
}

func maskFor(l *layout, data any) (Scalar, error) {
	if l.repr == types.KindNone {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidType).Type(l.name).Detail("bit-bound %d", l.bound).Build()
	}
	var flags uint64
	add := func(item any) error {
		name, ok := item.(string)
		if !ok {
			return loadMismatch(nil, l.base, item, "a flag name")
		}
		lit, ok := types.LiteralByName(l.base, name)
		if !ok {
			return errors.New(errors.PhaseLoad, errors.KindNotFound).Type(l.name).Detail("no flag %q", name).Build()
		}
		flags |= 1 << uint(lit.Value)
		return nil
	}
	switch d := data.(type) {
	case []any:
		for _, item := range d {
			if err := add(item); err != nil {
				return nil, err
			}
		}
	case string:
		if err := add(d); err != nil {
			return nil, err
		}
	default:
		u, ok := toUint64(data)
		if !ok {
			return nil, loadMismatch(nil, l.base, data, "flag names or a number")
		}
		flags = u
	}
	if l.bound < 64 && flags>>l.bound != 0 {
		return nil, loadMismatch(nil, l.base, data, "flags below bit "+strconv.FormatUint(l.bound, 10))
	}
	return mask(l.repr, flags), nil
}

func toInt64(data any) (int64, bool) {
	switch x := data.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return fromUnsigned(x)
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return fromUnsigned(x)
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x), true
		}
	}
	return 0, false
}

func fromUnsigned[T constraints.Unsigned](x T) (int64, bool) {
	if uint64(x) > math.MaxInt64 {
		return 0, false
	}
	return int64(x), true
}

func toUint64(data any) (uint64, bool) {
	switch x := data.(type) {
	case uint:
		return uint64(x), true
	case uint64:
		return x, true
	case float64:
		if x == math.Trunc(x) && x >= 0 && x < math.MaxUint64 {
			return uint64(x), true
		}
		return 0, false
	}
	n, ok := toInt64(data)
	if !ok || n < 0 {
		return 0, false
	}
	return uint64(n), true
}

func toFloat(data any) (float64, bool) {
	switch x := data.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case xcdr.Float128:
		return x.Float64(), true
	}
	if n, ok := toInt64(data); ok {
		return float64(n), true
	}
	if u, ok := toUint64(data); ok {
		return float64(u), true
	}
	return 0, false
}
