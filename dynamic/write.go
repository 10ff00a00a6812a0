package dynamic

import (
	"go.uber.org/zap"

	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/errors"
	"github.com/oy3o/xcdr/types"
)

// SetScalar writes s at id. The typed setters are shorthands for it.
func (v *Value) SetScalar(id types.MemberID, s Scalar) error {
	if s == nil {
		return v.reject(id, types.KindNone, errors.New(errors.PhaseWrite, errors.KindInvalidArgument).Detail("nil scalar").Build())
	}
	if err := v.checkScalar(id, s); err != nil {
		return v.reject(id, s.Kind(), err)
	}
	v.putScalar(id, s)
	return nil
}

// SetSequence writes a copy of s at id.
func (v *Value) SetSequence(id types.MemberID, s Sequence) error {
	if s == nil {
		return v.reject(id, types.KindNone, errors.New(errors.PhaseWrite, errors.KindInvalidArgument).Detail("nil sequence").Build())
	}
	if err := v.checkSequence(id, s); err != nil {
		return v.reject(id, s.ElemKind(), err)
	}
	v.putSequence(id, s.clone())
	return nil
}

// SetComplexValue writes a deep copy of n at id. The type of n must be structurally equal
// to the type expected at id.
func (v *Value) SetComplexValue(id types.MemberID, n *Value) error {
	if err := v.checkComplex(id, n); err != nil {
		return v.reject(id, types.KindNone, err)
	}
	v.putNested(id, n.Clone())
	return nil
}

func (v *Value) reject(id types.MemberID, k types.Kind, err error) error {
	Logger().Debug("write rejected",
		zap.String("type", v.typ.Name()),
		zap.Stringer("kind", k),
		zap.Uint32("member_id", uint32(id)),
		zap.Error(err))
	return err
}

func mismatch(path []string, typeName string, format string, args ...any) error {
	return errors.New(errors.PhaseWrite, errors.KindTypeMismatch).Path(path...).Type(typeName).Detail(format, args...).Build()
}

func invalidArgument(format string, args ...any) error {
	return errors.New(errors.PhaseWrite, errors.KindInvalidArgument).Detail(format, args...).Build()
}

// target returns the member addressed by id in a structure or union.
func (l *layout) target(id types.MemberID) (*types.MemberDescriptor, error) {
	m, ok := l.base.Member(id)
	if !ok {
		return nil, mismatch(nil, l.name, "no member with id %d", id)
	}
	return m, nil
}

// accepts reports whether a scalar of kind k may be stored where t is expected.
// Enums and bitmasks take the integer kind their bit-bound selects.
func accepts(t types.Type, k types.Kind) bool {
	return types.RepresentationKind(t) == k
}

// checkInto validates s against the member or element type t.
func checkInto(t types.Type, s Scalar, path []string) error {
	tl := layoutOf(t)
	if !accepts(t, s.Kind()) {
		return mismatch(path, tl.name, "cannot hold %s", s.Kind())
	}
	return checkStringBound(tl, s, path)
}

func checkStringBound(l *layout, s Scalar, path []string) error {
	if l.bound == 0 {
		return nil
	}
	var n int
	switch x := s.(type) {
	case String8:
		n = len(x)
	case String16:
		n = len(xcdr.UTF16(string(x)))
	default:
		return nil
	}
	if uint64(n) > l.bound {
		return errors.InvalidIndex(errors.PhaseWrite, path, uint64(n), l.bound)
	}
	return nil
}

func (v *Value) checkScalar(id types.MemberID, s Scalar) error {
	l := v.layout()
	k := s.Kind()
	switch l.kind {
	case types.KindStructure:
		m, err := l.target(id)
		if err != nil {
			return err
		}
		return checkInto(m.Type, s, []string{m.Name})
	case types.KindUnion:
		if id == DiscriminatorID {
			if !accepts(l.disc, k) {
				return mismatch([]string{"discriminator"}, l.name, "discriminator cannot hold %s", k)
			}
			lab, _ := label(s)
			return v.checkDiscriminator(l, lab)
		}
		m, err := l.target(id)
		if err != nil {
			return err
		}
		if err := checkInto(m.Type, s, []string{m.Name}); err != nil {
			return err
		}
		return v.checkMember(l, m)
	case types.KindSequence, types.KindArray:
		if err := checkIndex(errors.PhaseWrite, id, l.indexBound()); err != nil {
			return err
		}
		return checkInto(l.elem, s, []string{indexPath(uint64(id))})
	case types.KindMap, types.KindBitset:
		return errors.Unsupported(errors.PhaseWrite, l.kind.String()+" values")
	}

	// the value is itself a scalar
	if id == SelfID {
		if l.repr != k {
			return mismatch(nil, l.name, "cannot hold %s", k)
		}
		if v.hasElements() {
			return invalidArgument("%s already written element by element", l.kind)
		}
		return checkStringBound(l, s, nil)
	}
	switch {
	case l.kind == types.KindString8 && k == types.KindChar8,
		l.kind == types.KindString16 && k == types.KindChar16:
		if v.Has(SelfID) {
			return invalidArgument("string already written whole")
		}
		return checkIndex(errors.PhaseWrite, id, l.bound)
	case l.kind == types.KindBitmask && k == types.KindBoolean:
		if v.Has(SelfID) {
			return invalidArgument("bitmask already written whole")
		}
		return checkIndex(errors.PhaseWrite, id, l.bound)
	}
	return invalidArgument("%s value only accepts the self id", l.kind)
}

// hasElements reports whether anything other than the whole value is stored.
func (v *Value) hasElements() bool {
	for _, id := range v.ids() {
		if id != SelfID {
			return true
		}
	}
	return false
}

// indexBound is the exclusive index limit of a collection; 0 means unbounded.
func (l *layout) indexBound() uint64 {
	if l.kind == types.KindArray {
		return l.length
	}
	return l.bound
}

// checkSequenceInto validates writing s where the collection type t is expected.
func checkSequenceInto(t types.Type, s Sequence, path []string) error {
	tl := layoutOf(t)
	if tl.kind != types.KindSequence && tl.kind != types.KindArray {
		return mismatch(path, tl.name, "cannot hold a sequence")
	}
	if !accepts(tl.elem, s.ElemKind()) {
		return mismatch(path, tl.name, "elements cannot hold %s", s.ElemKind())
	}
	if limit := tl.indexBound(); limit > 0 && uint64(s.Len()) > limit {
		return errors.InvalidIndex(errors.PhaseWrite, path, uint64(s.Len()), limit)
	}
	if el := layoutOf(tl.elem); el.kind.IsString() && el.bound > 0 {
		for i := 0; i < s.Len(); i++ {
			if err := checkStringBound(el, s.At(i), append(path, indexPath(uint64(i)))); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Value) checkSequence(id types.MemberID, s Sequence) error {
	l := v.layout()
	switch l.kind {
	case types.KindStructure:
		m, err := l.target(id)
		if err != nil {
			return err
		}
		return checkSequenceInto(m.Type, s, []string{m.Name})
	case types.KindUnion:
		if id == DiscriminatorID {
			return mismatch([]string{"discriminator"}, l.name, "discriminator cannot hold a sequence")
		}
		m, err := l.target(id)
		if err != nil {
			return err
		}
		if err := checkSequenceInto(m.Type, s, []string{m.Name}); err != nil {
			return err
		}
		return v.checkMember(l, m)
	case types.KindSequence, types.KindArray:
		if err := checkIndex(errors.PhaseWrite, id, l.indexBound()); err != nil {
			return err
		}
		return checkSequenceInto(l.elem, s, []string{indexPath(uint64(id))})
	case types.KindMap, types.KindBitset:
		return errors.Unsupported(errors.PhaseWrite, l.kind.String()+" values")
	}
	return invalidArgument("%s value cannot hold a sequence", l.kind)
}

// checkComplexInto validates storing n where t is expected.
func checkComplexInto(t types.Type, n *Value, path []string) error {
	if !types.Equal(types.Resolve(t), types.Resolve(n.typ)) {
		return mismatch(path, t.Name(), "cannot hold a value of type %s", n.typ.Name())
	}
	return nil
}

func (v *Value) checkComplex(id types.MemberID, n *Value) error {
	if n == nil {
		return invalidArgument("nil value")
	}
	if n == v {
		return invalidArgument("value inserted into itself")
	}
	l := v.layout()
	switch l.kind {
	case types.KindStructure:
		m, err := l.target(id)
		if err != nil {
			return err
		}
		return checkComplexInto(m.Type, n, []string{m.Name})
	case types.KindUnion:
		if id == DiscriminatorID {
			if err := checkComplexInto(l.disc, n, []string{"discriminator"}); err != nil {
				return err
			}
			return v.checkDiscriminator(l, n.selfLabel())
		}
		m, err := l.target(id)
		if err != nil {
			return err
		}
		if err := checkComplexInto(m.Type, n, []string{m.Name}); err != nil {
			return err
		}
		return v.checkMember(l, m)
	case types.KindSequence, types.KindArray:
		if err := checkIndex(errors.PhaseWrite, id, l.indexBound()); err != nil {
			return err
		}
		return checkComplexInto(l.elem, n, []string{indexPath(uint64(id))})
	case types.KindMap, types.KindBitset:
		return errors.Unsupported(errors.PhaseWrite, l.kind.String()+" values")
	}
	return invalidArgument("%s value cannot hold a nested value", l.kind)
}
