package types

import "reflect"

// Type is the read-only view of a runtime type the codec consumes.
// Implementations must not change after construction.
type Type interface {
	Kind() Kind
	Name() string
	Descriptor() *TypeDescriptor
	MemberCount() int
	Member(id MemberID) (*MemberDescriptor, bool)
	MemberByIndex(index int) (*MemberDescriptor, bool)
	MemberByName(name string) (*MemberDescriptor, bool)
}

// TypeDescriptor carries the kind-specific attributes of a type.
// For enums and bitmasks Bound[0] is the bit-bound; for strings and sequences
// Bound[0] is the maximum length (0 = unbounded); arrays list their dimensions.
type TypeDescriptor struct {
	Kind              Kind
	Name              string
	BaseType          Type
	DiscriminatorType Type
	ElementType       Type
	KeyElementType    Type
	Bound             []uint32
	Extensibility     Extensibility
	Literals          []Literal
}

// Literal is an enumerator of an enum or a flag of a bitmask.
// For flags Value is the bit position.
type Literal struct {
	Name    string
	Value   int32
	Default bool
}

// MemberDescriptor describes one member of a structure or union.
type MemberDescriptor struct {
	ID             MemberID
	Name           string
	Index          int
	Type           Type
	Optional       bool
	MustUnderstand bool
	Key            bool
	Labels         []int64
	DefaultLabel   bool
}

// HasLabel reports whether label is one of the member's case labels.
func (m *MemberDescriptor) HasLabel(label int64) bool {
	for _, l := range m.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// dynamicType is the Type implementation built by this package.
type dynamicType struct {
	desc    TypeDescriptor
	members []*MemberDescriptor
	byID    map[MemberID]*MemberDescriptor
	byName  map[string]*MemberDescriptor
}

var _ Type = (*dynamicType)(nil)

func (t *dynamicType) Kind() Kind                  { return t.desc.Kind }
func (t *dynamicType) Name() string                { return t.desc.Name }
func (t *dynamicType) Descriptor() *TypeDescriptor { return &t.desc }
func (t *dynamicType) MemberCount() int            { return len(t.members) }

func (t *dynamicType) Member(id MemberID) (*MemberDescriptor, bool) {
	m, ok := t.byID[id]
	return m, ok
}

func (t *dynamicType) MemberByIndex(index int) (*MemberDescriptor, bool) {
	if index < 0 || index >= len(t.members) {
		return nil, false
	}
	return t.members[index], true
}

func (t *dynamicType) MemberByName(name string) (*MemberDescriptor, bool) {
	m, ok := t.byName[name]
	return m, ok
}

func (t *dynamicType) String() string { return Describe(t) }

// Comparable reports whether t can be used with == and as a map key. Types built by this
// package always can; value-typed implementations holding slices cannot.
func Comparable(t Type) bool {
	return t != nil && reflect.TypeOf(t).Comparable()
}

// Resolve follows alias chains to the underlying type.
func Resolve(t Type) Type {
	for t != nil && t.Kind() == KindAlias {
		t = t.Descriptor().BaseType
	}
	return t
}

// BitBound returns the bit-bound of an enum or bitmask, 0 for other kinds.
func BitBound(t Type) uint32 {
	t = Resolve(t)
	if t == nil {
		return 0
	}
	switch t.Kind() {
	case KindEnum, KindBitmask:
		if b := t.Descriptor().Bound; len(b) > 0 {
			return b[0]
		}
	}
	return 0
}

// Bound returns Bound[0] of t, 0 if unset.
func Bound(t Type) uint32 {
	if b := Resolve(t).Descriptor().Bound; len(b) > 0 {
		return b[0]
	}
	return 0
}

// ArrayLength is the number of elements of an array: the product of its dimensions.
func ArrayLength(t Type) uint64 {
	n := uint64(1)
	for _, d := range Resolve(t).Descriptor().Bound {
		n *= uint64(d)
	}
	return n
}

// RepresentationKind is the primitive kind a value of t is carried as on the wire.
// Enums and bitmasks map to the integer kind selected by their bit-bound; primitive and
// string kinds map to themselves; other kinds map to KindNone.
func RepresentationKind(t Type) Kind {
	t = Resolve(t)
	if t == nil {
		return KindNone
	}
	k := t.Kind()
	switch {
	case k.IsPrimitive(), k.IsString():
		return k
	case k == KindEnum:
		return EnumKind(BitBound(t))
	case k == KindBitmask:
		return BitmaskKind(BitBound(t))
	}
	return KindNone
}

// EnumKind is the signed integer kind holding an enum with the given bit-bound.
func EnumKind(bitBound uint32) Kind {
	switch {
	case bitBound >= 1 && bitBound <= 8:
		return KindInt8
	case bitBound >= 9 && bitBound <= 16:
		return KindInt16
	case bitBound >= 17 && bitBound <= 32:
		return KindInt32
	}
	return KindNone
}

// BitmaskKind is the unsigned integer kind holding a bitmask with the given bit-bound.
func BitmaskKind(bitBound uint32) Kind {
	switch {
	case bitBound >= 1 && bitBound <= 8:
		return KindUInt8
	case bitBound >= 9 && bitBound <= 16:
		return KindUInt16
	case bitBound >= 17 && bitBound <= 32:
		return KindUInt32
	case bitBound >= 33 && bitBound <= 64:
		return KindUInt64
	}
	return KindNone
}

// DefaultLiteral is the enumerator an unwritten enum takes: the one flagged default,
// else the first declared.
func DefaultLiteral(t Type) (Literal, bool) {
	lits := Resolve(t).Descriptor().Literals
	for _, l := range lits {
		if l.Default {
			return l, true
		}
	}
	if len(lits) == 0 {
		return Literal{}, false
	}
	return lits[0], true
}

// LiteralByName finds an enumerator or flag by name.
func LiteralByName(t Type, name string) (Literal, bool) {
	for _, l := range Resolve(t).Descriptor().Literals {
		if l.Name == name {
			return l, true
		}
	}
	return Literal{}, false
}

// LiteralByValue finds an enumerator by value.
func LiteralByValue(t Type, v int32) (Literal, bool) {
	for _, l := range Resolve(t).Descriptor().Literals {
		if l.Value == v {
			return l, true
		}
	}
	return Literal{}, false
}

// DefaultMember is the union member selected when no other member's labels match.
func DefaultMember(t Type) (*MemberDescriptor, bool) {
	t = Resolve(t)
	for i := 0; i < t.MemberCount(); i++ {
		m, _ := t.MemberByIndex(i)
		if m.DefaultLabel {
			return m, true
		}
	}
	return nil, false
}

// SelectMember returns the union member selected by a discriminator value.
func SelectMember(t Type, label int64) (*MemberDescriptor, bool) {
	t = Resolve(t)
	for i := 0; i < t.MemberCount(); i++ {
		m, _ := t.MemberByIndex(i)
		if m.HasLabel(label) {
			return m, true
		}
	}
	return DefaultMember(t)
}
