package types

import (
	"fmt"
	"math"

	"github.com/oy3o/xcdr/errors"
)

// Primitive and unbounded string types.
var (
	Boolean  = primitive(KindBoolean)
	Byte     = primitive(KindByte)
	Int8     = primitive(KindInt8)
	UInt8    = primitive(KindUInt8)
	Int16    = primitive(KindInt16)
	UInt16   = primitive(KindUInt16)
	Int32    = primitive(KindInt32)
	UInt32   = primitive(KindUInt32)
	Int64    = primitive(KindInt64)
	UInt64   = primitive(KindUInt64)
	Float32  = primitive(KindFloat32)
	Float64  = primitive(KindFloat64)
	Float128 = primitive(KindFloat128)
	Char8    = primitive(KindChar8)
	Char16   = primitive(KindChar16)
	String8  = String8Of(0)
	String16 = String16Of(0)
)

var primitives = map[Kind]Type{}

func primitive(k Kind) Type {
	t := &dynamicType{desc: TypeDescriptor{Kind: k, Name: k.String()}}
	primitives[k] = t
	return t
}

// Primitive returns the shared type of a primitive kind.
func Primitive(k Kind) (Type, bool) {
	t, ok := primitives[k]
	return t, ok
}

func invalid(name, format string, args ...any) error {
	return errors.New(errors.PhaseDefine, errors.KindInvalidType).Type(name).Detail(format, args...).Build()
}

// String8Of returns a narrow string type holding at most bound characters (0 = unbounded).
func String8Of(bound uint32) Type {
	return &dynamicType{desc: TypeDescriptor{Kind: KindString8, Name: boundedName("string8", bound), Bound: []uint32{bound}}}
}

// String16Of returns a wide string type holding at most bound characters (0 = unbounded).
func String16Of(bound uint32) Type {
	return &dynamicType{desc: TypeDescriptor{Kind: KindString16, Name: boundedName("string16", bound), Bound: []uint32{bound}}}
}

func boundedName(base string, bound uint32) string {
	if bound == 0 {
		return base
	}
	return fmt.Sprintf("%s<%d>", base, bound)
}

// SequenceOf returns a sequence type of at most bound elements (0 = unbounded).
func SequenceOf(elem Type, bound uint32) Type {
	name := "sequence<" + elem.Name()
	if bound > 0 {
		name += fmt.Sprintf(",%d", bound)
	}
	return &dynamicType{desc: TypeDescriptor{Kind: KindSequence, Name: name + ">", ElementType: elem, Bound: []uint32{bound}}}
}

// ArrayOf returns an array type with the given dimensions.
func ArrayOf(elem Type, dims ...uint32) (Type, error) {
	name := elem.Name()
	for _, d := range dims {
		name += fmt.Sprintf("[%d]", d)
	}
	if len(dims) == 0 {
		return nil, invalid(name, "array without dimensions")
	}
	n := uint64(1)
	for _, d := range dims {
		if d == 0 {
			return nil, invalid(name, "zero array dimension")
		}
		n *= uint64(d)
		if n > math.MaxUint32 {
			return nil, invalid(name, "array length exceeds 32 bits")
		}
	}
	return &dynamicType{desc: TypeDescriptor{Kind: KindArray, Name: name, ElementType: elem, Bound: append([]uint32(nil), dims...)}}, nil
}

// MapOf returns a map type. Maps can be described but not encoded.
func MapOf(key, elem Type, bound uint32) Type {
	name := fmt.Sprintf("map<%s,%s", key.Name(), elem.Name())
	if bound > 0 {
		name += fmt.Sprintf(",%d", bound)
	}
	return &dynamicType{desc: TypeDescriptor{Kind: KindMap, Name: name + ">", KeyElementType: key, ElementType: elem, Bound: []uint32{bound}}}
}

// AliasOf names another type.
func AliasOf(name string, base Type) Type {
	return &dynamicType{desc: TypeDescriptor{Kind: KindAlias, Name: name, BaseType: base}}
}

// EnumOf builds an enum. Literals without explicit values should be numbered by the
// caller; values and names must be unique.
func EnumOf(name string, bitBound uint32, literals ...Literal) (Type, error) {
	if EnumKind(bitBound) == KindNone {
		return nil, invalid(name, "enum bit-bound %d outside 1..32", bitBound)
	}
	if len(literals) == 0 {
		return nil, invalid(name, "enum without literals")
	}
	limit := int64(1) << (bitBound - 1)
	if err := checkLiterals(name, literals, func(v int32) bool { return int64(v) >= -limit && int64(v) < limit }); err != nil {
		return nil, err
	}
	return &dynamicType{desc: TypeDescriptor{Kind: KindEnum, Name: name, Bound: []uint32{bitBound}, Literals: append([]Literal(nil), literals...)}}, nil
}

// BitmaskOf builds a bitmask whose flags name bit positions.
func BitmaskOf(name string, bitBound uint32, flags ...Literal) (Type, error) {
	if BitmaskKind(bitBound) == KindNone {
		return nil, invalid(name, "bitmask bit-bound %d outside 1..64", bitBound)
	}
	if err := checkLiterals(name, flags, func(v int32) bool { return v >= 0 && uint32(v) < bitBound }); err != nil {
		return nil, err
	}
	return &dynamicType{desc: TypeDescriptor{Kind: KindBitmask, Name: name, Bound: []uint32{bitBound}, Literals: append([]Literal(nil), flags...)}}, nil
}

func checkLiterals(name string, lits []Literal, inRange func(int32) bool) error {
	names := make(map[string]bool, len(lits))
	values := make(map[int32]bool, len(lits))
	defaults := 0
	for _, l := range lits {
		if l.Name == "" || names[l.Name] {
			return invalid(name, "duplicate or empty literal name %q", l.Name)
		}
		if values[l.Value] {
			return invalid(name, "duplicate literal value %d", l.Value)
		}
		if !inRange(l.Value) {
			return invalid(name, "literal %s value %d out of range", l.Name, l.Value)
		}
		if l.Default {
			defaults++
		}
		names[l.Name], values[l.Value] = true, true
	}
	if defaults > 1 {
		return invalid(name, "more than one default literal")
	}
	return nil
}

// MemberOption adjusts a member being added to a builder.
type MemberOption func(*MemberDescriptor)

func Optional() MemberOption       { return func(m *MemberDescriptor) { m.Optional = true } }
func MustUnderstand() MemberOption { return func(m *MemberDescriptor) { m.MustUnderstand = true } }

// Key marks a key member. Key members are always must-understand.
func Key() MemberOption {
	return func(m *MemberDescriptor) { m.Key, m.MustUnderstand = true, true }
}

type aggregate struct {
	t   *dynamicType
	err error
}

func (a *aggregate) add(m *MemberDescriptor, opts []MemberOption) {
	if a.err != nil {
		return
	}
	for _, o := range opts {
		o(m)
	}
	name := a.t.desc.Name
	switch {
	case m.Type == nil:
		a.err = invalid(name, "member %q has no type", m.Name)
	case m.Name == "":
		a.err = invalid(name, "member without name")
	case m.ID > MaxMemberID:
		a.err = invalid(name, "member %q id 0x%x exceeds 0x%x", m.Name, uint32(m.ID), uint32(MaxMemberID))
	case a.t.byName[m.Name] != nil:
		a.err = invalid(name, "duplicate member name %q", m.Name)
	case a.t.byID[m.ID] != nil:
		a.err = invalid(name, "duplicate member id %d", m.ID)
	}
	if a.err != nil {
		return
	}
	m.Index = len(a.t.members)
	a.t.members = append(a.t.members, m)
	a.t.byID[m.ID] = m
	a.t.byName[m.Name] = m
}

func newAggregate(k Kind, name string) aggregate {
	return aggregate{t: &dynamicType{
		desc:   TypeDescriptor{Kind: k, Name: name},
		byID:   make(map[MemberID]*MemberDescriptor),
		byName: make(map[string]*MemberDescriptor),
	}}
}

// StructBuilder assembles a structure type.
type StructBuilder struct {
	aggregate
}

// NewStruct starts a final structure.
func NewStruct(name string) *StructBuilder {
	return &StructBuilder{newAggregate(KindStructure, name)}
}

func (b *StructBuilder) Extensibility(e Extensibility) *StructBuilder {
	b.t.desc.Extensibility = e
	return b
}

// Base inherits the members of a base structure ahead of the members added next.
func (b *StructBuilder) Base(base Type) *StructBuilder {
	r := Resolve(base)
	if r == nil || r.Kind() != KindStructure {
		b.err = invalid(b.t.desc.Name, "base type is not a structure")
		return b
	}
	b.t.desc.BaseType = base
	for i := 0; i < r.MemberCount(); i++ {
		m, _ := r.MemberByIndex(i)
		c := *m
		b.add(&c, nil)
	}
	return b
}

// Member adds a member with the given id.
func (b *StructBuilder) Member(name string, id MemberID, t Type, opts ...MemberOption) *StructBuilder {
	b.add(&MemberDescriptor{ID: id, Name: name, Type: t}, opts)
	return b
}

// Next adds a member whose id follows the last member's id.
func (b *StructBuilder) Next(name string, t Type, opts ...MemberOption) *StructBuilder {
	return b.Member(name, b.nextID(), t, opts...)
}

func (a *aggregate) nextID() MemberID {
	if n := len(a.t.members); n > 0 {
		return a.t.members[n-1].ID + 1
	}
	return 0
}

func (b *StructBuilder) Build() (Type, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.t, nil
}

// UnionBuilder assembles a union type.
type UnionBuilder struct {
	aggregate
}

// NewUnion starts a final union discriminated by disc.
func NewUnion(name string, disc Type) *UnionBuilder {
	b := &UnionBuilder{newAggregate(KindUnion, name)}
	b.t.desc.DiscriminatorType = disc
	if disc == nil || !Resolve(disc).Kind().IsDiscriminator() {
		b.err = invalid(name, "invalid discriminator type")
	}
	return b
}

func (b *UnionBuilder) Extensibility(e Extensibility) *UnionBuilder {
	b.t.desc.Extensibility = e
	return b
}

// Case adds a member selected by any of labels.
func (b *UnionBuilder) Case(name string, id MemberID, t Type, labels ...int64) *UnionBuilder {
	if b.err == nil && len(labels) == 0 {
		b.err = invalid(b.t.desc.Name, "case %q without labels", name)
		return b
	}
	b.add(&MemberDescriptor{ID: id, Name: name, Type: t, Labels: append([]int64(nil), labels...)}, nil)
	return b
}

// Default adds the member selected when no other case label matches.
// It may carry labels of its own.
func (b *UnionBuilder) Default(name string, id MemberID, t Type, labels ...int64) *UnionBuilder {
	b.add(&MemberDescriptor{ID: id, Name: name, Type: t, Labels: append([]int64(nil), labels...), DefaultLabel: true}, nil)
	return b
}

func (b *UnionBuilder) Build() (Type, error) {
	if b.err != nil {
		return nil, b.err
	}
	name := b.t.desc.Name
	seen := make(map[int64]string)
	defaults := 0
	disc := Resolve(b.t.desc.DiscriminatorType)
	for _, m := range b.t.members {
		if m.Optional {
			return nil, invalid(name, "union member %q cannot be optional", m.Name)
		}
		if m.ID == 0 && b.t.desc.Extensibility == Mutable {
			return nil, invalid(name, "member id 0 is reserved for the discriminator of a mutable union")
		}
		if m.DefaultLabel {
			defaults++
		}
		for _, l := range m.Labels {
			if prev, dup := seen[l]; dup {
				return nil, invalid(name, "label %d used by %q and %q", l, prev, m.Name)
			}
			if !labelFits(disc, l) {
				return nil, invalid(name, "label %d does not fit discriminator %s", l, disc.Name())
			}
			seen[l] = m.Name
		}
	}
	if defaults > 1 {
		return nil, invalid(name, "more than one default member")
	}
	return b.t, nil
}

// labelFits reports whether a case label is representable by the discriminator type.
func labelFits(disc Type, l int64) bool {
	switch disc.Kind() {
	case KindBoolean:
		return l == 0 || l == 1
	case KindByte, KindUInt8, KindChar8:
		return l >= 0 && l <= math.MaxUint8
	case KindInt8:
		return l >= math.MinInt8 && l <= math.MaxInt8
	case KindInt16:
		return l >= math.MinInt16 && l <= math.MaxInt16
	case KindUInt16, KindChar16:
		return l >= 0 && l <= math.MaxUint16
	case KindInt32:
		return l >= math.MinInt32 && l <= math.MaxInt32
	case KindUInt32:
		return l >= 0 && l <= math.MaxUint32
	case KindEnum:
		_, ok := LiteralByValue(disc, int32(l))
		return ok && l >= math.MinInt32 && l <= math.MaxInt32
	}
	return true
}
