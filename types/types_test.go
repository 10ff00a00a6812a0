package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/xcdr/errors"
)

func TestKind(t *testing.T) {
	tests := []struct {
		kind      Kind
		name      string
		primitive bool
		size      int
		disc      bool
	}{
		{KindBoolean, "boolean", true, 1, true},
		{KindChar16, "char16", true, 2, true},
		{KindFloat32, "float32", true, 4, false},
		{KindUInt64, "uint64", true, 8, true},
		{KindFloat128, "float128", true, 16, false},
		{KindString8, "string8", false, 0, false},
		{KindEnum, "enum", false, 0, true},
		{KindStructure, "structure", false, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.primitive, tt.kind.IsPrimitive())
			assert.Equal(t, tt.size, tt.kind.PrimitiveSize())
			assert.Equal(t, tt.disc, tt.kind.IsDiscriminator())

			k, ok := KindByName(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, k)
		})
	}
	assert.Equal(t, "unknown", Kind(200).String())
}

func TestRepresentationKind(t *testing.T) {
	tests := []struct {
		bitBound uint32
		enum     Kind
		bitmask  Kind
	}{
		{1, KindInt8, KindUInt8},
		{8, KindInt8, KindUInt8},
		{9, KindInt16, KindUInt16},
		{16, KindInt16, KindUInt16},
		{17, KindInt32, KindUInt32},
		{32, KindInt32, KindUInt32},
		{33, KindNone, KindUInt64},
		{64, KindNone, KindUInt64},
		{0, KindNone, KindNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.enum, EnumKind(tt.bitBound), "enum %d", tt.bitBound)
		assert.Equal(t, tt.bitmask, BitmaskKind(tt.bitBound), "bitmask %d", tt.bitBound)
	}

	color, err := EnumOf("Color", 16, Literal{Name: "RED"}, Literal{Name: "GREEN", Value: 1})
	require.NoError(t, err)
	assert.Equal(t, KindInt16, RepresentationKind(AliasOf("Paint", color)))
	assert.Equal(t, KindString8, RepresentationKind(String8Of(4)))
	assert.Equal(t, KindNone, RepresentationKind(SequenceOf(Int32, 0)))
}

func TestEnumAndBitmask(t *testing.T) {
	t.Run("DefaultLiteral", func(t *testing.T) {
		e, err := EnumOf("E", 32, Literal{Name: "A", Value: 3}, Literal{Name: "B", Value: 5, Default: true})
		require.NoError(t, err)
		l, ok := DefaultLiteral(e)
		require.True(t, ok)
		assert.Equal(t, "B", l.Name)

		e, err = EnumOf("E", 32, Literal{Name: "A", Value: 3}, Literal{Name: "B", Value: 5})
		require.NoError(t, err)
		l, _ = DefaultLiteral(e)
		assert.Equal(t, int32(3), l.Value)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := EnumOf("E", 40, Literal{Name: "A"})
		assert.ErrorIs(t, err, errors.ErrInvalidType)
		_, err = EnumOf("E", 8, Literal{Name: "A", Value: 200})
		assert.ErrorIs(t, err, errors.ErrInvalidType)
		_, err = EnumOf("E", 8, Literal{Name: "A"}, Literal{Name: "A", Value: 1})
		assert.ErrorIs(t, err, errors.ErrInvalidType)
		_, err = BitmaskOf("M", 8, Literal{Name: "F", Value: 8})
		assert.ErrorIs(t, err, errors.ErrInvalidType)
	})
}

func TestStructBuilder(t *testing.T) {
	base, err := NewStruct("Base").Next("a", Int32).Build()
	require.NoError(t, err)

	st, err := NewStruct("Derived").
		Extensibility(Appendable).
		Base(base).
		Next("b", String8, Optional()).
		Member("c", 10, Float64, Key()).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 3, st.MemberCount())
	assert.Equal(t, Appendable, st.Descriptor().Extensibility)

	b, ok := st.MemberByName("b")
	require.True(t, ok)
	assert.Equal(t, MemberID(1), b.ID)
	assert.True(t, b.Optional)
	assert.Equal(t, 1, b.Index)

	c, ok := st.Member(10)
	require.True(t, ok)
	assert.True(t, c.Key)
	assert.True(t, c.MustUnderstand)

	_, err = NewStruct("Dup").Member("a", 1, Int32).Member("b", 1, Int32).Build()
	assert.ErrorIs(t, err, errors.ErrInvalidType)

	_, err = NewStruct("Big").Member("a", MemberIDInvalid, Int32).Build()
	assert.ErrorIs(t, err, errors.ErrInvalidType)
}

func TestUnionBuilder(t *testing.T) {
	u, err := NewUnion("U", Int32).
		Case("a", 1, Int32, 1, 2).
		Case("b", 2, String8, 3).
		Default("c", 3, Float64).
		Build()
	require.NoError(t, err)

	m, ok := SelectMember(u, 2)
	require.True(t, ok)
	assert.Equal(t, "a", m.Name)

	m, ok = SelectMember(u, 99)
	require.True(t, ok)
	assert.Equal(t, "c", m.Name)

	noDefault, err := NewUnion("V", Int8).Case("a", 1, Int32, 1).Build()
	require.NoError(t, err)
	_, ok = SelectMember(noDefault, 7)
	assert.False(t, ok)

	_, err = NewUnion("W", Float32).Build()
	assert.ErrorIs(t, err, errors.ErrInvalidType)

	_, err = NewUnion("X", Int8).Case("a", 1, Int32, 1).Case("b", 2, Int32, 1).Build()
	assert.ErrorIs(t, err, errors.ErrInvalidType, "labels are unique across members")

	_, err = NewUnion("Y", Int8).Case("a", 1, Int32, 300).Build()
	assert.ErrorIs(t, err, errors.ErrInvalidType, "labels fit the discriminator")

	_, err = NewUnion("Z", Int8).Extensibility(Mutable).Case("a", 0, Int32, 1).Build()
	assert.ErrorIs(t, err, errors.ErrInvalidType)
}

func TestEqual(t *testing.T) {
	mk := func(name string, bound uint32) Type {
		st, err := NewStruct(name).Next("s", SequenceOf(Int32, bound)).Build()
		require.NoError(t, err)
		return st
	}
	assert.True(t, Equal(mk("A", 3), mk("A", 3)))
	assert.False(t, Equal(mk("A", 3), mk("A", 4)))
	assert.False(t, Equal(mk("A", 3), mk("B", 3)))
	assert.True(t, Equal(AliasOf("I", Int32), Int32))
	assert.True(t, Equal(String8Of(0), String8))
	assert.False(t, Equal(String8Of(5), String8))
}

func TestArrayOf(t *testing.T) {
	a, err := ArrayOf(Int16, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), ArrayLength(a))
	assert.Equal(t, "int16[2][3]", a.Name())

	_, err = ArrayOf(Int16)
	assert.ErrorIs(t, err, errors.ErrInvalidType)
	_, err = ArrayOf(Int16, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidType)
}

func TestComparable(t *testing.T) {
	assert.True(t, Comparable(Int32))
	assert.True(t, Comparable(SequenceOf(Int32, 0)))
	assert.False(t, Comparable(nil))
}
