package dynamic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/xcdr/errors"
	"github.com/oy3o/xcdr/types"
)

func TestUnionExclusivity(t *testing.T) {
	f := newFixtures(t)
	v := New(f.choice)
	assert.Equal(t, UnionEmpty, v.UnionState())

	require.NoError(t, v.SetInt32Value(1, 5))
	assert.Equal(t, UnionMemberOnly, v.UnionState())

	err := v.SetStringValue(2, "x")
	assert.ErrorIs(t, err, errors.ErrInconsistentUnion)

	require.NoError(t, v.SetInt32Value(1, 6), "overwriting the selected member")
	x, ok := Get[Int32](v, 1)
	require.True(t, ok)
	assert.Equal(t, Int32(6), x)

	id, ok := v.SelectedMember()
	require.True(t, ok)
	assert.Equal(t, types.MemberID(1), id)
	assert.Equal(t, 2, v.ItemCount())
	assert.Equal(t, DiscriminatorID, v.MemberIDAtIndex(0))
	assert.Equal(t, types.MemberID(1), v.MemberIDAtIndex(1))
}

func TestUnionDiscriminator(t *testing.T) {
	f := newFixtures(t)

	t.Run("MustSelectActiveMember", func(t *testing.T) {
		v := New(f.choice)
		require.NoError(t, v.SetInt32Value(1, 5))
		assert.ErrorIs(t, v.SetInt32Value(DiscriminatorID, 2), errors.ErrInconsistentUnion)
		require.NoError(t, v.SetInt32Value(DiscriminatorID, 1))
		assert.Equal(t, UnionDiscriminatorAndMember, v.UnionState())
	})

	t.Run("MemberMustMatchDiscriminator", func(t *testing.T) {
		v := New(f.choice)
		require.NoError(t, v.SetInt32Value(DiscriminatorID, 2))
		assert.Equal(t, UnionDiscriminatorOnly, v.UnionState())
		assert.ErrorIs(t, v.SetInt32Value(1, 5), errors.ErrInconsistentUnion)
		require.NoError(t, v.SetStringValue(2, "ok"))
	})

	t.Run("DefaultMember", func(t *testing.T) {
		v := New(f.choice)
		require.NoError(t, v.SetFloat64Value(3, 1.5))
		assert.ErrorIs(t, v.SetInt32Value(DiscriminatorID, 1), errors.ErrInconsistentUnion,
			"label 1 belongs to another member")
		require.NoError(t, v.SetInt32Value(DiscriminatorID, 42))
	})

	t.Run("Kind", func(t *testing.T) {
		v := New(f.choice)
		assert.ErrorIs(t, v.SetInt64Value(DiscriminatorID, 1), errors.ErrTypeMismatch)
		assert.ErrorIs(t, v.SetInt32Values(DiscriminatorID, []int32{1}), errors.ErrTypeMismatch)
	})

	t.Run("Effective", func(t *testing.T) {
		v := New(f.choice)
		label, written := v.Discriminator()
		assert.False(t, written)
		assert.Equal(t, int64(0), label)

		require.NoError(t, v.SetInt32Value(DiscriminatorID, 2))
		label, written = v.Discriminator()
		assert.True(t, written)
		assert.Equal(t, int64(2), label)
	})

	t.Run("EnumDefault", func(t *testing.T) {
		u, err := types.NewUnion("ByColor", f.color).
			Case("red", 1, types.Int32, 0).
			Case("blue", 2, types.Int16, 7).
			Build()
		require.NoError(t, err)
		v := New(u)
		label, _ := v.Discriminator()
		assert.Equal(t, int64(7), label, "the default enumerator")

		d := New(f.color)
		require.NoError(t, d.SetInt16Value(SelfID, 0))
		require.NoError(t, v.SetComplexValue(DiscriminatorID, d))
		assert.ErrorIs(t, v.SetInt16Value(2, 1), errors.ErrInconsistentUnion)
		require.NoError(t, v.SetInt32Value(1, 1))
	})
}

func TestSynthesizeLabel(t *testing.T) {
	f := newFixtures(t)
	l := layoutOf(f.choice)

	a, _ := f.choice.Member(1)
	label, err := synthesizeLabel(l, a, errors.PhaseSize)
	require.NoError(t, err)
	assert.Equal(t, int64(1), label)

	c, _ := f.choice.Member(3)
	label, err = synthesizeLabel(l, c, errors.PhaseSize)
	require.NoError(t, err)
	assert.Equal(t, int64(0), label)

	full, err := types.NewUnion("Full", types.Boolean).
		Case("t", 1, types.Int32, 1).
		Case("f", 2, types.Int32, 0).
		Default("never", 3, types.Int32).
		Build()
	require.NoError(t, err)
	never, _ := full.Member(3)
	_, err = synthesizeLabel(layoutOf(full), never, errors.PhaseSize)
	assert.ErrorIs(t, err, errors.ErrInconsistentUnion)
}
