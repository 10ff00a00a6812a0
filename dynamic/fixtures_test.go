package dynamic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oy3o/xcdr/types"
)

// fixtures holds the types shared by the package tests.
type fixtures struct {
	color   types.Type // enum, bit-bound 16: RED=0 GREEN=1 BLUE=7 (default)
	flags   types.Type // bitmask, bit-bound 12: A=0 B=3
	point   types.Type // final {x int32; y int16; z int8 optional; s string8}
	pair    types.Type // mutable {a int32 @1; b int16 @2}
	shape   types.Type // mutable {id int32 @1 key; label string8<16> @2 optional; points sequence<int32,10> @3; color Color @4}
	seq5    types.Type // sequence<int32,5>
	holder  types.Type // final {s sequence<int32,5>}
	choice  types.Type // final union(int32) {a int32 @1 [1]; b string8 @2 [2]; default c float64 @3}
	strict  types.Type // final union(int8) {a int32 @1 [1]}
	mchoice types.Type // mutable union(int32) {a int32 @1 [1]}
}

func newFixtures(t testing.TB) *fixtures {
	t.Helper()
	var f fixtures
	var err error

	f.color, err = types.EnumOf("Color", 16,
		types.Literal{Name: "RED", Value: 0},
		types.Literal{Name: "GREEN", Value: 1},
		types.Literal{Name: "BLUE", Value: 7, Default: true})
	require.NoError(t, err)

	f.flags, err = types.BitmaskOf("Flags", 12,
		types.Literal{Name: "A", Value: 0},
		types.Literal{Name: "B", Value: 3})
	require.NoError(t, err)

	f.point, err = types.NewStruct("Point").
		Next("x", types.Int32).
		Next("y", types.Int16).
		Next("z", types.Int8, types.Optional()).
		Next("s", types.String8).
		Build()
	require.NoError(t, err)

	f.pair, err = types.NewStruct("Pair").
		Extensibility(types.Mutable).
		Member("a", 1, types.Int32).
		Member("b", 2, types.Int16).
		Build()
	require.NoError(t, err)

	f.shape, err = types.NewStruct("Shape").
		Extensibility(types.Mutable).
		Member("id", 1, types.Int32, types.Key()).
		Member("label", 2, types.String8Of(16), types.Optional()).
		Member("points", 3, types.SequenceOf(types.Int32, 10)).
		Member("color", 4, f.color).
		Build()
	require.NoError(t, err)

	f.seq5 = types.SequenceOf(types.Int32, 5)
	f.holder, err = types.NewStruct("Holder").Next("s", f.seq5).Build()
	require.NoError(t, err)

	f.choice, err = types.NewUnion("Choice", types.Int32).
		Case("a", 1, types.Int32, 1).
		Case("b", 2, types.String8, 2).
		Default("c", 3, types.Float64).
		Build()
	require.NoError(t, err)

	f.strict, err = types.NewUnion("Strict", types.Int8).
		Case("a", 1, types.Int32, 1).
		Build()
	require.NoError(t, err)

	f.mchoice, err = types.NewUnion("MChoice", types.Int32).
		Extensibility(types.Mutable).
		Case("a", 1, types.Int32, 1).
		Build()
	require.NoError(t, err)

	return &f
}

// locations counts the stores holding id.
func locations(v *Value, id types.MemberID) int {
	n := 0
	if _, ok := v.scalars[id]; ok {
		n++
	}
	if _, ok := v.sequences[id]; ok {
		n++
	}
	if _, ok := v.nested[id]; ok {
		n++
	}
	return n
}
