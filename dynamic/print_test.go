package dynamic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/xcdr/types"
)

func TestString(t *testing.T) {
	f := newFixtures(t)

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "Point {}", New(f.point).String())
	})

	t.Run("Struct", func(t *testing.T) {
		v := New(f.shape)
		require.NoError(t, v.SetInt16Value(4, 0))
		require.NoError(t, v.SetInt32Values(3, []int32{1, 2}))
		require.NoError(t, v.SetStringValue(2, "x"))
		require.NoError(t, v.SetInt32Value(1, 1))
		assert.Equal(t, "Shape {\n  id: 1\n  label: \"x\"\n  points: [1, 2]\n  color: RED\n}", v.String())
	})

	t.Run("Union", func(t *testing.T) {
		v := New(f.choice)
		require.NoError(t, v.SetInt32Value(1, 5))
		require.NoError(t, v.SetInt32Value(DiscriminatorID, 1))
		assert.Equal(t, "Choice {\n  discriminator: 1\n  a: 5\n}", v.String())
	})

	t.Run("Nested", func(t *testing.T) {
		inner, err := types.NewStruct("Inner").Next("x", types.Int16).Build()
		require.NoError(t, err)
		outer, err := types.NewStruct("Outer").Next("p", inner).Next("w", types.String16).Build()
		require.NoError(t, err)

		p := New(inner)
		require.NoError(t, p.SetInt16Value(0, 1))
		v := New(outer)
		require.NoError(t, v.SetComplexValue(0, p))
		require.NoError(t, v.SetWStringValue(1, "é"))
		assert.Equal(t, "Outer {\n  p: Inner {\n    x: 1\n  }\n  w: L\"é\"\n}", v.String())
	})

	t.Run("Enum", func(t *testing.T) {
		v := New(f.color)
		require.NoError(t, v.SetInt16Value(SelfID, 7))
		assert.Equal(t, "BLUE", v.String())
		require.NoError(t, v.SetInt16Value(SelfID, 3))
		assert.Equal(t, "3", v.String())
	})

	t.Run("Bitmask", func(t *testing.T) {
		v := New(f.flags)
		require.NoError(t, v.SetUInt16Value(SelfID, 9))
		assert.Equal(t, "A|B", v.String())
		require.NoError(t, v.SetUInt16Value(SelfID, 0x18))
		assert.Equal(t, "B|0x10", v.String())
		require.NoError(t, v.SetUInt16Value(SelfID, 0))
		assert.Equal(t, "0x0", v.String())

		w := New(f.flags)
		require.NoError(t, w.SetBooleanValue(3, true))
		assert.Equal(t, "Flags {\n  B: true\n}", w.String())
	})

	t.Run("Characters", func(t *testing.T) {
		v := New(types.String8)
		require.NoError(t, v.SetChar8Value(1, 'i'))
		require.NoError(t, v.SetChar8Value(0, 'h'))
		assert.Equal(t, "string8 {\n  [0]: 'h'\n  [1]: 'i'\n}", v.String())
	})
}
