package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/xcdr/errors"
)

const pairTypes = `
types:
  - name: Pair
    kind: struct
    extensibility: mutable
    members:
      - {name: a, id: 1, type: int32}
      - {name: b, id: 2, type: int16}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	typesPath := writeFile(t, "types.yaml", pairTypes)
	valuePath := writeFile(t, "value.json", "{\n  // comment\n  \"a\": 7,\n  \"b\": 3,\n}")

	t.Run("Hex", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run([]string{"--types", typesPath, "--value", valuePath}, &out, &bytes.Buffer{}))
		assert.Equal(t, "1600000001000040040000000700000002000040020000000300\n", out.String())
	})

	t.Run("Size", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run([]string{"--types", typesPath, "--type", "Pair", "--value", valuePath,
			"--format", "size", "--encapsulate"}, &out, &bytes.Buffer{}))
		assert.Equal(t, "30\n", out.String())
	})

	t.Run("RawBigEndian", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run([]string{"--types", typesPath, "--value", valuePath,
			"--format", "raw", "--byte-order", "big", "--encapsulate"}, &out, &bytes.Buffer{}))
		raw := out.Bytes()
		require.Len(t, raw, 30)
		assert.Equal(t, []byte{0x00, 0x0a, 0x00, 0x00}, raw[:4])
		assert.Equal(t, []byte{0, 0, 0, 0x16}, raw[4:8])
	})

	t.Run("Text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run([]string{"--types", typesPath, "--value", valuePath, "--format", "text"}, &out, &bytes.Buffer{}))
		assert.Equal(t, "Pair {\n  a: 7\n  b: 3\n}\n", out.String())
	})
}

func TestRunErrors(t *testing.T) {
	typesPath := writeFile(t, "types.yaml", pairTypes)
	valuePath := writeFile(t, "value.yaml", "a: 7\nc: 1\n")

	err := run([]string{"--types", typesPath}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)

	err = run([]string{"--types", typesPath, "--value", valuePath}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errors.ErrNotFound)

	err = run([]string{"--types", typesPath, "--type", "Nope", "--value", valuePath}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errors.ErrNotFound)

	err = run([]string{"--types", typesPath, "--value", valuePath, "--byte-order", "middle"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}
