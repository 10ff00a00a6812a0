package xcdr

import (
	"encoding/binary"
	"io"
	"unicode/utf16"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the byte order of writers and readers that were not given an Encoding.
	Order binary.ByteOrder = LE
)

const BUFFER_SIZE = 4096

var (
	empty   [BUFFER_SIZE]byte
	discard [BUFFER_SIZE]byte
)


// Discard skips exactly n bytes of r.
func Discard(r io.Reader, n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, ErrDiscardNegative
	}
	if n <= BUFFER_SIZE {
		skip, err := io.ReadFull(r, discard[:n])
		return int64(skip), err
	}
	return io.CopyN(io.Discard, r, n)
}

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// Padding returns the bytes needed to move offset to the next multiple of align.
func Padding[T constraints.Integer](offset, align T) T {
	if align <= 1 {
		return 0
	}
	return Roundup(offset, align) - offset
}

// UTF16 converts text to the code units a string16 carries on the wire.
func UTF16(s string) []uint16 { return utf16.Encode([]rune(s)) }

// FromUTF16 converts string16 code units back to text. Unpaired surrogates become U+FFFD.
func FromUTF16(units []uint16) string { return string(utf16.Decode(units)) }
