package dynamic

import (
	"math"
	"slices"

	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/types"
)

// Scalar is a single primitive, enum/bitmask representation, character or string.
// The set of implementations is closed; Kind always agrees with the Go type.
type Scalar interface {
	Kind() types.Kind
	isScalar()
}

type (
	Bool     bool
	Byte     byte
	Int8     int8
	UInt8    uint8
	Int16    int16
	UInt16   uint16
	Int32    int32
	UInt32   uint32
	Int64    int64
	UInt64   uint64
	Float32  float32
	Float64  float64
	Float128 xcdr.Float128
	Char8    byte
	Char16   uint16
	String8  string
	String16 string
)

func (Bool) Kind() types.Kind     { return types.KindBoolean }
func (Byte) Kind() types.Kind     { return types.KindByte }
func (Int8) Kind() types.Kind     { return types.KindInt8 }
func (UInt8) Kind() types.Kind    { return types.KindUInt8 }
func (Int16) Kind() types.Kind    { return types.KindInt16 }
func (UInt16) Kind() types.Kind   { return types.KindUInt16 }
func (Int32) Kind() types.Kind    { return types.KindInt32 }
func (UInt32) Kind() types.Kind   { return types.KindUInt32 }
func (Int64) Kind() types.Kind    { return types.KindInt64 }
func (UInt64) Kind() types.Kind   { return types.KindUInt64 }
func (Float32) Kind() types.Kind  { return types.KindFloat32 }
func (Float64) Kind() types.Kind  { return types.KindFloat64 }
func (Float128) Kind() types.Kind { return types.KindFloat128 }
func (Char8) Kind() types.Kind    { return types.KindChar8 }
func (Char16) Kind() types.Kind   { return types.KindChar16 }
func (String8) Kind() types.Kind  { return types.KindString8 }
func (String16) Kind() types.Kind { return types.KindString16 }

func (Bool) isScalar()     {}
func (Byte) isScalar()     {}
func (Int8) isScalar()     {}
func (UInt8) isScalar()    {}
func (Int16) isScalar()    {}
func (UInt16) isScalar()   {}
func (Int32) isScalar()    {}
func (UInt32) isScalar()   {}
func (Int64) isScalar()    {}
func (UInt64) isScalar()   {}
func (Float32) isScalar()  {}
func (Float64) isScalar()  {}
func (Float128) isScalar() {}
func (Char8) isScalar()    {}
func (Char16) isScalar()   {}
func (String8) isScalar()  {}
func (String16) isScalar() {}

// F128 widens a float64 to a Float128 scalar.
func F128(f float64) Float128 { return Float128(xcdr.Float128FromFloat64(f)) }

// element is the constraint of sequence elements.
type element interface {
	Scalar
	comparable
}

// Sequence is a homogeneous run of scalars of one kind.
// The set of implementations is closed.
type Sequence interface {
	ElemKind() types.Kind
	Len() int
	At(i int) Scalar
	equal(Sequence) bool
	clone() Sequence
}

// Seq is the Sequence implementation for element type T.
type Seq[T element] []T

type (
	BoolSeq     = Seq[Bool]
	ByteSeq     = Seq[Byte]
	Int8Seq     = Seq[Int8]
	UInt8Seq    = Seq[UInt8]
	Int16Seq    = Seq[Int16]
	UInt16Seq   = Seq[UInt16]
	Int32Seq    = Seq[Int32]
	UInt32Seq   = Seq[UInt32]
	Int64Seq    = Seq[Int64]
	UInt64Seq   = Seq[UInt64]
	Float32Seq  = Seq[Float32]
	Float64Seq  = Seq[Float64]
	Float128Seq = Seq[Float128]
	Char8Seq    = Seq[Char8]
	Char16Seq   = Seq[Char16]
	String8Seq  = Seq[String8]
	String16Seq = Seq[String16]
)

func (s Seq[T]) ElemKind() types.Kind {
	var zero T
	return zero.Kind()
}

func (s Seq[T]) Len() int        { return len(s) }
func (s Seq[T]) At(i int) Scalar { return s[i] }

func (s Seq[T]) equal(o Sequence) bool {
	other, ok := o.(Seq[T])
	return ok && slices.Equal(s, other)
}

func (s Seq[T]) clone() Sequence { return slices.Clone(s) }

// label converts a discriminator-capable scalar to a case label.
func label(s Scalar) (int64, bool) {
	switch x := s.(type) {
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	case Byte:
		return int64(x), true
	case Char8:
		return int64(x), true
	case Char16:
		return int64(x), true
	case Int8:
		return int64(x), true
	case UInt8:
		return int64(x), true
	case Int16:
		return int64(x), true
	case UInt16:
		return int64(x), true
	case Int32:
		return int64(x), true
	case UInt32:
		return int64(x), true
	case Int64:
		return int64(x), true
	case UInt64:
		return int64(x), true
	}
	return 0, false
}

// integer builds the scalar of an integer-like kind holding v, if it fits.
func integer(k types.Kind, v int64) (Scalar, bool) {
	switch k {
	case types.KindBoolean:
		return Bool(v != 0), v == 0 || v == 1
	case types.KindByte:
		return Byte(v), v >= 0 && v <= math.MaxUint8
	case types.KindChar8:
		return Char8(v), v >= 0 && v <= math.MaxUint8
	case types.KindChar16:
		return Char16(v), v >= 0 && v <= math.MaxUint16
	case types.KindInt8:
		return Int8(v), v >= math.MinInt8 && v <= math.MaxInt8
	case types.KindUInt8:
		return UInt8(v), v >= 0 && v <= math.MaxUint8
	case types.KindInt16:
		return Int16(v), v >= math.MinInt16 && v <= math.MaxInt16
	case types.KindUInt16:
		return UInt16(v), v >= 0 && v <= math.MaxUint16
	case types.KindInt32:
		return Int32(v), v >= math.MinInt32 && v <= math.MaxInt32
	case types.KindUInt32:
		return UInt32(v), v >= 0 && v <= math.MaxUint32
	case types.KindInt64:
		return Int64(v), true
	case types.KindUInt64:
		return UInt64(v), v >= 0
	}
	return nil, false
}

// mask builds the bitmask representation of the given kind holding bits.
func mask(k types.Kind, bits uint64) Scalar {
	switch k {
	case types.KindUInt8:
		return UInt8(bits)
	case types.KindUInt16:
		return UInt16(bits)
	case types.KindUInt32:
		return UInt32(bits)
	}
	return UInt64(bits)
}

// bits reads a bitmask representation back.
func bits(s Scalar) uint64 {
	switch x := s.(type) {
	case UInt8:
		return uint64(x)
	case UInt16:
		return uint64(x)
	case UInt32:
		return uint64(x)
	case UInt64:
		return uint64(x)
	}
	return 0
}
