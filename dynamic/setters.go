package dynamic

import (
	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/types"
)

// Typed setters. Each validates the write against the value's type and leaves the value
// unchanged on error.

func (v *Value) SetBooleanValue(id types.MemberID, x bool) error {
	return v.SetScalar(id, Bool(x))
}

func (v *Value) SetByteValue(id types.MemberID, x byte) error {
	return v.SetScalar(id, Byte(x))
}

func (v *Value) SetInt8Value(id types.MemberID, x int8) error {
	return v.SetScalar(id, Int8(x))
}

func (v *Value) SetUInt8Value(id types.MemberID, x uint8) error {
	return v.SetScalar(id, UInt8(x))
}

func (v *Value) SetInt16Value(id types.MemberID, x int16) error {
	return v.SetScalar(id, Int16(x))
}

func (v *Value) SetUInt16Value(id types.MemberID, x uint16) error {
	return v.SetScalar(id, UInt16(x))
}

func (v *Value) SetInt32Value(id types.MemberID, x int32) error {
	return v.SetScalar(id, Int32(x))
}

func (v *Value) SetUInt32Value(id types.MemberID, x uint32) error {
	return v.SetScalar(id, UInt32(x))
}

func (v *Value) SetInt64Value(id types.MemberID, x int64) error {
	return v.SetScalar(id, Int64(x))
}

func (v *Value) SetUInt64Value(id types.MemberID, x uint64) error {
	return v.SetScalar(id, UInt64(x))
}

func (v *Value) SetFloat32Value(id types.MemberID, x float32) error {
	return v.SetScalar(id, Float32(x))
}

func (v *Value) SetFloat64Value(id types.MemberID, x float64) error {
	return v.SetScalar(id, Float64(x))
}

func (v *Value) SetFloat128Value(id types.MemberID, x xcdr.Float128) error {
	return v.SetScalar(id, Float128(x))
}

func (v *Value) SetChar8Value(id types.MemberID, x byte) error {
	return v.SetScalar(id, Char8(x))
}

func (v *Value) SetChar16Value(id types.MemberID, x uint16) error {
	return v.SetScalar(id, Char16(x))
}

func (v *Value) SetStringValue(id types.MemberID, x string) error {
	return v.SetScalar(id, String8(x))
}

// SetWStringValue writes Go text that is emitted as UTF-16 code units.
func (v *Value) SetWStringValue(id types.MemberID, x string) error {
	return v.SetScalar(id, String16(x))
}

// Sequence setters copy xs.
func (v *Value) SetBooleanValues(id types.MemberID, xs []bool) error {
	return v.setSequence(id, convert(xs, func(x bool) Bool { return Bool(x) }))
}

func (v *Value) SetByteValues(id types.MemberID, xs []byte) error {
	return v.setSequence(id, convert(xs, func(x byte) Byte { return Byte(x) }))
}

func (v *Value) SetInt8Values(id types.MemberID, xs []int8) error {
	return v.setSequence(id, convert(xs, func(x int8) Int8 { return Int8(x) }))
}

func (v *Value) SetUInt8Values(id types.MemberID, xs []uint8) error {
	return v.setSequence(id, convert(xs, func(x uint8) UInt8 { return UInt8(x) }))
}

func (v *Value) SetInt16Values(id types.MemberID, xs []int16) error {
	return v.setSequence(id, convert(xs, func(x int16) Int16 { return Int16(x) }))
}

func (v *Value) SetUInt16Values(id types.MemberID, xs []uint16) error {
	return v.setSequence(id, convert(xs, func(x uint16) UInt16 { return UInt16(x) }))
}

func (v *Value) SetInt32Values(id types.MemberID, xs []int32) error {
	return v.setSequence(id, convert(xs, func(x int32) Int32 { return Int32(x) }))
}

func (v *Value) SetUInt32Values(id types.MemberID, xs []uint32) error {
	return v.setSequence(id, convert(xs, func(x uint32) UInt32 { return UInt32(x) }))
}

func (v *Value) SetInt64Values(id types.MemberID, xs []int64) error {
	return v.setSequence(id, convert(xs, func(x int64) Int64 { return Int64(x) }))
}

func (v *Value) SetUInt64Values(id types.MemberID, xs []uint64) error {
	return v.setSequence(id, convert(xs, func(x uint64) UInt64 { return UInt64(x) }))
}

func (v *Value) SetFloat32Values(id types.MemberID, xs []float32) error {
	return v.setSequence(id, convert(xs, func(x float32) Float32 { return Float32(x) }))
}

func (v *Value) SetFloat64Values(id types.MemberID, xs []float64) error {
	return v.setSequence(id, convert(xs, func(x float64) Float64 { return Float64(x) }))
}

func (v *Value) SetFloat128Values(id types.MemberID, xs []xcdr.Float128) error {
	return v.setSequence(id, convert(xs, func(x xcdr.Float128) Float128 { return Float128(x) }))
}

func (v *Value) SetChar8Values(id types.MemberID, xs []byte) error {
	return v.setSequence(id, convert(xs, func(x byte) Char8 { return Char8(x) }))
}

func (v *Value) SetChar16Values(id types.MemberID, xs []uint16) error {
	return v.setSequence(id, convert(xs, func(x uint16) Char16 { return Char16(x) }))
}

func (v *Value) SetStringValues(id types.MemberID, xs []string) error {
	return v.setSequence(id, convert(xs, func(x string) String8 { return String8(x) }))
}

func (v *Value) SetWStringValues(id types.MemberID, xs []string) error {
	return v.setSequence(id, convert(xs, func(x string) String16 { return String16(x) }))
}


// setSequence stores a freshly converted sequence without copying it again.
func (v *Value) setSequence(id types.MemberID, s Sequence) error {
	if err := v.checkSequence(id, s); err != nil {
		return v.reject(id, s.ElemKind(), err)
	}
	v.putSequence(id, s)
	return nil
}

func convert[T element, E any](xs []E, f func(E) T) Seq[T] {
	out := make(Seq[T], len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}
