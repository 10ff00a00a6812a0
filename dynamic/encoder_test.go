package dynamic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/errors"
	"github.com/oy3o/xcdr/types"
)

type EncoderTestSuite struct {
	suite.Suite
	f   *fixtures
	enc *Encoder
}

func (s *EncoderTestSuite) SetupTest() {
	s.f = newFixtures(s.T())
	s.enc = NewEncoder(xcdr.XCDR2LE)
}

// marshal encodes v and checks Size agrees with the output.
func (s *EncoderTestSuite) marshal(v *Value) []byte {
	out, err := s.enc.Marshal(v)
	s.Require().NoError(err)
	n, err := s.enc.Size(v)
	s.Require().NoError(err)
	s.Require().Len(out, n)
	return out
}

func (s *EncoderTestSuite) TestFinalStruct() {
	v := New(s.f.point)
	s.Require().NoError(v.SetInt32Value(0, 1))
	s.Require().NoError(v.SetInt16Value(1, 2))
	s.Require().NoError(v.SetStringValue(3, "hi"))

	s.Equal([]byte{
		0x01, 0x00, 0x00, 0x00, // x
		0x02, 0x00, // y
		0x00,                   // z absent
		0x00,                   // padding
		0x03, 0x00, 0x00, 0x00, // s length with NUL
		'h', 'i', 0x00,
	}, s.marshal(v))

	s.Require().NoError(v.SetInt8Value(2, -1))
	out := s.marshal(v)
	s.Equal([]byte{0x01, 0xff}, out[6:8], "presence flag then value")
}

func (s *EncoderTestSuite) TestMutableFraming() {
	v := New(s.f.pair)
	s.Require().NoError(v.SetInt32Value(1, 7))
	s.Require().NoError(v.SetInt16Value(2, 3))

	out := s.marshal(v)
	s.Equal([]byte{
		0x16, 0x00, 0x00, 0x00, // DHEADER
		0x01, 0x00, 0x00, 0x40, // EMHEADER1 id 1, LC 4
		0x04, 0x00, 0x00, 0x00, // NEXTINT
		0x07, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x40, // EMHEADER1 id 2
		0x02, 0x00, 0x00, 0x00,
		0x03, 0x00,
	}, out)

	// header(1)+value(1)+header(2)+value(2)+end marker, the marker being empty
	s.Equal(4+(8+4)+(8+2)+0, len(out))

	// each NEXTINT matches the size of the member alone
	a, err := NewEncoder(xcdr.XCDR2LE).Size(mustScalarValue(s.T(), types.Int32, Int32(7)))
	s.Require().NoError(err)
	s.Equal(byte(a), out[8])
}

func (s *EncoderTestSuite) TestKeyMemberSetsMustUnderstand() {
	v := New(s.f.shape)
	s.Require().NoError(v.SetInt32Value(1, 9))
	out := s.marshal(v)
	s.Equal([]byte{0x01, 0x00, 0x00, 0xc0}, out[4:8])
}

func (s *EncoderTestSuite) TestDefaultSynthesis() {
	st, err := types.NewStruct("All").
		Next("b", types.Boolean).
		Next("o", types.Byte).
		Next("i8", types.Int8).
		Next("u16", types.UInt16).
		Next("i32", types.Int32).
		Next("u64", types.UInt64).
		Next("f32", types.Float32).
		Next("f64", types.Float64).
		Next("f128", types.Float128).
		Next("c8", types.Char8).
		Next("c16", types.Char16).
		Next("s8", types.String8).
		Next("s16", types.String16).
		Next("color", s.f.color).
		Next("flags", s.f.flags).
		Next("seq", s.f.seq5).
		Build()
	s.Require().NoError(err)

	empty := s.marshal(New(st))

	v := New(st)
	s.Require().NoError(v.SetBooleanValue(0, false))
	s.Require().NoError(v.SetByteValue(1, 0))
	s.Require().NoError(v.SetInt8Value(2, 0))
	s.Require().NoError(v.SetUInt16Value(3, 0))
	s.Require().NoError(v.SetInt32Value(4, 0))
	s.Require().NoError(v.SetUInt64Value(5, 0))
	s.Require().NoError(v.SetFloat32Value(6, 0))
	s.Require().NoError(v.SetFloat64Value(7, 0))
	s.Require().NoError(v.SetFloat128Value(8, xcdr.Float128{}))
	s.Require().NoError(v.SetChar8Value(9, 0))
	s.Require().NoError(v.SetChar16Value(10, 0))
	s.Require().NoError(v.SetStringValue(11, ""))
	s.Require().NoError(v.SetWStringValue(12, ""))
	s.Require().NoError(v.SetInt16Value(13, 7))
	s.Require().NoError(v.SetUInt16Value(14, 0))
	s.Require().NoError(v.SetInt32Values(15, nil))

	s.Equal(empty, s.marshal(v))
}

func (s *EncoderTestSuite) TestSequenceSparsity() {
	seq := New(s.f.seq5)
	s.Require().NoError(seq.SetInt32Value(0, 10))
	s.Require().NoError(seq.SetInt32Value(3, 40))

	want := []byte{
		0x04, 0x00, 0x00, 0x00,
		0x0a, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x28, 0x00, 0x00, 0x00,
	}
	s.Equal(want, s.marshal(seq))

	holder := New(s.f.holder)
	s.Require().NoError(holder.SetComplexValue(0, seq))
	s.Equal(want, s.marshal(holder))

	direct := New(s.f.holder)
	s.Require().NoError(direct.SetInt32Values(0, []int32{10, 0, 0, 40}))
	s.Equal(want, s.marshal(direct))
}

func (s *EncoderTestSuite) TestAppendableWithStringArray() {
	inner, err := types.NewStruct("Inner").Next("x", types.Int16).Build()
	s.Require().NoError(err)
	names, err := types.ArrayOf(types.String8, 2)
	s.Require().NoError(err)
	outer, err := types.NewStruct("Outer").
		Extensibility(types.Appendable).
		Next("p", inner).
		Next("names", names).
		Build()
	s.Require().NoError(err)

	want := []byte{
		0x17, 0x00, 0x00, 0x00, // DHEADER
		0x01, 0x00, // p.x
		0x00, 0x00, // padding
		0x0f, 0x00, 0x00, 0x00, // array DHEADER: string elements are not primitive
		0x01, 0x00, 0x00, 0x00, 0x00, // ""
		0x00, 0x00, 0x00, // padding
		0x03, 0x00, 0x00, 0x00, 'a', 'b', 0x00,
	}

	p := New(inner)
	s.Require().NoError(p.SetInt16Value(0, 1))

	v := New(outer)
	s.Require().NoError(v.SetComplexValue(0, p))
	s.Require().NoError(v.SetStringValues(1, []string{"", "ab"}))
	s.Equal(want, s.marshal(v))

	arr := New(names)
	s.Require().NoError(arr.SetStringValue(1, "ab"))
	w := New(outer)
	s.Require().NoError(w.SetComplexValue(0, p))
	s.Require().NoError(w.SetComplexValue(1, arr))
	s.Equal(want, s.marshal(w))
}

func (s *EncoderTestSuite) TestUnions() {
	s.Run("MemberOnly", func() {
		v := New(s.f.choice)
		s.Require().NoError(v.SetInt32Value(1, 5))
		s.Equal([]byte{1, 0, 0, 0, 5, 0, 0, 0}, s.marshal(v), "discriminator synthesized from the case label")
	})
	s.Run("Empty", func() {
		s.Equal(make([]byte, 12), s.marshal(New(s.f.choice)), "default discriminator selects the default member")
	})
	s.Run("DefaultMember", func() {
		v := New(s.f.choice)
		s.Require().NoError(v.SetFloat64Value(3, 1.5))
		out := s.marshal(v)
		s.Equal([]byte{0, 0, 0, 0}, out[:4])
		s.Len(out, 12)
	})
	s.Run("NoMemberSelected", func() {
		s.Equal([]byte{0}, s.marshal(New(s.f.strict)))
	})
	s.Run("Mutable", func() {
		v := New(s.f.mchoice)
		s.Require().NoError(v.SetInt32Value(1, 5))
		s.Equal([]byte{
			0x18, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0xc0, // discriminator as id 0, must-understand
			0x04, 0x00, 0x00, 0x00,
			0x01, 0x00, 0x00, 0x00,
			0x01, 0x00, 0x00, 0x40,
			0x04, 0x00, 0x00, 0x00,
			0x05, 0x00, 0x00, 0x00,
		}, s.marshal(v))
	})
}

func (s *EncoderTestSuite) TestEnumBitmaskAndText() {
	e := New(s.f.color)
	s.Equal([]byte{7, 0}, s.marshal(e))

	m := New(s.f.flags)
	s.Require().NoError(m.SetBooleanValue(0, true))
	s.Require().NoError(m.SetBooleanValue(3, true))
	s.Equal([]byte{0x09, 0x00}, s.marshal(m))

	str := New(types.String8Of(4))
	s.Require().NoError(str.SetChar8Value(0, 'h'))
	s.Require().NoError(str.SetChar8Value(1, 'i'))
	s.Equal([]byte{3, 0, 0, 0, 'h', 'i', 0}, s.marshal(str))

	wide := New(types.String16)
	s.Require().NoError(wide.SetWStringValue(SelfID, "é"))
	s.Equal([]byte{2, 0, 0, 0, 0xe9, 0x00}, s.marshal(wide))
}

func (s *EncoderTestSuite) TestRejectedWholeValueKeepsElements() {
	m := New(s.f.flags)
	s.Require().NoError(m.SetBooleanValue(3, true))
	s.Require().ErrorIs(m.SetUInt16Value(SelfID, 1), errors.ErrInvalidArgument)
	s.Equal([]byte{0x08, 0x00}, s.marshal(m))

	str := New(types.String8)
	s.Require().NoError(str.SetChar8Value(0, 'h'))
	s.Require().ErrorIs(str.SetStringValue(SelfID, "xyz"), errors.ErrInvalidArgument)
	s.Equal([]byte{2, 0, 0, 0, 'h', 0}, s.marshal(str))
}

func (s *EncoderTestSuite) TestBigEndian() {
	v := New(s.f.pair)
	s.Require().NoError(v.SetInt32Value(1, 7))
	out, err := NewEncoder(xcdr.XCDR2BE).Marshal(v)
	s.Require().NoError(err)
	s.Equal([]byte{0, 0, 0, 0x16}, out[:4])
	s.Equal([]byte{0x40, 0, 0, 0x01}, out[4:8])
	s.Equal([]byte{0, 0, 0, 7}, out[12:16])
}

func (s *EncoderTestSuite) TestEncapsulation() {
	v := New(s.f.point)
	s.Require().NoError(v.SetInt16Value(1, 2))
	out, err := NewEncoder(xcdr.XCDR2LE).WithEncapsulation(true).Marshal(v)
	s.Require().NoError(err)
	s.Equal([]byte{0x00, 0x07, 0x00, 0x00}, out[:4])

	plain := s.marshal(v)
	s.Equal(plain, out[4:], "alignment restarts after the header")

	out, err = NewEncoder(xcdr.XCDR2BE).WithEncapsulation(true).Marshal(New(s.f.pair))
	s.Require().NoError(err)
	s.Equal([]byte{0x00, 0x0a, 0x00, 0x00}, out[:4])
}

func (s *EncoderTestSuite) TestErrors() {
	s.Run("LegacyEncoding", func() {
		_, err := NewEncoder(xcdr.Encoding{Version: xcdr.XCDR1, Order: xcdr.LE}).Size(New(s.f.point))
		s.ErrorIs(err, errors.ErrUnsupportedShape)
		s.ErrorIs(err, errors.ErrSize)
	})
	s.Run("Map", func() {
		st, err := types.NewStruct("WithMap").Next("m", types.MapOf(types.Int32, types.Int32, 0)).Build()
		s.Require().NoError(err)
		_, err = s.enc.Marshal(New(st))
		s.ErrorIs(err, errors.ErrUnsupportedShape)
		var e *errors.Error
		s.Require().True(errors.As(err, &e))
		s.Equal(errors.KindSize, e.Kind)
	})
	s.Run("Nil", func() {
		_, err := s.enc.Size(nil)
		s.ErrorIs(err, errors.ErrInvalidArgument)
	})
	s.Run("Drift", func() {
		v := New(s.f.pair)
		s.Require().NoError(v.SetInt32Value(1, 7))
		pl, err := s.enc.size(v)
		s.Require().NoError(err)
		pl.frames[1]++
		w, err := xcdr.NewWriter(&bytes.Buffer{})
		s.Require().NoError(err)
		err = s.enc.encode(w, v, pl)
		s.ErrorIs(err, errors.ErrEncode)
	})
	s.Run("SinkFailure", func() {
		v := New(s.f.pair)
		s.Require().NoError(v.SetInt32Value(1, 7))
		w, err := xcdr.NewWriter(xcdr.NewBytesWriter(make([]byte, 3)))
		s.Require().NoError(err)
		err = s.enc.Encode(w, v)
		s.ErrorIs(err, errors.ErrEncode)
	})
}

func (s *EncoderTestSuite) TestEncodableHelpers() {
	v := New(s.f.point)
	s.Require().NoError(v.SetInt32Value(0, 3))

	want := s.marshal(v)
	out, err := xcdr.Marshal(v, xcdr.XCDR2LE)
	s.Require().NoError(err)
	s.Equal(want, out)

	var buf bytes.Buffer
	n, err := xcdr.WriteTo(v, xcdr.XCDR2LE, &buf)
	s.Require().NoError(err)
	s.Equal(int64(len(want)), n)
	s.Equal(want, buf.Bytes())
}

func TestEncoderTestSuite(t *testing.T) {
	suite.Run(t, new(EncoderTestSuite))
}

func mustScalarValue(t testing.TB, typ types.Type, s Scalar) *Value {
	t.Helper()
	v := New(typ)
	require.NoError(t, v.SetScalar(SelfID, s))
	return v
}

func TestEncoderIsReusable(t *testing.T) {
	f := newFixtures(t)
	enc := NewEncoder(xcdr.XCDR2LE)
	a := New(f.point)
	b := New(f.pair)
	first, err := enc.Marshal(a)
	require.NoError(t, err)
	_, err = enc.Marshal(b)
	require.NoError(t, err)
	again, err := enc.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, xcdr.XCDR2LE, enc.Encoding())
}

func TestRoundTripThroughReader(t *testing.T) {
	f := newFixtures(t)
	v := New(f.shape)
	require.NoError(t, v.SetInt32Value(1, 42))
	require.NoError(t, v.SetStringValue(2, "tri"))
	require.NoError(t, v.SetInt32Values(3, []int32{1, 2}))
	require.NoError(t, v.SetInt16Value(4, 1))

	for _, enc := range []xcdr.Encoding{xcdr.XCDR2LE, xcdr.XCDR2BE} {
		out, err := NewEncoder(enc).WithEncapsulation(true).Marshal(v)
		require.NoError(t, err)

		r, err := xcdr.NewReader(xcdr.NewBytesReader(out))
		require.NoError(t, err)
		framing, _ := r.ReadEncapsulation()
		assert.Equal(t, xcdr.FramingParameterList, framing)
		assert.Equal(t, enc.LittleEndian(), r.Encoding().LittleEndian())

		var dheader uint32
		r.ReadUint32(&dheader)
		assert.Equal(t, uint32(len(out)-8), dheader)

		var h xcdr.EMHeader
		r.ReadEMHeader(&h)
		assert.Equal(t, xcdr.EMHeader{ID: 1, MustUnderstand: true, Size: 4}, h)
		var id int32
		r.ReadInt32(&id)
		assert.Equal(t, int32(42), id)

		r.ReadEMHeader(&h)
		assert.Equal(t, uint32(2), h.ID)
		var label string
		r.ReadString8(&label)
		assert.Equal(t, "tri", label)

		r.ReadEMHeader(&h)
		assert.Equal(t, uint32(3), h.ID)
		assert.Equal(t, uint32(12), h.Size)
		var n uint32
		var a, b int32
		r.ReadUint32(&n)
		r.ReadInt32(&a)
		r.ReadInt32(&b)
		assert.Equal(t, []int32{1, 2}, []int32{a, b})
		assert.Equal(t, uint32(2), n)

		r.ReadEMHeader(&h)
		assert.Equal(t, xcdr.EMHeader{ID: 4, Size: 2}, h)
		var color int16
		r.ReadInt16(&color)
		assert.Equal(t, int16(1), color)

		require.NoError(t, r.Err())
		assert.Equal(t, int64(len(out)), r.Count())
	}
}
