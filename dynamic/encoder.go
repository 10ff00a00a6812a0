package dynamic

import (
	"math"

	"go.uber.org/zap"

	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/errors"
	"github.com/oy3o/xcdr/types"
)

// Encoder writes Values in one XCDR2 encoding.
type Encoder struct {
	enc   xcdr.Encoding
	encap bool
}

// NewEncoder returns an Encoder for enc.
func NewEncoder(enc xcdr.Encoding) *Encoder {
	return &Encoder{enc: enc}
}

// WithEncapsulation makes the encoder prefix every sample with its encapsulation header.
func (e *Encoder) WithEncapsulation(on bool) *Encoder {
	e.encap = on
	return e
}

// Encoding returns the encoding e writes.
func (e *Encoder) Encoding() xcdr.Encoding { return e.enc }

// plan is the outcome of a size pass.
type plan struct {
	frames []uint32
	total  int64
}

// Size returns the number of bytes Encode will write for v.
func (e *Encoder) Size(v *Value) (int, error) {
	pl, err := e.size(v)
	if err != nil {
		return 0, err
	}
	return int(pl.total), nil
}

// Encode writes v to w, reconfiguring w for the encoder's encoding.
// Alignment restarts at the current position of w.
func (e *Encoder) Encode(w *xcdr.Writer, v *Value) error {
	pl, err := e.size(v)
	if err != nil {
		return err
	}
	return e.encode(w, v, pl)
}

// Marshal encodes v into a buffer of exactly the computed size.
func (e *Encoder) Marshal(v *Value) ([]byte, error) {
	pl, err := e.size(v)
	if err != nil {
		return nil, err
	}
	buf := xcdr.NewBytesWriter(make([]byte, pl.total))
	w, err := xcdr.NewWriter(buf)
	if err != nil {
		return nil, failed(errors.PhaseSerialize, errors.KindEncode, v, err)
	}
	if err := e.encode(w, v, pl); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) size(v *Value) (*plan, error) {
	if v == nil {
		return nil, failed(errors.PhaseSize, errors.KindSize, v, invalidArgument("nil value"))
	}
	if !e.enc.Supported() {
		return nil, failed(errors.PhaseSize, errors.KindSize, v, errors.Unsupported(errors.PhaseSize, "encoding "+e.enc.String()))
	}
	w := xcdr.NewSizer(e.enc)
	p := &pass{w: w, phase: errors.PhaseSize, sizing: true}
	if err := p.sample(v, e.encap); err != nil {
		return nil, failed(errors.PhaseSize, errors.KindSize, v, err)
	}
	if err := w.Err(); err != nil {
		return nil, failed(errors.PhaseSize, errors.KindSize, v, err)
	}
	return &plan{frames: p.frames, total: w.Count()}, nil
}

func (e *Encoder) encode(w *xcdr.Writer, v *Value, pl *plan) error {
	if w == nil {
		return failed(errors.PhaseSerialize, errors.KindEncode, v, xcdr.ErrNilIO)
	}
	w.WithEncoding(e.enc)
	w.ResetOrigin()
	start := w.Count()
	p := &pass{w: w, phase: errors.PhaseSerialize, frames: pl.frames}
	err := p.sample(v, e.encap)
	if err == nil {
		err = w.Err()
	}
	if err == nil && (p.next != len(pl.frames) || w.Count()-start != pl.total) {
		err = errors.New(errors.PhaseSerialize, errors.KindEncode).
			Detail("wrote %d bytes in %d frames, size pass computed %d bytes in %d frames",
				w.Count()-start, p.next, pl.total, len(pl.frames)).
			Build()
	}
	if err != nil {
		return failed(errors.PhaseSerialize, errors.KindEncode, v, err)
	}
	return nil
}

func failed(phase errors.Phase, kind errors.Kind, v *Value, cause error) error {
	e := errors.Wrap(phase, kind, cause, "")
	if v != nil {
		e.TypeName = v.typ.Name()
	}
	Logger().Debug("encoding pass failed",
		zap.String("phase", string(phase)),
		zap.String("type", e.TypeName),
		zap.Error(cause))
	return e
}

// SerializedSize implements xcdr.Sizer.
func (v *Value) SerializedSize(enc xcdr.Encoding) (int, error) {
	return NewEncoder(enc).Size(v)
}

// Serialize implements xcdr.Serializer using w's encoding.
func (v *Value) Serialize(w *xcdr.Writer) error {
	return NewEncoder(w.Encoding()).Encode(w, v)
}

var _ xcdr.Encodable = (*Value)(nil)

// pass is one walk over a value. The size pass records the length of every delimited frame
// in the order frames open; the serialize pass replays them in the same order.
type pass struct {
	w      *xcdr.Writer
	phase  errors.Phase
	sizing bool
	frames []uint32
	next   int
}

// open writes a frame length placeholder and returns its slot and the offset the frame starts at.
func (p *pass) open() (int, int64) {
	slot := p.next
	p.next++
	var n uint32
	if p.sizing {
		p.frames = append(p.frames, 0)
	} else if slot < len(p.frames) {
		n = p.frames[slot]
	}
	p.w.WriteUint32(n)
	return slot, p.w.Count()
}

// close ends the frame in slot, recording or checking its length.
func (p *pass) close(slot int, start int64) error {
	if err := p.w.Err(); err != nil {
		return err
	}
	n := p.w.Count() - start
	if n > math.MaxUint32 {
		return errors.New(p.phase, errors.KindSize).Detail("frame of %d bytes exceeds the length field", n).Build()
	}
	if p.sizing {
		p.frames[slot] = uint32(n)
		return nil
	}
	if slot >= len(p.frames) || p.frames[slot] != uint32(n) {
		return errors.New(p.phase, errors.KindEncode).
			Detail("frame %d is %d bytes, which the size pass did not record", slot, n).
			Build()
	}
	return nil
}

// delimited runs body inside a DHEADER frame when on is set.
func (p *pass) delimited(on bool, body func() error) error {
	if !on {
		return body()
	}
	slot, start := p.open()
	if err := body(); err != nil {
		return err
	}
	return p.close(slot, start)
}

// parameter writes one mutable member: EMHEADER1, NEXTINT, then body.
func (p *pass) parameter(id types.MemberID, mustUnderstand bool, body func() error) error {
	p.w.WriteUint32(xcdr.EMHeader1(uint32(id), mustUnderstand))
	slot, start := p.open()
	if err := body(); err != nil {
		return err
	}
	return p.close(slot, start)
}

// endOfList closes a mutable member list. XCDR2 bounds the list with its DHEADER and
// writes no sentinel.
func (p *pass) endOfList() {}

func (p *pass) sample(v *Value, encap bool) error {
	if encap {
		p.w.WriteEncapsulation(p.w.Encoding().RepresentationID(v.layout().framing()), 0)
	}
	return p.value(v, v.typ)
}

// value encodes v as type t. A nil v encodes t's default.
func (p *pass) value(v *Value, t types.Type) error {
	l := layoutOf(t)
	switch l.kind {
	case types.KindStructure:
		return p.structure(v, l)
	case types.KindUnion:
		return p.union(v, l)
	case types.KindSequence:
		return p.sequence(v, l)
	case types.KindArray:
		return p.array(v, l)
	case types.KindString8, types.KindString16:
		return p.text(v, l)
	case types.KindBitmask:
		return p.bitmask(v, l)
	case types.KindMap, types.KindBitset:
		return errors.Unsupported(p.phase, l.kind.String()+" "+l.name)
	}
	if !l.scalarLike() {
		return errors.New(p.phase, errors.KindInvalidType).Type(l.name).Detail("cannot encode kind %s", l.kind).Build()
	}
	if s, ok := v.Scalar(SelfID); ok {
		return p.scalar(l, s)
	}
	return p.scalar(l, l.zero)
}

// member encodes whatever v holds at id as type t, or t's default.
func (p *pass) member(v *Value, id types.MemberID, t types.Type) error {
	if n, ok := v.Complex(id); ok {
		return p.value(n, t)
	}
	if s, ok := v.Scalar(id); ok {
		return p.scalar(layoutOf(t), s)
	}
	if s, ok := v.Sequence(id); ok {
		return p.homogeneous(layoutOf(t), s)
	}
	return p.value(nil, t)
}

func (p *pass) scalar(l *layout, s Scalar) error {
	if s == nil || s.Kind() != l.repr {
		k := types.KindNone
		if s != nil {
			k = s.Kind()
		}
		return errors.TypeMismatch(p.phase, nil, l.name, k.String()+" where "+l.repr.String()+" is expected")
	}
	switch x := s.(type) {
	case Bool:
		p.w.WriteBool(bool(x))
	case Byte:
		p.w.WriteUint8(byte(x))
	case Int8:
		p.w.WriteInt8(int8(x))
	case UInt8:
		p.w.WriteUint8(uint8(x))
	case Int16:
		p.w.WriteInt16(int16(x))
	case UInt16:
		p.w.WriteUint16(uint16(x))
	case Int32:
		p.w.WriteInt32(int32(x))
	case UInt32:
		p.w.WriteUint32(uint32(x))
	case Int64:
		p.w.WriteInt64(int64(x))
	case UInt64:
		p.w.WriteUint64(uint64(x))
	case Float32:
		p.w.WriteFloat32(float32(x))
	case Float64:
		p.w.WriteFloat64(float64(x))
	case Float128:
		p.w.WriteFloat128(xcdr.Float128(x))
	case Char8:
		p.w.WriteChar8(byte(x))
	case Char16:
		p.w.WriteChar16(uint16(x))
	case String8:
		if l.bound > 0 && uint64(len(x)) > l.bound {
			return errors.InvalidIndex(p.phase, nil, uint64(len(x)), l.bound)
		}
		p.w.WriteString8(string(x))
	case String16:
		units := xcdr.UTF16(string(x))
		if l.bound > 0 && uint64(len(units)) > l.bound {
			return errors.InvalidIndex(p.phase, nil, uint64(len(units)), l.bound)
		}
		p.w.WriteString16(units)
	}
	return nil
}

// text encodes a string value written whole or character by character.
func (p *pass) text(v *Value, l *layout) error {
	if s, ok := v.Scalar(SelfID); ok {
		return p.scalar(l, s)
	}
	n, err := v.span(l, p.phase)
	if err != nil {
		return err
	}
	if l.kind == types.KindString8 {
		b := make([]byte, n)
		for i := range b {
			if c, ok := Get[Char8](v, types.MemberID(i)); ok {
				b[i] = byte(c)
			}
		}
		p.w.WriteString8(string(b))
		return nil
	}
	units := make([]uint16, n)
	for i := range units {
		if c, ok := Get[Char16](v, types.MemberID(i)); ok {
			units[i] = uint16(c)
		}
	}
	p.w.WriteString16(units)
	return nil
}

// bitmask encodes a mask written whole or flag by flag.
func (p *pass) bitmask(v *Value, l *layout) error {
	if s, ok := v.Scalar(SelfID); ok {
		return p.scalar(l, s)
	}
	if l.repr == types.KindNone {
		return errors.New(p.phase, errors.KindInvalidType).Type(l.name).Detail("bit-bound %d", l.bound).Build()
	}
	var flags uint64
	if v != nil {
		for id, s := range v.scalars {
			if b, ok := s.(Bool); ok && bool(b) && id < 64 {
				flags |= 1 << id
			}
		}
	}
	return p.scalar(l, mask(l.repr, flags))
}

func (p *pass) structure(v *Value, l *layout) error {
	switch l.ext {
	case types.Final:
		return p.members(v, l)
	case types.Appendable:
		return p.delimited(true, func() error { return p.members(v, l) })
	}
	return p.delimited(true, func() error {
		for _, m := range l.members {
			if m.Optional && !v.Has(m.ID) {
				continue
			}
			err := p.parameter(m.ID, m.MustUnderstand || m.Key, func() error {
				return p.member(v, m.ID, m.Type)
			})
			if err != nil {
				return errors.WithPath(err, m.Name)
			}
		}
		p.endOfList()
		return nil
	})
}

// members encodes final and appendable member lists; optional members carry a presence flag.
func (p *pass) members(v *Value, l *layout) error {
	for _, m := range l.members {
		if m.Optional {
			present := v.Has(m.ID)
			p.w.WriteBool(present)
			if !present {
				continue
			}
		}
		if err := p.member(v, m.ID, m.Type); err != nil {
			return errors.WithPath(err, m.Name)
		}
	}
	return nil
}

func (p *pass) union(v *Value, l *layout) error {
	m, label, err := v.resolveUnion(l, p.phase)
	if err != nil {
		return err
	}
	disc := func() error {
		if n, ok := v.Complex(DiscriminatorID); ok {
			return p.value(n, l.disc)
		}
		dl := layoutOf(l.disc)
		if s, ok := v.Scalar(DiscriminatorID); ok {
			return p.scalar(dl, s)
		}
		s, ok := integer(dl.repr, label)
		if !ok {
			return inconsistent(p.phase, l, "label %d does not fit discriminator %s", label, dl.name)
		}
		return p.scalar(dl, s)
	}
	selected := func() error {
		if err := p.member(v, m.ID, m.Type); err != nil {
			return errors.WithPath(err, m.Name)
		}
		return nil
	}

	switch l.ext {
	case types.Final, types.Appendable:
		return p.delimited(l.ext == types.Appendable, func() error {
			if err := disc(); err != nil {
				return errors.WithPath(err, "discriminator")
			}
			if m == nil {
				return nil
			}
			return selected()
		})
	}
	return p.delimited(true, func() error {
		if err := p.parameter(0, true, disc); err != nil {
			return errors.WithPath(err, "discriminator")
		}
		if m != nil {
			if err := p.parameter(m.ID, m.MustUnderstand || m.Key, selected); err != nil {
				return err
			}
		}
		p.endOfList()
		return nil
	})
}

func (p *pass) sequence(v *Value, l *layout) error {
	n, err := v.span(l, p.phase)
	if err != nil {
		return err
	}
	return p.delimited(!layoutOf(l.elem).primitive, func() error {
		p.w.WriteUint32(uint32(n))
		return p.elements(v, l, n)
	})
}

func (p *pass) array(v *Value, l *layout) error {
	n, err := v.span(l, p.phase)
	if err != nil {
		return err
	}
	return p.delimited(!layoutOf(l.elem).primitive, func() error {
		return p.elements(v, l, n)
	})
}

func (p *pass) elements(v *Value, l *layout, n uint64) error {
	for i := uint64(0); i < n; i++ {
		if err := p.member(v, types.MemberID(i), l.elem); err != nil {
			return errors.WithPath(err, indexPath(i))
		}
	}
	return nil
}

// homogeneous encodes a Sequence stored for a sequence or array typed target.
// Arrays written short are padded with defaults.
func (p *pass) homogeneous(l *layout, s Sequence) error {
	if l.kind != types.KindSequence && l.kind != types.KindArray {
		return errors.TypeMismatch(p.phase, nil, l.name, "sequence where "+l.kind.String()+" is expected")
	}
	n := uint64(s.Len())
	if limit := l.indexBound(); limit > 0 && n > limit {
		return errors.InvalidIndex(p.phase, nil, n, limit)
	}
	el := layoutOf(l.elem)
	return p.delimited(!el.primitive, func() error {
		if l.kind == types.KindSequence {
			p.w.WriteUint32(uint32(n))
		}
		for i := 0; i < s.Len(); i++ {
			if err := p.scalar(el, s.At(i)); err != nil {
				return errors.WithPath(err, indexPath(uint64(i)))
			}
		}
		if l.kind == types.KindArray {
			for i := n; i < l.length; i++ {
				if err := p.value(nil, l.elem); err != nil {
					return errors.WithPath(err, indexPath(i))
				}
			}
		}
		return nil
	})
}
