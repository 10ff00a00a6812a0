package dynamic

import (
	"maps"

	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/errors"
	"github.com/oy3o/xcdr/types"
)

const (
	// SelfID addresses the value itself when its type is carried as a single scalar.
	SelfID = types.MemberIDInvalid
	// DiscriminatorID addresses the discriminator of a union value.
	DiscriminatorID = types.MemberIDDiscriminator
)

// Value is a value of a runtime type, built member by member.
//
// Each written id lives in exactly one of three stores: scalars, homogeneous sequences
// or nested values. Nested values are owned by their parent.
type Value struct {
	typ       types.Type
	scalars   map[types.MemberID]Scalar
	sequences map[types.MemberID]Sequence
	nested    map[types.MemberID]*Value
}

// New returns an empty value of type t. A nil t is a programming error and panics;
// FromNative reports it as InvalidArgument instead.
func New(t types.Type) *Value {
	if t == nil {
		panic("dynamic: New with nil type")
	}
	return &Value{typ: t}
}

// Type returns the type the value was created for.
func (v *Value) Type() types.Type { return v.typ }

func (v *Value) layout() *layout { return layoutOf(v.typ) }

func (v *Value) putScalar(id types.MemberID, s Scalar) {
	delete(v.sequences, id)
	delete(v.nested, id)
	if v.scalars == nil {
		v.scalars = make(map[types.MemberID]Scalar)
	}
	v.scalars[id] = s
}

func (v *Value) putSequence(id types.MemberID, s Sequence) {
	delete(v.scalars, id)
	delete(v.nested, id)
	if v.sequences == nil {
		v.sequences = make(map[types.MemberID]Sequence)
	}
	v.sequences[id] = s
}

func (v *Value) putNested(id types.MemberID, n *Value) {
	delete(v.scalars, id)
	delete(v.sequences, id)
	if v.nested == nil {
		v.nested = make(map[types.MemberID]*Value)
	}
	v.nested[id] = n
}

// Scalar returns the scalar written at id.
func (v *Value) Scalar(id types.MemberID) (Scalar, bool) {
	if v == nil {
		return nil, false
	}
	s, ok := v.scalars[id]
	return s, ok
}

// Sequence returns the sequence written at id.
func (v *Value) Sequence(id types.MemberID) (Sequence, bool) {
	if v == nil {
		return nil, false
	}
	s, ok := v.sequences[id]
	return s, ok
}

// Complex returns the nested value written at id. The result is owned by v.
func (v *Value) Complex(id types.MemberID) (*Value, bool) {
	if v == nil {
		return nil, false
	}
	n, ok := v.nested[id]
	return n, ok
}

// Get returns the scalar at id if it was written with type T.
func Get[T Scalar](v *Value, id types.MemberID) (T, bool) {
	var zero T
	s, ok := v.Scalar(id)
	if !ok {
		return zero, false
	}
	t, ok := s.(T)
	return t, ok
}

// Has reports whether anything was written at id.
func (v *Value) Has(id types.MemberID) bool {
	if v == nil {
		return false
	}
	if _, ok := v.scalars[id]; ok {
		return true
	}
	if _, ok := v.sequences[id]; ok {
		return true
	}
	_, ok := v.nested[id]
	return ok
}

// ids returns every written id, in no particular order.
func (v *Value) ids() []types.MemberID {
	if v == nil {
		return nil
	}
	out := make([]types.MemberID, 0, len(v.scalars)+len(v.sequences)+len(v.nested))
	for id := range v.scalars {
		out = append(out, id)
	}
	for id := range v.sequences {
		out = append(out, id)
	}
	for id := range v.nested {
		out = append(out, id)
	}
	return out
}

// ClearValue forgets whatever was written at id.
func (v *Value) ClearValue(id types.MemberID) {
	delete(v.scalars, id)
	delete(v.sequences, id)
	delete(v.nested, id)
}

// ClearAll forgets every write.
func (v *Value) ClearAll() {
	v.scalars = nil
	v.sequences = nil
	v.nested = nil
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{typ: v.typ, scalars: maps.Clone(v.scalars)}
	if v.sequences != nil {
		c.sequences = make(map[types.MemberID]Sequence, len(v.sequences))
		for id, s := range v.sequences {
			c.sequences[id] = s.clone()
		}
	}
	if v.nested != nil {
		c.nested = make(map[types.MemberID]*Value, len(v.nested))
		for id, n := range v.nested {
			c.nested[id] = n.Clone()
		}
	}
	return c
}

// Equal reports whether o has a structurally equal type and the same writes.
// Members left at their default do not compare equal to members written with it.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if !types.Equal(v.typ, o.typ) {
		return false
	}
	if len(v.scalars) != len(o.scalars) || len(v.sequences) != len(o.sequences) || len(v.nested) != len(o.nested) {
		return false
	}
	for id, s := range v.scalars {
		if t, ok := o.scalars[id]; !ok || s != t {
			return false
		}
	}
	for id, s := range v.sequences {
		if t, ok := o.sequences[id]; !ok || !s.equal(t) {
			return false
		}
	}
	for id, n := range v.nested {
		if m, ok := o.nested[id]; !ok || !n.Equal(m) {
			return false
		}
	}
	return true
}

// ItemCount returns the number of members of an aggregate, the number of elements of a
// collection or string, or 1 for values carried as a single scalar.
// A union counts its discriminator and, if one is active, the selected member.
func (v *Value) ItemCount() int {
	l := v.layout()
	switch l.kind {
	case types.KindStructure:
		return len(l.members)
	case types.KindUnion:
		if _, ok := v.SelectedMember(); ok {
			return 2
		}
		return 1
	case types.KindArray:
		return int(l.length)
	case types.KindSequence:
		n, _ := v.span(l, errors.PhaseWrite)
		return int(n)
	case types.KindString8, types.KindString16:
		if s, ok := v.Scalar(SelfID); ok {
			if s8, ok := s.(String8); ok {
				return len(s8)
			}
			return len(xcdr.UTF16(string(s.(String16))))
		}
		n, _ := v.span(l, errors.PhaseWrite)
		return int(n)
	case types.KindMap, types.KindBitset:
		return 0
	}
	return 1
}

// MemberIDByName returns the id of the named member, or types.MemberIDInvalid.
func (v *Value) MemberIDByName(name string) types.MemberID {
	if m, ok := v.layout().base.MemberByName(name); ok {
		return m.ID
	}
	return types.MemberIDInvalid
}

// MemberIDAtIndex maps a position to an id: a member in declaration order for structures,
// the discriminator then the selected member for unions, the element index for collections.
func (v *Value) MemberIDAtIndex(index int) types.MemberID {
	l := v.layout()
	if index < 0 {
		return types.MemberIDInvalid
	}
	switch l.kind {
	case types.KindStructure:
		if index < len(l.members) {
			return l.members[index].ID
		}
	case types.KindUnion:
		if index == 0 {
			return DiscriminatorID
		}
		if id, ok := v.SelectedMember(); ok && index == 1 {
			return id
		}
	case types.KindSequence, types.KindArray, types.KindString8, types.KindString16:
		if index < v.ItemCount() {
			return types.MemberID(index)
		}
	}
	return types.MemberIDInvalid
}
