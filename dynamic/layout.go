package dynamic

import (
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/types"
)

// layout is the per-type information the write protocol and the encoder consult on every
// access, resolved once.
type layout struct {
	name    string
	base    types.Type // alias-resolved
	kind    types.Kind // kind of base
	repr    types.Kind // wire kind of scalar-like types, KindNone otherwise
	ext     types.Extensibility
	bound   uint64 // string or sequence bound (0 = unbounded), enum or bitmask bit-bound
	length  uint64 // array element count
	elem    types.Type
	disc    types.Type
	members []*types.MemberDescriptor // declaration order

	// primitive element types need no DHEADER in collections
	primitive bool
	zero      Scalar
}

// layouts caches layouts by type for the life of the process, so types built at run time
// stay reachable once a value of them was created. Types that cannot be map keys are
// resolved on every access instead.
var layouts = xsync.NewMap[types.Type, *layout]()

func layoutOf(t types.Type) *layout {
	if !types.Comparable(t) {
		return newLayout(t)
	}
	if l, ok := layouts.Load(t); ok {
		return l
	}
	l, _ := layouts.LoadOrStore(t, newLayout(t))
	return l
}

func newLayout(t types.Type) *layout {
	base := types.Resolve(t)
	desc := base.Descriptor()
	l := &layout{
		name: t.Name(),
		base: base,
		kind: base.Kind(),
		repr: types.RepresentationKind(base),
		ext:  desc.Extensibility,
		elem: desc.ElementType,
		disc: desc.DiscriminatorType,
	}
	l.primitive = l.kind.IsPrimitive()
	switch l.kind {
	case types.KindArray:
		l.length = types.ArrayLength(base)
	case types.KindEnum, types.KindBitmask:
		l.bound = uint64(types.BitBound(base))
	default:
		l.bound = uint64(types.Bound(base))
	}
	if l.kind.IsAggregate() {
		l.members = make([]*types.MemberDescriptor, base.MemberCount())
		for i := range l.members {
			l.members[i], _ = base.MemberByIndex(i)
		}
	}
	l.zero = zeroOf(l)
	return l
}

// scalarLike reports whether a value of the type is a single Scalar on the wire.
func (l *layout) scalarLike() bool { return l.repr != types.KindNone }

// framing is the encapsulation framing of a top-level value of the type.
func (l *layout) framing() xcdr.Framing {
	if !l.kind.IsAggregate() {
		return xcdr.FramingPlain
	}
	switch l.ext {
	case types.Appendable:
		return xcdr.FramingDelimited
	case types.Mutable:
		return xcdr.FramingParameterList
	}
	return xcdr.FramingPlain
}
