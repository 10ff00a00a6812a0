package types

import (
	"fmt"
	"slices"
	"strings"
)

// Equal reports whether a and b describe the same type after alias resolution.
// Aggregates and enumerations compare by name and full shape.
func Equal(a, b Type) bool {
	return equal(a, b, make(map[[2]Type]bool))
}

func equal(a, b Type, seen map[[2]Type]bool) bool {
	a, b = Resolve(a), Resolve(b)
	if a == nil || b == nil {
		return a == b
	}
	if Comparable(a) && Comparable(b) {
		if a == b {
			return true
		}
		pair := [2]Type{a, b}
		if seen[pair] {
			return true
		}
		seen[pair] = true
	}

	da, db := a.Descriptor(), b.Descriptor()
	if da.Kind != db.Kind || da.Extensibility != db.Extensibility || !slices.Equal(da.Bound, db.Bound) {
		return false
	}
	switch da.Kind {
	case KindEnum, KindBitmask:
		return da.Name == db.Name && slices.Equal(da.Literals, db.Literals)
	case KindSequence, KindArray:
		return equal(da.ElementType, db.ElementType, seen)
	case KindMap:
		return equal(da.KeyElementType, db.KeyElementType, seen) && equal(da.ElementType, db.ElementType, seen)
	case KindStructure, KindUnion:
		if da.Name != db.Name || a.MemberCount() != b.MemberCount() {
			return false
		}
		if da.Kind == KindUnion && !equal(da.DiscriminatorType, db.DiscriminatorType, seen) {
			return false
		}
		for i := 0; i < a.MemberCount(); i++ {
			ma, _ := a.MemberByIndex(i)
			mb, _ := b.MemberByIndex(i)
			if !equalMember(ma, mb) || !equal(ma.Type, mb.Type, seen) {
				return false
			}
		}
	}
	return true
}

func equalMember(a, b *MemberDescriptor) bool {
	return a.ID == b.ID && a.Name == b.Name &&
		a.Optional == b.Optional && a.MustUnderstand == b.MustUnderstand && a.Key == b.Key &&
		a.DefaultLabel == b.DefaultLabel && slices.Equal(a.Labels, b.Labels)
}

// Describe renders t in an IDL-like notation.
func Describe(t Type) string {
	var b strings.Builder
	describe(&b, t, 0)
	return b.String()
}

func describe(b *strings.Builder, t Type, depth int) {
	d := t.Descriptor()
	indent := strings.Repeat("  ", depth)
	switch d.Kind {
	case KindAlias:
		fmt.Fprintf(b, "typedef %s %s;", d.BaseType.Name(), d.Name)
	case KindEnum, KindBitmask:
		fmt.Fprintf(b, "@bit_bound(%d) %s %s {", d.Bound[0], d.Kind, d.Name)
		for i, l := range d.Literals {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(b, " %s=%d", l.Name, l.Value)
		}
		b.WriteString(" };")
	case KindStructure, KindUnion:
		fmt.Fprintf(b, "@%s %s %s", d.Extensibility, d.Kind, d.Name)
		if d.Kind == KindUnion {
			fmt.Fprintf(b, " switch (%s)", d.DiscriminatorType.Name())
		}
		b.WriteString(" {\n")
		for i := 0; i < t.MemberCount(); i++ {
			m, _ := t.MemberByIndex(i)
			b.WriteString(indent + "  ")
			for _, l := range m.Labels {
				fmt.Fprintf(b, "case %d: ", l)
			}
			if m.DefaultLabel {
				b.WriteString("default: ")
			}
			if m.Key {
				b.WriteString("@key ")
			}
			if m.Optional {
				b.WriteString("@optional ")
			}
			fmt.Fprintf(b, "@id(%d) %s %s;\n", m.ID, m.Type.Name(), m.Name)
		}
		b.WriteString(indent + "};")
	default:
		b.WriteString(d.Name)
	}
}
