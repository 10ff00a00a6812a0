package dynamic

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/types"
)

// String renders the written content of v, one member per line. Unwritten members are omitted.
func (v *Value) String() string {
	var b strings.Builder
	v.print(&b, v.typ, 0)
	return b.String()
}

func (v *Value) print(b *strings.Builder, t types.Type, depth int) {
	l := layoutOf(t)
	if l.scalarLike() && v.Has(SelfID) {
		s, _ := v.Scalar(SelfID)
		b.WriteString(formatScalar(t, s))
		return
	}
	b.WriteString(l.name)
	b.WriteString(" {")
	ids := v.ids()
	if len(ids) == 0 {
		b.WriteString("}")
		return
	}
	b.WriteByte('\n')
	for _, id := range v.ordered(l, ids) {
		name, mt := v.describe(l, id)
		b.WriteString(strings.Repeat("  ", depth+1))
		b.WriteString(name)
		b.WriteString(": ")
		switch {
		case v.nested[id] != nil:
			v.nested[id].print(b, mt, depth+1)
		case v.sequences[id] != nil:
			b.WriteString(formatSequence(mt, v.sequences[id]))
		default:
			b.WriteString(formatScalar(mt, v.scalars[id]))
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("}")
}

// ordered sorts ids by member declaration for aggregates, numerically otherwise.
// The discriminator comes first.
func (v *Value) ordered(l *layout, ids []types.MemberID) []types.MemberID {
	rank := func(id types.MemberID) int {
		if id == DiscriminatorID {
			return -1
		}
		if m, ok := l.base.Member(id); ok && l.kind.IsAggregate() {
			return m.Index
		}
		return int(id)
	}
	slices.SortFunc(ids, func(a, b types.MemberID) int { return rank(a) - rank(b) })
	return ids
}

// describe names the entry at id and returns the type it holds.
func (v *Value) describe(l *layout, id types.MemberID) (string, types.Type) {
	switch {
	case id == DiscriminatorID:
		return "discriminator", l.disc
	case l.kind.IsAggregate():
		if m, ok := l.base.Member(id); ok {
			return m.Name, m.Type
		}
	case l.kind == types.KindBitmask:
		if lit, ok := types.LiteralByValue(l.base, int32(id)); ok {
			return lit.Name, types.Boolean
		}
		return indexPath(uint64(id)), types.Boolean
	case l.kind == types.KindString8:
		return indexPath(uint64(id)), types.Char8
	case l.kind == types.KindString16:
		return indexPath(uint64(id)), types.Char16
	case l.elem != nil:
		return indexPath(uint64(id)), l.elem
	}
	return "#" + strconv.FormatUint(uint64(id), 10), l.base
}

func formatScalar(t types.Type, s Scalar) string {
	if t != nil {
		l := layoutOf(t)
		switch l.kind {
		case types.KindEnum:
			if n, ok := label(s); ok {
				if lit, ok := types.LiteralByValue(l.base, int32(n)); ok {
					return lit.Name
				}
			}
		case types.KindBitmask:
			return formatFlags(l, bits(s))
		}
	}
	switch x := s.(type) {
	case String8:
		return strconv.Quote(string(x))
	case String16:
		return "L" + strconv.Quote(string(x))
	case Char8:
		return strconv.QuoteRuneToASCII(rune(x))
	case Char16:
		return "L" + strconv.QuoteRune(rune(x))
	case Float128:
		return xcdr.Float128(x).String()
	}
	return fmt.Sprint(s)
}

func formatFlags(l *layout, mask uint64) string {
	var names []string
	for _, lit := range l.base.Descriptor().Literals {
		if mask&(1<<uint(lit.Value)) != 0 {
			names = append(names, lit.Name)
			mask &^= 1 << uint(lit.Value)
		}
	}
	if mask != 0 || len(names) == 0 {
		names = append(names, "0x"+strconv.FormatUint(mask, 16))
	}
	return strings.Join(names, "|")
}

func formatSequence(t types.Type, s Sequence) string {
	var elem types.Type
	if t != nil {
		elem = layoutOf(t).elem
	}
	parts := make([]string, s.Len())
	for i := range parts {
		parts[i] = formatScalar(elem, s.At(i))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
