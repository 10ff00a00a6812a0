package dynamic

import (
	"github.com/oy3o/xcdr/errors"
	"github.com/oy3o/xcdr/types"
)

// UnionState tracks what has been written to a union value.
type UnionState uint8

const (
	UnionEmpty UnionState = iota
	UnionDiscriminatorOnly
	UnionMemberOnly
	UnionDiscriminatorAndMember
)

var unionStateNames = [...]string{
	UnionEmpty:                  "empty",
	UnionDiscriminatorOnly:      "discriminator",
	UnionMemberOnly:             "member",
	UnionDiscriminatorAndMember: "discriminator+member",
}

func (s UnionState) String() string {
	if int(s) < len(unionStateNames) {
		return unionStateNames[s]
	}
	return "unknown"
}

// UnionState reports which parts of a union value were written.
// It is UnionEmpty for values of other kinds.
func (v *Value) UnionState() UnionState {
	if v.layout().kind != types.KindUnion {
		return UnionEmpty
	}
	_, disc := v.writtenLabel()
	_, member := v.SelectedMember()
	switch {
	case disc && member:
		return UnionDiscriminatorAndMember
	case disc:
		return UnionDiscriminatorOnly
	case member:
		return UnionMemberOnly
	}
	return UnionEmpty
}

// SelectedMember returns the id of the active union member.
func (v *Value) SelectedMember() (types.MemberID, bool) {
	if v == nil || v.layout().kind != types.KindUnion {
		return types.MemberIDInvalid, false
	}
	for _, id := range v.ids() {
		if id != DiscriminatorID {
			return id, true
		}
	}
	return types.MemberIDInvalid, false
}

// Discriminator returns the effective discriminator label of a union value and whether it
// was written. An unwritten discriminator reads as its type's default.
func (v *Value) Discriminator() (int64, bool) {
	l := v.layout()
	if l.kind != types.KindUnion {
		return 0, false
	}
	if label, ok := v.writtenLabel(); ok {
		return label, true
	}
	return defaultLabel(l.disc), false
}

func (v *Value) writtenLabel() (int64, bool) {
	if s, ok := v.Scalar(DiscriminatorID); ok {
		return label(s)
	}
	if n, ok := v.Complex(DiscriminatorID); ok {
		return n.selfLabel(), true
	}
	return 0, false
}

// selfLabel reads a discriminator-typed value as a label.
func (v *Value) selfLabel() int64 {
	if s, ok := v.Scalar(SelfID); ok {
		if l, ok := label(s); ok {
			return l
		}
	}
	return defaultLabel(v.typ)
}

// selects reports whether label selects member m of union l.
func selects(l *layout, m *types.MemberDescriptor, label int64) bool {
	sel, ok := types.SelectMember(l.base, label)
	return ok && sel.ID == m.ID
}

func inconsistent(phase errors.Phase, l *layout, format string, args ...any) error {
	return errors.New(phase, errors.KindInconsistentUnion).Type(l.name).Detail(format, args...).Build()
}

// checkDiscriminator validates writing label while a member may already be active.
func (v *Value) checkDiscriminator(l *layout, label int64) error {
	id, ok := v.SelectedMember()
	if !ok {
		return nil
	}
	m, ok := l.base.Member(id)
	if !ok || !selects(l, m, label) {
		return inconsistent(errors.PhaseWrite, l, "discriminator %d does not select active member %d", label, id)
	}
	return nil
}

// checkMember validates selecting m against the active member and written discriminator.
func (v *Value) checkMember(l *layout, m *types.MemberDescriptor) error {
	if id, ok := v.SelectedMember(); ok && id != m.ID {
		return inconsistent(errors.PhaseWrite, l, "member %q selected while member %d is active", m.Name, id)
	}
	if label, ok := v.writtenLabel(); ok && !selects(l, m, label) {
		return inconsistent(errors.PhaseWrite, l, "discriminator %d does not select member %q", label, m.Name)
	}
	return nil
}

// resolveUnion determines the member to encode and the discriminator label to emit.
// The member is nil when the label selects none.
func (v *Value) resolveUnion(l *layout, phase errors.Phase) (*types.MemberDescriptor, int64, error) {
	label, written := v.writtenLabel()
	id, selected := v.SelectedMember()
	if !selected {
		if !written {
			label = defaultLabel(l.disc)
		}
		m, _ := types.SelectMember(l.base, label)
		return m, label, nil
	}
	m, ok := l.base.Member(id)
	if !ok {
		return nil, 0, inconsistent(phase, l, "no member with id %d", id)
	}
	if written {
		if !selects(l, m, label) {
			return nil, 0, inconsistent(phase, l, "discriminator %d does not select member %q", label, m.Name)
		}
		return m, label, nil
	}
	label, err := synthesizeLabel(l, m, phase)
	return m, label, err
}

// synthesizeLabel derives a discriminator for a member written without one: its first case
// label, or for the default member the first value that matches no case label.
func synthesizeLabel(l *layout, m *types.MemberDescriptor, phase errors.Phase) (int64, error) {
	if len(m.Labels) > 0 {
		return m.Labels[0], nil
	}
	if !m.DefaultLabel {
		return 0, inconsistent(phase, l, "member %q has no case label", m.Name)
	}
	dl := layoutOf(l.disc)
	var candidates []int64
	if dl.kind == types.KindEnum {
		for _, lit := range dl.base.Descriptor().Literals {
			candidates = append(candidates, int64(lit.Value))
		}
	} else {
		taken := 0
		for _, o := range l.members {
			taken += len(o.Labels)
		}
		for c := int64(0); c <= int64(taken); c++ {
			candidates = append(candidates, c)
		}
	}
	for _, c := range candidates {
		if _, fits := integer(dl.repr, c); fits && selects(l, m, c) {
			return c, nil
		}
	}
	return 0, inconsistent(phase, l, "no discriminator value selects default member %q", m.Name)
}
