package types

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/oy3o/xcdr/errors"
)

// Registry maps type names to types. It is safe for concurrent use.
type Registry struct {
	types *xsync.Map[string, Type]
}

func NewRegistry() *Registry {
	return &Registry{types: xsync.NewMap[string, Type]()}
}

// Register adds t under its name. Registering a different type under a taken name fails.
func (r *Registry) Register(t Type) error {
	prev, loaded := r.types.LoadOrStore(t.Name(), t)
	if loaded && !Equal(prev, t) {
		return errors.New(errors.PhaseDefine, errors.KindInvalidType).
			Type(t.Name()).
			Detail("name already registered with a different shape").
			Build()
	}
	return nil
}

// Lookup resolves a registered name or a primitive kind name.
func (r *Registry) Lookup(name string) (Type, bool) {
	if t, ok := r.types.Load(name); ok {
		return t, true
	}
	if k, ok := KindByName(name); ok {
		if t, ok := Primitive(k); ok {
			return t, true
		}
	}
	switch name {
	case "string8", "string":
		return String8, true
	case "string16", "wstring":
		return String16, true
	}
	return nil, false
}

// MustLookup is Lookup returning a NotFound error.
func (r *Registry) MustLookup(name string) (Type, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).Type(name).Detail("unknown type").Build()
	}
	return t, nil
}

// Names lists the registered names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.types.Size())
	r.types.Range(func(name string, _ Type) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
