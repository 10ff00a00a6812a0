package types

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/xcdr/errors"
)

// Document is a set of type declarations read from YAML or JSON.
type Document struct {
	Types []TypeSpec `yaml:"types"`
}

// TypeSpec declares one type. Which fields apply depends on Kind.
type TypeSpec struct {
	Name          string        `yaml:"name"`
	Kind          string        `yaml:"kind"`
	Extensibility string        `yaml:"extensibility"`
	BitBound      uint32        `yaml:"bit_bound"`
	Bound         uint32        `yaml:"bound"`
	Dims          []uint32      `yaml:"dims"`
	Element       *TypeRef      `yaml:"element"`
	Key           *TypeRef      `yaml:"key"`
	Base          *TypeRef      `yaml:"base"`
	Discriminator *TypeRef      `yaml:"discriminator"`
	Literals      []LiteralSpec `yaml:"literals"`
	Members       []MemberSpec  `yaml:"members"`
}

// TypeRef is either the name of a type or an inline declaration.
type TypeRef struct {
	Name   string
	Inline *TypeSpec
}

func (r *TypeRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Name = node.Value
		return nil
	}
	r.Inline = new(TypeSpec)
	return node.Decode(r.Inline)
}

// LiteralSpec is an enumerator or flag: a bare name or a mapping.
type LiteralSpec struct {
	Name    string `yaml:"name"`
	Value   *int32 `yaml:"value"`
	Default bool   `yaml:"default"`
}

func (l *LiteralSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		l.Name = node.Value
		return nil
	}
	type plain LiteralSpec
	return node.Decode((*plain)(l))
}

// LabelSpec is a union case label: an integer or an enumerator name.
type LabelSpec struct {
	Value   int64
	Literal string
}

func (l *LabelSpec) UnmarshalYAML(node *yaml.Node) error {
	if v, err := strconv.ParseInt(node.Value, 0, 64); err == nil {
		l.Value = v
		return nil
	}
	switch node.Value {
	case "true":
		l.Value = 1
	case "false":
		l.Value = 0
	default:
		l.Literal = node.Value
	}
	return nil
}

// MemberSpec declares a structure or union member.
type MemberSpec struct {
	Name           string      `yaml:"name"`
	ID             *uint32     `yaml:"id"`
	Type           TypeRef     `yaml:"type"`
	Optional       bool        `yaml:"optional"`
	Key            bool        `yaml:"key"`
	MustUnderstand bool        `yaml:"must_understand"`
	Labels         []LabelSpec `yaml:"labels"`
	Default        bool        `yaml:"default"`
}

// ParseYAML reads a YAML type document into a new registry.
func ParseYAML(data []byte) (*Registry, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "malformed type document")
	}
	reg := NewRegistry()
	if err := reg.Load(&doc); err != nil {
		return nil, err
	}
	return reg, nil
}

// ParseJSONC reads a JSON type document that may carry comments and trailing commas.
func ParseJSONC(data []byte) (*Registry, error) {
	return ParseYAML(jsonc.ToJSON(data))
}

// LoadFile reads a type document, choosing the syntax by extension.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return ParseJSONC(data)
	}
	return ParseYAML(data)
}

// Load declares every type of doc, in order, into r.
func (r *Registry) Load(doc *Document) error {
	for i := range doc.Types {
		spec := &doc.Types[i]
		if spec.Name == "" {
			return errors.InvalidData(errors.PhaseLoad, []string{"types", strconv.Itoa(i)}, "type without name")
		}
		t, err := r.build(spec)
		if err != nil {
			return errors.WithPath(err, spec.Name)
		}
		if t.Name() != spec.Name {
			// anonymous shapes declared at top level are registered as typedefs
			t = AliasOf(spec.Name, t)
		}
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) resolve(ref *TypeRef) (Type, error) {
	if ref == nil {
		return nil, errors.InvalidData(errors.PhaseLoad, nil, "missing type reference")
	}
	if ref.Inline != nil {
		return r.build(ref.Inline)
	}
	return r.MustLookup(ref.Name)
}

func (r *Registry) build(s *TypeSpec) (Type, error) {
	switch s.Kind {
	case "alias", "typedef":
		base, err := r.resolve(s.Base)
		if err != nil {
			return nil, err
		}
		return AliasOf(s.Name, base), nil
	case "string8", "string":
		return String8Of(s.Bound), nil
	case "string16", "wstring":
		return String16Of(s.Bound), nil
	case "sequence":
		elem, err := r.resolve(s.Element)
		if err != nil {
			return nil, err
		}
		return SequenceOf(elem, s.Bound), nil
	case "array":
		elem, err := r.resolve(s.Element)
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem, s.Dims...)
	case "map":
		key, err := r.resolve(s.Key)
		if err != nil {
			return nil, err
		}
		elem, err := r.resolve(s.Element)
		if err != nil {
			return nil, err
		}
		return MapOf(key, elem, s.Bound), nil
	case "enum":
		return EnumOf(s.Name, bitBoundOr(s.BitBound, 32), literals(s.Literals)...)
	case "bitmask":
		return BitmaskOf(s.Name, bitBoundOr(s.BitBound, 32), literals(s.Literals)...)
	case "struct", "structure":
		return r.buildStruct(s)
	case "union":
		return r.buildUnion(s)
	}
	if k, ok := KindByName(s.Kind); ok {
		if t, ok := Primitive(k); ok {
			return t, nil
		}
	}
	return nil, errors.InvalidData(errors.PhaseLoad, nil, "unknown kind "+strconv.Quote(s.Kind))
}

func bitBoundOr(b, def uint32) uint32 {
	if b == 0 {
		return def
	}
	return b
}

// literals numbers enumerators that carry no explicit value after their predecessor.
func literals(specs []LiteralSpec) []Literal {
	out := make([]Literal, len(specs))
	next := int32(0)
	for i, s := range specs {
		if s.Value != nil {
			next = *s.Value
		}
		out[i] = Literal{Name: s.Name, Value: next, Default: s.Default}
		next++
	}
	return out
}

func extensibility(name string) (Extensibility, error) {
	if name == "" {
		return Final, nil
	}
	e, ok := ExtensibilityByName(name)
	if !ok {
		return Final, errors.InvalidData(errors.PhaseLoad, nil, "unknown extensibility "+strconv.Quote(name))
	}
	return e, nil
}

func (m *MemberSpec) options() []MemberOption {
	var opts []MemberOption
	if m.Optional {
		opts = append(opts, Optional())
	}
	if m.Key {
		opts = append(opts, Key())
	}
	if m.MustUnderstand {
		opts = append(opts, MustUnderstand())
	}
	return opts
}

func (r *Registry) buildStruct(s *TypeSpec) (Type, error) {
	ext, err := extensibility(s.Extensibility)
	if err != nil {
		return nil, err
	}
	b := NewStruct(s.Name).Extensibility(ext)
	if s.Base != nil {
		base, err := r.resolve(s.Base)
		if err != nil {
			return nil, err
		}
		b.Base(base)
	}
	for i := range s.Members {
		m := &s.Members[i]
		mt, err := r.resolve(&m.Type)
		if err != nil {
			return nil, errors.WithPath(err, m.Name)
		}
		if m.ID != nil {
			b.Member(m.Name, MemberID(*m.ID), mt, m.options()...)
		} else {
			b.Next(m.Name, mt, m.options()...)
		}
	}
	return b.Build()
}

func (r *Registry) buildUnion(s *TypeSpec) (Type, error) {
	ext, err := extensibility(s.Extensibility)
	if err != nil {
		return nil, err
	}
	disc, err := r.resolve(s.Discriminator)
	if err != nil {
		return nil, errors.WithPath(err, "discriminator")
	}
	b := NewUnion(s.Name, disc).Extensibility(ext)
	next := MemberID(1)
	for i := range s.Members {
		m := &s.Members[i]
		mt, err := r.resolve(&m.Type)
		if err != nil {
			return nil, errors.WithPath(err, m.Name)
		}
		labels := make([]int64, len(m.Labels))
		for j, l := range m.Labels {
			if l.Literal == "" {
				labels[j] = l.Value
				continue
			}
			lit, ok := LiteralByName(disc, l.Literal)
			if !ok {
				return nil, errors.InvalidData(errors.PhaseLoad, []string{m.Name}, "unknown label "+strconv.Quote(l.Literal))
			}
			labels[j] = int64(lit.Value)
		}
		id := next
		if m.ID != nil {
			id = MemberID(*m.ID)
		}
		next = id + 1
		if m.Default {
			b.Default(m.Name, id, mt, labels...)
		} else {
			b.Case(m.Name, id, mt, labels...)
		}
	}
	return b.Build()
}
