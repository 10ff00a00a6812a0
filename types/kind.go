package types

type Kind uint8

const (
	KindNone Kind = iota
	KindBoolean
	KindByte
	KindInt8
	KindUInt8
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindFloat32
	KindFloat64
	KindFloat128
	KindChar8
	KindChar16
	KindString8
	KindString16
	KindAlias
	KindEnum
	KindBitmask
	KindBitset
	KindStructure
	KindUnion
	KindSequence
	KindArray
	KindMap
)

var kindNames = [...]string{
	KindNone:      "none",
	KindBoolean:   "boolean",
	KindByte:      "byte",
	KindInt8:      "int8",
	KindUInt8:     "uint8",
	KindInt16:     "int16",
	KindUInt16:    "uint16",
	KindInt32:     "int32",
	KindUInt32:    "uint32",
	KindInt64:     "int64",
	KindUInt64:    "uint64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindFloat128:  "float128",
	KindChar8:     "char8",
	KindChar16:    "char16",
	KindString8:   "string8",
	KindString16:  "string16",
	KindAlias:     "alias",
	KindEnum:      "enum",
	KindBitmask:   "bitmask",
	KindBitset:    "bitset",
	KindStructure: "structure",
	KindUnion:     "union",
	KindSequence:  "sequence",
	KindArray:     "array",
	KindMap:       "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindByName resolves the names used by String.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindNone, false
}

// IsPrimitive reports whether values of the kind have a fixed wire size
// and need no delimiter as collection elements.
func (k Kind) IsPrimitive() bool {
	return k >= KindBoolean && k <= KindChar16
}

// IsString reports whether the kind is a narrow or wide string.
func (k Kind) IsString() bool {
	return k == KindString8 || k == KindString16
}

// IsCollection reports whether members of the kind are addressed by index.
func (k Kind) IsCollection() bool {
	return k == KindSequence || k == KindArray || k == KindMap
}

// IsAggregate reports whether the kind has named members.
func (k Kind) IsAggregate() bool {
	return k == KindStructure || k == KindUnion
}

// IsDiscriminator reports whether a union may be discriminated by the kind.
func (k Kind) IsDiscriminator() bool {
	switch k {
	case KindBoolean, KindByte, KindChar8, KindChar16,
		KindInt8, KindUInt8, KindInt16, KindUInt16,
		KindInt32, KindUInt32, KindInt64, KindUInt64, KindEnum:
		return true
	}
	return false
}

// PrimitiveSize is the wire size of a primitive kind, 0 for the others.
func (k Kind) PrimitiveSize() int {
	switch k {
	case KindBoolean, KindByte, KindInt8, KindUInt8, KindChar8:
		return 1
	case KindInt16, KindUInt16, KindChar16:
		return 2
	case KindInt32, KindUInt32, KindFloat32:
		return 4
	case KindInt64, KindUInt64, KindFloat64:
		return 8
	case KindFloat128:
		return 16
	}
	return 0
}

// Extensibility controls how aggregates are framed on the wire.
type Extensibility uint8

const (
	Final Extensibility = iota
	Appendable
	Mutable
)

var extensibilityNames = [...]string{
	Final:      "final",
	Appendable: "appendable",
	Mutable:    "mutable",
}

func (e Extensibility) String() string {
	if int(e) < len(extensibilityNames) {
		return extensibilityNames[e]
	}
	return "unknown"
}

// ExtensibilityByName resolves the names used by String.
func ExtensibilityByName(name string) (Extensibility, bool) {
	for e, n := range extensibilityNames {
		if n == name {
			return Extensibility(e), true
		}
	}
	return Final, false
}

// MemberID identifies a member of an aggregate or, for collections, an element index.
type MemberID uint32

const (
	// MemberIDInvalid addresses the value itself rather than one of its members.
	MemberIDInvalid MemberID = 0x0FFFFFFF
	// MemberIDDiscriminator addresses the discriminator of a union.
	MemberIDDiscriminator MemberID = 0x10000000
	// MaxMemberID is the largest id a member can declare.
	MaxMemberID MemberID = 0x0FFFFFFE
)
