// Package types is the runtime type descriptor service of the codec.
//
// A Type describes a value's kind and, depending on the kind, its members
// (structures and unions), element type and bounds (strings, sequences, arrays),
// literals (enums and bitmasks) or alias target. Types are immutable once built and
// may be shared between goroutines.
//
// Types are assembled with the constructors and builders of this package:
//
//	color, _ := types.EnumOf("Color", 32,
//		types.Literal{Name: "RED"}, types.Literal{Name: "GREEN", Value: 1})
//	shape, _ := types.NewStruct("Shape").
//		Extensibility(types.Mutable).
//		Member("id", 1, types.Int32, types.Key()).
//		Member("color", 2, color).
//		Member("points", 3, types.SequenceOf(types.Int32, 10)).
//		Build()
//
// or declared in YAML / JSON documents loaded into a Registry.
package types
