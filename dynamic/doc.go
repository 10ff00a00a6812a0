// Package dynamic holds values whose type is only known at runtime and encodes them as XCDR2.
//
// A Value is created for a types.Type and filled member by member through typed setters.
// Every write is validated against the type before the value changes: struct members must
// accept the written kind, collection indices must respect bounds and a union admits a single
// selected member consistent with its discriminator. Members that are never written encode as
// their type's default.
//
// An Encoder runs two passes over a Value. The size pass records the byte length of every
// delimited frame (DHEADER, EMHEADER/NEXTINT) in walk order; the serialize pass emits the
// same walk, reusing those lengths. Values are not safe for concurrent use, and callers must
// not write to a Value while it is being encoded.
package dynamic
