// Package errors provides the structured error type of the xcdr module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category),
// and carry the member path inside the value being written or encoded.
//
//	err := errors.New(errors.PhaseWrite, errors.KindTypeMismatch).
//		Path("shape", "#3").
//		Type("int32").
//		Detail("member expects %s", "string8").
//		Build()
//
// Kinds can be tested regardless of phase with the exported sentinels:
//
//	if errors.Is(err, errors.ErrInvalidIndex) { ... }
package errors
