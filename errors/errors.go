package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDefine    Phase = "define"    // type construction
	PhaseLoad      Phase = "load"      // type and value documents
	PhaseWrite     Phase = "write"     // member write protocol
	PhaseSize      Phase = "size"      // size pass
	PhaseSerialize Phase = "serialize" // serialize pass
	PhaseDecode    Phase = "decode"    // wire reading
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch      Kind = "type_mismatch"
	KindInvalidIndex      Kind = "invalid_index"
	KindInconsistentUnion Kind = "inconsistent_union"
	KindUnsupportedShape  Kind = "unsupported_shape"
	KindInvalidArgument   Kind = "invalid_argument"
	KindInvalidType       Kind = "invalid_type"
	KindInvalidData       Kind = "invalid_data"
	KindNotFound          Kind = "not_found"
	KindSize              Kind = "size"
	KindEncode            Kind = "encode"
)

// Sentinels match any error of their kind, whatever the phase.
var (
	ErrTypeMismatch      = &Error{Kind: KindTypeMismatch}
	ErrInvalidIndex      = &Error{Kind: KindInvalidIndex}
	ErrInconsistentUnion = &Error{Kind: KindInconsistentUnion}
	ErrUnsupportedShape  = &Error{Kind: KindUnsupportedShape}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrInvalidType       = &Error{Kind: KindInvalidType}
	ErrInvalidData       = &Error{Kind: KindInvalidData}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrSize              = &Error{Kind: KindSize}
	ErrEncode            = &Error{Kind: KindEncode}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase matches
// every phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && (t.Phase == "" || e.Phase == t.Phase)
	}
	return false
}

// Is is errors.Is from the standard library.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As is errors.As from the standard library.
func As(err error, target any) bool { return stderrors.As(err, target) }

// HasKind reports whether any structured error in err's chain has the given kind.
func HasKind(err error, kind Kind) bool {
	return stderrors.Is(err, &Error{Kind: kind})
}

// KindOf returns the kind of the outermost structured error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the member path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the type name
func (b *Builder) Type(name string) *Builder {
	b.err.TypeName = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, typeName, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		TypeName: typeName,
		Detail:   detail,
	}
}

// InvalidIndex creates an index out of bound error
func InvalidIndex(phase Phase, path []string, index, bound uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidIndex,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bound %d", index, bound),
		Value:  index,
	}
}

// Unsupported creates an unsupported shape error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedShape,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns a copy of err with elem prepended to its path.
// Errors that are not *Error are returned unchanged.
func WithPath(err error, elem string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	c := *e
	c.Path = append([]string{elem}, e.Path...)
	return &c
}
