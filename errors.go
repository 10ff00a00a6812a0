package xcdr

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("xcdr: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("xcdr: NewReaderSize with a size smaller than 16 conflict with bufio")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer.
	ErrAlreadyBuffered = errors.New("xcdr: reader or writer is already buffered")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("xcdr: WriteTo called with a nil io.Writer")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative) count from Write.
	ErrInvalidWrite = errors.New("xcdr: writer returned invalid count from Write")

	// ErrInvalidRead indicates that an io.Reader returned an invalid count from Read.
	ErrInvalidRead = errors.New("xcdr: reader returned invalid count from Read")

	// ErrDiscardNegative indicates a Discard operation was attempted with a negative byte count.
	ErrDiscardNegative = errors.New("xcdr: cannot discard negative number of bytes")

	// ErrTruncatedData indicates the data source ended before all expected bytes were read,
	// or a marshaler produced fewer bytes than it sized.
	ErrTruncatedData = errors.New("xcdr: truncated data")

	// ErrUnsupportedEncoding is returned when a writer or reader is configured for an
	// encoding this package does not produce.
	ErrUnsupportedEncoding = errors.New("xcdr: unsupported encoding")

	// ErrUnknownRepresentation is returned for an encapsulation identifier outside the XCDR2 set.
	ErrUnknownRepresentation = errors.New("xcdr: unknown representation identifier")

	// ErrFrameOverflow is returned when a delimited frame does not fit a uint32 length.
	ErrFrameOverflow = errors.New("xcdr: frame length exceeds 32 bits")

	// ErrMalformedString is returned when a string8 length is zero or its terminator is missing.
	ErrMalformedString = errors.New("xcdr: malformed string")
)
