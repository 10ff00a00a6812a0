package xcdr

import "io"

// BytesReader reads from an in-memory encoded sample.
type BytesReader struct {
	B []byte // destination slice
	N int    // current read position
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

// Close closes the underlying reader if it implements io.Closer.
func (r *BytesReader) Close() error {
	return nil
}

// Read implements the [io.Reader] interface.
func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// WriteTo implements the [io.WriterTo] interface for efficiency.
func (r *BytesReader) WriteTo(w io.Writer) (int64, error) {
	if r.N >= len(r.B) {
		return 0, nil
	}

	b := r.B[r.N:]
	n, err := w.Write(b)
	if n > len(r.B) {
		return int64(n), ErrInvalidRead
	}
	r.N += n
	if err != nil {
		return int64(n), err
	}

	return int64(n), nil
}

// Reset allows the underlying byte slice to be reused.
func (r *BytesReader) Reset() { r.N = 0 }

// Len returns the number of bytes read.
func (r *BytesReader) Len() int { return r.N }

// Skip advances the read position by n bytes without copying.
func (r *BytesReader) Skip(n int) (int, error) {
	if r.Available() < n {
		skipped := r.Available()
		r.N = len(r.B)
		return skipped, io.ErrUnexpectedEOF
	}
	r.N += n
	return n, nil
}

// Size returns the size of the underlying byte slice.
func (r *BytesReader) Size() int {
	return len(r.B)
}

// Available returns the number of bytes available for reading.
func (r *BytesReader) Available() int {
	length := len(r.B) - r.N
	if length <= 0 {
		return 0
	}
	return length
}
