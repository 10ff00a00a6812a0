package xcdr

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Zero is an io.Reader that reads an infinite stream of zero bytes.
var Zero io.Reader = zero{}

type zero struct{}

func (z zero) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

type reader interface {
	io.Reader
	io.WriterTo
	io.Closer
}

type ReaderPro interface {
	reader
	io.ByteReader
	Size() int
}

// Reader is the primitive-level XCDR reader. It mirrors Writer: the first error is
// latched and later reads become no-ops, and with an Encoding every primitive read
// first skips the padding the writer inserted.
type Reader struct {
	r        ReaderPro
	count    int64 // total bytes read
	origin   int64
	err      error // first error encountered.
	order    binary.ByteOrder
	maxAlign int
	enc      Encoding
}

var _ ReaderPro = (*Reader)(nil)

// NewReaderSize creates a new Reader with a specified buffer size.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	case *Reader:
		if reader.r.Size() >= size {
			return &Reader{r: reader.r, order: Order}, nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return &Reader{r: &bufioReaderAdapter{reader}, order: Order}, nil
		}
		return nil, ErrAlreadyBuffered

	// in-memory sources need no buffering
	case *BytesReader:
		return &Reader{r: reader, order: Order}, nil
	case *bytes.Reader:
		return &Reader{r: &bytesReaderAdapter{reader}, order: Order}, nil
	case *bytes.Buffer:
		return &Reader{r: &bytesBufferReaderAdapter{reader}, order: Order}, nil
	}

	if size < 16 {
		return nil, ErrSizeTooSmall
	}
	return &Reader{r: &bufioReaderAdapter{bufio.NewReaderSize(r, size)}, order: Order}, nil
}

// NewReader creates a new Reader with a default buffer size.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, 16)
}

// WithByteOrder allows setting a custom byte order and returns
// the configured for chaining.
func (r *Reader) WithByteOrder(order binary.ByteOrder) *Reader {
	r.order = order
	return r
}

// WithEncoding switches the reader to aligned XCDR input in enc's byte order.
func (r *Reader) WithEncoding(enc Encoding) *Reader {
	if !enc.Supported() {
		r.setError(ErrUnsupportedEncoding)
		return r
	}
	r.enc = enc
	r.order = enc.Order
	r.maxAlign = enc.MaxAlign()
	return r
}

func (r *Reader) Encoding() Encoding { return r.enc }

// ResetOrigin makes the current offset the origin for alignment.
func (r *Reader) ResetOrigin() { r.origin = r.count }

// Offset is the number of bytes consumed since the alignment origin.
func (r *Reader) Offset() int64 { return r.count - r.origin }

// Close closes the underlying reader if it implements io.Closer.
func (r *Reader) Close() error {
	return r.r.Close()
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

// WriteTo implements io.WriterTo for efficient copying.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if w == nil {
		r.setError(ErrWriteToNil)
		return 0, r.err
	}

	n, err := r.r.WriteTo(w)
	r.count += n
	r.setError(err)
	return n, r.err
}

func (r *Reader) Size() int    { return r.r.Size() }
func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// readFull is an internal helper to read an exact number of bytes.
func (r *Reader) readFull(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		r.short(err)
		return nil
	}
	return buf
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return r.readFull(n)
}

// Skip discards n bytes.
func (r *Reader) Skip(n int64) {
	if r.err != nil || n <= 0 {
		return
	}
	if _, err := Discard(r, n); err != nil {
		r.short(err)
	}
}

// short records a read that ended before the requested byte count. Read latches io.EOF
// on the way, so end-of-stream is replaced rather than kept.
func (r *Reader) short(err error) {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		r.err = io.ErrUnexpectedEOF
		return
	}
	r.setError(err)
}

// Align discards bytes until the offset from the origin is a multiple of n.
func (r *Reader) Align(n int) {
	if n > 1 {
		r.Skip(Padding(r.Offset(), int64(n)))
	}
}

func (r *Reader) alignFor(size int) {
	if r.maxAlign == 0 {
		return
	}
	r.Align(min(size, r.maxAlign))
}

// --- Primitive Read Operations ---

func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
	} else {
		r.err = err
	}
	return b, err
}

func (r *Reader) ReadBool(dest *bool) {
	b, err := r.ReadByte()
	if err == nil {
		*dest = b != 0
	}
}

func (r *Reader) ReadUint8(dest *uint8) {
	b, err := r.ReadByte()
	if err == nil {
		*dest = b
	}
}

func (r *Reader) ReadInt8(dest *int8) {
	b, err := r.ReadByte()
	if err == nil {
		*dest = int8(b)
	}
}

func (r *Reader) ReadUint16(dest *uint16) {
	r.alignFor(2)
	buf := r.readFull(2)
	if r.err == nil {
		*dest = r.order.Uint16(buf)
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	r.alignFor(4)
	buf := r.readFull(4)
	if r.err == nil {
		*dest = r.order.Uint32(buf)
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	r.alignFor(8)
	buf := r.readFull(8)
	if r.err == nil {
		*dest = r.order.Uint64(buf)
	}
}

func (r *Reader) ReadInt16(dest *int16) {
	var v uint16
	r.ReadUint16(&v)
	*dest = int16(v)
}

func (r *Reader) ReadInt32(dest *int32) {
	var v uint32
	r.ReadUint32(&v)
	*dest = int32(v)
}

func (r *Reader) ReadInt64(dest *int64) {
	var v uint64
	r.ReadUint64(&v)
	*dest = int64(v)
}

func (r *Reader) ReadFloat32(dest *float32) {
	var v uint32
	r.ReadUint32(&v)
	*dest = math.Float32frombits(v)
}

func (r *Reader) ReadFloat64(dest *float64) {
	var v uint64
	r.ReadUint64(&v)
	*dest = math.Float64frombits(v)
}

func (r *Reader) ReadFloat128(dest *Float128) {
	r.alignFor(16)
	buf := r.readFull(16)
	if r.err != nil {
		return
	}
	if r.order == binary.ByteOrder(LE) {
		dest.Lo, dest.Hi = LE.Uint64(buf[:8]), LE.Uint64(buf[8:])
	} else {
		dest.Hi, dest.Lo = r.order.Uint64(buf[:8]), r.order.Uint64(buf[8:])
	}
}

func (r *Reader) ReadChar16(dest *uint16) { r.ReadUint16(dest) }

// ReadString8 reads a length-prefixed, NUL-terminated narrow string.
func (r *Reader) ReadString8(dest *string) {
	var n uint32
	r.ReadUint32(&n)
	if r.err != nil {
		return
	}
	if n == 0 {
		r.setError(fmt.Errorf("%w: zero length", ErrMalformedString))
		return
	}
	buf := r.readFull(int(n))
	if r.err != nil {
		return
	}
	if buf[n-1] != 0 {
		r.setError(fmt.Errorf("%w: missing terminator", ErrMalformedString))
		return
	}
	*dest = string(buf[:n-1])
}

// ReadString16 reads a byte-length-prefixed run of UTF-16 code units.
func (r *Reader) ReadString16(dest *string) {
	var n uint32
	r.ReadUint32(&n)
	if r.err != nil {
		return
	}
	if n%2 != 0 {
		r.setError(fmt.Errorf("%w: odd wide string length %d", ErrMalformedString, n))
		return
	}
	units := make([]uint16, n/2)
	for i := range units {
		r.ReadUint16(&units[i])
	}
	if r.err == nil {
		*dest = FromUTF16(units)
	}
}

// ReadEncapsulation consumes the encapsulation header, configures the reader for the
// announced encoding and restarts alignment after it.
func (r *Reader) ReadEncapsulation() (Framing, uint16) {
	buf := r.readFull(4)
	if r.err != nil {
		return 0, 0
	}
	enc, framing, err := EncodingOf(BE.Uint16(buf[:2]))
	if err != nil {
		r.setError(err)
		return 0, 0
	}
	r.WithEncoding(enc)
	r.ResetOrigin()
	return framing, BE.Uint16(buf[2:])
}

// EMHeader is a decoded mutable member header.
type EMHeader struct {
	ID             uint32
	MustUnderstand bool
	Size           uint32
}

// ReadEMHeader reads an EMHEADER1 and, for length code 4, its NEXTINT.
// Length codes 0-3 imply the size; 5-7 are reported as unsupported.
func (r *Reader) ReadEMHeader(dest *EMHeader) {
	var h uint32
	r.ReadUint32(&h)
	if r.err != nil {
		return
	}
	dest.MustUnderstand = h&EMFlagMustUnderstand != 0
	dest.ID = h & EMIDMask
	switch lc := (h >> 28) & 0x7; lc {
	case 0, 1, 2, 3:
		dest.Size = 1 << lc
	case 4:
		r.ReadUint32(&dest.Size)
	default:
		r.setError(fmt.Errorf("%w: member length code %d", ErrUnsupportedEncoding, lc))
	}
}

// Mutable member header layout.
const (
	EMFlagMustUnderstand uint32 = 1 << 31
	EMLengthCodeNextInt  uint32 = 4 << 28
	EMIDMask             uint32 = 0x0FFFFFFF
)

// EMHeader1 packs an EMHEADER1 whose length follows as NEXTINT.
func EMHeader1(id uint32, mustUnderstand bool) uint32 {
	h := EMLengthCodeNextInt | id&EMIDMask
	if mustUnderstand {
		h |= EMFlagMustUnderstand
	}
	return h
}
