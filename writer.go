package xcdr

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

type writer interface {
	io.Writer
	io.ReaderFrom
	io.Closer
}

type WriterPro interface {
	writer
	io.ByteWriter
	io.StringWriter
	Size() int
	Flush() error
}

// Writer is the byte sink of the encoder. It tracks the first error that occurs;
// after an error, all subsequent write operations become no-ops.
//
// When configured with an Encoding, every primitive write first pads the stream to
// min(size, MaxAlign) relative to the alignment origin.
type Writer struct {
	w        WriterPro
	count    int64 // total bytes written
	origin   int64 // offset alignment is measured from
	err      error // first error encountered. Subsequent writes become no-ops.
	depth    int
	order    binary.ByteOrder
	maxAlign int // 0 writes packed
	enc      Encoding
}

var _ WriterPro = (*Writer)(nil)

// NewWriterSize creates a new Writer with a specified buffer size.
// It returns an error to prevent double-buffering.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}

	switch bw := w.(type) {
	// Reuse the underlying buffer if it's already a compatible Writer.
	case *Writer:
		if bw.w.Size() >= size {
			return &Writer{w: bw.w, depth: bw.depth + 1, order: Order}, nil
		}

	case *bufio.Writer:
		if bw.Size() >= size {
			return &Writer{w: &bufioWriterAdapter{bw}, depth: 1, order: Order}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying sinks that need no buffering
	case *BytesWriter:
		return &Writer{w: bw, order: Order}, nil
	case *CountingWriter:
		return &Writer{w: bw, order: Order}, nil
	case *bytes.Buffer:
		return &Writer{w: &bytesBufferWriterAdapter{bw}, order: Order}, nil
	}

	return &Writer{w: &bufioWriterAdapter{bufio.NewWriterSize(w, size)}, order: Order}, nil
}

// NewWriter creates a new Writer with a default buffer size.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, 0)
}

// NewSizer returns a Writer that only counts, for size passes.
func NewSizer(enc Encoding) *Writer {
	return (&Writer{w: &CountingWriter{}, order: Order}).WithEncoding(enc)
}

// WithByteOrder allows setting a custom byte order and returns
// the configured for chaining.
func (w *Writer) WithByteOrder(order binary.ByteOrder) *Writer {
	w.order = order
	return w
}

// WithEncoding switches the writer to aligned XCDR output in enc's byte order.
// An unsupported encoding latches ErrUnsupportedEncoding.
func (w *Writer) WithEncoding(enc Encoding) *Writer {
	if !enc.Supported() {
		w.setError(ErrUnsupportedEncoding)
		return w
	}
	w.enc = enc
	w.order = enc.Order
	w.maxAlign = enc.MaxAlign()
	return w
}

// Encoding returns the configured encoding; the zero value if none was set.
func (w *Writer) Encoding() Encoding { return w.enc }

// ResetOrigin makes the current offset the origin for alignment.
func (w *Writer) ResetOrigin() { w.origin = w.count }

// Offset is the number of bytes written since the alignment origin.
func (w *Writer) Offset() int64 { return w.count - w.origin }

// Close closes the underlying writer if it implements io.Closer.
func (w *Writer) Close() error {
	return w.w.Close()
}

// Write implements the io.Writer interface.
func (w *Writer) Write(buf []byte) (int, error) {
	if buf == nil || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// Write implements the io.StringWriter interface.
func (w *Writer) WriteString(str string) (int, error) {
	if str == "" || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.WriteString(str)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// ReadFrom implements io.ReaderFrom for efficient copying.
func (w *Writer) ReadFrom(r io.Reader) (int64, error) {
	if r == nil || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.ReadFrom(r)
	w.count += n
	w.setError(err)
	return n, w.err
}

func (w *Writer) Size() int    { return w.w.Size() }
func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// Fail latches err as the writer's error unless one is already set.
func (w *Writer) Fail(err error) { w.setError(err) }

// setError records the first non-nil error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	// Only the outermost writer is responsible for the final flush.
	if w.depth > 0 || w.err != nil {
		return w.err
	}
	err := w.w.Flush()
	w.setError(err)
	return err
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(buf []byte) {
	if buf == nil || w.err != nil {
		return
	}
	_, _ = w.Write(buf)
}

// WriteZeros writes n zero bytes, often for padding.
func (w *Writer) WriteZeros(n int64) {
	if w.err != nil || n <= 0 {
		return
	}
	if n <= BUFFER_SIZE {
		w.Write(empty[:n])
	} else {
		_, err := io.CopyN(w, Zero, n)
		w.setError(err)
	}
}

// Align writes zero bytes until the offset from the origin is a multiple of n.
func (w *Writer) Align(n int) {
	if n > 1 {
		w.WriteZeros(Padding(w.Offset(), int64(n)))
	}
}

// alignFor pads ahead of a primitive of the given size.
func (w *Writer) alignFor(size int) {
	if w.maxAlign == 0 {
		return
	}
	w.Align(min(size, w.maxAlign))
}

// --- Primitive Write Operations ---

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (w *Writer) WriteByte(v byte) error {
	if w.err != nil {
		return w.err
	}
	err := w.w.WriteByte(v)
	if err == nil {
		w.count++
	} else {
		w.err = err
	}
	return err
}

func (w *Writer) WriteUint8(v uint8) { _ = w.WriteByte(v) }

func (w *Writer) WriteInt8(v int8) { _ = w.WriteByte(uint8(v)) }

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	w.alignFor(2)
	var buf [2]byte
	w.order.PutUint16(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	w.alignFor(4)
	var buf [4]byte
	w.order.PutUint32(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	w.alignFor(8)
	var buf [8]byte
	w.order.PutUint64(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }
func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }
func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

func (w *Writer) WriteFloat32(v float32) { w.WriteUint32(math.Float32bits(v)) }
func (w *Writer) WriteFloat64(v float64) { w.WriteUint64(math.Float64bits(v)) }

// WriteFloat128 writes the 16 bytes of v as one 128-bit quantity in the writer's order.
func (w *Writer) WriteFloat128(v Float128) {
	if w.err != nil {
		return
	}
	w.alignFor(16)
	var buf [16]byte
	if w.order == binary.ByteOrder(LE) {
		LE.PutUint64(buf[:8], v.Lo)
		LE.PutUint64(buf[8:], v.Hi)
	} else {
		w.order.PutUint64(buf[:8], v.Hi)
		w.order.PutUint64(buf[8:], v.Lo)
	}
	_, _ = w.Write(buf[:])
}

// WriteChar8 writes a single narrow character.
func (w *Writer) WriteChar8(c byte) { w.WriteUint8(c) }

// WriteChar16 writes a single UTF-16 code unit.
func (w *Writer) WriteChar16(c uint16) { w.WriteUint16(c) }

// WriteString8 writes a length-prefixed, NUL-terminated narrow string.
// The prefix counts the terminator.
func (w *Writer) WriteString8(s string) {
	if w.err != nil {
		return
	}
	if uint64(len(s))+1 > math.MaxUint32 {
		w.setError(ErrFrameOverflow)
		return
	}
	w.WriteUint32(uint32(len(s) + 1))
	_, _ = w.WriteString(s)
	w.WriteUint8(0)
}

// WriteString16 writes a byte-length-prefixed run of UTF-16 code units without terminator.
func (w *Writer) WriteString16(units []uint16) {
	if w.err != nil {
		return
	}
	if uint64(len(units))*2 > math.MaxUint32 {
		w.setError(ErrFrameOverflow)
		return
	}
	w.WriteUint32(uint32(len(units) * 2))
	for _, u := range units {
		w.WriteUint16(u)
	}
}

// WriteEncapsulation writes the representation identifier and options,
// then restarts alignment after them.
func (w *Writer) WriteEncapsulation(id uint16, options uint16) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	BE.PutUint16(buf[:2], id)
	BE.PutUint16(buf[2:], options)
	_, _ = w.Write(buf[:])
	w.ResetOrigin()
}
