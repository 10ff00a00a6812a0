package xcdr

import (
	"bytes"
	"fmt"
	"io"
)

// Marshal sizes v, allocates exactly that many bytes and serializes into them.
func Marshal(v Encodable, enc Encoding) ([]byte, error) {
	expectedSize, err := v.SerializedSize(enc)
	if err != nil {
		return nil, err
	}
	buf := NewBytesWriter(make([]byte, expectedSize))
	n, err := serializeInto(v, enc, buf)
	if err != nil {
		return nil, err
	}
	if n < int64(expectedSize) {
		return nil, fmt.Errorf("%w: expected %d bytes, but wrote %d", ErrTruncatedData, expectedSize, n)
	}
	return buf.Bytes(), nil
}

// MarshalTo serializes v into p, which must hold at least SerializedSize bytes.
func MarshalTo(v Encodable, enc Encoding, p []byte) (int, error) {
	size, err := v.SerializedSize(enc)
	if err != nil {
		return 0, err
	}
	if len(p) < size {
		return 0, io.ErrShortWrite
	}
	n, err := serializeInto(v, enc, NewBytesWriter(p[:size]))
	if err != nil {
		return int(n), err
	}
	if n < int64(size) {
		return int(n), io.ErrShortWrite
	}
	return int(n), nil
}

// WriteTo serializes v into a pooled buffer and copies it to w.
func WriteTo(v Encodable, enc Encoding, w io.Writer) (int64, error) {
	if w == nil {
		return 0, ErrWriteToNil
	}
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bytesBufPool.Put(buf)

	if _, err := serializeInto(v, enc, buf); err != nil {
		return 0, err
	}
	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), err
	}
	if n < buf.Len() {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

func serializeInto(v Encodable, enc Encoding, dst io.Writer) (int64, error) {
	w, err := NewWriter(dst)
	if err != nil {
		return 0, err
	}
	w.WithEncoding(enc)
	if err := w.Err(); err != nil {
		return 0, err
	}
	if err := v.Serialize(w); err != nil {
		return w.Count(), err
	}
	return w.Result()
}
