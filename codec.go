package xcdr

// Sizer is implemented by values that can report their encoded size under an Encoding
// before being written.
type Sizer interface {
	// SerializedSize returns the exact number of bytes Serialize will emit for enc.
	SerializedSize(enc Encoding) (int, error)
}

// Serializer writes a value through a Writer configured with an Encoding.
type Serializer interface {
	Serialize(w *Writer) error
}

// Encodable aggregates the two halves of the size-then-write protocol.
type Encodable interface {
	Sizer
	Serializer
}
