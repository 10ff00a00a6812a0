package xcdr

import (
	"encoding/binary"
	"fmt"
)

// Version selects the extended CDR generation.
type Version uint8

const (
	// XCDR1 is the legacy first generation. It is recognised but not produced.
	XCDR1 Version = 1
	// XCDR2 is the second generation: 4-byte maximum alignment, DHEADER and EMHEADER framing.
	XCDR2 Version = 2
)

func (v Version) String() string {
	switch v {
	case XCDR1:
		return "XCDR1"
	case XCDR2:
		return "XCDR2"
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}

// Encoding is the wire configuration shared by writers, readers and encoders.
type Encoding struct {
	Version Version
	Order   binary.ByteOrder
}

var (
	XCDR2LE = Encoding{Version: XCDR2, Order: LE}
	XCDR2BE = Encoding{Version: XCDR2, Order: BE}
)

// MaxAlign is the largest alignment any primitive is padded to.
func (e Encoding) MaxAlign() int {
	if e.Version == XCDR1 {
		return 8
	}
	return 4
}

// Supported reports whether this package can produce the encoding.
func (e Encoding) Supported() bool {
	return e.Version == XCDR2 && e.Order != nil
}

// LittleEndian reports whether values are written least significant byte first.
func (e Encoding) LittleEndian() bool {
	return e.Order == binary.ByteOrder(LE)
}

func (e Encoding) String() string {
	order := "BE"
	if e.LittleEndian() {
		order = "LE"
	}
	return e.Version.String() + "/" + order
}

// Representation identifiers carried by the encapsulation header.
const (
	PlainCDR2BE   uint16 = 0x0006
	PlainCDR2LE   uint16 = 0x0007
	DelimitCDR2BE uint16 = 0x0008
	DelimitCDR2LE uint16 = 0x0009
	ParamCDR2BE   uint16 = 0x000a
	ParamCDR2LE   uint16 = 0x000b
)

// Framing is the outermost framing of a sample, picked from its type's extensibility.
type Framing uint8

const (
	FramingPlain Framing = iota
	FramingDelimited
	FramingParameterList
)

// RepresentationID returns the encapsulation identifier for the given framing.
func (e Encoding) RepresentationID(f Framing) uint16 {
	var id uint16
	switch f {
	case FramingDelimited:
		id = DelimitCDR2BE
	case FramingParameterList:
		id = ParamCDR2BE
	default:
		id = PlainCDR2BE
	}
	if e.LittleEndian() {
		id |= 1
	}
	return id
}

// EncodingOf maps an encapsulation identifier back to its encoding and framing.
func EncodingOf(id uint16) (Encoding, Framing, error) {
	var f Framing
	switch id &^ 1 {
	case PlainCDR2BE:
		f = FramingPlain
	case DelimitCDR2BE:
		f = FramingDelimited
	case ParamCDR2BE:
		f = FramingParameterList
	default:
		return Encoding{}, 0, fmt.Errorf("%w: 0x%04x", ErrUnknownRepresentation, id)
	}
	if id&1 == 1 {
		return XCDR2LE, f, nil
	}
	return XCDR2BE, f, nil
}
