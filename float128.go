package xcdr

import (
	"math"
	"math/bits"
	"strconv"
)

// Float128 holds the raw bits of an IEEE-754 binary128 value.
// Hi carries the sign, the 15-bit exponent and the top 48 fraction bits.
type Float128 struct {
	Hi, Lo uint64
}

const (
	f128ExpBias = 16383
	f128ExpMask = 0x7FFF
	f128HiFrac  = 1<<48 - 1
	f64FracBits = 52
	f64FracMask = 1<<f64FracBits - 1
)

// Float128FromFloat64 widens f exactly.
func Float128FromFloat64(f float64) Float128 {
	raw := math.Float64bits(f)
	sign := raw >> 63
	exp := (raw >> f64FracBits) & 0x7FF
	frac := raw & f64FracMask

	var exp128 uint64
	switch {
	case exp == 0 && frac == 0:
		return Float128{Hi: sign << 63}
	case exp == 0x7FF:
		exp128 = f128ExpMask
	case exp == 0:
		// subnormal: normalise so the leading one becomes implicit
		p := uint64(63 - bits.LeadingZeros64(frac))
		exp128 = p + f128ExpBias - 1074
		frac = (frac << (f64FracBits - p)) & f64FracMask
	default:
		exp128 = exp - 1023 + f128ExpBias
	}
	return Float128{
		Hi: sign<<63 | exp128<<48 | frac>>4,
		Lo: frac << 60,
	}
}

// Float64 narrows the value, truncating fraction bits float64 cannot hold.
func (f Float128) Float64() float64 {
	sign := f.Hi >> 63
	exp := int64((f.Hi >> 48) & f128ExpMask)
	frac := (f.Hi&f128HiFrac)<<4 | f.Lo>>60

	switch exp {
	case 0:
		return math.Float64frombits(sign << 63)
	case f128ExpMask:
		if f.Hi&f128HiFrac == 0 && f.Lo == 0 {
			return math.Float64frombits(sign<<63 | 0x7FF<<f64FracBits)
		}
		return math.NaN()
	}

	e := exp - f128ExpBias + 1023
	switch {
	case e >= 0x7FF:
		return math.Float64frombits(sign<<63 | 0x7FF<<f64FracBits)
	case e <= 0:
		shift := uint64(1 - e)
		if shift > f64FracBits+1 {
			return math.Float64frombits(sign << 63)
		}
		m := (1<<f64FracBits | frac) >> shift
		return math.Float64frombits(sign<<63 | m)
	}
	return math.Float64frombits(sign<<63 | uint64(e)<<f64FracBits | frac)
}

func (f Float128) IsZero() bool { return f.Hi&^(1<<63) == 0 && f.Lo == 0 }

func (f Float128) String() string {
	return strconv.FormatFloat(f.Float64(), 'g', -1, 64)
}
