// ABOUTME: Sample-level conversion helpers
// ABOUTME: Moves single samples between int32 working values and packed bytes
package audio

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	// 16-bit audio range constants
	Max16Bit = 32767
	Min16Bit = -32768
)

// SampleToInt16 converts a 24-bit int32 sample to int16
func SampleToInt16(sample int32) int16 {
	return int16(sample >> 8)
}

// SampleFromInt16 converts an int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleFrom24Bit converts 24-bit packed bytes (little-endian) to int32
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// ReadSample decodes the sample at the start of b as a signed value in the
// 16-bit range, whatever the width of f.
func ReadSample(b []byte, f Format) int32 {
	if f.BitSize() == 8 {
		if f.Signed() {
			return int32(int8(b[0])) << 8
		}
		return (int32(b[0]) - 0x80) << 8
	}

	var u uint16
	if f.BigEndian() {
		u = uint16(b[0])<<8 | uint16(b[1])
	} else {
		u = uint16(b[1])<<8 | uint16(b[0])
	}
	if f.Signed() {
		return int32(int16(u))
	}
	return int32(u) - 0x8000
}

// WriteSample encodes v, a signed value in the 16-bit range, at the start of b.
// Values outside the range are clipped.
func WriteSample(b []byte, f Format, v int32) {
	v = clamp16(v)

	if f.BitSize() == 8 {
		s := v >> 8
		if f.Signed() {
			b[0] = byte(int8(s))
		} else {
			b[0] = byte(s + 0x80)
		}
		return
	}

	var u uint16
	if f.Signed() {
		u = uint16(int16(v))
	} else {
		u = uint16(v + 0x8000)
	}
	if f.BigEndian() {
		b[0], b[1] = byte(u>>8), byte(u)
	} else {
		b[0], b[1] = byte(u), byte(u>>8)
	}
}

func clamp16(v int32) int32 {
	if v > Max16Bit {
		return Max16Bit
	}
	if v < Min16Bit {
		return Min16Bit
	}
	return v
}
