// ABOUTME: PCM sample format tags
// ABOUTME: Encodes bit width, signedness and byte order in one 16-bit value
package audio

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Format is a PCM sample format tag. The low byte holds the bit width,
// bit 12 marks big-endian samples and bit 15 marks signed samples.
type Format uint16

const (
	formatBitSizeMask = 0x00FF
	formatBigEndian   = 0x1000
	formatSigned      = 0x8000
)

const (
	U8     Format = 0x0008
	S8     Format = 0x8008
	U16LSB Format = 0x0010
	S16LSB Format = 0x8010
	U16MSB Format = 0x1010
	S16MSB Format = 0x9010

	U16 = U16LSB
	S16 = S16LSB
)

// Native byte order variants, resolved once at startup.
var (
	U16Sys Format
	S16Sys Format
)

func init() {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		U16Sys, S16Sys = U16LSB, S16LSB
	} else {
		U16Sys, S16Sys = U16MSB, S16MSB
	}
}

// BitSize returns the number of bits per sample
func (f Format) BitSize() int {
	return int(f & formatBitSizeMask)
}

// BytesPerSample returns the number of bytes per sample
func (f Format) BytesPerSample() int {
	return f.BitSize() / 8
}

// Signed reports whether samples are two's complement
func (f Format) Signed() bool {
	return f&formatSigned != 0
}

// BigEndian reports whether multi-byte samples are stored most significant byte first
func (f Format) BigEndian() bool {
	return f&formatBigEndian != 0
}

// Valid reports whether f is one of the six supported formats
func (f Format) Valid() bool {
	switch f {
	case U8, S8, U16LSB, S16LSB, U16MSB, S16MSB:
		return true
	}
	return false
}

// WithSigned returns f with the signedness flag set or cleared
func (f Format) WithSigned(signed bool) Format {
	if signed {
		return f | formatSigned
	}
	return f &^ formatSigned
}

// WithBigEndian returns f with the byte order flag set or cleared
func (f Format) WithBigEndian(big bool) Format {
	if big {
		return f | formatBigEndian
	}
	return f &^ formatBigEndian
}

// WithBitSize returns f with a different sample width
func (f Format) WithBitSize(bits int) Format {
	return (f &^ formatBitSizeMask) | Format(bits&formatBitSizeMask)
}

var formatNames = map[Format]string{
	U8:     "U8",
	S8:     "S8",
	U16LSB: "U16LSB",
	S16LSB: "S16LSB",
	U16MSB: "U16MSB",
	S16MSB: "S16MSB",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(0x%04x)", uint16(f))
}

// ParseFormat converts a name such as "s16lsb", "u8" or "s16sys" to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "U8":
		return U8, nil
	case "S8":
		return S8, nil
	case "U16LSB", "U16LE", "U16":
		return U16LSB, nil
	case "S16LSB", "S16LE", "S16":
		return S16LSB, nil
	case "U16MSB", "U16BE":
		return U16MSB, nil
	case "S16MSB", "S16BE":
		return S16MSB, nil
	case "U16SYS":
		return U16Sys, nil
	case "S16SYS":
		return S16Sys, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
