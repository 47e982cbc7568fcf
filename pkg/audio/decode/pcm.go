// ABOUTME: Raw PCM audio decoder
// ABOUTME: Decodes little-endian 16-bit and 24-bit PCM to int32 samples
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
)

// PCMDecoder decodes headerless little-endian PCM
type PCMDecoder struct {
	r          io.Reader
	sampleRate int
	channels   int
	bitDepth   int
	buf        []byte
}

// NewPCM creates a new PCM decoder reading from r
func NewPCM(r io.Reader, sampleRate, channels, bitDepth int) (*PCMDecoder, error) {
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("%w: %d (supported: 16, 24)", ErrUnsupportedBitDepth, bitDepth)
	}

	return &PCMDecoder{
		r:          r,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
	}, nil
}

// Read converts PCM bytes to int32 samples
func (d *PCMDecoder) Read(samples []int32) (int, error) {
	width := d.bitDepth / 8
	need := len(samples) * width
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	buf := d.buf[:need]

	n, err := io.ReadFull(d.r, buf)
	if err == io.ErrUnexpectedEOF {
		err = nil
	}

	numSamples := n / width
	if d.bitDepth == 24 {
		for i := 0; i < numSamples; i++ {
			b := [3]byte{buf[i*3], buf[i*3+1], buf[i*3+2]}
			samples[i] = audio.SampleFrom24Bit(b)
		}
	} else {
		for i := 0; i < numSamples; i++ {
			sample16 := int16(binary.LittleEndian.Uint16(buf[i*2:]))
			samples[i] = audio.SampleFromInt16(sample16)
		}
	}

	if numSamples == 0 && err == nil {
		err = io.EOF
	}
	return numSamples, err
}

func (d *PCMDecoder) SampleRate() int { return d.sampleRate }
func (d *PCMDecoder) Channels() int   { return d.channels }

// Close closes the underlying reader when it is closable
func (d *PCMDecoder) Close() error {
	return closer(d.r)()
}
