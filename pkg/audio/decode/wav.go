// ABOUTME: WAV audio decoder
// ABOUTME: Reads integer PCM WAV files through go-audio/wav
package decode

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var ErrNotWavFile = errors.New("not a valid WAV file")

// WAVDecoder decodes WAV audio
type WAVDecoder struct {
	r        io.ReadSeeker
	decoder  *wav.Decoder
	intBuf   *goaudio.IntBuffer
	bitDepth int
}

// NewWAV creates a new WAV decoder reading from r
func NewWAV(r io.ReadSeeker) (*WAVDecoder, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("failed to find WAV data chunk: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	return &WAVDecoder{
		r:       r,
		decoder: decoder,
		intBuf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: int(decoder.NumChans),
				SampleRate:  int(decoder.SampleRate),
			},
			SourceBitDepth: bitDepth,
		},
		bitDepth: bitDepth,
	}, nil
}

// scale converts a sample of the file's bit depth to 24-bit range. 8-bit
// WAV data is unsigned.
func (d *WAVDecoder) scale(v int) int32 {
	switch d.bitDepth {
	case 8:
		return int32(v-128) << 16
	case 16:
		return int32(v) << 8
	case 32:
		return int32(v >> 8)
	default:
		return int32(v)
	}
}

// Read decodes into int32 samples
func (d *WAVDecoder) Read(samples []int32) (int, error) {
	if cap(d.intBuf.Data) < len(samples) {
		d.intBuf.Data = make([]int, len(samples))
	}
	d.intBuf.Data = d.intBuf.Data[:len(samples)]

	n, err := d.decoder.PCMBuffer(d.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("wav decode error: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := 0; i < n; i++ {
		samples[i] = d.scale(d.intBuf.Data[i])
	}
	return n, nil
}

func (d *WAVDecoder) SampleRate() int { return int(d.decoder.SampleRate) }
func (d *WAVDecoder) Channels() int   { return int(d.decoder.NumChans) }

// Close releases decoder resources
func (d *WAVDecoder) Close() error {
	return closer(d.r)()
}
