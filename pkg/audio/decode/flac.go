// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC frames with mewkiz/flac and interleaves them as int32 samples
package decode

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct {
	stream     *flac.Stream
	sampleRate int
	channels   int
	bitDepth   int

	// interleaved samples of the current frame not yet returned
	pending []int32
}

// NewFLAC creates a new FLAC decoder reading from r
func NewFLAC(r io.Reader) (*FLACDecoder, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	bitDepth := int(info.BitsPerSample)
	if bitDepth < 4 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	return &FLACDecoder{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   bitDepth,
	}, nil
}

// scale converts a sample of the stream's bit depth to 24-bit range
func (d *FLACDecoder) scale(sample int32) int32 {
	shift := d.bitDepth - 24
	if shift > 0 {
		return sample >> shift
	}
	return sample << -shift
}

// Read converts FLAC frames to int32 samples
func (d *FLACDecoder) Read(samples []int32) (int, error) {
	samplesRead := 0

	for samplesRead < len(samples) {
		if len(d.pending) == 0 {
			frame, err := d.stream.ParseNext()
			if err != nil {
				if err == io.EOF && samplesRead > 0 {
					return samplesRead, nil
				}
				return samplesRead, err
			}

			blockSize := int(frame.BlockSize)
			d.pending = d.pending[:0]
			for i := 0; i < blockSize; i++ {
				for ch := 0; ch < d.channels; ch++ {
					d.pending = append(d.pending, d.scale(frame.Subframes[ch].Samples[i]))
				}
			}
		}

		n := copy(samples[samplesRead:], d.pending)
		samplesRead += n
		d.pending = d.pending[n:]
	}

	return samplesRead, nil
}

func (d *FLACDecoder) SampleRate() int { return d.sampleRate }
func (d *FLACDecoder) Channels() int   { return d.channels }

// Close releases decoder resources. The stream closes r when it can.
func (d *FLACDecoder) Close() error {
	return d.stream.Close()
}
