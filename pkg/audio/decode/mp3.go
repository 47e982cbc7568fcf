// ABOUTME: MP3 audio decoder
// ABOUTME: Streams go-mp3's 16-bit stereo output as int32 samples
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 audio
type MP3Decoder struct {
	r       io.Reader
	decoder *mp3.Decoder
	buf     []byte
}

// NewMP3 creates a new MP3 decoder reading from r
func NewMP3(r io.Reader) (*MP3Decoder, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	return &MP3Decoder{
		r:       r,
		decoder: decoder,
	}, nil
}

// Read decodes into int32 samples. go-mp3 always produces stereo.
func (d *MP3Decoder) Read(samples []int32) (int, error) {
	need := len(samples) * 2
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	buf := d.buf[:need]

	n, err := io.ReadFull(d.decoder, buf)
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := n / 2
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(buf[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}

	if numSamples == 0 && err == nil {
		err = io.EOF
	}
	return numSamples, err
}

func (d *MP3Decoder) SampleRate() int { return d.decoder.SampleRate() }
func (d *MP3Decoder) Channels() int   { return 2 }

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return closer(d.r)()
}
