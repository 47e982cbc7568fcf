// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Converts jfreymuth/oggvorbis float output to int32 samples
package decode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis audio
type VorbisDecoder struct {
	r        io.Reader
	decoder  *oggvorbis.Reader
	floatBuf []float32
}

// NewVorbis creates a new Vorbis decoder reading from r
func NewVorbis(r io.Reader) (*VorbisDecoder, error) {
	decoder, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Vorbis: %w", err)
	}

	return &VorbisDecoder{
		r:       r,
		decoder: decoder,
	}, nil
}

// Read decodes into int32 samples. Requests are rounded down to whole
// frames.
func (d *VorbisDecoder) Read(samples []int32) (int, error) {
	channels := d.decoder.Channels()
	want := len(samples) / channels * channels
	if want == 0 {
		return 0, nil
	}
	if cap(d.floatBuf) < want {
		d.floatBuf = make([]float32, want)
	}
	buf := d.floatBuf[:want]

	n, err := d.decoder.Read(buf)
	for i := 0; i < n; i++ {
		v := buf[i]
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		samples[i] = int32(v * 8388607)
	}

	if err != nil && err != io.EOF {
		return n, fmt.Errorf("vorbis decode error: %w", err)
	}
	if n == 0 && err == nil {
		err = io.EOF
	}
	if n > 0 && err == io.EOF {
		err = nil
	}
	return n, err
}

func (d *VorbisDecoder) SampleRate() int { return d.decoder.SampleRate() }
func (d *VorbisDecoder) Channels() int   { return d.decoder.Channels() }

// Close releases decoder resources
func (d *VorbisDecoder) Close() error {
	return closer(d.r)()
}
