// ABOUTME: Decoder interface definition and file opener
// ABOUTME: Picks a decoder from the file extension
package decode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedCodec    = errors.New("unsupported audio codec")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
)

// Decoder streams decoded PCM
type Decoder interface {
	// Read fills samples with interleaved int32 samples in 24-bit range and
	// returns how many were written. It returns io.EOF once the stream is
	// exhausted.
	Read(samples []int32) (int, error)

	SampleRate() int
	Channels() int

	// Close releases decoder resources
	Close() error
}

// Open opens path with the decoder matching its extension
func Open(path string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".flac", ".wav", ".ogg", ".oga":
	default:
		return nil, fmt.Errorf("%w: %q (supported: .mp3, .flac, .wav, .ogg)", ErrUnsupportedCodec, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var dec Decoder
	switch ext {
	case ".mp3":
		dec, err = NewMP3(f)
	case ".flac":
		dec, err = NewFLAC(f)
	case ".wav":
		dec, err = NewWAV(f)
	default:
		dec, err = NewVorbis(f)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return dec, nil
}

// closer returns the Close method of r when it has one
func closer(r any) func() error {
	if c, ok := r.(interface{ Close() error }); ok {
		return c.Close
	}
	return func() error { return nil }
}
