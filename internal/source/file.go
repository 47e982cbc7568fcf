// ABOUTME: File-backed audio source
// ABOUTME: Decodes MP3, FLAC, WAV or Ogg Vorbis files and optionally loops them
package source

import (
	"fmt"
	"io"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio/decode"
	"github.com/rs/zerolog/log"
)

// File reads from a decoded audio file
type File struct {
	path     string
	loop     bool
	decoder  decode.Decoder
	channels int
	title    string

	scratch []int32
}

// NewFile opens path with the decoder matching its extension
func NewFile(path string, loop bool) (*File, error) {
	dec, err := decode.Open(path)
	if err != nil {
		return nil, err
	}

	channels := dec.Channels()
	if channels < 1 {
		dec.Close()
		return nil, fmt.Errorf("audio file has no channels: %s", path)
	}

	f := &File{
		path:     path,
		loop:     loop,
		decoder:  dec,
		channels: channels,
		title:    titleOf(path),
	}

	log.Info().
		Str("title", f.title).
		Int("rate", dec.SampleRate()).
		Int("channels", channels).
		Msg("loaded audio file")

	return f, nil
}

// Read returns at most two channels; extra channels are dropped
func (s *File) Read(samples []int32) (int, error) {
	out := s.Channels()
	if s.channels == out {
		return s.read(samples)
	}

	frames := len(samples) / out
	need := frames * s.channels
	if cap(s.scratch) < need {
		s.scratch = make([]int32, need)
	}
	n, err := s.read(s.scratch[:need])

	got := n / s.channels
	for i := 0; i < got; i++ {
		copy(samples[i*out:(i+1)*out], s.scratch[i*s.channels:])
	}
	return got * out, err
}

func (s *File) read(samples []int32) (int, error) {
	n, err := s.decoder.Read(samples)
	if err != io.EOF || !s.loop {
		return n, err
	}

	// Loop the audio - reopen from the start
	if cerr := s.decoder.Close(); cerr != nil {
		log.Warn().Err(cerr).Str("title", s.title).Msg("decoder close error")
	}
	dec, oerr := decode.Open(s.path)
	if oerr != nil {
		return n, fmt.Errorf("failed to reopen %s: %w", s.path, oerr)
	}
	s.decoder = dec
	return n, nil
}

func (s *File) SampleRate() int { return s.decoder.SampleRate() }

func (s *File) Channels() int {
	if s.channels > 2 {
		return 2
	}
	return s.channels
}

func (s *File) Title() string { return s.title }
func (s *File) Close() error  { return s.decoder.Close() }
