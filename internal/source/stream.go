// ABOUTME: Adapts a Source to the audio device callback
// ABOUTME: Encodes samples in the device format and mixes them in at the current volume
package source

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/rs/zerolog/log"
)

// Stream feeds a Source into an audio callback
type Stream struct {
	src    Source
	format audio.Format

	samples []int32
	encoded []byte

	volume atomic.Int32
	peak   atomic.Int32
	frames atomic.Int64

	doneOnce sync.Once
	done     chan struct{}
}

// NewStream creates a stream writing format at volume (0 to
// audio.MaxVolume)
func NewStream(src Source, format audio.Format, volume int) *Stream {
	s := &Stream{
		src:    src,
		format: format,
		done:   make(chan struct{}),
	}
	s.SetVolume(volume)
	return s
}

// Spec returns the spec a device should be opened with for this stream
func (s *Stream) Spec(samples int) audio.Spec {
	return audio.Spec{
		Freq:     s.src.SampleRate(),
		Format:   s.format,
		Channels: s.src.Channels(),
		Samples:  samples,
		Callback: s.Callback,
	}
}

// Callback is an audio.Callback. The stream arrives filled with silence;
// source audio is mixed into it.
func (s *Stream) Callback(_ any, stream []byte) {
	width := s.format.BytesPerSample()
	count := len(stream) / width

	if cap(s.samples) < count {
		s.samples = make([]int32, count)
		s.encoded = make([]byte, count*width)
	}
	samples := s.samples[:count]
	encoded := s.encoded[:count*width]

	n, err := s.src.Read(samples)
	if err != nil {
		if err != io.EOF {
			log.Error().Err(err).Str("title", s.src.Title()).Msg("source read failed")
		}
		s.finish()
	}
	if n == 0 {
		s.peak.Store(0)
		return
	}

	var peak int32
	for i := 0; i < n; i++ {
		v := audio.SampleToInt16(samples[i])
		if a := abs32(int32(v)); a > peak {
			peak = a
		}
		audio.WriteSample(encoded[i*width:], s.format, int32(v))
	}
	s.peak.Store(peak)
	s.frames.Add(int64(n / s.src.Channels()))

	if err := audio.MixAudio(stream[:n*width], encoded[:n*width], s.format, int(s.volume.Load())); err != nil {
		log.Error().Err(err).Msg("mix failed")
	}
}

func (s *Stream) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Done is closed when the source has ended
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// SetVolume clamps volume to 0..audio.MaxVolume
func (s *Stream) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > audio.MaxVolume {
		volume = audio.MaxVolume
	}
	s.volume.Store(int32(volume))
}

// Volume returns the current volume
func (s *Stream) Volume() int {
	return int(s.volume.Load())
}

// Level returns the peak of the last buffer, 0 to 1
func (s *Stream) Level() float64 {
	return float64(s.peak.Load()) / audio.Max16Bit
}

// Frames returns how many sample frames have been produced
func (s *Stream) Frames() int64 {
	return s.frames.Load()
}

// Title names the source
func (s *Stream) Title() string {
	return s.src.Title()
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
