// ABOUTME: Test tone generator for audio source
// ABOUTME: Generates a sine wave at half amplitude
package source

import (
	"fmt"
	"math"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
)

// DefaultToneRate is the sample rate of Open's test tone
const DefaultToneRate = 44100

// Tone generates a sine wave forever
type Tone struct {
	sampleIndex uint64
	frequency   float64
	sampleRate  int
	channels    int
}

// NewTone creates a new test tone generator
func NewTone(frequency float64, sampleRate, channels int) *Tone {
	return &Tone{
		frequency:  frequency,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

func (s *Tone) Read(samples []int32) (int, error) {
	frames := len(samples) / s.channels

	for i := 0; i < frames; i++ {
		t := float64(s.sampleIndex+uint64(i)) / float64(s.sampleRate)
		v := int32(math.Sin(2*math.Pi*s.frequency*t) * audio.Max24Bit * 0.5)
		for ch := 0; ch < s.channels; ch++ {
			samples[i*s.channels+ch] = v
		}
	}

	s.sampleIndex += uint64(frames)
	return frames * s.channels, nil
}

func (s *Tone) SampleRate() int { return s.sampleRate }
func (s *Tone) Channels() int   { return s.channels }
func (s *Tone) Title() string   { return fmt.Sprintf("Test Tone %.0fHz", s.frequency) }
func (s *Tone) Close() error    { return nil }
