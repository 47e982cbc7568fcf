//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Blocking stream writes pace the mixing loop
package output

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"
)

var portaudioBootstrap = Bootstrap{
	Name:        "portaudio",
	Description: "PortAudio blocking stream",
	Available:   alwaysAvailable,
	Create: func(int) (Backend, error) {
		return NewPortAudio(), nil
	},
}

// PortAudio output implementation
type PortAudio struct {
	stream  *portaudio.Stream
	buf     []byte
	samples []int16
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Open initializes PortAudio with a native-endian int16 stream
func (p *PortAudio) Open(spec *audio.Spec) (OpenState, error) {
	spec.Format = audio.S16Sys
	audio.CalculateSpec(spec)

	if err := portaudio.Initialize(); err != nil {
		return NotOpened, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	p.buf = make([]byte, spec.Size)
	p.samples = make([]int16, spec.Size/2)

	stream, err := portaudio.OpenDefaultStream(0, spec.Channels, float64(spec.Freq), spec.Samples, &p.samples)
	if err != nil {
		portaudio.Terminate()
		return NotOpened, fmt.Errorf("failed to open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return NotOpened, fmt.Errorf("failed to start stream: %w", err)
	}

	p.stream = stream

	log.Debug().
		Str("driver", "portaudio").
		Msgf("audio output initialized: %dHz, %d channels, %s", spec.Freq, spec.Channels, spec.Format)

	return FreshlyOpened, nil
}

// Wait returns at once; Play blocks instead
func (p *PortAudio) Wait() error {
	if p.stream == nil {
		return ErrNotOpen
	}
	return nil
}

// Buffer returns the byte buffer Play writes out
func (p *PortAudio) Buffer() []byte {
	return p.buf
}

// Play writes the buffer, blocking until the stream accepts it
func (p *PortAudio) Play() error {
	if p.stream == nil {
		return ErrNotOpen
	}

	for i := range p.samples {
		p.samples[i] = int16(binary.NativeEndian.Uint16(p.buf[i*2:]))
	}

	if err := p.stream.Write(); err != nil && !errors.Is(err, portaudio.OutputUnderflowed) {
		return fmt.Errorf("portaudio write failed: %w", err)
	}
	return nil
}

// Close releases resources
func (p *PortAudio) Close() error {
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		log.Warn().Err(err).Str("driver", "portaudio").Msg("stream stop error")
	}
	if err := p.stream.Close(); err != nil {
		log.Warn().Err(err).Str("driver", "portaudio").Msg("stream close error")
	}
	p.stream = nil
	return portaudio.Terminate()
}
