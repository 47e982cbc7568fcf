// ABOUTME: PulseAudio output implementation using the pure-Go native protocol client
// ABOUTME: The server pulls int16 frames from a slot ring on its own goroutine
package output

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/jfreymuth/pulse"
	"github.com/rs/zerolog/log"
)

var pulseBootstrap = Bootstrap{
	Name:        "pulse",
	Description: "PulseAudio native protocol",
	Available:   pulseAvailable,
	Create: func(int) (Backend, error) {
		return NewPulse(), nil
	},
}

// pulseAvailable looks for a server socket without connecting to it
func pulseAvailable() bool {
	if os.Getenv("PULSE_SERVER") != "" {
		return true
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, "pulse", "native"))
	return err == nil
}

// Pulse output implementation
type Pulse struct {
	client  *pulse.Client
	stream  *pulse.PlaybackStream
	ring    *SlotRing
	scratch []byte
	period  time.Duration
}

// NewPulse creates a new Pulse output
func NewPulse() *Pulse {
	return &Pulse{}
}

// Open connects to the server and starts a playback stream. The stream
// always carries native-endian signed 16-bit samples.
func (p *Pulse) Open(spec *audio.Spec) (OpenState, error) {
	spec.Format = audio.S16Sys
	audio.CalculateSpec(spec)

	client, err := pulse.NewClient(pulse.ClientApplicationName("sdlplay"))
	if err != nil {
		return NotOpened, fmt.Errorf("failed to connect to pulseaudio: %w", err)
	}

	p.ring = NewSlotRing(2, spec.Size, spec.Silence)
	p.period = spec.BufferDuration()

	var layout pulse.PlaybackOption = pulse.PlaybackStereo
	if spec.Channels == 1 {
		layout = pulse.PlaybackMono
	}

	stream, err := client.NewPlayback(
		pulse.Int16Reader(p.read),
		pulse.PlaybackSampleRate(spec.Freq),
		layout,
		pulse.PlaybackLatency(p.period.Seconds()),
	)
	if err != nil {
		client.Close()
		return NotOpened, fmt.Errorf("failed to create playback stream: %w", err)
	}

	stream.Start()

	p.client = client
	p.stream = stream

	log.Debug().
		Str("driver", "pulse").
		Msgf("audio output initialized: %dHz, %d channels, %s", spec.Freq, spec.Channels, spec.Format)

	return FreshlyOpened, nil
}

// read is the stream's pull function
func (p *Pulse) read(out []int16) (int, error) {
	need := len(out) * 2
	if cap(p.scratch) < need {
		p.scratch = make([]byte, need)
	}
	buf := p.scratch[:need]

	_, _ = p.ring.Read(buf)
	for i := range out {
		out[i] = int16(binary.NativeEndian.Uint16(buf[i*2:]))
	}
	return len(out), nil
}

// Wait blocks until a ring slot is free
func (p *Pulse) Wait() error {
	if p.ring == nil {
		return ErrNotOpen
	}
	if p.stream != nil {
		if err := p.stream.Error(); err != nil {
			return fmt.Errorf("pulseaudio stream failed: %w", err)
		}
	}
	return p.ring.Wait()
}

// Buffer returns the slot handed out by Wait
func (p *Pulse) Buffer() []byte {
	if p.ring == nil {
		return nil
	}
	return p.ring.Buffer()
}

// Play queues the filled slot for the stream
func (p *Pulse) Play() error {
	if p.ring == nil {
		return ErrNotOpen
	}
	return p.ring.Commit()
}

// WaitDone blocks until queued slots have been pulled by the server
func (p *Pulse) WaitDone() {
	if p.ring != nil {
		p.ring.Drain(4 * p.period)
	}
}

// Close stops the stream and disconnects
func (p *Pulse) Close() error {
	if p.ring != nil {
		p.ring.Close()
	}
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
		p.stream = nil
	}
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	return nil
}
