//go:build sdl2

// ABOUTME: SDL2 output implementation using the queue API
// ABOUTME: The mixing loop pushes whole buffers with QueueAudio and paces on the queue depth
package output

import (
	"fmt"
	"time"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/rs/zerolog/log"
	"github.com/veandco/go-sdl2/sdl"
)

var sdl2Bootstrap = Bootstrap{
	Name:        "sdl2",
	Description: "SDL2 audio queue",
	Available:   alwaysAvailable,
	Create: func(index int) (Backend, error) {
		return NewSDL2(index), nil
	},
}

// SDL2 output implementation
type SDL2 struct {
	index  int
	id     sdl.AudioDeviceID
	buf    []byte
	period time.Duration
	opened bool
}

// NewSDL2 creates a new SDL2 output for device index. Index zero opens the
// default device.
func NewSDL2(index int) *SDL2 {
	return &SDL2{index: index}
}

// Open initializes the audio subsystem and opens a device
func (s *SDL2) Open(spec *audio.Spec) (OpenState, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return NotOpened, fmt.Errorf("failed to initialize sdl audio: %w", err)
	}

	name := ""
	if s.index > 0 {
		name = sdl.GetAudioDeviceName(s.index, false)
	}

	want := &sdl.AudioSpec{
		Freq:     int32(spec.Freq),
		Format:   sdl.AudioFormat(spec.Format),
		Channels: uint8(spec.Channels),
		Samples:  uint16(spec.Samples),
	}

	var got sdl.AudioSpec
	id, err := sdl.OpenAudioDevice(name, false, want, &got,
		sdl.AUDIO_ALLOW_FREQUENCY_CHANGE|sdl.AUDIO_ALLOW_CHANNELS_CHANGE)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return NotOpened, fmt.Errorf("failed to open sdl audio device: %w", err)
	}

	spec.Freq = int(got.Freq)
	spec.Format = audio.Format(got.Format)
	spec.Channels = int(got.Channels)
	spec.Samples = int(got.Samples)
	audio.CalculateSpec(spec)

	s.id = id
	s.buf = make([]byte, spec.Size)
	s.period = spec.BufferDuration()
	s.opened = true

	sdl.PauseAudioDevice(id, false)

	log.Debug().
		Str("driver", "sdl2").
		Msgf("audio output initialized: %dHz, %d channels, %s", spec.Freq, spec.Channels, spec.Format)

	return FreshlyOpened, nil
}

// Wait sleeps while more than two buffers are queued
func (s *SDL2) Wait() error {
	if !s.opened {
		return ErrNotOpen
	}
	for sdl.GetQueuedAudioSize(s.id) > uint32(2*len(s.buf)) {
		time.Sleep(s.period / 4)
	}
	return nil
}

// Buffer returns the buffer that Play queues
func (s *SDL2) Buffer() []byte {
	return s.buf
}

// Play queues the buffer on the device
func (s *SDL2) Play() error {
	if !s.opened {
		return ErrNotOpen
	}
	if err := sdl.QueueAudio(s.id, s.buf); err != nil {
		return fmt.Errorf("failed to queue audio: %w", err)
	}
	return nil
}

// WaitDone blocks until the device queue is empty
func (s *SDL2) WaitDone() {
	if !s.opened {
		return
	}
	deadline := time.Now().Add(4 * s.period)
	for sdl.GetQueuedAudioSize(s.id) > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
}

// Close closes the device and shuts down the audio subsystem
func (s *SDL2) Close() error {
	if !s.opened {
		return nil
	}
	sdl.ClearQueuedAudio(s.id)
	sdl.CloseAudioDevice(s.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	s.opened = false
	return nil
}
