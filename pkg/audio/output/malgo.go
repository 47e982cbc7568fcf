// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Drives a miniaudio playback device whose data callback drains a slot ring
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog/log"
)

var miniaudioBootstrap = Bootstrap{
	Name:        "miniaudio",
	Description: "miniaudio via gen2brain/malgo",
	Available:   alwaysAvailable,
	Create: func(int) (Backend, error) {
		return NewMalgo(), nil
	},
}

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	ring     *SlotRing
	period   time.Duration

	// held by the data callback while it reads the ring
	mu sync.Mutex
}

// NewMalgo creates a new Malgo output
func NewMalgo() *Malgo {
	return &Malgo{}
}

func malgoFormat(f audio.Format) malgo.FormatType {
	if f == audio.U8 {
		return malgo.FormatU8
	}
	return malgo.FormatS16
}

func fromMalgoFormat(f malgo.FormatType) (audio.Format, bool) {
	switch f {
	case malgo.FormatU8:
		return audio.U8, true
	case malgo.FormatS16:
		return audio.S16Sys, true
	default:
		return 0, false
	}
}

// Open initializes the playback device and reflects what it granted back
// into spec
func (m *Malgo) Open(spec *audio.Spec) (OpenState, error) {
	format, ok := audio.Closest(spec.Format, func(f audio.Format) bool {
		return f == audio.U8 || f == audio.S16Sys
	})
	if !ok {
		return NotOpened, ErrUnsupportedFmt
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return NotOpened, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgoFormat(format)
	deviceConfig.Playback.Channels = uint32(spec.Channels)
	deviceConfig.SampleRate = uint32(spec.Freq)
	deviceConfig.PeriodSizeInFrames = uint32(spec.Samples)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.dataCallback(pOutputSample)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return NotOpened, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if got, ok := fromMalgoFormat(device.PlaybackFormat()); ok {
		format = got
	}
	spec.Format = format
	spec.Freq = int(device.SampleRate())
	spec.Channels = int(device.PlaybackChannels())
	audio.CalculateSpec(spec)

	m.mu.Lock()
	m.ring = NewSlotRing(2, spec.Size, spec.Silence)
	m.mu.Unlock()
	m.period = spec.BufferDuration()

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return NotOpened, fmt.Errorf("failed to start device: %w", err)
	}

	m.malgoCtx = ctx
	m.device = device

	log.Debug().
		Str("driver", "miniaudio").
		Msgf("audio output initialized: %dHz, %d channels, %s", spec.Freq, spec.Channels, spec.Format)

	return FreshlyOpened, nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(pOutput []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ring == nil {
		return
	}
	_, _ = m.ring.Read(pOutput)
}

// Wait blocks until a ring slot is free
func (m *Malgo) Wait() error {
	if m.ring == nil {
		return ErrNotOpen
	}
	return m.ring.Wait()
}

// Buffer returns the slot handed out by Wait
func (m *Malgo) Buffer() []byte {
	if m.ring == nil {
		return nil
	}
	return m.ring.Buffer()
}

// Play queues the filled slot for the device callback
func (m *Malgo) Play() error {
	if m.ring == nil {
		return ErrNotOpen
	}
	return m.ring.Commit()
}

// WaitDone blocks until queued slots have been consumed by the device
func (m *Malgo) WaitDone() {
	if m.ring != nil {
		m.ring.Drain(4 * m.period)
	}
}

// LockAudio keeps the device callback out while the caller holds it
func (m *Malgo) LockAudio() {
	m.mu.Lock()
}

// UnlockAudio lets the device callback run again
func (m *Malgo) UnlockAudio() {
	m.mu.Unlock()
}

// Close releases output resources
func (m *Malgo) Close() error {
	if m.ring != nil {
		m.ring.Close()
	}

	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Warn().Err(err).Str("driver", "miniaudio").Msg("device stop error")
		}
		m.device.Uninit()
		m.device = nil
	}

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Warn().Err(err).Str("driver", "miniaudio").Msg("malgo context uninit error")
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}

	return nil
}

// Release drops the slot ring
func (m *Malgo) Release() {
	m.mu.Lock()
	m.ring = nil
	m.mu.Unlock()
}
