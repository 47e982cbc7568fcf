// ABOUTME: Oto-based audio output implementation
// ABOUTME: Feeds an oto player from a slot ring; one oto context lives for the whole process
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"
)

var otoBootstrap = Bootstrap{
	Name:        "oto",
	Description: "ebitengine/oto cross-platform output",
	Available:   alwaysAvailable,
	Create: func(int) (Backend, error) {
		return NewOto(), nil
	},
}

// oto only allows one context per process, so it is shared by every Oto
// value and kept until exit
var shared struct {
	sync.Mutex
	ctx      *oto.Context
	rate     int
	channels int
	format   audio.Format
}

// Oto output implementation using oto library
type Oto struct {
	ring   *SlotRing
	player *oto.Player
	period time.Duration
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{}
}

func otoFormat(f audio.Format) oto.Format {
	if f == audio.U8 {
		return oto.FormatUnsignedInt8
	}
	return oto.FormatSignedInt16LE
}

// Open initializes the output device. A second open while the context is
// alive reuses it and rewrites spec to the context's parameters.
func (o *Oto) Open(spec *audio.Spec) (OpenState, error) {
	shared.Lock()
	defer shared.Unlock()

	state := FreshlyOpened

	if shared.ctx != nil {
		if shared.rate != spec.Freq || shared.channels != spec.Channels || shared.format != spec.Format {
			log.Warn().
				Str("driver", "oto").
				Msgf("format change (%dHz %dch %s -> %dHz %dch %s) not supported, reusing context",
					spec.Freq, spec.Channels, spec.Format, shared.rate, shared.channels, shared.format)
		}
		spec.Freq = shared.rate
		spec.Channels = shared.channels
		spec.Format = shared.format
		if err := shared.ctx.Resume(); err != nil {
			return NotOpened, fmt.Errorf("failed to resume oto context: %w", err)
		}
		state = AlreadyOpen
	} else {
		format, ok := audio.Closest(spec.Format, func(f audio.Format) bool {
			return f == audio.U8 || f == audio.S16LSB
		})
		if !ok {
			return NotOpened, ErrUnsupportedFmt
		}
		spec.Format = format
		audio.CalculateSpec(spec)

		op := &oto.NewContextOptions{
			SampleRate:   spec.Freq,
			ChannelCount: spec.Channels,
			Format:       otoFormat(format),
			BufferSize:   spec.BufferDuration(),
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return NotOpened, fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan

		shared.ctx = ctx
		shared.rate = spec.Freq
		shared.channels = spec.Channels
		shared.format = format
	}

	audio.CalculateSpec(spec)
	o.ring = NewSlotRing(2, spec.Size, spec.Silence)
	o.period = spec.BufferDuration()

	// Persistent player that pulls from the ring
	o.player = shared.ctx.NewPlayer(o.ring)
	o.player.Play()

	log.Debug().
		Str("driver", "oto").
		Stringer("state", state).
		Msgf("audio output initialized: %dHz, %d channels, %s", spec.Freq, spec.Channels, spec.Format)

	return state, nil
}

// Wait blocks until a ring slot is free
func (o *Oto) Wait() error {
	if o.ring == nil {
		return ErrNotOpen
	}
	return o.ring.Wait()
}

// Buffer returns the slot handed out by Wait
func (o *Oto) Buffer() []byte {
	if o.ring == nil {
		return nil
	}
	return o.ring.Buffer()
}

// Play queues the filled slot for the player
func (o *Oto) Play() error {
	if o.ring == nil {
		return ErrNotOpen
	}
	return o.ring.Commit()
}

// WaitDone blocks until queued slots have been pulled by the player
func (o *Oto) WaitDone() {
	if o.ring != nil {
		o.ring.Drain(4 * o.period)
	}
}

// Close releases output resources. The oto context is suspended, not
// destroyed.
func (o *Oto) Close() error {
	if o.ring != nil {
		o.ring.Close()
	}
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Warn().Err(err).Str("driver", "oto").Msg("player close error")
		}
		o.player = nil
	}
	if o.ring != nil {
		o.ring = nil
		shared.Lock()
		defer shared.Unlock()
		if shared.ctx != nil {
			if err := shared.ctx.Suspend(); err != nil {
				return fmt.Errorf("failed to suspend oto context: %w", err)
			}
		}
	}
	return nil
}
