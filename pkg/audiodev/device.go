// ABOUTME: Open audio device and its mixing goroutine
// ABOUTME: Pulls from the application callback once per buffer period and feeds the driver
package audiodev

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio/convert"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio/output"
	"github.com/google/uuid"
	"github.com/petermattis/goid"
	"github.com/rs/zerolog"
)

// Status is the playback state of the subsystem
type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Device is an open audio device. Spec and Convert are fixed once Open
// returns.
type Device struct {
	ID     uuid.UUID
	Name   string
	Opened output.OpenState

	// Spec is what the driver provides
	Spec audio.Spec

	// Convert is nil when the callback writes in the driver's format
	Convert *convert.CVT

	backend  output.Backend
	callback audio.Callback
	userdata any

	// stream handed to the callback and its silence value
	streamLen     int
	streamSilence byte

	enabled atomic.Bool
	paused  atomic.Bool

	fakeStream []byte
	pending    []byte // converted audio not yet handed to the driver
	mixerLock  sync.Mutex
	mixerID    atomic.Int64
	done       chan struct{}

	log     zerolog.Logger
	metrics deviceMetrics
}

func newDevice(name string, backend output.Backend, log zerolog.Logger) *Device {
	id := uuid.New()
	return &Device{
		ID:      id,
		Name:    name,
		backend: backend,
		done:    make(chan struct{}),
		log:     log.With().Str("component", "audiodev").Str("driver", name).Str("device", id.String()).Logger(),
		metrics: newDeviceMetrics(name),
	}
}

// Status reports the device state
func (d *Device) Status() Status {
	if !d.enabled.Load() {
		return Stopped
	}
	if d.paused.Load() {
		return Paused
	}
	return Playing
}

// Pause stops or resumes calls to the application callback. The mixing
// goroutine keeps running and plays silence while paused.
func (d *Device) Pause(on bool) {
	d.paused.Store(on)
}

// onMixer reports whether the caller is the mixing goroutine
func (d *Device) onMixer() bool {
	id := d.mixerID.Load()
	return id != 0 && id == goid.Get()
}

// Lock keeps the callback from running until Unlock. It is a no-op on the
// mixing goroutine.
func (d *Device) Lock() {
	if d.onMixer() {
		return
	}
	d.mixerLock.Lock()
	if l, ok := d.backend.(output.Locker); ok {
		l.LockAudio()
	}
}

// Unlock releases Lock
func (d *Device) Unlock() {
	if d.onMixer() {
		return
	}
	if l, ok := d.backend.(output.Locker); ok {
		l.UnlockAudio()
	}
	d.mixerLock.Unlock()
}

// start launches the mixing goroutine and waits until it is running
func (d *Device) start() error {
	d.enabled.Store(true)

	ready := make(chan error, 1)
	go d.run(ready)

	if err := <-ready; err != nil {
		d.enabled.Store(false)
		return err
	}
	return nil
}

// stop disables the device and waits for the mixing goroutine to exit
func (d *Device) stop() {
	d.enabled.Store(false)
	<-d.done
}

func (d *Device) run(ready chan<- error) {
	defer close(d.done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	d.mixerID.Store(goid.Get())

	if ti, ok := d.backend.(output.ThreadIniter); ok {
		if err := ti.ThreadInit(); err != nil {
			ready <- err
			return
		}
	}
	ready <- nil

	d.log.Debug().
		Int("stream_bytes", d.streamLen).
		Bool("convert", d.Convert != nil).
		Msg("mixing goroutine started")

	fake := false
	for d.enabled.Load() {
		if fake {
			time.Sleep(d.Spec.BufferDuration())
		} else if err := d.backend.Wait(); err != nil {
			d.fault("wait", err)
			break
		}

		fake = d.mix()

		if !fake {
			if err := d.backend.Play(); err != nil {
				d.fault("play", err)
				break
			}
		}
		d.metrics.iterations.Inc()
	}

	if dr, ok := d.backend.(output.Drainer); ok {
		dr.WaitDone()
	}

	d.log.Debug().Msg("mixing goroutine stopped")
}

// maxConvertFills bounds callback runs per hardware buffer when converting
const maxConvertFills = 4

// mix produces one buffer. It returns true when the driver had no buffer
// ready and the output went to the fallback buffer.
func (d *Device) mix() bool {
	if d.Convert != nil {
		return d.mixConverted()
	}

	fake := false
	stream := d.backend.Buffer()
	if stream == nil {
		stream = d.fakeStream
		fake = true
	}

	d.produce(stream)

	if fake {
		d.metrics.fallbacks.Inc()
	}
	return fake
}

// produce fills stream with silence and lets the callback write into it
// unless paused
func (d *Device) produce(stream []byte) {
	audio.FillSilence(stream, d.streamSilence)

	if d.paused.Load() {
		return
	}
	d.mixerLock.Lock()
	start := time.Now()
	d.callback(d.userdata, stream)
	d.metrics.callback.Observe(time.Since(start).Seconds())
	d.mixerLock.Unlock()
}

// mixConverted runs the callback and the conversion until a full hardware
// buffer of converted audio is pending. Converted bytes beyond the hardware
// buffer carry over to the next iteration.
func (d *Device) mixConverted() bool {
	fake := false
	out := d.backend.Buffer()
	if out == nil {
		out = d.fakeStream
		fake = true
	}

	for i := 0; len(d.pending) < len(out) && i < maxConvertFills; i++ {
		d.produce(d.Convert.Buf[:d.Convert.Len])

		if err := d.Convert.Convert(); err != nil {
			d.log.Warn().Err(err).Msg("conversion failed, playing silence")
			break
		}
		d.metrics.converted.Inc()
		d.pending = append(d.pending, d.Convert.Output()...)
	}

	n := copy(out, d.pending)
	d.pending = d.pending[:copy(d.pending, d.pending[n:])]
	d.Spec.FillSilence(out[n:])

	if fake {
		d.metrics.fallbacks.Inc()
	}
	return fake
}

// fault disables the device after a driver error. Errors seen after Close
// cleared enabled are part of shutdown.
func (d *Device) fault(op string, err error) {
	if !d.enabled.Swap(false) {
		return
	}
	d.metrics.faults.Inc()
	d.log.Error().Err(err).Str("op", op).Msg("audio driver failed, device stopped")
}
