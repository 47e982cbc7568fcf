// ABOUTME: Dummy audio driver that discards output
// ABOUTME: Paces the mixing loop in real time without touching any hardware
package output

import (
	"sync/atomic"
	"time"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
)

var dummyBootstrap = Bootstrap{
	Name:        "dummy",
	Description: "discards all audio, paced by the clock",
	Available:   alwaysAvailable,
	Create: func(int) (Backend, error) {
		return NewDummy(), nil
	},
	DemandOnly: true,
}

// Dummy output implementation
type Dummy struct {
	buf    []byte
	period time.Duration
	played atomic.Int64
}

// NewDummy creates a new Dummy output
func NewDummy() *Dummy {
	return &Dummy{}
}

// Open accepts any spec unchanged
func (d *Dummy) Open(spec *audio.Spec) (OpenState, error) {
	audio.CalculateSpec(spec)
	d.buf = make([]byte, spec.Size)
	d.period = spec.BufferDuration()
	return FreshlyOpened, nil
}

// Wait sleeps for one buffer period
func (d *Dummy) Wait() error {
	if d.buf == nil {
		return ErrNotOpen
	}
	time.Sleep(d.period)
	return nil
}

// Buffer returns the single scratch buffer
func (d *Dummy) Buffer() []byte {
	return d.buf
}

// Play drops the buffer
func (d *Dummy) Play() error {
	if d.buf == nil {
		return ErrNotOpen
	}
	d.played.Add(1)
	return nil
}

// Played returns how many buffers were committed
func (d *Dummy) Played() int64 {
	return d.played.Load()
}

// Close releases the buffer
func (d *Dummy) Close() error {
	d.buf = nil
	return nil
}
