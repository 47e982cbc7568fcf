// ABOUTME: Audio driver contract definition
// ABOUTME: Common interface and optional capabilities for audio playback backends
package output

import "github.com/SDL-mirror/SDL-sub002/pkg/audio"

// OpenState reports how Open left the hardware
type OpenState int

const (
	NotOpened OpenState = iota
	FreshlyOpened
	AlreadyOpen // the hardware was already running and has been shared
)

func (s OpenState) String() string {
	switch s {
	case FreshlyOpened:
		return "freshly-opened"
	case AlreadyOpen:
		return "already-open"
	default:
		return "not-opened"
	}
}

// Backend represents an audio output device
type Backend interface {
	// Open acquires the hardware. It may rewrite Freq, Format, Channels and
	// Samples in spec to what the hardware provides.
	Open(spec *audio.Spec) (OpenState, error)

	// Wait blocks until a buffer slot is free
	Wait() error

	// Buffer returns the next writable hardware buffer, or nil when none is
	// ready
	Buffer() []byte

	// Play commits the buffer returned by the last Buffer call
	Play() error

	// Close releases the hardware. Closing twice is harmless.
	Close() error
}

// ThreadIniter is implemented by drivers that need setup on the mixing
// goroutine before the first iteration
type ThreadIniter interface {
	ThreadInit() error
}

// Drainer is implemented by drivers that can wait for queued audio to finish
// playing
type Drainer interface {
	WaitDone()
}

// Locker is implemented by drivers whose device callback shares buffers with
// the mixing loop outside the loop's own goroutine
type Locker interface {
	LockAudio()
	UnlockAudio()
}

// Releaser is implemented by drivers that hold private state beyond the
// hardware handles released by Close
type Releaser interface {
	Release()
}
