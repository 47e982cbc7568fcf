// ABOUTME: Sentinel errors for audio drivers
// ABOUTME: Shared by the registry, slot ring and individual drivers
package output

import "errors"

var (
	ErrNoAudioDevice      = errors.New("no available audio device")
	ErrInvalidDeviceIndex = errors.New("device index must be a non-negative number")
	ErrNotOpen            = errors.New("output not opened")
	ErrRingClosed         = errors.New("slot ring closed")
	ErrNotCompiledIn      = errors.New("driver not compiled in")
	ErrUnsupportedFmt     = errors.New("no supported sample format")
)
