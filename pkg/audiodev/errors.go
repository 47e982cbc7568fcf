// ABOUTME: Errors returned by the audio subsystem
// ABOUTME: Sentinel values plus a typed error carrying the failing driver
package audiodev

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyOpen         = errors.New("audio device is already open")
	ErrInvalidCallback     = errors.New("audio callback is required")
	ErrUnsupportedChannels = errors.New("only mono and stereo are supported")
	ErrUnsupportedFormat   = errors.New("unsupported audio format")
	ErrBackendOpen         = errors.New("audio driver failed to open")
	ErrOutOfMemory         = errors.New("conversion buffer too large")
	ErrThreadCreate        = errors.New("failed to start mixing goroutine")
)

// BackendError wraps the reason a driver gave for failing to open
type BackendError struct {
	Driver string
	Err    error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Driver, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is makes every BackendError match ErrBackendOpen
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendOpen
}
