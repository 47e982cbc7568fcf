// ABOUTME: Sentinel errors for the audio value types
// ABOUTME: Returned by format parsing and mixing helpers
package audio

import "errors"

var (
	ErrUnknownFormat  = errors.New("unknown audio format")
	ErrLengthMismatch = errors.New("buffer length is not a multiple of the sample size")
)
