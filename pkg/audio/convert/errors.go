// ABOUTME: Sentinel errors for conversion pipelines
// ABOUTME: Returned by Build and Convert
package convert

import "errors"

var (
	ErrInvalidFormat   = errors.New("invalid audio format")
	ErrInvalidChannels = errors.New("unsupported channel conversion")
	ErrInvalidRate     = errors.New("invalid sample rate")
	ErrNoBuffer        = errors.New("conversion buffer not allocated")
	ErrBufferTooSmall  = errors.New("conversion buffer smaller than Len * LenMult")
	ErrPartialFrame    = errors.New("conversion input is not a whole number of frames")
)
