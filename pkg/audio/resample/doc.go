// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts interleaved audio between arbitrary sample rates
// Package resample provides streaming sample rate conversion.
//
// Uses linear interpolation for converting between sample rates and keeps
// the last frame of each chunk so consecutive chunks join without clicks.
// The converter package uses it for the rate step that is not a power of two.
//
// Example:
//
//	r := resample.New(44100, 48000, 2)
//	n := r.Resample(inputSamples, outputSamples)
package resample
