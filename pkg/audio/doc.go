// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format tags, Spec derivation, format search and mixing helpers
// Package audio provides the value types shared by every layer of the audio
// subsystem.
//
// This package defines:
//   - Format: a PCM sample format tag (bit width, signedness, byte order)
//   - Spec: the negotiated description of a PCM stream plus its pull callback
//   - CalculateSpec: the single function that derives Spec.Size and Spec.Silence
//   - FormatSearch: closest-format iteration used by drivers during negotiation
//   - MixAudio: volume-scaled, clipping mix of one buffer into another
//
// Example:
//
//	spec := audio.Spec{
//	    Freq:     44100,
//	    Format:   audio.S16Sys,
//	    Channels: 2,
//	    Samples:  1024,
//	    Callback: fill,
//	}
//	audio.CalculateSpec(&spec)
//	// spec.Size == 4096, spec.Silence == 0x00
package audio
