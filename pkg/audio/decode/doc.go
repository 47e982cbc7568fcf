// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides the Decoder interface and implementations for PCM, FLAC, MP3, WAV and Vorbis
// Package decode provides streaming audio decoders.
//
// Supports: raw PCM (16-bit and 24-bit), FLAC, MP3, WAV, Ogg Vorbis
//
// All decoders implement the Decoder interface and output interleaved int32
// samples in 24-bit range.
//
// Example:
//
//	dec, err := decode.Open("song.flac")
//	if err != nil {
//		return err
//	}
//	defer dec.Close()
//	n, err := dec.Read(samples)
package decode
