// ABOUTME: Audio conversion pipeline package
// ABOUTME: Bridges a requested PCM layout and the layout a driver provisioned
// Package convert builds and runs sample conversion pipelines.
//
// A pipeline is an ordered list of in-place stages over one byte buffer:
// byte order, signedness, sample width, channel count, then sample rate.
// Build decides which stages are needed and how much the buffer can grow
// (LenMult) so the caller can allocate it once.
//
// Example:
//
//	cvt, err := convert.Build(
//	    convert.Params{Format: audio.U8, Channels: 1, Rate: 22050},
//	    convert.Params{Format: audio.S16LSB, Channels: 2, Rate: 44100},
//	)
//	cvt.Alloc(1024)
//	// write 1024 bytes of U8 mono into cvt.Buf
//	err = cvt.Convert()
//	out := cvt.Output() // 8192 bytes of S16LSB stereo
package convert
