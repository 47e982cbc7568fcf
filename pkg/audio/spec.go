// ABOUTME: Audio stream specification and its derived fields
// ABOUTME: CalculateSpec is the only writer of Spec.Size and Spec.Silence
package audio

import "time"

// Callback is the application's pull producer. It must fill stream with
// len(stream) bytes of audio in the device's requested format and return
// well within one buffer period.
type Callback func(userdata any, stream []byte)

// Spec describes a PCM stream
type Spec struct {
	Freq     int    // sample frames per second
	Format   Format // sample format
	Channels int    // 1 (mono) or 2 (stereo)
	Samples  int    // sample frames per callback, normally a power of two

	// Derived by CalculateSpec, never set by hand
	Size    int  // bytes per full buffer
	Silence byte // byte value of zero amplitude

	Callback Callback
	Userdata any
}

// CalculateSpec fills in Size and Silence from Format, Channels and Samples
func CalculateSpec(spec *Spec) {
	switch spec.Format {
	case U8:
		spec.Silence = 0x80
	default:
		spec.Silence = 0x00
	}
	spec.Size = spec.Format.BytesPerSample() * spec.Channels * spec.Samples
}

// FrameSize returns the number of bytes in one sample frame
func (s Spec) FrameSize() int {
	return s.Format.BytesPerSample() * s.Channels
}

// BufferDuration returns the playback time of one full buffer
func (s Spec) BufferDuration() time.Duration {
	if s.Freq <= 0 {
		return 0
	}
	return time.Duration(s.Samples) * time.Second / time.Duration(s.Freq)
}

// SameStream reports whether two specs describe the same PCM layout, ignoring
// the callback and derived fields
func (s Spec) SameStream(o Spec) bool {
	return s.Freq == o.Freq &&
		s.Format == o.Format &&
		s.Channels == o.Channels &&
		s.Samples == o.Samples
}

// FillSilence sets every byte of buf to the silence value of the spec
func (s Spec) FillSilence(buf []byte) {
	FillSilence(buf, s.Silence)
}

// FillSilence sets every byte of buf to value
func FillSilence(buf []byte, value byte) {
	if len(buf) == 0 {
		return
	}
	buf[0] = value
	for filled := 1; filled < len(buf); filled *= 2 {
		copy(buf[filled:], buf[:filled])
	}
}
