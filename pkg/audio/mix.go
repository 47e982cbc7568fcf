// ABOUTME: Software mixing of PCM buffers
// ABOUTME: Adds a volume-scaled source into a destination with clipping
package audio

// MaxVolume is the volume at which MixAudio adds src unattenuated
const MaxVolume = 128

// MixAudio adds src into dst, both in format f, scaling src by
// volume/MaxVolume and clipping to the format's range. Only the overlapping
// whole samples are mixed.
func MixAudio(dst, src []byte, f Format, volume int) error {
	if !f.Valid() {
		return ErrUnknownFormat
	}
	if volume <= 0 {
		return nil
	}
	if volume > MaxVolume {
		volume = MaxVolume
	}

	width := f.BytesPerSample()
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	if n%width != 0 {
		return ErrLengthMismatch
	}

	for i := 0; i < n; i += width {
		scaled := ReadSample(src[i:], f) * int32(volume) / MaxVolume
		if width == 1 {
			// Keep 8-bit sums in the 8-bit range before widening back
			mixed := (ReadSample(dst[i:], f) >> 8) + (scaled >> 8)
			WriteSample(dst[i:], f, clamp8(mixed)<<8)
			continue
		}
		WriteSample(dst[i:], f, ReadSample(dst[i:], f)+scaled)
	}

	return nil
}

func clamp8(v int32) int32 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return v
}
