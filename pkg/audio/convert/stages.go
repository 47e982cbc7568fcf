// ABOUTME: In-place conversion stages
// ABOUTME: Each stage rewrites Buf[:LenCvt] and returns the resulting format
package convert

import (
	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
)

func swapEndian(c *CVT, f audio.Format) audio.Format {
	buf := c.Buf[:c.LenCvt]
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = buf[i+1], buf[i]
	}
	return f.WithBigEndian(!f.BigEndian())
}

func flipSign(c *CVT, f audio.Format) audio.Format {
	buf := c.Buf[:c.LenCvt]
	if f.BitSize() == 8 {
		for i := range buf {
			buf[i] ^= 0x80
		}
	} else {
		msb := 1
		if f.BigEndian() {
			msb = 0
		}
		for i := msb; i < len(buf); i += 2 {
			buf[i] ^= 0x80
		}
	}
	return f.WithSigned(!f.Signed())
}

// narrowTo8 keeps the most significant byte of every 16-bit sample
func narrowTo8(c *CVT, f audio.Format) audio.Format {
	msb := 1
	if f.BigEndian() {
		msb = 0
	}
	n := c.LenCvt / 2
	for i := 0; i < n; i++ {
		c.Buf[i] = c.Buf[2*i+msb]
	}
	c.LenCvt = n
	return f.WithBitSize(8).WithBigEndian(false)
}

// widenTo16 places every 8-bit sample in the high byte of a 16-bit sample.
// It walks backwards so the expansion can happen in place.
func widenTo16(c *CVT, f audio.Format, bigEndian bool) audio.Format {
	msb, lsb := 1, 0
	if bigEndian {
		msb, lsb = 0, 1
	}
	n := c.LenCvt
	for i := n - 1; i >= 0; i-- {
		b := c.Buf[i]
		c.Buf[2*i+msb] = b
		c.Buf[2*i+lsb] = 0
	}
	c.LenCvt = n * 2
	return f.WithBitSize(16).WithBigEndian(bigEndian)
}

// duplicate writes every unit of size bytes twice. Used for mono to stereo
// (unit = one sample) and rate doubling (unit = one frame).
func duplicate(c *CVT, size int) {
	n := c.LenCvt / size
	for i := n - 1; i >= 0; i-- {
		src := c.Buf[i*size : (i+1)*size]
		copy(c.Buf[(2*i+1)*size:(2*i+2)*size], src)
		copy(c.Buf[2*i*size:(2*i+1)*size], src)
	}
	c.LenCvt = n * 2 * size
}

// halve keeps every other frame
func halve(c *CVT, frameSize int) {
	n := c.LenCvt / frameSize / 2
	for i := 0; i < n; i++ {
		copy(c.Buf[i*frameSize:(i+1)*frameSize], c.Buf[2*i*frameSize:(2*i+1)*frameSize])
	}
	c.LenCvt = n * frameSize
}

// toMono averages the two samples of every stereo frame
func toMono(c *CVT, f audio.Format) audio.Format {
	width := f.BytesPerSample()
	frames := c.LenCvt / (2 * width)
	for i := 0; i < frames; i++ {
		left := audio.ReadSample(c.Buf[2*i*width:], f)
		right := audio.ReadSample(c.Buf[(2*i+1)*width:], f)
		audio.WriteSample(c.Buf[i*width:], f, (left+right)/2)
	}
	c.LenCvt = frames * width
	return f
}

// resampleStage decodes the buffer, runs the streaming resampler and
// encodes the result back, never writing past the end of Buf
func resampleStage(c *CVT, f audio.Format, channels int) {
	width := f.BytesPerSample()
	inSamples := c.LenCvt / width
	outCap := min(len(c.Buf)/width/channels*channels, c.resampler.OutputSamplesNeeded(inSamples))

	if cap(c.inScratch) < inSamples {
		c.inScratch = make([]int32, inSamples)
	}
	if cap(c.outScratch) < outCap {
		c.outScratch = make([]int32, outCap)
	}
	in := c.inScratch[:inSamples]
	out := c.outScratch[:outCap]

	for i := range in {
		in[i] = audio.ReadSample(c.Buf[i*width:], f)
	}

	n := c.resampler.Resample(in, out)

	for i := 0; i < n; i++ {
		audio.WriteSample(c.Buf[i*width:], f, out[i])
	}
	c.LenCvt = n * width
}
