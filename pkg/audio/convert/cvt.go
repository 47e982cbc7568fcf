// ABOUTME: Conversion descriptor and pipeline construction
// ABOUTME: Decides the stage list, expansion bound and size ratio for a src/dst pair
package convert

import (
	"fmt"
	"strings"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio/resample"
)

// Params describes one side of a conversion
type Params struct {
	Format   audio.Format
	Channels int
	Rate     int
}

// ParamsOf extracts conversion parameters from a spec
func ParamsOf(spec audio.Spec) Params {
	return Params{Format: spec.Format, Channels: spec.Channels, Rate: spec.Freq}
}

func (p Params) String() string {
	return fmt.Sprintf("%s/%dch/%dHz", p.Format, p.Channels, p.Rate)
}

type stage struct {
	name string
	run  func(c *CVT, f audio.Format) audio.Format
}

// CVT is a conversion descriptor. Buf holds Len bytes of source audio before
// Convert and LenCvt bytes of converted audio after it.
type CVT struct {
	Needed    bool
	Src       Params
	Dst       Params
	SrcFormat audio.Format
	DstFormat audio.Format

	Buf      []byte
	Len      int     // valid source bytes in Buf
	LenCvt   int     // valid converted bytes after Convert
	LenMult  int     // Buf must hold at least Len*LenMult bytes
	LenRatio float64 // converted size / source size

	stages     []stage
	resampler  *resample.Resampler
	inScratch  []int32
	outScratch []int32
}

// Build constructs the pipeline converting src into dst. A descriptor with
// Needed == false is returned when the two sides are equivalent.
func Build(src, dst Params) (*CVT, error) {
	if !src.Format.Valid() {
		return nil, fmt.Errorf("%w: source %s", ErrInvalidFormat, src.Format)
	}
	if !dst.Format.Valid() {
		return nil, fmt.Errorf("%w: destination %s", ErrInvalidFormat, dst.Format)
	}
	if src.Rate <= 0 || dst.Rate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, src.Rate, dst.Rate)
	}
	if !validChannels(src.Channels) || !validChannels(dst.Channels) {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidChannels, src.Channels, dst.Channels)
	}

	c := &CVT{
		Src:       src,
		Dst:       dst,
		SrcFormat: src.Format,
		DstFormat: dst.Format,
		LenMult:   1,
		LenRatio:  1.0,
	}

	if src.Format.BitSize() == 16 && src.Format.BigEndian() != dst.Format.BigEndian() {
		c.add("endian", swapEndian)
	}

	if src.Format.Signed() != dst.Format.Signed() {
		c.add("sign", flipSign)
	}

	if src.Format.BitSize() != dst.Format.BitSize() {
		if dst.Format.BitSize() == 8 {
			c.add("to8", narrowTo8)
			c.LenRatio /= 2
		} else {
			bigEndian := dst.Format.BigEndian()
			c.add("to16", func(c *CVT, f audio.Format) audio.Format {
				return widenTo16(c, f, bigEndian)
			})
			c.LenMult *= 2
			c.LenRatio *= 2
		}
	}

	channels := src.Channels
	width := dst.Format.BytesPerSample()
	switch {
	case channels == 1 && dst.Channels == 2:
		c.add("stereo", func(c *CVT, f audio.Format) audio.Format {
			duplicate(c, width)
			return f
		})
		c.LenMult *= 2
		c.LenRatio *= 2
		channels = 2
	case channels == 2 && dst.Channels == 1:
		c.add("mono", toMono)
		c.LenRatio /= 2
		channels = 1
	}

	c.buildRate(src.Rate, dst.Rate, width*channels, channels)

	c.Needed = len(c.stages) > 0
	return c, nil
}

// buildRate adds power-of-two rate steps while the rates differ by at least
// a factor of two, then one interpolating step for the remainder. Rates are
// compared in units of 100Hz.
func (c *CVT) buildRate(srcRate, dstRate, frameSize, channels int) {
	if srcRate/100 == dstRate/100 {
		return
	}

	current := srcRate
	if srcRate < dstRate {
		for (current*2)/100 <= dstRate/100 {
			c.add("rate*2", func(c *CVT, f audio.Format) audio.Format {
				duplicate(c, frameSize)
				return f
			})
			c.LenMult *= 2
			c.LenRatio *= 2
			current *= 2
		}
	} else {
		for (dstRate*2)/100 <= current/100 {
			c.add("rate/2", func(c *CVT, f audio.Format) audio.Format {
				halve(c, frameSize)
				return f
			})
			c.LenRatio /= 2
			current /= 2
		}
	}

	if current/100 == dstRate/100 {
		return
	}

	c.resampler = resample.New(current, dstRate, channels)
	if dstRate > current {
		c.LenMult *= 2
	}
	c.LenRatio /= c.resampler.Ratio()
	c.add("rate~", func(c *CVT, f audio.Format) audio.Format {
		resampleStage(c, f, channels)
		return f
	})
}

func (c *CVT) add(name string, run func(c *CVT, f audio.Format) audio.Format) {
	c.stages = append(c.stages, stage{name: name, run: run})
}

// Stages returns the stage names in execution order
func (c *CVT) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.name
	}
	return names
}

func (c *CVT) String() string {
	if !c.Needed {
		return fmt.Sprintf("%s (no conversion)", c.Src)
	}
	return fmt.Sprintf("%s -> %s [%s] x%d", c.Src, c.Dst, strings.Join(c.Stages(), " "), c.LenMult)
}

// BufferSize returns the allocation needed to convert n source bytes
func (c *CVT) BufferSize(n int) int {
	return n * c.LenMult
}

// Alloc sets Len to n and allocates Buf large enough to convert it
func (c *CVT) Alloc(n int) {
	c.Len = n
	c.Buf = make([]byte, c.BufferSize(n))
}

// Output returns the converted bytes of the last Convert call
func (c *CVT) Output() []byte {
	return c.Buf[:c.LenCvt]
}

// Convert runs the pipeline over Buf[:Len] and sets LenCvt
func (c *CVT) Convert() error {
	if c.Buf == nil {
		return ErrNoBuffer
	}
	if len(c.Buf) < c.BufferSize(c.Len) {
		return fmt.Errorf("%w: have %d, need %d", ErrBufferTooSmall, len(c.Buf), c.BufferSize(c.Len))
	}
	if frame := c.SrcFormat.BytesPerSample() * c.Src.Channels; c.Len%frame != 0 {
		return fmt.Errorf("%w: %d bytes, frame %d", ErrPartialFrame, c.Len, frame)
	}

	c.LenCvt = c.Len
	f := c.SrcFormat
	for _, s := range c.stages {
		f = s.run(c, f)
	}
	return nil
}

func validChannels(n int) bool {
	return n == 1 || n == 2
}
