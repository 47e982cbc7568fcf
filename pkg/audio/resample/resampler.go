// ABOUTME: Streaming linear resampler for converting audio sample rates
// ABOUTME: Carries the fractional position and last frame across chunks
package resample

import "math"

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64 // read position; 0 is lastSample, 1 is input frame 0
	lastSample []int32 // one sample per channel
	primed     bool
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
		lastSample: make([]int32, channels),
	}
}

// Ratio returns input frames consumed per output frame
func (r *Resampler) Ratio() float64 {
	return r.ratio
}

// Resample converts interleaved input samples at the input rate into
// interleaved output samples at the output rate. It returns the number of
// samples written, which never exceeds len(output).
func (r *Resampler) Resample(input []int32, output []int32) int {
	inputFrames := len(input) / r.channels
	if inputFrames == 0 {
		return 0
	}
	outputFrames := len(output) / r.channels

	if !r.primed {
		copy(r.lastSample, input[:r.channels])
		r.primed = true
	}

	frame := func(idx, ch int) int32 {
		if idx == 0 {
			return r.lastSample[ch]
		}
		return input[(idx-1)*r.channels+ch]
	}

	outIdx := 0
	for outIdx < outputFrames && r.position < float64(inputFrames) {
		idx := int(r.position)
		frac := r.position - float64(idx)

		for ch := 0; ch < r.channels; ch++ {
			s1 := frame(idx, ch)
			s2 := frame(idx+1, ch)
			output[outIdx*r.channels+ch] = int32(math.Round(float64(s1)*(1.0-frac) + float64(s2)*frac))
		}

		outIdx++
		r.position += r.ratio
	}

	// The last input frame becomes index 0 of the next chunk
	copy(r.lastSample, input[(inputFrames-1)*r.channels:inputFrames*r.channels])
	r.position -= float64(inputFrames)
	if r.position < 0 {
		r.position = 0
	}

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
	r.primed = false
	for i := range r.lastSample {
		r.lastSample[i] = 0
	}
}

// OutputSamplesNeeded returns an upper bound on the samples Resample
// produces from inputSamples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames)/r.ratio) + 1
	return outputFrames * r.channels
}
