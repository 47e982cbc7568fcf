// ABOUTME: Tests for conversion pipelines
// ABOUTME: Verifies stage selection, size bounds and converted sample values
package convert

import (
	"testing"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIdentity(t *testing.T) {
	p := Params{Format: audio.S16LSB, Channels: 2, Rate: 44100}
	cvt, err := Build(p, p)
	require.NoError(t, err)
	assert.False(t, cvt.Needed)
	assert.Empty(t, cvt.Stages())
	assert.Equal(t, 1, cvt.LenMult)
	assert.Equal(t, 1.0, cvt.LenRatio)
}

func TestBuildIgnoresSubHundredHzDifference(t *testing.T) {
	cvt, err := Build(
		Params{Format: audio.S16LSB, Channels: 2, Rate: 44100},
		Params{Format: audio.S16LSB, Channels: 2, Rate: 44150},
	)
	require.NoError(t, err)
	assert.False(t, cvt.Needed)
}

func TestBuildStageOrder(t *testing.T) {
	tests := []struct {
		name    string
		src     Params
		dst     Params
		stages  []string
		lenMult int
		ratio   float64
	}{
		{
			name:    "u8 mono 22050 to s16lsb stereo 44100",
			src:     Params{audio.U8, 1, 22050},
			dst:     Params{audio.S16LSB, 2, 44100},
			stages:  []string{"sign", "to16", "stereo", "rate*2"},
			lenMult: 8,
			ratio:   8,
		},
		{
			name:    "s16msb stereo to u8 mono",
			src:     Params{audio.S16MSB, 2, 8000},
			dst:     Params{audio.U8, 1, 8000},
			stages:  []string{"endian", "sign", "to8", "mono"},
			lenMult: 1,
			ratio:   0.25,
		},
		{
			name:    "byte order only",
			src:     Params{audio.S16LSB, 2, 48000},
			dst:     Params{audio.S16MSB, 2, 48000},
			stages:  []string{"endian"},
			lenMult: 1,
			ratio:   1,
		},
		{
			name:    "quarter rate",
			src:     Params{audio.S16LSB, 1, 44100},
			dst:     Params{audio.S16LSB, 1, 11025},
			stages:  []string{"rate/2", "rate/2"},
			lenMult: 1,
			ratio:   0.25,
		},
		{
			name:    "uneven upsample",
			src:     Params{audio.S16LSB, 2, 22050},
			dst:     Params{audio.S16LSB, 2, 48000},
			stages:  []string{"rate*2", "rate~"},
			lenMult: 4,
			ratio:   48000.0 / 22050.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cvt, err := Build(tt.src, tt.dst)
			require.NoError(t, err)
			assert.True(t, cvt.Needed)
			assert.Equal(t, tt.stages, cvt.Stages())
			assert.Equal(t, tt.lenMult, cvt.LenMult)
			assert.InDelta(t, tt.ratio, cvt.LenRatio, 1e-9)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	ok := Params{Format: audio.S16LSB, Channels: 2, Rate: 44100}

	_, err := Build(Params{Format: 0x8020, Channels: 2, Rate: 44100}, ok)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Build(ok, Params{Format: audio.S16LSB, Channels: 6, Rate: 44100})
	assert.ErrorIs(t, err, ErrInvalidChannels)

	_, err = Build(ok, Params{Format: audio.S16LSB, Channels: 2, Rate: 0})
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestConvertU8MonoToS16Stereo(t *testing.T) {
	cvt, err := Build(
		Params{Format: audio.U8, Channels: 1, Rate: 22050},
		Params{Format: audio.S16LSB, Channels: 2, Rate: 44100},
	)
	require.NoError(t, err)

	cvt.Alloc(1024)
	audio.FillSilence(cvt.Buf[:cvt.Len], 0x80)
	require.NoError(t, cvt.Convert())

	out := cvt.Output()
	require.Len(t, out, 8192)
	for i, b := range out {
		if b != 0 {
			t.Fatalf("byte %d: expected 0x00, got 0x%02x", i, b)
		}
	}
}

func TestConvertSampleValues(t *testing.T) {
	cvt, err := Build(
		Params{Format: audio.U8, Channels: 1, Rate: 8000},
		Params{Format: audio.S16MSB, Channels: 2, Rate: 8000},
	)
	require.NoError(t, err)

	cvt.Alloc(2)
	cvt.Buf[0], cvt.Buf[1] = 0xC0, 0x40
	require.NoError(t, cvt.Convert())

	out := cvt.Output()
	require.Len(t, out, 8)
	assert.Equal(t, []byte{0x40, 0x00, 0x40, 0x00, 0xC0, 0x00, 0xC0, 0x00}, out)
}

func TestConvertStereoToMonoAverages(t *testing.T) {
	cvt, err := Build(
		Params{Format: audio.S16LSB, Channels: 2, Rate: 8000},
		Params{Format: audio.S16LSB, Channels: 1, Rate: 8000},
	)
	require.NoError(t, err)

	cvt.Alloc(4)
	audio.WriteSample(cvt.Buf[0:], audio.S16LSB, 1000)
	audio.WriteSample(cvt.Buf[2:], audio.S16LSB, 3000)
	require.NoError(t, cvt.Convert())

	require.Equal(t, 2, cvt.LenCvt)
	assert.Equal(t, int32(2000), audio.ReadSample(cvt.Buf, audio.S16LSB))
}

func TestConvertRateHalving(t *testing.T) {
	cvt, err := Build(
		Params{Format: audio.U8, Channels: 1, Rate: 44100},
		Params{Format: audio.U8, Channels: 1, Rate: 22050},
	)
	require.NoError(t, err)

	cvt.Alloc(6)
	copy(cvt.Buf, []byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, cvt.Convert())
	assert.Equal(t, []byte{1, 3, 5}, cvt.Output())
}

func TestConvertSlowRateStaysInBuffer(t *testing.T) {
	cvt, err := Build(
		Params{Format: audio.S16LSB, Channels: 2, Rate: 44100},
		Params{Format: audio.S16LSB, Channels: 2, Rate: 48000},
	)
	require.NoError(t, err)
	require.Equal(t, []string{"rate~"}, cvt.Stages())

	cvt.Alloc(4096)

	for run := 0; run < 3; run++ {
		cvt.Len = 4096
		for i := 0; i < cvt.Len; i += 2 {
			audio.WriteSample(cvt.Buf[i:], audio.S16LSB, 500)
		}
		require.NoError(t, cvt.Convert())
		assert.LessOrEqual(t, cvt.LenCvt, len(cvt.Buf))
		assert.InDelta(t, float64(cvt.Len)*cvt.LenRatio, float64(cvt.LenCvt), 8)
		for i := 0; i < cvt.LenCvt; i += 2 {
			require.Equal(t, int32(500), audio.ReadSample(cvt.Buf[i:], audio.S16LSB))
		}
	}
}

func TestConvertErrors(t *testing.T) {
	cvt, err := Build(
		Params{Format: audio.U8, Channels: 1, Rate: 8000},
		Params{Format: audio.S16LSB, Channels: 1, Rate: 8000},
	)
	require.NoError(t, err)

	cvt.Len = 4
	assert.ErrorIs(t, cvt.Convert(), ErrNoBuffer)

	cvt.Buf = make([]byte, 4)
	assert.ErrorIs(t, cvt.Convert(), ErrBufferTooSmall)

	stereo, err := Build(
		Params{Format: audio.S16LSB, Channels: 2, Rate: 8000},
		Params{Format: audio.S16LSB, Channels: 1, Rate: 8000},
	)
	require.NoError(t, err)
	stereo.Alloc(6)
	assert.ErrorIs(t, stereo.Convert(), ErrPartialFrame)
}
