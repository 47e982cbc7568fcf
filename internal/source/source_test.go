// ABOUTME: Tests for audio sources and the callback stream
// ABOUTME: Covers tone generation, file looping, volume and end of stream
package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource plays fixed samples once
type sliceSource struct {
	data     []int32
	channels int
}

func (s *sliceSource) Read(samples []int32) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := copy(samples, s.data)
	s.data = s.data[n:]
	return n, nil
}

func (s *sliceSource) SampleRate() int { return 8000 }
func (s *sliceSource) Channels() int   { return s.channels }
func (s *sliceSource) Title() string   { return "slice" }
func (s *sliceSource) Close() error    { return nil }

func TestToneIsStereoSine(t *testing.T) {
	tone := NewTone(1000, 8000, 2)

	buf := make([]int32, 16)
	n, err := tone.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	assert.Zero(t, buf[0])
	for i := 0; i < 8; i++ {
		assert.Equal(t, buf[i*2], buf[i*2+1], "frame %d", i)
	}
	// quarter period of 1kHz at 8kHz is two frames
	assert.InDelta(t, audio.Max24Bit/2, buf[4], 2)
}

func TestOpenEmptyPathIsTone(t *testing.T) {
	src, err := Open("", false)
	require.NoError(t, err)
	assert.Equal(t, DefaultToneRate, src.SampleRate())
	assert.Equal(t, 2, src.Channels())
	assert.Contains(t, src.Title(), "440")
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.wav"), false)
	require.Error(t, err)
}

func TestStreamEncodesAtFullVolume(t *testing.T) {
	src := &sliceSource{data: []int32{1000 << 8, -1000 << 8}, channels: 1}
	s := NewStream(src, audio.S16LSB, audio.MaxVolume)

	spec := s.Spec(2)
	assert.Equal(t, 8000, spec.Freq)
	assert.Equal(t, 1, spec.Channels)
	require.NotNil(t, spec.Callback)

	stream := make([]byte, 4)
	s.Callback(nil, stream)

	assert.Equal(t, int32(1000), audio.ReadSample(stream[0:], audio.S16LSB))
	assert.Equal(t, int32(-1000), audio.ReadSample(stream[2:], audio.S16LSB))
	assert.Equal(t, int64(2), s.Frames())
	assert.InDelta(t, 1000.0/audio.Max16Bit, s.Level(), 1e-9)
}

func TestStreamVolumeScales(t *testing.T) {
	src := &sliceSource{data: []int32{1000 << 8}, channels: 1}
	s := NewStream(src, audio.S16LSB, audio.MaxVolume/2)

	stream := make([]byte, 2)
	s.Callback(nil, stream)
	assert.Equal(t, int32(500), audio.ReadSample(stream, audio.S16LSB))

	s.SetVolume(1000)
	assert.Equal(t, audio.MaxVolume, s.Volume())
	s.SetVolume(-1)
	assert.Zero(t, s.Volume())
}

func TestStreamMixesIntoUnsignedSilence(t *testing.T) {
	src := &sliceSource{data: []int32{0x10 << 16}, channels: 1}
	s := NewStream(src, audio.U8, audio.MaxVolume)

	stream := []byte{0x80, 0x80}
	s.Callback(nil, stream)
	assert.Equal(t, []byte{0x90, 0x80}, stream)
}

func TestStreamSignalsEnd(t *testing.T) {
	src := &sliceSource{data: []int32{1, 2}, channels: 2}
	s := NewStream(src, audio.S16LSB, audio.MaxVolume)

	stream := make([]byte, 8)
	s.Callback(nil, stream)
	select {
	case <-s.Done():
		t.Fatal("stream ended early")
	default:
	}

	s.Callback(nil, stream)
	select {
	case <-s.Done():
	default:
		t.Fatal("stream did not signal end")
	}
	assert.Zero(t, s.Level())

	// further callbacks are harmless
	s.Callback(nil, stream)
}

func writeWAV(t *testing.T, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, 8000, 16, channels, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	return path
}

func TestFileLoops(t *testing.T) {
	path := writeWAV(t, 1, []int{1, 2, 3})

	src, err := Open(path, true)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "clip", src.Title())
	assert.Equal(t, 8000, src.SampleRate())

	var got []int32
	buf := make([]int32, 2)
	for len(got) < 8 {
		n, err := src.Read(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, []int32{1 << 8, 2 << 8, 3 << 8, 1 << 8, 2 << 8, 3 << 8}, got[:6])
}

func TestFileEndsWithoutLoop(t *testing.T) {
	path := writeWAV(t, 1, []int{7})

	src, err := NewFile(path, false)
	require.NoError(t, err)
	defer src.Close()

	buf := make([]int32, 4)
	n, err := src.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = src.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileDropsExtraChannels(t *testing.T) {
	path := writeWAV(t, 3, []int{1, 2, 3, 4, 5, 6})

	src, err := NewFile(path, false)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 2, src.Channels())

	buf := make([]int32, 4)
	n, err := src.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int32{1 << 8, 2 << 8, 4 << 8, 5 << 8}, buf)
}
