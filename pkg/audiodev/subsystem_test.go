// ABOUTME: Subsystem lifecycle and negotiation tests
// ABOUTME: Exercises Open, Close, Quit, conversion setup and failure unwinding against a fake driver
package audiodev

import (
	"errors"
	"testing"
	"time"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio/output"
	"github.com/SDL-mirror/SDL-sub002/pkg/audiodev/audiodevtest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSubsystem(t *testing.T, b *audiodevtest.Backend) *Subsystem {
	t.Helper()
	s := New(Config{
		Registry: audiodevtest.Registry(b),
		Logger:   zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.WarnLevel),
	})
	t.Cleanup(s.Quit)
	return s
}

func noop(any, []byte) {}

func testSpec(cb audio.Callback) *audio.Spec {
	return &audio.Spec{
		Freq:     8000,
		Format:   audio.S16LSB,
		Channels: 1,
		Samples:  64,
		Callback: cb,
	}
}

func TestOpenWithoutConversion(t *testing.T) {
	b := audiodevtest.New()
	s := newTestSubsystem(t, b)

	var obtained audio.Spec
	require.NoError(t, s.Open(testSpec(noop), &obtained))

	dev := s.Device()
	require.NotNil(t, dev)
	assert.Nil(t, dev.Convert)
	assert.Equal(t, "fake", dev.Name)
	assert.Equal(t, "fake", s.DriverName())
	assert.Equal(t, output.FreshlyOpened, dev.Opened)
	assert.Equal(t, 128, obtained.Size)
	assert.Equal(t, 8000, obtained.Freq)
	assert.Equal(t, Paused, s.Status())
}

func TestOpenWithoutConversionWhenObtainedIsNil(t *testing.T) {
	b := audiodevtest.New()
	s := newTestSubsystem(t, b)

	require.NoError(t, s.Open(testSpec(noop), nil))
	assert.Nil(t, s.Device().Convert)
}

func TestOpenBuildsConversionWhenHardwareDiffers(t *testing.T) {
	// wantLen is the callback buffer whose conversion fills one hardware
	// buffer of 64 frames
	tests := []struct {
		name    string
		adjust  func(*audio.Spec)
		wantLen int
	}{
		{name: "freq", adjust: func(s *audio.Spec) { s.Freq = 16000 }, wantLen: 64},
		{name: "format", adjust: func(s *audio.Spec) { s.Format = audio.U8 }, wantLen: 128},
		{name: "channels", adjust: func(s *audio.Spec) { s.Channels = 2 }, wantLen: 128},
		{name: "slow rate", adjust: func(s *audio.Spec) { s.Freq = 6000 }, wantLen: 170},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := audiodevtest.New()
			b.Adjust = tt.adjust
			s := newTestSubsystem(t, b)

			require.NoError(t, s.Open(testSpec(noop), nil))

			dev := s.Device()
			require.NotNil(t, dev.Convert)
			assert.True(t, dev.Convert.Needed)
			assert.Equal(t, tt.wantLen, dev.Convert.Len)
			assert.GreaterOrEqual(t, len(dev.Convert.Buf), tt.wantLen*dev.Convert.LenMult)
			assert.Equal(t, 64, dev.Spec.Samples)
		})
	}
}

func TestObtainedAcceptsHardwareSpec(t *testing.T) {
	b := audiodevtest.New()
	b.Adjust = func(s *audio.Spec) {
		s.Freq = 44100
		s.Channels = 2
	}
	s := newTestSubsystem(t, b)

	var obtained audio.Spec
	require.NoError(t, s.Open(testSpec(noop), &obtained))

	assert.Nil(t, s.Device().Convert)
	assert.Equal(t, 44100, obtained.Freq)
	assert.Equal(t, 2, obtained.Channels)
	assert.Equal(t, 64*2*2, obtained.Size)
}

func TestSamplesOnlyChangeNeedsNoConversion(t *testing.T) {
	b := audiodevtest.New()
	b.Adjust = func(s *audio.Spec) { s.Samples = 256 }
	s := newTestSubsystem(t, b)

	require.NoError(t, s.Open(testSpec(noop), nil))
	assert.Nil(t, s.Device().Convert)
	assert.Equal(t, 512, s.Device().Spec.Size)
}

func TestOpenDefaults(t *testing.T) {
	b := audiodevtest.New()
	s := newTestSubsystem(t, b)

	require.NoError(t, s.Open(&audio.Spec{Channels: 2, Callback: noop}, nil))

	spec := s.Device().Spec
	assert.Equal(t, DefaultFreq, spec.Freq)
	assert.Equal(t, audio.S16Sys, spec.Format)
	assert.Equal(t, DefaultSamples, spec.Samples)
	assert.Equal(t, DefaultSamples*4, spec.Size)
}

func TestOpenValidation(t *testing.T) {
	tests := []struct {
		name    string
		spec    *audio.Spec
		wantErr error
	}{
		{name: "nil callback", spec: &audio.Spec{Channels: 1}, wantErr: ErrInvalidCallback},
		{name: "no channels", spec: &audio.Spec{Channels: 0, Callback: noop}, wantErr: ErrUnsupportedChannels},
		{name: "surround", spec: &audio.Spec{Channels: 6, Callback: noop}, wantErr: ErrUnsupportedChannels},
		{name: "bad format", spec: &audio.Spec{Channels: 1, Format: audio.Format(0x0020), Callback: noop}, wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := audiodevtest.New()
			s := newTestSubsystem(t, b)

			err := s.Open(tt.spec, nil)
			require.ErrorIs(t, err, tt.wantErr)

			_, _, opens, _, _ := b.Counts()
			assert.Zero(t, opens)
			assert.Nil(t, s.Device())
			assert.Empty(t, s.DriverName())
		})
	}
}

func TestOpenTwice(t *testing.T) {
	b := audiodevtest.New()
	s := newTestSubsystem(t, b)

	require.NoError(t, s.Open(testSpec(noop), nil))
	dev := s.Device()

	require.ErrorIs(t, s.Open(testSpec(noop), nil), ErrAlreadyOpen)
	assert.Same(t, dev, s.Device())
}

func TestFailedOpenLeavesPreCallState(t *testing.T) {
	b := audiodevtest.New()
	b.OpenErr = errors.New("device busy")
	s := newTestSubsystem(t, b)

	err := s.Open(testSpec(noop), nil)
	require.ErrorIs(t, err, ErrBackendOpen)
	require.ErrorIs(t, err, b.OpenErr)

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "fake", be.Driver)

	assert.Nil(t, s.Device())
	assert.Equal(t, Stopped, s.Status())
	assert.Empty(t, s.DriverName())

	// explicit Init survives a failed Open
	require.NoError(t, s.Init(""))
	require.Error(t, s.Open(testSpec(noop), nil))
	assert.Equal(t, "fake", s.DriverName())

	// and the subsystem is usable for a retry
	b.OpenErr = nil
	require.NoError(t, s.Open(testSpec(noop), nil))
	assert.NotNil(t, s.Device())
}

func TestConvertLen(t *testing.T) {
	tests := []struct {
		name      string
		hwSize    int
		ratio     float64
		frameSize int
		want      int
	}{
		{name: "exact", hwSize: 8192, ratio: 8, frameSize: 1, want: 1024},
		{name: "rounds down to a frame", hwSize: 128, ratio: 0.75, frameSize: 2, want: 170},
		{name: "stereo frames", hwSize: 100, ratio: 1.5, frameSize: 4, want: 64},
		{name: "at least one frame", hwSize: 4, ratio: 16, frameSize: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertLen(tt.hwSize, tt.ratio, tt.frameSize))
		})
	}
}

func TestFailedValidationSelectsNoDriver(t *testing.T) {
	b := audiodevtest.New()
	created := 0
	entry := audiodevtest.Bootstrap(b)
	entry.Create = func(int) (output.Backend, error) {
		created++
		return b, nil
	}
	s := New(Config{Registry: output.NewRegistry(entry), Logger: zerolog.Nop()})
	t.Cleanup(s.Quit)

	require.ErrorIs(t, s.Open(&audio.Spec{Channels: 3, Callback: noop}, nil), ErrUnsupportedChannels)
	require.ErrorIs(t, s.Open(&audio.Spec{Channels: 1}, nil), ErrInvalidCallback)

	assert.Zero(t, created)
	assert.Empty(t, s.DriverName())
}

func TestFailedImplicitInitReleasesDriver(t *testing.T) {
	b := audiodevtest.New()
	b.OpenErr = errors.New("device busy")
	s := newTestSubsystem(t, b)

	require.Error(t, s.Open(testSpec(noop), nil))
	assert.Equal(t, 1, b.Releases())
	assert.Empty(t, s.DriverName())
}

func TestOpenOutOfMemory(t *testing.T) {
	b := audiodevtest.New()
	b.Adjust = func(s *audio.Spec) { s.Freq = 48000 }
	s := New(Config{Registry: audiodevtest.Registry(b), Logger: zerolog.Nop(), MaxBufferBytes: 64})
	t.Cleanup(s.Quit)

	err := s.Open(testSpec(noop), nil)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Nil(t, s.Device())

	_, _, _, closes, _ := b.Counts()
	assert.Equal(t, 1, closes)
}

func TestOpenThreadInitFailure(t *testing.T) {
	b := audiodevtest.New()
	b.ThreadInitErr = errors.New("no realtime priority")
	s := newTestSubsystem(t, b)

	err := s.Open(testSpec(noop), nil)
	require.ErrorIs(t, err, ErrThreadCreate)
	assert.Nil(t, s.Device())
	assert.Equal(t, Stopped, s.Status())
}

func TestOpenAlreadyOpenState(t *testing.T) {
	b := audiodevtest.New()
	b.State = output.AlreadyOpen
	s := newTestSubsystem(t, b)

	require.NoError(t, s.Open(testSpec(noop), nil))
	assert.Equal(t, output.AlreadyOpen, s.Device().Opened)
}

func TestCloseIsIdempotent(t *testing.T) {
	b := audiodevtest.New()
	s := newTestSubsystem(t, b)

	// never opened
	s.Close()
	s.Quit()
	assert.Nil(t, s.Device())

	require.NoError(t, s.Open(testSpec(noop), nil))
	s.Close()
	s.Close()

	assert.Nil(t, s.Device())
	assert.Equal(t, Stopped, s.Status())
	assert.Equal(t, "fake", s.DriverName())

	_, _, _, closes, drains := b.Counts()
	assert.Equal(t, 1, closes)
	assert.Equal(t, 1, drains)

	// Close keeps the driver; Open works again
	require.NoError(t, s.Open(testSpec(noop), nil))
	s.Quit()
	assert.Empty(t, s.DriverName())
	assert.Nil(t, s.Device())
}

func TestInitUnknownDriver(t *testing.T) {
	b := audiodevtest.New()
	s := newTestSubsystem(t, b)

	require.ErrorIs(t, s.Init("nonexistent"), output.ErrNoAudioDevice)
	assert.Empty(t, s.DriverName())
}

func TestInitUsesConfiguredDriver(t *testing.T) {
	b := audiodevtest.New()
	s := New(Config{
		Driver:   "dummy",
		Registry: output.NewRegistry(append([]output.Bootstrap{audiodevtest.Bootstrap(b)}, output.DefaultRegistry().Entries()...)...),
		Logger:   zerolog.Nop(),
	})
	t.Cleanup(s.Quit)

	require.NoError(t, s.Init(""))
	assert.Equal(t, "dummy", s.DriverName())

	require.NoError(t, s.Init("fake"))
	assert.Equal(t, "fake", s.DriverName())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("AUDIODRIVER", "")
	t.Setenv("SDL_AUDIODRIVER", "oto")
	assert.Equal(t, "oto", ConfigFromEnv().Driver)

	t.Setenv("AUDIODRIVER", "dummy")
	cfg := ConfigFromEnv()
	assert.Equal(t, "dummy", cfg.Driver)
	assert.Equal(t, DefaultMaxBufferBytes, cfg.MaxBufferBytes)
	assert.NotNil(t, cfg.Registry)
}

func TestDefaultSubsystem(t *testing.T) {
	require.NoError(t, Init("dummy"))
	t.Cleanup(Quit)
	assert.Equal(t, "dummy", DriverName())

	require.NoError(t, Open(testSpec(noop), nil))
	assert.Equal(t, Paused, GetStatus())

	Pause(false)
	assert.Equal(t, Playing, GetStatus())

	Lock()
	Unlock()

	Close()
	assert.Equal(t, Stopped, GetStatus())
	assert.Equal(t, "dummy", DriverName())

	Quit()
	assert.Empty(t, DriverName())
}

func TestBackendErrorMessage(t *testing.T) {
	err := &BackendError{Driver: "pulse", Err: errors.New("connection refused")}
	assert.Equal(t, "pulse: connection refused", err.Error())
	assert.True(t, errors.Is(err, ErrBackendOpen))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "playing", Playing.String())
	assert.Equal(t, "paused", Paused.String())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, time.Millisecond)
}
