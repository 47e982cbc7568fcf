// ABOUTME: Audio subsystem context owning the selected driver and the open device
// ABOUTME: Implements Init, Open with spec negotiation, Close and Quit
package audiodev

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio/convert"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio/output"
	"github.com/rs/zerolog"
)

// Defaults applied by Open to zero fields of the desired spec
const (
	DefaultFreq    = 22050
	DefaultSamples = 4096
)

// Subsystem drives at most one audio device. Init, Open, Close and Quit
// are serialized; Status, Pause, Lock, Unlock and DriverName never block
// on them and are safe to call from the callback.
type Subsystem struct {
	mu      sync.Mutex
	cfg     Config
	log     zerolog.Logger
	hint    string
	backend output.Backend // created by Init, consumed by Open

	driver atomic.Pointer[output.Bootstrap]
	device atomic.Pointer[Device]
}

// New creates a subsystem. No driver is selected until Init or Open.
func New(cfg Config) *Subsystem {
	cfg.applyDefaults()
	return &Subsystem{
		cfg: cfg,
		log: cfg.Logger.With().Str("component", "audiodev").Logger(),
	}
}

// Drivers returns the names of the drivers known to the registry
func (s *Subsystem) Drivers() []string {
	return s.cfg.Registry.Names()
}

// Init closes any open device and selects a driver. An empty hint falls
// back to Config.Driver.
func (s *Subsystem) Init(hint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.init(hint)
}

func (s *Subsystem) init(hint string) error {
	s.closeDevice()
	s.forget()

	if hint == "" {
		hint = s.cfg.Driver
	}

	entry, backend, err := s.cfg.Registry.Select(hint)
	if err != nil {
		return err
	}

	s.hint = hint
	s.backend = backend
	s.driver.Store(&entry)

	s.log.Info().Str("driver", entry.Name).Str("hint", hint).Msg("audio driver selected")
	return nil
}

func (s *Subsystem) forget() {
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.log.Warn().Err(err).Msg("unopened driver close error")
		}
		s.release()
	}
	s.backend = nil
	s.hint = ""
	s.driver.Store(nil)
}

func validate(spec *audio.Spec) error {
	if spec.Callback == nil {
		return ErrInvalidCallback
	}
	if spec.Channels != 1 && spec.Channels != 2 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, spec.Channels)
	}
	if spec.Format != 0 && !spec.Format.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, spec.Format)
	}
	return nil
}

// Open negotiates desired with the driver and starts the mixing goroutine.
// The device starts paused.
//
// When the driver cannot provide desired exactly and obtained is nil,
// audio is converted so the callback always sees the desired format. When
// obtained is non-nil it receives the driver's spec and the callback must
// write in that format instead. A failed Open leaves the subsystem as it
// was.
func (s *Subsystem) Open(desired *audio.Spec, obtained *audio.Spec) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device.Load() != nil {
		return ErrAlreadyOpen
	}
	if err := validate(desired); err != nil {
		return err
	}

	prevDriver, prevHint := s.driver.Load(), s.hint
	if s.backend == nil {
		if err := s.init(s.hint); err != nil {
			return err
		}
		defer func() {
			if err != nil {
				s.release()
				s.backend = nil
				s.hint = prevHint
				s.driver.Store(prevDriver)
			}
		}()
	}

	spec := *desired
	if spec.Freq == 0 {
		spec.Freq = DefaultFreq
	}
	if spec.Format == 0 {
		spec.Format = audio.S16Sys
	}
	if spec.Samples == 0 {
		spec.Samples = DefaultSamples
	}
	audio.CalculateSpec(&spec)

	name := s.driver.Load().Name
	dev := newDevice(name, s.backend, s.log)
	dev.Spec = spec
	dev.callback = spec.Callback
	dev.userdata = spec.Userdata
	dev.paused.Store(true)

	state, err := s.backend.Open(&dev.Spec)
	if err == nil && state == output.NotOpened {
		err = output.ErrNotOpen
	}
	if err != nil {
		s.closeBackend()
		return &BackendError{Driver: name, Err: err}
	}
	dev.Opened = state

	audio.CalculateSpec(&dev.Spec)
	dev.streamLen = dev.Spec.Size
	dev.streamSilence = dev.Spec.Silence

	if !dev.Spec.SameStream(spec) && obtained == nil {
		cvt, err := convert.Build(convert.ParamsOf(spec), convert.ParamsOf(dev.Spec))
		if err != nil {
			s.closeBackend()
			return fmt.Errorf("failed to build audio conversion: %w", err)
		}
		if cvt.Needed {
			n := convertLen(dev.Spec.Size, cvt.LenRatio, spec.FrameSize())
			if size := cvt.BufferSize(n); size > s.cfg.MaxBufferBytes {
				s.closeBackend()
				return fmt.Errorf("%w: %d bytes exceeds %d", ErrOutOfMemory, size, s.cfg.MaxBufferBytes)
			}
			cvt.Alloc(n)
			dev.Convert = cvt
			dev.streamLen = n
			dev.streamSilence = spec.Silence
			dev.pending = make([]byte, 0, dev.Spec.Size+cvt.BufferSize(n))
		}
	}

	dev.fakeStream = make([]byte, dev.Spec.Size)

	if err := dev.start(); err != nil {
		s.closeBackend()
		return fmt.Errorf("%w: %v", ErrThreadCreate, err)
	}

	s.device.Store(dev)

	if obtained != nil {
		*obtained = dev.Spec
	}

	ev := dev.log.Info().
		Stringer("state", state).
		Int("freq", dev.Spec.Freq).
		Stringer("format", dev.Spec.Format).
		Int("channels", dev.Spec.Channels).
		Int("samples", dev.Spec.Samples)
	if dev.Convert != nil {
		ev = ev.Stringer("convert", dev.Convert)
	}
	ev.Msg("audio device opened")

	return nil
}

// convertLen returns the callback buffer size whose conversion fills a
// hardware buffer of hwSize bytes, in whole source frames
func convertLen(hwSize int, ratio float64, frameSize int) int {
	n := int(float64(hwSize)/ratio) / frameSize * frameSize
	if n < frameSize {
		n = frameSize
	}
	return n
}

func (s *Subsystem) closeBackend() {
	if err := s.backend.Close(); err != nil {
		s.log.Warn().Err(err).Msg("driver close error")
	}
}

// release frees driver state beyond its hardware handles
func (s *Subsystem) release() {
	if r, ok := s.backend.(output.Releaser); ok {
		r.Release()
	}
}

// Close stops the mixing goroutine and releases the device. The driver
// selection is kept for the next Open. Closing twice is harmless.
func (s *Subsystem) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeDevice()
}

func (s *Subsystem) closeDevice() {
	dev := s.device.Load()
	if dev == nil {
		return
	}

	dev.stop()

	if err := dev.backend.Close(); err != nil {
		dev.log.Warn().Err(err).Msg("driver close error")
	}
	if r, ok := dev.backend.(output.Releaser); ok {
		r.Release()
	}
	dev.fakeStream = nil

	s.device.Store(nil)
	s.backend = nil

	dev.log.Info().Msg("audio device closed")
}

// Quit closes the device and forgets the driver selection
func (s *Subsystem) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeDevice()
	s.forget()
}

// Device returns the open device, or nil
func (s *Subsystem) Device() *Device {
	return s.device.Load()
}

// DriverName returns the selected driver's name, or "" before Init
func (s *Subsystem) DriverName() string {
	if d := s.driver.Load(); d != nil {
		return d.Name
	}
	return ""
}

// Status reports Stopped when no device is open or it has failed
func (s *Subsystem) Status() Status {
	if dev := s.device.Load(); dev != nil {
		return dev.Status()
	}
	return Stopped
}

// Pause stops or resumes the callback of the open device
func (s *Subsystem) Pause(on bool) {
	if dev := s.device.Load(); dev != nil {
		dev.Pause(on)
	}
}

// Lock keeps the callback from running until Unlock
func (s *Subsystem) Lock() {
	if dev := s.device.Load(); dev != nil {
		dev.Lock()
	}
}

// Unlock releases Lock
func (s *Subsystem) Unlock() {
	if dev := s.device.Load(); dev != nil {
		dev.Unlock()
	}
}
