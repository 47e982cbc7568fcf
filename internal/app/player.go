// ABOUTME: Main player application orchestration
// ABOUTME: Wires a source, the audio subsystem and the TUI together
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SDL-mirror/SDL-sub002/internal/source"
	"github.com/SDL-mirror/SDL-sub002/internal/ui"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio/output"
	"github.com/SDL-mirror/SDL-sub002/pkg/audiodev"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// ErrDeviceStopped is returned by Run when the driver fails mid-playback
var ErrDeviceStopped = errors.New("audio device stopped")

// Config holds player configuration
type Config struct {
	Driver  string
	File    string // empty plays a test tone
	Loop    bool
	Format  audio.Format
	Samples int
	Volume  int
	UseTUI  bool

	Registry *output.Registry
	Logger   zerolog.Logger

	// StatusInterval defaults to 500ms
	StatusInterval time.Duration
}

// Player represents the main player application
type Player struct {
	config    Config
	log       zerolog.Logger
	subsystem *audiodev.Subsystem
	src       source.Source
	stream    *source.Stream
	controls  *ui.Controls
	tuiProg   *tea.Program
}

// New creates a new player
func New(config Config) *Player {
	if config.Format == 0 {
		config.Format = audio.S16Sys
	}
	if config.Volume < 0 || config.Volume > audio.MaxVolume {
		config.Volume = audio.MaxVolume
	}
	if config.StatusInterval <= 0 {
		config.StatusInterval = 500 * time.Millisecond
	}

	return &Player{
		config:   config,
		log:      config.Logger.With().Str("component", "app").Logger(),
		controls: ui.NewControls(),
	}
}

// Controls returns the channels driving pause, volume and quit
func (p *Player) Controls() *ui.Controls {
	return p.controls
}

// Start opens the source and the audio device and begins playback
func (p *Player) Start() error {
	src, err := source.Open(p.config.File, p.config.Loop)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	p.src = src
	p.stream = source.NewStream(src, p.config.Format, p.config.Volume)

	p.subsystem = audiodev.New(audiodev.Config{
		Driver:   p.config.Driver,
		Registry: p.config.Registry,
		Logger:   p.config.Logger,
	})

	desired := p.stream.Spec(p.config.Samples)
	if err := p.subsystem.Open(&desired, nil); err != nil {
		_ = src.Close()
		return fmt.Errorf("failed to open audio: %w", err)
	}

	dev := p.subsystem.Device()
	p.log.Info().
		Str("driver", p.subsystem.DriverName()).
		Str("source", src.Title()).
		Int("freq", dev.Spec.Freq).
		Stringer("format", dev.Spec.Format).
		Int("channels", dev.Spec.Channels).
		Int("samples", dev.Spec.Samples).
		Msg("Playback started")

	if p.config.UseTUI {
		p.tuiProg = ui.Run(p.controls, p.config.Volume)
		go func() {
			if _, err := p.tuiProg.Run(); err != nil {
				p.log.Error().Err(err).Msg("TUI error")
			}
		}()
		p.tuiProg.Send(p.Status())
	}

	p.subsystem.Pause(false)
	return nil
}

// Run starts playback and blocks until ctx is done, the source ends, the
// user quits or the device fails
func (p *Player) Run(ctx context.Context) error {
	if err := p.Start(); err != nil {
		return err
	}
	defer p.Stop()

	ticker := time.NewTicker(p.config.StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.stream.Done():
			p.log.Info().Msg("Source finished")
			return nil
		case <-p.controls.Quit:
			p.log.Info().Msg("Received quit signal from TUI")
			return nil
		case <-p.controls.Pause:
			p.TogglePause()
		case v := <-p.controls.Volume:
			p.SetVolume(v)
		case <-ticker.C:
			if p.subsystem.Status() == audiodev.Stopped {
				return ErrDeviceStopped
			}
			p.report()
		}
	}
}

// TogglePause pauses a playing device and resumes a paused one
func (p *Player) TogglePause() {
	paused := p.subsystem.Status() == audiodev.Playing
	p.subsystem.Pause(paused)
	p.log.Info().Bool("paused", paused).Msg("Pause toggled")
	p.send(ui.StatusMsg{Status: p.subsystem.Status().String()})
}

// SetVolume changes the mix volume between callbacks
func (p *Player) SetVolume(volume int) {
	p.subsystem.Lock()
	p.stream.SetVolume(volume)
	p.subsystem.Unlock()

	p.log.Debug().Int("volume", p.stream.Volume()).Msg("Volume change")
}

// Status returns a snapshot of the device and source for display
func (p *Player) Status() ui.StatusMsg {
	volume := p.stream.Volume()
	msg := ui.StatusMsg{
		Driver: p.subsystem.DriverName(),
		Status: p.subsystem.Status().String(),
		Title:  p.stream.Title(),
		Volume: &volume,
		Level:  p.stream.Level(),
		Frames: p.stream.Frames(),
	}

	if dev := p.subsystem.Device(); dev != nil {
		msg.DeviceID = dev.ID.String()
		msg.Freq = dev.Spec.Freq
		msg.Format = dev.Spec.Format.String()
		msg.Channels = dev.Spec.Channels
		msg.Samples = dev.Spec.Samples
		if dev.Convert != nil {
			msg.Convert = dev.Convert.String()
		}
	}
	return msg
}

func (p *Player) report() {
	msg := p.Status()
	if p.tuiProg != nil {
		p.tuiProg.Send(msg)
		return
	}
	p.log.Debug().
		Str("status", msg.Status).
		Int64("frames", msg.Frames).
		Float64("level", msg.Level).
		Msg("Playback stats")
}

func (p *Player) send(msg ui.StatusMsg) {
	if p.tuiProg != nil {
		p.tuiProg.Send(msg)
	}
}

// Stop closes the device and the source
func (p *Player) Stop() {
	if p.tuiProg != nil {
		p.tuiProg.Quit()
	}
	if p.subsystem != nil {
		p.subsystem.Quit()
	}
	if p.src != nil {
		if err := p.src.Close(); err != nil {
			p.log.Warn().Err(err).Msg("Error closing source")
		}
	}
	p.log.Info().Msg("Player stopped")
}
