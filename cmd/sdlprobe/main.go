// ABOUTME: Entry point for the sdlprobe driver inspection tool
// ABOUTME: Lists compiled-in drivers and shows the spec a driver negotiates for a request
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio/output"
	"github.com/SDL-mirror/SDL-sub002/pkg/audiodev"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	driver   = flag.String("driver", "", "Driver to open (default: $AUDIODRIVER, else first available)")
	list     = flag.Bool("list", false, "List drivers and exit")
	freq     = flag.Int("freq", audiodev.DefaultFreq, "Requested sample rate")
	format   = flag.String("format", "S16SYS", "Requested sample format")
	channels = flag.Int("channels", 2, "Requested channel count")
	samples  = flag.Int("samples", 1024, "Requested buffer size in sample frames")
	debug    = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.WarnLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	registry := output.DefaultRegistry()

	if *list {
		listDrivers(registry)
		return
	}

	sampleFormat, err := audio.ParseFormat(*format)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid format")
	}

	cfg := audiodev.ConfigFromEnv()
	cfg.Registry = registry
	cfg.Logger = logger
	if *driver != "" {
		cfg.Driver = *driver
	}

	sub := audiodev.New(cfg)
	defer sub.Quit()

	desired := audio.Spec{
		Freq:     *freq,
		Format:   sampleFormat,
		Channels: *channels,
		Samples:  *samples,
		Callback: func(any, []byte) {},
	}
	if err := sub.Open(&desired, nil); err != nil {
		logger.Fatal().Err(err).Msg("Failed to open audio device")
	}

	dev := sub.Device()
	fmt.Printf("driver:    %s (%s)\n", sub.DriverName(), dev.Opened)
	fmt.Printf("requested: %s\n", describe(desired))
	fmt.Printf("obtained:  %s\n", describe(dev.Spec))
	if dev.Convert == nil {
		fmt.Println("convert:   none")
		return
	}
	fmt.Printf("convert:   %s\n", strings.Join(dev.Convert.Stages(), ", "))
	fmt.Printf("           buffer %d bytes, ratio %.3f\n", len(dev.Convert.Buf), dev.Convert.LenRatio)
}

func listDrivers(registry *output.Registry) {
	for _, entry := range registry.Entries() {
		status := "unavailable"
		if entry.Available != nil && entry.Available() {
			status = "available"
		}
		if entry.DemandOnly {
			status += ", on demand"
		}
		fmt.Printf("%-10s %-40s %s\n", entry.Name, entry.Description, status)
	}
}

func describe(spec audio.Spec) string {
	return fmt.Sprintf("%dHz %s %dch, %d frames (%d bytes, silence 0x%02x)",
		spec.Freq, spec.Format, spec.Channels, spec.Samples, spec.Size, spec.Silence)
}
