// ABOUTME: Entry point for the sdlplay audio player
// ABOUTME: Parses CLI flags, sets up logging and metrics, and runs the player application
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SDL-mirror/SDL-sub002/internal/app"
	"github.com/SDL-mirror/SDL-sub002/internal/version"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/SDL-mirror/SDL-sub002/pkg/audiodev"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	driver      = flag.String("driver", "", "Audio driver (default: $AUDIODRIVER, else first available)")
	file        = flag.String("file", "", "Audio file to play (MP3, FLAC, WAV, Ogg Vorbis). If not specified, plays test tone")
	loop        = flag.Bool("loop", false, "Restart the file when it ends")
	format      = flag.String("format", "S16SYS", "Sample format requested from the device (U8, S8, U16LSB, S16LSB, U16MSB, S16MSB, U16SYS, S16SYS)")
	samples     = flag.Int("samples", 1024, "Buffer size in sample frames")
	volume      = flag.Int("volume", audio.MaxVolume, "Mix volume (0-128)")
	logFile     = flag.String("log-file", "sdlplay.log", "Log file path")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	metricsAddr = flag.String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	var out io.Writer = f
	if !useTUI {
		// Streaming logs mode: log to both stdout and file
		out = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stdout}, f)
	}

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	sampleFormat, err := audio.ParseFormat(*format)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid format")
	}

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	hint := *driver
	if hint == "" {
		hint = audiodev.ConfigFromEnv().Driver
	}

	logger.Info().Str("version", version.Version).Str("driver", hint).Msg("Starting sdlplay")

	player := app.New(app.Config{
		Driver:  hint,
		File:    *file,
		Loop:    *loop,
		Format:  sampleFormat,
		Samples: *samples,
		Volume:  *volume,
		UseTUI:  useTUI,
		Logger:  logger,
	})

	// Handle shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := player.Run(ctx); err != nil {
		if errors.Is(err, app.ErrDeviceStopped) {
			logger.Error().Msg("Audio device stopped unexpectedly")
		}
		logger.Fatal().Err(err).Msg("Player failed")
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server stopped")
	}
}
