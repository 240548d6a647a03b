// ABOUTME: Entry point for the linkstart audio player
// ABOUTME: Parses flags, loads config and runs the TUI or headless loop
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/zwdconstrucition/linkstart/internal/config"
	"github.com/zwdconstrucition/linkstart/internal/logger"
	"github.com/zwdconstrucition/linkstart/internal/ui"
	"github.com/zwdconstrucition/linkstart/internal/version"
	"github.com/zwdconstrucition/linkstart/pkg/media"
	"github.com/zwdconstrucition/linkstart/pkg/playback"
)

var (
	configPath  = flag.String("config", "", "Config file path")
	backend     = flag.String("backend", "", "Audio backend: malgo, oto or portaudio")
	native      = flag.Bool("native", false, "Use the pure-Go decoders instead of FFmpeg")
	logFile     = flag.String("log-file", "", "Log file path")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	noTUI       = flag.Bool("no-tui", false, "Disable the TUI, stream logs to stdout")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}
	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file>\n", version.Product)
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Audio.Backend = *backend
	}
	if *native {
		cfg.Audio.Native = true
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *debug {
		cfg.Log.Debug = true
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	// The TUI owns the terminal, so its sessions log to the file only.
	var log zerolog.Logger
	if *noTUI {
		log = logger.NewTee(os.Stdout, f, cfg.Log.Debug)
	} else {
		log = logger.New(f, cfg.Log.Debug)
	}
	log.Info().Str("version", version.Version).Str("path", path).Msg("starting")

	fail := func(msg string, err error) {
		log.Error().Err(err).Msg(msg)
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}

	open := media.Open
	if cfg.Audio.Native {
		open = media.OpenNative
	}
	if media.IsVideoFile(path) {
		log.Info().Str("path", path).Msg("video container, playing the audio track")
	}

	player := playback.New(playback.Config{
		QueueHigh:    cfg.Queue.High,
		QueueLow:     cfg.Queue.Low,
		Backend:      cfg.Audio.Backend,
		BufferFrames: cfg.Audio.BufferFrames,
		OpenSource:   open,
		Log:          log,
	})
	if err := player.OpenFile(path); err != nil {
		fail("open file", err)
	}
	defer func() { _ = player.Close() }()

	if err := player.Start(); err != nil {
		fail("start playback", err)
	}

	if *noTUI {
		runHeadless(player, log)
		return
	}

	prog := ui.NewProgram(player, path, float64(cfg.Seek.Step))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		prog.Quit()
	}()

	if _, err := prog.Run(); err != nil {
		log.Error().Err(err).Msg("tui error")
	}
	player.Stop()
	log.Info().Msg("player exited")
}

// runHeadless plays until the stream drains or a signal arrives,
// logging the position once a second.
func runHeadless(player *playback.Player, log zerolog.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	last := -1.0
	for {
		select {
		case <-sig:
			log.Info().Msg("shutdown signal received")
			player.Stop()
			return
		case <-ticker.C:
			pos := player.CurrentTime()
			depth := player.QueueDepth()
			log.Info().
				Float64("position", pos).
				Float64("duration", player.Duration()).
				Int("buffered", depth).
				Msg("playing")

			// End of stream: the worker has exited, the queue is
			// drained and the clock stopped advancing.
			if player.IsPlaying() && depth == 0 && pos == last {
				log.Info().Msg("playback finished")
				player.Stop()
				return
			}
			last = pos
		}
	}
}
