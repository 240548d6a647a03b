// ABOUTME: Extracts video frames to PNG files
// ABOUTME: Decodes with FFmpeg, scales to RGBA and writes one image per interval
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/zwdconstrucition/linkstart/internal/logger"
	"github.com/zwdconstrucition/linkstart/internal/version"
	"github.com/zwdconstrucition/linkstart/pkg/media"
)

var (
	outDir = flag.String("o", "frames", "Output directory for PNG files")
	every  = flag.Float64("every", 1.0, "Seconds between exported frames")
	max    = flag.Int("max", 0, "Stop after this many frames (0 for all)")
	debug  = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	log := logger.NewConsole(os.Stderr, *debug)

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s-frames [flags] <video>\n", version.Product)
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output directory")
	}

	src, err := media.NewVideoSource(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("open video")
	}
	defer func() { _ = src.Close() }()

	info := src.Info()
	log.Info().
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("duration", info.Duration).
		Msg("video opened")

	count := 0
	next := 0.0
	for {
		frame, err := src.NextFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if media.IsFailure(err, media.ConversionFailure) {
				log.Warn().Err(err).Msg("frame skipped")
				continue
			}
			log.Fatal().Err(err).Msg("decode frame")
		}

		if frame.PTS < next {
			continue
		}

		name := filepath.Join(*outDir, fmt.Sprintf("frame-%05d.png", count))
		if err := writePNG(name, frame); err != nil {
			log.Fatal().Err(err).Str("file", name).Msg("write frame")
		}
		log.Debug().Str("file", name).Float64("pts", frame.PTS).Msg("frame written")

		count++
		next = frame.PTS + *every
		if *max > 0 && count >= *max {
			break
		}
	}

	log.Info().Int("frames", count).Str("dir", *outDir).Msg("done")
}

func writePNG(name string, frame media.VideoFrame) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, frame.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
