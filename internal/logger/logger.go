// ABOUTME: Logger construction for the player binaries
// ABOUTME: Builds zerolog loggers for file, console and split output
package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// consoleTimeFormat trades date precision for millisecond timestamps;
// playback events land within the same second constantly.
const consoleTimeFormat = "15:04:05.000"

// New returns a JSON logger writing to w at info level, or debug level
// when debug is set.
func New(w io.Writer, debug bool) zerolog.Logger {
	return zerolog.New(w).Level(level(debug)).With().Timestamp().Logger()
}

// NewConsole returns a human-readable logger writing to w.
func NewConsole(w io.Writer, debug bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	return zerolog.New(cw).Level(level(debug)).With().Timestamp().Logger()
}

// NewTee returns a logger that renders console output on term while
// appending JSON lines to file. Headless mode uses it so a session
// stays greppable after the terminal scrolls away.
func NewTee(term, file io.Writer, debug bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: term, TimeFormat: consoleTimeFormat}
	w := zerolog.MultiLevelWriter(cw, file)
	return zerolog.New(w).Level(level(debug)).With().Timestamp().Logger()
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
