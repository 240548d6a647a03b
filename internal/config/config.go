// ABOUTME: Player configuration loading
// ABOUTME: Reads an optional YAML file with fig and applies env overrides
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/kkyr/fig"
)

// EnvPrefix is prepended to environment overrides, so audio.backend
// becomes LINKSTART_AUDIO_BACKEND.
const EnvPrefix = "LINKSTART"

// DefaultFile is the config file name searched for when no explicit
// path is given.
const DefaultFile = "linkstart.yaml"

// Config is the whole player configuration. Zero-config runs work: the
// defaults here match the built-in pipeline defaults.
type Config struct {
	Audio AudioConfig `fig:"audio"`
	Queue QueueConfig `fig:"queue"`
	Seek  SeekConfig  `fig:"seek"`
	Log   LogConfig   `fig:"log"`
}

// AudioConfig selects the output backend and decode path.
type AudioConfig struct {
	// Backend is the output library: malgo, oto or portaudio.
	Backend string `fig:"backend" default:"malgo"`
	// BufferFrames is the device period size hint.
	BufferFrames int `fig:"buffer_frames" default:"4096"`
	// Native picks the pure-Go decoders over FFmpeg.
	Native bool `fig:"native"`
}

// QueueConfig sets the decode queue watermarks in chunks.
type QueueConfig struct {
	High int `fig:"high" default:"10"`
	Low  int `fig:"low" default:"5"`
}

// SeekConfig tunes the arrow-key seek step.
type SeekConfig struct {
	// Step is the jump size in seconds.
	Step int `fig:"step" default:"10"`
}

// LogConfig controls the session log.
type LogConfig struct {
	File  string `fig:"file" default:"linkstart.log"`
	Debug bool   `fig:"debug"`
}

// Load reads configuration from path. With an empty path it searches
// the working directory and ~/.config/linkstart for DefaultFile and
// falls back to pure defaults when none exists; an explicit path that
// cannot be read is an error. Environment variables override the file
// in both cases.
func Load(path string) (Config, error) {
	var cfg Config

	file := DefaultFile
	dirs := []string{"."}
	if path != "" {
		file = filepath.Base(path)
		dirs = []string{filepath.Dir(path)}
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "linkstart"))
	}

	err := fig.Load(&cfg, fig.File(file), fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
	if errors.Is(err, fig.ErrFileNotFound) && path == "" {
		err = fig.Load(&cfg, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
	}
	return cfg, err
}
