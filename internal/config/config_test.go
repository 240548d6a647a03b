// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, file values and environment overrides
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Audio.Backend != "malgo" {
		t.Errorf("expected backend malgo, got %q", cfg.Audio.Backend)
	}
	if cfg.Audio.BufferFrames != 4096 {
		t.Errorf("expected buffer_frames 4096, got %d", cfg.Audio.BufferFrames)
	}
	if cfg.Audio.Native {
		t.Error("expected native decoding off by default")
	}
	if cfg.Queue.High != 10 || cfg.Queue.Low != 5 {
		t.Errorf("expected watermarks 10/5, got %d/%d", cfg.Queue.High, cfg.Queue.Low)
	}
	if cfg.Seek.Step != 10 {
		t.Errorf("expected seek step 10, got %d", cfg.Seek.Step)
	}
	if cfg.Log.File != "linkstart.log" {
		t.Errorf("expected log file linkstart.log, got %q", cfg.Log.File)
	}
	if cfg.Log.Debug {
		t.Error("expected debug off by default")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player.yaml")
	yaml := []byte("audio:\n  backend: oto\n  native: true\nqueue:\n  high: 20\n  low: 8\nseek:\n  step: 5\n")
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Audio.Backend != "oto" {
		t.Errorf("expected backend oto, got %q", cfg.Audio.Backend)
	}
	if !cfg.Audio.Native {
		t.Error("expected native decoding on")
	}
	if cfg.Queue.High != 20 || cfg.Queue.Low != 8 {
		t.Errorf("expected watermarks 20/8, got %d/%d", cfg.Queue.High, cfg.Queue.Low)
	}
	if cfg.Seek.Step != 5 {
		t.Errorf("expected seek step 5, got %d", cfg.Seek.Step)
	}
	// Untouched sections keep their defaults.
	if cfg.Audio.BufferFrames != 4096 {
		t.Errorf("expected default buffer_frames, got %d", cfg.Audio.BufferFrames)
	}
	if cfg.Log.File != "linkstart.log" {
		t.Errorf("expected default log file, got %q", cfg.Log.File)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LINKSTART_AUDIO_BACKEND", "portaudio")
	t.Setenv("LINKSTART_LOG_DEBUG", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Audio.Backend != "portaudio" {
		t.Errorf("expected env backend portaudio, got %q", cfg.Audio.Backend)
	}
	if !cfg.Log.Debug {
		t.Error("expected env debug on")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}
