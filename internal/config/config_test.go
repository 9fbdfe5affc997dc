package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected defaults to load, got: %v", err)
	}

	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Expected default sample rate 44100, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Video.FPS != 60 {
		t.Errorf("Expected default fps 60, got %d", cfg.Video.FPS)
	}
	if cfg.Session.HoldTicks != 120 {
		t.Errorf("Expected default hold_ticks 120, got %d", cfg.Session.HoldTicks)
	}
	if cfg.Output.Directory == "" {
		t.Error("Expected a default output directory")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "micloop.yaml")
	content := `audio:
  sample_rate: 16000
  sink_chunk: 256
video:
  fps: 30
  dump_every: 10
session:
  hold_ticks: 45
output:
  directory: ` + dir + `
`
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Expected config to load, got: %v", err)
	}

	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("Expected sample rate 16000, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.SinkChunk != 256 {
		t.Errorf("Expected sink_chunk 256, got %d", cfg.Audio.SinkChunk)
	}
	if cfg.Video.FPS != 30 {
		t.Errorf("Expected fps 30, got %d", cfg.Video.FPS)
	}
	if cfg.Video.DumpEvery != 10 {
		t.Errorf("Expected dump_every 10, got %d", cfg.Video.DumpEvery)
	}
	if cfg.Session.HoldTicks != 45 {
		t.Errorf("Expected hold_ticks 45, got %d", cfg.Session.HoldTicks)
	}
	if cfg.Output.Directory != dir {
		t.Errorf("Expected output directory %s, got %s", dir, cfg.Output.Directory)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected missing file to fall back to defaults, got: %v", err)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Expected default sample rate, got %d", cfg.Audio.SampleRate)
	}
}

func TestValidateRejectsUnsupportedRate(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "micloop.yaml")
	if err := os.WriteFile(configFile, []byte("audio:\n  sample_rate: 12345\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configFile); err == nil {
		t.Error("Expected an error for unsupported sample rate")
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fps", func(c *Config) { c.Video.FPS = 0 }},
		{"fps above rate", func(c *Config) { c.Audio.SampleRate = 8000; c.Video.FPS = 9000 }},
		{"negative sink chunk", func(c *Config) { c.Audio.SinkChunk = -1 }},
		{"negative dump every", func(c *Config) { c.Video.DumpEvery = -1 }},
		{"zero hold ticks", func(c *Config) { c.Session.HoldTicks = 0 }},
		{"negative max ticks", func(c *Config) { c.Session.MaxTicks = -1 }},
		{"empty output dir", func(c *Config) { c.Output.Directory = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

func TestIsSupportedRate(t *testing.T) {
	for _, rate := range SupportedRates {
		if !IsSupportedRate(rate) {
			t.Errorf("Expected %d to be supported", rate)
		}
	}
	for _, rate := range []int{0, -1, 44099, 96000} {
		if IsSupportedRate(rate) {
			t.Errorf("Expected %d to be unsupported", rate)
		}
	}
}
