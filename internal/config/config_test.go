// ABOUTME: Tests for config defaults, validation, file loading and flag layering
// ABOUTME: Uses temporary YAML files and an isolated HOME
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SampleRate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", cfg.SampleRate)
	}
	if cfg.Format != FormatF32 {
		t.Errorf("expected format f32, got %s", cfg.Format)
	}
	if cfg.Backend != BackendNative {
		t.Errorf("expected native backend, got %s", cfg.Backend)
	}
	if cfg.Threaded {
		t.Error("expected threaded to be false")
	}
	if cfg.Volume != 100 {
		t.Errorf("expected volume 100, got %d", cfg.Volume)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		errorText string
	}{
		{"valid", func(c *Config) {}, ""},
		{"valid with durations", func(c *Config) { c.Seek = "1m"; c.Duration = "30s" }, ""},
		{"missing input", func(c *Config) { c.Input = "" }, "input file is required"},
		{"zero rate", func(c *Config) { c.SampleRate = 0 }, "sample rate must be positive"},
		{"bad format", func(c *Config) { c.Format = "mp3" }, "invalid output format"},
		{"bad backend", func(c *Config) { c.Backend = "gstreamer" }, "invalid backend"},
		{"bad seek", func(c *Config) { c.Seek = "soon" }, "invalid seek"},
		{"negative duration", func(c *Config) { c.Duration = "-5s" }, "duration must not be negative"},
		{"muted", func(c *Config) { c.Volume = 0 }, ""},
		{"volume too high", func(c *Config) { c.Volume = 101 }, "volume must be between 0 and 100"},
		{"negative volume", func(c *Config) { c.Volume = -1 }, "volume must be between 0 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Input = "talk.wav"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.errorText == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errorText) {
				t.Errorf("expected error containing %q, got %v", tt.errorText, err)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()

	seek, err := cfg.SeekTo()
	if err != nil || seek != nil {
		t.Errorf("expected unset seek, got %v, %v", seek, err)
	}

	cfg.Seek = "1m30s"
	cfg.Duration = "250ms"
	seek, err = cfg.SeekTo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *seek != 90*time.Second {
		t.Errorf("expected 1m30s, got %v", *seek)
	}
	length, err := cfg.Length()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *length != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", *length)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shush.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
sample_rate: 8000
format: wav
seek: 10s
threaded: true
backend: ffmpeg
volume: 40
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.SampleRate != 8000 {
		t.Errorf("expected sample rate 8000, got %d", cfg.SampleRate)
	}
	if cfg.Format != FormatWAV {
		t.Errorf("expected wav, got %s", cfg.Format)
	}
	if cfg.Seek != "10s" {
		t.Errorf("expected seek 10s, got %s", cfg.Seek)
	}
	if !cfg.Threaded {
		t.Error("expected threaded")
	}
	if cfg.Backend != BackendFFmpeg {
		t.Errorf("expected ffmpeg, got %s", cfg.Backend)
	}
	if cfg.Volume != 40 {
		t.Errorf("expected volume 40, got %d", cfg.Volume)
	}
	// Unset keys keep their defaults
	if cfg.LogFile != "shush.log" {
		t.Errorf("expected default log file, got %s", cfg.LogFile)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	if _, err := LoadConfigFile("/nonexistent/shush.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadConfigFile(writeConfig(t, "sample_rate: [fast")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestFindConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if path := FindConfigFile(); path != "" {
		t.Errorf("expected no config file, got %s", path)
	}

	dir := filepath.Join(home, ".shush")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	want := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(want, []byte("format: wav\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if path := FindConfigFile(); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
}

func TestLoadPriority(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "sample_rate: 8000\nformat: wav\nduration: 20s\n")

	cfg, err := Load([]string{"-config", path, "-rate", "22050", "-seek", "5s", "-play", "-volume", "30", "talk.mp3"}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// Flag beats file
	if cfg.SampleRate != 22050 {
		t.Errorf("expected sample rate 22050 from flag, got %d", cfg.SampleRate)
	}
	// File beats default
	if cfg.Format != FormatWAV {
		t.Errorf("expected wav from file, got %s", cfg.Format)
	}
	if cfg.Duration != "20s" {
		t.Errorf("expected duration 20s from file, got %s", cfg.Duration)
	}
	if cfg.Seek != "5s" {
		t.Errorf("expected seek 5s from flag, got %s", cfg.Seek)
	}
	if !cfg.Play || cfg.Volume != 30 {
		t.Errorf("expected playback at volume 30 from flags, got play=%v volume=%d", cfg.Play, cfg.Volume)
	}
	if cfg.Input != "talk.mp3" {
		t.Errorf("expected input talk.mp3, got %s", cfg.Input)
	}
	if cfg.Output != "talk.mp3.wav" {
		t.Errorf("expected derived output talk.mp3.wav, got %s", cfg.Output)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"-rate", "16000"}},
		{"two inputs", []string{"a.wav", "b.wav"}},
		{"unknown flag", []string{"-bogus", "a.wav"}},
		{"bad rate", []string{"-rate", "-1", "a.wav"}},
		{"bad volume", []string{"-volume", "250", "a.wav"}},
		{"missing config", []string{"-config=/nonexistent/shush.yaml", "a.wav"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var usage strings.Builder
			if _, err := Load(tt.args, &usage); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigFlag(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"-config", "a.yaml"}, "a.yaml"},
		{[]string{"--config=b.yaml", "x.wav"}, "b.yaml"},
		{[]string{"-rate", "8000", "x.wav"}, ""},
		{[]string{"config", "c.yaml"}, ""},
	}

	for _, tt := range tests {
		if got := configFlag(tt.args); got != tt.expected {
			t.Errorf("configFlag(%v): expected %q, got %q", tt.args, tt.expected, got)
		}
	}
}
