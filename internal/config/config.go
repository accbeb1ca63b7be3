// ABOUTME: Extraction settings for the shush CLI
// ABOUTME: Defaults, validation and conversion to extract.Options
package config

import (
	"errors"
	"fmt"
	"time"
)

// Output formats
const (
	FormatF32 = "f32"
	FormatWAV = "wav"
)

// Backends
const (
	BackendNative = "native"
	BackendFFmpeg = "ffmpeg"
)

// Config holds every setting of one extraction run. Durations are Go
// duration strings such as "1m30s"; an empty string means unset.
type Config struct {
	Input      string `yaml:"-"`
	Output     string `yaml:"output"`
	Format     string `yaml:"format"`
	SampleRate int    `yaml:"sample_rate"`
	Seek       string `yaml:"seek"`
	Duration   string `yaml:"duration"`
	Threaded   bool   `yaml:"threaded"`
	Backend    string `yaml:"backend"`
	Play       bool   `yaml:"play"`
	Volume     int    `yaml:"volume"`
	NoTUI      bool   `yaml:"no_tui"`
	LogFile    string `yaml:"log_file"`
}

// DefaultConfig returns the settings used when nothing else is given
func DefaultConfig() *Config {
	return &Config{
		Format:     FormatF32,
		SampleRate: 16000,
		Backend:    BackendNative,
		Volume:     100,
		LogFile:    "shush.log",
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input file is required")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	switch c.Format {
	case FormatF32, FormatWAV:
	default:
		return fmt.Errorf("invalid output format: %q (must be %s or %s)", c.Format, FormatF32, FormatWAV)
	}
	switch c.Backend {
	case BackendNative, BackendFFmpeg:
	default:
		return fmt.Errorf("invalid backend: %q (must be %s or %s)", c.Backend, BackendNative, BackendFFmpeg)
	}
	if c.Volume < 0 || c.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Volume)
	}
	if _, err := c.SeekTo(); err != nil {
		return err
	}
	if _, err := c.Length(); err != nil {
		return err
	}
	return nil
}

// SeekTo returns the seek position, or nil when unset
func (c *Config) SeekTo() (*time.Duration, error) {
	return parseDuration("seek", c.Seek)
}

// Length returns how much audio to extract, or nil for everything
func (c *Config) Length() (*time.Duration, error) {
	return parseDuration("duration", c.Duration)
}

func parseDuration(name, s string) (*time.Duration, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %v", name, d)
	}
	return &d, nil
}
