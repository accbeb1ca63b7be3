// ABOUTME: Command-line flag parsing layered over the config file
// ABOUTME: Priority is flags, then config file, then defaults
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/aksiksi/shush/internal/version"
)

// Load builds the configuration for args (without the program name).
// Defaults are overlaid by the config file, then by flags.
func Load(args []string, usage io.Writer) (*Config, error) {
	cfg := DefaultConfig()

	path := configFlag(args)
	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg = fileCfg
	}

	if err := cfg.MergeFromFlags(args, usage); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MergeFromFlags overrides c with any flags present in args and takes the
// input path from the first positional argument
func (c *Config) MergeFromFlags(args []string, usage io.Writer) error {
	fs := flag.NewFlagSet("shush", flag.ContinueOnError)
	if usage != nil {
		fs.SetOutput(usage)
	}
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s\n\nUsage: shush [flags] <media file>\n\nFlags:\n", version.String())
		fs.PrintDefaults()
	}

	// Each flag defaults to the current value so unset flags change nothing
	fs.IntVar(&c.SampleRate, "rate", c.SampleRate, "Output sample rate in Hz")
	fs.StringVar(&c.Seek, "seek", c.Seek, "Start position, e.g. 1m30s")
	fs.StringVar(&c.Duration, "duration", c.Duration, "Length to extract, e.g. 30s (default: to the end)")
	fs.BoolVar(&c.Threaded, "threaded", c.Threaded, "Decode with one thread per CPU")
	fs.StringVar(&c.Backend, "backend", c.Backend, "Codec backend: native or ffmpeg")
	fs.StringVar(&c.Output, "o", c.Output, "Output file (default: <input>.<format>)")
	fs.StringVar(&c.Format, "format", c.Format, "Output format: f32 (raw float32 LE) or wav")
	fs.BoolVar(&c.Play, "play", c.Play, "Play the extracted audio")
	fs.IntVar(&c.Volume, "volume", c.Volume, "Playback volume for -play (0-100)")
	fs.BoolVar(&c.NoTUI, "no-tui", c.NoTUI, "Disable TUI, stream logs to stdout")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Log file path")
	_ = fs.String("config", "", "Path to config file (default: search standard locations)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() > 1 {
		return fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	if fs.NArg() == 1 {
		c.Input = fs.Arg(0)
	}

	if c.Output == "" && c.Input != "" {
		c.Output = c.Input + "." + c.Format
	}

	return nil
}

// configFlag extracts -config before the full parse so the file can be
// loaded underneath the other flags
func configFlag(args []string) string {
	for i, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
