// ABOUTME: Entry point for the shush audio extractor
// ABOUTME: Parses config, decodes the best audio stream to mono PCM and writes or plays it
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/aksiksi/shush/internal/config"
	"github.com/aksiksi/shush/internal/container"
	"github.com/aksiksi/shush/internal/ffmpeg"
	"github.com/aksiksi/shush/internal/ui"
	"github.com/aksiksi/shush/internal/version"
	"github.com/aksiksi/shush/pkg/audio/encode"
	"github.com/aksiksi/shush/pkg/audio/output"
	"github.com/aksiksi/shush/pkg/codec"
	"github.com/aksiksi/shush/pkg/extract"
	"github.com/aksiksi/shush/pkg/media"
)

// progressInterval limits how often decode statistics reach the TUI
const progressInterval = 100 * time.Millisecond

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "shush: %v\n", err)
		os.Exit(2)
	}

	useTUI := !cfg.NoTUI

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	// Tag every line so runs appending to the same log file can be told apart
	runID := uuid.New().String()[:8]
	log.SetPrefix(fmt.Sprintf("[%s] ", runID))
	log.Printf("Starting %s: %s (backend %s, %dHz)", version.String(), cfg.Input, cfg.Backend, cfg.SampleRate)

	samples, err := run(cfg, useTUI)
	if err != nil {
		log.Printf("Extraction failed: %v", err)
		fmt.Fprintf(os.Stderr, "shush: %v\n", err)
		_ = f.Close()
		os.Exit(1)
	}

	log.Printf("Wrote %d samples to %s", samples, cfg.Output)
	if useTUI {
		fmt.Printf("Wrote %d samples (%v) to %s\n", samples,
			time.Duration(samples)*time.Second/time.Duration(cfg.SampleRate), cfg.Output)
	}
}

// openers pairs each backend with the container implementation it decodes
var openers = map[string]struct {
	open    func(string) (media.Container, error)
	backend codec.Backend
}{
	config.BackendNative: {container.Open, container.Backend{}},
	config.BackendFFmpeg: {ffmpeg.Open, ffmpeg.Backend{}},
}

// run performs one extraction and returns the number of samples written
func run(cfg *config.Config, useTUI bool) (int, error) {
	opener, ok := openers[cfg.Backend]
	if !ok {
		return 0, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}

	seek, err := cfg.SeekTo()
	if err != nil {
		return 0, err
	}
	length, err := cfg.Length()
	if err != nil {
		return 0, err
	}

	c, err := opener.open(cfg.Input)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", cfg.Input, err)
	}

	stream, err := media.BestAudioStream(c)
	if err != nil {
		_ = c.Close()
		return 0, err
	}

	// TUI setup
	var tuiProg *tea.Program
	var ctrl *ui.Control
	var tuiDone sync.WaitGroup

	if useTUI {
		ctrl = ui.NewControl()
		tuiProg, err = ui.Run(ctrl)
		if err != nil {
			_ = c.Close()
			return 0, fmt.Errorf("failed to start TUI: %w", err)
		}
		tuiDone.Add(1)
		go func() {
			defer tuiDone.Done()
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
	}

	// Helper to update TUI
	updateTUI := func(msg tea.Msg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	params := stream.CodecParameters()
	start, total := extractRange(stream, seek, length)
	updateTUI(ui.StatusMsg{
		File:       cfg.Input,
		Backend:    opener.backend.Name(),
		Codec:      params.Codec,
		SampleRate: params.SampleRate,
		Channels:   params.Channels,
		TargetRate: cfg.SampleRate,
		Output:     cfg.Output,
		Start:      start,
		Total:      total,
	})

	var lastProgress time.Time
	opts := extract.Options{
		Duration:   length,
		SeekTo:     seek,
		SampleRate: cfg.SampleRate,
		Threaded:   cfg.Threaded,
		Backend:    opener.backend,
		Progress: func(s extract.Stats) {
			if s.Done || time.Since(lastProgress) >= progressInterval {
				lastProgress = time.Now()
				updateTUI(ui.ProgressMsg(s))
			}
		},
	}

	// The container belongs to the decode goroutine from here on
	results := decodeAsync(c, stream.Index(), opts)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var quit <-chan ui.QuitMsg
	if ctrl != nil {
		quit = ctrl.Quit
	}

	var res result
	select {
	case res = <-results:
	case <-quit:
		log.Printf("Received quit signal from TUI")
		tuiDone.Wait()
		return 0, errors.New("aborted")
	case <-sigChan:
		log.Printf("Shutdown signal received")
		if tuiProg != nil {
			tuiProg.Quit()
			tuiDone.Wait()
		}
		return 0, errors.New("interrupted")
	}

	if res.err == nil {
		res.err = writeOutput(cfg, res.pcm)
	}
	if res.err == nil && cfg.Play {
		res.err = play(cfg.SampleRate, cfg.Volume, res.pcm)
	}

	updateTUI(ui.DoneMsg{Err: res.err, Samples: len(res.pcm)})
	if tuiProg != nil {
		tuiProg.Quit()
		tuiDone.Wait()
	}

	if res.err != nil {
		return 0, res.err
	}
	return len(res.pcm), nil
}

type result struct {
	pcm []float32
	err error
}

// decodeAsync decodes stream index of c in the background and closes c once
// decoding returns. Callers that stop waiting early must not touch c again.
func decodeAsync(c media.Container, index int, opts extract.Options) <-chan result {
	results := make(chan result, 1)
	go func() {
		defer func() {
			if err := c.Close(); err != nil {
				log.Printf("Failed to close container: %v", err)
			}
		}()
		pcm, err := extract.Decode(c, index, opts)
		results <- result{pcm, err}
	}()
	return results
}

// extractRange returns where extraction starts and how long it runs, for
// progress display. total is 0 when the stream length is unknown.
func extractRange(s media.Stream, seek, length *time.Duration) (start, total time.Duration) {
	if seek != nil {
		start = *seek
	}
	if length != nil {
		return start, *length
	}
	if d := media.ToDuration(s.TimeBase(), s.Duration()); d > start {
		return start, d - start
	}
	return start, 0
}

func writeOutput(cfg *config.Config, pcm []float32) error {
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = f.Close()
		}
	}()

	enc, err := encode.New(cfg.Format, f, cfg.SampleRate)
	if err != nil {
		return err
	}
	if err := enc.Write(pcm); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	closed = true
	return f.Close()
}

func play(sampleRate, volume int, pcm []float32) error {
	out := output.NewOto()
	if err := out.Open(sampleRate, 1); err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	out.SetVolume(volume)

	log.Printf("Playing %d samples", len(pcm))
	if err := out.Write(pcm); err != nil {
		return err
	}
	return out.Drain()
}
