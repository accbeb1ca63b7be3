// ABOUTME: Tests for the shush entry point helpers
// ABOUTME: Covers container ownership by the decode goroutine and output file writing
package main

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/aksiksi/shush/internal/config"
	"github.com/aksiksi/shush/internal/container"
	"github.com/aksiksi/shush/pkg/extract"
	"github.com/aksiksi/shush/pkg/media"
)

// trackedContainer records reads that happen after Close
type trackedContainer struct {
	media.Container

	mu              sync.Mutex
	closes          int
	readsAfterClose int
	closed          chan struct{}
}

func (c *trackedContainer) ReadPacket() (media.Packet, error) {
	c.mu.Lock()
	if c.closes > 0 {
		c.readsAfterClose++
	}
	c.mu.Unlock()
	return c.Container.ReadPacket()
}

func (c *trackedContainer) Close() error {
	c.mu.Lock()
	c.closes++
	first := c.closes == 1
	c.mu.Unlock()
	err := c.Container.Close()
	if first {
		close(c.closed)
	}
	return err
}

func (c *trackedContainer) state() (closes, readsAfterClose int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes, c.readsAfterClose
}

func openTracked(t *testing.T, frames int) (*trackedContainer, media.Stream) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	enc := wav.NewEncoder(f, 16000, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           make([]int, frames),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write samples: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalize WAV: %v", err)
	}
	_ = f.Close()

	c, err := container.Open(path)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	s, err := media.BestAudioStream(c)
	if err != nil {
		t.Fatalf("failed to select stream: %v", err)
	}
	return &trackedContainer{Container: c, closed: make(chan struct{})}, s
}

func waitClosed(t *testing.T, c *trackedContainer) {
	t.Helper()
	select {
	case <-c.closed:
	case <-time.After(5 * time.Second):
		t.Fatal("container was never closed")
	}
}

func TestDecodeAsyncClosesContainer(t *testing.T) {
	c, s := openTracked(t, 16000)

	res := <-decodeAsync(c, s.Index(), extract.Options{
		SampleRate: 16000,
		Backend:    container.Backend{},
	})
	if res.err != nil {
		t.Fatalf("decode failed: %v", res.err)
	}
	if len(res.pcm) == 0 {
		t.Error("expected decoded samples")
	}

	waitClosed(t, c)
	closes, after := c.state()
	if closes != 1 {
		t.Errorf("expected one close, got %d", closes)
	}
	if after != 0 {
		t.Errorf("expected no reads after close, got %d", after)
	}
}

func TestDecodeAsyncAbandonedKeepsContainerOpen(t *testing.T) {
	c, s := openTracked(t, 64000)

	// Hold the decoder inside its first progress report, as a slow TUI would,
	// while the caller gives up waiting for the result
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	_ = decodeAsync(c, s.Index(), extract.Options{
		SampleRate: 16000,
		Backend:    container.Backend{},
		Progress: func(extract.Stats) {
			once.Do(func() {
				close(started)
				<-release
			})
		},
	})

	<-started
	if closes, _ := c.state(); closes != 0 {
		t.Fatalf("container closed while decoding, %d closes", closes)
	}
	close(release)

	waitClosed(t, c)
	closes, after := c.state()
	if closes != 1 {
		t.Errorf("expected one close, got %d", closes)
	}
	if after != 0 {
		t.Errorf("expected no reads after close, got %d", after)
	}
}

func TestWriteOutput(t *testing.T) {
	pcm := []float32{0, 0.5, -0.5, 1}

	tests := []struct {
		format string
		size   int64
	}{
		{config.FormatF32, int64(len(pcm) * 4)},
		{config.FormatWAV, 44 + int64(len(pcm)*2)},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Format = tt.format
			cfg.Output = filepath.Join(t.TempDir(), "out."+tt.format)

			if err := writeOutput(cfg, pcm); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			info, err := os.Stat(cfg.Output)
			if err != nil {
				t.Fatalf("stat failed: %v", err)
			}
			if info.Size() < tt.size {
				t.Errorf("expected at least %d bytes, got %d", tt.size, info.Size())
			}
		})
	}
}

func TestWriteOutputErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "missing", "out.f32")
	if err := writeOutput(cfg, []float32{0}); err == nil {
		t.Error("expected error creating output in missing directory")
	}

	cfg.Output = filepath.Join(t.TempDir(), "out.mp3")
	cfg.Format = "mp3"
	if err := writeOutput(cfg, []float32{0}); err == nil {
		t.Error("expected error for unsupported format")
	}
}
