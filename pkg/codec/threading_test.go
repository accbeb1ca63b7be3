// ABOUTME: Tests for threaded decode configuration
// ABOUTME: Tests CPU-sized configs and the broken-host failure
package codec

import (
	"errors"
	"testing"
)

func TestBuildThreadingConfig(t *testing.T) {
	orig := availableParallelism
	defer func() { availableParallelism = orig }()

	tests := []struct {
		name    string
		cpus    int
		wantErr bool
	}{
		{"single cpu", 1, false},
		{"many cpus", 16, false},
		{"zero cpus", 0, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availableParallelism = func() int { return tt.cpus }

			cfg, err := BuildThreadingConfig()
			if tt.wantErr {
				if !errors.Is(err, ErrThreading) {
					t.Fatalf("expected ErrThreading, got %v", err)
				}
				if cfg != nil {
					t.Error("expected nil config on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Kind != ThreadKindFrame {
				t.Errorf("expected frame threading, got %s", cfg.Kind)
			}
			if cfg.Count != tt.cpus {
				t.Errorf("expected %d threads, got %d", tt.cpus, cfg.Count)
			}
		})
	}
}

func TestBuildThreadingConfigUsesHost(t *testing.T) {
	cfg, err := BuildThreadingConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Count < 1 {
		t.Errorf("expected at least one thread, got %d", cfg.Count)
	}
}

func TestThreadKindString(t *testing.T) {
	if ThreadKindFrame.String() != "frame" {
		t.Errorf("expected frame, got %s", ThreadKindFrame)
	}
	if ThreadKind(0).String() != "none" {
		t.Errorf("expected none, got %s", ThreadKind(0))
	}
}
