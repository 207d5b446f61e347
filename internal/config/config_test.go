// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}
	if cfg.Analyzer.FFTOrder != DefaultFFTOrder {
		t.Errorf("default fft_order: got %d, want %d", cfg.Analyzer.FFTOrder, DefaultFFTOrder)
	}
	if cfg.FFTSize() != 1<<DefaultFFTOrder {
		t.Errorf("FFTSize: got %d, want %d", cfg.FFTSize(), 1<<DefaultFFTOrder)
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeTempConfig(t, `
log_level: debug
audio:
  sample_rate: 48000
  input_channels: 1
analyzer:
  fft_order: 12
  floor_db: -60
  window: hann
  tick_rate_hz: 60
transport:
  udp_enabled: true
  udp_target_address: "127.0.0.1:7000"
  udp_send_interval: 16ms
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("sample_rate: got %g, want 48000", cfg.Audio.SampleRate)
	}
	if cfg.Analyzer.FFTOrder != 12 || cfg.FFTSize() != 4096 {
		t.Errorf("fft_order: got %d (size %d), want 12 (4096)", cfg.Analyzer.FFTOrder, cfg.FFTSize())
	}
	if cfg.Analyzer.FloorDB != -60 {
		t.Errorf("floor_db: got %g, want -60", cfg.Analyzer.FloorDB)
	}
	if cfg.Analyzer.Window != "hann" {
		t.Errorf("window: got %q, want hann", cfg.Analyzer.Window)
	}
	if got := cfg.TickInterval(); got != time.Second/60 {
		t.Errorf("TickInterval: got %s, want %s", got, time.Second/60)
	}
	if !cfg.Transport.UDPEnabled || cfg.Transport.UDPSendInterval != 16*time.Millisecond {
		t.Errorf("transport: got %+v", cfg.Transport)
	}

	// Sections the file omits keep their defaults.
	if cfg.Analyzer.QueueDepth != DefaultQueueDepth {
		t.Errorf("queue_depth default lost: got %d", cfg.Analyzer.QueueDepth)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"fft order too low", func(c *Config) { c.Analyzer.FFTOrder = 10 }, "fft_order"},
		{"fft order too high", func(c *Config) { c.Analyzer.FFTOrder = 14 }, "fft_order"},
		{"positive floor", func(c *Config) { c.Analyzer.FloorDB = 6 }, "floor_db"},
		{"zero queue depth", func(c *Config) { c.Analyzer.QueueDepth = 0 }, "queue_depth"},
		{"sample rate too low", func(c *Config) { c.Audio.SampleRate = 4000 }, "sample_rate"},
		{"non pow2 frames", func(c *Config) { c.Audio.FramesPerBuffer = 500 }, "frames_per_buffer"},
		{"too many channels", func(c *Config) { c.Audio.InputChannels = 3 }, "input_channels"},
		{"zero width", func(c *Config) { c.Analyzer.PathWidth = 0 }, "path"},
		{"absurd tick rate", func(c *Config) { c.Analyzer.TickRateHz = 500 }, "tick_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ANALYZER_FFT_ORDER", "13")
	t.Setenv("ANALYZER_UDP_ENABLED", "true")
	t.Setenv("ANALYZER_UDP_INTERVAL", "20ms")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Analyzer.FFTOrder != 13 {
		t.Errorf("env fft_order override: got %d, want 13", cfg.Analyzer.FFTOrder)
	}
	if !cfg.Transport.UDPEnabled {
		t.Error("env udp_enabled override not applied")
	}
	if cfg.Transport.UDPSendInterval != 20*time.Millisecond {
		t.Errorf("env udp_send_interval override: got %s", cfg.Transport.UDPSendInterval)
	}
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := writeTempConfig(t, "analyzer:\n  fft_order: 7\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for fft_order 7, got nil")
	}
}
