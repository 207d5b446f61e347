// SPDX-License-Identifier: MIT
// Package config holds runtime configuration for the analyzer: audio
// capture settings, analysis parameters and transport targets. Values
// come from built-in defaults, an optional YAML file, environment
// overrides, and finally command line flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"analyzer/pkg/bitint"
)

// Defaults and limits for the analyzer configuration.
const (
	DefaultSampleRate      = 44100
	DefaultChannels        = 2
	DefaultFramesPerBuffer = 512
	MinDeviceID            = -1 // system default device
	MinSampleRate          = 8000
	MaxSampleRate          = 192000

	// FFT resolution is one of a small enumerated set of power-of-two
	// sizes: 2048, 4096 or 8192 points.
	MinFFTOrder     = 11
	MaxFFTOrder     = 13
	DefaultFFTOrder = 11

	// DefaultFloorDB is the decibel floor substituted for silent or
	// non-finite bins.
	DefaultFloorDB = -48.0

	DefaultWindow     = "blackmanharris"
	DefaultQueueDepth = 8 // a few ticks of backlog per handoff queue

	DefaultPathWidth  = 600
	DefaultPathHeight = 200
	DefaultTickRateHz = 30

	DefaultWebSocketAddr = ":8080"
	DefaultUDPTarget     = "127.0.0.1:9090"
)

// Config is the root configuration structure.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	// Command is a one-off command ("list") instead of running the
	// analyzer. Set from the CLI, never from file.
	Command string `yaml:"-"`

	// InputFile switches the sample source from live capture to a WAV
	// file. Set from the CLI.
	InputFile string `yaml:"-"`

	Audio     AudioConfig     `yaml:"audio"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Recording RecordingConfig `yaml:"recording"`
	Transport TransportConfig `yaml:"transport"`
}

// AudioConfig holds capture settings.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index (-1 for default)
	SampleRate      float64 `yaml:"sample_rate"`       // Hz
	InputChannels   int     `yaml:"input_channels"`    // 1 mono, 2 stereo
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // callback size, power of two
	LowLatency      bool    `yaml:"low_latency"`
}

// AnalyzerConfig holds the analysis pipeline settings.
type AnalyzerConfig struct {
	FFTOrder   int     `yaml:"fft_order"`   // log2 of FFT size, 11..13
	FloorDB    float64 `yaml:"floor_db"`    // decibel floor, negative
	Window     string  `yaml:"window"`      // window function name
	QueueDepth int     `yaml:"queue_depth"` // handoff queue capacity
	PathWidth  int     `yaml:"path_width"`  // render surface width, px
	PathHeight int     `yaml:"path_height"` // render surface height, px
	TickRateHz int     `yaml:"tick_rate_hz"`
}

// RecordingConfig holds input recording settings.
type RecordingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputFile string `yaml:"output_file"`
}

// TransportConfig holds frame delivery settings.
type TransportConfig struct {
	WebSocketEnabled bool          `yaml:"websocket_enabled"`
	WebSocketAddr    string        `yaml:"websocket_addr"`
	UDPEnabled       bool          `yaml:"udp_enabled"`
	UDPTargetAddress string        `yaml:"udp_target_address"`
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     MinDeviceID,
			SampleRate:      DefaultSampleRate,
			InputChannels:   DefaultChannels,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      false,
		},
		Analyzer: AnalyzerConfig{
			FFTOrder:   DefaultFFTOrder,
			FloorDB:    DefaultFloorDB,
			Window:     DefaultWindow,
			QueueDepth: DefaultQueueDepth,
			PathWidth:  DefaultPathWidth,
			PathHeight: DefaultPathHeight,
			TickRateHz: DefaultTickRateHz,
		},
		Recording: RecordingConfig{
			Enabled:    false,
			OutputFile: "",
		},
		Transport: TransportConfig{
			WebSocketEnabled: true,
			WebSocketAddr:    DefaultWebSocketAddr,
			UDPEnabled:       false,
			UDPTargetAddress: DefaultUDPTarget,
			UDPSendInterval:  33 * time.Millisecond,
		},
	}
}

// LoadConfig loads configuration from the YAML file at path. An empty
// path searches "config.yaml" in the working directory and falls back
// to defaults when no file exists. Environment overrides apply after
// the file, and the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		} else {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %g outside [%d, %d]", c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.InputChannels < 1 || c.Audio.InputChannels > 2 {
		return fmt.Errorf("audio.input_channels must be 1 or 2, got %d", c.Audio.InputChannels)
	}
	if !bitint.IsPowerOfTwo(c.Audio.FramesPerBuffer) {
		return fmt.Errorf("audio.frames_per_buffer must be a power of 2, got %d", c.Audio.FramesPerBuffer)
	}
	if c.Analyzer.FFTOrder < MinFFTOrder || c.Analyzer.FFTOrder > MaxFFTOrder {
		return fmt.Errorf("analyzer.fft_order must be %d..%d (FFT size %d..%d), got %d",
			MinFFTOrder, MaxFFTOrder, 1<<MinFFTOrder, 1<<MaxFFTOrder, c.Analyzer.FFTOrder)
	}
	if c.Analyzer.FloorDB >= 0 {
		return fmt.Errorf("analyzer.floor_db must be negative, got %g", c.Analyzer.FloorDB)
	}
	if c.Analyzer.QueueDepth < 1 {
		return fmt.Errorf("analyzer.queue_depth must be at least 1, got %d", c.Analyzer.QueueDepth)
	}
	if c.Analyzer.PathWidth < 1 || c.Analyzer.PathHeight < 1 {
		return fmt.Errorf("analyzer.path dimensions must be positive, got %dx%d", c.Analyzer.PathWidth, c.Analyzer.PathHeight)
	}
	if c.Analyzer.TickRateHz < 1 || c.Analyzer.TickRateHz > 120 {
		return fmt.Errorf("analyzer.tick_rate_hz must be 1..120, got %d", c.Analyzer.TickRateHz)
	}
	return nil
}

// TickInterval returns the render tick period.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Analyzer.TickRateHz)
}

// FFTSize returns the configured transform length.
func (c *Config) FFTSize() int {
	return 1 << c.Analyzer.FFTOrder
}

// applyEnvOverrides applies ANALYZER_* environment variables on top of
// the current values.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("ANALYZER_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		}
	}
	if val, ok := os.LookupEnv("ANALYZER_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv("ANALYZER_FFT_ORDER"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.Analyzer.FFTOrder = n
		}
	}
	if val, ok := os.LookupEnv("ANALYZER_WS_ADDR"); ok {
		c.Transport.WebSocketAddr = val
	}
	if val, ok := os.LookupEnv("ANALYZER_UDP_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.UDPEnabled = b
		}
	}
	if val, ok := os.LookupEnv("ANALYZER_UDP_TARGET"); ok {
		c.Transport.UDPTargetAddress = val
	}
	if val, ok := os.LookupEnv("ANALYZER_UDP_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPSendInterval = d
		}
	}
}
