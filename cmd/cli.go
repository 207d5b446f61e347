// SPDX-License-Identifier: MIT
// Package cmd parses the command line into a validated configuration.
// Precedence, lowest to highest: built-in defaults, YAML config file,
// environment overrides, explicit flags.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"analyzer/internal/config"
	"analyzer/pkg/build"
)

// ParseArgs builds the runtime configuration from os.Args.
func ParseArgs() (*config.Config, error) {
	return parse(os.Args[1:])
}

func parse(args []string) (*config.Config, error) {
	buildInfo := build.GetBuildFlags()
	defaults := config.Default()

	var (
		configPath string
		command    string
	)

	// Flag targets, seeded with defaults. Only flags the user actually
	// set are copied onto the loaded configuration afterwards.
	flagValues := *defaults

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Real-time audio spectrum analyzer",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Run: func(cmd *cobra.Command, args []string) {
			command = "list"
		},
	}
	rootCmd.AddCommand(listCmd)

	flags := rootCmd.PersistentFlags()

	flags.StringVar(&configPath, "config", "", "Path to YAML config file")

	// Audio capture
	flags.IntVarP(&flagValues.Audio.InputDevice, "device", "d", defaults.Audio.InputDevice,
		"Input device ID. Use the 'list' command to see available devices")
	flags.IntVarP(&flagValues.Audio.InputChannels, "channels", "c", defaults.Audio.InputChannels,
		"Number of input channels (1=mono, 2=stereo)")
	flags.Float64VarP(&flagValues.Audio.SampleRate, "sample-rate", "s", defaults.Audio.SampleRate,
		"Sample rate in Hertz (Hz)")
	flags.IntVarP(&flagValues.Audio.FramesPerBuffer, "frames-per-buffer", "b", defaults.Audio.FramesPerBuffer,
		"Frames per capture buffer (affects latency, power of 2)")
	flags.BoolVarP(&flagValues.Audio.LowLatency, "low-latency", "l", defaults.Audio.LowLatency,
		"Use low latency mode for real-time processing")

	// Analysis
	flags.IntVar(&flagValues.Analyzer.FFTOrder, "fft-order", defaults.Analyzer.FFTOrder,
		"FFT order: 11 (2048), 12 (4096) or 13 (8192 points)")
	flags.Float64Var(&flagValues.Analyzer.FloorDB, "floor-db", defaults.Analyzer.FloorDB,
		"Decibel floor for the response curve")
	flags.StringVarP(&flagValues.Analyzer.Window, "window", "w", defaults.Analyzer.Window,
		"Analysis window function (blackmanharris, hann, hamming, ...)")
	flags.IntVar(&flagValues.Analyzer.TickRateHz, "tick-rate", defaults.Analyzer.TickRateHz,
		"Render ticks per second")

	// Recording
	flags.BoolVarP(&flagValues.Recording.Enabled, "record", "r", defaults.Recording.Enabled,
		"Record the input stream to a WAV file")
	flags.StringVarP(&flagValues.Recording.OutputFile, "output", "o", defaults.Recording.OutputFile,
		"Recording output file name")

	// Offline analysis
	flags.StringVarP(&flagValues.InputFile, "input", "i", "",
		"Analyze a WAV file instead of live capture")

	// Transports
	flags.StringVar(&flagValues.Transport.WebSocketAddr, "ws-addr", defaults.Transport.WebSocketAddr,
		"WebSocket listen address for path frames")
	flags.BoolVar(&flagValues.Transport.UDPEnabled, "udp", defaults.Transport.UDPEnabled,
		"Publish raw spectra over UDP")
	flags.StringVar(&flagValues.Transport.UDPTargetAddress, "udp-target", defaults.Transport.UDPTargetAddress,
		"UDP target address for spectrum packets")

	// Debug
	flags.BoolVarP(&flagValues.Debug, "verbose", "v", defaults.Debug,
		"Show verbose output")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	// Explicit flags win over file and environment values.
	applyFlag := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	applyFlag("device", func() { cfg.Audio.InputDevice = flagValues.Audio.InputDevice })
	applyFlag("channels", func() { cfg.Audio.InputChannels = flagValues.Audio.InputChannels })
	applyFlag("sample-rate", func() { cfg.Audio.SampleRate = flagValues.Audio.SampleRate })
	applyFlag("frames-per-buffer", func() { cfg.Audio.FramesPerBuffer = flagValues.Audio.FramesPerBuffer })
	applyFlag("low-latency", func() { cfg.Audio.LowLatency = flagValues.Audio.LowLatency })
	applyFlag("fft-order", func() { cfg.Analyzer.FFTOrder = flagValues.Analyzer.FFTOrder })
	applyFlag("floor-db", func() { cfg.Analyzer.FloorDB = flagValues.Analyzer.FloorDB })
	applyFlag("window", func() { cfg.Analyzer.Window = flagValues.Analyzer.Window })
	applyFlag("tick-rate", func() { cfg.Analyzer.TickRateHz = flagValues.Analyzer.TickRateHz })
	applyFlag("record", func() { cfg.Recording.Enabled = flagValues.Recording.Enabled })
	applyFlag("output", func() { cfg.Recording.OutputFile = flagValues.Recording.OutputFile })
	applyFlag("input", func() { cfg.InputFile = flagValues.InputFile })
	applyFlag("ws-addr", func() { cfg.Transport.WebSocketAddr = flagValues.Transport.WebSocketAddr })
	applyFlag("udp", func() { cfg.Transport.UDPEnabled = flagValues.Transport.UDPEnabled })
	applyFlag("udp-target", func() { cfg.Transport.UDPTargetAddress = flagValues.Transport.UDPTargetAddress })
	applyFlag("verbose", func() { cfg.Debug = flagValues.Debug })

	cfg.Command = command

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
