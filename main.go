// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"analyzer/cmd"
	"analyzer/internal/analyzer"
	"analyzer/internal/audio"
	"analyzer/internal/config"
	applog "analyzer/internal/log"
	"analyzer/internal/render"
	"analyzer/internal/spectral"
	"analyzer/internal/transport"
	"analyzer/internal/transport/udp"
	"analyzer/pkg/build"
)

// main runs the analyzer in three phases:
//
// 1. Startup (cold path):
//   - Resolve build information
//   - Parse command line arguments and configuration
//   - Execute one-off commands if requested
//   - Initialize PortAudio (live capture only)
//
// 2. Concurrent (hot path):
//   - Start the capture engine feeding per-channel sample queues
//   - Start the render loop producing response-curve paths each tick
//   - Start the optional UDP spectrum publisher
//
// 3. Shutdown (cold path):
//   - Handle termination signals
//   - Stop loops, transports and the engine in dependency order
func main() {
	build.Initialize()

	// One thread for the audio callback, one for the consumers.
	runtime.GOMAXPROCS(2)

	cfg, err := cmd.ParseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}
	if cfg.Debug {
		applog.SetLevel(applog.LevelDebug)
	}

	switch {
	case cfg.Command == "list":
		runList()
	case cfg.InputFile != "":
		runFile(cfg)
	default:
		runLive(cfg)
	}
}

func runList() {
	if err := audio.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}
	defer audio.Terminate()

	if err := audio.ListDevices(); err != nil {
		applog.Fatalf("%v", err)
	}
}

// runFile analyzes a WAV file offline, driving the render loop directly
// instead of on a ticker.
func runFile(cfg *config.Config) {
	windowType, err := spectral.ParseWindow(cfg.Analyzer.Window)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	source, err := audio.NewFileSource(cfg.InputFile, cfg.FFTSize(), 0)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	producer, err := analyzer.NewPathProducer("file", source, cfg.Analyzer.FFTOrder,
		windowType, float32(cfg.Analyzer.FloorDB), cfg.Analyzer.QueueDepth)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	sink, cleanup := buildSink(cfg)
	defer cleanup()

	bounds := render.Rect{W: float32(cfg.Analyzer.PathWidth), H: float32(cfg.Analyzer.PathHeight)}
	loop := analyzer.NewRenderLoop([]*analyzer.PathProducer{producer},
		bounds, source.SampleRate(), cfg.TickInterval(), sink)

	ticks := 0
	for source.Remaining() > 0 {
		loop.Tick()
		ticks++
	}
	loop.Tick() // flush spectra queued by the last pull

	applog.Infof("File analysis complete: %s in %d ticks", cfg.InputFile, ticks)
}

func runLive(cfg *config.Config) {
	windowType, err := spectral.ParseWindow(cfg.Analyzer.Window)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	if err := audio.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}
	defer audio.Terminate()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	engine, err := audio.NewEngine(cfg)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	channelNames := []string{"left", "right"}
	producers := make([]*analyzer.PathProducer, engine.NumChannels())
	for i := range producers {
		producers[i], err = analyzer.NewPathProducer(channelNames[i], engine.Channel(i),
			cfg.Analyzer.FFTOrder, windowType, float32(cfg.Analyzer.FloorDB), cfg.Analyzer.QueueDepth)
		if err != nil {
			applog.Fatalf("%v", err)
		}
	}

	sink, cleanup := buildSink(cfg)
	defer cleanup()

	bounds := render.Rect{W: float32(cfg.Analyzer.PathWidth), H: float32(cfg.Analyzer.PathHeight)}
	loop := analyzer.NewRenderLoop(producers, bounds, cfg.Audio.SampleRate, cfg.TickInterval(), sink)

	var publisher *udp.Publisher
	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			applog.Fatalf("%v", err)
		}
		defer sender.Close()

		publisher, err = udp.NewPublisher(cfg.Transport.UDPSendInterval, sender, producers)
		if err != nil {
			applog.Fatalf("%v", err)
		}
	}

	// The first callback after StartInputStream marks the start of the
	// hot path.
	if err := engine.StartInputStream(); err != nil {
		applog.Fatalf("%v", err)
	}
	loop.Start()
	if publisher != nil {
		publisher.Start()
	}

	outputFile := cfg.Recording.OutputFile
	if cfg.Recording.Enabled {
		if outputFile == "" {
			outputFile = "recording-" + time.Now().UTC().Format("02-01-2006-150405") + ".wav"
		}
		if err := engine.StartRecording(outputFile); err != nil {
			applog.Fatalf("%v", err)
		}
	}

	applog.Infof("%s %s running, Ctrl-C to stop", build.GetBuildFlags().Name, build.GetBuildFlags().Version)
	<-done

	if publisher != nil {
		publisher.Stop()
	}
	loop.Stop()

	if cfg.Recording.Enabled {
		if err := engine.StopRecording(); err != nil {
			applog.Errorf("Error stopping recording: %v", err)
		} else {
			fmt.Printf("\nRecording saved to: %s\n", outputFile)
		}
	}
	if err := engine.Close(); err != nil {
		applog.Errorf("Error closing audio engine: %v", err)
	}
}

// buildSink returns the configured frame transport and a cleanup func.
func buildSink(cfg *config.Config) (transport.Transport, func()) {
	if cfg.Transport.WebSocketEnabled {
		ws := transport.NewWebSocketTransport(cfg.Transport.WebSocketAddr, cfg.TickInterval()/2)
		return ws, func() {
			if err := ws.Close(); err != nil {
				applog.Errorf("Error closing WebSocket transport: %v", err)
			}
		}
	}
	d := transport.NewDiscardTransport()
	return d, func() {}
}
