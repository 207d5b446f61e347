// SPDX-License-Identifier: MIT
/*
Package audio implements the real-time capture side of the analyzer:
- Lock-free per-channel sample handoff from the PortAudio callback
- Optional branchless noise gate ahead of the handoff
- WAV recording of the raw input stream with atomic state management

Thread safety:
- The callback touches only pre-allocated buffers and the SPSC queues
- Recording state is an atomic flag
- The OS thread is locked for the duration of each callback
*/
package audio

import (
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"

	"analyzer/internal/config"
	applog "analyzer/internal/log"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// int32 samples normalized into [-1.0, 1.0) for analysis.
const sampleNorm = 1.0 / float32(0x80000000)

// Engine owns the PortAudio input stream and feeds the per-channel
// sample queues the analysis pipeline pulls from.
type Engine struct {
	config *config.Config

	// Audio input handling.
	inputBuffer  []int32
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	// Per-channel handoff into the analysis pipeline.
	channels []*ChannelSampleQueue

	// Noise gate ahead of the handoff. Disabled by default: the
	// analyzer wants silent blocks too, so the displayed curve settles
	// at the floor instead of freezing.
	gateEnabled   bool
	gateThreshold int32

	// Recording state and buffers.
	isRecording int32 // atomic flag
	wavEncoder  *wav.Encoder
	outputFile  *os.File
	sampleBuf   *goaudio.IntBuffer
}

// NewEngine prepares an engine for the configured device. Queues are
// sized for the configured FFT order.
func NewEngine(cfg *config.Config) (*Engine, error) {
	inputDevice, err := InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, err
	}

	blockSize := cfg.FFTSize()
	channels := make([]*ChannelSampleQueue, cfg.Audio.InputChannels)
	for i := range channels {
		channels[i], err = NewChannelSampleQueue(blockSize, cfg.Analyzer.QueueDepth)
		if err != nil {
			return nil, err
		}
	}

	e := &Engine{
		config:      cfg,
		inputBuffer: make([]int32, cfg.Audio.FramesPerBuffer*cfg.Audio.InputChannels),
		inputDevice: inputDevice,
		channels:    channels,
	}

	if cfg.Audio.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}

	applog.Infof("Audio: engine ready (device %q, %d ch, %g Hz, block %d)",
		inputDevice.Name, cfg.Audio.InputChannels, cfg.Audio.SampleRate, blockSize)
	return e, nil
}

// Channel returns the sample queue for channel i (0 = left).
func (e *Engine) Channel(i int) *ChannelSampleQueue {
	return e.channels[i]
}

// NumChannels returns the number of captured channels.
func (e *Engine) NumChannels() int { return len(e.channels) }

// StartInputStream opens and starts the capture stream. The first
// callback marks the start of the hot path.
func (e *Engine) StartInputStream() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.config.Audio.InputChannels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0,
			Device:   nil,
		},
		FramesPerBuffer: e.config.Audio.FramesPerBuffer,
		SampleRate:      e.config.Audio.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return err
	}
	e.inputStream = stream

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		return err
	}
	return nil
}

// StopInputStream stops and closes the capture stream.
func (e *Engine) StopInputStream() error {
	if e.inputStream == nil {
		return nil
	}
	if err := e.inputStream.Stop(); err != nil {
		return err
	}
	if err := e.inputStream.Close(); err != nil {
		return err
	}
	e.inputStream = nil
	return nil
}

// Close stops recording (if active) and the input stream.
func (e *Engine) Close() error {
	if atomic.LoadInt32(&e.isRecording) == 1 {
		if err := e.StopRecording(); err != nil {
			return err
		}
	}
	return e.StopInputStream()
}

// processInputStream is the capture callback.
// Performance critical:
// - Runs on a dedicated OS thread (LockOSThread)
// - Pre-allocated buffers only, no allocation
// - Only atomic queue cursors cross the thread boundary
func (e *Engine) processInputStream(in []int32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	copy(e.inputBuffer, in)
	e.feedChannels(e.inputBuffer)

	if atomic.LoadInt32(&e.isRecording) == 1 && e.wavEncoder != nil {
		for i, sample := range e.inputBuffer {
			e.sampleBuf.Data[i] = int(sample)
		}
		e.sampleBuf.Data = e.sampleBuf.Data[:len(e.inputBuffer)]
		if err := e.wavEncoder.Write(e.sampleBuf); err != nil {
			applog.Errorf("Audio: WAV write failed: %v", err)
		}
	}
}

// feedChannels deinterleaves the callback buffer into the per-channel
// queues, subject to the gate.
func (e *Engine) feedChannels(buffer []int32) {
	if e.gateEnabled && maxAmplitude(buffer) <= e.gateThreshold {
		return
	}

	numChannels := e.config.Audio.InputChannels
	frames := e.config.Audio.FramesPerBuffer
	for frame := 0; frame < frames; frame++ {
		base := frame * numChannels
		if base+numChannels > len(buffer) {
			break
		}
		for ch, q := range e.channels {
			q.PushSample(float32(buffer[base+ch]) * sampleNorm)
		}
	}
}

// maxAmplitude finds the peak absolute sample without branching.
func maxAmplitude(buffer []int32) int32 {
	var peak int32
	for i := range buffer {
		sample := buffer[i]
		mask := sample >> 31
		amplitude := (sample ^ mask) - mask
		diff := amplitude - peak
		peak += (diff & (diff >> 31)) ^ diff
	}
	return peak
}
