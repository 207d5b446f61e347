// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"

	applog "analyzer/internal/log"
)

// FileSource serves the samples of one channel of a WAV file as
// FFT-size blocks, for offline analysis of a recording. Pull never
// blocks; it simply runs out of blocks at the end of the file.
type FileSource struct {
	blockSize  int
	samples    []float32
	cursor     int
	sampleRate float64
}

// NewFileSource decodes the WAV file at path and prepares blocks of
// blockSize samples from the given channel (0 = left). Channels beyond
// what the file has fall back to channel 0.
func NewFileSource(path string, blockSize, channel int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV file: %w", err)
	}

	numChannels := buf.Format.NumChannels
	if numChannels < 1 {
		return nil, fmt.Errorf("WAV file reports %d channels", numChannels)
	}
	if channel < 0 || channel >= numChannels {
		channel = 0
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := 1.0 / float32(int64(1)<<(bitDepth-1))

	frames := len(buf.Data) / numChannels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		samples[i] = float32(buf.Data[i*numChannels+channel]) * scale
	}

	applog.Infof("Audio: loaded %s (%d frames, %d ch, %d Hz, %d-bit)",
		path, frames, numChannels, buf.Format.SampleRate, bitDepth)

	return &FileSource{
		blockSize:  blockSize,
		samples:    samples,
		sampleRate: float64(buf.Format.SampleRate),
	}, nil
}

// Pull copies the next block into block. Returns false once fewer than
// blockSize samples remain; the tail shorter than one block is dropped.
// Implements analyzer.SampleSource.
func (s *FileSource) Pull(block []float32) bool {
	if s.cursor+s.blockSize > len(s.samples) {
		return false
	}
	copy(block, s.samples[s.cursor:s.cursor+s.blockSize])
	s.cursor += s.blockSize
	return true
}

// BlockSize returns the block length. Implements analyzer.SampleSource.
func (s *FileSource) BlockSize() int { return s.blockSize }

// SampleRate returns the file's sample rate in Hz.
func (s *FileSource) SampleRate() float64 { return s.sampleRate }

// Remaining returns how many full blocks are left.
func (s *FileSource) Remaining() int {
	return (len(s.samples) - s.cursor) / s.blockSize
}
