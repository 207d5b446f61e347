// SPDX-License-Identifier: MIT
package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV writes a 16-bit stereo WAV with a sine on the left
// channel and silence on the right.
func writeTestWAV(t *testing.T, frames int, sampleRate int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp wav: %v", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:   make([]int, frames*2),
	}
	for i := 0; i < frames; i++ {
		s := math.Sin(2 * math.Pi * 440 * float64(i) / float64(sampleRate))
		buf.Data[i*2] = int(s * 16000)
		buf.Data[i*2+1] = 0
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestFileSourceBlocks(t *testing.T) {
	const (
		frames     = 1024
		sampleRate = 44100
		blockSize  = 256
	)
	path := writeTestWAV(t, frames, sampleRate)

	src, err := NewFileSource(path, blockSize, 0)
	if err != nil {
		t.Fatalf("NewFileSource error: %v", err)
	}

	if src.SampleRate() != sampleRate {
		t.Errorf("SampleRate: got %g, want %d", src.SampleRate(), sampleRate)
	}
	if src.BlockSize() != blockSize {
		t.Errorf("BlockSize: got %d, want %d", src.BlockSize(), blockSize)
	}
	if got := src.Remaining(); got != frames/blockSize {
		t.Errorf("Remaining: got %d, want %d", got, frames/blockSize)
	}

	block := make([]float32, blockSize)
	pulled := 0
	var peak float32
	for src.Pull(block) {
		pulled++
		for _, v := range block {
			if v < -1 || v > 1 {
				t.Fatalf("Sample out of [-1, 1]: %v", v)
			}
			if a := float32(math.Abs(float64(v))); a > peak {
				peak = a
			}
		}
	}
	if pulled != frames/blockSize {
		t.Errorf("Pulled %d blocks, want %d", pulled, frames/blockSize)
	}
	if peak < 0.3 {
		t.Errorf("Left channel sine missing: peak %v", peak)
	}

	// Exhausted source stays exhausted.
	if src.Pull(block) {
		t.Error("Pull succeeded past end of file")
	}
}

func TestFileSourceSilentChannel(t *testing.T) {
	path := writeTestWAV(t, 512, 44100)

	src, err := NewFileSource(path, 256, 1)
	if err != nil {
		t.Fatalf("NewFileSource error: %v", err)
	}

	block := make([]float32, 256)
	for src.Pull(block) {
		for i, v := range block {
			if v != 0 {
				t.Fatalf("Right channel sample %d = %v, want silence", i, v)
			}
		}
	}
}

func TestFileSourceOutOfRangeChannelFallsBack(t *testing.T) {
	path := writeTestWAV(t, 512, 44100)

	src, err := NewFileSource(path, 256, 5)
	if err != nil {
		t.Fatalf("NewFileSource error: %v", err)
	}

	block := make([]float32, 256)
	if !src.Pull(block) {
		t.Fatal("Pull failed")
	}
	var peak float32
	for _, v := range block {
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		t.Error("Channel fallback did not serve channel 0")
	}
}

func TestFileSourceRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.wav")
	if err := os.WriteFile(path, []byte("definitely not audio"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileSource(path, 256, 0); err == nil {
		t.Error("expected error for invalid WAV file")
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	if _, err := NewFileSource("nonexistent.wav", 256, 0); err == nil {
		t.Error("expected error for missing file")
	}
}
