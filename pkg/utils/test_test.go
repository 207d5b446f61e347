// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"testing"
)

const (
	testSize       = 1024
	testSampleRate = 44100.0
)

func TestGenerateSineWaveBounds(t *testing.T) {
	block := GenerateSineWave(testSize, testSampleRate, 440)
	if len(block) != testSize {
		t.Fatalf("Block length: got %d, want %d", len(block), testSize)
	}
	for i, v := range block {
		if v < -1 || v > 1 {
			t.Fatalf("Sample %d out of range: %v", i, v)
		}
	}
	if block[0] != 0 {
		t.Errorf("Sine wave should start at zero phase, got %v", block[0])
	}
}

func TestGenerateComplexWaveNonSilent(t *testing.T) {
	block := GenerateComplexWave(testSize, testSampleRate)
	var peak float32
	for _, v := range block {
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		t.Error("Complex wave is silent")
	}
	if peak > 1 {
		t.Errorf("Complex wave clips: peak %v", peak)
	}
}

func TestFindPeakBin(t *testing.T) {
	bins := make([]float32, testSize)
	for i := range bins {
		// A hill centered at testSize/4.
		bins[i] = float32(math.Exp(-0.01 * math.Pow(float64(i-testSize/4), 2)))
	}

	tests := []struct {
		name     string
		startBin int
		endBin   int
		want     int
	}{
		{"Full range", 0, testSize - 1, testSize / 4},
		{"Clamped start", -10, testSize - 1, testSize / 4},
		{"Clamped end", 0, testSize * 2, testSize / 4},
		{"Window excludes peak", testSize / 2, testSize - 1, testSize / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindPeakBin(bins, tt.startBin, tt.endBin); got != tt.want {
				t.Errorf("FindPeakBin: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindPeakBinEmpty(t *testing.T) {
	if got := FindPeakBin(nil, 0, 10); got != 0 {
		t.Errorf("FindPeakBin on empty slice: got %d, want 0", got)
	}
}
