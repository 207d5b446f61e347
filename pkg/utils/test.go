// SPDX-License-Identifier: MIT
// Package utils holds shared test helpers: deterministic signal
// generators and spectrum inspection utilities.
package utils

import "math"

// CollectingTransport implements the transport.Transport interface for
// testing, recording every payload it is asked to send.
type CollectingTransport struct {
	Sent []any
}

// Send stores the payload for later inspection instead of transmitting.
func (c *CollectingTransport) Send(data any) error {
	c.Sent = append(c.Sent, data)
	return nil
}

// Close is a no-op.
func (c *CollectingTransport) Close() error { return nil }

// GenerateSineWave returns a float32 sine block at the given frequency,
// scaled to 90% of full scale.
func GenerateSineWave(size int, sampleRate, frequency float64) []float32 {
	block := make([]float32, size)
	for i := range block {
		t := float64(i) / sampleRate
		block[i] = float32(math.Sin(2*math.Pi*frequency*t) * 0.9)
	}
	return block
}

// GenerateComplexWave returns a float32 block containing a 440 Hz
// fundamental plus two harmonics.
func GenerateComplexWave(size int, sampleRate float64) []float32 {
	block := make([]float32, size)
	for i := range block {
		t := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*t)*0.5 +
			math.Sin(2*math.Pi*880*t)*0.3 +
			math.Sin(2*math.Pi*1320*t)*0.2
		block[i] = float32(signal * 0.9)
	}
	return block
}

// FindPeakBin returns the index of the largest value in bins[startBin:endBin]
// (inclusive bounds, clamped to the slice).
func FindPeakBin(bins []float32, startBin, endBin int) int {
	if len(bins) == 0 {
		return 0
	}
	if startBin < 0 {
		startBin = 0
	}
	if endBin >= len(bins) {
		endBin = len(bins) - 1
	}

	peakBin := startBin
	peakValue := bins[startBin]
	for bin := startBin + 1; bin <= endBin; bin++ {
		if bins[bin] > peakValue {
			peakValue = bins[bin]
			peakBin = bin
		}
	}
	return peakBin
}
