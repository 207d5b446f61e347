// SPDX-License-Identifier: MIT
/*
Package spectral turns fixed-size audio blocks into decibel-scale
magnitude spectra via a windowed forward FFT.

All transform work runs on the consumer (render tick) context; the only
producer-visible surface is the handoff queue the finished spectra are
published through. Produce neither blocks nor allocates: every buffer it
touches is pre-allocated at construction or Reconfigure time.
*/
package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"analyzer/internal/fifo"
	"analyzer/pkg/bitint"
)

// Generator computes magnitude spectra for one channel.
//
// Thread assignment: every method runs on the consumer context only.
// Reconfigure additionally requires that no Produce call is in flight.
type Generator struct {
	order   int
	fftSize int
	numBins int

	plan   *fourier.FFT
	window []float64

	input  []float64    // windowed real input, len fftSize
	coeffs []complex128 // transform output, len fftSize/2+1
	binsDB []float32    // finished spectrum, len fftSize/2

	windowType Window
	queueDepth int
	queue      *fifo.Fifo[[]float32]
}

// NewGenerator creates a Generator for FFT size 1<<order with a spectra
// queue of the given depth.
func NewGenerator(order int, windowType Window, queueDepth int) (*Generator, error) {
	if size := 1 << order; !bitint.IsPowerOfTwo(size) || order < 4 {
		return nil, fmt.Errorf("invalid FFT order %d", order)
	}
	g := &Generator{
		windowType: windowType,
		queueDepth: queueDepth,
	}
	g.queue = fifo.New(queueDepth,
		func() []float32 { return make([]float32, g.numBins) },
		func(dst, src []float32) { copy(dst, src) },
	)
	g.Reconfigure(order)
	return g, nil
}

// Produce runs the full analysis on one audio block and publishes the
// resulting spectrum: copy + zero-pad, window multiply, forward real FFT,
// per-bin normalization by the bin count, and gain-to-decibel conversion
// clamped at floorDB. Non-finite magnitudes are sanitized to zero before
// conversion, so every published value is finite.
//
// If the spectra queue is full the result of this call is dropped.
func (g *Generator) Produce(block []float32, floorDB float32) {
	for i := 0; i < g.fftSize; i++ {
		if i < len(block) {
			g.input[i] = float64(block[i]) * g.window[i]
		} else {
			g.input[i] = 0
		}
	}

	g.plan.Coefficients(g.coeffs, g.input)

	for i := 0; i < g.numBins; i++ {
		v := cmplx.Abs(g.coeffs[i]) / float64(g.numBins)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			v = 0
		}
		g.binsDB[i] = GainToDecibels(v, floorDB)
	}

	g.queue.Push(g.binsDB)
}

// Reconfigure switches the generator to FFT size 1<<order: transform
// plan, window table and scratch buffers are rebuilt and the spectra
// queue storage is reset to the new bin count. Must not run concurrently
// with Produce or Pull.
func (g *Generator) Reconfigure(order int) {
	g.order = order
	g.fftSize = 1 << order
	g.numBins = g.fftSize / 2

	g.plan = fourier.NewFFT(g.fftSize)
	g.window = coefficients(g.fftSize, g.windowType)
	g.input = make([]float64, g.fftSize)
	g.coeffs = make([]complex128, g.fftSize/2+1)
	g.binsDB = make([]float32, g.numBins)

	// The queue's slot constructor reads g.numBins, so resetting it here
	// re-allocates slots at the new spectrum length.
	g.queue.Reconfigure(g.queueDepth)
}

// NumAvailable returns how many finished spectra are queued.
func (g *Generator) NumAvailable() int {
	return g.queue.NumAvailable()
}

// Pull copies the oldest queued spectrum into dst, which must hold
// FFTSize()/2 values. Returns false when nothing is queued.
func (g *Generator) Pull(dst []float32) bool {
	return g.queue.Pull(dst)
}

// FFTSize returns the current transform length.
func (g *Generator) FFTSize() int { return g.fftSize }

// Order returns the current FFT order (log2 of the transform length).
func (g *Generator) Order() int { return g.order }

// NumBins returns the positive-frequency bin count (FFTSize / 2).
func (g *Generator) NumBins() int { return g.numBins }

// GainToDecibels converts a linear gain to decibels, clamped at floorDB
// for zero, near-zero and non-finite inputs.
func GainToDecibels(gain float64, floorDB float32) float32 {
	if gain <= 0 {
		return floorDB
	}
	db := 20 * math.Log10(gain)
	if math.IsInf(db, 0) || math.IsNaN(db) || db < float64(floorDB) {
		return floorDB
	}
	return float32(db)
}
