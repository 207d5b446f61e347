// SPDX-License-Identifier: MIT
/*
Package analyzer orchestrates the per-channel analysis pipeline: sample
blocks pulled from a source are turned into magnitude spectra, the
spectra into response-curve paths, and the newest finished path is kept
for the render tick.

Everything downstream of a queue pull runs on the consumer context; the
producer context only ever touches the handoff queues inside the sample
source.
*/
package analyzer

import (
	"fmt"
	"sync"

	"analyzer/internal/render"
	"analyzer/internal/spectral"
)

// SampleSource supplies fixed-size audio blocks across the thread
// boundary. Pull must be non-blocking, returning false when no full
// block is ready. Block length equals the configured FFT size.
type SampleSource interface {
	Pull(block []float32) bool
	BlockSize() int
}

// PathProducer drives one channel end to end.
//
// Process and Path belong to the consumer context. Spectrum and
// SpectrumInto may be called from other goroutines (the UDP publisher
// reads it on its own ticker) and are guarded accordingly.
type PathProducer struct {
	name    string
	source  SampleSource
	floorDB float32

	queueDepth int
	monoBlock  []float32
	spectra    *spectral.Generator
	paths      *render.PathGenerator

	spectrumBuf []float32 // consumer-side pull target

	specMu         sync.RWMutex
	latestSpectrum []float32

	latestPath *render.Path
	hasPath    bool
}

// NewPathProducer creates a producer for one channel. The source's block
// size must match the FFT size for the given order.
func NewPathProducer(name string, source SampleSource, order int, windowType spectral.Window, floorDB float32, queueDepth int) (*PathProducer, error) {
	gen, err := spectral.NewGenerator(order, windowType, queueDepth)
	if err != nil {
		return nil, fmt.Errorf("path producer %q: %w", name, err)
	}
	if source != nil && source.BlockSize() != gen.FFTSize() {
		return nil, fmt.Errorf("path producer %q: source block size %d does not match FFT size %d",
			name, source.BlockSize(), gen.FFTSize())
	}

	return &PathProducer{
		name:           name,
		source:         source,
		floorDB:        floorDB,
		queueDepth:     queueDepth,
		monoBlock:      make([]float32, gen.FFTSize()),
		spectra:        gen,
		paths:          render.NewPathGenerator(queueDepth),
		spectrumBuf:    make([]float32, gen.NumBins()),
		latestSpectrum: make([]float32, gen.NumBins()),
		latestPath:     render.NewPath(0),
	}, nil
}

// Process runs one render-tick worth of work: drain buffered blocks from
// the source, analyze each, convert finished spectra to paths, and keep
// only the newest path. It never waits for new input; an empty source
// means an unchanged latest path.
func (p *PathProducer) Process(bounds render.Rect, sampleRate float64) {
	fftSize := p.spectra.FFTSize()
	binWidth := float32(sampleRate) / float32(fftSize)

	for p.source.Pull(p.monoBlock) {
		p.spectra.Produce(p.monoBlock, p.floorDB)
	}

	for p.spectra.Pull(p.spectrumBuf) {
		p.storeSpectrum(p.spectrumBuf)
		p.paths.Generate(p.spectrumBuf, bounds, fftSize, binWidth, p.floorDB)
	}

	for p.paths.Pull(p.latestPath) {
		p.hasPath = true
	}
}

// Path returns a copy of the latest completed path, or an empty path if
// none has been produced yet. Consumer context only.
func (p *PathProducer) Path() render.Path {
	if !p.hasPath {
		return render.Path{}
	}
	return p.latestPath.Clone()
}

// Spectrum returns a copy of the latest decibel spectrum. Safe for
// concurrent use with Process.
func (p *PathProducer) Spectrum() []float32 {
	p.specMu.RLock()
	defer p.specMu.RUnlock()
	out := make([]float32, len(p.latestSpectrum))
	copy(out, p.latestSpectrum)
	return out
}

// SpectrumInto copies the latest decibel spectrum into dst without
// allocating. dst must hold FFTSize()/2 values.
func (p *PathProducer) SpectrumInto(dst []float32) error {
	p.specMu.RLock()
	defer p.specMu.RUnlock()
	if len(dst) != len(p.latestSpectrum) {
		return fmt.Errorf("destination length %d does not match spectrum length %d", len(dst), len(p.latestSpectrum))
	}
	copy(dst, p.latestSpectrum)
	return nil
}

func (p *PathProducer) storeSpectrum(src []float32) {
	p.specMu.Lock()
	copy(p.latestSpectrum, src)
	p.specMu.Unlock()
}

// Reconfigure switches the FFT order, rebuilding the working block, both
// generators and the retained results. Consumer context only; must not
// run concurrently with a producer push into the source.
func (p *PathProducer) Reconfigure(order int) {
	p.spectra.Reconfigure(order)
	p.paths.Reconfigure(p.queueDepth)

	p.monoBlock = make([]float32, p.spectra.FFTSize())
	p.spectrumBuf = make([]float32, p.spectra.NumBins())

	p.specMu.Lock()
	p.latestSpectrum = make([]float32, p.spectra.NumBins())
	p.specMu.Unlock()

	p.latestPath.Clear()
	p.hasPath = false
}

// Name returns the channel label.
func (p *PathProducer) Name() string { return p.name }

// FFTSize returns the producer's current transform length.
func (p *PathProducer) FFTSize() int { return p.spectra.FFTSize() }
