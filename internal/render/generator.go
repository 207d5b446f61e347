// SPDX-License-Identifier: MIT
package render

import (
	"math"

	"analyzer/internal/fifo"
)

// Audible frequency range the x-axis log mapping is normalized against.
const (
	MinAudibleHz = 20.0
	MaxAudibleHz = 20000.0
)

const (
	// pathResolution strides over every other bin. The display is
	// log-frequency, so half the bin density costs no visible smoothness
	// while halving path construction and render work.
	pathResolution = 2

	// bottomMargin keeps the trace off the frame edge.
	bottomMargin = 10

	// reservePerPixel is the point capacity reserved per pixel of width.
	reservePerPixel = 3
)

// PathGenerator converts magnitude spectra into response-curve paths and
// publishes them through its handoff queue. All methods run on the
// consumer context only.
type PathGenerator struct {
	scratch *Path
	queue   *fifo.Fifo[*Path]
}

// NewPathGenerator creates a PathGenerator with a path queue of the
// given depth.
func NewPathGenerator(queueDepth int) *PathGenerator {
	return &PathGenerator{
		scratch: NewPath(0),
		queue: fifo.New(queueDepth,
			func() *Path { return NewPath(0) },
			func(dst, src *Path) { dst.CopyFrom(src) },
		),
	}
}

// Generate builds the screen-space curve for one spectrum and pushes it
// into the path queue.
//
// The y axis linearly maps [floorDB, 0] dB onto [bottom+margin, top]
// pixels; non-finite mappings clamp to the bottom edge for the first bin
// and are omitted for the rest, without breaking the path. The x axis
// places each bin's center frequency on a log scale normalized against
// the audible range, clamped so the path never runs left of x = 0.
//
// The spectrum must carry fftSize/2 bins; shorter input is ignored.
func (g *PathGenerator) Generate(spectrum []float32, bounds Rect, fftSize int, binWidthHz, floorDB float32) {
	numBins := fftSize / 2
	if len(spectrum) < numBins || numBins < 1 {
		return
	}

	top := bounds.Y
	bottom := bounds.H
	width := bounds.W

	g.scratch.Reserve(reservePerPixel * int(width))

	mapY := func(db float32) float32 {
		// Decreasing dB maps toward the bottom of the surface.
		return jmap(db, floorDB, 0, bottom+bottomMargin, top)
	}

	y := mapY(spectrum[0])
	if !finite(y) {
		y = bottom
	}
	g.scratch.Start(0, y)

	for bin := 1; bin < numBins; bin += pathResolution {
		y = mapY(spectrum[bin])
		if !finite(y) {
			continue
		}

		binFreq := float64(bin) * float64(binWidthHz)
		norm := mapFromLog10(binFreq, MinAudibleHz, MaxAudibleHz)
		if norm < 0 {
			norm = 0
		} else if norm > 1 {
			norm = 1
		}
		x := float32(math.Floor(norm * float64(width)))
		g.scratch.LineTo(x, y)
	}

	g.queue.Push(g.scratch)
}

// NumAvailable returns how many finished paths are queued.
func (g *PathGenerator) NumAvailable() int {
	return g.queue.NumAvailable()
}

// Pull copies the oldest queued path into out. Returns false when
// nothing is queued.
func (g *PathGenerator) Pull(out *Path) bool {
	return g.queue.Pull(out)
}

// Reconfigure resets the path queue storage. Single-writer precondition
// as for fifo.Fifo.Reconfigure.
func (g *PathGenerator) Reconfigure(queueDepth int) {
	g.queue.Reconfigure(queueDepth)
}

// jmap linearly remaps v from [srcMin, srcMax] to [dstMin, dstMax].
func jmap(v, srcMin, srcMax, dstMin, dstMax float32) float32 {
	return dstMin + (dstMax-dstMin)*(v-srcMin)/(srcMax-srcMin)
}

// mapFromLog10 returns the position of v within [min, max] on a log10
// scale, 0 at min and 1 at max.
func mapFromLog10(v, min, max float64) float64 {
	return math.Log10(v/min) / math.Log10(max/min)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
