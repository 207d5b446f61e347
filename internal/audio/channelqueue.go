// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"

	"analyzer/internal/fifo"
	"analyzer/pkg/bitint"
)

// ChannelSampleQueue accumulates single samples from the audio callback
// into FFT-size blocks and hands full blocks across the thread boundary.
//
// Thread assignment: PushSample runs on the audio callback only; Pull,
// NumAvailable and Reconfigure on the consumer context only.
type ChannelSampleQueue struct {
	blockSize int
	staging   []float32
	fill      int
	queue     *fifo.Fifo[[]float32]
	depth     int
}

// NewChannelSampleQueue creates a queue for blocks of blockSize samples
// with the given backlog depth. blockSize must be a power of two (it is
// the FFT size).
func NewChannelSampleQueue(blockSize, depth int) (*ChannelSampleQueue, error) {
	if !bitint.IsPowerOfTwo(blockSize) {
		return nil, fmt.Errorf("block size must be a power of 2, got %d", blockSize)
	}
	q := &ChannelSampleQueue{depth: depth}
	q.rebuild(blockSize)
	return q, nil
}

// PushSample appends one sample to the staging block and publishes the
// block when it fills. No allocation, no locks; a full queue silently
// drops the finished block.
func (q *ChannelSampleQueue) PushSample(s float32) {
	q.staging[q.fill] = s
	q.fill++
	if q.fill == q.blockSize {
		q.queue.Push(q.staging)
		q.fill = 0
	}
}

// Pull copies the oldest full block into block. Returns false when no
// full block is buffered. Implements analyzer.SampleSource.
func (q *ChannelSampleQueue) Pull(block []float32) bool {
	return q.queue.Pull(block)
}

// BlockSize returns the configured block length. Implements
// analyzer.SampleSource.
func (q *ChannelSampleQueue) BlockSize() int { return q.blockSize }

// NumAvailable returns how many full blocks are buffered.
func (q *ChannelSampleQueue) NumAvailable() int { return q.queue.NumAvailable() }

// Reconfigure switches the block size, discarding staged and queued
// data. Must not run concurrently with PushSample.
func (q *ChannelSampleQueue) Reconfigure(blockSize int) error {
	if !bitint.IsPowerOfTwo(blockSize) {
		return fmt.Errorf("block size must be a power of 2, got %d", blockSize)
	}
	q.rebuild(blockSize)
	return nil
}

func (q *ChannelSampleQueue) rebuild(blockSize int) {
	q.blockSize = blockSize
	q.staging = make([]float32, blockSize)
	q.fill = 0
	if q.queue == nil {
		q.queue = fifo.New(q.depth,
			func() []float32 { return make([]float32, q.blockSize) },
			func(dst, src []float32) { copy(dst, src) },
		)
	} else {
		q.queue.Reconfigure(q.depth)
	}
}
