// SPDX-License-Identifier: MIT
/*
Package fifo provides a bounded single-producer/single-consumer handoff
queue for crossing the boundary between the real-time audio context and
the periodic render context.

Design constraints:
- No locks, no allocation, no syscalls on Push or Pull
- Elements are copied whole into pre-allocated slots (no torn reads)
- Capacity is fixed at construction; Reconfigure rebuilds storage and
  is only legal from the consumer context while the producer is idle

Full-queue policy: Push rejects the incoming element and returns false.
For a visualization feed a dropped frame only means one stale tick, and
rejecting keeps the producer path trivially bounded.
*/
package fifo

import "sync/atomic"

// Fifo is a lock-free SPSC ring of pre-allocated slots.
//
// It uses two monotonically increasing atomic counters. The producer
// stores writePos only after the slot copy completes; the consumer loads
// writePos before reading, so a reader can never observe a partially
// written element. Go's sync/atomic gives sequentially consistent
// ordering, which is stronger than the acquire/release pairing this
// pattern needs.
//
// Thread assignment:
//   - Push: producer context only
//   - Pull, NumAvailable, Reconfigure: consumer context only
type Fifo[T any] struct {
	// Counters on separate cache lines to avoid false sharing between
	// the producer and consumer cores.
	writePos atomic.Uint64
	_        [56]byte
	readPos  atomic.Uint64
	_        [56]byte

	slots    []T
	newSlot  func() T
	copyInto func(dst, src T)
}

// New creates a Fifo with the given capacity. newSlot default-constructs
// one element's backing storage; copyInto performs a fixed-size deep copy
// between elements. Both are required.
func New[T any](capacity int, newSlot func() T, copyInto func(dst, src T)) *Fifo[T] {
	if capacity < 1 {
		capacity = 1
	}
	q := &Fifo[T]{
		newSlot:  newSlot,
		copyInto: copyInto,
	}
	q.grow(capacity)
	return q
}

// Push copies item into the next write slot and publishes it.
// Returns false if the queue is full (the item is dropped).
// Producer context only.
func (q *Fifo[T]) Push(item T) bool {
	w := q.writePos.Load()
	r := q.readPos.Load()
	if w-r == uint64(len(q.slots)) {
		return false
	}
	q.copyInto(q.slots[w%uint64(len(q.slots))], item)
	q.writePos.Store(w + 1)
	return true
}

// Pull copies the oldest unread element into out and advances the read
// cursor. Returns false if the queue is empty. Consumer context only.
func (q *Fifo[T]) Pull(out T) bool {
	r := q.readPos.Load()
	w := q.writePos.Load()
	if w == r {
		return false
	}
	q.copyInto(out, q.slots[r%uint64(len(q.slots))])
	q.readPos.Store(r + 1)
	return true
}

// NumAvailable returns the current occupancy.
func (q *Fifo[T]) NumAvailable() int {
	return int(q.writePos.Load() - q.readPos.Load())
}

// Capacity returns the fixed slot count.
func (q *Fifo[T]) Capacity() int {
	return len(q.slots)
}

// Reconfigure discards all queued elements and rebuilds slot storage at
// the new capacity. Single-writer precondition: must not run concurrently
// with Push or Pull.
func (q *Fifo[T]) Reconfigure(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	q.grow(capacity)
	q.writePos.Store(0)
	q.readPos.Store(0)
}

func (q *Fifo[T]) grow(capacity int) {
	q.slots = make([]T, capacity)
	for i := range q.slots {
		q.slots[i] = q.newSlot()
	}
}
