// SPDX-License-Identifier: MIT
// Package bitint provides power-of-two helpers for FFT and buffer
// sizing. All operations are O(1), allocation-free and real-time safe.
package bitint

import "math/bits"

// IsPowerOfTwo reports whether n is a positive power of 2.
// Powers of 2 have exactly one bit set, so n & (n-1) clears it.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo returns the smallest power of 2 >= size.
// The size-1 adjustment keeps exact powers of 2 from doubling.
// Non-positive sizes map to 1.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len64(uint64(size-1))
}

// Log2 returns the exponent k with 1<<k == n for positive powers of 2,
// and -1 for anything else. Used to recover an FFT order from a size.
func Log2(n int) int {
	if !IsPowerOfTwo(n) {
		return -1
	}
	return bits.TrailingZeros64(uint64(n))
}
