// SPDX-License-Identifier: MIT
package audio

import "math"

// EnableGate turns the noise gate on. While the gate is closed, silent
// callback buffers are not handed to the analyzer, so the displayed
// curve holds its last shape instead of settling at the floor.
func (e *Engine) EnableGate() {
	e.gateEnabled = true
}

// DisableGate turns the noise gate off (the default).
func (e *Engine) DisableGate() {
	e.gateEnabled = false
}

// SetGateThreshold adjusts the gate threshold. The value is clamped to
// 0.0-1.0, where 0 means always open and 1 always closed.
func (e *Engine) SetGateThreshold(threshold float64) {
	if threshold < 0.0 {
		threshold = 0.0
	}
	if threshold > 1.0 {
		threshold = 1.0
	}
	e.gateThreshold = int32(threshold * float64(math.MaxInt32))
}

// GetGateThreshold returns the current threshold in the 0.0-1.0 range.
func (e *Engine) GetGateThreshold() float64 {
	return float64(e.gateThreshold) / float64(math.MaxInt32)
}
