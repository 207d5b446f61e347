// SPDX-License-Identifier: MIT
package transport

import applog "analyzer/internal/log"

// DiscardTransport is a Transport that drops every frame. Used when no
// renderer is attached (file analysis to stdout, tests).
type DiscardTransport struct{}

// NewDiscardTransport creates a DiscardTransport.
func NewDiscardTransport() *DiscardTransport {
	applog.Debugf("Transport: frames will be discarded (no renderer attached)")
	return &DiscardTransport{}
}

// Send drops the frame. It never fails.
func (d *DiscardTransport) Send(any) error { return nil }

// Close is a no-op.
func (d *DiscardTransport) Close() error { return nil }

var _ Transport = (*DiscardTransport)(nil)
