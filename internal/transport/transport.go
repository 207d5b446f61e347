// SPDX-License-Identifier: MIT
// Package transport delivers finished analysis frames (response-curve
// paths, spectrum snapshots) to external renderers.
package transport

// Transport is a generic sink for processed frames. Implementations
// must be safe for use from the render loop goroutine and must not
// block it: a sink that cannot keep up drops frames.
type Transport interface {
	Send(data any) error
	Close() error
}
