// SPDX-License-Identifier: MIT
package analyzer

import (
	"sync"
	"time"

	applog "analyzer/internal/log"
	"analyzer/internal/render"
	"analyzer/internal/transport"
)

// PathFrame is one channel's drawable curve for a single render tick,
// as handed to a transport for delivery to the renderer.
type PathFrame struct {
	Channel string         `json:"channel"`
	Bounds  render.Rect    `json:"bounds"`
	Points  []render.Point `json:"points"`
}

// RenderLoop is the periodic consumer context. Each tick it calls
// Process on every registered producer and forwards the freshest paths
// to the attached transport. Work per tick is bounded by queue
// occupancy; the loop never waits for input.
type RenderLoop struct {
	producers  []*PathProducer
	bounds     render.Rect
	sampleRate float64
	interval   time.Duration
	sink       transport.Transport

	mu       sync.Mutex
	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRenderLoop creates a loop ticking at the given interval. An
// interval <= 0 defaults to ~30 Hz.
func NewRenderLoop(producers []*PathProducer, bounds render.Rect, sampleRate float64, interval time.Duration, sink transport.Transport) *RenderLoop {
	if interval <= 0 {
		interval = 33 * time.Millisecond
		applog.Warnf("RenderLoop: invalid tick interval, defaulting to %s", interval)
	}
	return &RenderLoop{
		producers:  producers,
		bounds:     bounds,
		sampleRate: sampleRate,
		interval:   interval,
		sink:       sink,
	}
}

// Start launches the tick goroutine. Safe to call once per Start/Stop
// cycle; a second Start while running is a no-op.
func (l *RenderLoop) Start() {
	l.mu.Lock()
	if l.ticker != nil {
		l.mu.Unlock()
		applog.Warnf("RenderLoop: Start called but already running")
		return
	}
	l.ticker = time.NewTicker(l.interval)
	l.doneChan = make(chan struct{})
	l.stopOnce = sync.Once{}

	ticker := l.ticker
	doneChan := l.doneChan
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		applog.Infof("RenderLoop: started (tick %s, %d channels)", l.interval, len(l.producers))
		for {
			select {
			case <-ticker.C:
				l.Tick()
			case <-doneChan:
				return
			}
		}
	}()
}

// Tick runs one consumer cycle. Exposed so offline callers (file
// analysis, tests) can drive the loop without the ticker.
func (l *RenderLoop) Tick() {
	for _, p := range l.producers {
		p.Process(l.bounds, l.sampleRate)

		path := p.Path()
		if path.Len() == 0 {
			continue // nothing to draw yet
		}
		if l.sink == nil {
			continue
		}
		frame := PathFrame{
			Channel: p.Name(),
			Bounds:  l.bounds,
			Points:  path.Points(),
		}
		if err := l.sink.Send(frame); err != nil {
			applog.Errorf("RenderLoop: transport send failed: %v", err)
		}
	}
}

// Stop signals the tick goroutine and waits for it to exit. Safe to call
// multiple times.
func (l *RenderLoop) Stop() {
	l.mu.Lock()
	if l.ticker == nil {
		l.mu.Unlock()
		return
	}
	l.stopOnce.Do(func() {
		close(l.doneChan)
		l.ticker.Stop()
		l.ticker = nil
	})
	l.mu.Unlock()

	l.wg.Wait()
	applog.Infof("RenderLoop: stopped")
}
