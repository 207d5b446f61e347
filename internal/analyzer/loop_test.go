// SPDX-License-Identifier: MIT
package analyzer

import (
	"testing"
	"time"

	"analyzer/internal/spectral"
	"analyzer/pkg/utils"
)

func TestTickForwardsFramesToTransport(t *testing.T) {
	left := newBlockSource(2048)
	left.stageSilence(2)
	right := newBlockSource(2048)
	right.stage(utils.GenerateSineWave(2048, testSampleRate, 440))

	producers := []*PathProducer{
		newTestProducer(t, left),
		mustProducer(t, "right", right),
	}
	sink := &utils.CollectingTransport{}
	loop := NewRenderLoop(producers, testBounds, testSampleRate, 33*time.Millisecond, sink)

	loop.Tick()

	if len(sink.Sent) != 2 {
		t.Fatalf("Sent %d frames, want 2", len(sink.Sent))
	}
	frame, ok := sink.Sent[0].(PathFrame)
	if !ok {
		t.Fatalf("Sent payload is %T, want PathFrame", sink.Sent[0])
	}
	if frame.Channel != "left" {
		t.Errorf("Frame channel = %q, want %q", frame.Channel, "left")
	}
	if frame.Bounds != testBounds {
		t.Errorf("Frame bounds = %+v, want %+v", frame.Bounds, testBounds)
	}
	if len(frame.Points) == 0 {
		t.Error("Frame carries no points")
	}
}

func TestTickSkipsProducersWithoutPaths(t *testing.T) {
	empty := newBlockSource(2048) // never staged
	producers := []*PathProducer{newTestProducer(t, empty)}
	sink := &utils.CollectingTransport{}
	loop := NewRenderLoop(producers, testBounds, testSampleRate, 33*time.Millisecond, sink)

	loop.Tick()
	loop.Tick()

	if len(sink.Sent) != 0 {
		t.Errorf("Sent %d frames with no input, want 0", len(sink.Sent))
	}
}

func TestTickWithNilSink(t *testing.T) {
	source := newBlockSource(2048)
	source.stageSilence(1)
	producers := []*PathProducer{newTestProducer(t, source)}
	loop := NewRenderLoop(producers, testBounds, testSampleRate, 33*time.Millisecond, nil)

	loop.Tick() // must not panic
}

func TestStartStopLifecycle(t *testing.T) {
	loop := NewRenderLoop(nil, testBounds, testSampleRate, time.Millisecond, nil)

	loop.Stop() // Stop before Start is a no-op

	loop.Start()
	loop.Start() // second Start while running is a no-op
	loop.Stop()
	loop.Stop() // idempotent

	// The loop restarts cleanly after a full cycle.
	loop.Start()
	loop.Stop()
}

func TestNewRenderLoopDefaultsInterval(t *testing.T) {
	loop := NewRenderLoop(nil, testBounds, testSampleRate, 0, nil)
	if loop.interval <= 0 {
		t.Errorf("Interval not defaulted: %s", loop.interval)
	}
}

func mustProducer(t *testing.T, name string, source *blockSource) *PathProducer {
	t.Helper()
	p, err := NewPathProducer(name, source, testOrder, spectral.BlackmanHarris, testFloorDB, testQueueDepth)
	if err != nil {
		t.Fatalf("NewPathProducer error: %v", err)
	}
	return p
}
