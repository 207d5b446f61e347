// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"analyzer/internal/analyzer"
	applog "analyzer/internal/log"
)

/*
Spectrum packet layout (BigEndian):

	| Field           | Type      | Size    |
	|-----------------|-----------|---------|
	| Sequence number | uint32    | 4       |
	| Timestamp       | int64     | 8       |
	| Channel index   | uint8     | 1       |
	| Bin count       | uint16    | 2       |
	| Bins (dB)       | []float32 | count*4 |

One packet per channel per tick. The sequence number is shared across
channels so a consumer can detect drops.
*/

// Publisher periodically snapshots each producer's latest decibel
// spectrum and ships it through a Sender. It runs on its own ticker,
// off the render loop, reading spectra through the producers'
// concurrency-safe snapshot accessors.
type Publisher struct {
	sender    *Sender
	producers []*analyzer.PathProducer
	interval  time.Duration

	sequenceNum uint32
	binBuffer   []float32     // reusable snapshot target
	packet      *bytes.Buffer // reusable packet builder

	mu       sync.Mutex
	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPublisher creates a Publisher. An interval <= 0 defaults to 33ms
// (~30 Hz).
func NewPublisher(interval time.Duration, sender *Sender, producers []*analyzer.PathProducer) (*Publisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("udp publisher: sender cannot be nil")
	}
	if len(producers) == 0 {
		return nil, fmt.Errorf("udp publisher: no producers to publish")
	}
	if interval <= 0 {
		interval = 33 * time.Millisecond
		applog.Warnf("UDP publisher: invalid interval, defaulting to %s", interval)
	}

	maxBins := 0
	for _, p := range producers {
		if bins := p.FFTSize() / 2; bins > maxBins {
			maxBins = bins
		}
	}
	applog.Infof("UDP publisher: initializing (interval %s, %d channels, up to %d bins)",
		interval, len(producers), maxBins)

	return &Publisher{
		sender:    sender,
		producers: producers,
		interval:  interval,
		binBuffer: make([]float32, maxBins),
		packet:    new(bytes.Buffer),
	}, nil
}

// Start launches the publisher goroutine. A second Start while running
// is a no-op.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("UDP publisher: Start called but already running")
		return
	}
	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-ticker.C:
				p.publishTick()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the publisher goroutine and waits for it to exit.
// Idempotent.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

func (p *Publisher) publishTick() {
	p.sequenceNum++
	timestamp := time.Now().UnixNano()

	for channel, producer := range p.producers {
		bins := p.binBuffer[:producer.FFTSize()/2]
		if err := producer.SpectrumInto(bins); err != nil {
			applog.Errorf("UDP publisher: snapshot failed for %s: %v", producer.Name(), err)
			continue
		}

		p.packet.Reset()
		binary.Write(p.packet, binary.BigEndian, p.sequenceNum)
		binary.Write(p.packet, binary.BigEndian, timestamp)
		p.packet.WriteByte(byte(channel))
		binary.Write(p.packet, binary.BigEndian, uint16(len(bins)))
		for _, v := range bins {
			binary.Write(p.packet, binary.BigEndian, math.Float32bits(v))
		}

		if err := p.sender.Send(p.packet.Bytes()); err != nil {
			applog.Errorf("UDP publisher: send failed: %v", err)
		}
	}
}
