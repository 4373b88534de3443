package random

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultCollectorBuffer is the event queue length of a Collector.
const DefaultCollectorBuffer = 256

// Collector feeds interaction events into a Generator from a background
// goroutine, so hosts can submit events from latency-sensitive callbacks.
type Collector struct {
	gen    *Generator
	events chan Event
	logger logrus.FieldLogger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// NewCollector returns a stopped collector for g. A buffer of zero or less
// uses DefaultCollectorBuffer.
func NewCollector(g *Generator, buffer int, logger logrus.FieldLogger) *Collector {
	if buffer <= 0 {
		buffer = DefaultCollectorBuffer
	}
	if logger == nil {
		logger = g.cfg.Logger
	}
	return &Collector{
		gen:    g,
		events: make(chan Event, buffer),
		logger: logger,
	}
}

// Start launches the collecting goroutine. It runs until Stop is called or
// ctx ends. Starting a running or stopped collector does nothing.
func (c *Collector) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil || c.stopped {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, c.done)
	c.logger.Debug("entropy collection started")
}

func (c *Collector) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			c.gen.AddEvent(ev)
		}
	}
}

// Submit queues ev without blocking. It reports false when the queue is full
// or the collector has stopped.
func (c *Collector) Submit(ev Event) bool {
	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	if stopped {
		return false
	}

	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

// Stop ends collection and waits for the goroutine to exit. Queued events
// that were not yet absorbed are dropped. Stop is idempotent.
func (c *Collector) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.logger.Debug("entropy collection stopped")
}
