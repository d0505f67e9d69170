package events

import (
	"sync"
	"sync/atomic"

	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// BufferedSink decouples the simulation from a slow sink. Emit never blocks: when the
// buffer is full the event is dropped and counted.
type BufferedSink struct {
	next    simulation.LogSink
	events  chan simulation.LogEvent
	dropped atomic.Int64
	done    chan struct{}
	once    sync.Once
}

var _ simulation.LogSink = (*BufferedSink)(nil)

// NewBufferedSink starts forwarding to next through a buffer of the given size
func NewBufferedSink(next simulation.LogSink, size int) *BufferedSink {
	if size < 1 {
		size = 1
	}
	b := &BufferedSink{
		next:   next,
		events: make(chan simulation.LogEvent, size),
		done:   make(chan struct{}),
	}
	go b.forward()
	return b
}

func (b *BufferedSink) forward() {
	defer close(b.done)
	for event := range b.events {
		b.next.Emit(event)
	}
}

func (b *BufferedSink) Emit(event simulation.LogEvent) {
	select {
	case b.events <- event:
	default:
		b.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded
func (b *BufferedSink) Dropped() int64 {
	return b.dropped.Load()
}

// Close flushes the buffer and waits for the forwarder. Emit must not be called
// after Close.
func (b *BufferedSink) Close() {
	b.once.Do(func() { close(b.events) })
	<-b.done
}
