// Package pubsub fans change notifications out to any number of
// subscribers. Publishing never blocks: a subscriber whose buffer is full
// misses the event.
package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 32

// Broker delivers events of payload type T.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[chan Event[T]]struct{}
	closed     chan struct{}
	bufferSize int
}

// NewBroker creates a Broker with the default per-subscriber buffer.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a Broker whose subscribers buffer size events.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[chan Event[T]]struct{}),
		closed:     make(chan struct{}),
		bufferSize: size,
	}
}

func (b *Broker[T]) isClosed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}

// Subscribe returns a channel of events that is closed when ctx is done or
// the broker is closed. Subscribing to a closed broker yields a closed
// channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed() {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	ch := make(chan Event[T], b.bufferSize)
	b.subs[ch] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.closed:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.isClosed() {
			return
		}
		delete(b.subs, ch)
		close(ch)
	}()

	return ch
}

// Publish sends an event to every subscriber with room in its buffer.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.isClosed() {
		return
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes every subscriber channel. Further publishes are dropped.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed() {
		return
	}
	close(b.closed)
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
