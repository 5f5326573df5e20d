// Package events provides the in-process publish/subscribe channels that carry
// storage changes and profile updates between components.
package events

import (
	"context"
	"sync"
)

const defaultBufferSize = 16

// Subscription receives messages published on a Hub.
type Subscription[T any] struct {
	ch   chan T
	quit chan struct{}
	hub  *Hub[T]
	once sync.Once
}

// C returns the receive channel. It is closed when the subscription ends.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Unsubscribe ends the subscription. Safe to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.hub.remove(s)
}

// close must be called with the hub lock held, or before registration
func (s *Subscription[T]) close() {
	s.once.Do(func() {
		close(s.quit)
		close(s.ch)
	})
}

// Hub fans messages out to every active subscriber.
// Publish never blocks: a subscriber whose buffer is full misses the message.
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers map[*Subscription[T]]struct{}
	bufferSize  int
	closed      bool
	wg          sync.WaitGroup
}

// NewHub creates a hub whose subscribers buffer up to bufferSize messages
func NewHub[T any](bufferSize int) *Hub[T] {
	if bufferSize < 1 {
		bufferSize = defaultBufferSize
	}
	return &Hub[T]{
		subscribers: make(map[*Subscription[T]]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new subscriber. The subscription is removed when ctx
// is cancelled. Subscribing to a closed hub returns an already-closed subscription.
func (h *Hub[T]) Subscribe(ctx context.Context) *Subscription[T] {
	sub := &Subscription[T]{
		ch:   make(chan T, h.bufferSize),
		quit: make(chan struct{}),
		hub:  h,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return sub
	}
	h.subscribers[sub] = struct{}{}
	h.wg.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.wg.Done()
		select {
		case <-ctx.Done():
			h.remove(sub)
		case <-sub.quit:
		}
	}()

	return sub
}

// Publish delivers msg to every subscriber with buffer room and returns how
// many received it.
func (h *Hub[T]) Publish(msg T) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return 0
	}

	delivered := 0
	for sub := range h.subscribers {
		select {
		case sub.ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

// Len returns the number of active subscribers
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close ends every subscription. Publish becomes a no-op afterwards.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for sub := range h.subscribers {
		sub.close()
	}
	clear(h.subscribers)
	h.mu.Unlock()

	h.wg.Wait()
}

func (h *Hub[T]) remove(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subscribers, sub)
	sub.close()
}
