// Package feed is an in-process change feed. Stores publish typed insert,
// update and delete events to a Hub and subscribers receive them in order.
package feed

import (
	"sync"
)

// EventType names the kind of change carried by an Event.
type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
	Delete EventType = "DELETE"
)

// Event is one change to a record of type T. Insert carries New, Delete carries
// Old, and Update carries New plus Old when the previous row is known.
type Event[T any] struct {
	Type EventType `json:"eventType"`
	New  *T        `json:"new,omitempty"`
	Old  *T        `json:"old,omitempty"`
}

func Inserted[T any](v T) Event[T] { return Event[T]{Type: Insert, New: &v} }

func Updated[T any](old *T, v T) Event[T] { return Event[T]{Type: Update, Old: old, New: &v} }

func Deleted[T any](old T) Event[T] { return Event[T]{Type: Delete, Old: &old} }

// Hub fans events out to subscribers. The zero value is not usable; use NewHub.
type Hub[T any] struct {
	mu     sync.RWMutex
	subs   map[*Subscription]*queue[T]
	closed bool
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*Subscription]*queue[T])}
}

// queue buffers events for one subscriber so Publish never blocks on a slow callback.
type queue[T any] struct {
	mu      sync.Mutex
	pending []Event[T]
	closed  bool
	wake    chan struct{}
}

func (q *queue[T]) push(ev Event[T]) {
	q.mu.Lock()
	if !q.closed {
		q.pending = append(q.pending, ev)
	}
	q.mu.Unlock()
	q.signal()
}

func (q *queue[T]) close() {
	q.mu.Lock()
	q.closed = true
	q.pending = nil
	q.mu.Unlock()
	q.signal()
}

func (q *queue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *queue[T]) run(fn func(Event[T]), done chan struct{}) {
	defer close(done)
	for range q.wake {
		for {
			q.mu.Lock()
			if q.closed {
				q.mu.Unlock()
				return
			}
			if len(q.pending) == 0 {
				q.mu.Unlock()
				break
			}
			ev := q.pending[0]
			q.pending = q.pending[1:]
			q.mu.Unlock()
			fn(ev)
		}
	}
}

// Subscription is a handle for one subscriber. Unsubscribe releases it and may
// be called any number of times.
type Subscription struct {
	once    sync.Once
	release func()
	done    chan struct{}
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

// Done is closed once the subscription has been released and its delivery goroutine has exited.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	if s == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Subscribe registers fn for every event published after the call. fn runs on
// a goroutine owned by the subscription, one event at a time, in publish order.
func (h *Hub[T]) Subscribe(fn func(Event[T])) *Subscription {
	q := &queue[T]{wake: make(chan struct{}, 1)}
	sub := &Subscription{done: make(chan struct{})}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.done)
		sub.once.Do(func() {})
		return sub
	}
	h.subs[sub] = q
	h.mu.Unlock()

	sub.release = func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		q.close()
	}

	go q.run(fn, sub.done)
	return sub
}

// Publish queues ev for every current subscriber and returns without waiting
// for delivery.
func (h *Hub[T]) Publish(ev Event[T]) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, q := range h.subs {
		q.push(ev)
	}
}

// Len returns the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close releases every subscription. Later Publish calls are dropped.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := h.subs
	h.subs = make(map[*Subscription]*queue[T])
	h.mu.Unlock()

	for sub, q := range subs {
		sub.once.Do(func() {})
		q.close()
	}
}
