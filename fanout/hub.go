package fanout

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/meetscribe/logger"
)

// DefaultBufferSize is the per-subscriber channel capacity.
const DefaultBufferSize = 256

// Subscription is a registered consumer of a Hub.
// Events published after Subscribe are delivered on C; events published
// before are never replayed.
type Subscription[T any] struct {
	id     string
	events chan T
	closed bool
	mu     sync.Mutex
}

// ID returns the subscription's unique identifier.
func (s *Subscription[T]) ID() string {
	return s.id
}

// C returns the channel on which events are delivered. The channel is closed
// when the subscription is removed from the hub.
func (s *Subscription[T]) C() <-chan T {
	return s.events
}

// send delivers an event without blocking. Returns false if the subscriber's
// buffer is full.
func (s *Subscription[T]) send(event T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- event:
		return true
	default:
		return false
	}
}

// close closes the subscription's channel, discarding undelivered events for
// any receiver that has stopped reading.
func (s *Subscription[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

// Hub broadcasts events of type T to any number of independent subscribers.
//
// Publish never blocks on subscribers: a subscriber whose buffer is full is
// evicted and its channel closed, so a stalled consumer can never apply
// backpressure to the producer.
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscription[T]
	bufferSize  int
	closed      bool
	log         *logger.Logger
}

// Option configures a Hub.
type Option func(*options)

type options struct {
	bufferSize int
	name       string
}

// WithBufferSize sets the per-subscriber channel capacity.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithName tags the hub's log output.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// New creates a new Hub.
func New[T any](opts ...Option) *Hub[T] {
	o := options{bufferSize: DefaultBufferSize, name: "fanout"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Hub[T]{
		subscribers: make(map[string]*Subscription[T]),
		bufferSize:  o.bufferSize,
		log:         logger.Get(o.name),
	}
}

// Subscribe registers a new consumer. The consumer receives only events
// published after this call returns.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{
		id:     uuid.NewString(),
		events: make(chan T, h.bufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.close()
		return sub
	}
	h.subscribers[sub.id] = sub

	h.log.Debug("subscriber registered", map[string]interface{}{
		logger.FieldSubscriberID: sub.id,
		"total_subscribers":      len(h.subscribers),
	})
	return sub
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// for an already-removed subscription.
func (h *Hub[T]) Unsubscribe(sub *Subscription[T]) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	_, ok := h.subscribers[sub.id]
	delete(h.subscribers, sub.id)
	h.mu.Unlock()

	sub.close()
	if ok {
		h.log.Debug("subscriber removed", map[string]interface{}{
			logger.FieldSubscriberID: sub.id,
		})
	}
}

// UnsubscribeID removes the subscription with the given id. Unknown ids are
// ignored.
func (h *Hub[T]) UnsubscribeID(id string) {
	h.mu.RLock()
	sub := h.subscribers[id]
	h.mu.RUnlock()
	h.Unsubscribe(sub)
}

// Publish delivers the event to every current subscriber without blocking.
// Subscribers whose buffers are full are evicted; their pending events are
// discarded with the closed channel.
func (h *Hub[T]) Publish(event T) {
	h.mu.RLock()
	var evicted []*Subscription[T]
	for _, sub := range h.subscribers {
		if !sub.send(event) {
			evicted = append(evicted, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range evicted {
		h.Unsubscribe(sub)
		h.log.Warn("slow subscriber evicted", map[string]interface{}{
			logger.FieldSubscriberID: sub.id,
		})
	}
}

// SubscriberCount returns the number of registered subscribers.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close removes all subscribers and rejects future subscriptions. Safe to
// call multiple times.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*Subscription[T], 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.subscribers = make(map[string]*Subscription[T])
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}
