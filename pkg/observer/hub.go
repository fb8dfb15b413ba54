package observer

import "sync"

// Hub fans values published under a topic out to in-process subscribers.
// Callbacks run synchronously on the publisher goroutine and must not block.
type Hub[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]func(T)
}

// NewHub returns an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[string]map[uint64]func(T))}
}

// Subscribe registers cb for topic and returns the func that removes it.
// Calling the returned func more than once is safe.
func (h *Hub[T]) Subscribe(topic string, cb func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[uint64]func(T))
	}
	h.subs[topic][id] = cb

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[topic], id)
			if len(h.subs[topic]) == 0 {
				delete(h.subs, topic)
			}
		})
	}
}

// Publish delivers value to every current subscriber of topic.
func (h *Hub[T]) Publish(topic string, value T) {
	h.mu.RLock()
	callbacks := make([]func(T), 0, len(h.subs[topic]))
	for _, cb := range h.subs[topic] {
		callbacks = append(callbacks, cb)
	}
	h.mu.RUnlock()

	for _, cb := range callbacks {
		cb(value)
	}
}

// Subscribers reports how many callbacks are registered for topic.
func (h *Hub[T]) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}
