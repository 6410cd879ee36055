package realtime

import (
	"context"
	"sync"
	"sync/atomic"
)

const DefaultSubscriberBuffer = 64

// Hub is the in-process feed. Publish never blocks: an envelope that does
// not fit a subscriber's buffer is dropped for that subscriber and counted.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*hubSubscription]struct{}
	buffer  int
	closed  bool
	dropped atomic.Int64
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &Hub{
		subs:   make(map[*hubSubscription]struct{}),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe(ctx context.Context, filter Filter) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrFeedClosed
	}

	sub := &hubSubscription{
		hub:    h,
		filter: filter,
		events: make(chan Envelope, h.buffer),
	}
	h.subs[sub] = struct{}{}
	sub.stop = context.AfterFunc(ctx, func() { _ = sub.Close() })

	return sub, nil
}

func (h *Hub) Publish(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrFeedClosed
	}

	for sub := range h.subs {
		if !sub.filter.Matches(env) {
			continue
		}
		select {
		case sub.events <- env:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Dropped reports how many deliveries were skipped because a subscriber was
// too slow.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for sub := range h.subs {
		sub.stop()
		close(sub.events)
		delete(h.subs, sub)
	}
	return nil
}

type hubSubscription struct {
	hub    *Hub
	filter Filter
	events chan Envelope
	stop   func() bool
}

func (s *hubSubscription) Events() <-chan Envelope {
	return s.events
}

func (s *hubSubscription) Close() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if _, ok := s.hub.subs[s]; !ok {
		return nil
	}
	delete(s.hub.subs, s)
	if s.stop != nil {
		s.stop()
	}
	close(s.events)
	return nil
}
