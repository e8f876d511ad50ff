// Package watch implements the live-subscription channel used by the
// console: publishers push full authoritative snapshots, subscribers
// replace their view with whatever arrives. Slow subscribers coalesce;
// they always see the latest snapshot, not every intermediate one.
package watch

import "sync"

// Subscription is a cancellable stream of snapshots. It is infinite and
// not restartable: after Close no further values are delivered.
type Subscription[S any] struct {
	hub  *Hub[S]
	ch   chan S
	once sync.Once
}

// Updates exposes the snapshot channel. The channel is closed by Close.
func (s *Subscription[S]) Updates() <-chan S { return s.ch }

// Close unregisters the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription[S]) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

type Hub[S any] struct {
	mu      sync.Mutex
	subs    map[*Subscription[S]]struct{}
	last    S
	hasLast bool
}

func NewHub[S any]() *Hub[S] {
	return &Hub[S]{subs: make(map[*Subscription[S]]struct{})}
}

// Subscribe registers a new subscriber. If a snapshot was already
// published, it is delivered immediately so the consumer starts from the
// current authoritative state.
func (h *Hub[S]) Subscribe() *Subscription[S] {
	sub := &Subscription[S]{hub: h, ch: make(chan S, 1)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	if h.hasLast {
		sub.ch <- h.last
	}
	h.mu.Unlock()

	return sub
}

// Publish fans the snapshot out to every subscriber. A subscriber whose
// buffer is full has its stale snapshot replaced, never blocking the
// publisher.
func (h *Hub[S]) Publish(snapshot S) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = snapshot
	h.hasLast = true
	for sub := range h.subs {
		select {
		case sub.ch <- snapshot:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snapshot:
			default:
			}
		}
	}
}

// SubscriberCount reports active subscriptions.
func (h *Hub[S]) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub[S]) remove(sub *Subscription[S]) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}
