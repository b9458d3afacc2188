package realtime

import (
	"sync"

	"reelmates_backend/internal/logger"
	"reelmates_backend/internal/models"
)

const defaultBuffer = 16

// Hub is the in-process insert-event feed. Subscriptions are filtered by
// user id; every event is delivered once per live subscription, in publish
// order. Delivery is at-most-once per subscription: a subscriber that cannot
// drain its buffer loses the event rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscription is a cancellable handle on the feed. The owner must call
// Close when done; a closed subscription delivers nothing.
type Subscription struct {
	userID string
	ch     chan InsertEvent
	hub    *Hub
	once   sync.Once
}

// Events is the typed event stream. The channel closes after Close.
func (s *Subscription) Events() <-chan InsertEvent {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

// Subscribe opens a feed scoped to one user id.
func (h *Hub) Subscribe(userID string) *Subscription {
	sub := &Subscription{
		userID: userID,
		ch:     make(chan InsertEvent, defaultBuffer),
		hub:    h,
	}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[sub.userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.userID)
		}
	}
}

// Publish fans the event out to every live subscription for its user.
func (h *Hub) Publish(ev InsertEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[ev.UserID] {
		select {
		case sub.ch <- ev:
		default:
			// Buffer full, subscriber is not draining. Drop the event.
			logger.Warn("realtime event dropped, slow subscriber", "user_id", ev.UserID, "notification_id", ev.ID)
		}
	}
}

// SubscriberCount returns the number of live subscriptions for a user.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// PublishInsert makes the hub usable as the service's insert publisher when
// no cross-process broker is configured.
func (h *Hub) PublishInsert(n models.Notification) error {
	h.Publish(EventFromModel(n))
	return nil
}
