package notifcenter

import (
	"sync"

	"reelmates_backend/internal/logger"
	"reelmates_backend/internal/models"
	"reelmates_backend/internal/realtime"
)

// Store is the persistence surface the center mutates through. Write
// operations propagate their errors; the center only applies a local change
// after the corresponding write succeeded.
type Store interface {
	FetchNotifications(userID string) ([]models.Notification, error)
	MarkNotificationAsRead(id string) error
	MarkAllNotificationsAsRead(userID string) error
	DeleteNotification(id string) error
	CreateNotification(in CreateInput) (models.Notification, error)
}

// CreateInput is what a caller supplies for a new notification. UserID may
// be empty, in which case the store targets the acting identity.
type CreateInput struct {
	UserID   string
	Type     models.NotificationType
	Title    string
	Message  string
	EntityID *string
}

// Feed is a per-user insert-event source. *realtime.Hub satisfies it.
type Feed interface {
	Subscribe(userID string) *realtime.Subscription
}

// Center owns the in-memory notification list and unread counter for one
// session. The list and counter are mutated together under one lock, so a
// reader never observes them out of sync. It loads existing notifications on
// Init, then keeps itself current from the realtime feed.
type Center struct {
	store   Store
	feed    Feed
	toaster Toaster // optional

	mu            sync.Mutex
	userID        string
	notifications []models.Notification
	unread        int
	initialized   bool
	closed        bool
	sub           *realtime.Subscription
	pumpDone      chan struct{}
}

func New(store Store, feed Feed, toaster Toaster) *Center {
	return &Center{
		store:   store,
		feed:    feed,
		toaster: toaster,
	}
}

// Init resolves the session for userID: subscribes to the realtime feed,
// loads existing notifications, and seeds the counter. Calling Init again
// with a different user closes the previous subscription first, so two live
// subscriptions never overlap. A fetch failure degrades to an empty list;
// the center still becomes initialized.
func (c *Center) Init(userID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.sub != nil {
		// Identity change: release the old feed before opening the new one
		// to avoid duplicate delivery or delivery on the wrong filter.
		c.teardownSubscriptionLocked()
	}

	c.userID = userID
	c.notifications = nil
	c.unread = 0
	c.initialized = false

	// Subscribe before fetching so inserts racing the initial load are not
	// missed; applyInsert dedupes by id.
	sub := c.feed.Subscribe(userID)
	c.sub = sub
	done := make(chan struct{})
	c.pumpDone = done
	c.mu.Unlock()

	go c.pump(sub, done)

	fetched, err := c.store.FetchNotifications(userID)
	if err != nil {
		logger.Warn("initial notification fetch failed, starting empty", "user_id", userID, "error", err)
		fetched = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.sub != sub {
		// Torn down or re-initialized while the fetch was in flight; the
		// result belongs to a dead session.
		return
	}

	for _, n := range fetched {
		if c.indexOfLocked(n.ID) >= 0 {
			continue
		}
		c.notifications = append(c.notifications, n)
		if !n.Read {
			c.unread++
		}
	}
	c.initialized = true
}

// Close tears the session down and releases the subscription. Idempotent.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.teardownSubscriptionLocked()
}

func (c *Center) teardownSubscriptionLocked() {
	if c.sub != nil {
		c.sub.Close()
		c.sub = nil
		c.pumpDone = nil
	}
}

func (c *Center) pump(sub *realtime.Subscription, done chan struct{}) {
	defer close(done)
	for ev := range sub.Events() {
		c.applyInsert(sub, ev)
	}
}

func (c *Center) applyInsert(sub *realtime.Subscription, ev realtime.InsertEvent) {
	n := ev.Notification()

	c.mu.Lock()
	if c.closed || c.sub != sub {
		c.mu.Unlock()
		return
	}
	if c.indexOfLocked(n.ID) >= 0 {
		c.mu.Unlock()
		return
	}

	// Newest first: delivery order is backend order.
	c.notifications = append([]models.Notification{n}, c.notifications...)
	if !n.Read {
		c.unread++
	}
	toaster := c.toaster
	c.mu.Unlock()

	if toaster != nil {
		toaster.Toast(Toast{
			Icon:    IconFor(n.Type),
			Title:   n.Title,
			Message: n.Message,
		})
	}
}

// ---------------- Mutations ----------------

// MarkAsRead flips one notification to read. The backend call happens first;
// local state only changes on success. Marking an already-read item is a
// no-op on both list and counter.
func (c *Center) MarkAsRead(id string) error {
	if err := c.store.MarkNotificationAsRead(id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOfLocked(id)
	if i < 0 || c.notifications[i].Read {
		return nil
	}
	c.notifications[i].Read = true
	c.unread--
	return nil
}

// MarkAllAsRead marks everything read and resets the counter. Idempotent.
func (c *Center) MarkAllAsRead() error {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()

	if err := c.store.MarkAllNotificationsAsRead(userID); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.notifications {
		c.notifications[i].Read = true
	}
	c.unread = 0
	return nil
}

// RemoveNotification deletes one notification. The counter drops only when
// the removed item was unread.
func (c *Center) RemoveNotification(id string) error {
	if err := c.store.DeleteNotification(id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOfLocked(id)
	if i < 0 {
		return nil
	}
	if !c.notifications[i].Read {
		c.unread--
	}
	c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
	return nil
}

// AddNotification creates a notification through the store. It never inserts
// into local state: the realtime insert event is the sole path by which the
// item appears in the list, even when the creator is also the recipient.
func (c *Center) AddNotification(in CreateInput) error {
	_, err := c.store.CreateNotification(in)
	return err
}

// ---------------- Readable state ----------------

// Notifications returns a copy of the list, newest first.
func (c *Center) Notifications() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

func (c *Center) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

func (c *Center) indexOfLocked(id string) int {
	for i := range c.notifications {
		if c.notifications[i].ID == id {
			return i
		}
	}
	return -1
}
