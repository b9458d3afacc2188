package realtime

import (
	"encoding/json"
	"time"

	"reelmates_backend/internal/models"
)

// InsertEvent is the wire payload published for every stored notification
// insert. It carries the full new row.
type InsertEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      *bool     `json:"read,omitempty"`
	EntityID  *string   `json:"entity_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventFromModel builds the insert event for a freshly stored notification.
func EventFromModel(n models.Notification) InsertEvent {
	read := n.Read
	return InsertEvent{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      &read,
		EntityID:  n.EntityID,
		CreatedAt: n.CreatedAt,
	}
}

// Notification decodes the event into the client-side shape. A payload with
// the read field absent decodes as unread.
func (e InsertEvent) Notification() models.Notification {
	read := false
	if e.Read != nil {
		read = *e.Read
	}

	n := models.Notification{
		UserID:   e.UserID,
		Type:     models.NotificationType(e.Type),
		Title:    e.Title,
		Message:  e.Message,
		Read:     read,
		EntityID: e.EntityID,
	}
	n.ID = e.ID
	n.CreatedAt = e.CreatedAt
	return n
}

// DecodeEvent parses a raw feed payload.
func DecodeEvent(payload []byte) (InsertEvent, error) {
	var ev InsertEvent
	err := json.Unmarshal(payload, &ev)
	return ev, err
}
