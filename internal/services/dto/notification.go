package dto

import "time"

// ---------------- Requests ----------------

type CreateNotificationRequest struct {
	// Target user; defaults to the acting identity when empty. This is how
	// one user notifies another, e.g. a room admin approving a join request.
	UserID   string  `json:"user_id" validate:"omitempty,uuid"`
	Type     string  `json:"type" validate:"required"`
	Title    string  `json:"title" validate:"required,max=100"`
	Message  string  `json:"message" validate:"omitempty,max=1000"`
	EntityID *string `json:"entity_id" validate:"omitempty,uuid"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	EntityID  *string   `json:"entity_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

// ---------------- Criteria ----------------

type NotificationCriteria struct {
	UnreadOnly bool
	Type       string
	Page       int
	PageSize   int
}
