package notifcenter

import "reelmates_backend/internal/models"

// Toast is the transient alert surfaced when a realtime insert arrives.
type Toast struct {
	Icon    string
	Title   string
	Message string
}

// Toaster receives toast alerts. Implementations decide presentation.
type Toaster interface {
	Toast(t Toast)
}

// IconFor maps a notification type to its toast icon. Unknown and system
// types fall back to the generic bell.
func IconFor(t models.NotificationType) string {
	switch t {
	case models.NotificationTypeMessage:
		return "message-circle"
	case models.NotificationTypeMovie:
		return "film"
	case models.NotificationTypeRoom:
		return "users"
	case models.NotificationTypeRoomRequest:
		return "user-plus"
	default:
		return "bell"
	}
}
