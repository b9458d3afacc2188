package models

// NotificationType determines iconography and the navigation target when a
// notification is clicked.
type NotificationType string

const (
	NotificationTypeMessage     NotificationType = "message"
	NotificationTypeMovie       NotificationType = "movie"
	NotificationTypeRoom        NotificationType = "room"
	NotificationTypeRoomRequest NotificationType = "room_request"
	NotificationTypeSystem      NotificationType = "system"
)

// IsValid reports whether t belongs to the closed type set.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeMessage, NotificationTypeMovie, NotificationTypeRoom,
		NotificationTypeRoomRequest, NotificationTypeSystem:
		return true
	}
	return false
}

type Notification struct {
	BaseModel
	UserID  string           `gorm:"not null;index" json:"user_id"`
	Type    NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `json:"message"`
	Read    bool             `gorm:"default:false" json:"read"`
	// Room or media id used to build the navigation target; nil for purely
	// informational notifications.
	EntityID *string `gorm:"type:uuid" json:"entity_id,omitempty"`
}
