package notifcenter

import (
	"reelmates_backend/internal/config"
	"reelmates_backend/internal/logger"
	"reelmates_backend/internal/models"
	"reelmates_backend/internal/services"
	"reelmates_backend/internal/services/dto"
)

const fallbackFetchSize = 100

// ServiceStore adapts the notification service to the center's Store
// interface. Reads fail soft: a backend error degrades to an empty result so
// a transient outage never crashes the notification UI. Writes fail loud so
// the caller can surface feedback and keep prior state.
type ServiceStore struct {
	svc       services.NotificationService
	userID    string
	fetchSize int
}

func NewServiceStore(svc services.NotificationService, userID string) *ServiceStore {
	fetchSize := fallbackFetchSize
	if cfg := config.AppConfig; cfg != nil && cfg.Notifications.PageSize > 0 {
		fetchSize = cfg.Notifications.PageSize
	}
	return &ServiceStore{svc: svc, userID: userID, fetchSize: fetchSize}
}

func (s *ServiceStore) FetchNotifications(userID string) ([]models.Notification, error) {
	resp, err := s.svc.GetUserNotifications(userID, dto.NotificationCriteria{Page: 1, PageSize: s.fetchSize})
	if err != nil {
		logger.Warn("notification fetch failed", "user_id", userID, "error", err)
		return nil, nil
	}

	out := make([]models.Notification, 0, len(resp.Notifications))
	for _, r := range resp.Notifications {
		n := models.Notification{
			UserID:   r.UserID,
			Type:     models.NotificationType(r.Type),
			Title:    r.Title,
			Message:  r.Message,
			Read:     r.Read,
			EntityID: r.EntityID,
		}
		n.ID = r.ID
		n.CreatedAt = r.CreatedAt
		out = append(out, n)
	}
	return out, nil
}

func (s *ServiceStore) MarkNotificationAsRead(id string) error {
	return s.svc.MarkAsRead(s.userID, id)
}

func (s *ServiceStore) MarkAllNotificationsAsRead(userID string) error {
	return s.svc.MarkAllAsRead(userID)
}

func (s *ServiceStore) DeleteNotification(id string) error {
	return s.svc.DeleteNotification(s.userID, id)
}

func (s *ServiceStore) CreateNotification(in CreateInput) (models.Notification, error) {
	resp, err := s.svc.CreateNotification(s.userID, &dto.CreateNotificationRequest{
		UserID:   in.UserID,
		Type:     string(in.Type),
		Title:    in.Title,
		Message:  in.Message,
		EntityID: in.EntityID,
	})
	if err != nil {
		return models.Notification{}, err
	}

	n := models.Notification{
		UserID:   resp.UserID,
		Type:     models.NotificationType(resp.Type),
		Title:    resp.Title,
		Message:  resp.Message,
		Read:     resp.Read,
		EntityID: resp.EntityID,
	}
	n.ID = resp.ID
	n.CreatedAt = resp.CreatedAt
	return n, nil
}
