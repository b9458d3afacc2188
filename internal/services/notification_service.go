package services

import (
	"fmt"

	"reelmates_backend/internal/email"
	"reelmates_backend/internal/logger"
	"reelmates_backend/internal/models"
	"reelmates_backend/internal/realtime"
	"reelmates_backend/internal/repositories"
	"reelmates_backend/internal/services/dto"
	"reelmates_backend/pkg/apperrors"
)

type NotificationService interface {
	// Notification operations
	CreateNotification(actorID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	DeleteNotification(userID, notificationID string) error
	DeleteUserNotifications(userID string) error

	// Factory methods for common notification types
	NotifyRoomMessage(recipientID, senderName, roomID string) error
	NotifyMovieSuggestion(recipientID, movieTitle, mediaID string) error
	NotifyRoomInvite(recipientID, roomName, roomID string) error
	NotifyJoinRequestApproved(recipientID, roomName, roomID string) error
	NotifySystem(recipientID, title, message string) error

	// Email
	EmailUnreadDigest(userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	publisher        realtime.Publisher
	emailProvider    email.Provider // nil when email is not configured
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	publisher realtime.Publisher,
	emailProvider email.Provider,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
		emailProvider:    emailProvider,
	}
}

// ---------------- Notification operations ----------------

func (s *notificationService) CreateNotification(actorID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	targetID := req.UserID
	if targetID == "" {
		targetID = actorID
	}

	if _, err := s.userRepo.FindByID(targetID); err != nil {
		return nil, apperrors.NewUserNotFound()
	}

	notificationType := models.NotificationType(req.Type)
	if !notificationType.IsValid() {
		return nil, apperrors.NewInvalidNotificationType(req.Type)
	}

	// Read is always false at creation, regardless of caller input.
	notification := &models.Notification{
		UserID:   targetID,
		Type:     notificationType,
		Title:    req.Title,
		Message:  req.Message,
		EntityID: req.EntityID,
		Read:     false,
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return nil, err
	}

	s.publishInsert(notification)

	return buildNotificationResponse(notification), nil
}

func (s *notificationService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	repoCriteria := repositories.NotificationCriteria{
		UnreadOnly: criteria.UnreadOnly,
		Type:       models.NotificationType(criteria.Type),
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, repoCriteria)
	if err != nil {
		return nil, err
	}

	notificationResponses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		notificationResponses = append(notificationResponses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: notificationResponses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notificationRepo.GetUnreadCount(userID)
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotificationNotFound()
		}
		return err
	}
	if notification.UserID != userID {
		return apperrors.NewNotificationAccessDenied()
	}
	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotificationNotFound()
		}
		return err
	}
	if notification.UserID != userID {
		return apperrors.NewNotificationAccessDenied()
	}
	return s.notificationRepo.DeleteNotification(notificationID)
}

func (s *notificationService) DeleteUserNotifications(userID string) error {
	return s.notificationRepo.DeleteUserNotifications(userID)
}

// ---------------- Factory methods ----------------

func (s *notificationService) NotifyRoomMessage(recipientID, senderName, roomID string) error {
	return s.createAndPublish(&models.Notification{
		UserID:   recipientID,
		Type:     models.NotificationTypeMessage,
		Title:    "New message",
		Message:  fmt.Sprintf("%s sent a message in your room", senderName),
		EntityID: &roomID,
	})
}

func (s *notificationService) NotifyMovieSuggestion(recipientID, movieTitle, mediaID string) error {
	return s.createAndPublish(&models.Notification{
		UserID:   recipientID,
		Type:     models.NotificationTypeMovie,
		Title:    "Movie suggestion",
		Message:  fmt.Sprintf("'%s' was suggested for your watch list", movieTitle),
		EntityID: &mediaID,
	})
}

func (s *notificationService) NotifyRoomInvite(recipientID, roomName, roomID string) error {
	return s.createAndPublish(&models.Notification{
		UserID:   recipientID,
		Type:     models.NotificationTypeRoom,
		Title:    "Room invite",
		Message:  fmt.Sprintf("You were invited to the room '%s'", roomName),
		EntityID: &roomID,
	})
}

func (s *notificationService) NotifyJoinRequestApproved(recipientID, roomName, roomID string) error {
	return s.createAndPublish(&models.Notification{
		UserID:   recipientID,
		Type:     models.NotificationTypeRoomRequest,
		Title:    "Join request approved",
		Message:  fmt.Sprintf("Your request to join '%s' was approved", roomName),
		EntityID: &roomID,
	})
}

func (s *notificationService) NotifySystem(recipientID, title, message string) error {
	return s.createAndPublish(&models.Notification{
		UserID:  recipientID,
		Type:    models.NotificationTypeSystem,
		Title:   title,
		Message: message,
	})
}

// ---------------- Email ----------------

// EmailUnreadDigest mails the user their unread notifications. No-op when no
// email provider is configured.
func (s *notificationService) EmailUnreadDigest(userID string) error {
	if s.emailProvider == nil {
		return apperrors.New(apperrors.CodeInvalidOperation, "notifications", "Email delivery is not configured", 422)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.NewUserNotFound()
	}

	unread, _, err := s.notificationRepo.FindUserNotifications(userID, repositories.NotificationCriteria{
		UnreadOnly: true,
		Page:       1,
		PageSize:   100,
	})
	if err != nil {
		return err
	}
	if len(unread) == 0 {
		return nil
	}

	body := fmt.Sprintf("You have %d unread notifications:\n\n", len(unread))
	for _, n := range unread {
		body += fmt.Sprintf("- [%s] %s: %s\n", n.Type, n.Title, n.Message)
	}

	return s.emailProvider.Send(&email.Email{
		To:      []string{user.Email},
		Subject: "Your unread ReelMates notifications",
		Body:    body,
	})
}

// ---------------- Helpers ----------------

func (s *notificationService) createAndPublish(notification *models.Notification) error {
	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return err
	}
	s.publishInsert(notification)
	return nil
}

// publishInsert feeds the realtime channel. The row is already durable at
// this point, so a publish failure is logged and not surfaced to the writer.
func (s *notificationService) publishInsert(notification *models.Notification) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishInsert(*notification); err != nil {
		logger.Warn("failed to publish notification insert",
			"notification_id", notification.ID,
			"user_id", notification.UserID,
			"error", err,
		)
	}
}

func buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      string(notification.Type),
		Title:     notification.Title,
		Message:   notification.Message,
		Read:      notification.Read,
		EntityID:  notification.EntityID,
		CreatedAt: notification.CreatedAt,
	}
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
