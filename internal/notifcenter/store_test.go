package notifcenter

import (
	"errors"
	"testing"
	"time"

	"reelmates_backend/internal/config"
	"reelmates_backend/internal/models"
	"reelmates_backend/internal/services"
	"reelmates_backend/internal/services/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService implements just the parts of the notification service the
// store adapter touches.
type stubService struct {
	services.NotificationService

	listCrit  dto.NotificationCriteria
	listResp  *dto.NotificationListResponse
	listErr   error
	createReq *dto.CreateNotificationRequest
	markedID  string
}

func (s *stubService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	s.listCrit = criteria
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listResp, nil
}

func (s *stubService) MarkAsRead(userID, notificationID string) error {
	s.markedID = notificationID
	return nil
}

func (s *stubService) CreateNotification(actorID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	s.createReq = req
	return &dto.NotificationResponse{
		ID:        uuid.NewString(),
		UserID:    actorID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		EntityID:  req.EntityID,
		Read:      false,
		CreatedAt: time.Now(),
	}, nil
}

func TestServiceStore_FetchMapsResponses(t *testing.T) {
	entityID := uuid.NewString()
	svc := &stubService{
		listResp: &dto.NotificationListResponse{
			Notifications: []*dto.NotificationResponse{
				{
					ID:       "n-1",
					UserID:   "user-1",
					Type:     string(models.NotificationTypeMovie),
					Title:    "Movie suggestion",
					Read:     true,
					EntityID: &entityID,
				},
			},
			Total: 1,
		},
	}
	store := NewServiceStore(svc, "user-1")

	got, err := store.FetchNotifications("user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "n-1", got[0].ID)
	assert.Equal(t, models.NotificationTypeMovie, got[0].Type)
	assert.True(t, got[0].Read)
	require.NotNil(t, got[0].EntityID)
	assert.Equal(t, entityID, *got[0].EntityID)
}

func TestServiceStore_FetchFailsSoft(t *testing.T) {
	svc := &stubService{listErr: errors.New("backend unreachable")}
	store := NewServiceStore(svc, "user-1")

	got, err := store.FetchNotifications("user-1")
	assert.NoError(t, err, "reads degrade instead of erroring")
	assert.Empty(t, got)
}

func TestServiceStore_FetchSizeFromConfig(t *testing.T) {
	prev := config.AppConfig
	cfg := &config.Config{}
	cfg.Notifications.PageSize = 25
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })

	svc := &stubService{listResp: &dto.NotificationListResponse{}}
	store := NewServiceStore(svc, "user-1")

	_, err := store.FetchNotifications("user-1")
	require.NoError(t, err)
	assert.Equal(t, 25, svc.listCrit.PageSize)
	assert.Equal(t, 1, svc.listCrit.Page)
}

func TestServiceStore_WritesActAsOwner(t *testing.T) {
	svc := &stubService{}
	store := NewServiceStore(svc, "user-1")

	require.NoError(t, store.MarkNotificationAsRead("n-1"))
	assert.Equal(t, "n-1", svc.markedID)

	created, err := store.CreateNotification(CreateInput{
		Type:    models.NotificationTypeSystem,
		Title:   "Maintenance",
		Message: "tonight",
	})
	require.NoError(t, err)
	require.NotNil(t, svc.createReq)
	assert.Equal(t, "system", svc.createReq.Type)
	assert.Equal(t, "user-1", created.UserID)
	assert.False(t, created.Read)
}
