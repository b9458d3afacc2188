package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reelmates_backend/internal/auth"
	"reelmates_backend/internal/config"
	"reelmates_backend/internal/identity"
	"reelmates_backend/internal/services"
	"reelmates_backend/internal/services/dto"
	"reelmates_backend/internal/validator"
	"reelmates_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNotificationService records calls and returns canned results.
type stubNotificationService struct {
	services.NotificationService

	createdFor  string
	createdReq  *dto.CreateNotificationRequest
	createErr   error
	listFor     string
	listCrit    dto.NotificationCriteria
	unreadCount int64
	markReadID  string
	markReadErr error
	markAllFor  string
	deletedID   string
	clearedFor  string
	digestFor   string
}

func (s *stubNotificationService) CreateNotification(actorID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	s.createdFor = actorID
	s.createdReq = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.NotificationResponse{
		ID:        uuid.NewString(),
		UserID:    actorID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Read:      false,
		CreatedAt: time.Now(),
	}, nil
}

func (s *stubNotificationService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	s.listFor = userID
	s.listCrit = criteria
	return &dto.NotificationListResponse{
		Notifications: []*dto.NotificationResponse{},
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
	}, nil
}

func (s *stubNotificationService) GetUnreadCount(userID string) (int64, error) {
	return s.unreadCount, nil
}

func (s *stubNotificationService) MarkAsRead(userID, notificationID string) error {
	s.markReadID = notificationID
	return s.markReadErr
}

func (s *stubNotificationService) MarkAllAsRead(userID string) error {
	s.markAllFor = userID
	return nil
}

func (s *stubNotificationService) DeleteNotification(userID, notificationID string) error {
	s.deletedID = notificationID
	return nil
}

func (s *stubNotificationService) DeleteUserNotifications(userID string) error {
	s.clearedFor = userID
	return nil
}

func (s *stubNotificationService) EmailUnreadDigest(userID string) error {
	s.digestFor = userID
	return nil
}

// ---------------- Fixture ----------------

func setupTestConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	cfg := &config.Config{}
	cfg.JWT.Secret = "handler-test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })
}

func newTestRouter(t *testing.T, svc services.NotificationService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	setupTestConfig(t)

	handler := NewNotificationHandler(
		NewBaseHandler(validator.New()),
		svc,
		identity.NewResolver(""),
	)

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := auth.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ---------------- Tests ----------------

func TestNotificationHandler_RequiresAuth(t *testing.T) {
	router := newTestRouter(t, &stubNotificationService{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotificationHandler_RejectsBadToken(t *testing.T) {
	router := newTestRouter(t, &stubNotificationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotificationHandler_TokenViaQueryParam(t *testing.T) {
	svc := &stubNotificationService{unreadCount: 4}
	router := newTestRouter(t, svc)
	userID := uuid.NewString()

	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count?token="+token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unread_count":4}`, rec.Body.String())
}

func TestNotificationHandler_Create(t *testing.T) {
	svc := &stubNotificationService{}
	router := newTestRouter(t, svc)
	userID := uuid.NewString()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications", userID, gin.H{
		"type":    "system",
		"title":   "Welcome",
		"message": "Glad you are here",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, userID, svc.createdFor)
	require.NotNil(t, svc.createdReq)
	assert.Equal(t, "system", svc.createdReq.Type)

	var resp dto.NotificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Welcome", resp.Title)
	assert.False(t, resp.Read)
}

func TestNotificationHandler_CreateValidation(t *testing.T) {
	svc := &stubNotificationService{}
	router := newTestRouter(t, svc)
	userID := uuid.NewString()

	// Missing required title.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications", userID, gin.H{
		"type": "system",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.createdReq, "service must not be reached on validation failure")
}

func TestNotificationHandler_CreateServiceError(t *testing.T) {
	svc := &stubNotificationService{createErr: apperrors.NewInvalidNotificationType("bogus")}
	router := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications", uuid.NewString(), gin.H{
		"type":  "bogus",
		"title": "x",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestNotificationHandler_ListParsesQuery(t *testing.T) {
	svc := &stubNotificationService{}
	router := newTestRouter(t, svc)
	userID := uuid.NewString()

	rec := doRequest(t, router, http.MethodGet,
		"/api/v1/notifications?unread_only=true&type=movie&page=2&page_size=5", userID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, svc.listFor)
	assert.True(t, svc.listCrit.UnreadOnly)
	assert.Equal(t, "movie", svc.listCrit.Type)
	assert.Equal(t, 2, svc.listCrit.Page)
	assert.Equal(t, 5, svc.listCrit.PageSize)
}

func TestNotificationHandler_ListPaginationDefaults(t *testing.T) {
	svc := &stubNotificationService{}
	router := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/notifications", uuid.NewString(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.listCrit.Page)
	assert.Equal(t, 20, svc.listCrit.PageSize)
}

func TestNotificationHandler_MarkAsRead(t *testing.T) {
	svc := &stubNotificationService{}
	router := newTestRouter(t, svc)
	id := uuid.NewString()

	rec := doRequest(t, router, http.MethodPut, "/api/v1/notifications/"+id+"/read", uuid.NewString(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, svc.markReadID)
}

func TestNotificationHandler_MarkAsReadNotFound(t *testing.T) {
	svc := &stubNotificationService{markReadErr: apperrors.NewNotificationNotFound()}
	router := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodPut,
		"/api/v1/notifications/"+uuid.NewString()+"/read", uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationHandler_MarkAsReadForeign(t *testing.T) {
	svc := &stubNotificationService{markReadErr: apperrors.NewNotificationAccessDenied()}
	router := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodPut,
		"/api/v1/notifications/"+uuid.NewString()+"/read", uuid.NewString(), nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNotificationHandler_MarkAllAsRead(t *testing.T) {
	svc := &stubNotificationService{}
	router := newTestRouter(t, svc)
	userID := uuid.NewString()

	rec := doRequest(t, router, http.MethodPut, "/api/v1/notifications/read-all", userID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, svc.markAllFor)
}

func TestNotificationHandler_Delete(t *testing.T) {
	svc := &stubNotificationService{}
	router := newTestRouter(t, svc)
	id := uuid.NewString()

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/notifications/"+id, uuid.NewString(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, svc.deletedID)
}

func TestNotificationHandler_DeleteAll(t *testing.T) {
	svc := &stubNotificationService{}
	router := newTestRouter(t, svc)
	userID := uuid.NewString()

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/notifications", userID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, svc.clearedFor)
}

func TestNotificationHandler_Digest(t *testing.T) {
	svc := &stubNotificationService{}
	router := newTestRouter(t, svc)
	userID := uuid.NewString()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications/digest", userID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, svc.digestFor)
}

func TestNotificationHandler_FallbackIdentity(t *testing.T) {
	svc := &stubNotificationService{unreadCount: 1}
	gin.SetMode(gin.TestMode)
	setupTestConfig(t)

	fallbackID := uuid.NewString()
	handler := NewNotificationHandler(
		NewBaseHandler(validator.New()),
		svc,
		identity.StaticResolver{UserID: fallbackID},
	)

	// Routes mounted without the auth middleware: the static resolver stands
	// in for a session, matching single-user development deployments.
	router := gin.New()
	router.GET("/unread-count", handler.GetUnreadCount)

	req := httptest.NewRequest(http.MethodGet, "/unread-count", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unread_count":1}`, rec.Body.String())
}
