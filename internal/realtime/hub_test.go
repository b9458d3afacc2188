package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"reelmates_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(userID string) InsertEvent {
	read := false
	return InsertEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      string(models.NotificationTypeMessage),
		Title:     "New message",
		Message:   "hello",
		Read:      &read,
		CreatedAt: time.Now(),
	}
}

func receive(t *testing.T, sub *Subscription) InsertEvent {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription channel closed unexpectedly")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return InsertEvent{}
	}
}

func TestHub_PublishReachesSubscribedUser(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("user-1")
	defer sub.Close()

	ev := testEvent("user-1")
	hub.Publish(ev)

	got := receive(t, sub)
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, "user-1", got.UserID)
}

func TestHub_PublishFiltersByUser(t *testing.T) {
	hub := NewHub()
	mine := hub.Subscribe("user-1")
	theirs := hub.Subscribe("user-2")
	defer mine.Close()
	defer theirs.Close()

	hub.Publish(testEvent("user-2"))

	got := receive(t, theirs)
	assert.Equal(t, "user-2", got.UserID)

	select {
	case ev := <-mine.Events():
		t.Fatalf("user-1 received event for user-2: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_FanOutToMultipleSubscriptions(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("user-1")
	b := hub.Subscribe("user-1")
	defer a.Close()
	defer b.Close()

	ev := testEvent("user-1")
	hub.Publish(ev)

	assert.Equal(t, ev.ID, receive(t, a).ID)
	assert.Equal(t, ev.ID, receive(t, b).ID)
}

func TestHub_PublishPreservesOrder(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("user-1")
	defer sub.Close()

	first := testEvent("user-1")
	second := testEvent("user-1")
	hub.Publish(first)
	hub.Publish(second)

	assert.Equal(t, first.ID, receive(t, sub).ID)
	assert.Equal(t, second.ID, receive(t, sub).ID)
}

func TestHub_CloseRemovesSubscription(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("user-1")
	require.Equal(t, 1, hub.SubscriberCount("user-1"))

	sub.Close()
	assert.Equal(t, 0, hub.SubscriberCount("user-1"))

	_, ok := <-sub.Events()
	assert.False(t, ok, "channel must be closed after Close")

	// Publishing after close must not panic or deliver.
	hub.Publish(testEvent("user-1"))
}

func TestHub_CloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("user-1")

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.SubscriberCount("user-1"))
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("user-1")
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Overfill the buffer without draining; Publish must never block.
		for i := 0; i < defaultBuffer*2; i++ {
			hub.Publish(testEvent("user-1"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestHub_PublishInsert(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("user-1")
	defer sub.Close()

	n := models.Notification{
		UserID:  "user-1",
		Type:    models.NotificationTypeMovie,
		Title:   "Movie suggested",
		Message: "Someone suggested a movie",
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()

	require.NoError(t, hub.PublishInsert(n))

	got := receive(t, sub)
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, string(models.NotificationTypeMovie), got.Type)
	require.NotNil(t, got.Read)
	assert.False(t, *got.Read)
}

func TestInsertEvent_DecodeDefaultsReadToFalse(t *testing.T) {
	payload := []byte(`{"id":"n-1","user_id":"user-1","type":"system","title":"Welcome"}`)

	ev, err := DecodeEvent(payload)
	require.NoError(t, err)
	assert.Nil(t, ev.Read)

	n := ev.Notification()
	assert.False(t, n.Read, "missing read field must decode as unread")
	assert.Equal(t, "n-1", n.ID)
	assert.Equal(t, models.NotificationTypeSystem, n.Type)
}

func TestInsertEvent_DecodeRejectsMalformedPayload(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"id":`))
	assert.Error(t, err)
}

func TestInsertEvent_ModelRoundTrip(t *testing.T) {
	entityID := uuid.NewString()
	n := models.Notification{
		UserID:   "user-1",
		Type:     models.NotificationTypeRoomRequest,
		Title:    "Join request approved",
		Message:  "You are in",
		Read:     true,
		EntityID: &entityID,
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().Truncate(time.Second)

	raw, err := json.Marshal(EventFromModel(n))
	require.NoError(t, err)
	ev, err := DecodeEvent(raw)
	require.NoError(t, err)

	got := ev.Notification()
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, n.UserID, got.UserID)
	assert.Equal(t, n.Type, got.Type)
	assert.Equal(t, n.Title, got.Title)
	assert.True(t, got.Read)
	require.NotNil(t, got.EntityID)
	assert.Equal(t, entityID, *got.EntityID)
}
