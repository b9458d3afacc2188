package realtime

import (
	"context"
	"encoding/json"
	"strings"

	"reelmates_backend/internal/logger"
	"reelmates_backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "reelmates:notifications:"

// Publisher is what the notification service publishes stored inserts to.
type Publisher interface {
	PublishInsert(n models.Notification) error
}

// Broker bridges the in-process hub over redis pub/sub so that inserts
// performed on one instance reach subscribers connected to another.
type Broker struct {
	rdb *redis.Client
	hub *Hub
}

func NewBroker(rdb *redis.Client, hub *Hub) *Broker {
	return &Broker{rdb: rdb, hub: hub}
}

func channelFor(userID string) string {
	return channelPrefix + userID
}

// PublishInsert pushes the event through redis; it reaches the local hub via
// the Run loop like every other instance's events.
func (b *Broker) PublishInsert(n models.Notification) error {
	payload, err := json.Marshal(EventFromModel(n))
	if err != nil {
		return err
	}
	return b.rdb.Publish(context.Background(), channelFor(n.UserID), payload).Err()
}

// Run consumes the redis feed and republishes into the local hub. It blocks
// until ctx is cancelled; reconnects are handled by go-redis.
func (b *Broker) Run(ctx context.Context) {
	pubsub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			ev, err := DecodeEvent([]byte(msg.Payload))
			if err != nil {
				logger.Warn("failed to decode realtime payload", "channel", msg.Channel, "error", err)
				continue
			}

			// The channel name is authoritative for routing; a payload
			// missing user_id still reaches the right subscriber.
			if ev.UserID == "" {
				ev.UserID = strings.TrimPrefix(msg.Channel, channelPrefix)
			}

			b.hub.Publish(ev)
		}
	}
}
