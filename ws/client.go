package ws

import (
	"github.com/gorilla/websocket"

	"reelmates_backend/internal/logger"
	"reelmates_backend/internal/realtime"
)

// Frame is the wire envelope for events pushed to a connected client.
type Frame struct {
	Event string              `json:"event"`
	Data  realtime.InsertEvent `json:"data"`
}

// Client binds one websocket connection to one feed subscription. The
// subscription is released when either pump exits.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Sub    *realtime.Subscription
}

// readPump discards inbound frames; the notification channel is push-only.
// Its job is to notice the peer going away.
func (c *Client) readPump() {
	defer func() {
		c.Sub.Close()
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()

	for ev := range c.Sub.Events() {
		frame := Frame{Event: "notification_insert", Data: ev}
		if err := c.Conn.WriteJSON(frame); err != nil {
			logger.Debug("websocket write error", "user_id", c.UserID, "error", err)
			c.Sub.Close()
			return
		}
	}
}
