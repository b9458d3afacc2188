package ws

import (
	"net/http"

	"reelmates_backend/internal/logger"
	"reelmates_backend/internal/middleware"
	"reelmates_backend/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to the web origin before exposing publicly
	},
}

// Handler upgrades authenticated connections and streams the user's
// notification insert events.
type Handler struct {
	hub *realtime.Hub
}

func NewHandler(hub *realtime.Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
		Sub:    h.hub.Subscribe(userID),
	}

	logger.Info("websocket client connected", "user_id", userID)

	go client.readPump()
	go client.writePump()
}
