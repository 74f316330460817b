package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"chat-realtime/internal/auth"
	"chat-realtime/internal/websocket"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
)

// OnlineUsers lists users with at least one live connection across instances.
type OnlineUsers interface {
	GetOnlineUsers(ctx context.Context) ([]uint, error)
}

type WSHandler struct {
	hub           *websocket.Hub
	authenticator auth.Authenticator
	upgrader      *gorillaws.Upgrader
	online        OnlineUsers
}

func NewWSHandler(hub *websocket.Hub, authenticator auth.Authenticator, upgrader *gorillaws.Upgrader, online OnlineUsers) *WSHandler {
	return &WSHandler{hub: hub, authenticator: authenticator, upgrader: upgrader, online: online}
}

// HandleWebSocket authenticates the handshake and hands the connection to the hub.
// A bad credential gets a bare 401 and the connection is never upgraded.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	userID, err := h.authenticator.Authenticate(auth.ExtractCredential(c.Request))
	if err != nil {
		slog.Debug("WebSocket handshake rejected", "clientIP", c.ClientIP(), "error", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	websocket.ServeWS(h.hub, h.upgrader, c.Writer, c.Request, userID)
}

// StatsResponse is the hub snapshot plus the tracked online users when
// presence tracking is enabled.
type StatsResponse struct {
	websocket.HubStats
	OnlineUsers []uint `json:"onlineUsers,omitempty"`
}

// Stats returns rooms, connection counts and broadcast metrics.
func (h *WSHandler) Stats(c *gin.Context) {
	res := StatsResponse{HubStats: h.hub.Stats()}
	if h.online != nil {
		users, err := h.online.GetOnlineUsers(c.Request.Context())
		if err != nil {
			slog.Warn("Failed to list online users", "error", err)
		}
		res.OnlineUsers = users
	}
	c.JSON(http.StatusOK, res)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Health answers 200 when every check passes and 503 naming the failing ones.
func Health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		failed := gin.H{}
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
