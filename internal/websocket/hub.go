package websocket

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"chat-realtime/internal/models"
	"chat-realtime/pkg/response"

	"github.com/samber/lo"
)

var ErrHubStopped = errors.New("hub stopped")

// Hub is the presence and fanout engine. It owns the live clients and drives
// the room registry from the inbound events of every connection.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Client lookup by user ID
	userClients map[uint]map[*Client]bool

	registry *Registry
	store    MessageStore
	presence PresenceTracker
	sink     MessageSink
	metrics  *ConnectionMetrics
	settings Settings

	// Context for graceful shutdown
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool

	// Mutex for thread safety
	mu sync.RWMutex

	// Serializes presence tracker writes so the last write matches the live state
	presenceMu sync.Mutex

	log *slog.Logger
}

type HubOption func(*Hub)

func WithPresence(p PresenceTracker) HubOption {
	return func(h *Hub) { h.presence = p }
}

func WithMessageSink(s MessageSink) HubOption {
	return func(h *Hub) { h.sink = s }
}

func WithLogger(l *slog.Logger) HubOption {
	return func(h *Hub) { h.log = l }
}

func WithMetrics(m *ConnectionMetrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

func WithSettings(s Settings) HubOption {
	return func(h *Hub) { h.settings = s }
}

func NewHub(registry *Registry, store MessageStore, opts ...HubOption) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	hub := &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[uint]map[*Client]bool),
		registry:    registry,
		store:       store,
		settings:    DefaultSettings(),
		ctx:         ctx,
		cancel:      cancel,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(hub)
	}
	if hub.metrics == nil {
		hub.metrics = NewConnectionMetrics(100)
	}

	return hub
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

func (h *Hub) Metrics() *ConnectionMetrics {
	return h.metrics
}

// Register adds an authenticated client. The first connection of a user marks
// the user online.
func (h *Hub) Register(client *Client) error {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return ErrHubStopped
	}

	h.clients[client] = true

	// Add to user clients map
	if h.userClients[client.userID] == nil {
		h.userClients[client.userID] = make(map[*Client]bool)
	}
	h.userClients[client.userID][client] = true
	first := len(h.userClients[client.userID]) == 1
	h.mu.Unlock()

	h.log.Info("Client registered", "clientID", client.id, "userID", client.userID)

	if first {
		h.syncPresence(client.userID)
	}
	return nil
}

// Unregister runs the disconnect transition. It is safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if !h.clients[client] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)

	last := false
	if userClients, ok := h.userClients[client.userID]; ok {
		delete(userClients, client)
		if len(userClients) == 0 {
			delete(h.userClients, client.userID)
			last = true
		}
	}
	h.mu.Unlock()

	client.Close()

	if conversationID, ok := h.registry.LeaveClient(client.userID, client); ok {
		h.broadcast(conversationID, NewPresenceEvent(conversationID, client.userID, false), client.userID)
	}

	if last {
		h.syncPresence(client.userID)
	}

	h.log.Info("Client unregistered", "clientID", client.id, "userID", client.userID)
}

// syncPresence writes the user's current online state to the tracker. The
// state is read under presenceMu, so a write racing a reconnect is always
// followed by one that reflects it.
func (h *Hub) syncPresence(userID uint) {
	if h.presence == nil {
		return
	}

	h.presenceMu.Lock()
	defer h.presenceMu.Unlock()

	h.mu.RLock()
	online := len(h.userClients[userID]) > 0
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), h.settings.WriteWait)
	defer cancel()

	if online {
		if err := h.presence.SetUserOnline(ctx, userID); err != nil {
			h.log.Error("Failed to set user online", "userID", userID, "error", err)
		}
		return
	}
	if err := h.presence.SetUserOffline(ctx, userID); err != nil {
		h.log.Error("Failed to set user offline", "userID", userID, "error", err)
	}
}

// HandleFrame decodes one inbound text frame and applies it. Frames that do not
// decode to a known event are ignored.
func (h *Hub) HandleFrame(client *Client, data []byte) {
	evt, err := DecodeInbound(data)
	if err != nil {
		h.log.Debug("Ignoring inbound frame", "clientID", client.id, "userID", client.userID, "error", err)
		return
	}
	h.HandleEvent(client, evt)
}

func (h *Hub) HandleEvent(client *Client, evt InboundEvent) {
	switch e := evt.(type) {
	case JoinEvent:
		h.handleJoin(client, e)
	case SendMessageEvent:
		h.handleMessage(client, e)
	case TypingEvent:
		h.handleTyping(client, e)
	case SuggestionEvent:
		h.handleSuggestion(client, e)
	default:
		h.log.Debug("Ignoring unhandled event", "clientID", client.id, "type", evt.Type())
	}
}

func (h *Hub) handleJoin(client *Client, e JoinEvent) {
	isMember, err := h.store.VerifyMembership(client.ctx, client.userID, e.ConversationID)
	if err != nil {
		h.log.Error("Failed to verify membership",
			"clientID", client.id, "userID", client.userID, "conversationID", e.ConversationID, "error", err)
		return
	}
	if !isMember {
		h.log.Warn("Join rejected, not a member",
			"clientID", client.id, "userID", client.userID, "conversationID", e.ConversationID)
		client.Close()
		return
	}

	previous, moved := h.registry.Join(e.ConversationID, client.userID, client)
	if moved {
		h.broadcast(previous, NewPresenceEvent(previous, client.userID, false), client.userID)
	}

	if err := client.SendEvent(NewMembersEvent(e.ConversationID, h.registry.MembersOf(e.ConversationID))); err != nil {
		h.log.Debug("Failed to send members snapshot", "clientID", client.id, "error", err)
	}
	h.broadcast(e.ConversationID, NewPresenceEvent(e.ConversationID, client.userID, true), client.userID)

	h.log.Debug("Client joined conversation", "clientID", client.id, "userID", client.userID, "conversationID", e.ConversationID)
}

func (h *Hub) handleMessage(client *Client, e SendMessageEvent) {
	if !h.inRoom(client, e.ConversationID) {
		h.log.Debug("Dropping message outside joined conversation",
			"clientID", client.id, "userID", client.userID, "conversationID", e.ConversationID)
		return
	}

	msg, err := h.store.AppendMessage(client.ctx, client.userID, e.ConversationID, e.Content, e.IsAISuggestion)
	if err != nil {
		h.log.Error("Failed to persist message",
			"clientID", client.id, "userID", client.userID, "conversationID", e.ConversationID, "error", err)
		// Only the sender learns about the failure; the room sees nothing
		if sendErr := client.SendEvent(NewErrorEvent(e.ConversationID, response.ErrCodeMessageNotPersisted)); sendErr != nil {
			h.log.Debug("Failed to send error event", "clientID", client.id, "error", sendErr)
		}
		return
	}

	if err := h.store.TouchConversation(client.ctx, e.ConversationID); err != nil {
		h.log.Warn("Failed to update conversation activity", "conversationID", e.ConversationID, "error", err)
	}

	h.broadcast(e.ConversationID, NewMessageEvent(msg), 0)
	h.publish(client, msg)
}

func (h *Hub) publish(client *Client, msg *models.MessageResponse) {
	if h.sink == nil {
		return
	}
	if err := h.sink.PublishMessage(client.ctx, msg); err != nil {
		h.log.Error("Failed to publish message event", "messageID", msg.ID, "conversationID", msg.ConversationID, "error", err)
	}
}

func (h *Hub) handleTyping(client *Client, e TypingEvent) {
	if !h.inRoom(client, e.ConversationID) {
		return
	}
	h.broadcast(e.ConversationID, NewTypingEvent(e.ConversationID, client.userID, e.IsTyping), client.userID)
}

// handleSuggestion echoes to every connection of the sending user and nobody else.
func (h *Hub) handleSuggestion(client *Client, e SuggestionEvent) {
	data, err := NewSuggestionEvent(e.ConversationID, e.Suggestion).Encode()
	if err != nil {
		h.log.Error("Failed to encode suggestion", "clientID", client.id, "error", err)
		return
	}
	for _, c := range h.clientsOf(client.userID) {
		if err := c.Send(data); err != nil {
			h.log.Debug("Failed to deliver suggestion", "clientID", c.id, "error", err)
		}
	}
}

func (h *Hub) inRoom(client *Client, conversationID uint) bool {
	current, ok := h.registry.RoomOf(client.userID)
	return ok && current == conversationID
}

func (h *Hub) broadcast(conversationID uint, evt *OutboundEvent, excludeUserID uint) {
	start := time.Now()
	res, err := h.registry.Broadcast(conversationID, evt, excludeUserID)
	if err != nil {
		h.log.Error("Broadcast failed", "conversationID", conversationID, "type", evt.Type, "error", err)
		return
	}
	h.metrics.RecordBroadcastMetric(evt.Type, conversationID, time.Since(start), res)
}

func (h *Hub) clientsOf(userID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.userClients[userID])
}

// HubStats is the snapshot served by the stats endpoint.
type HubStats struct {
	ConnectedClients int            `json:"connectedClients"`
	ConnectedUsers   int            `json:"connectedUsers"`
	Rooms            map[uint]int   `json:"rooms"`
	Broadcasts       MetricsSummary `json:"broadcasts"`
}

func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	clients, users := len(h.clients), len(h.userClients)
	h.mu.RUnlock()

	return HubStats{
		ConnectedClients: clients,
		ConnectedUsers:   users,
		Rooms:            h.registry.Rooms(),
		Broadcasts:       h.metrics.Summary(),
	}
}

// Stop refuses new clients and closes every live connection with a going away
// frame. Disconnect handling still runs for each of them.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	clients := lo.Keys(h.clients)
	h.mu.Unlock()

	h.log.Info("WebSocket hub shutting down", "clients", len(clients))
	for _, c := range clients {
		c.closeGoingAway()
	}
	h.cancel()
}
