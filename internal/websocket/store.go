package websocket

import (
	"context"

	"chat-realtime/internal/models"
)

//go:generate mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks

// MessageStore is everything the hub needs from persistent storage.
type MessageStore interface {
	VerifyMembership(ctx context.Context, userID, conversationID uint) (bool, error)
	AppendMessage(ctx context.Context, senderID, conversationID uint, content string, isAISuggestion bool) (*models.MessageResponse, error)
	TouchConversation(ctx context.Context, conversationID uint) error
}

// PresenceTracker records which users have at least one live connection.
type PresenceTracker interface {
	SetUserOnline(ctx context.Context, userID uint) error
	SetUserOffline(ctx context.Context, userID uint) error
}

// MessageSink receives every message after it has been persisted and broadcast.
type MessageSink interface {
	PublishMessage(ctx context.Context, msg *models.MessageResponse) error
}
