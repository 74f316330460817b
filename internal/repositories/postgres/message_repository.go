package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chat-realtime/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrConversationNotFound = errors.New("conversation not found")

// MessageRepository is the gorm backed message store of the realtime hub.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db}
}

// VerifyMembership reports whether userID is a member of a live conversation.
func (r *MessageRepository) VerifyMembership(ctx context.Context, userID, conversationID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("conversation_members").
		Joins("JOIN conversations ON conversations.id = conversation_members.conversation_id AND conversations.deleted_at IS NULL").
		Where("conversation_members.conversation_id = ? AND conversation_members.user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to verify membership: %w", err)
	}
	return count > 0, nil
}

// AppendMessage persists a message and returns it with its sender resolved.
func (r *MessageRepository) AppendMessage(ctx context.Context, senderID, conversationID uint, content string, isAISuggestion bool) (*models.MessageResponse, error) {
	msg := models.Message{
		Content:        content,
		SenderID:       senderID,
		ConversationID: conversationID,
		IsAISuggestion: isAISuggestion,
	}

	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	if err := db.Preload("Sender").First(&msg, msg.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load message %d: %w", msg.ID, err)
	}
	return msg.ToResponse(), nil
}

// TouchConversation moves the conversation's last activity to now.
func (r *MessageRepository) TouchConversation(ctx context.Context, conversationID uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to touch conversation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}
