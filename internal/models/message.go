package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// Message represents a persisted chat message
type Message struct {
	gorm.Model

	Content        string `gorm:"type:text;not null" json:"content"`
	SenderID       uint   `gorm:"not null;index" json:"senderId"`
	ConversationID uint   `gorm:"not null;index" json:"conversationId"`
	IsAISuggestion bool   `gorm:"not null;default:false" json:"isAISuggestion"`

	Sender       User         `gorm:"foreignKey:SenderID" json:"-"`
	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
}

/** -------------------- DTOs -------------------- */

// MessageResponse is the wire rendering of a persisted message
type MessageResponse struct {
	ID             uint           `json:"id"`
	Content        string         `json:"content"`
	ConversationID uint           `json:"conversationId"`
	IsAISuggestion bool           `json:"isAISuggestion"`
	CreatedAt      time.Time      `json:"createdAt"`
	Sender         SenderResponse `json:"sender"`
}

// ToResponse renders the message with its preloaded sender.
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:             m.ID,
		Content:        m.Content,
		ConversationID: m.ConversationID,
		IsAISuggestion: m.IsAISuggestion,
		CreatedAt:      m.CreatedAt,
		Sender: SenderResponse{
			ID:       m.Sender.ID,
			Username: m.Sender.Username,
			Avatar:   m.Sender.Avatar,
		},
	}
}
