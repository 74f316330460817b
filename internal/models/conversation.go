package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation type constants
const (
	ConversationTypeDirect = "direct"
	ConversationTypeGroup  = "group"
)

// Conversation is a persisted chat between its members
type Conversation struct {
	gorm.Model
	Name string `json:"name"`
	Type string `gorm:"not null;type:varchar(20);default:'group'" json:"type"`
	// LastMessageAt is bumped every time a message is appended
	LastMessageAt *time.Time `gorm:"index" json:"lastMessageAt,omitempty"`

	Members []*User `gorm:"many2many:conversation_members" json:"members,omitempty"`
}
