package models

import (
	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// User represents the user entity. The realtime service only reads users to resolve
// sender display fields; registration and credentials live in the REST API.
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	// Avatar is optional and stores a profile picture URL
	Avatar string `json:"avatar,omitempty"`

	Conversations []*Conversation `gorm:"many2many:conversation_members" json:"-"`
}

/** -------------------- DTOs -------------------- */

// SenderResponse carries the display fields of a message author.
type SenderResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}
