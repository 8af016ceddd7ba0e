package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatMessage is one message in a group's chat. Sending one bumps the sender's
// total_messages_sent counter on the user row.
type ChatMessage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	GroupID   uint           `gorm:"not null;index" json:"group_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
