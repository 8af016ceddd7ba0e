package models

import (
	"time"

	"gorm.io/gorm"
)

// Group is a chipereganyu (ROSCA) circle: members contribute every cycle and
// take turns receiving the pooled payout.
type Group struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"size:120;not null" json:"name"`
	Description        string         `gorm:"type:text" json:"description"`
	ContributionAmount float64        `gorm:"type:decimal(14,2);not null" json:"contribution_amount"` // MWK per member per round
	Frequency          string         `gorm:"size:10;not null;default:'MONTHLY'" json:"frequency"`    // WEEKLY | MONTHLY
	CurrentRound       int            `gorm:"not null;default:1" json:"current_round"`
	Status             string         `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"` // ACTIVE, PAUSED, COMPLETED
	CreatedBy          uint           `gorm:"not null;index" json:"created_by"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

func (Group) TableName() string { return "groups" }

// GroupMember links a user to a group with their rotation position.
// Position decides whose turn the round payout is (1-based, payout order).
type GroupMember struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	GroupID   uint           `gorm:"not null;index:idx_group_user,unique" json:"group_id"`
	UserID    uint           `gorm:"not null;index:idx_group_user,unique" json:"user_id"`
	Position  int            `gorm:"not null" json:"position"`
	IsAdmin   bool           `gorm:"default:false" json:"is_admin"`
	JoinedAt  time.Time      `json:"joined_at"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (GroupMember) TableName() string { return "group_members" }
