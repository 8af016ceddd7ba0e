package models

import (
	"time"

	"gorm.io/gorm"
)

// Contribution is one member's scheduled payment into a group for a round.
// Immutable once COMPLETED or MISSED. CreatedAt is when the contribution became
// due/was initiated; CompletedAt is when the mobile money payment confirmed.
// The gap between the two feeds the trust-score streak (fast = within 3 hours).
type Contribution struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	GroupID     uint           `gorm:"not null;index" json:"group_id"`
	Round       int            `gorm:"not null" json:"round"`
	Amount      float64        `gorm:"type:decimal(14,2);not null" json:"amount"` // MWK, gross of the contribution fee
	Status      string         `gorm:"size:20;not null;index" json:"status"`      // PENDING, COMPLETED, MISSED
	OrderID     string         `gorm:"size:64;uniqueIndex" json:"order_id"`       // mobile money order reference
	ProviderRef string         `gorm:"size:128" json:"provider_ref"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

func (Contribution) TableName() string { return "contributions" }
