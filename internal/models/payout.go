package models

import (
	"time"

	"gorm.io/gorm"
)

// Payout is the pooled round disbursement to the member whose turn it is.
// The fee breakdown is stored denormalized so settlement and display always
// agree with what was actually charged.
type Payout struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"` // recipient
	GroupID       uint           `gorm:"not null;index" json:"group_id"`
	Round         int            `gorm:"not null" json:"round"`
	OrderID       string         `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	GrossAmount   float64        `gorm:"type:decimal(14,2);not null" json:"gross_amount"`
	SafetyFee     float64        `gorm:"type:decimal(14,2);not null;default:0" json:"safety_fee"`
	ServiceFee    float64        `gorm:"type:decimal(14,2);not null;default:0" json:"service_fee"`
	GovernmentFee float64        `gorm:"type:decimal(14,2);not null;default:0" json:"government_fee"`
	NetAmount     float64        `gorm:"type:decimal(14,2);not null" json:"net_amount"`
	PhoneNumber   string         `gorm:"size:20;not null" json:"phone_number"`
	Status        string         `gorm:"size:20;not null;index" json:"status"` // PENDING, COMPLETED, FAILED
	ProviderRef   string         `gorm:"size:128" json:"provider_ref"`
	CreatedAt     time.Time      `json:"created_at"`
	CompletedAt   *time.Time     `json:"completed_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

func (Payout) TableName() string { return "payouts" }
