package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a user's balances. Balance is freely withdrawable; Escrow is the
// portion held by the platform pending group payout. Escrow is credited net of
// the contribution fee when a contribution completes, debited gross when a
// payout is disbursed, and validated by the reconciliation job.
type Wallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   float64        `gorm:"type:decimal(14,2);not null;default:0" json:"balance"`
	Escrow    float64        `gorm:"type:decimal(14,2);not null;default:0" json:"escrow"`
	Currency  string         `gorm:"size:3;default:'MWK'" json:"currency"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string { return "wallets" }
