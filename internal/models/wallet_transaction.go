package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletTransaction records credits/debits for wallet history (contributions,
// payouts, reconciliation adjustments).
type WalletTransaction struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Amount    float64        `gorm:"type:decimal(14,2);not null" json:"amount"` // positive = credit, negative = debit
	Type      string         `gorm:"size:30;not null;index" json:"type"`        // CONTRIBUTION, PAYOUT, RECONCILIATION
	Reference string         `gorm:"size:128" json:"reference"`                 // e.g. contribution order_id, payout order_id
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }
