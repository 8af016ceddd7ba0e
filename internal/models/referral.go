package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralCode is a unique invite code belonging to a user.
// Each user has at most one referral code.
type ReferralCode struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Code      string         `gorm:"uniqueIndex;size:20;not null" json:"code"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ReferralCode) TableName() string { return "referral_codes" }

// Referral tracks the relationship between a referrer and a referred user.
// A user can only be referred once. IsActive flips on once the referred user
// completes their first contribution; ContributionCount tracks their completed
// contributions and feeds the referrer's trust score (a referral counts toward
// the bonus once active with 5+ contributions).
type Referral struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ReferrerID        uint           `gorm:"not null;index" json:"referrer_id"`
	ReferredUserID    uint           `gorm:"uniqueIndex;not null" json:"referred_user_id"` // each user can only be referred once
	IsActive          bool           `gorm:"default:false" json:"is_active"`
	ContributionCount int            `gorm:"not null;default:0" json:"contribution_count"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Referrer     User `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredUser User `gorm:"foreignKey:ReferredUserID" json:"referred_user,omitempty"`
}

func (Referral) TableName() string { return "referrals" }
