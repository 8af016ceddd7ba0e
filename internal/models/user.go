package models

import (
	"time"

	"payfesa/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Username           string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email              string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PhoneNumber        string         `gorm:"size:20;index" json:"phone_number"` // mobile money number, e.g. 265991234567
	PasswordHash       string         `gorm:"size:255" json:"-"`
	Role               string         `gorm:"size:20;not null;index" json:"role"` // MEMBER | ADMIN
	GoogleID           *string        `gorm:"uniqueIndex;size:255" json:"-"`      // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL          string         `gorm:"size:512" json:"avatar_url"`
	KYCVerified        bool           `gorm:"default:false" json:"kyc_verified"`
	KYCDocumentURL     string         `gorm:"size:512" json:"-"`
	TotalMessagesSent  int            `gorm:"not null;default:0" json:"total_messages_sent"`
	TrustScore         int            `gorm:"not null;default:50" json:"trust_score"` // [0,100], overwritten by the trust-score job
	EliteStatus        bool           `gorm:"default:false" json:"elite_status"`
	ContributionStreak int            `gorm:"not null;default:0" json:"contribution_streak"`
	FCMToken           string         `gorm:"size:512" json:"-"` // For push notifications
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Wallet *Wallet `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// AccountAgeDays returns whole days since account creation.
func (u *User) AccountAgeDays(t time.Time) int {
	return int(t.Sub(u.CreatedAt).Hours() / 24)
}
