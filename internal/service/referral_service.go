package service

import (
	"log"

	"payfesa/internal/models"
	"payfesa/internal/repository"
)

// ReferralService links new signups to their referrer. Referral activity
// (is_active, contribution_count) is maintained by the contribution flow; the
// trust-score engine reads it when scoring the referrer.
type ReferralService struct {
	referralRepo *repository.ReferralRepository
}

func NewReferralService(referralRepo *repository.ReferralRepository) *ReferralService {
	return &ReferralService{referralRepo: referralRepo}
}

// ProcessReferralCode creates a referral record for a new user who signed up
// with someone's code. Invalid or self-referral codes are silently ignored —
// signup must not fail because of a bad code.
func (s *ReferralService) ProcessReferralCode(referralCode string, newUser *models.User) {
	if referralCode == "" || s.referralRepo == nil {
		return
	}
	rc, err := s.referralRepo.GetByCode(referralCode)
	if err != nil || rc == nil || rc.UserID == newUser.ID {
		return
	}
	if err := s.referralRepo.CreateReferral(&models.Referral{
		ReferrerID:     rc.UserID,
		ReferredUserID: newUser.ID,
	}); err != nil {
		log.Printf("[Referral] failed to create referral: %v", err)
	}
}
