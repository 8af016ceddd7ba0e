package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"payfesa/internal/domain"
	"payfesa/internal/models"
	"payfesa/internal/repository"
	"payfesa/pkg/fees"
	"payfesa/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrContributionFinal = errors.New("contribution already completed or missed")
	ErrNotMember         = errors.New("user is not a member of this group")
)

// ContributionService owns the contribution lifecycle: initiation via mobile
// money, confirmation from the provider webhook, and the missed-contribution
// sweep. Completed and missed contributions are immutable.
type ContributionService struct {
	contributionRepo *repository.ContributionRepository
	groupRepo        *repository.GroupRepository
	walletRepo       *repository.WalletRepository
	referralRepo     *repository.ReferralRepository
	userRepo         *repository.UserRepository
	notifSvc         *NotificationService
	provider         payment.Provider
}

func NewContributionService(
	contributionRepo *repository.ContributionRepository,
	groupRepo *repository.GroupRepository,
	walletRepo *repository.WalletRepository,
	referralRepo *repository.ReferralRepository,
	userRepo *repository.UserRepository,
	notifSvc *NotificationService,
	provider payment.Provider,
) *ContributionService {
	return &ContributionService{
		contributionRepo: contributionRepo,
		groupRepo:        groupRepo,
		walletRepo:       walletRepo,
		referralRepo:     referralRepo,
		userRepo:         userRepo,
		notifSvc:         notifSvc,
		provider:         provider,
	}
}

// Initiate creates a PENDING contribution for the group's current round and
// pushes a mobile money collection request to the member's phone.
func (s *ContributionService) Initiate(ctx context.Context, userID, groupID uint, phoneNumber string) (*models.Contribution, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.GetMember(groupID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	orderID := fmt.Sprintf("ctr-%s", uuid.New().String())
	c := &models.Contribution{
		UserID:  userID,
		GroupID: groupID,
		Round:   group.CurrentRound,
		Amount:  group.ContributionAmount,
		Status:  domain.ContributionStatusPending,
		OrderID: orderID,
	}
	if err := s.contributionRepo.Create(c); err != nil {
		return nil, err
	}
	resp, err := s.provider.Collect(ctx, payment.CollectRequest{
		OrderID:     orderID,
		Amount:      group.ContributionAmount,
		Currency:    domain.Currency,
		PhoneNumber: phoneNumber,
		Description: "Contribution to " + group.Name,
	})
	if err != nil {
		return c, fmt.Errorf("mobile money collect: %w", err)
	}
	c.ProviderRef = resp.Reference
	if err := s.contributionRepo.Update(c); err != nil {
		log.Printf("[Contribution] provider ref save failed for %s: %v", orderID, err)
	}
	return c, nil
}

// Confirm finalizes a contribution once the provider reports payment. Escrow
// is credited net of the contribution fee, the wallet history gets a credit
// entry, and the payer's referral (if any) records the activity.
func (s *ContributionService) Confirm(orderID, providerRef string) (*models.Contribution, error) {
	c, err := s.contributionRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ContributionStatusPending {
		return c, ErrContributionFinal
	}
	now := time.Now()
	c.Status = domain.ContributionStatusCompleted
	c.CompletedAt = &now
	if providerRef != "" {
		c.ProviderRef = providerRef
	}
	if err := s.contributionRepo.Update(c); err != nil {
		return nil, err
	}

	net := fees.ContributionNet(c.Amount)
	if err := s.walletRepo.CreditEscrow(c.UserID, net); err != nil {
		log.Printf("[Contribution] escrow credit failed for %s: %v", orderID, err)
	}
	_ = s.walletRepo.RecordTransaction(c.UserID, net, domain.WalletTxTypeContribution, orderID)

	if ref, err := s.referralRepo.GetByReferredUserID(c.UserID); err == nil {
		if err := s.referralRepo.RecordContribution(ref.ID); err != nil {
			log.Printf("[Contribution] referral update failed for user %d: %v", c.UserID, err)
		}
	}

	if s.notifSvc != nil {
		_ = s.notifSvc.NotifyPaymentConfirmed(c.UserID, c.Amount, orderID)
	}
	return c, nil
}

// Fail marks a PENDING contribution's payment attempt as abandoned. The row
// stays PENDING so the member can retry until the missed sweep claims it.
func (s *ContributionService) Fail(orderID string) {
	log.Printf("[Contribution] payment failed/cancelled for %s", orderID)
}

// MarkMissedReport summarizes one missed-contribution sweep.
type MarkMissedReport struct {
	Marked  int `json:"marked"`
	Skipped int `json:"skipped"`
}

// MarkMissed flips PENDING contributions older than the deadline to MISSED and
// notifies the members. Per-contribution failures do not abort the sweep.
func (s *ContributionService) MarkMissed(deadline time.Duration) (MarkMissedReport, error) {
	var report MarkMissedReport
	stale, err := s.contributionRepo.ListPendingOlderThan(time.Now().Add(-deadline))
	if err != nil {
		return report, err
	}
	for _, c := range stale {
		if err := s.contributionRepo.MarkMissed(c.ID); err != nil {
			log.Printf("[Contribution] mark missed %d: %v", c.ID, err)
			report.Skipped++
			continue
		}
		report.Marked++
		if s.notifSvc != nil {
			groupName := fmt.Sprintf("group %d", c.GroupID)
			if g, err := s.groupRepo.GetByID(c.GroupID); err == nil {
				groupName = g.Name
			}
			_ = s.notifSvc.NotifyContributionMissed(c.UserID, groupName)
		}
	}
	return report, nil
}
