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
)

var (
	ErrRoundAlreadyPaid = errors.New("payout already exists for this round")
	ErrNoRecipient      = errors.New("no rotation recipient for this round")
	ErrMissingPhone     = errors.New("recipient has no mobile money number on file")
)

// PayoutService disburses the pooled round payout to the member whose turn it
// is: splits fees with pkg/fees, debits escrow, and sends the net amount to
// the recipient's mobile money account.
type PayoutService struct {
	payoutRepo *repository.PayoutRepository
	groupRepo  *repository.GroupRepository
	walletRepo *repository.WalletRepository
	userRepo   *repository.UserRepository
	notifSvc   *NotificationService
	provider   payment.Provider
}

func NewPayoutService(
	payoutRepo *repository.PayoutRepository,
	groupRepo *repository.GroupRepository,
	walletRepo *repository.WalletRepository,
	userRepo *repository.UserRepository,
	notifSvc *NotificationService,
	provider payment.Provider,
) *PayoutService {
	return &PayoutService{
		payoutRepo: payoutRepo,
		groupRepo:  groupRepo,
		walletRepo: walletRepo,
		userRepo:   userRepo,
		notifSvc:   notifSvc,
		provider:   provider,
	}
}

// DisburseRound pays out the current round of a group. Gross is the group pot
// (contribution amount × members). The escrow debit is the recipient's share
// released; the provider transfer is the net after fees.
func (s *PayoutService) DisburseRound(ctx context.Context, groupID uint) (*models.Payout, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	exists, err := s.payoutRepo.ExistsForRound(groupID, group.CurrentRound)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRoundAlreadyPaid
	}
	member, err := s.groupRepo.RecipientForRound(groupID, group.CurrentRound)
	if err != nil {
		return nil, ErrNoRecipient
	}
	recipient, err := s.userRepo.GetByID(member.UserID)
	if err != nil {
		return nil, err
	}
	if recipient.PhoneNumber == "" {
		return nil, ErrMissingPhone
	}
	members, err := s.groupRepo.CountMembers(groupID)
	if err != nil {
		return nil, err
	}
	gross := group.ContributionAmount * float64(members)
	breakdown, err := fees.CalculatePayoutFees(gross)
	if err != nil {
		return nil, err
	}

	orderID := fmt.Sprintf("pay-%s", uuid.New().String())
	p := &models.Payout{
		UserID:        recipient.ID,
		GroupID:       groupID,
		Round:         group.CurrentRound,
		OrderID:       orderID,
		GrossAmount:   breakdown.GrossAmount,
		SafetyFee:     breakdown.PayoutSafetyFee,
		ServiceFee:    breakdown.ServiceFee,
		GovernmentFee: breakdown.GovernmentFee,
		NetAmount:     breakdown.NetAmount,
		PhoneNumber:   recipient.PhoneNumber,
		Status:        domain.PayoutStatusPending,
	}
	if err := s.payoutRepo.Create(p); err != nil {
		return nil, err
	}

	resp, err := s.provider.Disburse(ctx, payment.DisburseRequest{
		OrderID:     orderID,
		Amount:      breakdown.NetAmount,
		Currency:    domain.Currency,
		PhoneNumber: recipient.PhoneNumber,
		Description: "Round payout from " + group.Name,
	})
	if err != nil {
		p.Status = domain.PayoutStatusFailed
		_ = s.payoutRepo.Update(p)
		return nil, fmt.Errorf("mobile money disburse: %w", err)
	}
	p.ProviderRef = resp.Reference
	if err := s.payoutRepo.Update(p); err != nil {
		log.Printf("[Payout] provider ref save failed for %s: %v", orderID, err)
	}
	return p, nil
}

// Complete finalizes a payout once the provider confirms delivery: debits the
// recipient's escrow, records the wallet debit, advances the round and sends
// the payout notification.
func (s *PayoutService) Complete(orderID, providerRef string) (*models.Payout, error) {
	p, err := s.payoutRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if p.Status == domain.PayoutStatusCompleted {
		return p, nil
	}
	now := time.Now()
	p.Status = domain.PayoutStatusCompleted
	p.CompletedAt = &now
	if providerRef != "" {
		p.ProviderRef = providerRef
	}
	if err := s.payoutRepo.Update(p); err != nil {
		return nil, err
	}

	if err := s.walletRepo.DebitEscrow(p.UserID, p.GrossAmount); err != nil {
		log.Printf("[Payout] escrow debit failed for %s: %v", orderID, err)
	}
	_ = s.walletRepo.RecordTransaction(p.UserID, -p.GrossAmount, domain.WalletTxTypePayout, orderID)

	if err := s.groupRepo.AdvanceRound(p.GroupID); err != nil {
		log.Printf("[Payout] round advance failed for group %d: %v", p.GroupID, err)
	}
	if s.notifSvc != nil {
		_ = s.notifSvc.NotifyPayoutSent(p.UserID, p.NetAmount, orderID)
	}
	return p, nil
}

// MarkFailed records a provider-side disbursement failure.
func (s *PayoutService) MarkFailed(orderID string) {
	p, err := s.payoutRepo.GetByOrderID(orderID)
	if err != nil {
		return
	}
	if p.Status != domain.PayoutStatusPending {
		return
	}
	p.Status = domain.PayoutStatusFailed
	if err := s.payoutRepo.Update(p); err != nil {
		log.Printf("[Payout] mark failed %s: %v", orderID, err)
	}
}
