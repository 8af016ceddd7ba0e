package service

import (
	"encoding/json"
	"log"
	"math"

	"payfesa/internal/domain"
	"payfesa/internal/models"
	"payfesa/pkg/fees"
)

const (
	// SignificantDiscrepancy is the absolute escrow mismatch (MWK) above which
	// a discrepancy is recorded for operator review.
	SignificantDiscrepancy = 100.0
	// AutoCorrectMaxRatio caps how large a discrepancy may be, relative to the
	// expected escrow, before auto-correction is withheld for manual review.
	// The comparison is strict: a discrepancy at exactly 10% is not corrected.
	AutoCorrectMaxRatio = 0.10

	sampleDiscrepancyCap = 10
)

// ReconcileResult compares a user's recomputed escrow against the persisted one.
type ReconcileResult struct {
	ExpectedEscrow float64 `json:"expected_escrow"`
	ActualEscrow   float64 `json:"actual_escrow"`
	Discrepancy    float64 `json:"discrepancy"` // absolute
	Delta          float64 `json:"delta"`       // signed: expected - actual
	Significant    bool    `json:"significant"`
	AutoCorrect    bool    `json:"auto_correct"`
}

// Reconcile recomputes the expected escrow from transaction history: each
// completed contribution credits its net-of-fee amount, each completed payout
// debits its gross. Auto-correction is offered only when the expected balance
// is positive and the mismatch is under 10% of it; anything larger or
// sign-ambiguous is left for manual review.
func Reconcile(actualEscrow float64, contributions []models.Contribution, payouts []models.Payout) ReconcileResult {
	var totalContributed float64
	for _, c := range contributions {
		totalContributed += fees.ContributionNet(c.Amount)
	}
	var totalPayouts float64
	for _, p := range payouts {
		totalPayouts += p.GrossAmount
	}
	expected := totalContributed - totalPayouts
	delta := expected - actualEscrow
	discrepancy := math.Abs(delta)
	return ReconcileResult{
		ExpectedEscrow: expected,
		ActualEscrow:   actualEscrow,
		Discrepancy:    discrepancy,
		Delta:          delta,
		Significant:    discrepancy > SignificantDiscrepancy,
		AutoCorrect:    discrepancy > 0 && expected > 0 && discrepancy/expected < AutoCorrectMaxRatio,
	}
}

// DiscrepancyRecord is one flagged user in the reconciliation report.
type DiscrepancyRecord struct {
	UserID         uint    `json:"user_id"`
	ExpectedEscrow float64 `json:"expected_escrow"`
	ActualEscrow   float64 `json:"actual_escrow"`
	Difference     float64 `json:"difference"`
	Corrected      bool    `json:"corrected"`
}

// ReconcileReport summarizes one batch run for operators.
type ReconcileReport struct {
	UsersProcessed      int                 `json:"users_processed"`
	UsersSkipped        int                 `json:"users_skipped"`
	DiscrepanciesFound  int                 `json:"discrepancies_found"`
	CorrectionsApplied  int                 `json:"corrections_applied"`
	SampleDiscrepancies []DiscrepancyRecord `json:"sample_discrepancies"`
}

// ReconcileWalletStore is the slice of wallet persistence reconciliation needs.
type ReconcileWalletStore interface {
	GetOrCreate(userID uint) (*models.Wallet, error)
	AdjustEscrow(userID uint, delta float64) error
	RecordTransaction(userID uint, amount float64, txType, reference string) error
}

// CompletedContributionSource supplies a user's completed contributions.
type CompletedContributionSource interface {
	ListCompletedByUser(userID uint) ([]models.Contribution, error)
}

// CompletedPayoutSource supplies a user's completed payouts.
type CompletedPayoutSource interface {
	ListCompletedByUser(userID uint) ([]models.Payout, error)
}

// UserLister enumerates users for the batch.
type UserLister interface {
	ListAll() ([]models.User, error)
}

// AuditSink records discrepancies for the operator trail.
type AuditSink interface {
	Create(a *models.AuditLog) error
}

// ReconcileService validates every user's escrow balance as a batch job.
type ReconcileService struct {
	users         UserLister
	wallets       ReconcileWalletStore
	contributions CompletedContributionSource
	payouts       CompletedPayoutSource
	audit         AuditSink
}

func NewReconcileService(users UserLister, wallets ReconcileWalletStore, contributions CompletedContributionSource, payouts CompletedPayoutSource, audit AuditSink) *ReconcileService {
	return &ReconcileService{users: users, wallets: wallets, contributions: contributions, payouts: payouts, audit: audit}
}

// RunAll reconciles every user independently; a failure for one user skips
// that user and the run continues. Every significant discrepancy is audited,
// whether or not it was auto-corrected.
func (s *ReconcileService) RunAll() (ReconcileReport, error) {
	var report ReconcileReport
	users, err := s.users.ListAll()
	if err != nil {
		return report, err
	}
	for i := range users {
		u := &users[i]
		wallet, err := s.wallets.GetOrCreate(u.ID)
		if err != nil {
			log.Printf("[Reconcile] user %d: wallet: %v", u.ID, err)
			report.UsersSkipped++
			continue
		}
		contributions, err := s.contributions.ListCompletedByUser(u.ID)
		if err != nil {
			log.Printf("[Reconcile] user %d: contributions: %v", u.ID, err)
			report.UsersSkipped++
			continue
		}
		payouts, err := s.payouts.ListCompletedByUser(u.ID)
		if err != nil {
			log.Printf("[Reconcile] user %d: payouts: %v", u.ID, err)
			report.UsersSkipped++
			continue
		}
		result := Reconcile(wallet.Escrow, contributions, payouts)
		report.UsersProcessed++
		if !result.Significant {
			continue
		}
		report.DiscrepanciesFound++

		corrected := false
		if result.AutoCorrect {
			if err := s.wallets.AdjustEscrow(u.ID, result.Delta); err != nil {
				log.Printf("[Reconcile] user %d: escrow adjust: %v", u.ID, err)
			} else {
				corrected = true
				report.CorrectionsApplied++
				_ = s.wallets.RecordTransaction(u.ID, result.Delta, domain.WalletTxTypeReconciliation, "escrow_reconciliation")
			}
		}
		if len(report.SampleDiscrepancies) < sampleDiscrepancyCap {
			report.SampleDiscrepancies = append(report.SampleDiscrepancies, DiscrepancyRecord{
				UserID:         u.ID,
				ExpectedEscrow: result.ExpectedEscrow,
				ActualEscrow:   result.ActualEscrow,
				Difference:     result.Delta,
				Corrected:      corrected,
			})
		}
		s.auditDiscrepancy(u.ID, result, corrected)
	}
	return report, nil
}

func (s *ReconcileService) auditDiscrepancy(userID uint, result ReconcileResult, corrected bool) {
	if s.audit == nil {
		return
	}
	action := domain.AuditActionEscrowDiscrepancy
	reason := "discrepancy above auto-correct confidence window, held for manual review"
	if corrected {
		action = domain.AuditActionEscrowCorrected
		reason = "discrepancy within confidence window, escrow adjusted"
	}
	meta, _ := json.Marshal(map[string]interface{}{
		"expected_escrow": result.ExpectedEscrow,
		"actual_escrow":   result.ActualEscrow,
		"adjustment":      result.Delta,
		"reason":          reason,
	})
	if err := s.audit.Create(&models.AuditLog{
		UserID:   &userID,
		Action:   action,
		Resource: "wallet",
		Metadata: string(meta),
	}); err != nil {
		log.Printf("[Reconcile] user %d: audit: %v", userID, err)
	}
}
