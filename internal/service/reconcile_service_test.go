package service

import (
	"errors"
	"fmt"
	"testing"

	"payfesa/internal/domain"
	"payfesa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedContributions(amount float64, n int) []models.Contribution {
	list := make([]models.Contribution, n)
	for i := range list {
		list[i] = models.Contribution{Status: domain.ContributionStatusCompleted, Amount: amount}
	}
	return list
}

func TestReconcileBalancedWallet(t *testing.T) {
	// 10 × 1000 at the 11% contribution fee nets 8900 into escrow.
	r := Reconcile(8900, completedContributions(1000, 10), nil)
	assert.Equal(t, 8900.0, r.ExpectedEscrow)
	assert.Zero(t, r.Discrepancy)
	assert.False(t, r.Significant)
	assert.False(t, r.AutoCorrect)
}

func TestReconcileSmallMismatchNotSignificant(t *testing.T) {
	r := Reconcile(8850, completedContributions(1000, 10), nil)
	assert.Equal(t, 50.0, r.Discrepancy)
	assert.False(t, r.Significant, "a 50 MWK drift stays below the reporting threshold")
}

func TestReconcileAutoCorrectsWithinConfidenceWindow(t *testing.T) {
	r := Reconcile(8600, completedContributions(1000, 10), nil)
	assert.Equal(t, 300.0, r.Discrepancy)
	assert.Equal(t, 300.0, r.Delta)
	assert.True(t, r.Significant)
	assert.True(t, r.AutoCorrect, "300/8900 is well under the 10% cap")
}

func TestReconcileExactlyTenPercentIsNotCorrected(t *testing.T) {
	// 4 × 1000 nets 3560; a completed payout of gross 1560 leaves expected 2000.
	payouts := []models.Payout{{Status: domain.PayoutStatusCompleted, GrossAmount: 1560}}
	r := Reconcile(1800, completedContributions(1000, 4), payouts)
	require.Equal(t, 2000.0, r.ExpectedEscrow)
	assert.Equal(t, 200.0, r.Discrepancy)
	assert.True(t, r.Significant)
	assert.False(t, r.AutoCorrect, "the confidence window is strict: exactly 10% is held for review")
}

func TestReconcilePayoutsDebitGross(t *testing.T) {
	payouts := []models.Payout{
		{Status: domain.PayoutStatusCompleted, GrossAmount: 4000},
		{Status: domain.PayoutStatusCompleted, GrossAmount: 2000},
	}
	r := Reconcile(2900, completedContributions(1000, 10), payouts)
	assert.Equal(t, 2900.0, r.ExpectedEscrow)
	assert.False(t, r.Significant)
}

func TestReconcileNegativeExpectedNeverAutoCorrects(t *testing.T) {
	payouts := []models.Payout{{Status: domain.PayoutStatusCompleted, GrossAmount: 5000}}
	r := Reconcile(0, completedContributions(1000, 2), payouts)
	assert.Equal(t, -3220.0, r.ExpectedEscrow)
	assert.True(t, r.Significant)
	assert.False(t, r.AutoCorrect, "sign-ambiguous balances go to manual review")
}

// --- batch run ---

type stubUserLister struct {
	users []models.User
}

func (s *stubUserLister) ListAll() ([]models.User, error) { return s.users, nil }

type stubWalletStore struct {
	escrow      map[uint]float64
	adjustments map[uint]float64
	txTypes     []string
	failFor     uint
}

func (s *stubWalletStore) GetOrCreate(userID uint) (*models.Wallet, error) {
	if s.failFor == userID {
		return nil, errors.New("wallet unavailable")
	}
	return &models.Wallet{UserID: userID, Escrow: s.escrow[userID], Currency: domain.Currency}, nil
}

func (s *stubWalletStore) AdjustEscrow(userID uint, delta float64) error {
	if s.adjustments == nil {
		s.adjustments = make(map[uint]float64)
	}
	s.adjustments[userID] += delta
	return nil
}

func (s *stubWalletStore) RecordTransaction(userID uint, amount float64, txType, reference string) error {
	s.txTypes = append(s.txTypes, txType)
	return nil
}

type stubCompletedContributions struct {
	byUser map[uint][]models.Contribution
}

func (s *stubCompletedContributions) ListCompletedByUser(userID uint) ([]models.Contribution, error) {
	return s.byUser[userID], nil
}

type stubCompletedPayouts struct {
	byUser map[uint][]models.Payout
}

func (s *stubCompletedPayouts) ListCompletedByUser(userID uint) ([]models.Payout, error) {
	return s.byUser[userID], nil
}

type recordingAuditSink struct {
	entries []models.AuditLog
}

func (s *recordingAuditSink) Create(a *models.AuditLog) error {
	s.entries = append(s.entries, *a)
	return nil
}

func TestReconcileRunCorrectsAndAudits(t *testing.T) {
	// User 1 balanced, user 2 drifted 300 under (correctable), user 3 drifted
	// 5000 under (beyond the window, held for review).
	users := &stubUserLister{users: []models.User{{ID: 1}, {ID: 2}, {ID: 3}}}
	wallets := &stubWalletStore{escrow: map[uint]float64{1: 8900, 2: 8600, 3: 3900}}
	contributions := &stubCompletedContributions{byUser: map[uint][]models.Contribution{
		1: completedContributions(1000, 10),
		2: completedContributions(1000, 10),
		3: completedContributions(1000, 10),
	}}
	audit := &recordingAuditSink{}

	svc := NewReconcileService(users, wallets, contributions, &stubCompletedPayouts{}, audit)
	report, err := svc.RunAll()
	require.NoError(t, err)

	assert.Equal(t, 3, report.UsersProcessed)
	assert.Equal(t, 2, report.DiscrepanciesFound)
	assert.Equal(t, 1, report.CorrectionsApplied)

	assert.Equal(t, 300.0, wallets.adjustments[2])
	assert.NotContains(t, wallets.adjustments, uint(3))
	assert.Equal(t, []string{domain.WalletTxTypeReconciliation}, wallets.txTypes)

	require.Len(t, audit.entries, 2, "every significant discrepancy is audited, corrected or not")
	actions := map[uint]string{}
	for _, e := range audit.entries {
		actions[*e.UserID] = e.Action
	}
	assert.Equal(t, domain.AuditActionEscrowCorrected, actions[2])
	assert.Equal(t, domain.AuditActionEscrowDiscrepancy, actions[3])

	require.Len(t, report.SampleDiscrepancies, 2)
	for _, d := range report.SampleDiscrepancies {
		if d.UserID == 2 {
			assert.True(t, d.Corrected)
		} else {
			assert.False(t, d.Corrected)
		}
	}
}

func TestReconcileRunSkipsFailingUser(t *testing.T) {
	users := &stubUserLister{users: []models.User{{ID: 1}, {ID: 2}}}
	wallets := &stubWalletStore{escrow: map[uint]float64{2: 890}, failFor: 1}
	contributions := &stubCompletedContributions{byUser: map[uint][]models.Contribution{
		2: completedContributions(1000, 1),
	}}

	svc := NewReconcileService(users, wallets, contributions, &stubCompletedPayouts{}, &recordingAuditSink{})
	report, err := svc.RunAll()
	require.NoError(t, err)
	assert.Equal(t, 1, report.UsersSkipped)
	assert.Equal(t, 1, report.UsersProcessed)
}

func TestReconcileRunCapsSampleDiscrepancies(t *testing.T) {
	var userList []models.User
	escrow := map[uint]float64{}
	byUser := map[uint][]models.Contribution{}
	for i := uint(1); i <= 15; i++ {
		userList = append(userList, models.User{ID: i})
		escrow[i] = 0 // expected 890, actual 0: flagged, beyond the 10% window
		byUser[i] = completedContributions(1000, 1)
	}

	svc := NewReconcileService(
		&stubUserLister{users: userList},
		&stubWalletStore{escrow: escrow},
		&stubCompletedContributions{byUser: byUser},
		&stubCompletedPayouts{},
		&recordingAuditSink{},
	)
	report, err := svc.RunAll()
	require.NoError(t, err)
	assert.Equal(t, 15, report.DiscrepanciesFound)
	assert.Len(t, report.SampleDiscrepancies, sampleDiscrepancyCap,
		fmt.Sprintf("report sample is capped at %d entries", sampleDiscrepancyCap))
}
