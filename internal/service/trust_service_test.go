package service

import (
	"errors"
	"testing"
	"time"

	"payfesa/internal/domain"
	"payfesa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scoringNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func userCreated(age time.Duration) *models.User {
	return &models.User{ID: 1, CreatedAt: scoringNow.Add(-age)}
}

// fastContribution completed within the streak window; offset orders the
// history (larger offset = older).
func fastContribution(offset time.Duration) models.Contribution {
	created := scoringNow.Add(-offset)
	completed := created.Add(time.Hour)
	return models.Contribution{Status: domain.ContributionStatusCompleted, CreatedAt: created, CompletedAt: &completed}
}

func slowContribution(offset time.Duration) models.Contribution {
	created := scoringNow.Add(-offset)
	completed := created.Add(5 * time.Hour)
	return models.Contribution{Status: domain.ContributionStatusCompleted, CreatedAt: created, CompletedAt: &completed}
}

func missedContribution(offset time.Duration) models.Contribution {
	return models.Contribution{Status: domain.ContributionStatusMissed, CreatedAt: scoringNow.Add(-offset)}
}

// history builds a most-recent-first slice, matching repository ordering.
func history(contributions ...models.Contribution) []models.Contribution {
	return contributions
}

func activeReferral(count int) models.Referral {
	return models.Referral{IsActive: true, ContributionCount: count}
}

func TestComputeTrustScoreNewUser(t *testing.T) {
	r := ComputeTrustScore(scoringNow, userCreated(24*time.Hour), nil, nil)
	assert.Equal(t, 50, r.Score)
	assert.False(t, r.IsElite)
	assert.Zero(t, r.Streak)
	assert.Zero(t, r.MissedCount)
}

func TestComputeTrustScorePerfectUser(t *testing.T) {
	u := userCreated(2 * 365 * 24 * time.Hour)
	u.KYCVerified = true
	u.TotalMessagesSent = 150

	var h []models.Contribution
	for i := 0; i < 20; i++ {
		h = append(h, fastContribution(time.Duration(i+1)*24*time.Hour))
	}
	r := ComputeTrustScore(scoringNow, u, h, []models.Referral{activeReferral(5)})

	// 50 base +10 age +15 kyc +10 msgs +15 streak +5 referral = 105, clamped.
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, 20, r.Streak)
	assert.Zero(t, r.MissedCount)
	assert.True(t, r.IsElite)
}

func TestComputeTrustScoreAgeTiers(t *testing.T) {
	assert.Equal(t, 60, ComputeTrustScore(scoringNow, userCreated(400*24*time.Hour), nil, nil).Score)
	assert.Equal(t, 55, ComputeTrustScore(scoringNow, userCreated(120*24*time.Hour), nil, nil).Score)
	assert.Equal(t, 50, ComputeTrustScore(scoringNow, userCreated(30*24*time.Hour), nil, nil).Score)
}

func TestComputeTrustScoreMessageTiers(t *testing.T) {
	u := userCreated(24 * time.Hour)
	u.TotalMessagesSent = 19
	assert.Equal(t, 50, ComputeTrustScore(scoringNow, u, nil, nil).Score)
	u.TotalMessagesSent = 20
	assert.Equal(t, 55, ComputeTrustScore(scoringNow, u, nil, nil).Score)
	u.TotalMessagesSent = 100
	assert.Equal(t, 60, ComputeTrustScore(scoringNow, u, nil, nil).Score)
}

func TestComputeTrustScoreMissedPenaltyAndClamp(t *testing.T) {
	h := history(
		missedContribution(24*time.Hour),
		missedContribution(48*time.Hour),
		missedContribution(72*time.Hour),
	)
	r := ComputeTrustScore(scoringNow, userCreated(24*time.Hour), h, nil)
	assert.Equal(t, 0, r.Score, "three misses take 50 below zero and the score clamps")
	assert.Equal(t, 3, r.MissedCount)
	assert.Zero(t, r.Streak)
}

func TestComputeTrustScoreMissResetsStreakButScanContinues(t *testing.T) {
	// Most recent first: 2 fast, a miss, then 5 older fast. The miss wipes the
	// recent streak but the older run is counted; every miss is tallied.
	h := history(
		fastContribution(1*24*time.Hour),
		fastContribution(2*24*time.Hour),
		missedContribution(3*24*time.Hour),
		fastContribution(4*24*time.Hour),
		fastContribution(5*24*time.Hour),
		fastContribution(6*24*time.Hour),
		fastContribution(7*24*time.Hour),
		fastContribution(8*24*time.Hour),
	)
	r := ComputeTrustScore(scoringNow, userCreated(24*time.Hour), h, nil)
	assert.Equal(t, 5, r.Streak)
	assert.Equal(t, 1, r.MissedCount)
	assert.Equal(t, 30, r.Score) // 50 - 20
}

func TestScanStreakSlowCompletionBeforeAnyFastIsWalkedPast(t *testing.T) {
	streak, missed := scanContributionStreak(history(
		slowContribution(1*24*time.Hour),
		fastContribution(2*24*time.Hour),
		fastContribution(3*24*time.Hour),
	))
	assert.Equal(t, 2, streak)
	assert.Zero(t, missed)
}

func TestScanStreakSlowCompletionEndsStartedStreak(t *testing.T) {
	streak, missed := scanContributionStreak(history(
		fastContribution(1*24*time.Hour),
		slowContribution(2*24*time.Hour),
		fastContribution(3*24*time.Hour),
		fastContribution(4*24*time.Hour),
	))
	assert.Equal(t, 1, streak)
	assert.Zero(t, missed)
}

func TestComputeTrustScoreReferralQualityBar(t *testing.T) {
	u := userCreated(24 * time.Hour)

	r := ComputeTrustScore(scoringNow, u, nil, []models.Referral{activeReferral(4)})
	assert.Equal(t, 50, r.Score, "referral with fewer than 5 contributions earns nothing")

	inactive := models.Referral{IsActive: false, ContributionCount: 10}
	r = ComputeTrustScore(scoringNow, u, nil, []models.Referral{inactive})
	assert.Equal(t, 50, r.Score, "inactive referral earns nothing")

	r = ComputeTrustScore(scoringNow, u, nil, []models.Referral{activeReferral(5), activeReferral(7)})
	assert.Equal(t, 55, r.Score, "bonus is flat, not per referral")
	assert.Equal(t, 2, r.ActiveReferrals)
}

func TestEliteRequiresAllFourConditions(t *testing.T) {
	newEliteBase := func() (*models.User, []models.Contribution, []models.Referral) {
		u := userCreated(2 * 365 * 24 * time.Hour)
		u.KYCVerified = true
		u.TotalMessagesSent = 150
		var h []models.Contribution
		for i := 0; i < 20; i++ {
			h = append(h, fastContribution(time.Duration(i+1)*24*time.Hour))
		}
		return u, h, []models.Referral{activeReferral(5)}
	}

	u, h, refs := newEliteBase()
	require.True(t, ComputeTrustScore(scoringNow, u, h, refs).IsElite)

	// No qualifying referral.
	u, h, _ = newEliteBase()
	r := ComputeTrustScore(scoringNow, u, h, nil)
	assert.Greater(t, r.Score, 90)
	assert.False(t, r.IsElite)

	// Streak one short of the bar.
	u, h, refs = newEliteBase()
	r = ComputeTrustScore(scoringNow, u, h[:19], refs)
	assert.Equal(t, 19, r.Streak)
	assert.False(t, r.IsElite)

	// A miss anywhere in history disqualifies even with a 20 streak.
	u, h, refs = newEliteBase()
	h = append(h, missedContribution(30*24*time.Hour))
	r = ComputeTrustScore(scoringNow, u, h, refs)
	assert.Equal(t, 1, r.MissedCount)
	assert.False(t, r.IsElite)

	// Score at or below 90 disqualifies even with a clean 20 streak and a
	// qualifying referral: a week-old unverified member with no message bonus
	// lands at 50 + 15 + 5.
	u, h, refs = newEliteBase()
	u.CreatedAt = scoringNow.Add(-7 * 24 * time.Hour)
	u.KYCVerified = false
	u.TotalMessagesSent = 0
	r = ComputeTrustScore(scoringNow, u, h, refs)
	assert.Equal(t, 70, r.Score)
	assert.Equal(t, 20, r.Streak)
	assert.Equal(t, 0, r.MissedCount)
	assert.False(t, r.IsElite)
}

// --- batch run ---

type stubTrustUserStore struct {
	users   []models.User
	updates map[uint]TrustResult
	failFor uint
}

func (s *stubTrustUserStore) ListAll() ([]models.User, error) { return s.users, nil }

func (s *stubTrustUserStore) UpdateTrustFields(userID uint, score int, elite bool, streak int) error {
	if s.failFor == userID {
		return errors.New("write refused")
	}
	if s.updates == nil {
		s.updates = make(map[uint]TrustResult)
	}
	s.updates[userID] = TrustResult{Score: score, IsElite: elite, Streak: streak}
	return nil
}

type stubContributionHistory struct {
	byUser  map[uint][]models.Contribution
	failFor uint
}

func (s *stubContributionHistory) ListHistoryByUser(userID uint) ([]models.Contribution, error) {
	if s.failFor == userID {
		return nil, errors.New("history unavailable")
	}
	return s.byUser[userID], nil
}

type stubReferralHistory struct {
	byUser map[uint][]models.Referral
}

func (s *stubReferralHistory) ListAllByReferrerID(referrerID uint) ([]models.Referral, error) {
	return s.byUser[referrerID], nil
}

type recordingEliteNotifier struct {
	notified []uint
}

func (n *recordingEliteNotifier) NotifyEliteStatus(userID uint, score int) error {
	n.notified = append(n.notified, userID)
	return nil
}

func eliteUserFixture(id uint, alreadyElite bool) (models.User, []models.Contribution, []models.Referral) {
	u := models.User{ID: id, CreatedAt: scoringNow.Add(-2 * 365 * 24 * time.Hour), KYCVerified: true, TotalMessagesSent: 150, EliteStatus: alreadyElite}
	var h []models.Contribution
	for i := 0; i < 20; i++ {
		h = append(h, fastContribution(time.Duration(i+1)*24*time.Hour))
	}
	return u, h, []models.Referral{activeReferral(5)}
}

func TestTrustRunNotifiesEliteTransitionOnce(t *testing.T) {
	newlyElite, h1, refs1 := eliteUserFixture(1, false)
	alreadyElite, h2, refs2 := eliteUserFixture(2, true)
	plain := models.User{ID: 3, CreatedAt: scoringNow.Add(-24 * time.Hour)}

	users := &stubTrustUserStore{users: []models.User{newlyElite, alreadyElite, plain}}
	contributions := &stubContributionHistory{byUser: map[uint][]models.Contribution{1: h1, 2: h2}}
	referrals := &stubReferralHistory{byUser: map[uint][]models.Referral{1: refs1, 2: refs2}}
	notifier := &recordingEliteNotifier{}

	svc := NewTrustScoreService(users, contributions, referrals, notifier)
	report, err := svc.RunAll(scoringNow)
	require.NoError(t, err)

	assert.Equal(t, 3, report.UsersUpdated)
	assert.Equal(t, 1, report.EliteTransitions)
	assert.Equal(t, []uint{1}, notifier.notified, "only the false→true transition celebrates")

	assert.True(t, users.updates[1].IsElite)
	assert.True(t, users.updates[2].IsElite)
	assert.Equal(t, 50, users.updates[3].Score)
}

func TestTrustRunSkipsFailingUsersAndContinues(t *testing.T) {
	users := &stubTrustUserStore{
		users: []models.User{
			{ID: 1, CreatedAt: scoringNow.Add(-24 * time.Hour)},
			{ID: 2, CreatedAt: scoringNow.Add(-24 * time.Hour)},
			{ID: 3, CreatedAt: scoringNow.Add(-24 * time.Hour)},
		},
		failFor: 3,
	}
	contributions := &stubContributionHistory{failFor: 2}
	svc := NewTrustScoreService(users, contributions, &stubReferralHistory{}, nil)

	report, err := svc.RunAll(scoringNow)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UsersUpdated)
	assert.Equal(t, 2, report.UsersSkipped)
	assert.Contains(t, users.updates, uint(1))
	assert.NotContains(t, users.updates, uint(2))
}
