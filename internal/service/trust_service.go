package service

import (
	"log"
	"time"

	"payfesa/internal/domain"
	"payfesa/internal/models"
)

const (
	trustBaseScore = 50

	trustAgeBonusYear    = 10 // account older than a year
	trustAgeBonusQuarter = 5  // account older than 90 days
	trustKYCBonus        = 15
	trustMsgBonusHigh    = 10 // 100+ messages
	trustMsgBonusLow     = 5  // 20+ messages
	trustStreakBonus     = 15 // streak of 20+ fast contributions
	trustMissedPenalty   = 20 // per missed contribution
	trustReferralBonus   = 5  // at least one active referral with 5+ contributions

	// FastContributionWindow is the created→completed gap under which a
	// contribution counts toward the streak.
	FastContributionWindow = 3 * time.Hour

	eliteMinScore  = 90 // exclusive: score must be strictly greater
	eliteMinStreak = 20
)

// TrustResult is the full recomputation of a user's reputation fields.
type TrustResult struct {
	Score           int  `json:"score"`
	IsElite         bool `json:"is_elite"`
	Streak          int  `json:"streak"`
	MissedCount     int  `json:"missed_count"`
	ActiveReferrals int  `json:"active_referrals"`
}

// ComputeTrustScore derives a bounded [0,100] reputation score from account
// age, verification, chat activity, contribution behavior and referral quality.
// contributions must be ordered most-recent-first (by completion time); the
// streak scan depends on it. The function is pure: no I/O, no clock reads.
func ComputeTrustScore(now time.Time, u *models.User, contributions []models.Contribution, referrals []models.Referral) TrustResult {
	score := trustBaseScore

	switch age := now.Sub(u.CreatedAt); {
	case age >= 365*24*time.Hour:
		score += trustAgeBonusYear
	case age >= 90*24*time.Hour:
		score += trustAgeBonusQuarter
	}

	if u.KYCVerified {
		score += trustKYCBonus
	}

	switch {
	case u.TotalMessagesSent >= 100:
		score += trustMsgBonusHigh
	case u.TotalMessagesSent >= 20:
		score += trustMsgBonusLow
	}

	streak, missed := scanContributionStreak(contributions)
	if streak >= eliteMinStreak {
		score += trustStreakBonus
	}
	score -= missed * trustMissedPenalty

	activeReferrals := 0
	for _, r := range referrals {
		if r.IsActive && r.ContributionCount >= 5 {
			activeReferrals++
		}
	}
	if activeReferrals >= 1 {
		score += trustReferralBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return TrustResult{
		Score:           score,
		Streak:          streak,
		MissedCount:     missed,
		ActiveReferrals: activeReferrals,
		IsElite:         score > eliteMinScore && streak >= eliteMinStreak && missed == 0 && activeReferrals >= 1,
	}
}

// scanContributionStreak walks contributions most-recent-first counting
// consecutive fast completions. A slow completion ends the scan only once a
// streak has started; one encountered before any fast completion is walked
// past. A missed contribution resets the streak to zero but the scan
// continues, so every miss in the history is tallied.
func scanContributionStreak(contributions []models.Contribution) (streak, missed int) {
	for _, c := range contributions {
		switch c.Status {
		case domain.ContributionStatusCompleted:
			if c.CompletedAt == nil {
				continue
			}
			if c.CompletedAt.Sub(c.CreatedAt) <= FastContributionWindow {
				streak++
			} else if streak > 0 {
				return streak, missed
			}
		case domain.ContributionStatusMissed:
			missed++
			streak = 0
		}
	}
	return streak, missed
}

// TrustUserStore is the slice of user persistence the trust job needs.
type TrustUserStore interface {
	ListAll() ([]models.User, error)
	UpdateTrustFields(userID uint, score int, elite bool, streak int) error
}

// ContributionHistorySource supplies a user's completed/missed contributions
// pre-sorted most-recent-first.
type ContributionHistorySource interface {
	ListHistoryByUser(userID uint) ([]models.Contribution, error)
}

// ReferralHistorySource supplies all referrals made by a user.
type ReferralHistorySource interface {
	ListAllByReferrerID(referrerID uint) ([]models.Referral, error)
}

// EliteNotifier delivers the one-time celebration when a user turns elite.
type EliteNotifier interface {
	NotifyEliteStatus(userID uint, score int) error
}

// TrustScoreService recomputes trust scores for all users as a batch job.
type TrustScoreService struct {
	users         TrustUserStore
	contributions ContributionHistorySource
	referrals     ReferralHistorySource
	notifier      EliteNotifier
}

func NewTrustScoreService(users TrustUserStore, contributions ContributionHistorySource, referrals ReferralHistorySource, notifier EliteNotifier) *TrustScoreService {
	return &TrustScoreService{users: users, contributions: contributions, referrals: referrals, notifier: notifier}
}

// TrustRunReport summarizes one batch run.
type TrustRunReport struct {
	UsersUpdated     int `json:"users_updated"`
	UsersSkipped     int `json:"users_skipped"`
	EliteTransitions int `json:"elite_transitions"`
}

// RunAll recomputes and overwrites trust_score, elite_status and
// contribution_streak for every user. Per-user failures skip that user and the
// run continues. The celebration notification fires only on an elite
// false→true transition, judged against the previous persisted elite_status.
func (s *TrustScoreService) RunAll(now time.Time) (TrustRunReport, error) {
	var report TrustRunReport
	users, err := s.users.ListAll()
	if err != nil {
		return report, err
	}
	for i := range users {
		u := &users[i]
		contributions, err := s.contributions.ListHistoryByUser(u.ID)
		if err != nil {
			log.Printf("[TrustScore] user %d: contribution history: %v", u.ID, err)
			report.UsersSkipped++
			continue
		}
		referrals, err := s.referrals.ListAllByReferrerID(u.ID)
		if err != nil {
			log.Printf("[TrustScore] user %d: referral history: %v", u.ID, err)
			report.UsersSkipped++
			continue
		}
		result := ComputeTrustScore(now, u, contributions, referrals)
		if err := s.users.UpdateTrustFields(u.ID, result.Score, result.IsElite, result.Streak); err != nil {
			log.Printf("[TrustScore] user %d: write: %v", u.ID, err)
			report.UsersSkipped++
			continue
		}
		report.UsersUpdated++
		wasElite := u.EliteStatus
		if result.IsElite && !wasElite {
			report.EliteTransitions++
			if s.notifier != nil {
				if err := s.notifier.NotifyEliteStatus(u.ID, result.Score); err != nil {
					log.Printf("[TrustScore] user %d: elite notification: %v", u.ID, err)
				}
			}
		}
	}
	return report, nil
}
