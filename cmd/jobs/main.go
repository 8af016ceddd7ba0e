package main

import (
	"encoding/json"
	"flag"
	"log"
	"time"

	"payfesa/config"
	"payfesa/internal/database"
	"payfesa/internal/repository"
	"payfesa/internal/service"
)

// Batch job runner, meant for cron: trust-score recomputation, escrow
// reconciliation and the missed-contribution sweep. Push notifications are
// sent when Firebase is configured, same as the API server.
func main() {
	job := flag.String("job", "", "job to run: trust | reconcile | missed")
	flag.Parse()
	if *job == "" {
		log.Fatal("[Jobs] -job is required: trust | reconcile | missed")
	}

	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("[Jobs] database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	notifSvc := service.NewNotificationService(notifRepo, userRepo, fcmSvc)

	start := time.Now()
	var report interface{}

	switch *job {
	case "trust":
		svc := service.NewTrustScoreService(userRepo, contributionRepo, referralRepo, notifSvc)
		report, err = svc.RunAll(time.Now())
	case "reconcile":
		svc := service.NewReconcileService(userRepo, walletRepo, contributionRepo, payoutRepo, auditRepo)
		report, err = svc.RunAll()
	case "missed":
		// The sweep only flips statuses and notifies; no provider calls.
		svc := service.NewContributionService(contributionRepo, groupRepo, walletRepo, referralRepo, userRepo, notifSvc, nil)
		report, err = svc.MarkMissed(cfg.Jobs.ContributionDeadline)
	default:
		log.Fatalf("[Jobs] unknown job %q", *job)
	}
	if err != nil {
		log.Fatalf("[Jobs] %s failed: %v", *job, err)
	}

	out, _ := json.Marshal(report)
	log.Printf("[Jobs] %s finished in %s: %s", *job, time.Since(start).Round(time.Millisecond), out)
}
