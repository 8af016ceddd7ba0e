package router

import (
	"net/http"
	"time"

	"payfesa/config"
	"payfesa/internal/handler"
	"payfesa/internal/middleware"
	"payfesa/internal/repository"
	"payfesa/internal/service"
	"payfesa/internal/ws"
	"payfesa/pkg/cloudinary"
	"payfesa/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and returns the engine.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Payment provider: PayChangu when configured, stub otherwise.
	var provider payment.Provider
	if cfg.PayChangu.SecretKey != "" {
		provider = payment.NewPayChanguProvider(cfg.PayChangu.BaseURL, cfg.PayChangu.SecretKey, cfg.PayChangu.WebhookBaseURL)
	} else {
		provider = &payment.StubProvider{}
	}

	// Services
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	notifSvc := service.NewNotificationService(notifRepo, userRepo, fcmSvc)
	authSvc := service.NewAuthService(cfg, userRepo)
	referralSvc := service.NewReferralService(referralRepo)
	contributionSvc := service.NewContributionService(contributionRepo, groupRepo, walletRepo, referralRepo, userRepo, notifSvc, provider)
	payoutSvc := service.NewPayoutService(payoutRepo, groupRepo, walletRepo, userRepo, notifSvc, provider)
	trustSvc := service.NewTrustScoreService(userRepo, contributionRepo, referralRepo, notifSvc)
	reconcileSvc := service.NewReconcileService(userRepo, walletRepo, contributionRepo, payoutRepo, auditRepo)

	chatHub := ws.NewChatHub()

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, referralSvc, auditRepo)
	oauthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo, walletRepo)
	groupHandler := handler.NewGroupHandler(groupRepo, settingRepo)
	contributionHandler := handler.NewContributionHandler(contributionSvc, contributionRepo, userRepo, settingRepo)
	payoutHandler := handler.NewPayoutHandler(payoutRepo)
	walletHandler := handler.NewWalletHandler(walletRepo)
	referralHandler := handler.NewReferralHandler(referralRepo)
	notifHandler := handler.NewNotificationHandler(notifRepo)
	adminHandler := handler.NewAdminHandler(cfg, trustSvc, reconcileSvc, contributionSvc, payoutSvc, userRepo, auditRepo, settingRepo, notifSvc)
	webhookHandler := handler.NewPaymentWebhookHandler(cfg, contributionSvc, payoutSvc)
	uploadHandler := handler.NewUploadHandler(cloud, userRepo, auditRepo)
	chatHandler := handler.NewChatHandler(cfg, chatHub, chatRepo, groupRepo, userRepo)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authLimiter := middleware.NewRateLimiter(20, time.Minute)
	// Each initiation fires a USSD prompt on the member's phone; keep it tight.
	collectLimiter := middleware.NewRateLimiter(5, time.Minute)

	api := r.Group("/api/v1")
	{
		authRoutes := api.Group("/auth", middleware.RateLimitByIP(authLimiter))
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.GET("/google", oauthHandler.Redirect)
			authRoutes.GET("/google/callback", oauthHandler.Callback)
		}

		api.POST("/webhooks/payment", webhookHandler.Handle)

		// WebSocket auth rides in the query string, not the Authorization header.
		api.GET("/groups/:id/chat/ws", chatHandler.Connect)

		authed := api.Group("", middleware.AuthRequired(&cfg.JWT))
		{
			authed.POST("/auth/logout", authHandler.Logout)
			authed.PUT("/auth/password", authHandler.ChangePassword)

			authed.GET("/me", meHandler.Get)
			authed.PUT("/me/fcm-token", meHandler.UpdateFCMToken)
			authed.PUT("/me/phone", meHandler.UpdatePhone)
			authed.POST("/me/avatar", uploadHandler.Avatar)
			authed.POST("/me/kyc-document", uploadHandler.KYCDocument)

			authed.POST("/groups", groupHandler.Create)
			authed.GET("/groups", groupHandler.ListMine)
			authed.GET("/groups/:id", groupHandler.Get)
			authed.POST("/groups/:id/join", groupHandler.Join)
			authed.GET("/groups/:id/chat/messages", chatHandler.ListMessages)

			authed.POST("/contributions", middleware.RateLimitByUser(collectLimiter), contributionHandler.Initiate)
			authed.GET("/contributions", contributionHandler.ListMine)

			authed.GET("/payouts", payoutHandler.ListMine)
			authed.GET("/payouts/quote", payoutHandler.Quote)

			authed.GET("/wallet", walletHandler.Get)
			authed.GET("/wallet/transactions", walletHandler.ListTransactions)

			authed.GET("/referrals/code", referralHandler.MyCode)
			authed.GET("/referrals", referralHandler.ListMine)

			authed.GET("/notifications", notifHandler.List)
			authed.PUT("/notifications/:id/read", notifHandler.MarkRead)
			authed.PUT("/notifications/read-all", notifHandler.MarkAllRead)

			admin := authed.Group("/admin", middleware.AdminRequired())
			{
				admin.POST("/jobs/trust-scores", adminHandler.RunTrustScores)
				admin.POST("/jobs/reconciliation", adminHandler.RunReconciliation)
				admin.POST("/jobs/missed-sweep", adminHandler.RunMissedSweep)
				admin.POST("/groups/:id/disburse", adminHandler.DisburseRound)
				admin.POST("/users/:id/verify-kyc", adminHandler.VerifyKYC)
				admin.GET("/audit-logs", adminHandler.ListAuditLogs)
				admin.GET("/settings", adminHandler.ListSettings)
				admin.PUT("/settings", adminHandler.UpdateSetting)
			}
		}
	}

	return r
}
