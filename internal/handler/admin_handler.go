package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"payfesa/config"
	"payfesa/internal/domain"
	"payfesa/internal/middleware"
	"payfesa/internal/models"
	"payfesa/internal/repository"
	"payfesa/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operator surface: batch job triggers, KYC review
// and the audit trail. Everything here sits behind AdminRequired.
type AdminHandler struct {
	cfg             *config.Config
	trustSvc        *service.TrustScoreService
	reconcileSvc    *service.ReconcileService
	contributionSvc *service.ContributionService
	payoutSvc       *service.PayoutService
	userRepo        *repository.UserRepository
	auditRepo       *repository.AuditLogRepository
	settingRepo     *repository.SettingRepository
	notifSvc        *service.NotificationService
}

func NewAdminHandler(
	cfg *config.Config,
	trustSvc *service.TrustScoreService,
	reconcileSvc *service.ReconcileService,
	contributionSvc *service.ContributionService,
	payoutSvc *service.PayoutService,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditLogRepository,
	settingRepo *repository.SettingRepository,
	notifSvc *service.NotificationService,
) *AdminHandler {
	return &AdminHandler{
		cfg:             cfg,
		trustSvc:        trustSvc,
		reconcileSvc:    reconcileSvc,
		contributionSvc: contributionSvc,
		payoutSvc:       payoutSvc,
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		settingRepo:     settingRepo,
		notifSvc:        notifSvc,
	}
}

// RunTrustScores recomputes every user's trust score now.
func (h *AdminHandler) RunTrustScores(c *gin.Context) {
	report, err := h.trustSvc.RunAll(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "trust score run failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// RunReconciliation validates every wallet's escrow and returns the report.
func (h *AdminHandler) RunReconciliation(c *gin.Context) {
	report, err := h.reconcileSvc.RunAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation run failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// RunMissedSweep marks stale pending contributions as missed.
func (h *AdminHandler) RunMissedSweep(c *gin.Context) {
	report, err := h.contributionSvc.MarkMissed(h.cfg.Jobs.ContributionDeadline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "missed sweep failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// DisburseRound pays out the current round for a group.
func (h *AdminHandler) DisburseRound(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	p, err := h.payoutSvc.DisburseRound(c.Request.Context(), uint(groupID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoundAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNoRecipient), errors.Is(err, service.ErrMissingPhone):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "disbursement failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, p)
}

// VerifyKYC approves a user's identity documents.
func (h *AdminHandler) VerifyKYC(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if _, err := h.userRepo.GetByID(uint(userID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err := h.userRepo.SetKYCVerified(uint(userID), true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "kyc update failed"})
		return
	}
	if h.notifSvc != nil {
		_ = h.notifSvc.NotifyKYCVerified(uint(userID))
	}
	c.JSON(http.StatusOK, gin.H{"message": "kyc verified"})
}

// ListSettings returns all runtime platform settings.
func (h *AdminHandler) ListSettings(c *gin.Context) {
	list, err := h.settingRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

// UpdateSetting upserts one runtime setting.
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required,max=100"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	userID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:   &userID,
		Action:   "setting_updated",
		Resource: "system_setting",
		Metadata: `{"key":"` + req.Key + `"}`,
		IP:       c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "saved"})
}

// ListAuditLogs returns the audit trail filtered by action.
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	action := c.Query("action")
	if action == "" {
		action = domain.AuditActionEscrowDiscrepancy
	}
	limit, offset := pagination(c)
	list, err := h.auditRepo.ListByAction(action, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": list})
}
