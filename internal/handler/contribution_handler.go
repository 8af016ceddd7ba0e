package handler

import (
	"errors"
	"net/http"
	"strconv"

	"payfesa/internal/middleware"
	"payfesa/internal/repository"
	"payfesa/internal/service"

	"github.com/gin-gonic/gin"
)

type ContributionHandler struct {
	svc              *service.ContributionService
	contributionRepo *repository.ContributionRepository
	userRepo         *repository.UserRepository
	settingRepo      *repository.SettingRepository
}

func NewContributionHandler(svc *service.ContributionService, contributionRepo *repository.ContributionRepository, userRepo *repository.UserRepository, settingRepo *repository.SettingRepository) *ContributionHandler {
	return &ContributionHandler{svc: svc, contributionRepo: contributionRepo, userRepo: userRepo, settingRepo: settingRepo}
}

type InitiateContributionRequest struct {
	GroupID     uint   `json:"group_id" binding:"required"`
	PhoneNumber string `json:"phone_number"` // defaults to the profile number
}

// Initiate starts a mobile money collection for the group's current round.
func (h *ContributionHandler) Initiate(c *gin.Context) {
	if h.settingRepo.MaintenanceMode() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments are paused for maintenance"})
		return
	}
	userID := middleware.GetUserID(c)
	var req InitiateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	phone := req.PhoneNumber
	if phone == "" {
		u, err := h.userRepo.GetByID(userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		phone = u.PhoneNumber
	}
	phone = normalizePhone(phone)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}
	contribution, err := h.svc.Initiate(c.Request.Context(), userID, req.GroupID, phone)
	if err != nil {
		if errors.Is(err, service.ErrNotMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if contribution != nil {
			// Row exists but the provider push failed; the member can retry.
			c.JSON(http.StatusBadGateway, gin.H{"error": "mobile money request failed", "contribution": contribution})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "contribution failed"})
		return
	}
	c.JSON(http.StatusCreated, contribution)
}

// ListMine returns the current user's contributions, newest first.
func (h *ContributionHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.contributionRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributions": list})
}

// pagination reads limit/offset query params with sane bounds.
func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
