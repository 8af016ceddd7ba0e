package handler

import (
	"net/http"

	"payfesa/internal/middleware"
	"payfesa/internal/repository"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralRepo *repository.ReferralRepository
}

func NewReferralHandler(referralRepo *repository.ReferralRepository) *ReferralHandler {
	return &ReferralHandler{referralRepo: referralRepo}
}

// MyCode returns the user's referral code, minting one on first request.
func (h *ReferralHandler) MyCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	rc, err := h.referralRepo.GetOrCreateCode(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "referral code failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": rc.Code})
}

// ListMine returns the people the user referred and their activity.
func (h *ReferralHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.referralRepo.ListByReferrerID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list})
}
