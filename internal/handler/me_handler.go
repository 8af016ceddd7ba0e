package handler

import (
	"net/http"

	"payfesa/internal/middleware"
	"payfesa/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo   *repository.UserRepository
	walletRepo *repository.WalletRepository
}

func NewMeHandler(userRepo *repository.UserRepository, walletRepo *repository.WalletRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo, walletRepo: walletRepo}
}

// Get returns the current user's profile including trust fields and wallet.
func (h *MeHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	w, _ := h.walletRepo.GetOrCreate(userID)
	c.JSON(http.StatusOK, gin.H{
		"user":   u,
		"wallet": w,
	})
}

// UpdateFCMToken stores the device push token.
func (h *MeHandler) UpdateFCMToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	u.FCMToken = req.Token
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token updated"})
}

// UpdatePhone changes the mobile money number used for contributions/payouts.
func (h *MeHandler) UpdatePhone(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	phone := normalizePhone(req.PhoneNumber)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	u.PhoneNumber = phone
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"phone_number": phone})
}
