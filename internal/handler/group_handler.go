package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"payfesa/internal/domain"
	"payfesa/internal/middleware"
	"payfesa/internal/models"
	"payfesa/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GroupHandler struct {
	groupRepo   *repository.GroupRepository
	settingRepo *repository.SettingRepository
}

func NewGroupHandler(groupRepo *repository.GroupRepository, settingRepo *repository.SettingRepository) *GroupHandler {
	return &GroupHandler{groupRepo: groupRepo, settingRepo: settingRepo}
}

type CreateGroupRequest struct {
	Name               string  `json:"name" binding:"required,min=3,max=120"`
	Description        string  `json:"description"`
	ContributionAmount float64 `json:"contribution_amount" binding:"required,gt=0"`
	Frequency          string  `json:"frequency" binding:"required,oneof=WEEKLY MONTHLY"`
}

// Create makes a new chipereganyu group; the creator joins as admin at position 1.
func (h *GroupHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if min := h.settingRepo.MinContributionMWK(); req.ContributionAmount < min {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("contribution amount must be at least MWK %.0f", min)})
		return
	}
	g := &models.Group{
		Name:               req.Name,
		Description:        req.Description,
		ContributionAmount: req.ContributionAmount,
		Frequency:          req.Frequency,
		CurrentRound:       1,
		Status:             domain.GroupStatusActive,
		CreatedBy:          userID,
	}
	if err := h.groupRepo.Create(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "group create failed"})
		return
	}
	if _, err := h.groupRepo.AddMember(g.ID, userID, true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join own group"})
		return
	}
	c.JSON(http.StatusCreated, g)
}

// Join adds the current user at the end of the rotation.
func (h *GroupHandler) Join(c *gin.Context) {
	userID := middleware.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	g, err := h.groupRepo.GetByID(uint(groupID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	if g.Status != domain.GroupStatusActive {
		c.JSON(http.StatusConflict, gin.H{"error": "group is not accepting members"})
		return
	}
	if _, err := h.groupRepo.GetMember(g.ID, userID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "already a member"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "membership check failed"})
		return
	}
	if max := h.settingRepo.MaxGroupMembers(); max > 0 {
		n, err := h.groupRepo.CountMembers(g.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "membership check failed"})
			return
		}
		if n >= max {
			c.JSON(http.StatusConflict, gin.H{"error": "group is full"})
			return
		}
	}
	m, err := h.groupRepo.AddMember(g.ID, userID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "join failed"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMine returns the groups the current user belongs to.
func (h *GroupHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.groupRepo.ListByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": list})
}

// Get returns group detail with members in rotation order. Members only.
func (h *GroupHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	if _, err := h.groupRepo.GetMember(uint(groupID), userID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "members only"})
		return
	}
	g, err := h.groupRepo.GetByID(uint(groupID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}
