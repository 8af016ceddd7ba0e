package handler

import (
	"errors"
	"net/http"
	"strconv"

	"payfesa/internal/middleware"
	"payfesa/internal/repository"
	"payfesa/pkg/fees"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	payoutRepo *repository.PayoutRepository
}

func NewPayoutHandler(payoutRepo *repository.PayoutRepository) *PayoutHandler {
	return &PayoutHandler{payoutRepo: payoutRepo}
}

// ListMine returns the current user's payouts, newest first.
func (h *PayoutHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.payoutRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": list})
}

// Quote returns the fee breakdown for an amount without creating anything.
// Pass ?gross= for the forward split or ?net= to find the required gross.
func (h *PayoutHandler) Quote(c *gin.Context) {
	grossStr := c.Query("gross")
	netStr := c.Query("net")

	var (
		breakdown fees.Breakdown
		err       error
	)
	switch {
	case grossStr != "":
		var gross float64
		gross, err = strconv.ParseFloat(grossStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gross amount"})
			return
		}
		breakdown, err = fees.CalculatePayoutFees(gross)
	case netStr != "":
		var net float64
		net, err = strconv.ParseFloat(netStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid net amount"})
			return
		}
		breakdown, err = fees.CalculateGrossFromNet(net)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "gross or net query param required"})
		return
	}
	if err != nil {
		if errors.Is(err, fees.ErrNegativeAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "quote failed"})
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
