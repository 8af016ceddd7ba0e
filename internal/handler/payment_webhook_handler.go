package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"payfesa/config"
	"payfesa/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentWebhookHandler receives PayChangu payment and payout callbacks.
// Order IDs are prefixed at creation (ctr- for contributions, pay- for
// payouts) so one endpoint can route both flows.
type PaymentWebhookHandler struct {
	cfg             *config.Config
	contributionSvc *service.ContributionService
	payoutSvc       *service.PayoutService
}

func NewPaymentWebhookHandler(cfg *config.Config, contributionSvc *service.ContributionService, payoutSvc *service.PayoutService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{cfg: cfg, contributionSvc: contributionSvc, payoutSvc: payoutSvc}
}

type payChanguWebhook struct {
	Status   string `json:"status"`
	ChargeID string `json:"charge_id"`
	TransID  string `json:"trans_id"`
	Event    string `json:"event_type"`
}

// Handle processes one provider callback. The Signature header carries an
// HMAC-SHA256 of the raw body keyed with the webhook secret; nothing is
// parsed before the signature checks out. The endpoint answers 200 once the
// payload is accepted; PayChangu retries on non-2xx and the status guards in
// the services make redelivery harmless.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if secret := h.cfg.PayChangu.WebhookSecret; secret != "" {
		if !verifyWebhookSignature(secret, body, c.GetHeader("Signature")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var wh payChanguWebhook
	if err := json.Unmarshal(body, &wh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if wh.ChargeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing charge_id"})
		return
	}

	success := strings.EqualFold(wh.Status, "success") || strings.EqualFold(wh.Status, "successful")
	switch {
	case strings.HasPrefix(wh.ChargeID, "ctr-"):
		if success {
			if _, err := h.contributionSvc.Confirm(wh.ChargeID, wh.TransID); err != nil {
				log.Printf("[Webhook] contribution confirm %s: %v", wh.ChargeID, err)
			}
		} else {
			h.contributionSvc.Fail(wh.ChargeID)
		}
	case strings.HasPrefix(wh.ChargeID, "pay-"):
		if success {
			if _, err := h.payoutSvc.Complete(wh.ChargeID, wh.TransID); err != nil {
				log.Printf("[Webhook] payout complete %s: %v", wh.ChargeID, err)
			}
		} else {
			h.payoutSvc.MarkFailed(wh.ChargeID)
		}
	default:
		log.Printf("[Webhook] unknown charge id %q", wh.ChargeID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func verifyWebhookSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
