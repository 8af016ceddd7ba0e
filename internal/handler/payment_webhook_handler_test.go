package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"payfesa/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const webhookTestSecret = "wh-secret"

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.PayChangu.WebhookSecret = webhookTestSecret
	h := NewPaymentWebhookHandler(cfg, nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(body))
	if signature != "" {
		c.Request.Header.Set("Signature", signature)
	}
	h.Handle(c)
	return rec
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	body := []byte(`{"status":"success","charge_id":"other-1"}`)
	rec := postWebhook(t, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	body := []byte(`{"status":"success","charge_id":"other-1"}`)
	rec := postWebhook(t, body, signBody("wrong-secret", body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsSignatureOverDifferentBody(t *testing.T) {
	// A valid signature for one payload must not authenticate another.
	signed := signBody(webhookTestSecret, []byte(`{"status":"failed","charge_id":"other-1"}`))
	rec := postWebhook(t, []byte(`{"status":"success","charge_id":"other-1"}`), signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookAcceptsValidSignature(t *testing.T) {
	body := []byte(`{"status":"success","charge_id":"other-1"}`)
	rec := postWebhook(t, body, signBody(webhookTestSecret, body))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookRequiresChargeID(t *testing.T) {
	body := []byte(`{"status":"success"}`)
	rec := postWebhook(t, body, signBody(webhookTestSecret, body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
