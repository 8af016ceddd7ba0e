package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// PayChanguProvider implements mobile money collections and disbursements via
// the PayChangu aggregator API (TNM Mpamba and Airtel Money in Malawi).
type PayChanguProvider struct {
	BaseURL     string
	SecretKey   string
	WebhookBase string
	client      *http.Client
}

func NewPayChanguProvider(baseURL, secretKey, webhookBase string) *PayChanguProvider {
	if baseURL == "" {
		baseURL = "https://api.paychangu.com"
	}
	return &PayChanguProvider{
		BaseURL:     baseURL,
		SecretKey:   secretKey,
		WebhookBase: webhookBase,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type payChanguChargeReq struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	ChargeID    string `json:"charge_id"`
	Mobile      string `json:"mobile"`
	Description string `json:"description"`
	CallbackURL string `json:"callback_url"`
}

type payChanguTransferReq struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	ChargeID    string `json:"charge_id"`
	Mobile      string `json:"mobile"`
	Description string `json:"description"`
	CallbackURL string `json:"callback_url"`
}

type payChanguResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		TransID  string `json:"trans_id"`
		ChargeID string `json:"charge_id"`
		Status   string `json:"status"`
	} `json:"data"`
}

func (p *PayChanguProvider) post(ctx context.Context, path string, payload interface{}) (*payChanguResp, error) {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("[PayChangu] POST %s status=%d body=%s", path, resp.StatusCode, string(respBody))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("paychangu %s: %d", path, resp.StatusCode)
	}
	var out payChanguResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PayChanguProvider) callbackURL(override string) string {
	if override != "" {
		return override
	}
	if p.WebhookBase == "" {
		return ""
	}
	return p.WebhookBase + "/api/v1/webhooks/payment"
}

func (p *PayChanguProvider) Collect(ctx context.Context, req CollectRequest) (*Response, error) {
	currency := req.Currency
	if currency == "" {
		currency = "MWK"
	}
	out, err := p.post(ctx, "/mobile-money/payments/initialize", payChanguChargeReq{
		Amount:      strconv.FormatFloat(req.Amount, 'f', 2, 64),
		Currency:    currency,
		ChargeID:    req.OrderID,
		Mobile:      req.PhoneNumber,
		Description: req.Description,
		CallbackURL: p.callbackURL(req.CallbackURL),
	})
	if err != nil {
		return nil, fmt.Errorf("paychangu collect: %w", err)
	}
	ref := out.Data.TransID
	if ref == "" {
		ref = req.OrderID
	}
	return &Response{Reference: ref, Status: out.Data.Status}, nil
}

func (p *PayChanguProvider) Disburse(ctx context.Context, req DisburseRequest) (*Response, error) {
	currency := req.Currency
	if currency == "" {
		currency = "MWK"
	}
	out, err := p.post(ctx, "/mobile-money/payouts/initialize", payChanguTransferReq{
		Amount:      strconv.FormatFloat(req.Amount, 'f', 2, 64),
		Currency:    currency,
		ChargeID:    req.OrderID,
		Mobile:      req.PhoneNumber,
		Description: req.Description,
		CallbackURL: p.callbackURL(req.CallbackURL),
	})
	if err != nil {
		return nil, fmt.Errorf("paychangu disburse: %w", err)
	}
	ref := out.Data.TransID
	if ref == "" {
		ref = req.OrderID
	}
	return &Response{Reference: ref, Status: out.Data.Status}, nil
}
