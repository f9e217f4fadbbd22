package gateway

import (
	"encoding/json"
	"fmt"
)

// WebhookData is the data object of a payOS webhook.
type WebhookData struct {
	OrderCode           int64  `json:"orderCode"`
	Amount              int64  `json:"amount"`
	Description         string `json:"description"`
	AccountNumber       string `json:"accountNumber"`
	Reference           string `json:"reference"`
	TransactionDateTime string `json:"transactionDateTime"`
	Currency            string `json:"currency"`
	PaymentLinkID       string `json:"paymentLinkId"`
	Code                string `json:"code"`
	Desc                string `json:"desc"`
	Status              string `json:"status"`
}

// WebhookPayload is a decoded payOS webhook.
type WebhookPayload struct {
	Code      string      `json:"code"`
	Desc      string      `json:"desc"`
	Success   bool        `json:"success"`
	Status    string      `json:"status"`
	Data      WebhookData `json:"data"`
	Signature string      `json:"signature"`
}

// ParseWebhook decodes a webhook body. It does not verify the signature.
func ParseWebhook(body []byte) (*WebhookPayload, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse webhook: %w", err)
	}
	return &payload, nil
}

// ResultCode is the data code, falling back to the envelope code.
func (p *WebhookPayload) ResultCode() string {
	if p.Data.Code != "" {
		return p.Data.Code
	}
	return p.Code
}

// PaymentStatus is the reported status. Webhooks without an explicit status
// are successful payment notifications, so a successful code implies PAID.
func (p *WebhookPayload) PaymentStatus() string {
	switch {
	case p.Data.Status != "":
		return p.Data.Status
	case p.Status != "":
		return p.Status
	case p.Success && p.ResultCode() == successCode:
		return StatusPaid
	}
	return ""
}

// Confirmed reports whether the webhook confirms a completed payment.
func (p *WebhookPayload) Confirmed() bool {
	return p.ResultCode() == successCode && p.PaymentStatus() == StatusPaid
}
