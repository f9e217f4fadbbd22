package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Item is one line of the checkout.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// PaymentRequest describes a hosted checkout to create. OrderCode is generated
// when left at zero.
type PaymentRequest struct {
	OrderCode   int64
	Amount      int64
	Description string
	BuyerName   string
	BuyerEmail  string
	BuyerPhone  string
	Items       []Item
	ReturnURL   string
	CancelURL   string
	ExpiresAt   time.Time
}

// PaymentLink is the hosted checkout created by payOS.
type PaymentLink struct {
	OrderCode     int64  `json:"orderCode"`
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
	CheckoutURL   string `json:"checkoutUrl"`
	PaymentLinkID string `json:"paymentLinkId"`
	Status        string `json:"status"`
	QRCode        string `json:"qrCode"`
}

type createPaymentBody struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	BuyerName   string `json:"buyerName,omitempty"`
	BuyerEmail  string `json:"buyerEmail,omitempty"`
	BuyerPhone  string `json:"buyerPhone,omitempty"`
	Items       []Item `json:"items,omitempty"`
	CancelURL   string `json:"cancelUrl"`
	ReturnURL   string `json:"returnUrl"`
	ExpiredAt   int64  `json:"expiredAt,omitempty"`
	Signature   string `json:"signature"`
}

// PaymentTransaction is a bank transfer matched to a payment request.
type PaymentTransaction struct {
	Reference           string `json:"reference"`
	Amount              int64  `json:"amount"`
	AccountNumber       string `json:"accountNumber"`
	Description         string `json:"description"`
	TransactionDateTime string `json:"transactionDateTime"`
}

// PaymentStatus is the state of a payment request as reported by payOS.
type PaymentStatus struct {
	ID                 string               `json:"id"`
	OrderCode          int64                `json:"orderCode"`
	Amount             int64                `json:"amount"`
	AmountPaid         int64                `json:"amountPaid"`
	AmountRemaining    int64                `json:"amountRemaining"`
	Status             string               `json:"status"`
	CreatedAt          string               `json:"createdAt"`
	CanceledAt         string               `json:"canceledAt,omitempty"`
	CancellationReason string               `json:"cancellationReason,omitempty"`
	Transactions       []PaymentTransaction `json:"transactions"`
}

// CreatePaymentSession creates a hosted checkout and returns its URL.
func (c *Client) CreatePaymentSession(ctx context.Context, req PaymentRequest) (*PaymentLink, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidRequest)
	}
	if err := c.checkConfig(); err != nil {
		return nil, err
	}

	if req.OrderCode == 0 {
		code, err := NewOrderCode(c.now())
		if err != nil {
			return nil, err
		}
		req.OrderCode = code
	}

	body := createPaymentBody{
		OrderCode:   req.OrderCode,
		Amount:      req.Amount,
		Description: req.Description,
		BuyerName:   req.BuyerName,
		BuyerEmail:  req.BuyerEmail,
		BuyerPhone:  req.BuyerPhone,
		Items:       req.Items,
		CancelURL:   req.CancelURL,
		ReturnURL:   req.ReturnURL,
		Signature:   c.sign(paymentRequestSignatureData(req)),
	}
	if !req.ExpiresAt.IsZero() {
		body.ExpiredAt = req.ExpiresAt.Unix()
	}

	var link PaymentLink
	if err := c.do(ctx, "create payment", http.MethodPost, "/v2/payment-requests", body, &link); err != nil {
		return nil, err
	}
	if link.OrderCode == 0 {
		link.OrderCode = req.OrderCode
	}
	return &link, nil
}

// CheckPaymentStatus returns the current status of an order.
func (c *Client) CheckPaymentStatus(ctx context.Context, orderCode int64) (*PaymentStatus, error) {
	var status PaymentStatus
	path := "/v2/payment-requests/" + strconv.FormatInt(orderCode, 10)
	if err := c.do(ctx, "get payment status", http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func paymentRequestSignatureData(req PaymentRequest) string {
	return fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		req.Amount, req.CancelURL, req.Description, req.OrderCode, req.ReturnURL)
}
