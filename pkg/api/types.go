// Package api holds the JSON request and response bodies of the HTTP API.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wallet defines model for Wallet.
type Wallet struct {
	UserId    string    `json:"user_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction defines model for Transaction. Amount is signed.
type Transaction struct {
	Id            string    `json:"id"`
	Amount        int64     `json:"amount"`
	Direction     string    `json:"direction"`
	Status        string    `json:"status"`
	Type          string    `json:"type"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
	OrderCode     *int64    `json:"order_code,omitempty"`
	UsageType     *string   `json:"usage_type,omitempty"`
	CourseId      *string   `json:"course_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionList defines model for TransactionList.
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
}

// NewCharge defines model for NewCharge.
type NewCharge struct {
	Amount    int64   `json:"amount" validate:"required,gt=0"`
	Type      string  `json:"type" validate:"required,oneof=ai_usage purchase"`
	UsageType *string `json:"usage_type,omitempty" validate:"omitempty,max=64"`
	CourseId  *string `json:"course_id,omitempty" validate:"omitempty,max=64"`
}

// ChargeResult defines model for ChargeResult.
type ChargeResult struct {
	Transaction Transaction `json:"transaction"`
	Balance     int64       `json:"balance"`
}

// NewTopUp defines model for NewTopUp.
type NewTopUp struct {
	Credits    int64                `json:"credits" validate:"required,gt=0,lte=1000000"`
	BuyerName  *string              `json:"buyer_name,omitempty" validate:"omitempty,max=128"`
	BuyerEmail *openapi_types.Email `json:"buyer_email,omitempty"`
	BuyerPhone *string              `json:"buyer_phone,omitempty" validate:"omitempty,max=20"`
}

// TopUp defines model for TopUp.
type TopUp struct {
	OrderCode   int64     `json:"order_code"`
	CheckoutUrl string    `json:"checkout_url"`
	Credits     int64     `json:"credits"`
	Amount      int64     `json:"amount"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PaymentCheck defines model for PaymentCheck.
type PaymentCheck struct {
	OrderCode int64  `json:"order_code"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

// NewManualRecharge defines model for NewManualRecharge.
type NewManualRecharge struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// NewAuthorEarnings defines model for NewAuthorEarnings.
type NewAuthorEarnings struct {
	CourseId   string `json:"course_id" validate:"required"`
	AuthorId   string `json:"author_id" validate:"required"`
	SaleAmount int64  `json:"sale_amount" validate:"required,gt=0,lte=1000000000000"`
}

// FieldError names one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error defines model for Error.
type Error struct {
	Error     string       `json:"error"`
	Fields    []FieldError `json:"fields,omitempty"`
	Balance   *int64       `json:"balance,omitempty"`
	Shortfall *int64       `json:"shortfall,omitempty"`
}
