package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// TransactionStatus defines the possible states of a transaction.
type TransactionStatus string

const (
	PENDING   TransactionStatus = "pending"
	COMPLETED TransactionStatus = "completed"
	FAILED    TransactionStatus = "failed"
)

// Direction tells whether a transaction adds credits to or removes credits from a wallet.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// TransactionType is the business reason for a balance change.
type TransactionType string

const (
	Recharge       TransactionType = "recharge"
	Purchase       TransactionType = "purchase"
	AIUsage        TransactionType = "ai_usage"
	AuthorEarnings TransactionType = "author_earnings"
)

const (
	PaymentMethodPayOS  = "payos"
	PaymentMethodManual = "manual"
)

// TransactionDetail is the extensible payload attached to every transaction.
type TransactionDetail struct {
	Type           TransactionType   `json:"type" dynamodbav:"type"`
	PaymentMethod  string            `json:"payment_method,omitempty" dynamodbav:"payment_method,omitempty"`
	OrderCode      *int64            `json:"order_code,omitempty" dynamodbav:"order_code,omitempty"`
	UsageType      string            `json:"usage_type,omitempty" dynamodbav:"usage_type,omitempty"`
	CourseID       string            `json:"course_id,omitempty" dynamodbav:"course_id,omitempty"`
	CurrencyAmount int64             `json:"currency_amount,omitempty" dynamodbav:"currency_amount,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
}

// Value stores the detail as a JSON document.
func (d TransactionDetail) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan reads a JSON document produced by Value.
func (d *TransactionDetail) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*d = TransactionDetail{}
		return nil
	default:
		return errors.New("transaction detail: unsupported source type")
	}
	return json.Unmarshal(raw, d)
}

// Transaction represents the internal domain model for a ledger transaction.
// Amount is signed: credits are positive and debits are negative.
type Transaction struct {
	Id        string            `json:"id" dynamodbav:"id" db:"id"`
	UserId    string            `json:"user_id" dynamodbav:"user_id" db:"user_id"`
	Amount    int64             `json:"amount" dynamodbav:"amount" db:"amount"`
	Direction Direction         `json:"direction" dynamodbav:"direction" db:"direction"`
	Status    TransactionStatus `json:"status" dynamodbav:"status" db:"status"`
	Detail    TransactionDetail `json:"detail" dynamodbav:"detail" db:"detail"`
	CreatedAt time.Time         `json:"created_at" dynamodbav:"created_at" db:"created_at"`
}

// Magnitude returns the absolute value of the transaction amount.
func (t *Transaction) Magnitude() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// NewCreditTransaction builds a completed transaction that adds amount credits to userID.
func NewCreditTransaction(userID string, amount int64, detail TransactionDetail) *Transaction {
	return &Transaction{
		UserId:    userID,
		Amount:    amount,
		Direction: Credit,
		Status:    COMPLETED,
		Detail:    detail,
	}
}

// NewDebitTransaction builds a completed transaction that removes amount credits from userID.
func NewDebitTransaction(userID string, amount int64, detail TransactionDetail) *Transaction {
	return &Transaction{
		UserId:    userID,
		Amount:    -amount,
		Direction: Debit,
		Status:    COMPLETED,
		Detail:    detail,
	}
}

// CompletedSum returns the sum of signed amounts of the completed transactions.
func CompletedSum(txs []Transaction) int64 {
	var sum int64
	for _, tx := range txs {
		if tx.Status == COMPLETED {
			sum += tx.Amount
		}
	}
	return sum
}

// Wallet represents the internal domain model for a user's credit balance.
type Wallet struct {
	UserId    string    `json:"user_id" dynamodbav:"user_id" db:"user_id"`
	Balance   int64     `json:"balance" dynamodbav:"balance" db:"balance"`
	Version   int64     `json:"version" dynamodbav:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at" db:"updated_at"`
}

// SessionStatus mirrors the gateway status of a checkout attempt.
type SessionStatus string

const (
	SessionPending   SessionStatus = "PENDING"
	SessionPaid      SessionStatus = "PAID"
	SessionCancelled SessionStatus = "CANCELLED"
	SessionExpired   SessionStatus = "EXPIRED"
	// SessionUnderpaid is a payment confirmed for less than the price of one credit.
	SessionUnderpaid SessionStatus = "UNDERPAID"
)

// PaymentSession correlates a gateway order code with the user who started the checkout.
type PaymentSession struct {
	OrderCode     int64         `json:"order_code" dynamodbav:"order_code" db:"order_code"`
	UserId        string        `json:"user_id" dynamodbav:"user_id" db:"user_id"`
	Credits       int64         `json:"credits" dynamodbav:"credits" db:"credits"`
	Amount        int64         `json:"amount" dynamodbav:"amount" db:"amount"`
	Description   string        `json:"description" dynamodbav:"description" db:"description"`
	CheckoutURL   string        `json:"checkout_url" dynamodbav:"checkout_url" db:"checkout_url"`
	PaymentLinkId string        `json:"payment_link_id" dynamodbav:"payment_link_id" db:"payment_link_id"`
	Status        SessionStatus `json:"status" dynamodbav:"status" db:"status"`
	PaidAmount    int64         `json:"paid_amount" dynamodbav:"paid_amount" db:"paid_amount"`
	TransactionId string        `json:"transaction_id" dynamodbav:"transaction_id" db:"transaction_id"`
	ExpiresAt     time.Time     `json:"expires_at" dynamodbav:"expires_at" db:"expires_at"`
	CreatedAt     time.Time     `json:"created_at" dynamodbav:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" dynamodbav:"updated_at" db:"updated_at"`
}
