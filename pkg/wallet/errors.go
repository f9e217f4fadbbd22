package wallet

import (
	"errors"
	"fmt"

	"github.com/chris/credit-wallet-ledger/pkg/storage"
)

var (
	// ErrInvalidAmount is returned for a zero or negative amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidChargeType is returned when a charge is not ai_usage or purchase.
	ErrInvalidChargeType = errors.New("invalid charge type")
	// ErrManualRechargeForbidden is returned when the actor may not credit the wallet.
	ErrManualRechargeForbidden = errors.New("manual recharge is not allowed for this actor")
	// ErrPaymentsUnavailable is returned when no payment gateway is configured.
	ErrPaymentsUnavailable = errors.New("payments are not available")
)

// InsufficientBalanceError is returned when a charge exceeds the balance.
// Nothing was charged.
type InsufficientBalanceError struct {
	Balance int64
	Amount  int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d credits, need %d", e.Balance, e.Amount)
}

// Shortfall is the number of credits missing for the charge.
func (e *InsufficientBalanceError) Shortfall() int64 {
	if e.Amount < e.Balance {
		return 0
	}
	return e.Amount - e.Balance
}

func (e *InsufficientBalanceError) Unwrap() error {
	return storage.ErrInsufficientFunds
}
