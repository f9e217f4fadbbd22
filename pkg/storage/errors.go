package storage

import (
	"errors"
	"fmt"
)

// ErrInsufficientFunds is returned when a wallet has an insufficient balance for a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrWalletNotFound is returned when the user has no wallet.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrWalletExists is returned when creating a wallet for a user who already has one.
var ErrWalletExists = errors.New("wallet already exists")

// ErrTransactionNotFound is returned when no transaction has the requested ID.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrSessionNotFound is returned when no payment session has the requested order code.
var ErrSessionNotFound = errors.New("payment session not found")

// ErrSessionExists is returned when a payment session with the same order code is already stored.
var ErrSessionExists = errors.New("payment session already exists")

// ErrSessionClosed is returned when a session is expected to be PENDING but is not.
var ErrSessionClosed = errors.New("payment session is not pending")

// ErrAlreadyReconciled is returned when a payment session has already been credited.
// Callers treat it as a successful no-op.
var ErrAlreadyReconciled = errors.New("payment already reconciled")

// LedgerConsistencyError reports that an atomic ledger write did not commit.
// Nothing was applied, so the whole write may be retried.
type LedgerConsistencyError struct {
	Op  string
	Err error
}

func (e *LedgerConsistencyError) Error() string {
	return fmt.Sprintf("ledger write %q did not commit: %v", e.Op, e.Err)
}

func (e *LedgerConsistencyError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a LedgerConsistencyError.
func IsRetryable(err error) bool {
	var lce *LedgerConsistencyError
	return errors.As(err, &lce)
}
