package storage

import (
	"context"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/google/uuid"
)

// LedgerWriter mutates balances. Each call changes the wallet balance and inserts
// the completed transaction in one atomic write, or does neither.
type LedgerWriter interface {
	// Debit removes the magnitude of tx.Amount from the wallet. The balance never
	// drops below zero: the write fails with ErrInsufficientFunds instead.
	Debit(ctx context.Context, tx *models.Transaction) error

	// Credit adds tx.Amount to the wallet.
	Credit(ctx context.Context, tx *models.Transaction) error
}

// PrepareTransaction fills in the server-side fields of a new transaction.
func PrepareTransaction(tx *models.Transaction) {
	if tx.Id == "" {
		tx.Id = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
}
