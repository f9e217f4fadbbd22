package storage

import (
	"context"

	"github.com/chris/credit-wallet-ledger/pkg/models"
)

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// ListTransactionsByUserID retrieves the most recent transactions of a user, newest first.
	ListTransactionsByUserID(ctx context.Context, userID string, limit int32) ([]models.Transaction, error)
}
