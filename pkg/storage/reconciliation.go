package storage

import (
	"context"

	"github.com/chris/credit-wallet-ledger/pkg/models"
)

// ReconciliationStore applies confirmed gateway payments.
type ReconciliationStore interface {
	// ApplyRecharge marks the session PAID, inserts tx and credits the wallet in
	// a single atomic write. A session that is already PAID yields
	// ErrAlreadyReconciled and nothing is written.
	ApplyRecharge(ctx context.Context, session *models.PaymentSession, tx *models.Transaction) error
}
