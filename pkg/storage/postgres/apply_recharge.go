package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
)

// ApplyRecharge marks the session PAID, records the transaction and credits the
// wallet in one DB transaction. The session row is the lock: a second delivery
// finds it PAID and gets ErrAlreadyReconciled.
func (s *Store) ApplyRecharge(ctx context.Context, session *models.PaymentSession, tx *models.Transaction) error {
	storage.PrepareTransaction(tx)

	dbTx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return &storage.LedgerConsistencyError{Op: "apply recharge", Err: err}
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`UPDATE payment_sessions
		 SET status = $1, paid_amount = $2, transaction_id = $3, updated_at = $4
		 WHERE order_code = $5 AND status <> $1`,
		models.SessionPaid, tx.Detail.CurrencyAmount, tx.Id, tx.CreatedAt, session.OrderCode,
	)
	if err != nil {
		return &storage.LedgerConsistencyError{Op: "apply recharge", Err: fmt.Errorf("failed to update payment session: %w", err)}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &storage.LedgerConsistencyError{Op: "apply recharge", Err: err}
	}
	if n == 0 {
		var status models.SessionStatus
		err := dbTx.GetContext(ctx, &status, `SELECT status FROM payment_sessions WHERE order_code = $1`, session.OrderCode)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("order code %d: %w", session.OrderCode, storage.ErrSessionNotFound)
		}
		if err != nil {
			return &storage.LedgerConsistencyError{Op: "apply recharge", Err: err}
		}
		return storage.ErrAlreadyReconciled
	}

	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyReconciled
		}
		return &storage.LedgerConsistencyError{Op: "apply recharge", Err: fmt.Errorf("failed to insert transaction: %w", err)}
	}

	if err := creditWallet(ctx, dbTx, tx); err != nil {
		return wrapCreditErr("apply recharge", err)
	}

	if err := dbTx.Commit(); err != nil {
		return &storage.LedgerConsistencyError{Op: "apply recharge", Err: fmt.Errorf("failed to commit: %w", err)}
	}

	session.Status = models.SessionPaid
	session.PaidAmount = tx.Detail.CurrencyAmount
	session.TransactionId = tx.Id
	return nil
}
