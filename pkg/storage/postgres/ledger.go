package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/jmoiron/sqlx"
)

// Debit decrements the wallet with a floor of zero and records the transaction in one DB transaction.
func (s *Store) Debit(ctx context.Context, tx *models.Transaction) error {
	storage.PrepareTransaction(tx)

	dbTx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return &storage.LedgerConsistencyError{Op: "debit", Err: err}
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance = balance - $1, version = version + 1, updated_at = $2
		 WHERE user_id = $3 AND balance >= $1`,
		tx.Magnitude(), tx.CreatedAt, tx.UserId,
	)
	if err != nil {
		return &storage.LedgerConsistencyError{Op: "debit", Err: fmt.Errorf("failed to update wallet: %w", err)}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &storage.LedgerConsistencyError{Op: "debit", Err: err}
	}
	if n == 0 {
		exists, err := walletExists(ctx, dbTx, tx.UserId)
		if err != nil {
			return &storage.LedgerConsistencyError{Op: "debit", Err: err}
		}
		if exists {
			return storage.ErrInsufficientFunds
		}
		return fmt.Errorf("wallet for user ID %s: %w", tx.UserId, storage.ErrWalletNotFound)
	}

	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return &storage.LedgerConsistencyError{Op: "debit", Err: fmt.Errorf("failed to insert transaction: %w", err)}
	}

	if err := dbTx.Commit(); err != nil {
		return &storage.LedgerConsistencyError{Op: "debit", Err: fmt.Errorf("failed to commit: %w", err)}
	}
	return nil
}

// Credit increments the wallet and records the transaction in one DB transaction.
func (s *Store) Credit(ctx context.Context, tx *models.Transaction) error {
	storage.PrepareTransaction(tx)

	dbTx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return &storage.LedgerConsistencyError{Op: "credit", Err: err}
	}
	defer dbTx.Rollback()

	if err := creditWallet(ctx, dbTx, tx); err != nil {
		return wrapCreditErr("credit", err)
	}

	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return &storage.LedgerConsistencyError{Op: "credit", Err: fmt.Errorf("failed to insert transaction: %w", err)}
	}

	if err := dbTx.Commit(); err != nil {
		return &storage.LedgerConsistencyError{Op: "credit", Err: fmt.Errorf("failed to commit: %w", err)}
	}
	return nil
}

func creditWallet(ctx context.Context, dbTx *sqlx.Tx, tx *models.Transaction) error {
	res, err := dbTx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance = balance + $1, version = version + 1, updated_at = $2
		 WHERE user_id = $3`,
		tx.Amount, tx.CreatedAt, tx.UserId,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("wallet for user ID %s: %w", tx.UserId, storage.ErrWalletNotFound)
	}
	return nil
}

// wrapCreditErr passes sentinel errors through and marks everything else as uncommitted.
func wrapCreditErr(op string, err error) error {
	if errors.Is(err, storage.ErrWalletNotFound) {
		return err
	}
	return &storage.LedgerConsistencyError{Op: op, Err: err}
}

func walletExists(ctx context.Context, dbTx *sqlx.Tx, userID string) (bool, error) {
	var exists bool
	err := dbTx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM wallets WHERE user_id = $1)`, userID)
	return exists, err
}
