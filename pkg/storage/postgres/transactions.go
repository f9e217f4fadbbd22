package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/jmoiron/sqlx"
)

const transactionColumns = "id, user_id, amount, direction, status, detail, created_at"

// GetTransaction retrieves a single transaction by its ID.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.DB.GetContext(ctx, &tx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, txID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction with ID %s: %w", txID, storage.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction from postgres: %w", err)
	}
	return &tx, nil
}

// ListTransactionsByUserID returns the newest transactions of a user first.
func (s *Store) ListTransactionsByUserID(ctx context.Context, userID string, limit int32) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := s.DB.SelectContext(ctx, &txs,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query for transactions by user ID: %w", err)
	}
	return txs, nil
}

func insertTransaction(ctx context.Context, dbTx *sqlx.Tx, tx *models.Transaction) error {
	_, err := dbTx.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount, direction, status, detail, order_code, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.Id, tx.UserId, tx.Amount, tx.Direction, tx.Status, tx.Detail, tx.Detail.OrderCode, tx.CreatedAt,
	)
	return err
}
