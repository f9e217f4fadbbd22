package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
)

const walletColumns = "user_id, balance, version, created_at, updated_at"

// CreateWallet inserts a new wallet row.
func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	now := time.Now().UTC()
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = now
	}
	wallet.UpdatedAt = now

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO wallets (user_id, balance, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO NOTHING`,
		wallet.UserId, wallet.Balance, wallet.Version, wallet.CreatedAt, wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet in postgres: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet in postgres: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("wallet for user ID %s: %w", wallet.UserId, storage.ErrWalletExists)
	}

	return wallet, nil
}

// GetWallet retrieves a wallet by user ID.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.GetContext(ctx, &wallet, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrWalletNotFound)
		}
		return nil, fmt.Errorf("failed to get wallet from postgres: %w", err)
	}
	return &wallet, nil
}
