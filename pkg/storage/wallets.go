package storage

import (
	"context"

	"github.com/chris/credit-wallet-ledger/pkg/models"
)

// WalletStore defines the interface for managing wallets.
type WalletStore interface {
	// GetWallet retrieves a user's wallet by their user ID.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)

	// CreateWallet creates a new wallet for a user. It fails with ErrWalletExists
	// when the user already has one.
	CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)
}
