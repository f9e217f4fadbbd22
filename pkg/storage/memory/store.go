// Package memory is an in-process Storage used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
)

// Store keeps wallets, transactions and sessions in maps behind one mutex.
// Every ledger write happens under the lock, which gives it the same
// all-or-nothing behaviour as the database backends.
type Store struct {
	mu           sync.Mutex
	wallets      map[string]*models.Wallet
	transactions map[string]*models.Transaction
	sessions     map[int64]*models.PaymentSession
	byOrderCode  map[int64]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		wallets:      make(map[string]*models.Wallet),
		transactions: make(map[string]*models.Transaction),
		sessions:     make(map[int64]*models.PaymentSession),
		byOrderCode:  make(map[int64]string),
	}
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) CreateWallet(_ context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[wallet.UserId]; ok {
		return nil, fmt.Errorf("wallet for user ID %s: %w", wallet.UserId, storage.ErrWalletExists)
	}
	now := time.Now().UTC()
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = now
	}
	wallet.UpdatedAt = now

	stored := *wallet
	s.wallets[wallet.UserId] = &stored
	return wallet, nil
}

func (s *Store) GetWallet(_ context.Context, userID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrWalletNotFound)
	}
	out := *w
	return &out, nil
}

func (s *Store) GetTransaction(_ context.Context, txID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[txID]
	if !ok {
		return nil, fmt.Errorf("transaction with ID %s: %w", txID, storage.ErrTransactionNotFound)
	}
	out := *tx
	return &out, nil
}

func (s *Store) ListTransactionsByUserID(_ context.Context, userID string, limit int32) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := []models.Transaction{}
	for _, tx := range s.transactions {
		if tx.UserId == userID {
			txs = append(txs, *tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	if limit > 0 && int(limit) < len(txs) {
		txs = txs[:limit]
	}
	return txs, nil
}

func (s *Store) Debit(_ context.Context, tx *models.Transaction) error {
	storage.PrepareTransaction(tx)

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[tx.UserId]
	if !ok {
		return fmt.Errorf("wallet for user ID %s: %w", tx.UserId, storage.ErrWalletNotFound)
	}
	if w.Balance < tx.Magnitude() {
		return storage.ErrInsufficientFunds
	}
	s.apply(w, tx, -tx.Magnitude())
	return nil
}

func (s *Store) Credit(_ context.Context, tx *models.Transaction) error {
	storage.PrepareTransaction(tx)

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[tx.UserId]
	if !ok {
		return fmt.Errorf("wallet for user ID %s: %w", tx.UserId, storage.ErrWalletNotFound)
	}
	s.apply(w, tx, tx.Amount)
	return nil
}

func (s *Store) ApplyRecharge(_ context.Context, session *models.PaymentSession, tx *models.Transaction) error {
	storage.PrepareTransaction(tx)

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[session.OrderCode]
	if !ok {
		return fmt.Errorf("order code %d: %w", session.OrderCode, storage.ErrSessionNotFound)
	}
	if stored.Status == models.SessionPaid {
		return storage.ErrAlreadyReconciled
	}
	if tx.Detail.OrderCode != nil {
		if _, dup := s.byOrderCode[*tx.Detail.OrderCode]; dup {
			return storage.ErrAlreadyReconciled
		}
	}
	w, ok := s.wallets[tx.UserId]
	if !ok {
		return fmt.Errorf("wallet for user ID %s: %w", tx.UserId, storage.ErrWalletNotFound)
	}

	s.apply(w, tx, tx.Amount)
	if tx.Detail.OrderCode != nil {
		s.byOrderCode[*tx.Detail.OrderCode] = tx.Id
	}
	stored.Status = models.SessionPaid
	stored.PaidAmount = tx.Detail.CurrencyAmount
	stored.TransactionId = tx.Id
	stored.UpdatedAt = tx.CreatedAt

	session.Status = stored.Status
	session.PaidAmount = stored.PaidAmount
	session.TransactionId = stored.TransactionId
	return nil
}

// apply must be called with the lock held.
func (s *Store) apply(w *models.Wallet, tx *models.Transaction, delta int64) {
	w.Balance += delta
	w.Version++
	w.UpdatedAt = tx.CreatedAt
	stored := *tx
	s.transactions[tx.Id] = &stored
}

func (s *Store) CreateSession(_ context.Context, session *models.PaymentSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.OrderCode]; ok {
		return fmt.Errorf("order code %d: %w", session.OrderCode, storage.ErrSessionExists)
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	stored := *session
	s.sessions[session.OrderCode] = &stored
	return nil
}

func (s *Store) GetSession(_ context.Context, orderCode int64) (*models.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[orderCode]
	if !ok {
		return nil, fmt.Errorf("order code %d: %w", orderCode, storage.ErrSessionNotFound)
	}
	out := *session
	return &out, nil
}

func (s *Store) CloseSession(_ context.Context, orderCode int64, status models.SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[orderCode]
	if !ok {
		return fmt.Errorf("order code %d: %w", orderCode, storage.ErrSessionNotFound)
	}
	if session.Status != models.SessionPending {
		return fmt.Errorf("order code %d: %w", orderCode, storage.ErrSessionClosed)
	}
	session.Status = status
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) ListStaleSessions(_ context.Context, maxAge time.Duration) ([]models.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-maxAge)
	sessions := []models.PaymentSession{}
	for _, session := range s.sessions {
		if session.Status == models.SessionPending && session.CreatedAt.Before(cutoff) {
			sessions = append(sessions, *session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.Before(sessions[j].CreatedAt) })
	return sessions, nil
}
