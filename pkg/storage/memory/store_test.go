package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T, userID string, balance int64) *Store {
	t.Helper()
	s := New()
	_, err := s.CreateWallet(context.Background(), &models.Wallet{UserId: userID})
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, s.Credit(context.Background(), models.NewCreditTransaction(userID, balance, models.TransactionDetail{Type: models.Recharge})))
	}
	return s
}

func TestCreateWalletTwice(t *testing.T) {
	s := New()
	_, err := s.CreateWallet(context.Background(), &models.Wallet{UserId: "user1"})
	require.NoError(t, err)

	_, err = s.CreateWallet(context.Background(), &models.Wallet{UserId: "user1"})
	assert.ErrorIs(t, err, storage.ErrWalletExists)
}

func TestDebitFloor(t *testing.T) {
	s := seededStore(t, "user1", 10)

	err := s.Debit(context.Background(), models.NewDebitTransaction("user1", 11, models.TransactionDetail{Type: models.AIUsage}))
	assert.ErrorIs(t, err, storage.ErrInsufficientFunds)

	require.NoError(t, s.Debit(context.Background(), models.NewDebitTransaction("user1", 10, models.TransactionDetail{Type: models.AIUsage})))
	w, err := s.GetWallet(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	s := seededStore(t, "user1", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Debit(context.Background(), models.NewDebitTransaction("user1", 3, models.TransactionDetail{Type: models.AIUsage}))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	w, err := s.GetWallet(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.Balance)

	txs, err := s.ListTransactionsByUserID(context.Background(), "user1", 100)
	require.NoError(t, err)
	assert.Equal(t, w.Balance, models.CompletedSum(txs))
}

func TestApplyRechargeOnce(t *testing.T) {
	s := seededStore(t, "user1", 0)
	require.NoError(t, s.CreateSession(context.Background(), &models.PaymentSession{OrderCode: 7, UserId: "user1", Status: models.SessionPending}))

	code := int64(7)
	detail := models.TransactionDetail{Type: models.Recharge, OrderCode: &code, CurrencyAmount: 100000}

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.ApplyRecharge(context.Background(), &models.PaymentSession{OrderCode: 7}, models.NewCreditTransaction("user1", 100, detail))
		}(i)
	}
	wg.Wait()

	applied := 0
	for _, err := range errs {
		if err == nil {
			applied++
		} else {
			assert.ErrorIs(t, err, storage.ErrAlreadyReconciled)
		}
	}
	assert.Equal(t, 1, applied)

	w, err := s.GetWallet(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), w.Balance)

	session, err := s.GetSession(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.SessionPaid, session.Status)
	assert.Equal(t, int64(100000), session.PaidAmount)
}

func TestCloseSession(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateSession(context.Background(), &models.PaymentSession{OrderCode: 1, Status: models.SessionPending}))

	require.NoError(t, s.CloseSession(context.Background(), 1, models.SessionCancelled))
	assert.ErrorIs(t, s.CloseSession(context.Background(), 1, models.SessionExpired), storage.ErrSessionClosed)
	assert.ErrorIs(t, s.CloseSession(context.Background(), 2, models.SessionExpired), storage.ErrSessionNotFound)
}

func TestListStaleSessions(t *testing.T) {
	s := New()
	old := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.CreateSession(context.Background(), &models.PaymentSession{OrderCode: 1, Status: models.SessionPending, CreatedAt: old}))
	require.NoError(t, s.CreateSession(context.Background(), &models.PaymentSession{OrderCode: 2, Status: models.SessionPending}))
	require.NoError(t, s.CreateSession(context.Background(), &models.PaymentSession{OrderCode: 3, Status: models.SessionPaid, CreatedAt: old}))

	stale, err := s.ListStaleSessions(context.Background(), 20*time.Minute)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, int64(1), stale[0].OrderCode)
}
