package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/gateway"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/reconcile/mocks"
	"github.com/chris/credit-wallet-ledger/pkg/storage/memory"
	storagemocks "github.com/chris/credit-wallet-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReconcileStale(t *testing.T) {
	ctx := context.Background()

	t.Run("Mixed Outcomes", func(t *testing.T) {
		s := memory.New()
		_, err := s.CreateWallet(ctx, &models.Wallet{UserId: "user1"})
		require.NoError(t, err)

		old := time.Now().UTC().Add(-time.Hour)
		for code := int64(1); code <= 5; code++ {
			require.NoError(t, s.CreateSession(ctx, &models.PaymentSession{
				OrderCode: code,
				UserId:    "user1",
				Credits:   50,
				Amount:    50000,
				Status:    models.SessionPending,
				CreatedAt: old.Add(time.Duration(code) * time.Second),
			}))
		}
		// Recent sessions are left to the poller.
		require.NoError(t, s.CreateSession(ctx, &models.PaymentSession{OrderCode: 6, UserId: "user1", Status: models.SessionPending}))

		gw := mocks.NewGateway(t)
		gw.On("CheckPaymentStatus", mock.Anything, int64(1)).Return(&gateway.PaymentStatus{Status: gateway.StatusPaid, Amount: 50000, AmountPaid: 50000}, nil).Once()
		gw.On("CheckPaymentStatus", mock.Anything, int64(2)).Return(&gateway.PaymentStatus{Status: gateway.StatusExpired}, nil).Once()
		gw.On("CheckPaymentStatus", mock.Anything, int64(3)).Return(&gateway.PaymentStatus{Status: gateway.StatusPending}, nil).Once()
		gw.On("CheckPaymentStatus", mock.Anything, int64(4)).Return(nil, errors.New("connection reset")).Once()
		gw.On("CheckPaymentStatus", mock.Anything, int64(5)).Return(&gateway.PaymentStatus{Status: gateway.StatusPaid, Amount: 500, AmountPaid: 500}, nil).Once()

		engine := NewEngine(s, gw, nil, zap.NewNop(), fastRetry())
		report, err := engine.ReconcileStale(ctx, 20*time.Minute)
		require.NoError(t, err)

		assert.Equal(t, SweepReport{Checked: 5, Paid: 1, Closed: 2, Pending: 1, Failed: 1}, report)
		assertBalance(t, s, 50)

		session, err := s.GetSession(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, models.SessionExpired, session.Status)

		// Only the pending and the failed session are left for the next pass.
		stale, err := s.ListStaleSessions(ctx, 20*time.Minute)
		require.NoError(t, err)
		assert.Len(t, stale, 2)
	})

	t.Run("Nothing Stale", func(t *testing.T) {
		engine := NewEngine(memory.New(), mocks.NewGateway(t), nil, zap.NewNop())

		report, err := engine.ReconcileStale(ctx, 20*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, SweepReport{}, report)
	})

	t.Run("List Failure", func(t *testing.T) {
		store := storagemocks.NewStorage(t)
		store.On("ListStaleSessions", mock.Anything, 20*time.Minute).Return(nil, errors.New("scan failed"))

		engine := NewEngine(store, mocks.NewGateway(t), nil, zap.NewNop())
		_, err := engine.ReconcileStale(ctx, 20*time.Minute)
		assert.ErrorContains(t, err, "scan failed")
	})
}
