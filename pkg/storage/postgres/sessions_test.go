package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionRowColumns = []string{
	"order_code", "user_id", "credits", "amount", "description", "checkout_url", "payment_link_id",
	"status", "paid_amount", "transaction_id", "expires_at", "created_at", "updated_at",
}

func TestCreateSession(t *testing.T) {
	session := func() *models.PaymentSession {
		return &models.PaymentSession{
			OrderCode: 42,
			UserId:    "user1",
			Credits:   100,
			Amount:    100000,
			Status:    models.SessionPending,
			ExpiresAt: time.Now().Add(15 * time.Minute),
		}
	}

	t.Run("Success", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment_sessions")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.CreateSession(context.Background(), session()))
	})

	t.Run("Duplicate", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment_sessions")).
			WillReturnError(&pq.Error{Code: "23505"})

		err := store.CreateSession(context.Background(), session())
		assert.ErrorIs(t, err, storage.ErrSessionExists)
	})
}

func TestGetSession(t *testing.T) {
	store, mock := setupStoreMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_sessions WHERE order_code = $1")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow(42, "user1", 100, 100000, "Nap 100 credits", "https://pay.example/42", "link-1",
				"PENDING", 0, "", now.Add(15*time.Minute), now, now))

	session, err := store.GetSession(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "user1", session.UserId)
	assert.Equal(t, models.SessionPending, session.Status)
	assert.Equal(t, int64(100000), session.Amount)
}

func TestCloseSession(t *testing.T) {
	closeSQL := regexp.QuoteMeta("UPDATE payment_sessions SET status = $1, updated_at = $2 WHERE order_code = $3 AND status = $4")
	existsSQL := regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM payment_sessions WHERE order_code = $1)")

	t.Run("Success", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectExec(closeSQL).
			WithArgs("EXPIRED", sqlmock.AnyArg(), 42, "PENDING").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.CloseSession(context.Background(), 42, models.SessionExpired))
	})

	t.Run("Not Pending", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectExec(closeSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(existsSQL).WithArgs(42).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := store.CloseSession(context.Background(), 42, models.SessionCancelled)
		assert.ErrorIs(t, err, storage.ErrSessionClosed)
	})

	t.Run("Missing", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectExec(closeSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(existsSQL).WithArgs(42).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := store.CloseSession(context.Background(), 42, models.SessionCancelled)
		assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	})
}

func TestListStaleSessions(t *testing.T) {
	store, mock := setupStoreMock(t)
	old := time.Now().Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND created_at < $2 ORDER BY created_at")).
		WithArgs("PENDING", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow(1, "user1", 10, 10000, "", "", "", "PENDING", 0, "", old, old, old).
			AddRow(2, "user2", 20, 20000, "", "", "", "PENDING", 0, "", old, old, old))

	sessions, err := store.ListStaleSessions(context.Background(), 20*time.Minute)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, int64(2), sessions[1].OrderCode)
}
