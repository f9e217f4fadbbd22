package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	debitWalletSQL     = regexp.QuoteMeta("UPDATE wallets SET balance = balance - $1, version = version + 1, updated_at = $2 WHERE user_id = $3 AND balance >= $1")
	creditWalletSQL    = regexp.QuoteMeta("UPDATE wallets SET balance = balance + $1, version = version + 1, updated_at = $2 WHERE user_id = $3")
	insertTxSQL        = regexp.QuoteMeta("INSERT INTO transactions (id, user_id, amount, direction, status, detail, order_code, created_at)")
	walletExistsSQL    = regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM wallets WHERE user_id = $1)")
	usageDetail        = models.TransactionDetail{Type: models.AIUsage, UsageType: "quiz_generation"}
	manualCreditDetail = models.TransactionDetail{Type: models.Recharge, PaymentMethod: models.PaymentMethodManual}
)

func TestDebit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(debitWalletSQL).
			WithArgs(5, sqlmock.AnyArg(), "user1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertTxSQL).
			WithArgs(sqlmock.AnyArg(), "user1", -5, "debit", "completed", sqlmock.AnyArg(), nil, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx := models.NewDebitTransaction("user1", 5, usageDetail)
		require.NoError(t, store.Debit(context.Background(), tx))
		assert.NotEmpty(t, tx.Id)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(debitWalletSQL).
			WithArgs(500, sqlmock.AnyArg(), "user1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(walletExistsSQL).
			WithArgs("user1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := store.Debit(context.Background(), models.NewDebitTransaction("user1", 500, usageDetail))
		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
	})

	t.Run("Wallet Not Found", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(debitWalletSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(walletExistsSQL).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err := store.Debit(context.Background(), models.NewDebitTransaction("ghost", 5, usageDetail))
		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
	})

	t.Run("Insert Fails", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(debitWalletSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertTxSQL).WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := store.Debit(context.Background(), models.NewDebitTransaction("user1", 5, usageDetail))
		assert.True(t, storage.IsRetryable(err))
	})
}

func TestCredit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(creditWalletSQL).
			WithArgs(50, sqlmock.AnyArg(), "user1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertTxSQL).
			WithArgs(sqlmock.AnyArg(), "user1", 50, "credit", "completed", sqlmock.AnyArg(), nil, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, store.Credit(context.Background(), models.NewCreditTransaction("user1", 50, manualCreditDetail)))
	})

	t.Run("Wallet Not Found", func(t *testing.T) {
		store, mock := setupStoreMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(creditWalletSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.Credit(context.Background(), models.NewCreditTransaction("ghost", 50, manualCreditDetail))
		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
		assert.False(t, storage.IsRetryable(err))
	})
}
