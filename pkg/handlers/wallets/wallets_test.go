package wallets_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/credit-wallet-ledger/pkg/api"
	"github.com/chris/credit-wallet-ledger/pkg/handlers/wallets"
	"github.com/chris/credit-wallet-ledger/pkg/middleware"
	"github.com/chris/credit-wallet-ledger/pkg/storage/memory"
	"github.com/chris/credit-wallet-ledger/pkg/storage/mocks"
	"github.com/chris/credit-wallet-ledger/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), middleware.Identity{UserID: userID, Role: middleware.RoleUser}))
}

func TestOpenWallet(t *testing.T) {
	svc := wallet.NewService(memory.New(), nil, nil, nil, zap.NewNop(), wallet.Config{})
	h := wallets.NewWalletsHandler(svc, zap.NewNop())

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.OpenWallet(rr, asUser(httptest.NewRequest(http.MethodPost, "/wallet", nil), "user-c"))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var body api.Wallet
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "user-c", body.UserId)
		assert.Zero(t, body.Balance)
	}
}

func TestGetWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := wallet.NewService(memory.New(), nil, nil, nil, zap.NewNop(), wallet.Config{})
		_, err := svc.OpenWallet(context.Background(), "user-c")
		require.NoError(t, err)
		h := wallets.NewWalletsHandler(svc, zap.NewNop())

		rr := httptest.NewRecorder()
		h.GetWallet(rr, asUser(httptest.NewRequest(http.MethodGet, "/wallet", nil), "user-c"))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		svc := wallet.NewService(memory.New(), nil, nil, nil, zap.NewNop(), wallet.Config{})
		h := wallets.NewWalletsHandler(svc, zap.NewNop())

		rr := httptest.NewRecorder()
		h.GetWallet(rr, asUser(httptest.NewRequest(http.MethodGet, "/wallet", nil), "ghost"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "wallet not found")
	})

	t.Run("Storage Failure", func(t *testing.T) {
		mockStorage := mocks.NewStorage(t)
		mockStorage.On("GetWallet", mock.Anything, "user-c").Return(nil, errors.New("connection reset")).Once()
		svc := wallet.NewService(mockStorage, nil, nil, nil, zap.NewNop(), wallet.Config{})
		h := wallets.NewWalletsHandler(svc, zap.NewNop())

		rr := httptest.NewRecorder()
		h.GetWallet(rr, asUser(httptest.NewRequest(http.MethodGet, "/wallet", nil), "user-c"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "connection reset")
	})
}
