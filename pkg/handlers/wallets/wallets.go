package wallets

import (
	"context"
	"net/http"

	"github.com/chris/credit-wallet-ledger/pkg/api"
	"github.com/chris/credit-wallet-ledger/pkg/mapping"
	"github.com/chris/credit-wallet-ledger/pkg/middleware"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"go.uber.org/zap"
)

// Service is the part of the wallet service used by these handlers.
type Service interface {
	OpenWallet(ctx context.Context, userID string) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
}

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Service Service
	Logger  *zap.Logger
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(service Service, logger *zap.Logger) *WalletsHandler {
	return &WalletsHandler{Service: service, Logger: logger}
}

// OpenWallet creates the caller's wallet, or returns it when it already exists.
func (h *WalletsHandler) OpenWallet(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	wallet, err := h.Service.OpenWallet(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiWallet(wallet))
}

// GetWallet returns the caller's wallet and balance.
func (h *WalletsHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	wallet, err := h.Service.GetWallet(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWallet(wallet))
}

func (h *WalletsHandler) fail(w http.ResponseWriter, err error) {
	if status := api.WriteServiceError(w, err); status >= http.StatusInternalServerError {
		h.Logger.Error("wallet request failed", zap.Error(err))
	}
}
