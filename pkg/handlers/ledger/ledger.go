package ledger

import (
	"context"
	"net/http"

	"github.com/chris/credit-wallet-ledger/pkg/api"
	"github.com/chris/credit-wallet-ledger/pkg/mapping"
	"github.com/chris/credit-wallet-ledger/pkg/middleware"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/wallet"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Service is the part of the wallet service used by these handlers.
type Service interface {
	ManualRecharge(ctx context.Context, actor wallet.Actor, userID string, amount int64) (*models.Transaction, error)
	RecordAuthorEarnings(ctx context.Context, courseID, authorID string, saleAmount int64) (*models.Transaction, error)
}

// LedgerHandler serves credits that are not bought through the gateway.
type LedgerHandler struct {
	Service Service
	Logger  *zap.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(service Service, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{Service: service, Logger: logger}
}

// ManualRecharge credits the wallet named in the path. The actor is the caller.
func (h *LedgerHandler) ManualRecharge(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	var body api.NewManualRecharge
	if err := api.Decode(r, &body); err != nil {
		api.WriteRequestError(w, err)
		return
	}

	actor := wallet.Actor{UserID: id.UserID, Admin: id.IsAdmin()}
	tx, err := h.Service.ManualRecharge(r.Context(), actor, userID, body.Amount)
	if err != nil {
		h.fail(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// RecordAuthorEarnings credits an author for a course sale.
func (h *LedgerHandler) RecordAuthorEarnings(w http.ResponseWriter, r *http.Request) {
	var body api.NewAuthorEarnings
	if err := api.Decode(r, &body); err != nil {
		api.WriteRequestError(w, err)
		return
	}

	tx, err := h.Service.RecordAuthorEarnings(r.Context(), body.CourseId, body.AuthorId, body.SaleAmount)
	if err != nil {
		h.fail(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

func (h *LedgerHandler) fail(w http.ResponseWriter, err error) {
	if status := api.WriteServiceError(w, err); status >= http.StatusInternalServerError {
		h.Logger.Error("ledger request failed", zap.Error(err))
	}
}
