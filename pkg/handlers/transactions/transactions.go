package transactions

import (
	"context"
	"net/http"
	"strconv"

	"github.com/chris/credit-wallet-ledger/pkg/api"
	"github.com/chris/credit-wallet-ledger/pkg/mapping"
	"github.com/chris/credit-wallet-ledger/pkg/middleware"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"go.uber.org/zap"
)

// Service is the part of the wallet service used by these handlers.
type Service interface {
	ListTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
	Charge(ctx context.Context, userID string, amount int64, chargeType models.TransactionType, detail models.TransactionDetail) (*models.Transaction, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
}

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Service Service
	Logger  *zap.Logger
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(service Service, logger *zap.Logger) *TransactionsHandler {
	return &TransactionsHandler{Service: service, Logger: logger}
}

// ListTransactions returns the caller's most recent transactions.
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	txs, err := h.Service.ListTransactions(r.Context(), id.UserID, limit)
	if err != nil {
		h.fail(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiTransactionList(txs))
}

// Charge spends credits from the caller's wallet.
func (h *TransactionsHandler) Charge(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	var body api.NewCharge
	if err := api.Decode(r, &body); err != nil {
		api.WriteRequestError(w, err)
		return
	}

	chargeType, detail := mapping.ToDomainCharge(&body)
	tx, err := h.Service.Charge(r.Context(), id.UserID, body.Amount, chargeType, detail)
	if err != nil {
		h.fail(w, err)
		return
	}

	balance, err := h.Service.GetBalance(r.Context(), id.UserID)
	if err != nil {
		h.Logger.Warn("charged but failed to read balance", zap.String("transaction_id", tx.Id), zap.Error(err))
	}

	api.WriteJSON(w, http.StatusCreated, api.ChargeResult{
		Transaction: mapping.ToApiTransaction(tx),
		Balance:     balance,
	})
}

func (h *TransactionsHandler) fail(w http.ResponseWriter, err error) {
	if status := api.WriteServiceError(w, err); status >= http.StatusInternalServerError {
		h.Logger.Error("transaction request failed", zap.Error(err))
	}
}
