package payments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/chris/credit-wallet-ledger/pkg/api"
	"github.com/chris/credit-wallet-ledger/pkg/mapping"
	"github.com/chris/credit-wallet-ledger/pkg/middleware"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/poller"
	"github.com/chris/credit-wallet-ledger/pkg/reconcile"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/chris/credit-wallet-ledger/pkg/wallet"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"
)

const maxWebhookBytes = 64 << 10

// TopUpService starts checkouts.
type TopUpService interface {
	StartTopUp(ctx context.Context, userID string, credits int64, buyer wallet.Buyer) (*wallet.TopUp, error)
}

// Reconciler applies gateway confirmations.
type Reconciler interface {
	HandleWebhook(ctx context.Context, body []byte) (reconcile.Outcome, error)
	CheckAndReconcile(ctx context.Context, orderCode int64) (reconcile.PollStatus, error)
}

// SessionReader looks up who owns an order.
type SessionReader interface {
	GetSession(ctx context.Context, orderCode int64) (*models.PaymentSession, error)
}

// PaymentsHandler serves top-ups, status checks and gateway webhooks.
type PaymentsHandler struct {
	TopUps     TopUpService
	Reconciler Reconciler
	Sessions   SessionReader
	Logger     *zap.Logger
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(topUps TopUpService, reconciler Reconciler, sessions SessionReader, logger *zap.Logger) *PaymentsHandler {
	return &PaymentsHandler{TopUps: topUps, Reconciler: reconciler, Sessions: sessions, Logger: logger}
}

// StartTopUp creates a hosted checkout for the caller.
func (h *PaymentsHandler) StartTopUp(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	var body api.NewTopUp
	if err := api.Decode(r, &body); err != nil {
		api.WriteRequestError(w, err)
		return
	}

	topUp, err := h.TopUps.StartTopUp(r.Context(), id.UserID, body.Credits, mapping.ToDomainBuyer(&body))
	if err != nil {
		h.fail(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiTopUp(topUp))
}

// CheckPayment runs one status check for an order owned by the caller.
func (h *PaymentsHandler) CheckPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	var orderCode int64
	err := runtime.BindStyledParameterWithOptions("simple", "orderCode", chi.URLParam(r, "orderCode"), &orderCode,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderCode: %s", err))
		return
	}

	session, err := h.Sessions.GetSession(r.Context(), orderCode)
	if err != nil {
		h.fail(w, err)
		return
	}
	if session.UserId != id.UserID && !id.IsAdmin() {
		api.WriteServiceError(w, storage.ErrSessionNotFound)
		return
	}

	status, err := h.Reconciler.CheckAndReconcile(r.Context(), orderCode)
	if err != nil {
		h.fail(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.PaymentCheck{
		OrderCode: orderCode,
		Status:    string(status),
		Message:   poller.StateFor(status).Message(),
	})
}

// Webhook receives payment notifications. A 2xx answer acknowledges the
// delivery; any other answer makes the gateway deliver it again.
func (h *PaymentsHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	outcome, err := h.Reconciler.HandleWebhook(r.Context(), body)
	if err != nil {
		if errors.Is(err, reconcile.ErrInvalidSignature) {
			api.WriteError(w, http.StatusUnauthorized, "invalid signature")
			return
		}
		h.Logger.Error("webhook not applied", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "outcome": outcome})
}

func (h *PaymentsHandler) fail(w http.ResponseWriter, err error) {
	if status := api.WriteServiceError(w, err); status >= http.StatusInternalServerError {
		h.Logger.Error("payment request failed", zap.Error(err))
	}
}
