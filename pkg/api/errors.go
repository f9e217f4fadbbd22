package api

import (
	"errors"
	"net/http"

	"github.com/chris/credit-wallet-ledger/pkg/gateway"
	"github.com/chris/credit-wallet-ledger/pkg/reconcile"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/chris/credit-wallet-ledger/pkg/wallet"
)

// WriteServiceError maps a domain error to its response and returns the status written.
// Unrecognised errors become a 500 without details.
func WriteServiceError(w http.ResponseWriter, err error) int {
	var insufficient *wallet.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		balance, shortfall := insufficient.Balance, insufficient.Shortfall()
		WriteJSON(w, http.StatusPaymentRequired, Error{
			Error:     "insufficient balance",
			Balance:   &balance,
			Shortfall: &shortfall,
		})
		return http.StatusPaymentRequired
	}

	var reqErr *gateway.RequestError
	status, message := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidChargeType),
		errors.Is(err, gateway.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, reconcile.ErrInvalidSignature):
		status, message = http.StatusUnauthorized, "invalid signature"
	case errors.Is(err, wallet.ErrManualRechargeForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, storage.ErrWalletNotFound):
		status, message = http.StatusNotFound, "wallet not found"
	case errors.Is(err, storage.ErrSessionNotFound), errors.Is(err, reconcile.ErrUnknownOrder):
		status, message = http.StatusNotFound, "payment not found"
	case errors.Is(err, storage.ErrWalletExists):
		status, message = http.StatusConflict, "wallet already exists"
	case errors.Is(err, gateway.ErrGatewayConfig), errors.Is(err, wallet.ErrPaymentsUnavailable):
		status, message = http.StatusServiceUnavailable, "payments are temporarily unavailable"
	case errors.As(err, &reqErr):
		status, message = http.StatusBadGateway, "payment provider unavailable, try again"
	}
	WriteError(w, status, message)
	return status
}
