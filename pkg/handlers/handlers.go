// Package handlers assembles the HTTP API.
package handlers

import (
	"net/http"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/handlers/ledger"
	"github.com/chris/credit-wallet-ledger/pkg/handlers/payments"
	"github.com/chris/credit-wallet-ledger/pkg/handlers/transactions"
	"github.com/chris/credit-wallet-ledger/pkg/handlers/wallets"
	"github.com/chris/credit-wallet-ledger/pkg/middleware"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/chris/credit-wallet-ledger/pkg/wallet"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the components served by the router.
type Deps struct {
	Wallets    *wallet.Service
	Reconciler payments.Reconciler
	Sessions   storage.SessionStore
	Logger     *zap.Logger

	JWTSecret      string
	CheckRateLimit *middleware.RateLimiter
}

// NewRouter builds the chi router with every route mounted.
func NewRouter(d Deps) http.Handler {
	walletsHandler := wallets.NewWalletsHandler(d.Wallets, d.Logger)
	transactionsHandler := transactions.NewTransactionsHandler(d.Wallets, d.Logger)
	ledgerHandler := ledger.NewLedgerHandler(d.Wallets, d.Logger)
	paymentsHandler := payments.NewPaymentsHandler(d.Wallets, d.Reconciler, d.Sessions, d.Logger)

	checkLimit := d.CheckRateLimit
	if checkLimit == nil {
		checkLimit = middleware.NewRateLimiter(1, 5, 3*time.Minute)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewStructuredLogger(d.Logger))
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhooks/payos", paymentsHandler.Webhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(d.JWTSecret))

		r.Post("/wallet", walletsHandler.OpenWallet)
		r.Get("/wallet", walletsHandler.GetWallet)
		r.Get("/wallet/transactions", transactionsHandler.ListTransactions)
		r.Post("/wallet/charges", transactionsHandler.Charge)
		r.Post("/wallet/topups", paymentsHandler.StartTopUp)
		r.With(checkLimit.Middleware).Post("/payments/{orderCode}/check", paymentsHandler.CheckPayment)

		r.Post("/admin/wallets/{userId}/recharges", ledgerHandler.ManualRecharge)
		r.With(middleware.RequireRole(middleware.RoleService, middleware.RoleAdmin)).
			Post("/internal/author-earnings", ledgerHandler.RecordAuthorEarnings)
	})

	return r
}
