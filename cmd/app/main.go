package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/bootstrap"
	"github.com/chris/credit-wallet-ledger/pkg/handlers"
	"github.com/chris/credit-wallet-ledger/pkg/middleware"
	"github.com/chris/credit-wallet-ledger/pkg/poller"
	"github.com/chris/credit-wallet-ledger/pkg/wallet"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer app.Close()
	logger := app.Logger

	if err := app.Config.ValidateHTTP(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// Status checks go through SQS when a queue is configured; otherwise this
	// process polls the gateway itself.
	var follower wallet.StatusFollower
	var manager *poller.Manager
	sched, err := app.Scheduler(ctx)
	switch {
	case err == nil:
		follower = sched
		logger.Info("following payments through SQS", zap.String("queue_url", app.Config.SQSQueueURL))
	case errors.Is(err, bootstrap.ErrNoQueue):
		manager = poller.NewManager(poller.New(app.Engine, app.PollerConfig(), logger.Named("poller")), logger.Named("poller"))
		follower = manager
		logger.Info("following payments with the in-process poller")
	default:
		logger.Fatal("failed to create scheduler", zap.Error(err))
	}

	router := handlers.NewRouter(handlers.Deps{
		Wallets:        app.Wallets(follower),
		Reconciler:     app.Engine,
		Sessions:       app.Store,
		Logger:         logger,
		JWTSecret:      app.Config.JWTSecret,
		CheckRateLimit: middleware.NewRateLimiter(app.Config.CheckRateLimitRPS, app.Config.CheckRateLimitBurst, 3*time.Minute),
	})

	srv := &http.Server{
		Addr:              ":" + app.Config.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", zap.Error(err))
	}
	if manager != nil {
		manager.Shutdown()
	}
}
