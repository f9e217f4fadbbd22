// Package bootstrap wires the components shared by the HTTP server and the lambdas.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/credit-wallet-ledger/pkg/config"
	"github.com/chris/credit-wallet-ledger/pkg/gateway"
	"github.com/chris/credit-wallet-ledger/pkg/logging"
	"github.com/chris/credit-wallet-ledger/pkg/poller"
	"github.com/chris/credit-wallet-ledger/pkg/reconcile"
	"github.com/chris/credit-wallet-ledger/pkg/scheduler"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	dydbstore "github.com/chris/credit-wallet-ledger/pkg/storage/dynamodb"
	"github.com/chris/credit-wallet-ledger/pkg/storage/memory"
	"github.com/chris/credit-wallet-ledger/pkg/storage/postgres"
	"github.com/chris/credit-wallet-ledger/pkg/wallet"
	"github.com/chris/credit-wallet-ledger/pkg/websockets"
	"go.uber.org/zap"
)

// ErrNoQueue is returned when a status-check queue is required but not configured.
var ErrNoQueue = errors.New("SQS_QUEUE_URL is not set")

type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     storage.Storage
	Gateway   *gateway.Client
	Publisher websockets.Publisher
	Engine    *reconcile.Engine

	awsCfg  *aws.Config
	closers []func() error
}

// New loads the configuration and builds the store, gateway, publisher and engine.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return FromConfig(ctx, cfg)
}

func FromConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logging.New(cfg.LogLevel, cfg.Env),
	}

	store, err := a.newStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	a.Gateway = gateway.NewClient(gateway.Config{
		BaseURL:     cfg.PayOSBaseURL,
		ClientID:    cfg.PayOSClientID,
		APIKey:      cfg.PayOSAPIKey,
		ChecksumKey: cfg.PayOSChecksumKey,
	})

	a.Publisher = &websockets.NoOpPublisher{}
	if cfg.RedisAddr != "" {
		client := websockets.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		a.closers = append(a.closers, client.Close)
		a.Publisher = websockets.NewRedisPublisher(client, cfg.EventsChannel)
	}

	a.Engine = reconcile.NewEngine(a.Store, a.Gateway, a.Publisher, a.Logger.Named("reconcile"),
		reconcile.WithCreditRate(cfg.CreditRate))

	a.Logger.Info("components ready",
		zap.String("store_backend", cfg.StoreBackend),
		zap.Bool("redis", cfg.RedisAddr != ""),
		zap.Bool("sqs", cfg.SQSQueueURL != ""))
	return a, nil
}

func (a *App) newStore(ctx context.Context) (storage.Storage, error) {
	switch a.Config.StoreBackend {
	case config.BackendMemory:
		a.Logger.Warn("using the in-memory store; balances are lost on restart")
		return memory.New(), nil
	case config.BackendPostgres:
		db, err := postgres.Connect(a.Config.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := postgres.RunMigrations(db); err != nil {
			return nil, err
		}
		return postgres.New(db), nil
	default:
		awsCfg, err := a.aws(ctx)
		if err != nil {
			return nil, err
		}
		return dydbstore.New(dynamodb.NewFromConfig(awsCfg),
			a.Config.WalletsTable, a.Config.TransactionsTable, a.Config.SessionsTable), nil
	}
}

func (a *App) aws(ctx context.Context) (aws.Config, error) {
	if a.awsCfg != nil {
		return *a.awsCfg, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	a.awsCfg = &cfg
	return cfg, nil
}

// Scheduler returns the SQS status-check scheduler.
func (a *App) Scheduler(ctx context.Context) (*scheduler.SQSScheduler, error) {
	if a.Config.SQSQueueURL == "" {
		return nil, ErrNoQueue
	}
	awsCfg, err := a.aws(ctx)
	if err != nil {
		return nil, err
	}
	return scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), a.Config.SQSQueueURL, a.Config.PollInitialDelay), nil
}

// PollerConfig returns the polling schedule from the configuration.
func (a *App) PollerConfig() poller.Config {
	return poller.Config{
		InitialDelay: a.Config.PollInitialDelay,
		Interval:     a.Config.PollInterval,
		MaxAttempts:  a.Config.PollMaxAttempts,
	}
}

// Wallets builds the wallet service. follower may be nil.
func (a *App) Wallets(follower wallet.StatusFollower) *wallet.Service {
	return wallet.NewService(a.Store, a.Gateway, follower, a.Publisher, a.Logger.Named("wallet"), wallet.Config{
		CreditRate:              a.Config.CreditRate,
		AuthorSharePercent:      a.Config.AuthorSharePercent,
		AllowSelfManualRecharge: a.Config.AllowSelfManualRecharge,
		ReturnURL:               a.Config.ReturnURL(),
		CancelURL:               a.Config.CancelURL(),
		PaymentExpiry:           a.Config.PaymentExpiry,
	})
}

// Close releases connections and flushes the logger.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	_ = a.Logger.Sync()
}
