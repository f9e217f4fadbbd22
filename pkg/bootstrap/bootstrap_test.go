package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/config"
	"github.com/chris/credit-wallet-ledger/pkg/storage/memory"
	"github.com/chris/credit-wallet-ledger/pkg/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		LogLevel:           "error",
		StoreBackend:       config.BackendMemory,
		CreditRate:         1000,
		AuthorSharePercent: 70,
		AppBaseURL:         "https://learn.example.com",
		PaymentExpiry:      15 * time.Minute,
		PollInitialDelay:   time.Second,
		PollInterval:       2 * time.Second,
		PollMaxAttempts:    7,
	}
}

func TestFromConfig_Memory(t *testing.T) {
	app, err := FromConfig(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &memory.Store{}, app.Store)
	assert.IsType(t, &websockets.NoOpPublisher{}, app.Publisher)
	assert.NotNil(t, app.Engine)

	svc := app.Wallets(nil)
	_, err = svc.OpenWallet(context.Background(), "user1")
	require.NoError(t, err)
	balance, err := svc.GetBalance(context.Background(), "user1")
	require.NoError(t, err)
	assert.Zero(t, balance)

	assert.Equal(t, 7, app.PollerConfig().MaxAttempts)
	assert.Equal(t, 2*time.Second, app.PollerConfig().Interval)
}

func TestFromConfig_RedisPublisher(t *testing.T) {
	cfg := memoryConfig()
	cfg.RedisAddr = "localhost:6379"

	app, err := FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &websockets.RedisPublisher{}, app.Publisher)
}

func TestFromConfig_Invalid(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreBackend = config.BackendPostgres

	_, err := FromConfig(context.Background(), cfg)

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestScheduler_RequiresQueue(t *testing.T) {
	app, err := FromConfig(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Scheduler(context.Background())

	assert.ErrorIs(t, err, ErrNoQueue)
}
