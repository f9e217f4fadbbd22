// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	HTTPPort string
	Env      string
	LogLevel string

	StoreBackend      string
	WalletsTable      string
	TransactionsTable string
	SessionsTable     string
	DatabaseURL       string

	PayOSBaseURL     string
	PayOSClientID    string
	PayOSAPIKey      string
	PayOSChecksumKey string

	CreditRate              int64
	AppBaseURL              string
	PaymentExpiry           time.Duration
	AuthorSharePercent      int64
	AllowSelfManualRecharge bool

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	EventsChannel string

	SQSQueueURL      string
	PollInitialDelay time.Duration
	PollInterval     time.Duration
	PollMaxAttempts  int
	StaleSessionAge  time.Duration

	CheckRateLimitRPS   float64
	CheckRateLimitBurst int
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendDynamoDB)
	v.SetDefault("PAYOS_BASE_URL", "https://api-merchant.payos.vn")
	v.SetDefault("CREDIT_RATE", 1000)
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")
	v.SetDefault("PAYMENT_EXPIRY_SECONDS", 900)
	v.SetDefault("AUTHOR_SHARE_PERCENT", 70)
	v.SetDefault("ALLOW_SELF_MANUAL_RECHARGE", false)
	v.SetDefault("WALLET_EVENTS_CHANNEL", "wallet-updates")
	v.SetDefault("POLL_INITIAL_DELAY", "5s")
	v.SetDefault("POLL_INTERVAL", "3s")
	v.SetDefault("POLL_MAX_ATTEMPTS", 40)
	v.SetDefault("STALE_SESSION_AGE", "20m")
	v.SetDefault("CHECK_RATE_LIMIT_RPS", 1.0)
	v.SetDefault("CHECK_RATE_LIMIT_BURST", 5)

	// Keys without a default are only visible to Get after binding.
	for _, key := range []string{
		"DYNAMODB_WALLETS_TABLE_NAME", "DYNAMODB_TRANSACTIONS_TABLE_NAME", "DYNAMODB_SESSIONS_TABLE_NAME",
		"DATABASE_URL", "PAYOS_CLIENT_ID", "PAYOS_API_KEY", "PAYOS_CHECKSUM_KEY",
		"JWT_SECRET", "REDIS_ADDR", "REDIS_PASSWORD", "SQS_QUEUE_URL",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPPort:                v.GetString("HTTP_PORT"),
		Env:                     v.GetString("APP_ENV"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		StoreBackend:            strings.ToLower(v.GetString("STORE_BACKEND")),
		WalletsTable:            v.GetString("DYNAMODB_WALLETS_TABLE_NAME"),
		TransactionsTable:       v.GetString("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		SessionsTable:           v.GetString("DYNAMODB_SESSIONS_TABLE_NAME"),
		DatabaseURL:             v.GetString("DATABASE_URL"),
		PayOSBaseURL:            v.GetString("PAYOS_BASE_URL"),
		PayOSClientID:           v.GetString("PAYOS_CLIENT_ID"),
		PayOSAPIKey:             v.GetString("PAYOS_API_KEY"),
		PayOSChecksumKey:        v.GetString("PAYOS_CHECKSUM_KEY"),
		CreditRate:              v.GetInt64("CREDIT_RATE"),
		AppBaseURL:              strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
		PaymentExpiry:           time.Duration(v.GetInt64("PAYMENT_EXPIRY_SECONDS")) * time.Second,
		AuthorSharePercent:      v.GetInt64("AUTHOR_SHARE_PERCENT"),
		AllowSelfManualRecharge: v.GetBool("ALLOW_SELF_MANUAL_RECHARGE"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		RedisPassword:           v.GetString("REDIS_PASSWORD"),
		EventsChannel:           v.GetString("WALLET_EVENTS_CHANNEL"),
		SQSQueueURL:             v.GetString("SQS_QUEUE_URL"),
		PollInitialDelay:        v.GetDuration("POLL_INITIAL_DELAY"),
		PollInterval:            v.GetDuration("POLL_INTERVAL"),
		PollMaxAttempts:         v.GetInt("POLL_MAX_ATTEMPTS"),
		StaleSessionAge:         v.GetDuration("STALE_SESSION_AGE"),
		CheckRateLimitRPS:       v.GetFloat64("CHECK_RATE_LIMIT_RPS"),
		CheckRateLimitBurst:     v.GetInt("CHECK_RATE_LIMIT_BURST"),
	}
	return cfg, nil
}

// ReturnURL is where the checkout sends the payer after paying.
func (c *Config) ReturnURL() string {
	return c.AppBaseURL + "/wallet/topup/success"
}

// CancelURL is where the checkout sends the payer after cancelling.
func (c *Config) CancelURL() string {
	return c.AppBaseURL + "/wallet/topup/cancel"
}

// Validate reports the options that the selected store backend requires but
// are missing. Gateway credentials are checked by the gateway itself.
func (c *Config) Validate() error {
	var missing []string
	switch c.StoreBackend {
	case BackendDynamoDB:
		if c.WalletsTable == "" {
			missing = append(missing, "DYNAMODB_WALLETS_TABLE_NAME")
		}
		if c.TransactionsTable == "" {
			missing = append(missing, "DYNAMODB_TRANSACTIONS_TABLE_NAME")
		}
		if c.SessionsTable == "" {
			missing = append(missing, "DYNAMODB_SESSIONS_TABLE_NAME")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, c.StoreBackend)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	if c.CreditRate <= 0 {
		return fmt.Errorf("%w: CREDIT_RATE must be positive", ErrInvalidConfig)
	}
	if c.AuthorSharePercent <= 0 || c.AuthorSharePercent > 100 {
		return fmt.Errorf("%w: AUTHOR_SHARE_PERCENT must be between 1 and 100", ErrInvalidConfig)
	}
	return nil
}

// ValidateHTTP additionally requires the settings of the HTTP API.
func (c *Config) ValidateHTTP() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: missing JWT_SECRET", ErrInvalidConfig)
	}
	return nil
}
