// Package reconcile turns confirmed gateway payments into wallet credits.
// Webhook and poll deliveries for the same order may arrive in any order and
// any number of times; exactly one of them credits the wallet.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/credit-wallet-ledger/pkg/gateway"
	"github.com/chris/credit-wallet-ledger/pkg/metrics"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/retry"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/chris/credit-wallet-ledger/pkg/websockets"
	"go.uber.org/zap"
)

// DefaultCreditRate is the number of currency units one credit costs.
const DefaultCreditRate int64 = 1000

// Outcome is the result of handling one payment notification.
type Outcome string

const (
	OutcomeCredited     Outcome = "credited"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeIgnored      Outcome = "ignored"
	OutcomeUnknownOrder Outcome = "unknown_order"
)

// PollStatus is the status of an order after one status check.
type PollStatus string

const (
	PollPending   PollStatus = "PENDING"
	PollPaid      PollStatus = "PAID"
	PollCancelled PollStatus = "CANCELLED"
	PollExpired   PollStatus = "EXPIRED"
	// PollUnderpaid means the gateway reports PAID for less than one credit.
	// The session is closed without a credit.
	PollUnderpaid PollStatus = "UNDERPAID"
)

// Terminal reports whether polling can stop.
func (s PollStatus) Terminal() bool {
	return s != PollPending
}

// Store is the storage the engine needs.
type Store interface {
	storage.WalletStore
	storage.SessionStore
	storage.ReconciliationStore
}

// Gateway is the part of the payment provider the engine needs.
type Gateway interface {
	VerifyWebhookSignature(body []byte) bool
	CheckPaymentStatus(ctx context.Context, orderCode int64) (*gateway.PaymentStatus, error)
}

// Engine reconciles webhook and poll confirmations.
type Engine struct {
	store      Store
	gateway    Gateway
	publisher  websockets.Publisher
	logger     *zap.Logger
	creditRate int64
	retrier    *retry.Retrier
}

// Option configures an Engine.
type Option func(*Engine)

// WithCreditRate sets the currency units per credit.
func WithCreditRate(rate int64) Option {
	return func(e *Engine) {
		if rate > 0 {
			e.creditRate = rate
		}
	}
}

// WithRetry overrides how uncommitted ledger writes are retried.
func WithRetry(cfg retry.Config) Option {
	return func(e *Engine) {
		cfg.Retryable = storage.IsRetryable
		e.retrier = retry.New(cfg, e.logger)
	}
}

func NewEngine(store Store, gw Gateway, publisher websockets.Publisher, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = &websockets.NoOpPublisher{}
	}
	e := &Engine{
		store:      store,
		gateway:    gw,
		publisher:  publisher,
		logger:     logger,
		creditRate: DefaultCreditRate,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.retrier == nil {
		cfg := retry.DefaultConfig()
		cfg.Retryable = storage.IsRetryable
		e.retrier = retry.New(cfg, logger)
	}
	return e
}

// HandleWebhook verifies and applies a gateway webhook. Any nil error means
// the webhook should be acknowledged; an error other than ErrInvalidSignature
// means the ledger write failed and the gateway should deliver it again.
func (e *Engine) HandleWebhook(ctx context.Context, body []byte) (Outcome, error) {
	if !e.gateway.VerifyWebhookSignature(body) {
		metrics.RecordSignatureFailure()
		e.logger.Warn("rejected webhook", zap.Int("body_bytes", len(body)))
		return "", ErrInvalidSignature
	}

	payload, err := gateway.ParseWebhook(body)
	if err != nil {
		e.logger.Warn("ignoring undecodable webhook", zap.Error(err))
		metrics.RecordReconciliation("webhook", string(OutcomeIgnored))
		return OutcomeIgnored, nil
	}

	orderCode := payload.Data.OrderCode
	if !payload.Confirmed() {
		e.logger.Info("ignoring unconfirmed webhook",
			zap.Int64("order_code", orderCode),
			zap.String("code", payload.ResultCode()),
			zap.String("status", payload.PaymentStatus()))
		metrics.RecordReconciliation("webhook", string(OutcomeIgnored))
		return OutcomeIgnored, nil
	}

	session, err := e.store.GetSession(ctx, orderCode)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			e.logger.Warn("webhook for unknown order", zap.Int64("order_code", orderCode))
			metrics.RecordReconciliation("webhook", string(OutcomeUnknownOrder))
			return OutcomeUnknownOrder, nil
		}
		return "", fmt.Errorf("failed to load payment session: %w", err)
	}

	outcome, err := e.reconcile(ctx, "webhook", session, payload.Data.Amount)
	if errors.Is(err, ErrAmountTooSmall) {
		return OutcomeIgnored, nil
	}
	return outcome, err
}

// CheckAndReconcile asks the gateway for the status of an order and applies it.
func (e *Engine) CheckAndReconcile(ctx context.Context, orderCode int64) (PollStatus, error) {
	session, err := e.store.GetSession(ctx, orderCode)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return "", fmt.Errorf("order code %d: %w", orderCode, ErrUnknownOrder)
		}
		return "", fmt.Errorf("failed to load payment session: %w", err)
	}

	switch session.Status {
	case models.SessionPaid:
		return PollPaid, nil
	case models.SessionCancelled:
		return PollCancelled, nil
	case models.SessionExpired:
		return PollExpired, nil
	case models.SessionUnderpaid:
		return PollUnderpaid, nil
	}

	status, err := e.gateway.CheckPaymentStatus(ctx, orderCode)
	if err != nil {
		return PollPending, fmt.Errorf("failed to check payment status: %w", err)
	}

	switch status.Status {
	case gateway.StatusPaid:
		amount := status.AmountPaid
		if amount == 0 {
			amount = status.Amount
		}
		_, err := e.reconcile(ctx, "poll", session, amount)
		switch {
		case errors.Is(err, ErrAmountTooSmall):
			return PollUnderpaid, nil
		case err != nil:
			return PollPending, err
		}
		return PollPaid, nil
	case gateway.StatusCancelled:
		return PollCancelled, e.close(ctx, "poll", session, models.SessionCancelled)
	case gateway.StatusExpired:
		return PollExpired, e.close(ctx, "poll", session, models.SessionExpired)
	}
	return PollPending, nil
}

func (e *Engine) close(ctx context.Context, source string, session *models.PaymentSession, status models.SessionStatus) error {
	err := e.store.CloseSession(ctx, session.OrderCode, status)
	if err != nil && !errors.Is(err, storage.ErrSessionClosed) {
		return fmt.Errorf("failed to close payment session: %w", err)
	}
	e.logger.Info("payment session closed",
		zap.Int64("order_code", session.OrderCode),
		zap.String("user_id", session.UserId),
		zap.String("status", string(status)))
	metrics.RecordReconciliation(source, "closed")

	e.publish(ctx, websockets.Message{
		Type: websockets.MessageTypePaymentStatus,
		Payload: websockets.PaymentStatusPayload{
			UserID:    session.UserId,
			OrderCode: session.OrderCode,
			Status:    string(status),
		},
	})
	return nil
}

// reconcile credits the session owner once. The gateway amount is authoritative.
func (e *Engine) reconcile(ctx context.Context, source string, session *models.PaymentSession, amount int64) (Outcome, error) {
	log := e.logger.With(
		zap.String("source", source),
		zap.Int64("order_code", session.OrderCode),
		zap.String("user_id", session.UserId))

	if session.Status == models.SessionPaid {
		log.Info("payment already reconciled")
		metrics.RecordReconciliation(source, string(OutcomeDuplicate))
		return OutcomeDuplicate, nil
	}

	credits := amount / e.creditRate
	if credits <= 0 {
		log.Warn("paid amount converts to zero credits", zap.Int64("amount", amount))
		metrics.RecordReconciliation(source, string(OutcomeIgnored))
		// A later check would see the same amount, so the session is settled here.
		if err := e.close(ctx, source, session, models.SessionUnderpaid); err != nil {
			return "", err
		}
		return OutcomeIgnored, ErrAmountTooSmall
	}
	if amount != session.Amount {
		log.Warn("paid amount differs from requested amount",
			zap.Int64("paid", amount),
			zap.Int64("requested", session.Amount))
	}

	orderCode := session.OrderCode
	var tx *models.Transaction
	err := e.retrier.Execute(ctx, "apply recharge", func(ctx context.Context) error {
		tx = models.NewCreditTransaction(session.UserId, credits, models.TransactionDetail{
			Type:           models.Recharge,
			PaymentMethod:  models.PaymentMethodPayOS,
			OrderCode:      &orderCode,
			CurrencyAmount: amount,
		})
		return e.store.ApplyRecharge(ctx, session, tx)
	})
	if errors.Is(err, storage.ErrAlreadyReconciled) {
		log.Info("payment already reconciled")
		metrics.RecordReconciliation(source, string(OutcomeDuplicate))
		return OutcomeDuplicate, nil
	}
	if err != nil {
		log.Error("failed to apply recharge", zap.Error(err))
		metrics.RecordReconciliation(source, "failed")
		return "", err
	}

	log.Info("payment reconciled", zap.String("transaction_id", tx.Id), zap.Int64("credits", credits))
	metrics.RecordReconciliation(source, string(OutcomeCredited))
	metrics.RecordCredit(string(models.Recharge), models.PaymentMethodPayOS, credits)

	e.publishBalance(ctx, tx)
	return OutcomeCredited, nil
}

func (e *Engine) publishBalance(ctx context.Context, tx *models.Transaction) {
	wallet, err := e.store.GetWallet(ctx, tx.UserId)
	if err != nil {
		e.logger.Warn("failed to read balance for notification", zap.String("user_id", tx.UserId), zap.Error(err))
		return
	}
	e.publish(ctx, websockets.Message{
		Type: websockets.MessageTypeWalletUpdate,
		Payload: websockets.WalletUpdatePayload{
			UserID:        tx.UserId,
			TransactionID: tx.Id,
			Reason:        string(tx.Detail.Type),
			Change:        tx.Amount,
			NewBalance:    wallet.Balance,
		},
	})
}

func (e *Engine) publish(ctx context.Context, msg websockets.Message) {
	if err := e.publisher.Publish(ctx, msg); err != nil {
		e.logger.Warn("failed to publish realtime message", zap.String("type", string(msg.Type)), zap.Error(err))
	}
}
