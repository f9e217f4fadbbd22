// Package wallet implements the balance operations offered to the rest of the platform.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/gateway"
	"github.com/chris/credit-wallet-ledger/pkg/metrics"
	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
	"github.com/chris/credit-wallet-ledger/pkg/websockets"
	"go.uber.org/zap"
)

const (
	DefaultTransactionLimit = 20
	MaxTransactionLimit     = 100

	// MaxSaleAmount bounds a single course sale so the author share cannot overflow.
	MaxSaleAmount int64 = 1_000_000_000_000
)

// Store is the storage the service needs.
type Store interface {
	storage.WalletStore
	storage.TransactionReader
	storage.LedgerWriter
	storage.SessionStore
}

// Gateway creates hosted checkouts.
type Gateway interface {
	CreatePaymentSession(ctx context.Context, req gateway.PaymentRequest) (*gateway.PaymentLink, error)
}

// StatusFollower starts watching a new order until it reaches a final status.
type StatusFollower interface {
	Follow(ctx context.Context, orderCode int64) error
}

// Config holds the business rules of the service.
type Config struct {
	CreditRate              int64
	AuthorSharePercent      int64
	AllowSelfManualRecharge bool
	ReturnURL               string
	CancelURL               string
	PaymentExpiry           time.Duration
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Admin  bool
}

// Buyer is optional payer information passed to the gateway.
type Buyer struct {
	Name  string
	Email string
	Phone string
}

// TopUp is a started checkout.
type TopUp struct {
	OrderCode   int64
	CheckoutURL string
	Credits     int64
	Amount      int64
	ExpiresAt   time.Time
}

type Service struct {
	store     Store
	gateway   Gateway
	follower  StatusFollower
	publisher websockets.Publisher
	logger    *zap.Logger
	cfg       Config
	now       func() time.Time
}

// NewService creates a Service. gw and follower may be nil, which disables
// top-ups and status following respectively.
func NewService(store Store, gw Gateway, follower StatusFollower, publisher websockets.Publisher, logger *zap.Logger, cfg Config) *Service {
	if cfg.CreditRate <= 0 {
		cfg.CreditRate = 1000
	}
	if cfg.AuthorSharePercent <= 0 || cfg.AuthorSharePercent > 100 {
		cfg.AuthorSharePercent = 70
	}
	if cfg.PaymentExpiry <= 0 {
		cfg.PaymentExpiry = 15 * time.Minute
	}
	if publisher == nil {
		publisher = &websockets.NoOpPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		gateway:   gw,
		follower:  follower,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// OpenWallet creates an empty wallet for userID or returns the existing one.
func (s *Service) OpenWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	wallet, err := s.store.CreateWallet(ctx, &models.Wallet{UserId: userID})
	if errors.Is(err, storage.ErrWalletExists) {
		return s.store.GetWallet(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("wallet opened", zap.String("user_id", userID))
	return wallet, nil
}

// GetWallet returns the wallet of userID.
func (s *Service) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return s.store.GetWallet(ctx, userID)
}

// GetBalance returns the current balance of userID.
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	wallet, err := s.store.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// Charge removes amount credits from the wallet of userID. Either the balance
// drops and a completed transaction is recorded, or nothing changes.
func (s *Service) Charge(ctx context.Context, userID string, amount int64, chargeType models.TransactionType, detail models.TransactionDetail) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if chargeType != models.AIUsage && chargeType != models.Purchase {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChargeType, chargeType)
	}
	detail.Type = chargeType
	detail.PaymentMethod = ""
	detail.OrderCode = nil

	tx := models.NewDebitTransaction(userID, amount, detail)
	if err := s.store.Debit(ctx, tx); err != nil {
		if errors.Is(err, storage.ErrInsufficientFunds) {
			metrics.RecordCharge(string(chargeType), "insufficient_balance", amount)
			balance, _ := s.GetBalance(ctx, userID)
			return nil, &InsufficientBalanceError{Balance: balance, Amount: amount}
		}
		metrics.RecordCharge(string(chargeType), "failed", amount)
		return nil, err
	}

	metrics.RecordCharge(string(chargeType), "success", amount)
	s.logger.Info("wallet charged",
		zap.String("user_id", userID),
		zap.String("transaction_id", tx.Id),
		zap.String("type", string(chargeType)),
		zap.Int64("amount", amount))
	s.publishBalance(ctx, tx)
	return tx, nil
}

// ManualRecharge credits amount to userID without any payment. It is meant for
// administrators; self-service use must be enabled by configuration.
func (s *Service) ManualRecharge(ctx context.Context, actor Actor, userID string, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !actor.Admin && !(s.cfg.AllowSelfManualRecharge && actor.UserID == userID) {
		s.logger.Warn("manual recharge refused",
			zap.String("actor_id", actor.UserID),
			zap.String("user_id", userID),
			zap.Int64("amount", amount))
		return nil, ErrManualRechargeForbidden
	}

	tx := models.NewCreditTransaction(userID, amount, models.TransactionDetail{
		Type:          models.Recharge,
		PaymentMethod: models.PaymentMethodManual,
		Metadata:      map[string]string{"actor_id": actor.UserID},
	})
	if err := s.store.Credit(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("manual recharge",
		zap.String("actor_id", actor.UserID),
		zap.Bool("actor_admin", actor.Admin),
		zap.String("user_id", userID),
		zap.String("transaction_id", tx.Id),
		zap.Int64("amount", amount))
	metrics.RecordCredit(string(models.Recharge), models.PaymentMethodManual, amount)
	s.publishBalance(ctx, tx)
	return tx, nil
}

// ListTransactions returns the most recent transactions of userID, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	switch {
	case limit <= 0:
		limit = DefaultTransactionLimit
	case limit > MaxTransactionLimit:
		limit = MaxTransactionLimit
	}
	return s.store.ListTransactionsByUserID(ctx, userID, int32(limit))
}

// RecordAuthorEarnings credits the author's share of a course sale.
func (s *Service) RecordAuthorEarnings(ctx context.Context, courseID, authorID string, saleAmount int64) (*models.Transaction, error) {
	if saleAmount <= 0 || saleAmount > MaxSaleAmount {
		return nil, ErrInvalidAmount
	}
	earnings := saleAmount * s.cfg.AuthorSharePercent / 100
	if earnings <= 0 {
		return nil, fmt.Errorf("%w: share of %d rounds to zero", ErrInvalidAmount, saleAmount)
	}

	tx := models.NewCreditTransaction(authorID, earnings, models.TransactionDetail{
		Type:     models.AuthorEarnings,
		CourseID: courseID,
	})
	if err := s.store.Credit(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("author earnings recorded",
		zap.String("user_id", authorID),
		zap.String("course_id", courseID),
		zap.Int64("sale_amount", saleAmount),
		zap.Int64("earnings", earnings))
	metrics.RecordCredit(string(models.AuthorEarnings), "", earnings)
	s.publishBalance(ctx, tx)
	return tx, nil
}

// StartTopUp creates a hosted checkout for the given number of credits and
// records the pending session that later confirmations are matched against.
func (s *Service) StartTopUp(ctx context.Context, userID string, credits int64, buyer Buyer) (*TopUp, error) {
	if credits <= 0 {
		return nil, ErrInvalidAmount
	}
	if s.gateway == nil {
		return nil, ErrPaymentsUnavailable
	}
	if _, err := s.store.GetWallet(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	orderCode, err := gateway.NewOrderCode(now)
	if err != nil {
		return nil, err
	}
	amount := credits * s.cfg.CreditRate
	expiresAt := now.Add(s.cfg.PaymentExpiry)
	description := fmt.Sprintf("NAP %d CREDITS", credits)

	link, err := s.gateway.CreatePaymentSession(ctx, gateway.PaymentRequest{
		OrderCode:   orderCode,
		Amount:      amount,
		Description: description,
		BuyerName:   buyer.Name,
		BuyerEmail:  buyer.Email,
		BuyerPhone:  buyer.Phone,
		Items:       []gateway.Item{{Name: fmt.Sprintf("%d credits", credits), Quantity: 1, Price: amount}},
		ReturnURL:   s.cfg.ReturnURL,
		CancelURL:   s.cfg.CancelURL,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return nil, err
	}

	session := &models.PaymentSession{
		OrderCode:     orderCode,
		UserId:        userID,
		Credits:       credits,
		Amount:        amount,
		Description:   description,
		CheckoutURL:   link.CheckoutURL,
		PaymentLinkId: link.PaymentLinkID,
		Status:        models.SessionPending,
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record payment session: %w", err)
	}

	metrics.RecordTopUpStarted()
	s.logger.Info("top-up started",
		zap.String("user_id", userID),
		zap.Int64("order_code", orderCode),
		zap.Int64("credits", credits),
		zap.Int64("amount", amount))

	if s.follower != nil {
		if err := s.follower.Follow(ctx, orderCode); err != nil {
			s.logger.Warn("failed to follow payment status", zap.Int64("order_code", orderCode), zap.Error(err))
		}
	}

	return &TopUp{
		OrderCode:   orderCode,
		CheckoutURL: link.CheckoutURL,
		Credits:     credits,
		Amount:      amount,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) publishBalance(ctx context.Context, tx *models.Transaction) {
	wallet, err := s.store.GetWallet(ctx, tx.UserId)
	if err != nil {
		s.logger.Warn("failed to read balance for notification", zap.String("user_id", tx.UserId), zap.Error(err))
		return
	}
	err = s.publisher.Publish(ctx, websockets.Message{
		Type: websockets.MessageTypeWalletUpdate,
		Payload: websockets.WalletUpdatePayload{
			UserID:        tx.UserId,
			TransactionID: tx.Id,
			Reason:        string(tx.Detail.Type),
			Change:        tx.Amount,
			NewBalance:    wallet.Balance,
		},
	})
	if err != nil {
		s.logger.Warn("failed to publish wallet update", zap.String("user_id", tx.UserId), zap.Error(err))
	}
}
