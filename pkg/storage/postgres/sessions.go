package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/models"
	"github.com/chris/credit-wallet-ledger/pkg/storage"
)

const sessionColumns = `order_code, user_id, credits, amount, description, checkout_url, payment_link_id,
	status, paid_amount, transaction_id, expires_at, created_at, updated_at`

// CreateSession stores a new payment session.
func (s *Store) CreateSession(ctx context.Context, session *models.PaymentSession) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	_, err := s.DB.NamedExecContext(ctx,
		`INSERT INTO payment_sessions (`+sessionColumns+`)
		 VALUES (:order_code, :user_id, :credits, :amount, :description, :checkout_url, :payment_link_id,
		 :status, :paid_amount, :transaction_id, :expires_at, :created_at, :updated_at)`,
		session,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order code %d: %w", session.OrderCode, storage.ErrSessionExists)
		}
		return fmt.Errorf("failed to create payment session in postgres: %w", err)
	}
	return nil
}

// GetSession retrieves a payment session by order code.
func (s *Store) GetSession(ctx context.Context, orderCode int64) (*models.PaymentSession, error) {
	var session models.PaymentSession
	err := s.DB.GetContext(ctx, &session, `SELECT `+sessionColumns+` FROM payment_sessions WHERE order_code = $1`, orderCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order code %d: %w", orderCode, storage.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("failed to get payment session from postgres: %w", err)
	}
	return &session, nil
}

// CloseSession moves a PENDING session to a terminal status.
func (s *Store) CloseSession(ctx context.Context, orderCode int64, status models.SessionStatus) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE payment_sessions SET status = $1, updated_at = $2
		 WHERE order_code = $3 AND status = $4`,
		status, time.Now().UTC(), orderCode, models.SessionPending,
	)
	if err != nil {
		return fmt.Errorf("failed to close payment session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close payment session: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := s.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM payment_sessions WHERE order_code = $1)`, orderCode); err != nil {
		return fmt.Errorf("failed to close payment session: %w", err)
	}
	if !exists {
		return fmt.Errorf("order code %d: %w", orderCode, storage.ErrSessionNotFound)
	}
	return fmt.Errorf("order code %d: %w", orderCode, storage.ErrSessionClosed)
}

// ListStaleSessions returns PENDING sessions created more than maxAge ago, oldest first.
func (s *Store) ListStaleSessions(ctx context.Context, maxAge time.Duration) ([]models.PaymentSession, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	sessions := []models.PaymentSession{}
	err := s.DB.SelectContext(ctx, &sessions,
		`SELECT `+sessionColumns+` FROM payment_sessions
		 WHERE status = $1 AND created_at < $2
		 ORDER BY created_at`,
		models.SessionPending, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stale payment sessions: %w", err)
	}
	return sessions, nil
}
