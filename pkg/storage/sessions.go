package storage

import (
	"context"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/models"
)

// SessionStore persists the order code to user correlation of checkout attempts.
type SessionStore interface {
	// CreateSession stores a new PENDING session. It fails with ErrSessionExists
	// when the order code is already taken.
	CreateSession(ctx context.Context, session *models.PaymentSession) error

	// GetSession retrieves a session by its order code.
	GetSession(ctx context.Context, orderCode int64) (*models.PaymentSession, error)

	// CloseSession moves a PENDING session to a cancelled or expired status.
	// It fails with ErrSessionClosed when the session is no longer pending.
	CloseSession(ctx context.Context, orderCode int64, status models.SessionStatus) error

	// ListStaleSessions returns PENDING sessions created more than maxAge ago.
	ListStaleSessions(ctx context.Context, maxAge time.Duration) ([]models.PaymentSession, error)
}
