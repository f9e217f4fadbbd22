package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/reconcile"
	"go.uber.org/zap"
)

// Checker runs one status check and reconciles the order when it is paid.
type Checker interface {
	CheckAndReconcile(ctx context.Context, orderCode int64) (reconcile.PollStatus, error)
}

// Worker processes queued status checks. An order that is still pending is
// checked again after Interval until MaxAttempts checks have run.
type Worker struct {
	Checker     Checker
	Scheduler   Scheduler
	Interval    time.Duration
	MaxAttempts int
	Logger      *zap.Logger
}

// Process runs one check. A returned error means the check must be delivered again.
func (w *Worker) Process(ctx context.Context, check StatusCheck) error {
	log := w.Logger.With(zap.Int64("order_code", check.OrderCode), zap.Int("attempt", check.Attempt))

	status, err := w.Checker.CheckAndReconcile(ctx, check.OrderCode)
	switch {
	case errors.Is(err, reconcile.ErrUnknownOrder):
		log.Warn("dropping status check for unknown order")
		return nil
	case err != nil:
		log.Warn("payment status check failed", zap.Error(err))
	case status.Terminal():
		log.Info("payment reached final status", zap.String("status", string(status)))
		return nil
	}

	if check.Attempt >= w.MaxAttempts {
		log.Info("giving up on payment status checks; the stale session sweep takes over")
		return nil
	}

	next := StatusCheck{OrderCode: check.OrderCode, Attempt: check.Attempt + 1}
	return w.Scheduler.ScheduleStatusCheck(ctx, next, w.Interval)
}
