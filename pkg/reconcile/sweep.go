package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SweepReport summarises one pass over stale payment sessions.
type SweepReport struct {
	Checked int `json:"checked"`
	Paid    int `json:"paid"`
	Closed  int `json:"closed"`
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
}

// ReconcileStale checks every session still PENDING after maxAge with the
// gateway. It catches payments whose webhook was lost and whose polling gave
// up. A failing session is counted and skipped; only a failure to list the
// sessions is returned.
func (e *Engine) ReconcileStale(ctx context.Context, maxAge time.Duration) (SweepReport, error) {
	var report SweepReport

	sessions, err := e.store.ListStaleSessions(ctx, maxAge)
	if err != nil {
		return report, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	for _, session := range sessions {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Checked++

		status, err := e.CheckAndReconcile(ctx, session.OrderCode)
		if err != nil {
			report.Failed++
			e.logger.Warn("stale session check failed",
				zap.Int64("order_code", session.OrderCode),
				zap.String("user_id", session.UserId),
				zap.Error(err))
			continue
		}

		switch status {
		case PollPaid:
			report.Paid++
		case PollCancelled, PollExpired, PollUnderpaid:
			report.Closed++
		default:
			report.Pending++
		}
	}

	e.logger.Info("stale session sweep finished",
		zap.Int("checked", report.Checked),
		zap.Int("paid", report.Paid),
		zap.Int("closed", report.Closed),
		zap.Int("pending", report.Pending),
		zap.Int("failed", report.Failed))
	return report, nil
}
