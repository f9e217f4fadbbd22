package scheduler

import (
	"context"
	"time"
)

// StatusCheck asks for one payment status check of an order.
type StatusCheck struct {
	OrderCode int64 `json:"order_code"`
	Attempt   int   `json:"attempt"`
}

// Scheduler defines the interface for a component that schedules a status check for later processing.
type Scheduler interface {
	// ScheduleStatusCheck enqueues a status check to run after delay.
	ScheduleStatusCheck(ctx context.Context, check StatusCheck, delay time.Duration) error
}
