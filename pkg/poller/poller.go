// Package poller follows an order's payment status on a fixed interval until
// it reaches a final status or the attempt ceiling.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chris/credit-wallet-ledger/pkg/reconcile"
	"go.uber.org/zap"
)

// Checker runs one status check and reconciles the order when it is paid.
type Checker interface {
	CheckAndReconcile(ctx context.Context, orderCode int64) (reconcile.PollStatus, error)
}

type Config struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxAttempts  int
}

func DefaultConfig() Config {
	return Config{
		InitialDelay: 5 * time.Second,
		Interval:     3 * time.Second,
		MaxAttempts:  40,
	}
}

// Result is the final outcome of a poll. Err holds the last checker error, if any.
type Result struct {
	State    State
	Attempts int
	Err      error
}

type Poller struct {
	checker Checker
	cfg     Config
	logger  *zap.Logger
}

func New(checker Checker, cfg Config, logger *zap.Logger) *Poller {
	def := DefaultConfig()
	if cfg.InitialDelay < 0 {
		cfg.InitialDelay = def.InitialDelay
	}
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{checker: checker, cfg: cfg, logger: logger}
}

// Handle controls one running poll.
type Handle struct {
	OrderCode int64

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	state  State
	result Result
}

// Stop cancels the poll. It is safe to call more than once and after completion.
func (h *Handle) Stop() {
	h.cancel()
}

// Done is closed once the poll has finished and its timer is released.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// State returns the current state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Result returns the outcome. It is only meaningful after Done is closed.
func (h *Handle) Result() Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Wait blocks until the poll finishes or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.Result(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (h *Handle) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

func (h *Handle) finish(r Result) {
	h.mu.Lock()
	h.state = r.State
	h.result = r
	h.mu.Unlock()
	close(h.done)
}

// Start begins polling orderCode in a new goroutine. The poll ends when ctx is
// cancelled, Stop is called, or a final status is reached.
func (p *Poller) Start(ctx context.Context, orderCode int64) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		OrderCode: orderCode,
		cancel:    cancel,
		done:      make(chan struct{}),
		state:     StateIdle,
	}
	go p.run(ctx, h)
	return h
}

func (p *Poller) run(ctx context.Context, h *Handle) {
	defer h.cancel()

	log := p.logger.With(zap.Int64("order_code", h.OrderCode))
	timer := time.NewTimer(p.cfg.InitialDelay)
	defer timer.Stop()

	h.setState(StatePolling)
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			log.Debug("poll stopped", zap.Int("attempts", attempt-1))
			h.finish(Result{State: StateStopped, Attempts: attempt - 1, Err: lastErr})
			return
		case <-timer.C:
		}

		status, err := p.checker.CheckAndReconcile(ctx, h.OrderCode)
		if err != nil {
			if ctx.Err() != nil {
				h.finish(Result{State: StateStopped, Attempts: attempt, Err: lastErr})
				return
			}
			if errors.Is(err, reconcile.ErrUnknownOrder) {
				log.Warn("poll stopped for unknown order", zap.Error(err))
				h.finish(Result{State: StateStopped, Attempts: attempt, Err: err})
				return
			}
			log.Warn("payment status check failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
		} else if state := StateFor(status); state.Terminal() {
			log.Info("poll finished", zap.String("state", string(state)), zap.Int("attempts", attempt))
			h.finish(Result{State: state, Attempts: attempt})
			return
		}

		timer.Reset(p.cfg.Interval)
	}

	log.Info("poll timed out", zap.Int("attempts", p.cfg.MaxAttempts))
	h.finish(Result{State: StateTimedOut, Attempts: p.cfg.MaxAttempts, Err: lastErr})
}

// StateFor maps the status of one check to the poll state it leads to.
func StateFor(status reconcile.PollStatus) State {
	switch status {
	case reconcile.PollPaid:
		return StateConfirmed
	case reconcile.PollCancelled:
		return StateCancelled
	case reconcile.PollExpired:
		return StateExpired
	case reconcile.PollUnderpaid:
		return StateUnderpaid
	}
	return StatePolling
}
