package poller

import (
	"context"
	"errors"
	"sync"

	"github.com/chris/credit-wallet-ledger/pkg/metrics"
	"go.uber.org/zap"
)

var ErrManagerClosed = errors.New("poll manager is shut down")

// Manager owns at most one poll per order code.
type Manager struct {
	poller *Poller
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	active map[int64]*Handle
	closed bool
}

func NewManager(p *Poller, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		poller: p,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		active: make(map[int64]*Handle),
	}
}

// Follow starts polling orderCode unless a poll for it is already running.
// The poll outlives ctx; it ends on a final status or Shutdown.
func (m *Manager) Follow(_ context.Context, orderCode int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	if _, ok := m.active[orderCode]; ok {
		return nil
	}

	h := m.poller.Start(m.ctx, orderCode)
	m.active[orderCode] = h
	metrics.ActivePolls.Inc()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		<-h.Done()
		m.mu.Lock()
		delete(m.active, orderCode)
		m.mu.Unlock()
		metrics.ActivePolls.Dec()
	}()
	return nil
}

// Handle returns the running poll for orderCode.
func (m *Manager) Handle(orderCode int64) (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.active[orderCode]
	return h, ok
}

// Active returns the number of running polls.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Shutdown stops every poll and waits for them to release their timers.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	n := len(m.active)
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	m.logger.Info("poll manager shut down", zap.Int("stopped", n))
}
