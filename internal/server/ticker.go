package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ticker is a Service that calls fn once per interval. A failing call is
// logged and the ticker keeps running.
type Ticker struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
	logger   *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// NewTicker creates a Ticker.
//
// Precondition: interval > 0; fn must be non-nil.
func NewTicker(name string, interval time.Duration, fn func(ctx context.Context) error, logger *zap.Logger) *Ticker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{
		name:     name,
		interval: interval,
		fn:       fn,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start implements Service.
func (t *Ticker) Start(ctx context.Context) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.stop:
			return nil
		case <-tk.C:
			if err := t.fn(ctx); err != nil {
				t.logger.Warn("tick failed", zap.String("ticker", t.name), zap.Error(err))
			}
		}
	}
}

// Stop implements Service. It is safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}
