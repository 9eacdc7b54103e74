package service

import (
	"context"
	"sync"
	"time"

	"apotek-store/internal/core/logger"

	"go.uber.org/zap"
)

// Sweeper periodically expires orders whose payment window has closed.
// It is the only writer of the CANCELLED_AUTO status.
type Sweeper struct {
	orders   *OrderService
	interval time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewSweeper creates a sweeper running at the given interval.
func NewSweeper(orders *OrderService, interval time.Duration) *Sweeper {
	return &Sweeper{
		orders:   orders,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Run starts the sweep loop in the background. It returns immediately.
func (s *Sweeper) Run(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		logger.Get().Info("expiration sweeper started", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ticker.C:
				if n := s.orders.ExpireDue(ctx, time.Now().UTC()); n > 0 {
					logger.Get().Info("expiration sweep finished", zap.Int("expired", n))
				}
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Close() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}
