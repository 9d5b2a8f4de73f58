package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/store"
)

// WebhookRetention is how long processed billing event ids are kept for
// replay detection.
const WebhookRetention = 30 * 24 * time.Hour

// sweeper is implemented by in-process caches that need expired entries
// evicted.
type sweeper interface {
	Sweep() int
}

// HousekeepingService periodically removes stale refresh tokens, old
// webhook event ids and expired in-memory cache entries.
type HousekeepingService struct {
	Store    store.Store
	Cache    any
	Logger   *slog.Logger
	Interval time.Duration

	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults the interval to one hour. cache may be
// nil; it is swept only when it holds entries in process.
func NewHousekeepingService(st store.Store, cache any, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Cache:    cache,
		Logger:   logger,
		Interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs every task once. A failing task does not stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := s.now().UTC()
	ok := 0

	if n, err := s.Store.RefreshTokens().DeleteStaleRefreshTokens(ctx, now); err != nil {
		s.Logger.Error("failed to delete stale refresh tokens", "error", err)
	} else {
		s.Logger.Debug("deleted stale refresh tokens", "count", n)
		ok++
	}

	if n, err := s.Store.WebhookEvents().DeleteWebhookEventsBefore(ctx, now.Add(-WebhookRetention)); err != nil {
		s.Logger.Error("failed to delete old webhook events", "error", err)
	} else {
		s.Logger.Debug("deleted old webhook events", "count", n)
		ok++
	}

	if sw, isSweeper := s.Cache.(sweeper); isSweeper {
		s.Logger.Debug("swept cache", "count", sw.Sweep())
		ok++
	}

	s.Logger.Info("housekeeping cleanup completed", "successful_cleanups", ok)
}
