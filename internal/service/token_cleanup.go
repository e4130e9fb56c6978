package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/glovo-marketplace/internal/metrics"
)

// ExpiredTokenStore is the part of the refresh token ledger the sweeper
// needs.
type ExpiredTokenStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenSweeper periodically removes expired refresh tokens from the
// ledger.  Expired tokens are already rejected on use; sweeping only
// keeps the table small.
type TokenSweeper struct {
	store    ExpiredTokenStore
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewTokenSweeper(store ExpiredTokenStore, interval time.Duration, log *zap.Logger) *TokenSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenSweeper{store: store, interval: interval, log: log.Named("token-sweeper"), now: time.Now}
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *TokenSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("started", zap.Duration("interval", s.interval))
	for {
		s.SweepOnce(ctx)
		select {
		case <-ctx.Done():
			s.log.Info("stopped")
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce deletes the tokens that are expired at this moment and
// returns how many were removed.
func (s *TokenSweeper) SweepOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := s.store.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error("delete expired refresh tokens failed", zap.Error(err))
		}
		return 0
	}
	if n > 0 {
		metrics.RefreshTokensSweptTotal.Add(float64(n))
		s.log.Info("expired refresh tokens removed", zap.Int64("count", n))
	}
	return n
}
