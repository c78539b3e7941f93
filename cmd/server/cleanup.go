package main

import (
	"context"
	"time"

	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
)

// runCleanupLoop sweeps stale quotes every interval until ctx is done.
// A failed sweep is logged and retried on the next tick.
func runCleanupLoop(ctx context.Context, svc *services.CleanupService, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rep, err := svc.Run(ctx, now)
			if err != nil {
				log.Error("cleanup sweep failed", zap.Error(err))
				continue
			}
			log.Info("cleanup sweep", zap.Any("report", rep))
		}
	}
}
