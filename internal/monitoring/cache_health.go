package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMEOUT = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckCacheHealth pings once and stores the outcome in healthy.
func CheckCacheHealth(ctx context.Context, cache Pinger, healthy *atomic.Bool, metrics *Metrics) bool {
	pingCtx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
	defer cancel()

	isHealthy := cache.Ping(pingCtx) == nil
	if was := healthy.Swap(isHealthy); was != isHealthy {
		if isHealthy {
			slog.Info("[HealthCheck] Result cache recovered")
		} else {
			slog.Warn("[HealthCheck] Result cache is unhealthy, bypassing it")
		}
	}
	if metrics != nil {
		metrics.SetCacheHealthy(isHealthy)
	}
	return isHealthy
}

// MonitorCacheHealth checks the cache every interval until ctx is done.
func MonitorCacheHealth(ctx context.Context, cache Pinger, healthy *atomic.Bool, interval time.Duration, metrics *Metrics) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CheckCacheHealth(ctx, cache, healthy, metrics)
		}
	}
}
