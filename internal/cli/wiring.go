package cli

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/spacesedan/postlens/config"
	"github.com/spacesedan/postlens/internal/analysis"
	"github.com/spacesedan/postlens/internal/cache"
	"github.com/spacesedan/postlens/internal/clients"
	"github.com/spacesedan/postlens/internal/db"
	"github.com/spacesedan/postlens/internal/monitoring"
	"github.com/spacesedan/postlens/internal/sentiment"
)

// app is everything a command needs to analyze text.
type app struct {
	Service *analysis.Service
	Metrics *monitoring.Metrics

	closers []func()
}

func (r *app) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// newApp wires the engine with the optional cache and store from cfg.
// The cache is best effort; a store that is configured but fails to open is
// an error.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	rt := &app{Metrics: monitoring.NewMetrics()}
	opts := []analysis.Option{analysis.WithMetrics(rt.Metrics)}

	if cfg.Cache.Enabled {
		valkeyClient, err := clients.NewValkeyClient(cfg.Cache)
		if err != nil {
			slog.Warn("[CLI] Result cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			resultCache := cache.NewResultCache(valkeyClient, cfg.Cache.TTL)
			healthy := &atomic.Bool{}
			monitoring.CheckCacheHealth(ctx, resultCache, healthy, rt.Metrics)

			monitorCtx, cancel := context.WithCancel(ctx)
			go monitoring.MonitorCacheHealth(monitorCtx, resultCache, healthy, cfg.Cache.CheckInterval, rt.Metrics)

			opts = append(opts, analysis.WithCache(resultCache), analysis.WithCacheHealth(healthy))
			rt.closers = append(rt.closers, valkeyClient.Close, cancel)
		}
	}

	store, err := db.Open(ctx, cfg.Store)
	switch {
	case errors.Is(err, db.ErrNoStore):
	case err != nil:
		rt.Close()
		return nil, err
	default:
		opts = append(opts, analysis.WithStore(store))
		rt.closers = append(rt.closers, func() { store.Close() })
	}

	rt.Service = analysis.NewService(analysis.NewEngine(sentiment.NewLexicon()), opts...)
	return rt, nil
}
