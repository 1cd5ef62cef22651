// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/postlens/config"
	"github.com/spacesedan/postlens/internal/analysis"
	"github.com/spacesedan/postlens/internal/monitoring"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

func NewRouter(service *analysis.Service, metrics *monitoring.Metrics, cfg config.ServerConfig) *http.ServeMux {
	mux := http.NewServeMux()

	analysisHandler := NewAnalysisHandler(service, cfg.MaxBodyBytes)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	mux.HandleFunc("POST /analyze", WithLogging(analysisHandler.Analyze))
	mux.HandleFunc("GET /analyses", WithLogging(analysisHandler.ListAnalyses))
	mux.HandleFunc("GET /analyses/{id}", WithLogging(analysisHandler.GetAnalysis))
	mux.HandleFunc("GET /rules", WithLogging(ListRules))

	return mux
}

func NewServer(service *analysis.Service, metrics *monitoring.Metrics, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(service, metrics, cfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe runs srv until ctx is done, then shuts it down gracefully.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Server] Listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("[Server] Shutting down...")
	timeout := srv.WriteTimeout
	if timeout <= 0 {
		timeout = SHUTDOWN_TIMEOUT
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
