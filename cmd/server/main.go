package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rust-team-tracker/internal/config"
	"rust-team-tracker/internal/constants"
	fxmodules "rust-team-tracker/internal/fx"
	"rust-team-tracker/internal/metrics"
	"rust-team-tracker/internal/middleware"
	"rust-team-tracker/internal/rpc"
	"rust-team-tracker/internal/server"
	"rust-team-tracker/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	lookupServer *server.LookupServer,
	sessions *service.SessionRegistry,
	limiter *middleware.IPRateLimiter,
	m *metrics.Metrics,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	cfg.LogSummary(logger)

	mux := http.NewServeMux()

	path, handler := rpc.NewTeamLookupHandler(lookupServer)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{rpc.SessionHeader, middleware.RequestIDHeader},
	})

	mux.Handle(path, middleware.Chain(handler,
		middleware.RequestID(logger),
		middleware.RateLimit(limiter),
	))
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	pruneCtx, stopPrune := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			go pruneSessions(pruneCtx, sessions)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			stopPrune()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}

func pruneSessions(ctx context.Context, sessions *service.SessionRegistry) {
	ticker := time.NewTicker(constants.SessionIdleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Prune()
		}
	}
}
