package fx

import (
	"rust-team-tracker/internal/api"
	"rust-team-tracker/internal/config"
	"rust-team-tracker/internal/logger"
	"rust-team-tracker/internal/metrics"
	"rust-team-tracker/internal/middleware"
	"rust-team-tracker/internal/server"
	"rust-team-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func NewFetcher(logger zerolog.Logger, m *metrics.Metrics) *api.Fetcher {
	return api.NewFetcher(logger, m)
}

func NewEnricher(matcher service.PresenceLookup, logger zerolog.Logger) *service.Enricher {
	return service.NewEnricher(matcher, logger)
}

func NewRateLimiter(cfg *config.Config) *middleware.IPRateLimiter {
	return middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}

var Module = fx.Options(
	config.Module,
	logger.Module,
	metrics.Module,
	// api clients
	fx.Provide(NewFetcher),
	fx.Provide(fx.Annotate(api.NewRankEvalClient, fx.As(new(service.LeaderboardAPI)))),
	fx.Provide(fx.Annotate(api.NewBattleMetricsClient, fx.As(new(service.PresenceAPI)))),
	// svc
	fx.Provide(service.NewIdentifierResolver),
	fx.Provide(service.NewTeamResolver),
	fx.Provide(fx.Annotate(service.NewPresenceMatcher, fx.As(new(service.PresenceLookup)))),
	fx.Provide(NewEnricher),
	fx.Provide(service.NewSessionRegistry),
	fx.Provide(service.NewLookupService),
	// server
	fx.Provide(NewRateLimiter),
	fx.Provide(server.NewLookupServer),
)
