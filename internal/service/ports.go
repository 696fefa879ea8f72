package service

import (
	"context"

	"rust-team-tracker/internal/api"
	"rust-team-tracker/internal/domain"
)

// LeaderboardAPI is the rankeval surface used by the resolvers.
type LeaderboardAPI interface {
	SearchPlayers(ctx context.Context, name string) ([]api.PlayerEntry, error)
	SearchTeams(ctx context.Context, steamID string) ([]api.TeamEntry, error)
}

// PresenceAPI is the BattleMetrics surface used by the presence matcher.
type PresenceAPI interface {
	SearchPlayers(ctx context.Context, name string) ([]api.BMPlayer, error)
	ServerID() string
}

// PresenceLookup resolves presence for one display name. A nil record means
// no match; implementations never fail.
type PresenceLookup interface {
	Match(ctx context.Context, name string) *domain.PresenceRecord
}

// Sink receives the results of one lookup in publish order.
type Sink interface {
	Status(text string, isError bool) error
	Identifier(id domain.PlayerIdentifier) error
	Team(team *domain.TeamRecord) error
	Presence(update PresenceUpdate) error
}
