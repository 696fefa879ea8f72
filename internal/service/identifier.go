package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rust-team-tracker/internal/api"
	"rust-team-tracker/internal/domain"

	"github.com/rs/zerolog"
)

var ErrEmptyName = errors.New("player name is empty")

type IdentifierResolver struct {
	leaderboard LeaderboardAPI
	logger      zerolog.Logger
}

func NewIdentifierResolver(leaderboard LeaderboardAPI, logger zerolog.Logger) *IdentifierResolver {
	return &IdentifierResolver{leaderboard: leaderboard, logger: logger}
}

// Resolve maps a display name to the SteamID recorded on the leaderboard.
// found is false when the leaderboard has no usable entry; that is not an error.
func (r *IdentifierResolver) Resolve(ctx context.Context, name string) (domain.PlayerIdentifier, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, ErrEmptyName
	}

	r.logger.Debug().Str("name", name).Msg("resolving steam id")

	entries, err := r.leaderboard.SearchPlayers(ctx, name)
	if err != nil {
		r.logger.Error().Err(err).Str("name", name).Msg("failed to search leaderboard")
		return "", false, fmt.Errorf("failed to search leaderboard: %w", err)
	}

	id, found := SelectIdentifier(entries, name)
	r.logger.Info().
		Str("name", name).
		Int("candidates", len(entries)).
		Bool("found", found).
		Str("steam_id", string(id)).
		Msg("steam id resolved")

	return id, found, nil
}

// SelectIdentifier picks the first entry whose name equals name ignoring case,
// else the first entry. Stored names are compared as-is. An entry without a
// SteamID resolves to nothing.
func SelectIdentifier(entries []api.PlayerEntry, name string) (domain.PlayerIdentifier, bool) {
	if len(entries) == 0 {
		return "", false
	}
	name = strings.TrimSpace(name)

	pick := entries[0]
	for _, e := range entries {
		if n, ok := e.Name.Get(); ok && strings.EqualFold(n, name) {
			pick = e
			break
		}
	}

	id := strings.TrimSpace(string(pick.SteamID.Value))
	if !pick.SteamID.Valid || id == "" {
		return "", false
	}
	return domain.PlayerIdentifier(id), true
}
