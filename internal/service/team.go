package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"rust-team-tracker/internal/api"
	"rust-team-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type TeamResolver struct {
	leaderboard LeaderboardAPI
	logger      zerolog.Logger
}

func NewTeamResolver(leaderboard LeaderboardAPI, logger zerolog.Logger) *TeamResolver {
	return &TeamResolver{leaderboard: leaderboard, logger: logger}
}

// Resolve returns the first team containing id, or nil when the player has no
// team on the server.
func (r *TeamResolver) Resolve(ctx context.Context, id domain.PlayerIdentifier) (*domain.TeamRecord, error) {
	teams, err := r.leaderboard.SearchTeams(ctx, string(id))
	if err != nil {
		r.logger.Error().Err(err).Str("steam_id", string(id)).Msg("failed to search teams")
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}

	if len(teams) == 0 || !teams[0].IsObject() {
		r.logger.Info().Str("steam_id", string(id)).Msg("player has no team")
		return nil, nil
	}
	if len(teams) > 1 {
		r.logger.Debug().Str("steam_id", string(id)).Int("count", len(teams)).Msg("multiple teams returned, using first")
	}

	team := BuildTeam(teams[0])
	r.logger.Info().
		Str("steam_id", string(id)).
		Str("team_id", team.TeamID).
		Int("members", len(team.Members)).
		Msg("team resolved")

	return team, nil
}

func BuildTeam(e api.TeamEntry) *domain.TeamRecord {
	team := &domain.TeamRecord{
		TeamID:   string(e.TeamID.Value),
		ClanTag:  strings.TrimSpace(e.ClanTag.Value),
		Rankings: buildRankings(e.Rankings),
	}

	for _, id := range e.SteamIDs.Value {
		if s := strings.TrimSpace(string(id.Value)); id.Valid && s != "" {
			team.SteamIDs = append(team.SteamIDs, s)
		}
	}

	if ts, ok := e.LastUpdated.Get(); ok {
		t := ts.Time()
		team.LastUpdated = &t
	}

	for i, m := range e.Members() {
		team.Members = append(team.Members, buildMember(m, i))
	}

	return team
}

func buildMember(m api.MemberDTO, index int) domain.MemberRecord {
	steamID := strings.TrimSpace(string(m.SteamID.Value))

	// rows without a SteamID still need a key that is stable across lookups
	key := steamID
	if key == "" {
		key = "row-" + strconv.Itoa(index)
	}

	avatar := m.User.Value.Avatar.Value

	return domain.MemberRecord{
		Key:     key,
		Name:    strings.TrimSpace(m.Name.Value),
		SteamID: steamID,
		Avatar: domain.Avatar{
			Full:   avatar.AvatarFull.Value,
			Medium: avatar.AvatarMedium.Value,
			Small:  avatar.Avatar.Value,
		},
		Rankings: buildRankings(m.Rankings),
		KDR:      float64(m.KDR.Value),

		PVPKills:         count(m.PVPKills),
		Deaths:           count(m.Deaths),
		ArrowsFired:      count(m.ArrowsFired),
		BulletsFired:     count(m.BulletsFired),
		RocketsLaunched:  count(m.RocketsLaunched),
		ExplosivesThrown: count(m.ExplosivesThrown),

		PVEKills:  count(m.PVEKills),
		NPCKills:  count(m.NPCKills),
		HeliHits:  count(m.HeliHits),
		HeliKills: count(m.HeliKills),
		APCHits:   count(m.APCHits),
		APCKills:  count(m.APCKills),

		Wood:   count(m.Wood),
		Stone:  count(m.Stone),
		Metal:  count(m.Metal),
		HQM:    count(m.HQM),
		Sulfur: count(m.Sulfur),

		TimePlayed: optCount(m.TimePlayed),
	}
}

func buildRankings(r api.Opt[api.RankingsDTO]) domain.Rankings {
	return domain.Rankings{
		Rank:           metric(r.Value.Rank),
		Rating:         metric(r.Value.Rating),
		PVPPerf:        metric(r.Value.PVPPerf),
		PVEPerf:        metric(r.Value.PVEPerf),
		BallisticsPerf: metric(r.Value.BallisticsPerf),
		GatherPerf:     metric(r.Value.GatherPerf),
	}
}

func metric(n api.Opt[api.Number]) *float64 {
	if !n.Valid {
		return nil
	}
	v := float64(n.Value)
	return &v
}

// missing counters read as zero
func count(n api.Opt[api.Number]) int64 {
	return int64(n.Value)
}

func optCount(n api.Opt[api.Number]) *int64 {
	if !n.Valid {
		return nil
	}
	v := int64(n.Value)
	return &v
}
