package service

import (
	"context"
	"sort"
	"strings"

	"rust-team-tracker/internal/api"
	"rust-team-tracker/internal/constants"
	"rust-team-tracker/internal/domain"
	"rust-team-tracker/internal/metrics"

	"github.com/rs/zerolog"
)

type PresenceMatcher struct {
	presence PresenceAPI
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

func NewPresenceMatcher(presence PresenceAPI, logger zerolog.Logger, m *metrics.Metrics) *PresenceMatcher {
	return &PresenceMatcher{presence: presence, logger: logger, metrics: m}
}

// Match returns the presence of the player named name on the configured server.
// Upstream failures are logged and reported as no match.
func (m *PresenceMatcher) Match(ctx context.Context, name string) *domain.PresenceRecord {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	players, err := m.presence.SearchPlayers(apiCtx, name)
	if err != nil {
		m.metrics.Presence("error")
		m.logger.Warn().Err(err).Str("name", name).Msg("presence lookup failed")
		return nil
	}

	rec := PickBestPresence(players, name, m.presence.ServerID())
	if rec == nil {
		m.metrics.Presence("no_match")
		m.logger.Debug().Str("name", name).Int("candidates", len(players)).Msg("no exact presence match")
		return nil
	}

	m.metrics.Presence("match")
	m.logger.Debug().
		Str("name", name).
		Str("matched_name", rec.MatchedName).
		Bool("online", rec.Online).
		Msg("presence matched")

	return rec
}

type presenceCandidate struct {
	name string
	meta api.BMServerMeta
}

// PickBestPresence keeps the players whose name equals name ignoring case and
// returns the one seen most recently on serverID. Players without a last-seen
// time never outrank players with one.
func PickBestPresence(players []api.BMPlayer, name, serverID string) *domain.PresenceRecord {
	name = strings.TrimSpace(name)

	var candidates []presenceCandidate
	for _, p := range players {
		stored, ok := p.Name()
		if !ok || !strings.EqualFold(stored, name) {
			continue
		}
		candidates = append(candidates, presenceCandidate{name: stored, meta: p.ServerMeta(serverID)})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].meta.LastSeen, candidates[j].meta.LastSeen
		if !a.Valid || !b.Valid {
			return a.Valid && !b.Valid
		}
		return a.Value.Time().After(b.Value.Time())
	})

	best := candidates[0]
	rec := &domain.PresenceRecord{
		Online:      best.meta.Online.Value,
		MatchedName: best.name,
	}
	if ts, ok := best.meta.FirstSeen.Get(); ok {
		t := ts.Time()
		rec.FirstSeen = &t
	}
	if ts, ok := best.meta.LastSeen.Get(); ok {
		t := ts.Time()
		rec.LastSeen = &t
	}
	if secs, ok := best.meta.TimePlayed.Get(); ok {
		v := int64(secs)
		rec.TimePlayed = &v
	}
	return rec
}
