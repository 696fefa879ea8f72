package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"rust-team-tracker/internal/config"
)

const rankEvalSource = "rankeval"

type RankEvalClient struct {
	fetcher    *Fetcher
	baseURL    string
	serverID   string
	recordType string
}

func NewRankEvalClient(cfg *config.Config, fetcher *Fetcher) *RankEvalClient {
	return &RankEvalClient{
		fetcher:    fetcher,
		baseURL:    strings.TrimRight(cfg.RankEval.BaseURL, "/"),
		serverID:   cfg.RankEval.ServerID,
		recordType: cfg.RankEval.Type,
	}
}

func (c *RankEvalClient) PlayerSearchURL(name string) string {
	q := url.Values{}
	q.Set("q", strings.TrimSpace(name))
	q.Set("ServerFilter", c.serverID)
	q.Set("Type", c.recordType)
	return c.baseURL + "/getleaderboards?" + q.Encode()
}

func (c *RankEvalClient) TeamSearchURL(steamID string) string {
	q := url.Values{}
	q.Set("q", steamID)
	q.Set("ServerFilter", c.serverID)
	return c.baseURL + "/getteamleaderboards?" + q.Encode()
}

// SearchPlayers returns the leaderboard entries for name in upstream order.
func (c *RankEvalClient) SearchPlayers(ctx context.Context, name string) ([]PlayerEntry, error) {
	body, err := c.fetcher.GetJSON(ctx, rankEvalSource, c.PlayerSearchURL(name))
	if err != nil {
		return nil, err
	}
	return DecodePlayerEntries(body), nil
}

// SearchTeams returns the team records whose roster contains steamID.
func (c *RankEvalClient) SearchTeams(ctx context.Context, steamID string) ([]TeamEntry, error) {
	body, err := c.fetcher.GetJSON(ctx, rankEvalSource, c.TeamSearchURL(steamID))
	if err != nil {
		return nil, err
	}
	return DecodeTeamEntries(body), nil
}

// DecodePlayerEntries keeps one entry per element of "leaderboard", including
// elements that are not objects, so positional fallbacks stay faithful.
func DecodePlayerEntries(body json.RawMessage) []PlayerEntry {
	raw := items(body, "leaderboard")
	out := make([]PlayerEntry, len(raw))
	for i, item := range raw {
		out[i], _ = decodeObject[PlayerEntry](item)
	}
	return out
}

// DecodeTeamEntries keeps one entry per element of "leaderboard". Elements
// that are not objects report false from IsObject.
func DecodeTeamEntries(body json.RawMessage) []TeamEntry {
	raw := items(body, "leaderboard")
	out := make([]TeamEntry, len(raw))
	for i, item := range raw {
		team, ok := decodeObject[TeamEntry](item)
		team.object = ok
		out[i] = team
	}
	return out
}
