package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"rust-team-tracker/internal/config"
	"rust-team-tracker/internal/constants"
)

const battleMetricsSource = "battlemetrics"

type BattleMetricsClient struct {
	fetcher  *Fetcher
	baseURL  string
	serverID string
}

func NewBattleMetricsClient(cfg *config.Config, fetcher *Fetcher) *BattleMetricsClient {
	return &BattleMetricsClient{
		fetcher:  fetcher,
		baseURL:  strings.TrimRight(cfg.BattleMetrics.BaseURL, "/"),
		serverID: cfg.BattleMetrics.ServerID,
	}
}

func (c *BattleMetricsClient) ServerID() string {
	return c.serverID
}

func (c *BattleMetricsClient) PlayerSearchURL(name string) string {
	q := url.Values{}
	q.Set("page[size]", strconv.Itoa(constants.PresencePageSize))
	q.Set("include", "server")
	q.Set("fields[server]", "")
	q.Set("filter[servers]", c.serverID)
	q.Set("filter[search]", strings.TrimSpace(name))
	return c.baseURL + "/players?" + q.Encode()
}

// SearchPlayers returns the name-search page for the configured server.
// Exact-name selection is left to the caller.
func (c *BattleMetricsClient) SearchPlayers(ctx context.Context, name string) ([]BMPlayer, error) {
	body, err := c.fetcher.GetJSON(ctx, battleMetricsSource, c.PlayerSearchURL(name))
	if err != nil {
		return nil, err
	}
	return DecodeBMPlayers(body), nil
}

// DecodeBMPlayers drops elements of "data" that are not objects.
func DecodeBMPlayers(body json.RawMessage) []BMPlayer {
	raw := items(body, "data")
	out := make([]BMPlayer, 0, len(raw))
	for _, item := range raw {
		if p, ok := decodeObject[BMPlayer](item); ok {
			out = append(out, p)
		}
	}
	return out
}
