package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"rust-team-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(base string) *config.Config {
	return &config.Config{
		RankEval: config.RankEvalConfig{
			BaseURL:  base + "/api/",
			ServerID: "srv-1",
			Type:     "Leaderboard",
		},
		BattleMetrics: config.BattleMetricsConfig{
			BaseURL:  base,
			ServerID: "15096801",
		},
	}
}

func TestRankEvalClient_SearchPlayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getleaderboards", r.URL.Path)
		assert.Equal(t, "Foo Bar", r.URL.Query().Get("q"))
		assert.Equal(t, "srv-1", r.URL.Query().Get("ServerFilter"))
		assert.Equal(t, "Leaderboard", r.URL.Query().Get("Type"))
		_, _ = w.Write([]byte(`{"leaderboard":[{"Name":"Foo Bar","SteamID":"123"}]}`))
	}))
	defer srv.Close()

	c := NewRankEvalClient(testConfig(srv.URL), newTestFetcher(1))
	entries, err := c.SearchPlayers(context.Background(), "  Foo Bar ")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Text("123"), entries[0].SteamID.Value)
}

func TestRankEvalClient_SearchTeams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getteamleaderboards", r.URL.Path)
		assert.Equal(t, "123", r.URL.Query().Get("q"))
		assert.Equal(t, "srv-1", r.URL.Query().Get("ServerFilter"))
		assert.Empty(t, r.URL.Query().Get("Type"))
		_, _ = w.Write([]byte(`{"leaderboard":[]}`))
	}))
	defer srv.Close()

	c := NewRankEvalClient(testConfig(srv.URL), newTestFetcher(1))
	teams, err := c.SearchTeams(context.Background(), "123")
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestBattleMetricsClient_PlayerSearchURL(t *testing.T) {
	c := NewBattleMetricsClient(testConfig("https://bm.example/"), newTestFetcher(1))

	u, err := url.Parse(c.PlayerSearchURL(" Foo "))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "/players", u.Path)
	assert.Equal(t, "10", q.Get("page[size]"))
	assert.Equal(t, "server", q.Get("include"))
	assert.True(t, q.Has("fields[server]"))
	assert.Equal(t, "15096801", q.Get("filter[servers]"))
	assert.Equal(t, "Foo", q.Get("filter[search]"))
}

func TestBattleMetricsClient_SearchPlayers_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewBattleMetricsClient(testConfig(srv.URL), newTestFetcher(2))
	_, err := c.SearchPlayers(context.Background(), "Foo")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.Status)
}
