package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"rust-team-tracker/internal/api"
	"rust-team-tracker/internal/config"
	"rust-team-tracker/internal/domain"
	"rust-team-tracker/internal/metrics"
	"rust-team-tracker/internal/rpc"
	"rust-team-tracker/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLeaderboard struct {
	players string
	teams   string
}

func (s stubLeaderboard) SearchPlayers(context.Context, string) ([]api.PlayerEntry, error) {
	return api.DecodePlayerEntries(json.RawMessage(s.players)), nil
}

func (s stubLeaderboard) SearchTeams(context.Context, string) ([]api.TeamEntry, error) {
	return api.DecodeTeamEntries(json.RawMessage(s.teams)), nil
}

type stubPresence struct {
	players string
}

func (s stubPresence) SearchPlayers(context.Context, string) ([]api.BMPlayer, error) {
	return api.DecodeBMPlayers(json.RawMessage(s.players)), nil
}

func (s stubPresence) ServerID() string {
	return "15096801"
}

const (
	playersBody = `{"leaderboard":[{"Name":"Foo","SteamID":"111"}]}`
	teamsBody   = `{"leaderboard":[{
		"TeamID": "T1",
		"ClanTag": "RST",
		"SteamIDs": ["111","222"],
		"LastUpdated": "2025-03-01T12:00:00Z",
		"TeamPlayerData": [
			{"Name": "Foo", "SteamID": "111", "TimePlayed": 3600, "User": {"Avatar": {"avatar": "s.png"}}},
			{"Name": "Bar", "SteamID": "222", "TimePlayed": 7200}
		]
	}]}`
	bmBody = `{"data":[{"attributes":{"name":"foo"},"relationships":{"servers":{"data":[
		{"id":"15096801","meta":{"online":true,"lastSeen":"2025-03-02T08:00:00Z","timePlayed":5400}}
	]}}}]}`
)

func newTestClient(t *testing.T, leaderboard service.LeaderboardAPI) *rpc.TeamLookupClient {
	t.Helper()
	return newTestClientWithPresence(t, leaderboard, stubPresence{players: bmBody})
}

func newTestClientWithPresence(t *testing.T, leaderboard service.LeaderboardAPI, presence service.PresenceAPI) *rpc.TeamLookupClient {
	t.Helper()

	logger := zerolog.Nop()
	m := metrics.New()
	cfg := &config.Config{EnrichmentEnabled: true, Location: time.UTC}

	matcher := service.NewPresenceMatcher(presence, logger, m)
	lookups := service.NewLookupService(
		service.NewIdentifierResolver(leaderboard, logger),
		service.NewTeamResolver(leaderboard, logger),
		service.NewEnricher(matcher, logger, service.WithPacing(0)),
		cfg,
		logger,
		m,
	)

	srv := NewLookupServer(lookups, service.NewSessionRegistry(logger), cfg, logger)

	mux := http.NewServeMux()
	mux.Handle(rpc.NewTeamLookupHandler(srv))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return rpc.NewTeamLookupClient(ts.Client(), ts.URL)
}

func collect(t *testing.T, client *rpc.TeamLookupClient, req *rpc.LookupRequest) ([]*rpc.LookupEvent, http.Header) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stream, err := client.Lookup(ctx, connect.NewRequest(req))
	require.NoError(t, err)
	defer stream.Close()

	var events []*rpc.LookupEvent
	for stream.Receive() {
		events = append(events, stream.Msg())
	}
	require.NoError(t, stream.Err())
	return events, stream.ResponseHeader()
}

func kinds(events []*rpc.LookupEvent) []rpc.EventKind {
	out := make([]rpc.EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestLookupServer_StreamsLookup(t *testing.T) {
	client := newTestClient(t, stubLeaderboard{players: playersBody, teams: teamsBody})

	events, header := collect(t, client, &rpc.LookupRequest{Name: "Foo", SessionID: "client-1"})

	assert.Equal(t, "client-1", header.Get(rpc.SessionHeader))
	assert.Equal(t, []rpc.EventKind{
		rpc.KindStatus,
		rpc.KindIdentifier,
		rpc.KindStatus,
		rpc.KindTeam,
		rpc.KindStatus,
		rpc.KindPresence,
		rpc.KindPresence,
		rpc.KindDone,
	}, kinds(events))

	assert.Equal(t, "Looking up SteamID…", events[0].Status.Text)

	id := events[1].Identifier
	require.NotNil(t, id)
	assert.Equal(t, "111", id.SteamID)
	assert.Equal(t, "https://steamcommunity.com/profiles/111", id.ProfileURL)

	team := events[3].Team
	require.NotNil(t, team)
	assert.True(t, team.Found)
	assert.Equal(t, "OK", team.Summary.Badge)
	assert.Equal(t, "(RST)", team.Summary.Clan)
	assert.Equal(t, "Team Members: 2 (Last updated 2025-03-01 12:00:00)", team.Summary.Meta)
	require.Len(t, team.Members, 2)
	assert.Equal(t, "222", team.Members[0].Key)
	assert.Equal(t, "2h 0m", team.Members[0].Played)
	assert.Equal(t, "s.png", team.Members[1].Avatar)

	assert.Empty(t, events[4].Status.Text)

	bar := events[5].Presence
	require.NotNil(t, bar)
	assert.Equal(t, "222", bar.Key)
	assert.False(t, bar.Found)
	assert.Equal(t, "unknown", bar.Status)
	assert.Equal(t, "—", bar.Played)

	foo := events[6].Presence
	require.NotNil(t, foo)
	assert.Equal(t, "111", foo.Key)
	assert.True(t, foo.Found)
	assert.Equal(t, "online", foo.Status)
	assert.Equal(t, "foo", foo.MatchedName)
	assert.Equal(t, "2025-03-02 08:00:00", foo.LastSeenText)
	assert.Equal(t, "1h 30m", foo.Played)
	assert.Equal(t, "—", foo.FirstSeenText)

	assert.False(t, events[7].Done.Superseded)
}

// blockingPresence holds every search open until its context ends.
type blockingPresence struct {
	entered  chan struct{}
	released chan struct{}
	once     sync.Once
}

func (b *blockingPresence) SearchPlayers(ctx context.Context, _ string) ([]api.BMPlayer, error) {
	b.once.Do(func() { close(b.entered) })
	<-ctx.Done()
	close(b.released)
	return nil, ctx.Err()
}

func (b *blockingPresence) ServerID() string {
	return "15096801"
}

func TestLookupServer_ClientLeavesDuringEnrichment(t *testing.T) {
	presence := &blockingPresence{entered: make(chan struct{}), released: make(chan struct{})}
	client := newTestClientWithPresence(t, stubLeaderboard{players: playersBody, teams: teamsBody}, presence)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := client.Lookup(ctx, connect.NewRequest(&rpc.LookupRequest{Name: "Foo"}))
	require.NoError(t, err)
	defer stream.Close()

	for stream.Receive() {
		if stream.Msg().Kind == rpc.KindTeam {
			break
		}
	}

	select {
	case <-presence.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("enrichment did not start")
	}

	cancel()

	select {
	case <-presence.released:
	case <-time.After(5 * time.Second):
		t.Fatal("enrichment kept running after the client left")
	}
}

func TestLookupServer_NoTeam(t *testing.T) {
	client := newTestClient(t, stubLeaderboard{players: playersBody, teams: `{"leaderboard":[]}`})

	events, header := collect(t, client, &rpc.LookupRequest{Name: "Foo"})

	assert.NotEmpty(t, header.Get(rpc.SessionHeader))
	require.Len(t, events, 6)

	team := events[3].Team
	require.NotNil(t, team)
	assert.False(t, team.Found)
	assert.Equal(t, "No team", team.Summary.Badge)
	assert.Equal(t, "No team found for this player on this server.", team.Summary.Meta)
	assert.Empty(t, team.Members)
	assert.Equal(t, rpc.KindDone, events[5].Kind)
}

func TestLookupServer_EmptyName(t *testing.T) {
	client := newTestClient(t, stubLeaderboard{})

	events, _ := collect(t, client, &rpc.LookupRequest{Name: " "})

	require.Len(t, events, 2)
	assert.Equal(t, &rpc.StatusEvent{Text: "Please enter a player name.", IsError: true}, events[0].Status)
	assert.Equal(t, rpc.KindDone, events[1].Kind)
}

func TestToPresenceEvent_NoMatch(t *testing.T) {
	ev := toPresenceEvent(service.PresenceUpdate{Key: "k", Name: "Foo"}, time.UTC)
	assert.Equal(t, &rpc.PresenceEvent{
		Key:           "k",
		Name:          "Foo",
		Status:        "unknown",
		FirstSeenText: "—",
		LastSeenText:  "—",
		Played:        "—",
	}, ev)

	played := int64(0)
	ev = toPresenceEvent(service.PresenceUpdate{Key: "k", Presence: &domain.PresenceRecord{TimePlayed: &played}}, time.UTC)
	assert.True(t, ev.Found)
	assert.Equal(t, "offline", ev.Status)
	assert.Equal(t, "0h 0m", ev.Played)
}

func TestToMember_TimePlayed(t *testing.T) {
	played := int64(5400)

	tests := []struct {
		name       string
		timePlayed *int64
		want       string
	}{
		{"present", &played, "1h 30m"},
		{"missing", nil, "—"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := toMember(domain.MemberRecord{Key: "k", Name: "Foo", TimePlayed: tt.timePlayed})
			assert.Equal(t, tt.want, m.Played)
			assert.Equal(t, tt.timePlayed, m.TimePlayed)
		})
	}
}
