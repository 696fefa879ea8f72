package service

import (
	"context"
	"encoding/json"
	"sync"

	"rust-team-tracker/internal/api"
	"rust-team-tracker/internal/domain"
)

type fakeLeaderboard struct {
	searchPlayers func(ctx context.Context, name string) ([]api.PlayerEntry, error)
	searchTeams   func(ctx context.Context, steamID string) ([]api.TeamEntry, error)
}

func (f *fakeLeaderboard) SearchPlayers(ctx context.Context, name string) ([]api.PlayerEntry, error) {
	return f.searchPlayers(ctx, name)
}

func (f *fakeLeaderboard) SearchTeams(ctx context.Context, steamID string) ([]api.TeamEntry, error) {
	return f.searchTeams(ctx, steamID)
}

type fakePresenceAPI struct {
	serverID      string
	searchPlayers func(ctx context.Context, name string) ([]api.BMPlayer, error)
}

func (f *fakePresenceAPI) SearchPlayers(ctx context.Context, name string) ([]api.BMPlayer, error) {
	return f.searchPlayers(ctx, name)
}

func (f *fakePresenceAPI) ServerID() string {
	return f.serverID
}

type fakeMatcher struct {
	match func(ctx context.Context, name string) *domain.PresenceRecord
}

func (f *fakeMatcher) Match(ctx context.Context, name string) *domain.PresenceRecord {
	return f.match(ctx, name)
}

type event struct {
	Kind     string
	Text     string
	IsError  bool
	ID       domain.PlayerIdentifier
	Team     *domain.TeamRecord
	Presence PresenceUpdate
}

type recordingSink struct {
	mu     sync.Mutex
	events []event
	fail   map[string]error
}

func (s *recordingSink) record(e event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[e.Kind]; err != nil {
		return err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Status(text string, isError bool) error {
	return s.record(event{Kind: "status", Text: text, IsError: isError})
}

func (s *recordingSink) Identifier(id domain.PlayerIdentifier) error {
	return s.record(event{Kind: "identifier", ID: id})
}

func (s *recordingSink) Team(team *domain.TeamRecord) error {
	return s.record(event{Kind: "team", Team: team})
}

func (s *recordingSink) Presence(update PresenceUpdate) error {
	return s.record(event{Kind: "presence", Presence: update})
}

func (s *recordingSink) snapshot() []event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event(nil), s.events...)
}

func (s *recordingSink) kinds() []string {
	var out []string
	for _, e := range s.snapshot() {
		out = append(out, e.Kind)
	}
	return out
}

func playerEntries(body string) []api.PlayerEntry {
	return api.DecodePlayerEntries(json.RawMessage(body))
}

func teamEntries(body string) []api.TeamEntry {
	return api.DecodeTeamEntries(json.RawMessage(body))
}

func bmPlayers(body string) []api.BMPlayer {
	return api.DecodeBMPlayers(json.RawMessage(body))
}
