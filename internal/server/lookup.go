package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"rust-team-tracker/internal/config"
	"rust-team-tracker/internal/domain"
	"rust-team-tracker/internal/rpc"
	"rust-team-tracker/internal/service"
	"rust-team-tracker/internal/view"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type LookupServer struct {
	lookups  *service.LookupService
	sessions *service.SessionRegistry
	location *time.Location
	logger   zerolog.Logger
}

func NewLookupServer(lookups *service.LookupService, sessions *service.SessionRegistry, cfg *config.Config, logger zerolog.Logger) *LookupServer {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &LookupServer{lookups: lookups, sessions: sessions, location: loc, logger: logger}
}

// Lookup streams the lookup of req.Msg.Name and keeps the stream open until
// enrichment finishes or a newer lookup of the same session takes over.
func (s *LookupServer) Lookup(ctx context.Context, req *connect.Request[rpc.LookupRequest], stream *connect.ServerStream[rpc.LookupEvent]) error {
	log := zerolog.Ctx(ctx)
	if log.GetLevel() == zerolog.Disabled {
		log = &s.logger
	}

	session, err := s.sessions.Get(req.Msg.SessionID)
	if err != nil {
		return connect.NewError(connect.CodeInternal, err)
	}
	stream.ResponseHeader().Set(rpc.SessionHeader, session.ID())

	sink := &streamSink{stream: stream, location: s.location}

	task, err := s.lookups.Lookup(ctx, session, req.Msg.Name, sink)
	superseded := errors.Is(err, service.ErrSuperseded)
	if err != nil && !superseded {
		log.Warn().Err(err).Str("session_id", session.ID()).Msg("lookup stream failed")
		return connect.NewError(connect.CodeUnavailable, err)
	}

	select {
	case <-task.Done():
	case <-ctx.Done():
		task.Cancel()
		<-task.Done()
		log.Debug().Str("session_id", session.ID()).Msg("client left during enrichment")
		return connect.NewError(connect.CodeCanceled, ctx.Err())
	}

	if err := task.Wait(); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID()).Msg("enrichment stopped")
		return connect.NewError(connect.CodeUnavailable, err)
	}

	superseded = superseded || !session.IsCurrent(task.Generation())
	return sink.send(&rpc.LookupEvent{Kind: rpc.KindDone, Done: &rpc.DoneEvent{Superseded: superseded}})
}

// streamSink serialises sends onto the response stream; enrichment publishes
// from its own goroutine.
type streamSink struct {
	mu       sync.Mutex
	stream   *connect.ServerStream[rpc.LookupEvent]
	location *time.Location
}

func (s *streamSink) send(ev *rpc.LookupEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream.Send(ev)
}

func (s *streamSink) Status(text string, isError bool) error {
	return s.send(&rpc.LookupEvent{Kind: rpc.KindStatus, Status: &rpc.StatusEvent{Text: text, IsError: isError}})
}

func (s *streamSink) Identifier(id domain.PlayerIdentifier) error {
	return s.send(&rpc.LookupEvent{Kind: rpc.KindIdentifier, Identifier: &rpc.IdentifierEvent{
		SteamID:    string(id),
		ProfileURL: view.SteamProfileURL(string(id)),
	}})
}

func (s *streamSink) Team(team *domain.TeamRecord) error {
	return s.send(&rpc.LookupEvent{Kind: rpc.KindTeam, Team: toTeamEvent(team, s.location)})
}

func (s *streamSink) Presence(update service.PresenceUpdate) error {
	return s.send(&rpc.LookupEvent{Kind: rpc.KindPresence, Presence: toPresenceEvent(update, s.location)})
}
