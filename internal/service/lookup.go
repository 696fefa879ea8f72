package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rust-team-tracker/internal/api"
	"rust-team-tracker/internal/config"
	"rust-team-tracker/internal/constants"
	"rust-team-tracker/internal/domain"
	"rust-team-tracker/internal/metrics"
	"rust-team-tracker/internal/view"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	StatusEmptyName    = "Please enter a player name."
	StatusResolving    = "Looking up SteamID…"
	StatusNoIdentifier = "No SteamID found for that name on this server."
	StatusFetchingTeam = "Fetching team…"
	StatusFailedPrefix = "Failed: "
)

type LookupService struct {
	identifiers *IdentifierResolver
	teams       *TeamResolver
	enricher    *Enricher
	enrichment  bool
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

func NewLookupService(
	identifiers *IdentifierResolver,
	teams *TeamResolver,
	enricher *Enricher,
	cfg *config.Config,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *LookupService {
	return &LookupService{
		identifiers: identifiers,
		teams:       teams,
		enricher:    enricher,
		enrichment:  cfg.EnrichmentEnabled,
		logger:      logger,
		metrics:     m,
	}
}

// Lookup runs name → SteamID → team for session and publishes each step to
// sink. The team is published before enrichment starts; enrichment continues
// on the returned task. Resolution failures are reported as statuses, so a
// non-nil error means sink itself failed or the lookup was superseded.
func (s *LookupService) Lookup(ctx context.Context, session *Session, name string, sink Sink) (*EnrichmentTask, error) {
	ctx, gen := session.Begin(ctx)
	out := &guardedSink{session: session, gen: gen, sink: sink}
	log := s.logger.With().Str("session_id", session.ID()).Uint64("generation", gen).Logger()

	finish := func(outcome string, err error) (*EnrichmentTask, error) {
		s.metrics.Lookup(outcome)
		session.End(gen)
		return completedTask(gen), err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return finish("empty_name", out.Status(StatusEmptyName, true))
	}

	if err := out.Status(StatusResolving, false); err != nil {
		return finish("aborted", err)
	}

	resolveCtx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	id, found, err := s.identifiers.Resolve(resolveCtx, name)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("lookup failed resolving steam id")
		return finish("error", out.Status(StatusFailedPrefix+FailureReason(err), true))
	}
	if !found {
		return finish("not_found", out.Status(StatusNoIdentifier, true))
	}

	if err := out.Identifier(id); err != nil {
		return finish("aborted", err)
	}
	if err := out.Status(StatusFetchingTeam, false); err != nil {
		return finish("aborted", err)
	}

	team, err := s.teams.Resolve(resolveCtx, id)
	if err != nil {
		log.Warn().Err(err).Str("steam_id", string(id)).Msg("lookup failed resolving team")
		return finish("error", out.Status(StatusFailedPrefix+FailureReason(err), true))
	}

	if team != nil {
		ordered := *team
		ordered.Members = view.OrderMembers(team.Members)
		team = &ordered
	}

	if err := out.Team(team); err != nil {
		return finish("aborted", err)
	}
	if err := out.Status("", false); err != nil {
		return finish("aborted", err)
	}

	if team == nil {
		return finish("no_team", nil)
	}
	s.metrics.Lookup("team")

	if !s.enrichment || len(team.Members) == 0 {
		session.End(gen)
		return completedTask(gen), nil
	}

	log.Info().Str("steam_id", string(id)).Int("members", len(team.Members)).Msg("starting enrichment")
	return s.startEnrichment(ctx, session, gen, team.Members, out, log), nil
}

func (s *LookupService) startEnrichment(
	ctx context.Context,
	session *Session,
	gen uint64,
	members []domain.MemberRecord,
	out *guardedSink,
	log zerolog.Logger,
) *EnrichmentTask {
	taskCtx, cancel := context.WithCancel(ctx)
	task := &EnrichmentTask{generation: gen, cancel: cancel, done: make(chan struct{})}

	g, gCtx := errgroup.WithContext(taskCtx)
	g.Go(func() error {
		return s.enricher.Run(gCtx, members, out.Presence)
	})

	go func() {
		defer close(task.done)
		defer session.End(gen)
		defer cancel()

		err := g.Wait()
		switch {
		case err == nil:
			log.Debug().Msg("enrichment completed")
		case errors.Is(err, context.Canceled):
			log.Debug().Msg("enrichment cancelled")
		default:
			log.Error().Err(err).Msg("enrichment failed")
			task.err = err
		}
	}()

	return task
}

// FailureReason turns a resolution error into short user-facing text.
func FailureReason(err error) string {
	var statusErr *api.StatusError
	var parseErr *api.ParseError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP %d", statusErr.Status)
	case errors.As(err, &parseErr):
		return "malformed response"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "network error"
	}
}

// EnrichmentTask is the handle of a lookup's background enrichment.
type EnrichmentTask struct {
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
	err        error
}

func completedTask(gen uint64) *EnrichmentTask {
	done := make(chan struct{})
	close(done)
	return &EnrichmentTask{generation: gen, cancel: func() {}, done: done}
}

// Wait blocks until enrichment stops. Cancellation is not reported as an error.
func (t *EnrichmentTask) Wait() error {
	<-t.done
	return t.err
}

func (t *EnrichmentTask) Done() <-chan struct{} {
	return t.done
}

func (t *EnrichmentTask) Cancel() {
	t.cancel()
}

func (t *EnrichmentTask) Generation() uint64 {
	return t.generation
}

// guardedSink drops every publish once a newer lookup has started.
type guardedSink struct {
	session *Session
	gen     uint64
	sink    Sink
}

func (g *guardedSink) check() error {
	if !g.session.IsCurrent(g.gen) {
		return ErrSuperseded
	}
	return nil
}

func (g *guardedSink) Status(text string, isError bool) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.sink.Status(text, isError)
}

func (g *guardedSink) Identifier(id domain.PlayerIdentifier) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.sink.Identifier(id)
}

func (g *guardedSink) Team(team *domain.TeamRecord) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.sink.Team(team)
}

func (g *guardedSink) Presence(update PresenceUpdate) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.sink.Presence(update)
}
