package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"rust-team-tracker/internal/constants"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Session tracks the lookups of one client. Starting a lookup cancels the
// previous one and bumps the generation; publishes tagged with an older
// generation are dropped.
type Session struct {
	id         string
	generation atomic.Uint64
	lastUsed   atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSession(id string) *Session {
	s := &Session{id: id}
	s.touch(time.Now())
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Begin starts a new lookup generation derived from ctx.
func (s *Session) Begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return ctx, s.generation.Add(1)
}

func (s *Session) IsCurrent(gen uint64) bool {
	return s.generation.Load() == gen
}

func (s *Session) Generation() uint64 {
	return s.generation.Load()
}

// End releases the context of gen if it is still the current lookup.
func (s *Session) End(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.IsCurrent(gen) && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastUsed.Load()))
}

// SessionRegistry hands out sessions by client-supplied id.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

func NewSessionRegistry(logger zerolog.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		ttl:      constants.SessionIdleTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Get returns the session for id, creating it when unknown. An empty id gets
// a freshly generated one.
func (r *SessionRegistry) Get(id string) (*Session, error) {
	if id == "" {
		generated, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session id: %w", err)
		}
		id = generated
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	s, ok := r.sessions[id]
	if !ok {
		if len(r.sessions) >= constants.SessionCleanupThreshold {
			r.pruneLocked(now)
		}
		s = NewSession(id)
		r.sessions[id] = s
		r.logger.Debug().Str("session_id", id).Msg("session created")
	}
	s.touch(now)
	return s, nil
}

// Prune drops sessions idle for longer than the TTL and returns how many were removed.
func (r *SessionRegistry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pruneLocked(r.now())
}

func (r *SessionRegistry) pruneLocked(now time.Time) int {
	removed := 0
	for id, s := range r.sessions {
		if s.idleSince(now) > r.ttl {
			s.End(s.Generation())
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug().Int("removed", removed).Int("remaining", len(r.sessions)).Msg("pruned idle sessions")
	}
	return removed
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
