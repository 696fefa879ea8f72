package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rust-team-tracker/internal/constants"
	"rust-team-tracker/internal/domain"

	"github.com/rs/zerolog"
)

var ErrSuperseded = errors.New("lookup superseded by a newer one")

// PresenceUpdate carries the presence of one team row. A nil Presence means
// no exact match was found.
type PresenceUpdate struct {
	Key      string
	Name     string
	Presence *domain.PresenceRecord
}

// Enricher attaches presence to team members one at a time, pausing between
// requests so the presence API never sees a burst.
type Enricher struct {
	matcher PresenceLookup
	pacing  time.Duration
	logger  zerolog.Logger
}

type EnricherOption func(*Enricher)

func WithPacing(d time.Duration) EnricherOption {
	return func(e *Enricher) { e.pacing = d }
}

func NewEnricher(matcher PresenceLookup, logger zerolog.Logger, opts ...EnricherOption) *Enricher {
	e := &Enricher{matcher: matcher, pacing: constants.EnrichPacing, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run publishes one update per named member in the given order. It stops
// quietly when publish reports ErrSuperseded and returns ctx.Err() when
// cancelled.
func (e *Enricher) Run(ctx context.Context, members []domain.MemberRecord, publish func(PresenceUpdate) error) error {
	published := 0
	for i, m := range members {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		presence := e.matcher.Match(ctx, name)
		if err := ctx.Err(); err != nil {
			return err
		}

		err := publish(PresenceUpdate{Key: m.Key, Name: m.Name, Presence: presence})
		if errors.Is(err, ErrSuperseded) {
			e.logger.Debug().Int("published", published).Msg("enrichment superseded")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to publish presence for %s: %w", m.Key, err)
		}
		published++

		if i < len(members)-1 {
			if err := pause(ctx, e.pacing); err != nil {
				return err
			}
		}
	}

	e.logger.Debug().Int("published", published).Int("members", len(members)).Msg("enrichment finished")
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
