package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rust-team-tracker/internal/constants"
	"rust-team-tracker/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Fetcher issues GET requests for JSON documents with a small fixed retry policy.
type Fetcher struct {
	client    *fasthttp.Client
	attempts  int
	baseDelay time.Duration
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

type FetcherOption func(*Fetcher)

func WithFastHTTPClient(c *fasthttp.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithRetryPolicy overrides the attempt budget and base delay. Tests use it to
// keep waits short.
func WithRetryPolicy(attempts int, baseDelay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if attempts > 0 {
			f.attempts = attempts
		}
		f.baseDelay = baseDelay
	}
}

func NewFetcher(logger zerolog.Logger, m *metrics.Metrics, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &fasthttp.Client{
			MaxConnsPerHost:     constants.UpstreamMaxConnsPerHost,
			ReadTimeout:         constants.UpstreamReadTimeout,
			WriteTimeout:        constants.UpstreamWriteTimeout,
			MaxIdleConnDuration: constants.UpstreamMaxIdleConn,
		},
		attempts:  constants.FetchAttempts,
		baseDelay: constants.FetchBaseDelay,
		logger:    logger,
		metrics:   m,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// GetJSON fetches url and returns its body once it is known to be valid JSON.
// After a failed attempt n it waits baseDelay*n before trying again. The last
// failure is returned wrapped once the budget is spent.
func (f *Fetcher) GetJSON(ctx context.Context, source, url string) (json.RawMessage, error) {
	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		body, err := f.do(ctx, source, url)
		if err == nil {
			if !json.Valid(body) {
				f.metrics.ObserveUpstream(source, "parse_error", 0)
				return nil, &ParseError{Source: source, Size: len(body)}
			}
			return body, nil
		}
		lastErr = err

		if attempt == f.attempts {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		delay := f.baseDelay * time.Duration(attempt)
		f.logger.Debug().
			Err(err).
			Str("source", source).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("upstream request failed, retrying")

		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	f.logger.Warn().Err(lastErr).Str("source", source).Int("attempts", f.attempts).Msg("upstream request failed")
	return nil, fmt.Errorf("%s request failed after %d attempts: %w", source, f.attempts, lastErr)
}

func (f *Fetcher) do(ctx context.Context, source, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.SetUserAgent(constants.UpstreamUserAgent)

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = f.client.DoDeadline(req, resp, deadline)
	} else {
		err = f.client.DoTimeout(req, resp, constants.ExternalAPITimeout)
	}
	elapsed := time.Since(start)

	if err != nil {
		f.metrics.ObserveUpstream(source, "network_error", elapsed)
		return nil, fmt.Errorf("%s http: %w", source, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		f.metrics.ObserveUpstream(source, "http_error", elapsed)
		return nil, &StatusError{Source: source, Status: status}
	}

	f.metrics.ObserveUpstream(source, "ok", elapsed)
	f.logger.Debug().Str("source", source).Int("status", status).Dur("elapsed", elapsed).Msg("upstream request completed")

	// resp is returned to the pool on exit
	return append([]byte(nil), resp.Body()...), nil
}

func sleep(ctx context.Context, d time.Duration) error {
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
