package constants

import "time"

const (
	FetchAttempts  = 3
	FetchBaseDelay = 400 * time.Millisecond
)

const (
	PresencePageSize = 10
	EnrichPacing     = 10 * time.Millisecond
)

const (
	ExternalAPITimeout = 10 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	UpstreamMaxConnsPerHost = 16
	UpstreamReadTimeout     = 10 * time.Second
	UpstreamWriteTimeout    = 10 * time.Second
	UpstreamMaxIdleConn     = 1 * time.Minute
	UpstreamUserAgent       = "rust-team-tracker/1.0"
)

const (
	SessionIdleTTL          = 30 * time.Minute
	SessionCleanupThreshold = 256
	RateLimitIdleTTL        = 10 * time.Minute
	RateLimitCleanupSize    = 500
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultRankEvalBaseURL       = "https://api.rankeval.gg/api"
	DefaultRankEvalServerID      = "66af4fbe9dd0740a80453310"
	DefaultRankEvalType          = "Leaderboard"
	DefaultBattleMetricsBaseURL  = "https://api.battlemetrics.com"
	DefaultBattleMetricsServerID = "15096801"
)
