package domain

import (
	"time"
)

// PlayerIdentifier is the SteamID of a player on the target server.
type PlayerIdentifier string

type Rankings struct {
	Rank           *float64
	Rating         *float64
	PVPPerf        *float64
	PVEPerf        *float64
	BallisticsPerf *float64
	GatherPerf     *float64
}

type Avatar struct {
	Full   string
	Medium string
	Small  string
}

type TeamRecord struct {
	TeamID      string
	ClanTag     string
	SteamIDs    []string
	LastUpdated *time.Time
	Rankings    Rankings
	Members     []MemberRecord
}

type MemberRecord struct {
	// Key identifies the member's row for presence updates.
	// SteamID when present, otherwise derived from the upstream position.
	Key      string
	Name     string
	SteamID  string
	Avatar   Avatar
	Rankings Rankings
	KDR      float64

	PVPKills         int64
	Deaths           int64
	ArrowsFired      int64
	BulletsFired     int64
	RocketsLaunched  int64
	ExplosivesThrown int64

	PVEKills  int64
	NPCKills  int64
	HeliHits  int64
	HeliKills int64
	APCHits   int64
	APCKills  int64

	Wood   int64
	Stone  int64
	Metal  int64
	HQM    int64
	Sulfur int64

	TimePlayed *int64 // seconds, nil when upstream omits it
}

// PresenceRecord is the BattleMetrics view of a player on the target server.
// A nil *PresenceRecord means no exact match was found.
type PresenceRecord struct {
	Online      bool
	FirstSeen   *time.Time
	LastSeen    *time.Time
	TimePlayed  *int64 // seconds
	MatchedName string
}
