package rpc

import "time"

type LookupRequest struct {
	Name string `json:"name"`
	// SessionID ties consecutive lookups of one client together so a new
	// lookup supersedes the previous one. Empty starts a new session.
	SessionID string `json:"sessionId,omitempty"`
}

type EventKind string

const (
	KindStatus     EventKind = "status"
	KindIdentifier EventKind = "identifier"
	KindTeam       EventKind = "team"
	KindPresence   EventKind = "presence"
	KindDone       EventKind = "done"
)

// LookupEvent is one message of the Lookup stream. Exactly one payload field
// matching Kind is set.
type LookupEvent struct {
	Kind       EventKind        `json:"kind"`
	Status     *StatusEvent     `json:"status,omitempty"`
	Identifier *IdentifierEvent `json:"identifier,omitempty"`
	Team       *TeamEvent       `json:"team,omitempty"`
	Presence   *PresenceEvent   `json:"presence,omitempty"`
	Done       *DoneEvent       `json:"done,omitempty"`
}

// StatusEvent carries the status line. An empty Text clears it.
type StatusEvent struct {
	Text    string `json:"text"`
	IsError bool   `json:"isError"`
}

type IdentifierEvent struct {
	SteamID    string `json:"steamId"`
	ProfileURL string `json:"profileUrl"`
}

type TeamEvent struct {
	Found   bool        `json:"found"`
	Summary TeamSummary `json:"summary"`
	Members []Member    `json:"members"`

	TeamID      string     `json:"teamId,omitempty"`
	ClanTag     string     `json:"clanTag,omitempty"`
	SteamIDs    []string   `json:"steamIds,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
	Rankings    Rankings   `json:"rankings"`
}

type TeamSummary struct {
	Badge          string `json:"badge"`
	TeamID         string `json:"teamId"`
	Clan           string `json:"clan"`
	Meta           string `json:"meta"`
	Rank           string `json:"rank"`
	Rating         string `json:"rating"`
	PVPPerf        string `json:"pvpPerf"`
	PVEPerf        string `json:"pvePerf"`
	BallisticsPerf string `json:"ballisticsPerf"`
	GatherPerf     string `json:"gatherPerf"`
}

type Rankings struct {
	Rank           *float64 `json:"rank,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	PVPPerf        *float64 `json:"pvpPerf,omitempty"`
	PVEPerf        *float64 `json:"pvePerf,omitempty"`
	BallisticsPerf *float64 `json:"ballisticsPerf,omitempty"`
	GatherPerf     *float64 `json:"gatherPerf,omitempty"`
}

type Member struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	SteamID    string   `json:"steamId,omitempty"`
	ProfileURL string   `json:"profileUrl,omitempty"`
	Avatar     string   `json:"avatar,omitempty"`
	Rankings   Rankings `json:"rankings"`
	KDR        float64  `json:"kdr"`

	PVPKills         int64 `json:"pvpKills"`
	Deaths           int64 `json:"deaths"`
	ArrowsFired      int64 `json:"arrowsFired"`
	BulletsFired     int64 `json:"bulletsFired"`
	RocketsLaunched  int64 `json:"rocketsLaunched"`
	ExplosivesThrown int64 `json:"explosivesThrown"`

	PVEKills  int64 `json:"pveKills"`
	NPCKills  int64 `json:"npcKills"`
	HeliHits  int64 `json:"heliHits"`
	HeliKills int64 `json:"heliKills"`
	APCHits   int64 `json:"apcHits"`
	APCKills  int64 `json:"apcKills"`

	Wood   int64 `json:"wood"`
	Stone  int64 `json:"stone"`
	Metal  int64 `json:"metal"`
	HQM    int64 `json:"hqm"`
	Sulfur int64 `json:"sulfur"`

	TimePlayed *int64 `json:"timePlayed,omitempty"`
	Played     string `json:"played"`
}

// PresenceEvent updates the row identified by Key. Found is false when no
// exact name match exists; that is distinct from zero time played.
type PresenceEvent struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Found       bool       `json:"found"`
	Status      string     `json:"status"`
	Online      bool       `json:"online"`
	MatchedName string     `json:"matchedName,omitempty"`
	FirstSeen   *time.Time `json:"firstSeen,omitempty"`
	LastSeen    *time.Time `json:"lastSeen,omitempty"`
	TimePlayed  *int64     `json:"timePlayed,omitempty"`

	FirstSeenText string `json:"firstSeenText"`
	LastSeenText  string `json:"lastSeenText"`
	Played        string `json:"played"`
}

// DoneEvent ends the stream. Superseded is set when a newer lookup in the same
// session took over before enrichment finished.
type DoneEvent struct {
	Superseded bool `json:"superseded"`
}
