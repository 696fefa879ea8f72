// Package view derives display text from team and presence records without
// mutating them.
package view

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"rust-team-tracker/internal/domain"
)

const (
	Placeholder     = "—"
	TimestampLayout = "2006-01-02 15:04:05"

	BadgeOK     = "OK"
	BadgeNoTeam = "No team"
	NoTeamMeta  = "No team found for this player on this server."
)

type PresenceStatus string

const (
	StatusUnknown PresenceStatus = "unknown"
	StatusOnline  PresenceStatus = "online"
	StatusOffline PresenceStatus = "offline"
)

// FormatDuration renders seconds as "Xh Ym".
func FormatDuration(seconds *int64) string {
	if seconds == nil {
		return Placeholder
	}
	s := max(*seconds, 0)
	return fmt.Sprintf("%dh %dm", s/3600, (s%3600)/60)
}

func FormatTimestamp(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimestampLayout)
}

func FormatMetric(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Status classifies presence by the online flag alone; no record is unknown.
func Status(p *domain.PresenceRecord) PresenceStatus {
	switch {
	case p == nil:
		return StatusUnknown
	case p.Online:
		return StatusOnline
	default:
		return StatusOffline
	}
}

type Presence struct {
	Status      PresenceStatus
	FirstSeen   string
	LastSeen    string
	Played      string
	MatchedName string
}

func FormatPresence(p *domain.PresenceRecord, loc *time.Location) Presence {
	if p == nil {
		return Presence{
			Status:    StatusUnknown,
			FirstSeen: Placeholder,
			LastSeen:  Placeholder,
			Played:    Placeholder,
		}
	}
	return Presence{
		Status:      Status(p),
		FirstSeen:   FormatTimestamp(p.FirstSeen, loc),
		LastSeen:    FormatTimestamp(p.LastSeen, loc),
		Played:      FormatDuration(p.TimePlayed),
		MatchedName: p.MatchedName,
	}
}

func PickAvatar(a domain.Avatar) string {
	switch {
	case a.Full != "":
		return a.Full
	case a.Small != "":
		return a.Small
	default:
		return a.Medium
	}
}

func SteamProfileURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://steamcommunity.com/profiles/" + id
}

type Summary struct {
	OK     bool
	Badge  string
	TeamID string
	Clan   string
	Meta   string

	Rank           string
	Rating         string
	PVPPerf        string
	PVEPerf        string
	BallisticsPerf string
	GatherPerf     string
}

// TeamSummary renders the header of the team table. A nil team is the
// explicit "No team" state.
func TeamSummary(team *domain.TeamRecord, loc *time.Location) Summary {
	if team == nil {
		return Summary{
			Badge:          BadgeNoTeam,
			Meta:           NoTeamMeta,
			Rank:           Placeholder,
			Rating:         Placeholder,
			PVPPerf:        Placeholder,
			PVEPerf:        Placeholder,
			BallisticsPerf: Placeholder,
			GatherPerf:     Placeholder,
		}
	}

	s := Summary{
		OK:             true,
		Badge:          BadgeOK,
		TeamID:         team.TeamID,
		Meta:           fmt.Sprintf("Team Members: %d (Last updated %s)", len(team.SteamIDs), FormatTimestamp(team.LastUpdated, loc)),
		Rank:           FormatMetric(team.Rankings.Rank),
		Rating:         FormatMetric(team.Rankings.Rating),
		PVPPerf:        FormatMetric(team.Rankings.PVPPerf),
		PVEPerf:        FormatMetric(team.Rankings.PVEPerf),
		BallisticsPerf: FormatMetric(team.Rankings.BallisticsPerf),
		GatherPerf:     FormatMetric(team.Rankings.GatherPerf),
	}
	if s.TeamID == "" {
		s.TeamID = Placeholder
	}
	if team.ClanTag != "" {
		s.Clan = "(" + team.ClanTag + ")"
	}
	return s
}

// OrderMembers returns a copy of members sorted by time played, longest first.
// Missing time played counts as zero. Ties keep their upstream order.
func OrderMembers(members []domain.MemberRecord) []domain.MemberRecord {
	if members == nil {
		return nil
	}
	out := make([]domain.MemberRecord, len(members))
	copy(out, members)
	sort.SliceStable(out, func(i, j int) bool {
		return secondsPlayed(out[i]) > secondsPlayed(out[j])
	})
	return out
}

func secondsPlayed(m domain.MemberRecord) int64 {
	if m.TimePlayed == nil {
		return 0
	}
	return *m.TimePlayed
}
