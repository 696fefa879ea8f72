package server

import (
	"time"

	"rust-team-tracker/internal/domain"
	"rust-team-tracker/internal/rpc"
	"rust-team-tracker/internal/service"
	"rust-team-tracker/internal/view"
)

func toTeamEvent(team *domain.TeamRecord, loc *time.Location) *rpc.TeamEvent {
	summary := view.TeamSummary(team, loc)
	ev := &rpc.TeamEvent{
		Found: summary.OK,
		Summary: rpc.TeamSummary{
			Badge:          summary.Badge,
			TeamID:         summary.TeamID,
			Clan:           summary.Clan,
			Meta:           summary.Meta,
			Rank:           summary.Rank,
			Rating:         summary.Rating,
			PVPPerf:        summary.PVPPerf,
			PVEPerf:        summary.PVEPerf,
			BallisticsPerf: summary.BallisticsPerf,
			GatherPerf:     summary.GatherPerf,
		},
		Members: []rpc.Member{},
	}
	if team == nil {
		return ev
	}

	ev.TeamID = team.TeamID
	ev.ClanTag = team.ClanTag
	ev.SteamIDs = team.SteamIDs
	ev.LastUpdated = team.LastUpdated
	ev.Rankings = toRankings(team.Rankings)

	for _, m := range team.Members {
		ev.Members = append(ev.Members, toMember(m))
	}
	return ev
}

func toMember(m domain.MemberRecord) rpc.Member {
	return rpc.Member{
		Key:        m.Key,
		Name:       m.Name,
		SteamID:    m.SteamID,
		ProfileURL: view.SteamProfileURL(m.SteamID),
		Avatar:     view.PickAvatar(m.Avatar),
		Rankings:   toRankings(m.Rankings),
		KDR:        m.KDR,

		PVPKills:         m.PVPKills,
		Deaths:           m.Deaths,
		ArrowsFired:      m.ArrowsFired,
		BulletsFired:     m.BulletsFired,
		RocketsLaunched:  m.RocketsLaunched,
		ExplosivesThrown: m.ExplosivesThrown,

		PVEKills:  m.PVEKills,
		NPCKills:  m.NPCKills,
		HeliHits:  m.HeliHits,
		HeliKills: m.HeliKills,
		APCHits:   m.APCHits,
		APCKills:  m.APCKills,

		Wood:   m.Wood,
		Stone:  m.Stone,
		Metal:  m.Metal,
		HQM:    m.HQM,
		Sulfur: m.Sulfur,

		TimePlayed: m.TimePlayed,
		Played:     view.FormatDuration(m.TimePlayed),
	}
}

func toRankings(r domain.Rankings) rpc.Rankings {
	return rpc.Rankings{
		Rank:           r.Rank,
		Rating:         r.Rating,
		PVPPerf:        r.PVPPerf,
		PVEPerf:        r.PVEPerf,
		BallisticsPerf: r.BallisticsPerf,
		GatherPerf:     r.GatherPerf,
	}
}

func toPresenceEvent(u service.PresenceUpdate, loc *time.Location) *rpc.PresenceEvent {
	formatted := view.FormatPresence(u.Presence, loc)
	ev := &rpc.PresenceEvent{
		Key:           u.Key,
		Name:          u.Name,
		Status:        string(formatted.Status),
		FirstSeenText: formatted.FirstSeen,
		LastSeenText:  formatted.LastSeen,
		Played:        formatted.Played,
	}
	if p := u.Presence; p != nil {
		ev.Found = true
		ev.Online = p.Online
		ev.MatchedName = p.MatchedName
		ev.FirstSeen = p.FirstSeen
		ev.LastSeen = p.LastSeen
		ev.TimePlayed = p.TimePlayed
	}
	return ev
}
