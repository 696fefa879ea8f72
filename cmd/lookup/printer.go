package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"rust-team-tracker/internal/rpc"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorGrey  = "\033[90m"
)

type printer struct {
	out    io.Writer
	color  bool
	failed bool
}

func newPrinter(out io.Writer, color bool) *printer {
	return &printer{out: out, color: color}
}

func (p *printer) Event(ev *rpc.LookupEvent) {
	switch ev.Kind {
	case rpc.KindStatus:
		p.status(ev.Status)
	case rpc.KindIdentifier:
		p.identifier(ev.Identifier)
	case rpc.KindTeam:
		p.team(ev.Team)
	case rpc.KindPresence:
		p.presence(ev.Presence)
	case rpc.KindDone:
		if ev.Done != nil && ev.Done.Superseded {
			fmt.Fprintln(p.out, "(superseded by a newer lookup)")
		}
	}
}

func (p *printer) Session(id string) {
	fmt.Fprintf(p.out, "session: %s\n", id)
}

func (p *printer) status(s *rpc.StatusEvent) {
	if s == nil || s.Text == "" {
		return
	}
	if s.IsError {
		p.failed = true
		fmt.Fprintf(p.out, "error: %s\n", s.Text)
		return
	}
	fmt.Fprintln(p.out, s.Text)
}

func (p *printer) identifier(id *rpc.IdentifierEvent) {
	if id == nil {
		return
	}
	fmt.Fprintf(p.out, "SteamID: %s  %s\n", id.SteamID, id.ProfileURL)
}

func (p *printer) team(t *rpc.TeamEvent) {
	if t == nil {
		return
	}
	s := t.Summary
	if !t.Found {
		fmt.Fprintf(p.out, "[%s] %s\n", s.Badge, s.Meta)
		return
	}

	fmt.Fprintf(p.out, "[%s] Team %s %s\n", s.Badge, s.TeamID, s.Clan)
	fmt.Fprintln(p.out, s.Meta)
	fmt.Fprintf(p.out, "Rank %s  Rating %s  PVP %s  PVE %s  Ballistics %s  Gather %s\n",
		s.Rank, s.Rating, s.PVPPerf, s.PVEPerf, s.BallisticsPerf, s.GatherPerf)

	if len(t.Members) == 0 {
		fmt.Fprintln(p.out, "No team data")
		return
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEAMID\tKDR\tKILLS\tDEATHS\tPVE\tSULFUR\tPLAYED")
	for _, m := range t.Members {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			orDash(m.Name),
			orDash(m.SteamID),
			strconv.FormatFloat(m.KDR, 'f', -1, 64),
			m.PVPKills,
			m.Deaths,
			m.PVEKills,
			m.Sulfur,
			m.Played,
		)
	}
	_ = w.Flush()
}

func (p *printer) presence(ev *rpc.PresenceEvent) {
	if ev == nil {
		return
	}
	name := orDash(ev.Name)
	if ev.Found && ev.MatchedName != "" && ev.MatchedName != ev.Name {
		name += " (as " + ev.MatchedName + ")"
	}
	fmt.Fprintf(p.out, "%s %s  first seen %s  last seen %s  played %s\n",
		p.dot(ev.Status), name, ev.FirstSeenText, ev.LastSeenText, ev.Played)
}

func (p *printer) dot(status string) string {
	label := "[" + status + "]"
	if !p.color {
		return label
	}
	switch status {
	case "online":
		return colorGreen + label + colorReset
	case "offline":
		return colorRed + label + colorReset
	default:
		return colorGrey + label + colorReset
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
