package api

import "encoding/json"

type PlayerEntry struct {
	Name    Opt[string] `json:"Name"`
	SteamID Opt[Text]   `json:"SteamID"`
}

type TeamEntry struct {
	TeamID         Opt[Text]              `json:"TeamID"`
	ClanTag        Opt[string]            `json:"ClanTag"`
	SteamIDs       Opt[[]Opt[Text]]       `json:"SteamIDs"`
	LastUpdated    Opt[Timestamp]         `json:"LastUpdated"`
	Rankings       Opt[RankingsDTO]       `json:"Rankings"`
	TeamPlayerData Opt[[]json.RawMessage] `json:"TeamPlayerData"`

	object bool
}

// IsObject reports whether the leaderboard element was a JSON object.
func (t TeamEntry) IsObject() bool {
	return t.object
}

// Members decodes TeamPlayerData, skipping elements that are not objects.
func (t TeamEntry) Members() []MemberDTO {
	out := make([]MemberDTO, 0, len(t.TeamPlayerData.Value))
	for _, raw := range t.TeamPlayerData.Value {
		if m, ok := decodeObject[MemberDTO](raw); ok {
			out = append(out, m)
		}
	}
	return out
}

type RankingsDTO struct {
	Rank           Opt[Number] `json:"Rank"`
	Rating         Opt[Number] `json:"Rating"`
	PVPPerf        Opt[Number] `json:"PVPPerf"`
	PVEPerf        Opt[Number] `json:"PVEPerf"`
	BallisticsPerf Opt[Number] `json:"BallisticsPerf"`
	GatherPerf     Opt[Number] `json:"GatherPerf"`
}

type MemberDTO struct {
	Name     Opt[string]      `json:"Name"`
	SteamID  Opt[Text]        `json:"SteamID"`
	User     Opt[UserDTO]     `json:"User"`
	Rankings Opt[RankingsDTO] `json:"Rankings"`
	KDR      Opt[Number]      `json:"KDR"`

	PVPKills         Opt[Number] `json:"PVPKills"`
	Deaths           Opt[Number] `json:"Deaths"`
	ArrowsFired      Opt[Number] `json:"ArrowsFired"`
	BulletsFired     Opt[Number] `json:"BulletsFired"`
	RocketsLaunched  Opt[Number] `json:"RocketsLaunched"`
	ExplosivesThrown Opt[Number] `json:"ExplosivesThrown"`

	PVEKills  Opt[Number] `json:"PVEKills"`
	NPCKills  Opt[Number] `json:"NPCKills"`
	HeliHits  Opt[Number] `json:"HeliHits"`
	HeliKills Opt[Number] `json:"HeliKills"`
	APCHits   Opt[Number] `json:"APCHits"`
	APCKills  Opt[Number] `json:"APCKills"`

	Wood   Opt[Number] `json:"Wood"`
	Stone  Opt[Number] `json:"Stone"`
	Metal  Opt[Number] `json:"Metal"`
	HQM    Opt[Number] `json:"HQM"`
	Sulfur Opt[Number] `json:"Sulfur"`

	TimePlayed Opt[Number] `json:"TimePlayed"`
}

type UserDTO struct {
	Avatar Opt[AvatarDTO] `json:"Avatar"`
}

type AvatarDTO struct {
	Avatar       Opt[string] `json:"avatar"`
	AvatarMedium Opt[string] `json:"avatarMedium"`
	AvatarFull   Opt[string] `json:"avatarFull"`
}
