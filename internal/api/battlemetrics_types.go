package api

type BMPlayer struct {
	ID            Opt[Text]               `json:"id"`
	Attributes    Opt[BMPlayerAttributes] `json:"attributes"`
	Relationships Opt[BMRelationships]    `json:"relationships"`
}

func (p BMPlayer) Name() (string, bool) {
	return p.Attributes.Value.Name.Get()
}

// ServerMeta returns the metadata of the relationship to serverID, falling back
// to the first relationship since the search is already server-filtered.
func (p BMPlayer) ServerMeta(serverID string) BMServerMeta {
	refs := p.Relationships.Value.Servers.Value.Data.Value
	for _, ref := range refs {
		if id, ok := ref.Value.ID.Get(); ok && string(id) == serverID {
			return ref.Value.Meta.Value
		}
	}
	for _, ref := range refs {
		if ref.Valid {
			return ref.Value.Meta.Value
		}
	}
	return BMServerMeta{}
}

type BMPlayerAttributes struct {
	Name Opt[string] `json:"name"`
}

type BMRelationships struct {
	Servers Opt[BMServerRelation] `json:"servers"`
}

type BMServerRelation struct {
	Data Opt[[]Opt[BMServerRef]] `json:"data"`
}

type BMServerRef struct {
	ID   Opt[Text]         `json:"id"`
	Meta Opt[BMServerMeta] `json:"meta"`
}

type BMServerMeta struct {
	Online     Opt[bool]      `json:"online"`
	FirstSeen  Opt[Timestamp] `json:"firstSeen"`
	LastSeen   Opt[Timestamp] `json:"lastSeen"`
	TimePlayed Opt[float64]   `json:"timePlayed"`
}
