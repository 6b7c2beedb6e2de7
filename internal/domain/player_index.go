package domain

// PlayerAssociation links one Discord identity to a player and its team in
// one game. It is also the on-disk shape of the index.
type PlayerAssociation struct {
	GameName   string `json:"gameName"`
	PlayerID   string `json:"playerID"`
	PlayerName string `json:"playerName"`
	TeamID     string `json:"teamID"`
	TeamName   string `json:"teamName"`
}

// PlayerIndex maps a Discord user id to its associations. A published index
// is never mutated; refreshes build a new one.
type PlayerIndex map[string][]PlayerAssociation

// Lookup returns the associations of discordID, restricted to game when it
// is not empty. The result is a fresh slice.
func (idx PlayerIndex) Lookup(discordID, game string) []PlayerAssociation {
	all := idx[discordID]
	out := make([]PlayerAssociation, 0, len(all))
	for _, a := range all {
		if game != "" && a.GameName != game {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Len is the number of identities in the index.
func (idx PlayerIndex) Len() int { return len(idx) }

// IndexBuilder accumulates associations for one refresh cycle. It is not
// safe for concurrent use.
type IndexBuilder struct {
	idx PlayerIndex
}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{idx: PlayerIndex{}}
}

// Add records a for discordID. An identity holds at most one association per
// game; a later one replaces the earlier.
func (b *IndexBuilder) Add(discordID string, a PlayerAssociation) {
	if discordID == "" {
		return
	}
	list := b.idx[discordID]
	for i := range list {
		if list[i].GameName == a.GameName {
			list[i] = a
			return
		}
	}
	b.idx[discordID] = append(list, a)
}

// Build hands over the accumulated index. The builder must not be used after.
func (b *IndexBuilder) Build() PlayerIndex {
	idx := b.idx
	b.idx = nil
	return idx
}
