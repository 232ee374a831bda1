package engine

import "sort"

// ScoreEntry holds scoring breakdown for one player.
type ScoreEntry struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	Faction     string `json:"faction"`
	RoundPoints int    `json:"round_points"`
	CultBonus   int    `json:"cult_bonus"`
	Total       int    `json:"total"`
	Rank        int    `json:"rank"`
}

// CalculateScores adds the cult majority awards to each player's points
// and ranks the players. Ties share a rank.
func (g *Game) CalculateScores() []ScoreEntry {
	awards := make(map[Terrain]int)
	for _, t := range AllCultTracks() {
		for terrain, vp := range g.Cult.MajorityAwards(t) {
			awards[terrain] += vp
		}
	}

	entries := make([]ScoreEntry, len(g.Players))
	for i, p := range g.Players {
		e := ScoreEntry{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			Faction:     p.Faction.Name(),
			RoundPoints: p.VictoryPoints,
			CultBonus:   awards[p.Faction.HomeTerrain()],
		}
		e.Total = e.RoundPoints + e.CultBonus
		entries[i] = e
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
	for i := range entries {
		if i > 0 && entries[i].Total == entries[i-1].Total {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}
