package engine

// GameConfig holds configuration for creating a new game.
type GameConfig struct {
	Rounds          int `json:"rounds"`            // one scoring tile per round (default 6)
	MinPlayers      int `json:"min_players"`       // default 2
	MaxPlayers      int `json:"max_players"`       // default 5
	ExtraBonusCards int `json:"extra_bonus_cards"` // bonus cards beyond one per player (default 3)
	SetupDwellings  int `json:"setup_dwellings"`   // starting dwellings per player (default 2)
	TownKeysPerKind int `json:"town_keys_per_kind"`
}

func DefaultConfig() GameConfig {
	return GameConfig{
		Rounds:          6,
		MinPlayers:      2,
		MaxPlayers:      5,
		ExtraBonusCards: 3,
		SetupDwellings:  2,
		TownKeysPerKind: 2,
	}
}
