package engine

// PublicViewData is the game state everyone at the table can see.
type PublicViewData struct {
	Phase       string                    `json:"phase"`
	Round       int                       `json:"round"`
	Tile        string                    `json:"tile,omitempty"`
	CurrentTurn string                    `json:"current_turn,omitempty"`
	Players     []PublicPlayerData        `json:"players"`
	BonusCards  []string                  `json:"bonus_cards"`
	Cult        map[string]map[string]int `json:"cult"`
	TownKeys    map[string]int            `json:"town_keys"`
	Scores      []ScoreEntry              `json:"scores,omitempty"`
}

type PublicPlayerData struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Faction       string         `json:"faction"`
	Power         string         `json:"power"`
	Resources     Resources      `json:"resources"`
	VictoryPoints int            `json:"victory_points"`
	Income        string         `json:"income"`
	BonusCard     string         `json:"bonus_card,omitempty"`
	Structures    map[string]int `json:"structures"`
	TownKeys      int            `json:"town_keys"`
	Passed        bool           `json:"passed"`
}

func (g *Game) PublicView() PublicViewData {
	pv := PublicViewData{
		Phase:    g.Phase.String(),
		Round:    g.Round,
		Cult:     make(map[string]map[string]int),
		TownKeys: make(map[string]int),
		Scores:   g.Scores,
	}
	if tile := g.CurrentTile(); tile != 0 {
		pv.Tile = tile.String()
	}
	if p := g.ActivePlayer(); p != nil {
		pv.CurrentTurn = p.Name
	}
	for _, c := range g.Bonus.Cards {
		pv.BonusCards = append(pv.BonusCards, c.String())
	}
	for _, k := range AllTownKeys() {
		pv.TownKeys[k.String()] = g.TownKeySupply[k]
	}
	for _, t := range AllCultTracks() {
		track := make(map[string]int)
		for _, p := range g.Players {
			track[p.Faction.Name()] = g.Cult.Position(t, p.Faction.HomeTerrain())
		}
		pv.Cult[t.String()] = track
	}

	for _, p := range g.Players {
		ppd := PublicPlayerData{
			ID:            p.ID,
			Name:          p.Name,
			Faction:       p.Faction.Name(),
			Power:         p.Power.String(),
			Resources:     p.Resources,
			VictoryPoints: p.VictoryPoints,
			Income:        p.Income().String(),
			Structures:    make(map[string]int),
			TownKeys:      p.AvailableTownKeys(),
			Passed:        p.Passed,
		}
		if p.BonusCard != nil {
			ppd.BonusCard = p.BonusCard.String()
		}
		for s, n := range g.countOnBoard(p) {
			ppd.Structures[s.Code()] = n
		}
		pv.Players = append(pv.Players, ppd)
	}
	return pv
}

// PlayerViewData adds the moves open to one player.
type PlayerViewData struct {
	PublicViewData
	IsMyTurn  bool     `json:"is_my_turn"`
	Buildable []string `json:"buildable,omitempty"`
	Upgrades  []string `json:"upgrades,omitempty"`
	CanPriest bool     `json:"can_priest"`
	Towns     []string `json:"towns,omitempty"`
}

func (g *Game) ViewFor(playerID string) PlayerViewData {
	pv := PlayerViewData{
		PublicViewData: g.PublicView(),
	}
	p := g.GetPlayer(playerID)
	if p == nil {
		return pv
	}
	active := g.ActivePlayer()
	pv.IsMyTurn = active != nil && active.ID == playerID
	if !pv.IsMyTurn || g.Phase != PhaseActions {
		return pv
	}

	home := p.Faction.HomeTerrain()
	seen := make(map[Position]bool)
	grouped := make(map[Position]bool)
	for _, own := range g.Board.OwnedBy(home) {
		pl := g.Board.Structures[own]
		for _, target := range AllStructures() {
			if pl.Structure.IsUpgradeableTo(target) &&
				p.CanBuild(target, g.PlayerHasOpponentNeighborsAtPosition(p, own)) {
				pv.Upgrades = append(pv.Upgrades, own.String()+" "+target.Code())
			}
		}
		for _, n := range g.Board.Neighbors(own) {
			if seen[n] {
				continue
			}
			seen[n] = true
			t, _ := g.Board.Terrain(n)
			if _, taken := g.Board.StructureAt(n); taken || !t.Buildable() || p.Remaining[Dwelling] <= 0 {
				continue
			}
			terraform, _ := p.TerraformCost(SpadesBetween(t, home))
			cost := terraform.Add(p.Faction.StructureCost(Dwelling, g.PlayerHasOpponentNeighborsAtPosition(p, n)))
			if p.CanAfford(cost) {
				pv.Buildable = append(pv.Buildable, n.String())
			}
		}
		if grouped[own] {
			continue
		}
		for _, m := range g.Board.ConnectedStructures(own, home) {
			grouped[m] = true
		}
		if _, err := g.TownAt(p, own); err == nil {
			pv.Towns = append(pv.Towns, own.String())
		}
	}
	pv.CanPriest = p.Resources.Priests > 0
	return pv
}
