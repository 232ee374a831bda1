package engine

import "fmt"

const (
	townMinStructures = 4
	townMinPower      = 7
)

// townPower is each structure's weight toward founding a town.
var townPower = map[Structure]int{
	Dwelling:    1,
	TradingPost: 2,
	Temple:      2,
	Sanctuary:   3,
	Stronghold:  3,
}

// TownAt returns the group of p's connected structures containing pos if
// it qualifies as a new town: at least four structures worth seven power,
// none of them already part of a town.
func (g *Game) TownAt(p *Player, pos Position) ([]Position, error) {
	group := g.Board.ConnectedStructures(pos, p.Faction.HomeTerrain())
	if len(group) == 0 {
		return nil, fmt.Errorf("%w: you have no structure at %s", ErrInvalidPosition, pos)
	}
	power := 0
	for _, m := range group {
		if g.TownHexes[m] {
			return nil, fmt.Errorf("%w: %s already belongs to a town", ErrInvalidAction, m)
		}
		power += townPower[g.Board.Structures[m].Structure]
	}
	if len(group) < townMinStructures || power < townMinPower {
		return nil, fmt.Errorf("%w: %d structures with power %d, need %d and %d",
			ErrInvalidAction, len(group), power, townMinStructures, townMinPower)
	}
	return group, nil
}

// applyFoundTown is a free action: it claims a town key for a qualifying
// group and keeps the turn.
func (g *Game) applyFoundTown(playerID string, action Action) ([]Event, error) {
	p, err := g.turnPlayer(playerID)
	if err != nil {
		return nil, err
	}
	pos, err := g.parsePosition(action.Position)
	if err != nil {
		return nil, err
	}
	members, err := g.TownAt(p, pos)
	if err != nil {
		return nil, err
	}
	key := action.TownKey
	if g.TownKeySupply[key] <= 0 {
		return nil, fmt.Errorf("%w: no %s town keys left", ErrInvalidAction, key)
	}

	g.TownKeySupply[key]--
	for _, m := range members {
		g.TownHexes[m] = true
	}
	p.GainTown(key)
	vp, income := key.Reward()
	vp += g.CurrentTile().TownVP()
	p.VictoryPoints += vp
	p.Gain(income)
	if key == TownKeyCult {
		for _, t := range AllCultTracks() {
			_, power := g.Cult.Advance(p, t, 1)
			p.GainPower(power)
		}
	}

	return []Event{
		{Type: EventTownFounded, Player: playerID, Data: map[string]interface{}{
			"key":        key.String(),
			"structures": len(members),
			"vp":         vp,
		}},
	}, nil
}
