package engine

const (
	// TownPosition is the top of every cult track. Only one faction may
	// hold it per track, and stepping onto it costs a town key.
	TownPosition = 10
	// NumOrders is the number of priest order slots per track.
	NumOrders = 4
	// townReward is the power for reaching TownPosition.
	townReward = 3
)

// cultPower maps a track position to the power paid for reaching it.
var cultPower = map[int]int{3: 1, 5: 2, 7: 2, 10: townReward}

// orderValues are the spaces granted by each order slot. Slots are taken
// from the end, so the first priest on a track moves 3.
var orderValues = []int{2, 2, 2, 3}

// CultTrackState is the shared state of one cult track.
type CultTrackState struct {
	Positions map[Terrain]int `json:"positions"`
	// Orders holds the unclaimed slot values.
	Orders []int `json:"orders"`
	// Occupied maps a 1-based slot index to the terrain that claimed it.
	Occupied map[int]Terrain `json:"occupied"`
}

// CultBoard holds the four cult tracks. Factions are identified on the
// tracks by their home terrain.
type CultBoard struct {
	Tracks map[CultTrack]*CultTrackState `json:"tracks"`
}

// NewCultBoard places each faction at its starting cult positions.
func NewCultBoard(factions []Faction) *CultBoard {
	cb := &CultBoard{Tracks: make(map[CultTrack]*CultTrackState)}
	for _, t := range AllCultTracks() {
		orders := make([]int, len(orderValues))
		copy(orders, orderValues)
		cb.Tracks[t] = &CultTrackState{
			Positions: make(map[Terrain]int),
			Orders:    orders,
			Occupied:  make(map[int]Terrain),
		}
	}
	for _, f := range factions {
		for t, pos := range f.StartingCultPositions() {
			cb.Tracks[t].Positions[f.HomeTerrain()] = pos
		}
	}
	return cb
}

// Position returns where terrain stands on track.
func (cb *CultBoard) Position(track CultTrack, terrain Terrain) int {
	return cb.Tracks[track].Positions[terrain]
}

// OccupiedOrders returns a copy of the claimed order slots on track.
func (cb *CultBoard) OccupiedOrders(track CultTrack) map[int]Terrain {
	out := make(map[int]Terrain, len(cb.Tracks[track].Occupied))
	for i, t := range cb.Tracks[track].Occupied {
		out[i] = t
	}
	return out
}

// TownHolder returns the terrain at TownPosition on track, if any.
func (cb *CultBoard) TownHolder(track CultTrack) (Terrain, bool) {
	for t, pos := range cb.Tracks[track].Positions {
		if pos >= TownPosition {
			return t, true
		}
	}
	return TerrainNone, false
}

// SacrificePriestToOrder sends one of p's priests to track. The priest
// claims the next order slot if one is left, otherwise it moves a single
// space. It returns how far p actually moved and the power earned, which
// may both be zero when p is stuck at 9.
func (cb *CultBoard) SacrificePriestToOrder(p *Player, track CultTrack) (spaces, power int) {
	state := cb.Tracks[track]
	terrain := p.Faction.HomeTerrain()

	attempt := 1
	if n := len(state.Orders); n > 0 {
		attempt = state.Orders[n-1]
		state.Orders = state.Orders[:n-1]
		state.Occupied[NumOrders-len(state.Orders)] = terrain
		p.SacrificePriestToOrder()
	}

	current := state.Positions[terrain]
	expected := current + attempt
	for pos, reward := range cultPower {
		if current < pos && pos <= expected {
			power += reward
		}
	}

	switch {
	case expected < TownPosition:
		state.Positions[terrain] = expected
	case !cb.townTaken(track) && p.UseTownKey():
		state.Positions[terrain] = TownPosition
	default:
		// Town is held or no key: stop short and give back the town reward.
		// The holder itself stays on the town.
		power -= min(townReward, power)
		state.Positions[terrain] = max(current, TownPosition-1)
	}
	return state.Positions[terrain] - current, power
}

func (cb *CultBoard) townTaken(track CultTrack) bool {
	_, taken := cb.TownHolder(track)
	return taken
}

// Advance moves terrain up to steps spaces on track outside the order
// system (town key and favor effects). The same town rule applies; the
// power earned is returned.
func (cb *CultBoard) Advance(p *Player, track CultTrack, steps int) (spaces, power int) {
	if steps < 0 {
		fail(ErrPreconditionViolation, "advance %d steps", steps)
	}
	state := cb.Tracks[track]
	terrain := p.Faction.HomeTerrain()
	current := state.Positions[terrain]
	target := min(current+steps, TownPosition)
	if target == TownPosition && current < TownPosition {
		if cb.townTaken(track) || !p.UseTownKey() {
			target = TownPosition - 1
		}
	}
	target = max(target, current)
	for pos, reward := range cultPower {
		if current < pos && pos <= target {
			power += reward
		}
	}
	state.Positions[terrain] = target
	return target - current, power
}

// MajorityAwards returns the end-game victory points for each terrain on
// track: 8, 4 and 2 for the top three positions. Tied terrains split the
// points of the places they cover, rounded down. Terrains at 0 score nothing.
func (cb *CultBoard) MajorityAwards(track CultTrack) map[Terrain]int {
	places := []int{8, 4, 2}
	byPos := make(map[int][]Terrain)
	for t, pos := range cb.Tracks[track].Positions {
		if pos > 0 {
			byPos[pos] = append(byPos[pos], t)
		}
	}
	awards := make(map[Terrain]int)
	next := 0
	for pos := TownPosition; pos > 0 && next < len(places); pos-- {
		tied := byPos[pos]
		if len(tied) == 0 {
			continue
		}
		pool := 0
		for i := next; i < next+len(tied) && i < len(places); i++ {
			pool += places[i]
		}
		for _, t := range tied {
			awards[t] = pool / len(tied)
		}
		next += len(tied)
	}
	return awards
}
