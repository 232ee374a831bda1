package engine

import (
	"fmt"
	"math/rand/v2"
)

// Game holds the entire game state.
type Game struct {
	Players []*Player     `json:"players"`
	Board   *Board        `json:"board"`
	Cult    *CultBoard    `json:"cult"`
	Bonus   *BonusPool    `json:"bonus"`
	Tiles   []ScoringTile `json:"tiles"`
	Config  GameConfig    `json:"config"`

	Phase GamePhase `json:"phase"`
	Round int       `json:"round"`

	// Order is this round's turn order. NextOrder collects players as they
	// pass and becomes the order of the next round.
	Order             []string `json:"order"`
	NextOrder         []string `json:"next_order"`
	CurrentTurnPlayer string   `json:"current_turn_player"`

	// SetupQueue lists who acts next while placing dwellings and picking
	// the first bonus cards.
	SetupQueue []string `json:"setup_queue,omitempty"`

	TownKeySupply map[TownKey]int   `json:"town_key_supply"`
	TownHexes     map[Position]bool `json:"town_hexes"`

	Scores []ScoreEntry `json:"scores,omitempty"`
}

// NewGame seats players on board and draws the scoring tiles and bonus
// cards from r. Each player needs a distinct faction home terrain.
func NewGame(players []*Player, config GameConfig, board *Board, r *rand.Rand) (*Game, error) {
	if len(players) < config.MinPlayers || len(players) > config.MaxPlayers {
		return nil, fmt.Errorf("%w: got %d, need %d to %d", ErrPlayerCount, len(players), config.MinPlayers, config.MaxPlayers)
	}
	ids := make(map[string]bool)
	homes := make(map[Terrain]string)
	factions := make([]Faction, 0, len(players))
	for _, p := range players {
		if ids[p.ID] {
			return nil, fmt.Errorf("%w: duplicate player id %q", ErrInvalidAction, p.ID)
		}
		ids[p.ID] = true
		home := p.Faction.HomeTerrain()
		if other, taken := homes[home]; taken {
			return nil, fmt.Errorf("%w: %s and %s both live on %s", ErrInvalidAction, other, p.Name, home)
		}
		homes[home] = p.Name
		factions = append(factions, p.Faction)
	}

	g := &Game{
		Players:       players,
		Board:         board,
		Cult:          NewCultBoard(factions),
		Bonus:         NewBonusPool(SelectBonusCards(r, len(players), config.ExtraBonusCards)),
		Tiles:         SelectScoringTiles(r, config.Rounds),
		Config:        config,
		Phase:         PhaseSetupDwellings,
		TownKeySupply: make(map[TownKey]int),
		TownHexes:     make(map[Position]bool),
	}
	for _, k := range AllTownKeys() {
		g.TownKeySupply[k] = config.TownKeysPerKind
	}
	// Snake order: forward on even passes, backward on odd ones.
	for i := range config.SetupDwellings {
		for j := range players {
			if i%2 == 1 {
				j = len(players) - 1 - j
			}
			g.SetupQueue = append(g.SetupQueue, players[j].ID)
		}
	}
	return g, nil
}

// StartGame announces the setup phase and the first player to act.
func (g *Game) StartGame() []Event {
	events := []Event{phaseEvent(g.Phase)}
	return append(events, g.setupTurnEvent()...)
}

// Apply is the single entry point for player actions.
func (g *Game) Apply(playerID string, action Action) ([]Event, error) {
	switch action.Type {
	case ActionPlaceDwelling:
		return g.applyPlaceDwelling(playerID, action)
	case ActionPickBonus:
		return g.applyPickBonus(playerID, action)
	case ActionBuild:
		return g.applyBuild(playerID, action)
	case ActionUpgrade:
		return g.applyUpgrade(playerID, action)
	case ActionSendPriest:
		return g.applySendPriest(playerID, action)
	case ActionBurnPower:
		return g.applyBurnPower(playerID, action)
	case ActionFoundTown:
		return g.applyFoundTown(playerID, action)
	case ActionPass:
		return g.applyPass(playerID, action)
	default:
		return nil, ErrInvalidAction
	}
}

func (g *Game) applyPlaceDwelling(playerID string, action Action) ([]Event, error) {
	p, err := g.setupPlayer(playerID, PhaseSetupDwellings)
	if err != nil {
		return nil, err
	}
	pos, err := g.homeHex(p, action.Position)
	if err != nil {
		return nil, err
	}
	if err := g.Board.Place(pos, p.Faction.HomeTerrain(), Dwelling); err != nil {
		return nil, err
	}
	p.Build(Dwelling, false, true)
	g.SetupQueue = g.SetupQueue[1:]

	events := []Event{
		{Type: EventDwellingPlaced, Player: playerID, Data: map[string]interface{}{
			"position": pos.String(),
		}},
	}
	if len(g.SetupQueue) == 0 {
		// Bonus cards are picked in reverse seat order.
		for i := len(g.Players) - 1; i >= 0; i-- {
			g.SetupQueue = append(g.SetupQueue, g.Players[i].ID)
		}
		g.Phase = PhaseSetupBonus
		events = append(events, phaseEvent(g.Phase))
	}
	return append(events, g.setupTurnEvent()...), nil
}

func (g *Game) applyPickBonus(playerID string, action Action) ([]Event, error) {
	p, err := g.setupPlayer(playerID, PhaseSetupBonus)
	if err != nil {
		return nil, err
	}
	card, err := g.Bonus.Take(action.Index)
	if err != nil {
		return nil, err
	}
	g.takeBonus(p, card)
	g.SetupQueue = g.SetupQueue[1:]

	events := []Event{
		{Type: EventBonusTaken, Player: playerID, Data: map[string]interface{}{
			"card": card.Kind.String(),
		}},
	}
	if len(g.SetupQueue) == 0 {
		return append(events, g.startRound()...), nil
	}
	return append(events, g.setupTurnEvent()...), nil
}

// applyBuild places a dwelling on an empty land hex next to one of the
// player's structures, terraforming it to the home terrain first if needed.
func (g *Game) applyBuild(playerID string, action Action) ([]Event, error) {
	p, err := g.turnPlayer(playerID)
	if err != nil {
		return nil, err
	}
	pos, err := g.parsePosition(action.Position)
	if err != nil {
		return nil, err
	}
	t, _ := g.Board.Terrain(pos)
	if !t.Buildable() {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidPosition, pos, t)
	}
	if pl, taken := g.Board.StructureAt(pos); taken {
		return nil, fmt.Errorf("%w: %s already has a %s", ErrInvalidPosition, pos, pl.Structure)
	}
	if !g.touchesOwnStructure(p, pos) {
		return nil, fmt.Errorf("%w: %s is not next to any of your structures", ErrInvalidPosition, pos)
	}
	if p.Remaining[Dwelling] <= 0 {
		return nil, fmt.Errorf("%w: no dwellings left", ErrInvalidAction)
	}
	home := p.Faction.HomeTerrain()
	adjacentEnemy := g.PlayerHasOpponentNeighborsAtPosition(p, pos)
	spades := SpadesBetween(t, home)
	terraform, free := p.TerraformCost(spades)
	cost := terraform.Add(p.Faction.StructureCost(Dwelling, adjacentEnemy))
	if !p.CanAfford(cost) {
		return nil, fmt.Errorf("%w: terraforming and a dwelling cost %s", ErrCannotAfford, cost)
	}

	vp := 0
	if spades > 0 {
		if err := g.Board.Terraform(pos, home); err != nil {
			return nil, err
		}
		p.Pay(terraform)
		p.FreeSpades -= free
		vp += spades * g.CurrentTile().SpadeVP()
		p.VictoryPoints += vp
	}
	if err := g.Board.Place(pos, home, Dwelling); err != nil {
		return nil, err
	}
	p.Build(Dwelling, adjacentEnemy, false)
	vp += g.scoreBuild(p, Dwelling)

	events := []Event{
		{Type: EventBuilt, Player: playerID, Data: map[string]interface{}{
			"position":  pos.String(),
			"structure": Dwelling.String(),
			"spades":    spades,
			"free":      free,
			"vp":        vp,
		}},
	}
	return append(events, g.advanceTurn()...), nil
}

func (g *Game) applyUpgrade(playerID string, action Action) ([]Event, error) {
	p, err := g.turnPlayer(playerID)
	if err != nil {
		return nil, err
	}
	pos, err := g.parsePosition(action.Position)
	if err != nil {
		return nil, err
	}
	pl, ok := g.Board.StructureAt(pos)
	if !ok || pl.Owner != p.Faction.HomeTerrain() {
		return nil, fmt.Errorf("%w: you have no structure at %s", ErrInvalidPosition, pos)
	}
	target := action.Structure
	if !pl.Structure.IsUpgradeableTo(target) {
		return nil, fmt.Errorf("%w: a %s cannot become a %s", ErrInvalidAction, pl.Structure, target)
	}
	if p.Remaining[target] <= 0 {
		return nil, fmt.Errorf("%w: no %s left", ErrInvalidAction, target)
	}
	adjacentEnemy := g.PlayerHasOpponentNeighborsAtPosition(p, pos)
	if !p.CanBuild(target, adjacentEnemy) {
		return nil, fmt.Errorf("%w: a %s costs %s", ErrCannotAfford, target, p.Faction.StructureCost(target, adjacentEnemy))
	}
	if err := g.Board.Replace(pos, target); err != nil {
		return nil, err
	}
	p.Build(target, adjacentEnemy, false)
	p.ReturnToSupply(pl.Structure)
	vp := g.scoreBuild(p, target)

	events := []Event{
		{Type: EventUpgraded, Player: playerID, Data: map[string]interface{}{
			"position":  pos.String(),
			"from":      pl.Structure.String(),
			"structure": target.String(),
			"vp":        vp,
		}},
	}
	return append(events, g.advanceTurn()...), nil
}

func (g *Game) applySendPriest(playerID string, action Action) ([]Event, error) {
	p, err := g.turnPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if _, ok := g.Cult.Tracks[action.Track]; !ok {
		return nil, fmt.Errorf("%w: unknown cult track %d", ErrInvalidAction, action.Track)
	}
	if p.Resources.Priests < 1 {
		return nil, ErrNoPriest
	}
	p.Resources.Priests--
	spaces, power := g.Cult.SacrificePriestToOrder(p, action.Track)
	p.GainPower(power)

	events := []Event{
		{Type: EventPriestSent, Player: playerID, Data: map[string]interface{}{
			"track":    action.Track.String(),
			"spaces":   spaces,
			"power":    power,
			"position": g.Cult.Position(action.Track, p.Faction.HomeTerrain()),
		}},
	}
	return append(events, g.advanceTurn()...), nil
}

// applyBurnPower is a free action: it spends power for coins and keeps the turn.
func (g *Game) applyBurnPower(playerID string, action Action) ([]Event, error) {
	p, err := g.turnPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if action.Amount <= 0 {
		return nil, fmt.Errorf("%w: burn at least 1 power", ErrInvalidAction)
	}
	if !p.CanUsePower(action.Amount) {
		return nil, fmt.Errorf("%w: %d power with bowls %s", ErrCannotAfford, action.Amount, p.Power)
	}
	p.UsePower(action.Amount)
	p.Resources.Coins += action.Amount * PowerPerCoin

	return []Event{
		{Type: EventPowerBurned, Player: playerID, Data: map[string]interface{}{
			"amount": action.Amount,
			"power":  p.Power.String(),
		}},
	}, nil
}

func (g *Game) applyPass(playerID string, action Action) ([]Event, error) {
	p, err := g.turnPlayer(playerID)
	if err != nil {
		return nil, err
	}
	old := p.BonusCard
	vp := 0
	if old != nil {
		vp = old.Kind.PassVP(g.countOnBoard(p))
	}

	data := map[string]interface{}{"vp": vp}
	if g.Round < g.Config.Rounds {
		card, err := g.Bonus.Take(action.Index)
		if err != nil {
			return nil, err
		}
		g.takeBonus(p, card)
		data["card"] = card.Kind.String()
	} else {
		p.BonusCard = nil
	}
	g.Bonus.Return(old)
	p.VictoryPoints += vp
	p.Passed = true
	g.NextOrder = append(g.NextOrder, playerID)

	events := []Event{{Type: EventPassed, Player: playerID, Data: data}}
	if len(g.NextOrder) == len(g.Players) {
		return append(events, g.endRound()...), nil
	}
	return append(events, g.advanceTurn()...), nil
}

func (g *Game) startRound() []Event {
	g.Round++
	g.Phase = PhaseActions
	if len(g.NextOrder) > 0 {
		g.Order = g.NextOrder
	} else {
		g.Order = make([]string, 0, len(g.Players))
		for _, p := range g.Players {
			g.Order = append(g.Order, p.ID)
		}
	}
	g.NextOrder = nil
	g.SetupQueue = nil

	events := []Event{
		{Type: EventRoundStart, Data: map[string]interface{}{
			"round": g.Round,
			"tile":  g.CurrentTile().String(),
		}},
	}
	for _, p := range g.Players {
		p.Passed = false
		income := p.CollectIncome()
		events = append(events, Event{Type: EventIncome, Player: p.ID, Data: map[string]interface{}{
			"income": income.String(),
		}})
	}
	g.CurrentTurnPlayer = g.Order[0]
	events = append(events,
		phaseEvent(g.Phase),
		Event{Type: EventTurn, Player: g.CurrentTurnPlayer},
	)
	return events
}

// endRound runs cleanup: the round's cult reward (not after the last
// round) and a coin on every unclaimed bonus card.
func (g *Game) endRound() []Event {
	events := []Event{{Type: EventRoundEnd, Data: map[string]interface{}{"round": g.Round}}}
	g.CurrentTurnPlayer = ""

	if g.Round >= g.Config.Rounds {
		return g.endGame(events)
	}

	track, step, reward := g.CurrentTile().CultReward()
	if step > 0 {
		for _, p := range g.Players {
			times := g.Cult.Position(track, p.Faction.HomeTerrain()) / step
			if times == 0 {
				continue
			}
			var got Income
			for range times {
				got = got.Add(reward)
			}
			p.Gain(got)
			events = append(events, Event{Type: EventCultReward, Player: p.ID, Data: map[string]interface{}{
				"track":  track.String(),
				"reward": got.String(),
			}})
		}
	}
	g.Bonus.Accrue()
	return append(events, g.startRound()...)
}

func (g *Game) endGame(events []Event) []Event {
	g.Phase = PhaseGameOver
	g.Scores = g.CalculateScores()
	for _, e := range g.Scores {
		if p := g.GetPlayer(e.PlayerID); p != nil {
			p.VictoryPoints = e.Total
		}
	}
	events = append(events,
		phaseEvent(g.Phase),
		Event{Type: EventGameOver, Data: map[string]interface{}{"scores": g.Scores}},
	)
	return events
}

// advanceTurn hands the turn to the next player in Order who has not passed.
func (g *Game) advanceTurn() []Event {
	idx := 0
	for i, id := range g.Order {
		if id == g.CurrentTurnPlayer {
			idx = i
			break
		}
	}
	for step := 1; step <= len(g.Order); step++ {
		id := g.Order[(idx+step)%len(g.Order)]
		if p := g.GetPlayer(id); p != nil && !p.Passed {
			g.CurrentTurnPlayer = id
			return []Event{{Type: EventTurn, Player: id}}
		}
	}
	assert(false, "no active player left in %v", g.Order)
	return nil
}

// CurrentTile returns the scoring tile of the round in progress, or 0
// outside the action rounds.
func (g *Game) CurrentTile() ScoringTile {
	if g.Round < 1 || g.Round > len(g.Tiles) {
		return 0
	}
	return g.Tiles[g.Round-1]
}

func (g *Game) scoreBuild(p *Player, s Structure) int {
	vp := g.CurrentTile().BuildVP(s)
	p.VictoryPoints += vp
	return vp
}

func (g *Game) takeBonus(p *Player, card *BonusCard) {
	p.BonusCard = card
	p.Resources.Coins += card.Coins
	card.Coins = 0
}

// PlayerHasOpponentNeighborsAtPosition reports whether any hex adjacent to
// pos holds another faction's structure.
func (g *Game) PlayerHasOpponentNeighborsAtPosition(p *Player, pos Position) bool {
	home := p.Faction.HomeTerrain()
	for _, pl := range g.Board.NeighborStructureOwners(pos) {
		if pl.Owner != home {
			return true
		}
	}
	return false
}

func (g *Game) touchesOwnStructure(p *Player, pos Position) bool {
	home := p.Faction.HomeTerrain()
	for _, pl := range g.Board.NeighborStructureOwners(pos) {
		if pl.Owner == home {
			return true
		}
	}
	return false
}

// countOnBoard counts p's structures currently standing on the board.
func (g *Game) countOnBoard(p *Player) map[Structure]int {
	counts := make(map[Structure]int)
	for _, pos := range g.Board.OwnedBy(p.Faction.HomeTerrain()) {
		counts[g.Board.Structures[pos].Structure]++
	}
	return counts
}

func (g *Game) parsePosition(s string) (Position, error) {
	pos, ok := ParsePosition(s)
	if !ok || !g.Board.Contains(pos) {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return pos, nil
}

// homeHex parses s and checks that it is p's home terrain.
func (g *Game) homeHex(p *Player, s string) (Position, error) {
	pos, err := g.parsePosition(s)
	if err != nil {
		return Position{}, err
	}
	home := p.Faction.HomeTerrain()
	if t, _ := g.Board.Terrain(pos); t != home {
		return Position{}, fmt.Errorf("%w: %s is %s, not %s", ErrInvalidPosition, pos, t, home)
	}
	return pos, nil
}

func (g *Game) turnPlayer(playerID string) (*Player, error) {
	if g.Phase != PhaseActions {
		return nil, ErrWrongPhase
	}
	p := g.GetPlayer(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if g.CurrentTurnPlayer != playerID {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

func (g *Game) setupPlayer(playerID string, phase GamePhase) (*Player, error) {
	if g.Phase != phase {
		return nil, ErrWrongPhase
	}
	p := g.GetPlayer(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if len(g.SetupQueue) == 0 || g.SetupQueue[0] != playerID {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

func (g *Game) setupTurnEvent() []Event {
	if len(g.SetupQueue) == 0 {
		return nil
	}
	return []Event{{Type: EventTurn, Player: g.SetupQueue[0]}}
}

func phaseEvent(phase GamePhase) Event {
	return Event{Type: EventPhaseChange, Data: map[string]interface{}{
		"phase": phase.String(),
	}}
}

// GetPlayer finds a player by ID.
func (g *Game) GetPlayer(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActivePlayer returns whoever must act next, in setup or in a round.
func (g *Game) ActivePlayer() *Player {
	switch g.Phase {
	case PhaseSetupDwellings, PhaseSetupBonus:
		if len(g.SetupQueue) > 0 {
			return g.GetPlayer(g.SetupQueue[0])
		}
	case PhaseActions:
		return g.GetPlayer(g.CurrentTurnPlayer)
	}
	return nil
}

// AttachFactions restores each player's faction from reg after the game
// was decoded from JSON.
func (g *Game) AttachFactions(reg *FactionRegistry) error {
	for _, p := range g.Players {
		f, err := reg.Get(p.FactionName)
		if err != nil {
			return fmt.Errorf("player %s: %w", p.Name, err)
		}
		p.Faction = f
	}
	return nil
}
