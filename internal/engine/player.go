package engine

const (
	// MaxPriests is the size of a faction's priest supply.
	MaxPriests = 7
	// StartingVictoryPoints is what every player begins with.
	StartingVictoryPoints = 20
)

// TownKeyHolding is one acquired town key and whether it has been spent.
type TownKeyHolding struct {
	Key  TownKey `json:"key"`
	Used bool    `json:"used"`
}

// Player holds one player's state.
type Player struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Faction       Faction    `json:"-"`
	FactionName   string     `json:"faction"`
	Power         PowerBowls `json:"power"`
	Resources     Resources  `json:"resources"`
	Shipping      int        `json:"shipping"`
	VictoryPoints int        `json:"victory_points"`

	// Remaining counts structures still in the supply, Built counts those
	// placed. Built also selects the positional income slots.
	Remaining map[Structure]int `json:"remaining"`
	Built     map[Structure]int `json:"built"`

	TownKeys      []TownKeyHolding `json:"town_keys"`
	PriestsInPlay int              `json:"priests_in_play"`
	FreeSpades    int              `json:"free_spades"`
	BonusCard     *BonusCard       `json:"bonus_card,omitempty"`

	// Per-round state
	Passed bool `json:"passed"`
}

// NewPlayer seats a player with the faction's starting position.
func NewPlayer(id, name string, f Faction) *Player {
	p := &Player{
		ID:            id,
		Name:          name,
		Faction:       f,
		FactionName:   f.Name(),
		Power:         f.StartingPower(),
		Resources:     f.StartingResources(),
		Shipping:      f.StartingShipping(),
		VictoryPoints: StartingVictoryPoints,
		Remaining:     make(map[Structure]int),
		Built:         make(map[Structure]int),
		PriestsInPlay: MaxPriests,
	}
	for s, n := range TotalStructures {
		p.Remaining[s] = n
	}
	return p
}

// GainPower cycles power through the bowls and banks any overflow coins.
func (p *Player) GainPower(amount int) {
	p.Resources.Coins += p.Power.Gain(amount)
}

// CanUsePower reports whether amount power can be spent, burning if needed.
func (p *Player) CanUsePower(amount int) bool {
	return p.Power.CanUse(amount)
}

// UsePower spends amount power. Callers check CanUsePower first.
func (p *Player) UsePower(amount int) {
	p.Power.Use(amount)
}

// CanAfford reports whether cost can be paid, burning power to cover any
// missing coins, workers and priests.
func (p *Player) CanAfford(cost Resources) bool {
	after := p.Resources.Sub(cost)
	if after.IsValid() {
		return true
	}
	power, ok := deficitPower(after)
	return ok && p.Power.CanUse(power)
}

// Pay deducts cost, burning exactly the power needed to cover any
// shortfall. Callers check CanAfford first.
func (p *Player) Pay(cost Resources) {
	if !p.CanAfford(cost) {
		fail(ErrInvalidAction, "%s cannot pay %s with %s and power %s", p.Name, cost, p.Resources, p.Power)
	}
	p.Resources = p.Resources.Sub(cost)
	if p.Resources.IsValid() {
		return
	}
	power, ok := deficitPower(p.Resources)
	assert(ok, "uncoverable deficit %s", p.Resources)
	p.UsePower(power)
	p.Resources.ForceValid()
}

// CanBuild reports whether s can be built now, either outright or by
// burning power to cover missing coins, workers and priests.
func (p *Player) CanBuild(s Structure, adjacentEnemy bool) bool {
	if p.Remaining[s] <= 0 {
		return false
	}
	return p.CanAfford(p.Faction.StructureCost(s, adjacentEnemy))
}

// Build takes s out of the supply and pays for it, burning exactly the
// power needed to cover any shortfall. A free build (initial placement)
// only moves the structure from supply to board.
func (p *Player) Build(s Structure, adjacentEnemy, free bool) {
	if p.Remaining[s] <= 0 {
		fail(ErrInvalidAction, "%s has no %s left to build", p.Name, s)
	}
	if !free && !p.CanBuild(s, adjacentEnemy) {
		fail(ErrInvalidAction, "%s cannot afford %s with %s and power %s", p.Name, s, p.Resources, p.Power)
	}
	p.Remaining[s]--
	p.Built[s]++
	if !free {
		p.Pay(p.Faction.StructureCost(s, adjacentEnemy))
	}
}

// ReturnToSupply takes a replaced structure back off the board, freeing
// its income slot.
func (p *Player) ReturnToSupply(s Structure) {
	assert(p.Built[s] > 0, "%s has no %s built", p.Name, s)
	p.Built[s]--
	p.Remaining[s]++
}

// Income returns what the player would collect right now.
func (p *Player) Income() Income {
	income := IncomeForStructures(p.Faction, p.Built)
	if p.BonusCard != nil {
		income = income.Add(p.BonusCard.Kind.Income())
	}
	return income
}

// CollectIncome adds structure and bonus card income. Income power is
// gained through the bowls like any other power.
func (p *Player) CollectIncome() Income {
	income := p.Income()
	p.Gain(income)
	return income
}

// TerraformCost prices spades for p. Banked free spades are used before
// any worker is paid; free is how many of them would be spent.
func (p *Player) TerraformCost(spades int) (cost Resources, free int) {
	free = min(spades, p.FreeSpades)
	return SpadeCost(spades - free), free
}

// Gain books income: resources to the ledger, power through the bowls and
// spades to FreeSpades.
func (p *Player) Gain(income Income) {
	p.Resources = p.Resources.Add(income.Resources())
	p.GainPower(income.Power)
	p.FreeSpades += income.Spades
}

// ShippingRange is the faction shipping plus any bonus card boost.
func (p *Player) ShippingRange() int {
	if p.BonusCard != nil {
		return p.Shipping + p.BonusCard.Kind.Shipping()
	}
	return p.Shipping
}

// GainTown records a newly acquired town key.
func (p *Player) GainTown(key TownKey) {
	p.TownKeys = append(p.TownKeys, TownKeyHolding{Key: key})
}

// UseTownKey spends the oldest unused key. Returns false if none is left.
func (p *Player) UseTownKey() bool {
	for i := range p.TownKeys {
		if !p.TownKeys[i].Used {
			p.TownKeys[i].Used = true
			return true
		}
	}
	return false
}

// AvailableTownKeys counts keys not yet spent.
func (p *Player) AvailableTownKeys() int {
	n := 0
	for _, k := range p.TownKeys {
		if !k.Used {
			n++
		}
	}
	return n
}

// SacrificePriestToOrder records that a priest left for a cult order and
// will not come back.
func (p *Player) SacrificePriestToOrder() {
	if p.PriestsInPlay > 0 {
		p.PriestsInPlay--
	}
}
