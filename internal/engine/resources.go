package engine

import "fmt"

// Resources is a player's ledger of spendable goods. A ledger may go
// negative while a build is being paid for, but ForceValid must run before
// anyone else reads it.
type Resources struct {
	Coins   int `json:"coins"`
	Workers int `json:"workers"`
	Priests int `json:"priests"`
	Bridges int `json:"bridges"`
}

// IsValid reports whether every field is non-negative.
func (r Resources) IsValid() bool {
	return r.Coins >= 0 && r.Workers >= 0 && r.Priests >= 0 && r.Bridges >= 0
}

// ForceValid clamps negative fields to zero.
func (r *Resources) ForceValid() {
	r.Coins = max(r.Coins, 0)
	r.Workers = max(r.Workers, 0)
	r.Priests = max(r.Priests, 0)
	r.Bridges = max(r.Bridges, 0)
}

func (r Resources) Add(o Resources) Resources {
	return Resources{
		Coins:   r.Coins + o.Coins,
		Workers: r.Workers + o.Workers,
		Priests: r.Priests + o.Priests,
		Bridges: r.Bridges + o.Bridges,
	}
}

func (r Resources) Sub(o Resources) Resources {
	return Resources{
		Coins:   r.Coins - o.Coins,
		Workers: r.Workers - o.Workers,
		Priests: r.Priests - o.Priests,
		Bridges: r.Bridges - o.Bridges,
	}
}

// SumResources adds up any number of ledgers.
func SumResources(rs ...Resources) Resources {
	var total Resources
	for _, r := range rs {
		total = total.Add(r)
	}
	return total
}

func (r Resources) String() string {
	return fmt.Sprintf("%dc %dw %dp %db", r.Coins, r.Workers, r.Priests, r.Bridges)
}

// Power burned to stand in for one missing unit of each resource.
// Bridges cannot be covered by power.
const (
	PowerPerCoin   = 1
	PowerPerWorker = 3
	PowerPerPriest = 5
)

// WorkersPerSpade is the terraforming exchange rate.
const WorkersPerSpade = 3

// TerraformCost is the price of turning from into to.
func TerraformCost(from, to Terrain) Resources {
	return SpadeCost(SpadesBetween(from, to))
}

// SpadeCost is the price of n paid spades.
func SpadeCost(n int) Resources {
	return Resources{Workers: max(n, 0) * WorkersPerSpade}
}

// deficitPower returns the power needed to zero every negative field of r.
// ok is false when a negative field cannot be covered by power at all.
func deficitPower(r Resources) (power int, ok bool) {
	if r.Bridges < 0 {
		return 0, false
	}
	if r.Coins < 0 {
		power += -r.Coins * PowerPerCoin
	}
	if r.Workers < 0 {
		power += -r.Workers * PowerPerWorker
	}
	if r.Priests < 0 {
		power += -r.Priests * PowerPerPriest
	}
	return power, true
}

// Income is what a player collects at the start of a round.
type Income struct {
	Coins   int `json:"coins,omitempty"`
	Workers int `json:"workers,omitempty"`
	Priests int `json:"priests,omitempty"`
	Power   int `json:"power,omitempty"`
	// Spades are free terraforming steps, banked until the next build.
	Spades int `json:"spades,omitempty"`
}

func (i Income) Add(o Income) Income {
	return Income{
		Coins:   i.Coins + o.Coins,
		Workers: i.Workers + o.Workers,
		Priests: i.Priests + o.Priests,
		Power:   i.Power + o.Power,
		Spades:  i.Spades + o.Spades,
	}
}

// Resources returns the non-power part of the income as a ledger.
func (i Income) Resources() Resources {
	return Resources{Coins: i.Coins, Workers: i.Workers, Priests: i.Priests}
}

func (i Income) String() string {
	s := fmt.Sprintf("%dc %dw %dp %dpw", i.Coins, i.Workers, i.Priests, i.Power)
	if i.Spades > 0 {
		s += fmt.Sprintf(" %ds", i.Spades)
	}
	return s
}
