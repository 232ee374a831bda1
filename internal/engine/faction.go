package engine

import (
	"fmt"
	"sort"
	"strings"
)

// IncomeTable lists where a faction's income comes from. Dwelling,
// TradingPost and Temple entries are positional: the n-th built copy pays
// the n-th slot, and each list is exactly as long as the structure cap.
// Sanctuary and Stronghold pay a flat amount once built.
type IncomeTable struct {
	Base        Income   `json:"base"`
	Dwelling    []Income `json:"dwelling"`
	TradingPost []Income `json:"trading_post"`
	Temple      []Income `json:"temple"`
	Sanctuary   Income   `json:"sanctuary"`
	Stronghold  Income   `json:"stronghold"`
}

// Slots returns the positional slots for s, or nil for flat-income structures.
func (t IncomeTable) Slots(s Structure) []Income {
	switch s {
	case Dwelling:
		return t.Dwelling
	case TradingPost:
		return t.TradingPost
	case Temple:
		return t.Temple
	}
	return nil
}

// Validate checks that every positional list matches its structure cap.
func (t IncomeTable) Validate() error {
	for _, s := range []Structure{Dwelling, TradingPost, Temple} {
		if got, want := len(t.Slots(s)), TotalStructures[s]; got != want {
			return fmt.Errorf("%s income has %d slots, want %d", s, got, want)
		}
	}
	return nil
}

// Faction supplies the fixed data of one playable faction. Implementations
// are plain values; the engine never mutates them.
type Faction interface {
	Name() string
	HomeTerrain() Terrain
	StartingPower() PowerBowls
	StartingResources() Resources
	StartingCultPositions() map[CultTrack]int
	StartingShipping() int
	// StructureCost returns the price of s. Only the trading post is
	// cheaper next to an opponent.
	StructureCost(s Structure, adjacentEnemy bool) Resources
	IncomeTable() IncomeTable
}

// IncomeForStructures sums the faction's base income and the income of
// every occupied slot given how many of each structure are built.
func IncomeForStructures(f Faction, built map[Structure]int) Income {
	table := f.IncomeTable()
	income := table.Base
	for _, s := range AllStructures() {
		n := built[s]
		assert(n >= 0 && n <= TotalStructures[s], "%d %s built, cap is %d", n, s, TotalStructures[s])
		switch s {
		case Sanctuary:
			if n > 0 {
				income = income.Add(table.Sanctuary)
			}
		case Stronghold:
			if n > 0 {
				income = income.Add(table.Stronghold)
			}
		default:
			slots := table.Slots(s)
			assert(len(slots) == TotalStructures[s], "%s has %d income slots", s, len(slots))
			for _, slot := range slots[:n] {
				income = income.Add(slot)
			}
		}
	}
	return income
}

// FactionRegistry maps faction names to their data.
type FactionRegistry struct {
	factions map[string]Faction
}

func NewFactionRegistry() *FactionRegistry {
	return &FactionRegistry{factions: make(map[string]Faction)}
}

func (r *FactionRegistry) Register(f Faction) {
	r.factions[strings.ToLower(f.Name())] = f
}

func (r *FactionRegistry) Get(name string) (Faction, error) {
	f, ok := r.factions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("no faction named %q", name)
	}
	return f, nil
}

// Names returns the registered faction names in sorted order.
func (r *FactionRegistry) Names() []string {
	names := make([]string, 0, len(r.factions))
	for _, f := range r.factions {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// All returns the registered factions ordered by name.
func (r *FactionRegistry) All() []Faction {
	out := make([]Faction, 0, len(r.factions))
	for _, n := range r.Names() {
		out = append(out, r.factions[strings.ToLower(n)])
	}
	return out
}
