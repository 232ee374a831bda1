// Package factions loads the playable factions from a YAML catalog.
package factions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"tmengine/internal/engine"
)

//go:embed factions.yaml
var builtinCatalog []byte

//go:embed factions.schema.json
var catalogSchema string

var schema = jsonschema.MustCompileString("factions.schema.json", catalogSchema)

type amounts struct {
	Coins   int `yaml:"coins"`
	Workers int `yaml:"workers"`
	Priests int `yaml:"priests"`
	Power   int `yaml:"power"`
}

func (a amounts) resources() engine.Resources {
	return engine.Resources{Coins: a.Coins, Workers: a.Workers, Priests: a.Priests}
}

func (a amounts) income() engine.Income {
	return engine.Income{Coins: a.Coins, Workers: a.Workers, Priests: a.Priests, Power: a.Power}
}

type catalog struct {
	Factions []entry `yaml:"factions"`
}

type entry struct {
	Name  string `yaml:"name"`
	Home  string `yaml:"home"`
	Power struct {
		I   int `yaml:"i"`
		II  int `yaml:"ii"`
		III int `yaml:"iii"`
	} `yaml:"power"`
	Resources amounts        `yaml:"resources"`
	Cult      map[string]int `yaml:"cult"`
	Shipping  int            `yaml:"shipping"`
	Costs     struct {
		Dwelling            amounts `yaml:"dwelling"`
		TradingPost         amounts `yaml:"trading_post"`
		TradingPostAdjacent amounts `yaml:"trading_post_adjacent"`
		Temple              amounts `yaml:"temple"`
		Stronghold          amounts `yaml:"stronghold"`
		Sanctuary           amounts `yaml:"sanctuary"`
	} `yaml:"costs"`
	Income struct {
		Base        amounts   `yaml:"base"`
		Dwelling    []amounts `yaml:"dwelling"`
		TradingPost []amounts `yaml:"trading_post"`
		Temple      []amounts `yaml:"temple"`
		Sanctuary   amounts   `yaml:"sanctuary"`
		Stronghold  amounts   `yaml:"stronghold"`
	} `yaml:"income"`
}

// Table is a faction read from the catalog. It satisfies engine.Faction.
type Table struct {
	name         string
	home         engine.Terrain
	power        engine.PowerBowls
	resources    engine.Resources
	cult         map[engine.CultTrack]int
	shipping     int
	costs        map[engine.Structure]engine.Resources
	adjacentPost engine.Resources
	income       engine.IncomeTable
}

func (t *Table) Name() string                        { return t.name }
func (t *Table) HomeTerrain() engine.Terrain         { return t.home }
func (t *Table) StartingPower() engine.PowerBowls    { return t.power }
func (t *Table) StartingResources() engine.Resources { return t.resources }
func (t *Table) StartingShipping() int               { return t.shipping }

func (t *Table) StartingCultPositions() map[engine.CultTrack]int {
	out := make(map[engine.CultTrack]int, len(t.cult))
	for track, pos := range t.cult {
		out[track] = pos
	}
	return out
}

func (t *Table) StructureCost(s engine.Structure, adjacentEnemy bool) engine.Resources {
	if s == engine.TradingPost && adjacentEnemy {
		return t.adjacentPost
	}
	return t.costs[s]
}

func (t *Table) IncomeTable() engine.IncomeTable {
	table := t.income
	table.Dwelling = append([]engine.Income(nil), t.income.Dwelling...)
	table.TradingPost = append([]engine.Income(nil), t.income.TradingPost...)
	table.Temple = append([]engine.Income(nil), t.income.Temple...)
	return table
}

// Parse validates a YAML catalog against the catalog schema and builds its
// factions.
func Parse(data []byte) ([]*Table, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("factions: %w", err)
	}
	// The validator wants JSON-shaped values, so round-trip through JSON.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("factions: %w", err)
	}
	var asJSON any
	if err := json.Unmarshal(raw, &asJSON); err != nil {
		return nil, fmt.Errorf("factions: %w", err)
	}
	if err := schema.Validate(asJSON); err != nil {
		return nil, fmt.Errorf("factions: %w", err)
	}

	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("factions: %w", err)
	}
	tables := make([]*Table, 0, len(c.Factions))
	seen := make(map[string]bool)
	for _, e := range c.Factions {
		t, err := e.table()
		if err != nil {
			return nil, fmt.Errorf("factions: %s: %w", e.Name, err)
		}
		key := strings.ToLower(t.name)
		if seen[key] {
			return nil, fmt.Errorf("factions: %s listed twice", t.name)
		}
		seen[key] = true
		tables = append(tables, t)
	}
	return tables, nil
}

func (e entry) table() (*Table, error) {
	home, ok := engine.ParseTerrain(e.Home)
	if !ok || !home.Buildable() {
		return nil, fmt.Errorf("home %q is not a land terrain", e.Home)
	}
	t := &Table{
		name:      e.Name,
		home:      home,
		power:     engine.PowerBowls{I: e.Power.I, II: e.Power.II, III: e.Power.III},
		resources: e.Resources.resources(),
		cult:      make(map[engine.CultTrack]int),
		shipping:  e.Shipping,
		costs: map[engine.Structure]engine.Resources{
			engine.Dwelling:    e.Costs.Dwelling.resources(),
			engine.TradingPost: e.Costs.TradingPost.resources(),
			engine.Temple:      e.Costs.Temple.resources(),
			engine.Stronghold:  e.Costs.Stronghold.resources(),
			engine.Sanctuary:   e.Costs.Sanctuary.resources(),
		},
		adjacentPost: e.Costs.TradingPostAdjacent.resources(),
	}
	for name, pos := range e.Cult {
		track, ok := engine.ParseCultTrack(name)
		if !ok {
			return nil, fmt.Errorf("unknown cult track %q", name)
		}
		if pos >= engine.TownPosition {
			return nil, fmt.Errorf("cult %s starts at %d", track, pos)
		}
		t.cult[track] = pos
	}

	t.income = engine.IncomeTable{
		Base:        e.Income.Base.income(),
		Dwelling:    incomes(e.Income.Dwelling),
		TradingPost: incomes(e.Income.TradingPost),
		Temple:      incomes(e.Income.Temple),
		Sanctuary:   e.Income.Sanctuary.income(),
		Stronghold:  e.Income.Stronghold.income(),
	}
	if err := t.income.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func incomes(in []amounts) []engine.Income {
	out := make([]engine.Income, len(in))
	for i, a := range in {
		out[i] = a.income()
	}
	return out
}

// Load reads a catalog file, e.g. to play with house-rule factions.
func Load(path string) ([]*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Builtin returns the factions shipped with the engine.
func Builtin() []*Table {
	tables, err := Parse(builtinCatalog)
	if err != nil {
		panic(err)
	}
	return tables
}

// Registry registers tables in a fresh faction registry.
func Registry(tables []*Table) *engine.FactionRegistry {
	r := engine.NewFactionRegistry()
	for _, t := range tables {
		r.Register(t)
	}
	return r
}

// NewRegistry returns a registry holding the builtin factions.
func NewRegistry() *engine.FactionRegistry {
	return Registry(Builtin())
}
