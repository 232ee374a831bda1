package engine

import "strings"

// Structure is a building a player can put on the board.
type Structure int

const (
	Dwelling    Structure = 1
	TradingPost Structure = 2
	Temple      Structure = 3
	Sanctuary   Structure = 4
	Stronghold  Structure = 5
)

var structureNames = map[Structure]string{
	Dwelling:    "Dwelling",
	TradingPost: "TradingPost",
	Temple:      "Temple",
	Sanctuary:   "Sanctuary",
	Stronghold:  "Stronghold",
}

// Short board codes, also accepted by ParseStructure.
var structureCodes = map[Structure]string{
	Dwelling:    "DW",
	TradingPost: "TP",
	Temple:      "TE",
	Sanctuary:   "SA",
	Stronghold:  "SH",
}

func (s Structure) String() string {
	if n, ok := structureNames[s]; ok {
		return n
	}
	return "Unknown"
}

// Code returns the two-letter board code.
func (s Structure) Code() string {
	if c, ok := structureCodes[s]; ok {
		return c
	}
	return "??"
}

// AllStructures returns the structures in upgrade order.
func AllStructures() []Structure {
	return []Structure{Dwelling, TradingPost, Temple, Sanctuary, Stronghold}
}

// TotalStructures is how many of each structure a faction owns.
var TotalStructures = map[Structure]int{
	Dwelling:    8,
	TradingPost: 4,
	Temple:      3,
	Sanctuary:   1,
	Stronghold:  1,
}

var upgrades = map[Structure][]Structure{
	Dwelling:    {TradingPost},
	TradingPost: {Temple, Stronghold},
	Temple:      {Sanctuary},
}

// IsUpgradeableTo reports whether a built s may be replaced by target.
// Sanctuary and Stronghold are final; Dwelling is never a target.
func (s Structure) IsUpgradeableTo(target Structure) bool {
	for _, u := range upgrades[s] {
		if u == target {
			return true
		}
	}
	return false
}

// ParseStructure accepts a name or two-letter code in any case.
func ParseStructure(s string) (Structure, bool) {
	in := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for _, st := range AllStructures() {
		if strings.EqualFold(in, st.String()) || strings.EqualFold(in, st.Code()) {
			return st, true
		}
	}
	if strings.EqualFold(in, "tradinghouse") {
		return TradingPost, true
	}
	return 0, false
}
