package engine

import "strings"

// Terrain is a hex type on the board. Each faction calls one terrain home.
type Terrain int

const (
	TerrainNone      Terrain = 0
	TerrainPlain     Terrain = 1 // Brown
	TerrainSwamp     Terrain = 2 // Black
	TerrainLake      Terrain = 3 // Blue
	TerrainForest    Terrain = 4 // Green
	TerrainMountain  Terrain = 5 // Grey
	TerrainWasteland Terrain = 6 // Red
	TerrainDesert    Terrain = 7 // Yellow
	TerrainWater     Terrain = 8 // River, unbuildable
)

var terrainNames = map[Terrain]string{
	TerrainNone:      "None",
	TerrainPlain:     "Plain",
	TerrainSwamp:     "Swamp",
	TerrainLake:      "Lake",
	TerrainForest:    "Forest",
	TerrainMountain:  "Mountain",
	TerrainWasteland: "Wasteland",
	TerrainDesert:    "Desert",
	TerrainWater:     "Water",
}

func (t Terrain) String() string {
	if s, ok := terrainNames[t]; ok {
		return s
	}
	return "Unknown"
}

// Buildable reports whether structures may stand on this terrain.
func (t Terrain) Buildable() bool {
	return t != TerrainNone && t != TerrainWater
}

// landTerrains is the size of the terraforming cycle Plain, Swamp, ...,
// Desert, back to Plain.
const landTerrains = 7

// SpadesBetween is the number of terraforming steps from one land terrain
// to another, going whichever way round the cycle is shorter.
func SpadesBetween(from, to Terrain) int {
	assert(from.Buildable() && to.Buildable(), "terraform %s to %s", from, to)
	d := int(from - to)
	if d < 0 {
		d = -d
	}
	return min(d, landTerrains-d)
}

// ParseTerrain accepts a terrain name in any case ("plain", "WASTELAND").
func ParseTerrain(s string) (Terrain, bool) {
	for t, name := range terrainNames {
		if t != TerrainNone && strings.EqualFold(name, strings.TrimSpace(s)) {
			return t, true
		}
	}
	return TerrainNone, false
}

// CultTrack identifies one of the four cult tracks.
type CultTrack int

const (
	CultFire  CultTrack = 1
	CultWater CultTrack = 2
	CultEarth CultTrack = 3
	CultAir   CultTrack = 4
)

var cultNames = map[CultTrack]string{
	CultFire:  "Fire",
	CultWater: "Water",
	CultEarth: "Earth",
	CultAir:   "Air",
}

func (c CultTrack) String() string {
	if s, ok := cultNames[c]; ok {
		return s
	}
	return "Unknown"
}

// AllCultTracks returns the four tracks in board order.
func AllCultTracks() []CultTrack {
	return []CultTrack{CultFire, CultWater, CultEarth, CultAir}
}

func ParseCultTrack(s string) (CultTrack, bool) {
	for _, c := range AllCultTracks() {
		if strings.EqualFold(c.String(), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return 0, false
}

// TownKey is the reward token received for founding a town. Holding an
// unused key is what lets a player step onto position 10 of a cult track.
type TownKey int

const (
	TownKeyWorkers2 TownKey = 1
	TownKeyPriest   TownKey = 2
	TownKeyCult     TownKey = 3 // 1 up on every cult track
	TownKeyPower8   TownKey = 4
	TownKeyCoin6    TownKey = 5
)

var townKeyNames = map[TownKey]string{
	TownKeyWorkers2: "Workers2",
	TownKeyPriest:   "Priest",
	TownKeyCult:     "Cult",
	TownKeyPower8:   "Power8",
	TownKeyCoin6:    "Coin6",
}

func (k TownKey) String() string {
	if s, ok := townKeyNames[k]; ok {
		return s
	}
	return "Unknown"
}

func AllTownKeys() []TownKey {
	return []TownKey{TownKeyWorkers2, TownKeyPriest, TownKeyCult, TownKeyPower8, TownKeyCoin6}
}

func ParseTownKey(s string) (TownKey, bool) {
	for k, name := range townKeyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return k, true
		}
	}
	return 0, false
}

// Reward is what founding a town with this key pays right away. The cult
// key's track steps are applied by the game.
func (k TownKey) Reward() (vp int, income Income) {
	switch k {
	case TownKeyWorkers2:
		return 7, Income{Workers: 2}
	case TownKeyPriest:
		return 9, Income{Priests: 1}
	case TownKeyCult:
		return 8, Income{}
	case TownKeyPower8:
		return 6, Income{Power: 8}
	case TownKeyCoin6:
		return 5, Income{Coins: 6}
	}
	return 0, Income{}
}
