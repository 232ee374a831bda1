package engine

import (
	"fmt"
	"math/rand/v2"
)

// BonusCardKind is one of the nine bonus card designs. The kind is pure
// data; the coins piled on a card in play live on BonusCard.
type BonusCardKind int

const (
	BonusPriest            BonusCardKind = 1 // 1 priest income
	BonusWorker3Power      BonusCardKind = 2 // 1 worker and 3 power income
	BonusCoin6             BonusCardKind = 3 // 6 coin income
	BonusPower3Shipping    BonusCardKind = 4 // 3 power income, +1 shipping while held
	BonusSpadeCoin2        BonusCardKind = 5 // spade action, 2 coin income
	BonusCultCoin4         BonusCardKind = 6 // cult action, 4 coin income
	BonusDwellingCoin2     BonusCardKind = 7 // 1 VP per dwelling when passing, 2 coin income
	BonusTradingPostWorker BonusCardKind = 8 // 2 VP per trading post when passing, 1 worker income
	BonusStrongholdWorker2 BonusCardKind = 9 // 4 VP per stronghold/sanctuary when passing, 2 worker income
)

var bonusNames = map[BonusCardKind]string{
	BonusPriest:            "Priest",
	BonusWorker3Power:      "Worker+3Power",
	BonusCoin6:             "6Coins",
	BonusPower3Shipping:    "3Power+Shipping",
	BonusSpadeCoin2:        "Spade+2Coins",
	BonusCultCoin4:         "Cult+4Coins",
	BonusDwellingCoin2:     "DwellingVP+2Coins",
	BonusTradingPostWorker: "TradingPostVP+Worker",
	BonusStrongholdWorker2: "StrongholdVP+2Workers",
}

func (k BonusCardKind) String() string {
	if s, ok := bonusNames[k]; ok {
		return s
	}
	return "Unknown"
}

// AllBonusCardKinds returns the nine kinds in catalogue order.
func AllBonusCardKinds() []BonusCardKind {
	return []BonusCardKind{
		BonusPriest, BonusWorker3Power, BonusCoin6,
		BonusPower3Shipping, BonusSpadeCoin2, BonusCultCoin4,
		BonusDwellingCoin2, BonusTradingPostWorker, BonusStrongholdWorker2,
	}
}

// Income is what the card pays during the income phase.
func (k BonusCardKind) Income() Income {
	switch k {
	case BonusPriest:
		return Income{Priests: 1}
	case BonusWorker3Power:
		return Income{Workers: 1, Power: 3}
	case BonusCoin6:
		return Income{Coins: 6}
	case BonusPower3Shipping:
		return Income{Power: 3}
	case BonusSpadeCoin2, BonusDwellingCoin2:
		return Income{Coins: 2}
	case BonusCultCoin4:
		return Income{Coins: 4}
	case BonusTradingPostWorker:
		return Income{Workers: 1}
	case BonusStrongholdWorker2:
		return Income{Workers: 2}
	}
	return Income{}
}

// Shipping is the extra shipping range granted while the card is held.
func (k BonusCardKind) Shipping() int {
	if k == BonusPower3Shipping {
		return 1
	}
	return 0
}

// PassVP is the victory points scored when passing with this card.
func (k BonusCardKind) PassVP(built map[Structure]int) int {
	switch k {
	case BonusDwellingCoin2:
		return built[Dwelling]
	case BonusTradingPostWorker:
		return 2 * built[TradingPost]
	case BonusStrongholdWorker2:
		return 4 * (built[Stronghold] + built[Sanctuary])
	}
	return 0
}

// BonusCard is a bonus card in play. Coins accumulate while it sits
// unclaimed in the pool.
type BonusCard struct {
	Kind  BonusCardKind `json:"kind"`
	Coins int           `json:"coins"`
}

func (c *BonusCard) String() string {
	if c.Coins > 0 {
		return fmt.Sprintf("%s (+%dc)", c.Kind, c.Coins)
	}
	return c.Kind.String()
}

// BonusPool holds the bonus cards not currently held by any player.
type BonusPool struct {
	Cards []*BonusCard `json:"cards"`
}

// NewBonusPool creates one card per kind.
func NewBonusPool(kinds []BonusCardKind) *BonusPool {
	p := &BonusPool{}
	for _, k := range kinds {
		p.Cards = append(p.Cards, &BonusCard{Kind: k})
	}
	return p
}

// Take removes and returns the card at index.
func (p *BonusPool) Take(index int) (*BonusCard, error) {
	if index < 0 || index >= len(p.Cards) {
		return nil, fmt.Errorf("%w: no bonus card %d", ErrInvalidAction, index+1)
	}
	c := p.Cards[index]
	p.Cards = append(p.Cards[:index], p.Cards[index+1:]...)
	return c, nil
}

// Return puts a card back at the end of the pool.
func (p *BonusPool) Return(c *BonusCard) {
	if c != nil {
		p.Cards = append(p.Cards, c)
	}
}

// Accrue adds one coin to every card left in the pool.
func (p *BonusPool) Accrue() {
	for _, c := range p.Cards {
		c.Coins++
	}
}

// ScoringTile is the round goal. It awards VP for structures built during
// the round and a cult reward at the end of it.
type ScoringTile int

const (
	TileTradingPostAir4Spade   ScoringTile = 1
	TileDwellingWater4Priest   ScoringTile = 2
	TileTradingPostWater4Spade ScoringTile = 3
	TileTownEarth4Spade        ScoringTile = 4
	TileStrongholdAir2Worker   ScoringTile = 5
	TileSpadeEarthCoin         ScoringTile = 6
	TileDwellingFire4Power4    ScoringTile = 7
	TileStrongholdFire2Worker  ScoringTile = 8
)

var tileNames = map[ScoringTile]string{
	TileTradingPostAir4Spade:   "TP2VP/4Air:Spade",
	TileDwellingWater4Priest:   "DW2VP/4Water:Priest",
	TileTradingPostWater4Spade: "TP2VP/4Water:Spade",
	TileTownEarth4Spade:        "Town5VP/4Earth:Spade",
	TileStrongholdAir2Worker:   "SH4VP/2Air:Worker",
	TileSpadeEarthCoin:         "Spade2VP/1Earth:Coin",
	TileDwellingFire4Power4:    "DW2VP/4Fire:4Power",
	TileStrongholdFire2Worker:  "SH5VP/2Fire:Worker",
}

func (t ScoringTile) String() string {
	if s, ok := tileNames[t]; ok {
		return s
	}
	return "Unknown"
}

func AllScoringTiles() []ScoringTile {
	return []ScoringTile{
		TileTradingPostAir4Spade, TileDwellingWater4Priest,
		TileTradingPostWater4Spade, TileTownEarth4Spade,
		TileStrongholdAir2Worker, TileSpadeEarthCoin,
		TileDwellingFire4Power4, TileStrongholdFire2Worker,
	}
}

// BuildVP is the victory points for building s while the tile is active.
func (t ScoringTile) BuildVP(s Structure) int {
	switch t {
	case TileTradingPostAir4Spade, TileTradingPostWater4Spade:
		if s == TradingPost {
			return 2
		}
	case TileDwellingWater4Priest, TileDwellingFire4Power4:
		if s == Dwelling {
			return 2
		}
	case TileStrongholdAir2Worker:
		if s == Stronghold {
			return 4
		}
	case TileStrongholdFire2Worker:
		if s == Stronghold {
			return 5
		}
	}
	return 0
}

// SpadeVP is the victory points per terraforming spade while the tile is active.
func (t ScoringTile) SpadeVP() int {
	if t == TileSpadeEarthCoin {
		return 2
	}
	return 0
}

// TownVP is the victory points for founding a town while the tile is active.
func (t ScoringTile) TownVP() int {
	if t == TileTownEarth4Spade {
		return 5
	}
	return 0
}

// CultReward returns the end-of-round reward: every step full steps on
// track pays income once. Spades are banked as free terraforming.
func (t ScoringTile) CultReward() (track CultTrack, step int, reward Income) {
	switch t {
	case TileTradingPostAir4Spade:
		return CultAir, 4, Income{Spades: 1}
	case TileDwellingWater4Priest:
		return CultWater, 4, Income{Priests: 1}
	case TileTradingPostWater4Spade:
		return CultWater, 4, Income{Spades: 1}
	case TileTownEarth4Spade:
		return CultEarth, 4, Income{Spades: 1}
	case TileStrongholdAir2Worker:
		return CultAir, 2, Income{Workers: 1}
	case TileSpadeEarthCoin:
		return CultEarth, 1, Income{Coins: 1}
	case TileDwellingFire4Power4:
		return CultFire, 4, Income{Power: 4}
	case TileStrongholdFire2Worker:
		return CultFire, 2, Income{Workers: 1}
	}
	return 0, 0, Income{}
}

// SelectScoringTiles draws n distinct tiles, one per round.
func SelectScoringTiles(r *rand.Rand, n int) []ScoringTile {
	tiles := AllScoringTiles()
	r.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
	return tiles[:min(n, len(tiles))]
}

// SelectBonusCards draws numPlayers+extra distinct bonus card kinds.
func SelectBonusCards(r *rand.Rand, numPlayers, extra int) []BonusCardKind {
	kinds := AllBonusCardKinds()
	r.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})
	return kinds[:min(numPlayers+extra, len(kinds))]
}
