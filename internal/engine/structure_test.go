package engine_test

import (
	"math/rand/v2"
	"testing"

	"tmengine/internal/engine"
)

func TestUpgradeLattice(t *testing.T) {
	all := engine.AllStructures()
	for _, s := range all {
		if s.IsUpgradeableTo(s) {
			t.Errorf("%s upgrades to itself", s)
		}
		for _, target := range all {
			if s.IsUpgradeableTo(target) && target.IsUpgradeableTo(s) {
				t.Errorf("cycle between %s and %s", s, target)
			}
		}
	}
	edges := []struct{ from, to engine.Structure }{
		{engine.Dwelling, engine.TradingPost},
		{engine.TradingPost, engine.Temple},
		{engine.TradingPost, engine.Stronghold},
		{engine.Temple, engine.Sanctuary},
	}
	count := 0
	for _, s := range all {
		for _, target := range all {
			if s.IsUpgradeableTo(target) {
				count++
			}
		}
	}
	if count != len(edges) {
		t.Errorf("%d upgrade edges, want %d", count, len(edges))
	}
	for _, e := range edges {
		if !e.from.IsUpgradeableTo(e.to) {
			t.Errorf("%s should upgrade to %s", e.from, e.to)
		}
	}
}

func TestParseStructure(t *testing.T) {
	cases := map[string]engine.Structure{
		"dwelling":     engine.Dwelling,
		"TP":           engine.TradingPost,
		"Trading Post": engine.TradingPost,
		"tradinghouse": engine.TradingPost,
		" temple ":     engine.Temple,
		"sh":           engine.Stronghold,
		"SANCTUARY":    engine.Sanctuary,
	}
	for in, want := range cases {
		if got, ok := engine.ParseStructure(in); !ok || got != want {
			t.Errorf("ParseStructure(%q) = %s, %v", in, got, ok)
		}
	}
	if _, ok := engine.ParseStructure("castle"); ok {
		t.Error("castle parsed")
	}
}

func TestResources(t *testing.T) {
	r := engine.Resources{Coins: 3, Workers: -2, Priests: 1, Bridges: -1}
	if r.IsValid() {
		t.Fatal("negative ledger reported valid")
	}
	r.ForceValid()
	if r != (engine.Resources{Coins: 3, Priests: 1}) || !r.IsValid() {
		t.Fatalf("ForceValid = %s", r)
	}
	sum := engine.SumResources(
		engine.Resources{Coins: 1},
		engine.Resources{Workers: 2},
		engine.Resources{Priests: 3, Bridges: 1},
	)
	if sum != (engine.Resources{Coins: 1, Workers: 2, Priests: 3, Bridges: 1}) {
		t.Fatalf("sum = %s", sum)
	}
	if got := sum.Sub(sum); got != (engine.Resources{}) {
		t.Fatalf("sub = %s", got)
	}
}

func TestBridgesCannotBeBurned(t *testing.T) {
	p := halfling(t)
	if p.CanAfford(engine.Resources{Bridges: 1}) {
		t.Fatal("bridges covered by power")
	}
	if !p.CanAfford(engine.Resources{Coins: 17}) {
		t.Fatal("two missing coins should be coverable")
	}
}

func TestSpadesBetween(t *testing.T) {
	cases := []struct {
		from, to engine.Terrain
		want     int
	}{
		{engine.TerrainPlain, engine.TerrainPlain, 0},
		{engine.TerrainPlain, engine.TerrainSwamp, 1},
		{engine.TerrainPlain, engine.TerrainDesert, 1},
		{engine.TerrainPlain, engine.TerrainForest, 3},
		{engine.TerrainMountain, engine.TerrainPlain, 3},
		{engine.TerrainLake, engine.TerrainWasteland, 3},
	}
	for _, tc := range cases {
		if got := engine.SpadesBetween(tc.from, tc.to); got != tc.want {
			t.Errorf("%s to %s = %d, want %d", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestBonusPool(t *testing.T) {
	pool := engine.NewBonusPool([]engine.BonusCardKind{engine.BonusPriest, engine.BonusCoin6})
	pool.Accrue()
	pool.Accrue()
	card, err := pool.Take(1)
	if err != nil || card.Kind != engine.BonusCoin6 || card.Coins != 2 {
		t.Fatalf("take: %v %v", card, err)
	}
	if _, err := pool.Take(5); err == nil {
		t.Fatal("took a missing card")
	}
	pool.Accrue()
	if pool.Cards[0].Coins != 3 || card.Coins != 2 {
		t.Fatal("held cards must not accrue")
	}
	pool.Return(card)
	if len(pool.Cards) != 2 {
		t.Fatalf("pool size %d", len(pool.Cards))
	}
}

func TestSelectionIsSeeded(t *testing.T) {
	a := engine.SelectScoringTiles(rand.New(rand.NewPCG(3, 4)), 6)
	b := engine.SelectScoringTiles(rand.New(rand.NewPCG(3, 4)), 6)
	seen := make(map[engine.ScoringTile]bool)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed, different tiles: %v %v", a, b)
		}
		if seen[a[i]] {
			t.Fatalf("duplicate tile %s", a[i])
		}
		seen[a[i]] = true
	}
	cards := engine.SelectBonusCards(rand.New(rand.NewPCG(3, 4)), 4, 3)
	if len(cards) != 7 {
		t.Fatalf("bonus cards = %d, want 7", len(cards))
	}
}

func TestPassVP(t *testing.T) {
	built := map[engine.Structure]int{engine.Dwelling: 3, engine.TradingPost: 2, engine.Stronghold: 1, engine.Sanctuary: 1}
	cases := map[engine.BonusCardKind]int{
		engine.BonusDwellingCoin2:     3,
		engine.BonusTradingPostWorker: 4,
		engine.BonusStrongholdWorker2: 8,
		engine.BonusCoin6:             0,
	}
	for kind, want := range cases {
		if got := kind.PassVP(built); got != want {
			t.Errorf("%s pass VP = %d, want %d", kind, got, want)
		}
	}
}
