package engine_test

import (
	"testing"

	"tmengine/internal/engine"
)

func TestNewPlayer(t *testing.T) {
	p := halfling(t)
	if p.VictoryPoints != 20 || p.PriestsInPlay != engine.MaxPriests {
		t.Errorf("vp %d priests in play %d", p.VictoryPoints, p.PriestsInPlay)
	}
	if p.Resources != (engine.Resources{Coins: 15, Workers: 3}) || p.Power != (engine.PowerBowls{I: 3, II: 9}) {
		t.Errorf("start %s %s", p.Resources, p.Power)
	}
	for s, n := range engine.TotalStructures {
		if p.Remaining[s] != n || p.Built[s] != 0 {
			t.Errorf("%s: remaining %d built %d", s, p.Remaining[s], p.Built[s])
		}
	}
}

func TestBurnToBuild(t *testing.T) {
	p := halfling(t)
	p.Build(engine.TradingPost, false, false)
	if want := (engine.Resources{Coins: 9, Workers: 1}); p.Resources != want {
		t.Fatalf("after first trading post: %s, want %s", p.Resources, want)
	}
	// One worker short: three power is burned out of bowl II.
	p.Build(engine.TradingPost, true, false)
	if want := (engine.Resources{Coins: 6}); p.Resources != want {
		t.Fatalf("after second trading post: %s, want %s", p.Resources, want)
	}
	if want := (engine.PowerBowls{I: 6, II: 3}); p.Power != want {
		t.Fatalf("power %s, want %s", p.Power, want)
	}
}

func TestBuildFailsWhenUnaffordable(t *testing.T) {
	p := halfling(t)
	p.Resources.Workers = 2
	if p.CanBuild(engine.Stronghold, false) {
		t.Fatal("stronghold should be unaffordable")
	}
	expectPanic(t, engine.ErrInvalidAction, func() { p.Build(engine.Stronghold, false, false) })

	p.Build(engine.Stronghold, false, true)
	p.Resources = engine.Resources{Coins: 100, Workers: 100}
	if p.CanBuild(engine.Stronghold, false) {
		t.Fatal("no stronghold left, CanBuild must be false")
	}
	expectPanic(t, engine.ErrInvalidAction, func() { p.Build(engine.Stronghold, false, false) })
}

func TestFreeBuildOnlyMovesInventory(t *testing.T) {
	p := engineer(t)
	res, power := p.Resources, p.Power
	for _, s := range engine.AllStructures() {
		p.Build(s, false, true)
	}
	if p.Resources != res || p.Power != power {
		t.Fatalf("free builds changed %s %s", p.Resources, p.Power)
	}
	for _, s := range engine.AllStructures() {
		if p.Built[s] != 1 || p.Remaining[s] != engine.TotalStructures[s]-1 {
			t.Errorf("%s built %d remaining %d", s, p.Built[s], p.Remaining[s])
		}
	}
}

func TestCanBuildNeedsInventory(t *testing.T) {
	p := engineer(t)
	p.Resources = engine.Resources{Coins: 1000, Workers: 1000, Priests: 100}
	for range engine.TotalStructures[engine.Dwelling] {
		p.Build(engine.Dwelling, false, false)
	}
	if p.CanBuild(engine.Dwelling, false) {
		t.Fatal("CanBuild with no dwellings left")
	}
	if !p.CanBuild(engine.TradingPost, true) {
		t.Fatal("trading posts are still in supply")
	}
}

func TestCollectIncome(t *testing.T) {
	p := halfling(t)
	p.BonusCard = &engine.BonusCard{Kind: engine.BonusTradingPostWorker}
	p.CollectIncome()
	if want := (engine.Resources{Coins: 15, Workers: 5}); p.Resources != want || p.Power != (engine.PowerBowls{I: 3, II: 9}) {
		t.Fatalf("bare income: %s %s", p.Resources, p.Power)
	}

	for _, s := range []engine.Structure{engine.Dwelling, engine.TradingPost, engine.Stronghold, engine.Temple, engine.Sanctuary} {
		p.Build(s, false, true)
	}
	p.CollectIncome()
	if want := (engine.Resources{Coins: 17, Workers: 8, Priests: 2}); p.Resources != want {
		t.Fatalf("income: %s, want %s", p.Resources, want)
	}
	if want := (engine.PowerBowls{II: 12}); p.Power != want {
		t.Fatalf("power %s, want %s", p.Power, want)
	}
}

func TestTownKeys(t *testing.T) {
	p := halfling(t)
	if p.UseTownKey() {
		t.Fatal("used a key that was never gained")
	}
	p.GainTown(engine.TownKeyPriest)
	p.GainTown(engine.TownKeyPriest)
	if p.AvailableTownKeys() != 2 {
		t.Fatalf("keys = %d", p.AvailableTownKeys())
	}
	if !p.UseTownKey() || !p.UseTownKey() || p.UseTownKey() {
		t.Fatal("each key should be usable exactly once")
	}
}

func TestSacrificePriestClamps(t *testing.T) {
	p := halfling(t)
	for range engine.MaxPriests + 2 {
		p.SacrificePriestToOrder()
	}
	if p.PriestsInPlay != 0 {
		t.Fatalf("priests in play = %d", p.PriestsInPlay)
	}
}
