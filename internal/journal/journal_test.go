package journal_test

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"reflect"
	"testing"

	"tmengine/internal/engine"
	"tmengine/internal/engine/factions"
	"tmengine/internal/journal"
	"tmengine/internal/protocol"
)

func openJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(context.Background(), filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

var seating = protocol.Seating{
	GameID: "g1",
	Seed:   11,
	Players: []protocol.SeatPlayer{
		{ID: "h", Name: "Hal", Faction: "Halflings"},
		{ID: "e", Name: "Eng", Faction: "Engineers"},
	},
}

func newGame(t *testing.T, s protocol.Seating) *engine.Game {
	t.Helper()
	reg := factions.NewRegistry()
	var players []*engine.Player
	for _, sp := range s.Players {
		f, err := reg.Get(sp.Faction)
		if err != nil {
			t.Fatal(err)
		}
		players = append(players, engine.NewPlayer(sp.ID, sp.Name, f))
	}
	g, err := engine.NewGame(players, engine.DefaultConfig(), engine.BaseBoard(), rand.New(rand.NewPCG(s.Seed, s.Seed)))
	if err != nil {
		t.Fatal(err)
	}
	g.StartGame()
	return g
}

var setupActions = []protocol.ActionMsg{
	{PlayerID: "h", Action: engine.Action{Type: engine.ActionPlaceDwelling, Position: "E6"}},
	{PlayerID: "e", Action: engine.Action{Type: engine.ActionPlaceDwelling, Position: "E7"}},
	{PlayerID: "e", Action: engine.Action{Type: engine.ActionPlaceDwelling, Position: "A2"}},
	{PlayerID: "h", Action: engine.Action{Type: engine.ActionPlaceDwelling, Position: "A1"}},
	{PlayerID: "e", Action: engine.Action{Type: engine.ActionPickBonus, Index: 2}},
	{PlayerID: "h", Action: engine.Action{Type: engine.ActionPickBonus, Index: 0}},
	{PlayerID: "h", Action: engine.Action{Type: engine.ActionPass, Index: 1}},
}

func TestRecordAndReplay(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	if err := j.StartGame(ctx, seating); err != nil {
		t.Fatal(err)
	}
	if err := j.StartGame(ctx, seating); err == nil {
		t.Fatal("starting g1 twice should fail")
	}

	g := newGame(t, seating)
	for _, a := range setupActions {
		events, err := g.Apply(a.PlayerID, a.Action)
		if err != nil {
			t.Fatalf("%s %s: %v", a.PlayerID, a.Action.Type, err)
		}
		if err := j.RecordAction(ctx, seating.GameID, a.PlayerID, a.Action, events); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := j.Records(ctx, "g1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2*len(setupActions) {
		t.Fatalf("%d records, want %d", len(recs), 2*len(setupActions))
	}
	for i, r := range recs {
		want := protocol.MsgAction
		if i%2 == 1 {
			want = protocol.MsgEvents
		}
		if r.Seq != i+1 || r.Envelope.Type != want {
			t.Fatalf("record %d = #%d %s", i, r.Seq, r.Envelope.Type)
		}
	}
	var evs protocol.EventsMsg
	if err := recs[1].Envelope.Decode(protocol.MsgEvents, &evs); err != nil {
		t.Fatal(err)
	}
	if len(evs.Events) == 0 || evs.Events[0].Type != engine.EventDwellingPlaced {
		t.Fatalf("first events = %+v", evs.Events)
	}

	// The seed and the action list rebuild the same game.
	stored, err := j.Seating(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(stored, seating) {
		t.Fatalf("seating = %+v", stored)
	}
	actions, err := j.Actions(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(actions, setupActions) {
		t.Fatalf("actions = %+v", actions)
	}
	replay := newGame(t, stored)
	for _, a := range actions {
		if _, err := replay.Apply(a.PlayerID, a.Action); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(replay.PublicView(), g.PublicView()) {
		t.Fatal("replayed game differs from the original")
	}
}

func TestResultsAndStandings(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	if err := j.RecordResults(ctx, "nope", nil); err == nil {
		t.Fatal("results for an unknown game should fail")
	}

	games := map[string][]engine.ScoreEntry{
		"g1": {
			{PlayerID: "h", PlayerName: "Hal", Faction: "Halflings", RoundPoints: 40, CultBonus: 16, Total: 56, Rank: 1},
			{PlayerID: "e", PlayerName: "Eng", Faction: "Engineers", RoundPoints: 44, CultBonus: 0, Total: 44, Rank: 2},
		},
		"g2": {
			{PlayerID: "e", PlayerName: "Eng", Faction: "Engineers", RoundPoints: 60, Total: 60, Rank: 1},
			{PlayerID: "h", PlayerName: "Hal", Faction: "Halflings", RoundPoints: 50, Total: 50, Rank: 2},
		},
	}
	for id, scores := range games {
		s := seating
		s.GameID = id
		if err := j.StartGame(ctx, s); err != nil {
			t.Fatal(err)
		}
		if err := j.RecordResults(ctx, id, scores); err != nil {
			t.Fatal(err)
		}
	}

	got, err := j.Results(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, games["g1"]) {
		t.Fatalf("results = %+v", got)
	}

	standings, err := j.Standings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []journal.FactionStanding{
		{Faction: "Engineers", Games: 2, Wins: 1, Best: 60},
		{Faction: "Halflings", Games: 2, Wins: 1, Best: 56},
	}
	if !reflect.DeepEqual(standings, want) {
		t.Fatalf("standings = %+v", standings)
	}
}
