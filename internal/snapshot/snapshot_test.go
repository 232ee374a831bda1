package snapshot_test

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zstd"

	"tmengine/internal/engine"
	"tmengine/internal/engine/factions"
	"tmengine/internal/snapshot"
)

func startedGame(t *testing.T, reg *engine.FactionRegistry) *engine.Game {
	t.Helper()
	hal, _ := reg.Get("halflings")
	eng, _ := reg.Get("engineers")
	players := []*engine.Player{
		engine.NewPlayer("h", "Hal", hal),
		engine.NewPlayer("e", "Eng", eng),
	}
	g, err := engine.NewGame(players, engine.DefaultConfig(), engine.BaseBoard(), rand.New(rand.NewPCG(3, 3)))
	if err != nil {
		t.Fatal(err)
	}
	g.StartGame()
	steps := []struct {
		player string
		action engine.Action
	}{
		{"h", engine.Action{Type: engine.ActionPlaceDwelling, Position: "E6"}},
		{"e", engine.Action{Type: engine.ActionPlaceDwelling, Position: "E7"}},
		{"e", engine.Action{Type: engine.ActionPlaceDwelling, Position: "A2"}},
		{"h", engine.Action{Type: engine.ActionPlaceDwelling, Position: "A1"}},
		{"e", engine.Action{Type: engine.ActionPickBonus, Index: 0}},
		{"h", engine.Action{Type: engine.ActionPickBonus, Index: 0}},
	}
	for _, s := range steps {
		if _, err := g.Apply(s.player, s.action); err != nil {
			t.Fatalf("%s %s: %v", s.player, s.action.Type, err)
		}
	}
	return g
}

func TestWriteReadResumesGame(t *testing.T) {
	reg := factions.NewRegistry()
	g := startedGame(t, reg)
	path := filepath.Join(t.TempDir(), "saves", "game.snap.zst")

	if err := snapshot.Write(path, snapshot.Capture("table", 3, g)); err != nil {
		t.Fatal(err)
	}
	snap, err := snapshot.Read(path, reg)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Header.GameID != "table" || snap.Header.Seed != 3 || snap.Header.Round != 1 || snap.Header.Phase != "Actions" {
		t.Fatalf("header = %+v", snap.Header)
	}
	if len(snap.Header.Digest) != 64 {
		t.Fatalf("digest %q", snap.Header.Digest)
	}

	restored := snap.Game
	if !reflect.DeepEqual(g.PublicView(), restored.PublicView()) {
		t.Fatalf("public view changed across a save:\n%+v\n%+v", g.PublicView(), restored.PublicView())
	}

	// Both copies must keep playing identically.
	pass := engine.Action{Type: engine.ActionPass, Index: 0}
	want, err := g.Apply("h", pass)
	if err != nil {
		t.Fatal(err)
	}
	got, err := restored.Apply("h", pass)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("events differ after resume:\n%v\n%v", want, got)
	}
	if !reflect.DeepEqual(g.ViewFor("e"), restored.ViewFor("e")) {
		t.Fatal("views differ after resume")
	}
}

func TestDecodeNeedsKnownFactions(t *testing.T) {
	reg := factions.NewRegistry()
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, snapshot.Capture("t", 1, startedGame(t, reg))); err != nil {
		t.Fatal(err)
	}
	if _, err := snapshot.Decode(&buf, engine.NewFactionRegistry()); err == nil {
		t.Fatal("decoding without the factions should fail")
	}
}

func TestDecodeRejectsTamperedBody(t *testing.T) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(`{"version":1,"game_id":"t","digest":"00"}` + "\n" + `{"round":1}`))
	w.Close()

	_, err = snapshot.Decode(&buf, factions.NewRegistry())
	if !errors.Is(err, snapshot.ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}

func TestDecodeRejectsOtherVersions(t *testing.T) {
	var buf bytes.Buffer
	w, _ := zstd.NewWriter(&buf)
	w.Write([]byte(`{"version":99}` + "\n{}"))
	w.Close()

	if _, err := snapshot.Decode(&buf, factions.NewRegistry()); err == nil || errors.Is(err, snapshot.ErrCorrupt) {
		t.Fatalf("err = %v, want a version error", err)
	}
}
