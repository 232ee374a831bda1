package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"tmengine/internal/cli"
	"tmengine/internal/config"
	"tmengine/internal/engine"
	"tmengine/internal/engine/factions"
	"tmengine/internal/journal"
	"tmengine/internal/lobby"
	"tmengine/internal/snapshot"
)

func main() {
	seats := flag.String("players", "Alice:halflings,Bob:engineers", "comma separated name:faction seats")
	resume := flag.Bool("resume", false, "continue the game saved at TM_SNAPSHOT_PATH")
	standings := flag.Bool("standings", false, "print faction standings from the journal and exit")
	flag.Parse()

	if err := run(*seats, *resume, *standings); err != nil {
		log.Fatal(err)
	}
}

func run(seats string, resume, standings bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	reg := factions.NewRegistry()
	if cfg.FactionsPath != "" {
		tables, err := factions.Load(cfg.FactionsPath)
		if err != nil {
			return fmt.Errorf("factions: %w", err)
		}
		reg = factions.Registry(tables)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	j, err := journal.Open(ctx, cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer j.Close()

	if standings {
		rows, err := j.Standings(ctx)
		if err != nil {
			return fmt.Errorf("standings: %w", err)
		}
		for _, r := range rows {
			fmt.Printf("%-12s games %d  wins %d  best %d\n", r.Faction, r.Games, r.Wins, r.Best)
		}
		return nil
	}

	var session *cli.Session
	if resume {
		snap, err := snapshot.Read(cfg.SnapshotPath, reg)
		if err != nil {
			return fmt.Errorf("resume: %w", err)
		}
		log.Printf("resuming %s at round %d", snap.Header.GameID, snap.Header.Round)
		session = cli.NewSession(snap.Header.GameID, snap.Header.Seed, snap.Game, os.Stdout)
	} else {
		session, err = newGame(ctx, cfg, reg, j, seats)
		if err != nil {
			return fmt.Errorf("new game: %w", err)
		}
	}
	session.Recorder = j
	session.SnapshotPath = cfg.SnapshotPath
	session.Show()

	if err := session.Run(ctx, os.Stdin); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

func newGame(ctx context.Context, cfg config.Config, reg *engine.FactionRegistry, j *journal.Journal, seats string) (*cli.Session, error) {
	gc := cfg.GameConfig()
	l := lobby.NewLobby(lobby.NewID(), reg, gc)
	if err := l.JoinAll(seats); err != nil {
		return nil, err
	}
	players, err := l.Start()
	if err != nil {
		return nil, err
	}
	g, err := engine.NewGame(players, gc, engine.BaseBoard(), cfg.Rand())
	if err != nil {
		return nil, err
	}
	if err := j.StartGame(ctx, l.Seating(cfg.Seed)); err != nil {
		return nil, err
	}
	log.Printf("game %s seed %d", l.ID, cfg.Seed)

	s := cli.NewSession(l.ID, cfg.Seed, g, os.Stdout)
	for _, e := range g.StartGame() {
		if e.Type == engine.EventTurn {
			continue
		}
		log.Printf("%s %v", e.Type, e.Data)
	}
	return s, nil
}
