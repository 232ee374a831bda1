// Package cli runs a hotseat game at a terminal. Players type commands in
// turn and the session forwards them to the engine.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tmengine/internal/engine"
	"tmengine/internal/snapshot"
)

// ErrQuit is returned by Execute when the players leave the table.
var ErrQuit = errors.New("quit")

// Recorder receives every accepted action and the final scores.
type Recorder interface {
	RecordAction(ctx context.Context, gameID, playerID string, action engine.Action, events []engine.Event) error
	RecordResults(ctx context.Context, gameID string, scores []engine.ScoreEntry) error
}

// Session drives one game from text commands.
type Session struct {
	GameID string
	Seed   uint64
	Game   *engine.Game

	// Recorder and SnapshotPath are optional.
	Recorder     Recorder
	SnapshotPath string

	out     io.Writer
	printer *message.Printer
	title   cases.Caser
}

func NewSession(gameID string, seed uint64, g *engine.Game, out io.Writer) *Session {
	return &Session{
		GameID:  gameID,
		Seed:    seed,
		Game:    g,
		out:     out,
		printer: message.NewPrinter(language.English),
		title:   cases.Title(language.English),
	}
}

// Run reads commands from in until the game ends, the input runs out or a
// player quits. Rejected commands are reported and play goes on.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for s.Game.Phase != engine.PhaseGameOver {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		err := s.Execute(ctx, scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return nil
}

func (s *Session) prompt() {
	if p := s.Game.ActivePlayer(); p != nil {
		fmt.Fprintf(s.out, "%s (%s)> ", p.Name, p.Faction.Name())
		return
	}
	fmt.Fprint(s.out, "> ")
}

// Execute runs one command line for the player whose turn it is.
func (s *Session) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := lookupCommand(fields[0])
	if !ok {
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
	args := fields[1:]
	if len(args) < cmd.minArgs {
		return fmt.Errorf("usage: %s %s", cmd.name, cmd.args)
	}

	switch cmd.name {
	case "show":
		s.Show()
		return nil
	case "scores":
		s.showScores(s.Game.CalculateScores())
		return nil
	case "save":
		return s.Save()
	case "help":
		s.help()
		return nil
	case "quit":
		return ErrQuit
	}

	action, err := cmd.action(args)
	if err != nil {
		return err
	}
	p := s.Game.ActivePlayer()
	if p == nil {
		return engine.ErrWrongPhase
	}
	events, err := s.Game.Apply(p.ID, action)
	if err != nil {
		return err
	}
	if s.Recorder != nil {
		if err := s.Recorder.RecordAction(ctx, s.GameID, p.ID, action, events); err != nil {
			log.Printf("journal: %v", err)
		}
	}
	s.printEvents(events)
	return s.afterEvents(ctx, events)
}

func (s *Session) afterEvents(ctx context.Context, events []engine.Event) error {
	for _, e := range events {
		switch e.Type {
		case engine.EventRoundStart:
			if s.SnapshotPath != "" {
				if err := s.Save(); err != nil {
					log.Printf("autosave: %v", err)
				}
			}
		case engine.EventGameOver:
			s.showScores(s.Game.Scores)
			if s.Recorder != nil {
				if err := s.Recorder.RecordResults(ctx, s.GameID, s.Game.Scores); err != nil {
					return fmt.Errorf("record results: %w", err)
				}
			}
		}
	}
	return nil
}

// Save writes a snapshot of the game to SnapshotPath.
func (s *Session) Save() error {
	if s.SnapshotPath == "" {
		return fmt.Errorf("no snapshot path configured")
	}
	if err := snapshot.Write(s.SnapshotPath, snapshot.Capture(s.GameID, s.Seed, s.Game)); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "saved %s\n", s.SnapshotPath)
	return nil
}

func (s *Session) help() {
	for _, c := range commands {
		usage := strings.TrimSpace(c.name + " " + c.args)
		fmt.Fprintf(s.out, "  %-22s %s\n", usage, c.help)
	}
}

func (s *Session) printEvents(events []engine.Event) {
	for _, e := range events {
		if e.Type == engine.EventTurn || e.Type == engine.EventGameOver {
			continue
		}
		var b strings.Builder
		if p := s.Game.GetPlayer(e.Player); p != nil {
			b.WriteString(p.Name + ": ")
		}
		b.WriteString(s.title.String(strings.ReplaceAll(string(e.Type), "_", " ")))
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
		}
		fmt.Fprintln(s.out, b.String())
	}
}

// Show prints the table as the active player sees it.
func (s *Session) Show() {
	g := s.Game
	var view engine.PlayerViewData
	if p := g.ActivePlayer(); p != nil {
		view = g.ViewFor(p.ID)
	} else {
		view.PublicViewData = g.PublicView()
	}

	s.printer.Fprintf(s.out, "Round %d of %d, %s", view.Round, g.Config.Rounds, view.Phase)
	if view.Tile != "" {
		s.printer.Fprintf(s.out, ", tile %s", view.Tile)
	}
	fmt.Fprintln(s.out)
	for _, p := range view.Players {
		mark := " "
		if p.Name == view.CurrentTurn {
			mark = "*"
		}
		s.printer.Fprintf(s.out, "%s %-10s %-10s %3d VP  %s  power %s  income %s",
			mark, p.Name, p.Faction, p.VictoryPoints, p.Resources, p.Power, p.Income)
		if p.BonusCard != "" {
			fmt.Fprintf(s.out, "  [%s]", p.BonusCard)
		}
		if p.Passed {
			fmt.Fprint(s.out, "  passed")
		}
		fmt.Fprintln(s.out)
	}
	for _, t := range engine.AllCultTracks() {
		track := view.Cult[t.String()]
		names := make([]string, 0, len(track))
		for name := range track {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s %d", name, track[name])
		}
		fmt.Fprintf(s.out, "  %-6s %s\n", t, strings.Join(parts, ", "))
	}
	for i, c := range view.BonusCards {
		fmt.Fprintf(s.out, "  card %d: %s\n", i+1, c)
	}
	if len(view.Buildable) > 0 {
		fmt.Fprintf(s.out, "  build: %s\n", strings.Join(view.Buildable, " "))
	}
	if len(view.Upgrades) > 0 {
		fmt.Fprintf(s.out, "  upgrade: %s\n", strings.Join(view.Upgrades, ", "))
	}
	if len(view.Towns) > 0 {
		fmt.Fprintf(s.out, "  town: %s\n", strings.Join(view.Towns, " "))
	}
}

func (s *Session) showScores(scores []engine.ScoreEntry) {
	for _, e := range scores {
		s.printer.Fprintf(s.out, "%d. %-10s %-10s %4d VP (%d + %d cult)\n",
			e.Rank, e.PlayerName, e.Faction, e.Total, e.RoundPoints, e.CultBonus)
	}
}
