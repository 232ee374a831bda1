// Package journal records every game played in a SQLite database: the
// seating, each action with the events it produced, and the final scores.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tmengine/internal/engine"
	"tmengine/internal/protocol"
)

// Journal is an open game database. It is safe for use by one session at a
// time.
type Journal struct {
	db *sql.DB
}

// Record is one journal row, with its payload still wrapped.
type Record struct {
	Seq      int
	PlayerID string
	Envelope protocol.Envelope
}

func Open(ctx context.Context, path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("empty journal path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			seating_json TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS records (
			game_id TEXT NOT NULL REFERENCES games(game_id),
			seq INTEGER NOT NULL,
			player_id TEXT NOT NULL,
			type TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			PRIMARY KEY (game_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			game_id TEXT NOT NULL REFERENCES games(game_id),
			player_id TEXT NOT NULL,
			player_name TEXT NOT NULL,
			faction TEXT NOT NULL,
			round_points INTEGER NOT NULL,
			cult_bonus INTEGER NOT NULL,
			total INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			PRIMARY KEY (game_id, player_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_faction ON results(faction, total);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// StartGame registers a new table. Starting a game id twice is an error.
func (j *Journal) StartGame(ctx context.Context, seating protocol.Seating) error {
	raw, err := json.Marshal(seating)
	if err != nil {
		return err
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO games(game_id, seed, seating_json, started_at) VALUES (?, ?, ?, ?)`,
		seating.GameID, int64(seating.Seed), string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("journal: start %s: %w", seating.GameID, err)
	}
	return nil
}

// Seating returns the table registered under gameID.
func (j *Journal) Seating(ctx context.Context, gameID string) (protocol.Seating, error) {
	var s protocol.Seating
	var raw string
	err := j.db.QueryRowContext(ctx, `SELECT seating_json FROM games WHERE game_id = ?`, gameID).Scan(&raw)
	if err != nil {
		return s, fmt.Errorf("journal: seating %s: %w", gameID, err)
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return s, fmt.Errorf("journal: seating %s: %w", gameID, err)
	}
	return s, nil
}

// RecordAction stores an accepted action and the events it produced.
func (j *Journal) RecordAction(ctx context.Context, gameID, playerID string, action engine.Action, events []engine.Event) error {
	act, err := protocol.NewEnvelope(protocol.MsgAction, protocol.ActionMsg{PlayerID: playerID, Action: action})
	if err != nil {
		return err
	}
	evs, err := protocol.NewEnvelope(protocol.MsgEvents, protocol.EventsMsg{Events: events})
	if err != nil {
		return err
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seq int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM records WHERE game_id = ?`, gameID).Scan(&seq); err != nil {
		return err
	}
	for _, env := range []protocol.Envelope{act, evs} {
		seq++
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records(game_id, seq, player_id, type, payload_json) VALUES (?, ?, ?, ?, ?)`,
			gameID, seq, playerID, env.Type, string(env.Payload)); err != nil {
			return fmt.Errorf("journal: record %s #%d: %w", gameID, seq, err)
		}
	}
	return tx.Commit()
}

// Records returns the records of gameID in the order they were written.
// Pass a record type to filter, or "" for all of them.
func (j *Journal) Records(ctx context.Context, gameID, typ string) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT seq, player_id, type, payload_json FROM records
		 WHERE game_id = ? AND (? = '' OR type = ?) ORDER BY seq`,
		gameID, typ, typ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var payload string
		if err := rows.Scan(&r.Seq, &r.PlayerID, &r.Envelope.Type, &payload); err != nil {
			return nil, err
		}
		r.Envelope.Payload = json.RawMessage(payload)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Actions decodes the actions of gameID in play order.
func (j *Journal) Actions(ctx context.Context, gameID string) ([]protocol.ActionMsg, error) {
	recs, err := j.Records(ctx, gameID, protocol.MsgAction)
	if err != nil {
		return nil, err
	}
	out := make([]protocol.ActionMsg, len(recs))
	for i, r := range recs {
		if err := r.Envelope.Decode(protocol.MsgAction, &out[i]); err != nil {
			return nil, fmt.Errorf("journal: record #%d: %w", r.Seq, err)
		}
	}
	return out, nil
}

// RecordResults stores the final scoreboard and marks the game finished.
func (j *Journal) RecordResults(ctx context.Context, gameID string, scores []engine.ScoreEntry) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range scores {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO results(game_id, player_id, player_name, faction, round_points, cult_bonus, total, rank)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			gameID, s.PlayerID, s.PlayerName, s.Faction, s.RoundPoints, s.CultBonus, s.Total, s.Rank); err != nil {
			return fmt.Errorf("journal: results %s: %w", gameID, err)
		}
	}
	res, err := tx.ExecContext(ctx, `UPDATE games SET finished_at = ? WHERE game_id = ?`,
		time.Now().UTC().Format(time.RFC3339), gameID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("journal: unknown game %s", gameID)
	}
	return tx.Commit()
}

// Results returns the scoreboard of a finished game, best first.
func (j *Journal) Results(ctx context.Context, gameID string) ([]engine.ScoreEntry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT player_id, player_name, faction, round_points, cult_bonus, total, rank
		 FROM results WHERE game_id = ? ORDER BY rank, player_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.ScoreEntry
	for rows.Next() {
		var s engine.ScoreEntry
		if err := rows.Scan(&s.PlayerID, &s.PlayerName, &s.Faction, &s.RoundPoints, &s.CultBonus, &s.Total, &s.Rank); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FactionStanding is a faction's record across all finished games.
type FactionStanding struct {
	Faction string
	Games   int
	Wins    int
	Best    int
}

// Standings summarizes every faction that has finished a game.
func (j *Journal) Standings(ctx context.Context) ([]FactionStanding, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT faction, COUNT(*), SUM(CASE WHEN rank = 1 THEN 1 ELSE 0 END), MAX(total)
		 FROM results GROUP BY faction ORDER BY faction`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FactionStanding
	for rows.Next() {
		var s FactionStanding
		if err := rows.Scan(&s.Faction, &s.Games, &s.Wins, &s.Best); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
