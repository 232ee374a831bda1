package protocol

import "tmengine/internal/engine"

// Record types stored in the journal.
const (
	MsgSeating = "seating"
	MsgAction  = "action"
	MsgEvents  = "events"
	MsgResults = "results"
)

// Seating lists who sat down at the table, in seat order.
type Seating struct {
	GameID  string       `json:"game_id"`
	Seed    uint64       `json:"seed"`
	Players []SeatPlayer `json:"players"`
}

type SeatPlayer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Faction string `json:"faction"`
}

// ActionMsg is one action a player submitted to the engine.
type ActionMsg struct {
	PlayerID string        `json:"player_id"`
	Action   engine.Action `json:"action"`
}

// EventsMsg is what the engine emitted in reply to an action.
type EventsMsg struct {
	Events []engine.Event `json:"events"`
}

// ResultsMsg is the final scoreboard.
type ResultsMsg struct {
	Scores []engine.ScoreEntry `json:"scores"`
}
