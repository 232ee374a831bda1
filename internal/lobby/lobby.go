package lobby

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"tmengine/internal/engine"
	"tmengine/internal/protocol"
)

// PlayerInfo holds lobby-level player information.
type PlayerInfo struct {
	ID      string
	Name    string
	Faction engine.Faction
}

// Lobby seats players at one table before the game starts.
type Lobby struct {
	mu         sync.Mutex
	ID         string
	Players    []*PlayerInfo
	MaxPlayers int
	MinPlayers int
	Started    bool

	factions *engine.FactionRegistry
}

// NewLobby creates a new lobby offering the factions in reg.
func NewLobby(id string, reg *engine.FactionRegistry, config engine.GameConfig) *Lobby {
	return &Lobby{
		ID:         id,
		MaxPlayers: config.MaxPlayers,
		MinPlayers: config.MinPlayers,
		factions:   reg,
	}
}

// NewID returns a random table id.
func NewID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Join seats a player with the named faction. Joining again with the same
// id changes the name and faction.
func (l *Lobby) Join(id, name, faction string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Started {
		return fmt.Errorf("game already started")
	}
	f, err := l.factions.Get(faction)
	if err != nil {
		return err
	}
	var seat *PlayerInfo
	for _, p := range l.Players {
		if p.ID == id {
			seat = p
			continue
		}
		if p.Faction.HomeTerrain() == f.HomeTerrain() {
			return fmt.Errorf("%s already plays on %s", p.Name, f.HomeTerrain())
		}
	}
	if seat != nil {
		seat.Name = name
		seat.Faction = f
		return nil
	}
	if len(l.Players) >= l.MaxPlayers {
		return fmt.Errorf("lobby is full")
	}
	l.Players = append(l.Players, &PlayerInfo{ID: id, Name: name, Faction: f})
	return nil
}

// JoinAll seats a comma separated list of name:faction pairs. Players get
// ids p1, p2 and so on in the order given.
func (l *Lobby) JoinAll(seats string) error {
	for i, seat := range strings.Split(seats, ",") {
		name, faction, ok := strings.Cut(strings.TrimSpace(seat), ":")
		if !ok || name == "" || faction == "" {
			return fmt.Errorf("seat %q: want name:faction", seat)
		}
		if err := l.Join(fmt.Sprintf("p%d", i+1), name, faction); err != nil {
			return fmt.Errorf("seat %q: %w", seat, err)
		}
	}
	return nil
}

// CanStart returns true if enough players are seated.
func (l *Lobby) CanStart() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.Started && len(l.Players) >= l.MinPlayers
}

// Start closes the lobby and hands out the engine players in seat order.
func (l *Lobby) Start() ([]*engine.Player, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Started {
		return nil, fmt.Errorf("already started")
	}
	if len(l.Players) < l.MinPlayers {
		return nil, fmt.Errorf("not enough players")
	}
	l.Started = true
	players := make([]*engine.Player, len(l.Players))
	for i, p := range l.Players {
		players[i] = engine.NewPlayer(p.ID, p.Name, p.Faction)
	}
	return players, nil
}

// GetPlayers returns a copy of the player list.
func (l *Lobby) GetPlayers() []PlayerInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]PlayerInfo, len(l.Players))
	for i, p := range l.Players {
		out[i] = *p
	}
	return out
}

// Seating describes the table for the journal.
func (l *Lobby) Seating(seed uint64) protocol.Seating {
	s := protocol.Seating{GameID: l.ID, Seed: seed}
	for _, p := range l.GetPlayers() {
		s.Players = append(s.Players, protocol.SeatPlayer{ID: p.ID, Name: p.Name, Faction: p.Faction.Name()})
	}
	return s
}
