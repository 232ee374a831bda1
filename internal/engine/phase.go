package engine

// GamePhase represents the current phase of the game state machine.
type GamePhase int

const (
	PhaseSetupDwellings GamePhase = iota // players placing their starting dwellings
	PhaseSetupBonus                      // players taking their first bonus card
	PhaseActions                         // players taking turns until everyone passes
	PhaseGameOver                        // game finished
)

var phaseNames = map[GamePhase]string{
	PhaseSetupDwellings: "SetupDwellings",
	PhaseSetupBonus:     "SetupBonus",
	PhaseActions:        "Actions",
	PhaseGameOver:       "GameOver",
}

func (p GamePhase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Unknown"
}
