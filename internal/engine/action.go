package engine

// ActionType identifies player actions sent to Game.Apply.
type ActionType string

const (
	ActionPlaceDwelling ActionType = "place_dwelling" // setup: free dwelling on a home hex
	ActionPickBonus     ActionType = "pick_bonus"     // setup: take a bonus card
	ActionBuild         ActionType = "build"          // dwelling next to one of your structures
	ActionUpgrade       ActionType = "upgrade"        // replace a structure one step up the lattice
	ActionSendPriest    ActionType = "send_priest"    // priest to a cult track
	ActionBurnPower     ActionType = "burn_power"     // free action: power to coins, 1:1
	ActionFoundTown     ActionType = "found_town"     // free action: claim a town key
	ActionPass          ActionType = "pass"           // end your round, swap bonus cards
)

// Action is a player's action input.
type Action struct {
	Type ActionType `json:"type"`
	// Params depend on Type:
	// place_dwelling, build, found_town: Position
	// upgrade: Position, Structure
	// send_priest: Track
	// burn_power: Amount
	// pick_bonus, pass: Index into the bonus pool
	// found_town: TownKey
	Position  string    `json:"position,omitempty"`
	Structure Structure `json:"structure,omitempty"`
	Track     CultTrack `json:"track,omitempty"`
	Amount    int       `json:"amount,omitempty"`
	Index     int       `json:"index,omitempty"`
	TownKey   TownKey   `json:"town_key,omitempty"`
}

// EventType identifies events emitted by the engine.
type EventType string

const (
	EventDwellingPlaced EventType = "dwelling_placed"
	EventBonusTaken     EventType = "bonus_taken"
	EventRoundStart     EventType = "round_start"
	EventIncome         EventType = "income"
	EventTurn           EventType = "turn"
	EventBuilt          EventType = "built"
	EventUpgraded       EventType = "upgraded"
	EventPriestSent     EventType = "priest_sent"
	EventPowerBurned    EventType = "power_burned"
	EventTownFounded    EventType = "town_founded"
	EventPassed         EventType = "passed"
	EventCultReward     EventType = "cult_reward"
	EventRoundEnd       EventType = "round_end"
	EventGameOver       EventType = "game_over"
	EventPhaseChange    EventType = "phase_change"
)

// Event is emitted by the engine after state changes.
type Event struct {
	Type   EventType              `json:"type"`
	Player string                 `json:"player,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}
