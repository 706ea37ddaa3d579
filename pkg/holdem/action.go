package holdem

import (
	"encoding/json"
	"fmt"
)

// Action represents an action a player can take
type Action string

// action constants
const (
	Fold  Action = "fold"
	Check Action = "check"
	Call  Action = "call"
	Raise Action = "raise"
	AllIn Action = "all-in"
)

var allowedActions = map[Action]bool{
	Fold:  true,
	Check: true,
	Call:  true,
	Raise: true,
	AllIn: true,
}

// ActionFromString returns an action for the given string
func ActionFromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case Fold:
		return "Fold"
	case Check:
		return "Check"
	case Call:
		return "Call"
	case Raise:
		return "Raise"
	case AllIn:
		return "All-in"
	}

	panic("unknown action")
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// LogMessage returns a message formatted for the game log
func (a Action) LogMessage(amount int) string {
	switch a {
	case Fold:
		return "folded"
	case Check:
		return "checked"
	case Call:
		return fmt.Sprintf("called ${%d}", amount)
	case Raise:
		return fmt.Sprintf("raised to ${%d}", amount)
	case AllIn:
		return fmt.Sprintf("went all-in for ${%d}", amount)
	}

	return ""
}

// PlayerAction is the tagged payload for one of the five action kinds.
// Amount is only meaningful for a raise, where it is the total bet the
// player raises to.
type PlayerAction struct {
	Action Action `json:"action"`
	Amount int    `json:"amount"`
}

// PlayerActionFromJSON decodes and validates a raw action payload.
// Malformed payloads are rejected before they ever reach the engine.
func PlayerActionFromJSON(b []byte) (PlayerAction, error) {
	var pa PlayerAction
	if err := json.Unmarshal(b, &pa); err != nil {
		return PlayerAction{}, fmt.Errorf("could not decode action payload: %w", err)
	}

	if !pa.Action.IsValid() {
		return PlayerAction{}, fmt.Errorf("unknown action for identifier: %s", pa.Action)
	}

	if pa.Amount < 0 {
		return PlayerAction{}, fmt.Errorf("amount cannot be negative")
	}

	if pa.Action != Raise && pa.Amount != 0 {
		return PlayerAction{}, fmt.Errorf("%s does not take an amount", pa.Action)
	}

	return pa, nil
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}
