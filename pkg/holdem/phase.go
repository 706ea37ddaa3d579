package holdem

import "encoding/json"

// Phase represents the stage of a hand
type Phase int

// phases of a hand, in order. A phase only ever advances within one hand.
const (
	PhaseWaiting Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePreFlop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	case PhaseEnded:
		return "ended"
	}

	return ""
}

// IsBettingRound returns true if players act during the phase
func (p Phase) IsBettingRound() bool {
	return p >= PhasePreFlop && p <= PhaseRiver
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}
