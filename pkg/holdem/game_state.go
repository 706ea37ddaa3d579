package holdem

import "cardroom-server/pkg/deck"

// State is a point-in-time snapshot of the table
type State struct {
	HandID        string        `json:"handId"`
	Phase         Phase         `json:"phase"`
	Players       []*playerJSON `json:"players"`
	Community     deck.Hand     `json:"community"`
	Pot           int           `json:"pot"`
	CurrentBet    int           `json:"currentBet"`
	MinRaise      int           `json:"minRaise"`
	DealerIndex   int           `json:"dealerIndex"`
	CurrentPlayer int64         `json:"currentPlayer"` // 0 when no one is on the clock
	Winners       []int64       `json:"winners,omitempty"`
	Options       Options       `json:"options"`
}

// StateForPlayer returns a redacted snapshot: hole cards are withheld unless
// they belong to the viewer or were tabled at showdown. A hand won by folds
// reveals nothing. A pure read; no state or randomness is consumed.
func (g *Game) StateForPlayer(playerID int64) *State {
	return g.state(func(p *Player) bool {
		return p.ID == playerID || p.result != nil
	})
}

// FullState returns an unredacted snapshot for server-side and audit use
func (g *Game) FullState() *State {
	return g.state(func(*Player) bool {
		return true
	})
}

func (g *Game) state(reveal func(*Player) bool) *State {
	players := make([]*playerJSON, len(g.players))
	for i, p := range g.players {
		players[i] = p.playerJSON(reveal(p))
	}

	var current int64
	if p := g.CurrentPlayer(); p != nil {
		current = p.ID
	}

	var winners []int64
	for _, w := range g.winners {
		winners = append(winners, w.ID)
	}

	return &State{
		HandID:        g.handID,
		Phase:         g.phase,
		Players:       players,
		Community:     g.community.Clone(),
		Pot:           g.pot,
		CurrentBet:    g.currentBet,
		MinRaise:      g.minRaise,
		DealerIndex:   g.dealerIndex,
		CurrentPlayer: current,
		Winners:       winners,
		Options:       g.options,
	}
}
