package holdem

import (
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/poker"
)

// Player represents an individual player seated at a table.
// Seating order is fixed for the lifetime of the game.
type Player struct {
	ID       int64
	Username string

	chips      int
	currentBet int
	holeCards  deck.Hand
	folded     bool
	allIn      bool

	// hasActed is true once the player acted since the last bet-size change.
	// A raise resets it for everyone else, reopening the action.
	hasActed bool

	result *poker.HandResult
}

// Chips returns the player's stack
func (p *Player) Chips() int {
	return p.chips
}

// HoleCards returns the player's hole cards
func (p *Player) HoleCards() deck.Hand {
	return p.holeCards.Clone()
}

// Folded returns true if the player folded this hand
func (p *Player) Folded() bool {
	return p.folded
}

// IsAllIn returns true if the player has committed their entire stack
func (p *Player) IsAllIn() bool {
	return p.allIn
}

// Result returns the player's evaluated hand after a showdown
func (p *Player) Result() *poker.HandResult {
	return p.result
}

// canAct returns true if the player can still make betting decisions
func (p *Player) canAct() bool {
	return !p.folded && !p.allIn
}

// newHand resets the per-hand fields
func (p *Player) newHand() {
	p.currentBet = 0
	p.holeCards = make(deck.Hand, 0, 2)
	p.folded = false
	p.allIn = false
	p.hasActed = false
	p.result = nil
}

// commit moves up to amount from the player's stack into their current bet.
// The stack going to zero forces all-in. Returns the amount actually moved.
func (p *Player) commit(amount int) int {
	if amount > p.chips {
		amount = p.chips
	}

	p.chips -= amount
	p.currentBet += amount

	if p.chips == 0 {
		p.allIn = true
	}

	return amount
}

type playerJSON struct {
	ID         int64             `json:"id"`
	Username   string            `json:"username"`
	Chips      int               `json:"chips"`
	CurrentBet int               `json:"currentBet"`
	Cards      deck.Hand         `json:"cards,omitempty"`
	Folded     bool              `json:"folded"`
	AllIn      bool              `json:"allIn"`
	HasActed   bool              `json:"hasActed"`
	Result     *poker.HandResult `json:"result,omitempty"`
}

func (p *Player) playerJSON(reveal bool) *playerJSON {
	var cards deck.Hand
	var result *poker.HandResult
	if reveal {
		cards = p.holeCards.Clone()
		result = p.result
	}

	return &playerJSON{
		ID:         p.ID,
		Username:   p.Username,
		Chips:      p.chips,
		CurrentBet: p.currentBet,
		Cards:      cards,
		Folded:     p.folded,
		AllIn:      p.allIn,
		HasActed:   p.hasActed,
		Result:     result,
	}
}
