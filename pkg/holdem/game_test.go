package holdem

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/poker"
	"cardroom-server/pkg/snapshot"
)

func newTestGame(t *testing.T, chips ...int) *Game {
	t.Helper()

	seats := make([]Seat, len(chips))
	for i, c := range chips {
		seats[i] = Seat{
			ID:       int64(i + 1),
			Username: fmt.Sprintf("player%d", i+1),
			Chips:    c,
		}
	}

	game, err := NewGame(logrus.StandardLogger(), seats, DefaultOptions())
	assert.NoError(t, err)
	assert.NotNil(t, game)
	return game
}

// chipsInPlay sums every stack, pending bet, and the pot. It must never change
// over the lifetime of a hand.
func chipsInPlay(g *Game) int {
	total := g.pot
	for _, p := range g.players {
		total += p.chips + p.currentBet
	}

	return total
}

func TestNewGame(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	a.Equal(3, len(game.players))
	a.Equal(PhaseWaiting, game.Phase())

	// a zero-chip seat receives the configured starting stack
	a.Equal(5000, game.players[0].Chips())

	game = newTestGame(t, 100, 200)
	a.Equal(100, game.players[0].Chips())
	a.Equal(200, game.players[1].Chips())

	_, err := NewGame(logrus.StandardLogger(), []Seat{{ID: 1}}, DefaultOptions())
	a.EqualError(err, "a table requires between 2 and 6 players, got 1")

	seats := make([]Seat, 7)
	for i := range seats {
		seats[i] = Seat{ID: int64(i + 1)}
	}
	_, err = NewGame(logrus.StandardLogger(), seats, DefaultOptions())
	a.EqualError(err, "a table requires between 2 and 6 players, got 7")

	_, err = NewGame(logrus.StandardLogger(), []Seat{{ID: 1}, {ID: 2}}, Options{SmallBlind: 0, BigBlind: 50, StartingChips: 5000})
	a.EqualError(err, "small blind must be greater than zero")

	_, err = NewGame(logrus.StandardLogger(), []Seat{{ID: 1}, {ID: 2}}, Options{SmallBlind: 50, BigBlind: 25, StartingChips: 5000})
	a.EqualError(err, "big blind must be at least the small blind")

	_, err = NewGame(logrus.StandardLogger(), []Seat{{ID: 1}, {ID: 2}}, Options{SmallBlind: 25, BigBlind: 50, StartingChips: 25})
	a.EqualError(err, "starting chips must cover the big blind")
}

func TestGame_StartHand(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	game.StartHand()

	a.Equal(PhasePreFlop, game.Phase())
	a.Equal(0, game.dealerIndex)
	a.NotEmpty(game.HandID())
	a.NotEqual(deck.New().HashCode(), game.deck.HashCode())

	for _, p := range game.players {
		a.Equal(2, len(p.HoleCards()))
	}
	a.Equal(46, game.deck.CardsLeft())

	// blinds are posted left of the button
	a.Equal(25, game.players[1].currentBet)
	a.Equal(4975, game.players[1].Chips())
	a.Equal(50, game.players[2].currentBet)
	a.Equal(4950, game.players[2].Chips())

	a.Equal(50, game.currentBet)
	a.Equal(50, game.minRaise)

	// under the gun acts first preflop
	a.Equal(int64(1), game.CurrentPlayer().ID)

	a.Equal(15000, chipsInPlay(game))
	a.Nil(game.HandDeltas())
}

func TestGame_StartHand_TooFewPlayers(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0)
	game.players[1].chips = 0
	game.StartHand()

	a.Equal(PhaseEnded, game.Phase())
	a.Equal(1, len(game.players))
	a.False(game.CanContinue())
	a.Nil(game.CurrentPlayer())
}

func TestGame_Act_Validation(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	a.Equal(ErrNoHandInProgress, game.Act(1, PlayerAction{Action: Check}))

	game.StartHand()

	a.Equal(ErrNotYourTurn, game.Act(2, PlayerAction{Action: Fold}))
	a.EqualError(game.Act(1, PlayerAction{Action: "jump"}), "unknown action: jump")
	a.EqualError(game.Act(1, PlayerAction{Action: Check}), "you cannot check with ${50} to call")
	a.EqualError(game.Act(1, PlayerAction{Action: Raise, Amount: 75}), "raise must be to at least ${100}")
	a.EqualError(game.Act(1, PlayerAction{Action: Raise, Amount: 6000}), "you cannot afford a raise to ${6000}")

	// a refused action leaves the game untouched
	a.Equal(int64(1), game.CurrentPlayer().ID)
	a.Equal(5000, game.players[0].Chips())
	a.Equal(15000, chipsInPlay(game))
}

func TestGame_FoldsEndHand(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	game.StartHand()

	a.NoError(game.Act(1, PlayerAction{Action: Fold}))
	a.Equal(int64(2), game.CurrentPlayer().ID)
	a.NoError(game.Act(2, PlayerAction{Action: Fold}))

	// the blinds go to the last player standing without a showdown
	a.Equal(PhaseEnded, game.Phase())
	a.Equal(0, game.Pot())
	a.Equal(5000, game.players[0].Chips())
	a.Equal(4975, game.players[1].Chips())
	a.Equal(5025, game.players[2].Chips())
	a.Equal(1, len(game.winners))
	a.Equal(int64(3), game.winners[0].ID)
	a.Nil(game.players[2].Result())

	a.Equal(map[int64]int{1: 0, 2: -25, 3: 25}, game.HandDeltas())

	// a hand won by folds reveals no hole cards
	state := game.StateForPlayer(1)
	a.Nil(state.Players[2].Cards)

	a.Equal(15000, chipsInPlay(game))
}

func TestGame_CheckedDownToShowdown(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	game.StartHand()

	act := func(t *testing.T, id int64, action Action, amount int) {
		t.Helper()
		assert.NoError(t, game.Act(id, PlayerAction{Action: action, Amount: amount}))
	}

	act(t, 1, Call, 0)
	act(t, 2, Call, 0)
	act(t, 3, Check, 0)

	a.Equal(PhaseFlop, game.Phase())
	a.Equal(150, game.Pot())
	a.Equal(3, len(game.Community()))
	a.Equal(0, game.currentBet)

	// postflop the action starts left of the button
	a.Equal(int64(2), game.CurrentPlayer().ID)

	act(t, 2, Check, 0)
	act(t, 3, Check, 0)
	act(t, 1, Check, 0)
	a.Equal(PhaseTurn, game.Phase())
	a.Equal(4, len(game.Community()))

	act(t, 2, Check, 0)
	act(t, 3, Check, 0)
	act(t, 1, Check, 0)
	a.Equal(PhaseRiver, game.Phase())
	a.Equal(5, len(game.Community()))

	// rig the board so everyone plays it and the pot splits three ways
	game.community = deck.Hand(deck.CardsFromString("14s,13s,12s,11s,10s"))
	game.players[0].holeCards = deck.Hand(deck.CardsFromString("2c,3d"))
	game.players[1].holeCards = deck.Hand(deck.CardsFromString("2h,3s"))
	game.players[2].holeCards = deck.Hand(deck.CardsFromString("2d,3h"))

	act(t, 2, Check, 0)
	act(t, 3, Check, 0)
	act(t, 1, Check, 0)

	a.Equal(PhaseEnded, game.Phase())
	a.Equal(0, game.Pot())
	a.Equal(3, len(game.winners))

	for _, p := range game.players {
		a.Equal(5000, p.Chips())
		a.Equal(poker.RoyalFlush, p.Result().Category)
	}

	a.Equal(map[int64]int{1: 0, 2: 0, 3: 0}, game.HandDeltas())

	// showdown hands are tabled for everyone
	state := game.StateForPlayer(1)
	a.Equal(2, len(state.Players[1].Cards))
	a.Equal(2, len(state.Players[2].Cards))

	a.Equal(15000, chipsInPlay(game))
}

func TestGame_RaiseReopensAction(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	game.StartHand()

	a.NoError(game.Act(1, PlayerAction{Action: Raise, Amount: 150}))
	a.Equal(150, game.currentBet)
	a.Equal(100, game.minRaise)
	a.Equal(4850, game.players[0].Chips())
	a.False(game.players[1].hasActed)
	a.False(game.players[2].hasActed)

	a.NoError(game.Act(2, PlayerAction{Action: Call, Amount: 0}))
	a.Equal(4850, game.players[1].Chips())

	// the re-raise puts the first two players back on the clock
	a.NoError(game.Act(3, PlayerAction{Action: Raise, Amount: 250}))
	a.Equal(250, game.currentBet)
	a.Equal(100, game.minRaise)
	a.False(game.players[0].hasActed)
	a.False(game.players[1].hasActed)
	a.Equal(PhasePreFlop, game.Phase())

	a.NoError(game.Act(1, PlayerAction{Action: Call, Amount: 0}))
	a.NoError(game.Act(2, PlayerAction{Action: Call, Amount: 0}))

	a.Equal(PhaseFlop, game.Phase())
	a.Equal(750, game.Pot())
	a.Equal(15000, chipsInPlay(game))
}

func TestGame_BigBlindOption(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	game.StartHand()

	a.NoError(game.Act(1, PlayerAction{Action: Call, Amount: 0}))
	a.NoError(game.Act(2, PlayerAction{Action: Call, Amount: 0}))

	// the big blind has matched the bet but still gets the option
	a.Equal(PhasePreFlop, game.Phase())
	a.Equal(int64(3), game.CurrentPlayer().ID)

	actions := game.AvailableActions()
	a.Contains(actions, AvailableAction{Action: Check})
	a.Contains(actions, AvailableAction{Action: Raise, MinAmount: 100, MaxAmount: 5000})

	a.NoError(game.Act(3, PlayerAction{Action: Raise, Amount: 150}))
	a.Equal(int64(1), game.CurrentPlayer().ID)

	a.NoError(game.Act(1, PlayerAction{Action: Fold}))
	a.NoError(game.Act(2, PlayerAction{Action: Fold}))

	a.Equal(PhaseEnded, game.Phase())
	a.Equal(5100, game.players[2].Chips())
	a.Equal(15000, chipsInPlay(game))
}

func TestGame_AllInFastForward(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0)
	game.StartHand()

	// heads-up the button posts the big blind and the small blind opens
	a.Equal(0, game.dealerIndex)
	a.Equal(int64(2), game.CurrentPlayer().ID)

	a.NoError(game.Act(2, PlayerAction{Action: AllIn}))
	a.Equal(5000, game.currentBet)
	a.True(game.players[1].IsAllIn())

	a.NoError(game.Act(1, PlayerAction{Action: AllIn}))

	// no decisions remain: the board runs out and the hand resolves
	a.Equal(PhaseEnded, game.Phase())
	a.Equal(5, len(game.Community()))
	a.Equal(0, game.Pot())
	a.NotEmpty(game.winners)
	a.Equal(10000, chipsInPlay(game))

	total := 0
	for _, delta := range game.HandDeltas() {
		total += delta
	}
	a.Zero(total)
}

func TestGame_AllInShortStack(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 5000, 1000)
	game.StartHand()

	a.NoError(game.Act(2, PlayerAction{Action: AllIn}))
	a.Equal(1000, game.currentBet)

	// the caller keeps chips behind, so only one player can still act and the
	// hand fast-forwards to showdown
	a.NoError(game.Act(1, PlayerAction{Action: Call, Amount: 0}))

	a.Equal(PhaseEnded, game.Phase())
	a.Equal(5, len(game.Community()))
	a.Equal(6000, chipsInPlay(game))

	// both committed the same amount into the single pot
	winner := game.winners[0]
	if len(game.winners) == 1 {
		a.Equal(1000, game.HandDeltas()[winner.ID])
	}
}

func TestGame_AvailableActions(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	a.Nil(game.AvailableActions())

	game.StartHand()

	a.Equal([]AvailableAction{
		{Action: Fold},
		{Action: Call, MinAmount: 50, MaxAmount: 50},
		{Action: Raise, MinAmount: 100, MaxAmount: 5000},
		{Action: AllIn, MinAmount: 5000, MaxAmount: 5000},
	}, game.AvailableActions())

	a.NoError(game.Act(1, PlayerAction{Action: Call, Amount: 0}))
	a.NoError(game.Act(2, PlayerAction{Action: Call, Amount: 0}))
	a.NoError(game.Act(3, PlayerAction{Action: Check}))

	// no bet to call on the flop
	a.Equal([]AvailableAction{
		{Action: Fold},
		{Action: Check},
		{Action: Raise, MinAmount: 50, MaxAmount: 4950},
		{Action: AllIn, MinAmount: 4950, MaxAmount: 4950},
	}, game.AvailableActions())

	a.EqualError(game.Act(2, PlayerAction{Action: Call}), "there is no bet to call")
}

func TestGame_Payout_Remainder(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	game.pot = 100
	game.payout([]*Player{game.players[0], game.players[1], game.players[2]})

	// the odd chip goes to the first winner in seating order
	a.Equal(5034, game.players[0].Chips())
	a.Equal(5033, game.players[1].Chips())
	a.Equal(5033, game.players[2].Chips())
	a.Equal(0, game.Pot())
	a.Equal(PhaseEnded, game.Phase())

	game = newTestGame(t, 0, 0)
	game.pot = 75
	game.payout([]*Player{game.players[0], game.players[1]})
	a.Equal(5038, game.players[0].Chips())
	a.Equal(5037, game.players[1].Chips())
}

func TestGame_StateForPlayer(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	game.StartHand()

	state := game.StateForPlayer(1)
	a.Equal(game.HandID(), state.HandID)
	a.Equal(PhasePreFlop, state.Phase)
	a.Equal(2, len(state.Players[0].Cards))
	a.Nil(state.Players[1].Cards)
	a.Nil(state.Players[2].Cards)
	a.Equal(int64(1), state.CurrentPlayer)
	a.Equal(50, state.CurrentBet)
	a.Empty(state.Winners)

	full := game.FullState()
	for _, p := range full.Players {
		a.Equal(2, len(p.Cards))
	}

	// snapshots are pure reads
	a.Equal(state, game.StateForPlayer(1))

	// mutating a snapshot must not touch the table
	state.Community.AddCard(deck.CardFromString("2c"))
	a.Equal(0, len(game.Community()))
}

func TestGame_Elimination(t *testing.T) {
	a := assert.New(t)

	game := newTestGame(t, 0, 0, 0)
	a.True(game.CanContinue())

	game.players[1].chips = 0
	a.True(game.CanContinue())

	// the busted player is removed when the next hand starts
	game.StartHand()
	a.Equal(2, len(game.players))
	a.Equal(PhasePreFlop, game.Phase())

	game.players[1].chips = 0
	a.False(game.CanContinue())
}

func TestAvailableActions_Snapshot(t *testing.T) {
	game := newTestGame(t, 0, 0, 0)
	game.StartHand()

	// under the gun, facing the big blind
	snapshot.Validate(t, game.AvailableActions(), 0)
}
