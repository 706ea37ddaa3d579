package holdem

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/poker"
)

// table size limits
const (
	MinPlayers = 2
	MaxPlayers = 6
)

// Seat describes a player to be seated when a game is created
type Seat struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Chips    int    `json:"chips"`
}

// Game is an authoritative Texas Hold'em engine for a single table. It runs
// no goroutines and performs no I/O; every method is synchronous. Callers
// must serialize access, one execution context per table.
//
// All-in contributions from unequal stacks are pooled into a single pot; side
// pots are intentionally not implemented.
type Game struct {
	logger  logrus.FieldLogger
	options Options

	players        []*Player
	deck           *deck.Deck
	community      deck.Hand
	pot            int
	currentBet     int
	minRaise       int
	dealerIndex    int
	currentIndex   int
	phase          Phase
	winners        []*Player
	handID         string
	startingStacks map[int64]int
}

// NewGame returns a new game of Texas Hold'em.
// Seating a table requires between two and six players; anything else is a
// configuration error and no table is created.
func NewGame(logger logrus.FieldLogger, seats []Seat, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return nil, fmt.Errorf("a table requires between %d and %d players, got %d", MinPlayers, MaxPlayers, len(seats))
	}

	players := make([]*Player, len(seats))
	for i, seat := range seats {
		chips := seat.Chips
		if chips == 0 {
			chips = opts.StartingChips
		}

		players[i] = &Player{
			ID:       seat.ID,
			Username: seat.Username,
			chips:    chips,
		}
	}

	return &Game{
		logger:      logger,
		options:     opts,
		players:     players,
		community:   make(deck.Hand, 0, 5),
		dealerIndex: -1, // the first StartHand advances the button to seat 0
		phase:       PhaseWaiting,
	}, nil
}

// StartHand resets the table and begins a new hand: busted players are
// removed, the button advances, a fresh deck is shuffled, hole cards are
// dealt, and the blinds are posted. If fewer than two funded players remain
// the phase becomes PhaseEnded and no hand is dealt.
func (g *Game) StartHand() {
	remaining := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if p.chips > 0 {
			remaining = append(remaining, p)
		}
	}
	g.players = remaining

	g.community = make(deck.Hand, 0, 5)
	g.pot = 0
	g.currentBet = 0
	g.minRaise = 0
	g.winners = nil

	if len(g.players) < MinPlayers {
		g.phase = PhaseEnded
		return
	}

	g.startingStacks = make(map[int64]int, len(g.players))
	for _, p := range g.players {
		p.newHand()
		g.startingStacks[p.ID] = p.chips
	}

	g.handID = uuid.New().String()
	g.deck = deck.New()
	g.deck.Shuffle(0)

	n := len(g.players)
	g.dealerIndex = (g.dealerIndex + 1) % n

	// two passes, starting left of the button
	for i := 0; i < 2; i++ {
		for offset := 1; offset <= n; offset++ {
			card, err := g.deck.Draw()
			if err != nil {
				panic(err)
			}

			g.players[(g.dealerIndex+offset)%n].holeCards.AddCard(card)
		}
	}

	// heads-up the big blind lands back on the button and the small blind
	// acts first preflop; both fall out of the same seat arithmetic
	smallBlind := g.players[(g.dealerIndex+1)%n]
	bigBlind := g.players[(g.dealerIndex+2)%n]
	smallBlind.commit(g.options.SmallBlind)
	bigBlind.commit(g.options.BigBlind)

	g.currentBet = g.options.BigBlind
	g.minRaise = g.options.BigBlind
	g.phase = PhasePreFlop
	g.currentIndex = g.nextActiveSeat((g.dealerIndex + 2) % n)

	g.logger.WithFields(logrus.Fields{
		"handId":  g.handID,
		"players": n,
		"dealer":  g.players[g.dealerIndex].ID,
	}).Info("hand started")

	// the blinds alone can leave no one able to act
	if g.roundComplete() {
		g.advancePhase()
	}
}

// Act validates and applies a player action. A returned ActionError means the
// action was refused and no state changed.
func (g *Game) Act(playerID int64, pa PlayerAction) error {
	if !pa.Action.IsValid() {
		return newActionError("unknown action: %s", pa.Action)
	}

	if !g.phase.IsBettingRound() {
		return ErrNoHandInProgress
	}

	p := g.players[g.currentIndex]
	if p.ID != playerID {
		// also covers folded and all-in players, who are never on the clock
		return ErrNotYourTurn
	}

	amount := 0
	switch pa.Action {
	case Fold:
		p.folded = true

	case Check:
		if p.currentBet != g.currentBet {
			return newActionError("you cannot check with ${%d} to call", g.currentBet-p.currentBet)
		}

	case Call:
		toCall := g.currentBet - p.currentBet
		if toCall <= 0 {
			return newActionError("there is no bet to call")
		}

		amount = p.commit(toCall)

	case Raise:
		minTo := g.currentBet + g.minRaise
		if pa.Amount < minTo {
			return newActionError("raise must be to at least ${%d}", minTo)
		}

		if pa.Amount-p.currentBet > p.chips {
			return newActionError("you cannot afford a raise to ${%d}", pa.Amount)
		}

		g.applyRaise(p, pa.Amount)
		amount = pa.Amount

	case AllIn:
		total := p.currentBet + p.chips
		if total > g.currentBet {
			g.applyRaise(p, total)
		} else {
			p.commit(p.chips)
		}

		amount = total
	}

	p.hasActed = true

	g.logger.WithFields(logrus.Fields{
		"handId": g.handID,
		"player": p.ID,
	}).Debugf("player %s", pa.Action.LogMessage(amount))

	g.afterAction()
	return nil
}

// applyRaise moves the table bet up to amount and reopens the action for
// every other player still able to act
func (g *Game) applyRaise(p *Player, amount int) {
	g.minRaise = amount - g.currentBet
	g.currentBet = amount
	p.commit(amount - p.currentBet)

	for _, other := range g.players {
		if other != p && other.canAct() {
			other.hasActed = false
		}
	}
}

func (g *Game) afterAction() {
	if g.contenders() == 1 {
		g.finishByFold()
		return
	}

	if g.roundComplete() {
		g.advancePhase()
		return
	}

	g.currentIndex = g.nextActiveSeat(g.currentIndex)
}

// contenders returns the number of players who have not folded
func (g *Game) contenders() int {
	count := 0
	for _, p := range g.players {
		if !p.folded {
			count++
		}
	}

	return count
}

// canActCount returns the number of players who are neither folded nor all-in
func (g *Game) canActCount() int {
	count := 0
	for _, p := range g.players {
		if p.canAct() {
			count++
		}
	}

	return count
}

// nextActiveSeat returns the next seat after from that can still act, or -1
// if no such seat exists
func (g *Game) nextActiveSeat(from int) int {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		index := (from + i) % n
		if g.players[index].canAct() {
			return index
		}
	}

	return -1
}

// roundComplete returns true once every player still able to act has acted
// since the last bet-size change and has matched the table bet. A round with
// no such players is trivially complete.
func (g *Game) roundComplete() bool {
	for _, p := range g.players {
		if !p.canAct() {
			continue
		}

		if !p.hasActed || p.currentBet != g.currentBet {
			return false
		}
	}

	return true
}

// collectBets sweeps every pending bet into the pot and resets the per-round
// betting state
func (g *Game) collectBets() {
	for _, p := range g.players {
		g.pot += p.currentBet
		p.currentBet = 0
		p.hasActed = false
	}

	g.currentBet = 0
	g.minRaise = g.options.BigBlind
}

// advancePhase closes the betting round and deals the next street. With at
// most one player left able to act, the remaining board is dealt at once and
// the hand goes straight to showdown.
func (g *Game) advancePhase() {
	g.collectBets()

	if g.phase == PhaseRiver {
		g.showdown()
		return
	}

	if g.canActCount() <= 1 {
		for len(g.community) < 5 {
			g.dealCommunity(1)
		}

		g.showdown()
		return
	}

	switch g.phase {
	case PhasePreFlop:
		g.dealCommunity(3)
		g.phase = PhaseFlop
	case PhaseFlop:
		g.dealCommunity(1)
		g.phase = PhaseTurn
	case PhaseTurn:
		g.dealCommunity(1)
		g.phase = PhaseRiver
	default:
		panic(fmt.Sprintf("cannot advance from phase %s", g.phase))
	}

	g.currentIndex = g.nextActiveSeat(g.dealerIndex)
}

func (g *Game) dealCommunity(count int) {
	for i := 0; i < count; i++ {
		card, err := g.deck.Draw()
		if err != nil {
			panic(err)
		}

		g.community.AddCard(card)
	}
}

// showdown evaluates every remaining hand and pays the winners
func (g *Game) showdown() {
	g.phase = PhaseShowdown

	best := -1
	winners := make([]*Player, 0, 1)
	for _, p := range g.players {
		if p.folded {
			continue
		}

		result, err := poker.FindBest(p.holeCards, g.community)
		if err != nil {
			panic(err)
		}

		p.result = result

		if result.Score > best {
			best = result.Score
			winners = winners[:0]
			winners = append(winners, p)
		} else if result.Score == best {
			winners = append(winners, p)
		}
	}

	g.payout(winners)
}

// finishByFold ends the hand when a single player remains; the pot is theirs
// and the evaluator is never consulted
func (g *Game) finishByFold() {
	g.collectBets()

	for _, p := range g.players {
		if !p.folded {
			g.payout([]*Player{p})
			return
		}
	}

	panic("no remaining player")
}

// payout splits the pot evenly between the winners. A remainder that does not
// divide goes to the first winner in seating order.
func (g *Game) payout(winners []*Player) {
	share := g.pot / len(winners)
	remainder := g.pot % len(winners)

	for i, winner := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}

		winner.chips += amount

		g.logger.WithFields(logrus.Fields{
			"handId": g.handID,
			"player": winner.ID,
			"amount": amount,
		}).Info("player won the pot")
	}

	g.pot = 0
	g.winners = winners
	g.phase = PhaseEnded
}

// CurrentPlayer returns the player whose turn it is, or nil outside a betting round
func (g *Game) CurrentPlayer() *Player {
	if !g.phase.IsBettingRound() {
		return nil
	}

	return g.players[g.currentIndex]
}

// CanContinue returns true if another hand can be dealt
func (g *Game) CanContinue() bool {
	funded := 0
	for _, p := range g.players {
		if p.chips > 0 {
			funded++
		}
	}

	return funded >= MinPlayers
}

// Phase returns the current phase of the hand
func (g *Game) Phase() Phase {
	return g.phase
}

// Pot returns the chips committed to the pot so far
func (g *Game) Pot() int {
	return g.pot
}

// Community returns the revealed community cards
func (g *Game) Community() deck.Hand {
	return g.community.Clone()
}

// HandID returns the unique identifier of the hand in progress
func (g *Game) HandID() string {
	return g.handID
}

// HandDeltas reports the net chip movement per player for the completed hand.
// It is only meaningful once the phase is PhaseEnded; the persistence layer
// consumes it for ledger updates.
func (g *Game) HandDeltas() map[int64]int {
	if g.phase != PhaseEnded || g.startingStacks == nil {
		return nil
	}

	deltas := make(map[int64]int, len(g.players))
	for _, p := range g.players {
		deltas[p.ID] = p.chips - g.startingStacks[p.ID]
	}

	return deltas
}
