package room

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/holdem"
	"cardroom-server/pkg/ledger"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateGameEnded
)

// HandRecorder persists the outcome of a completed hand
type HandRecorder interface {
	RecordHand(ctx context.Context, tableUUID, handID string, deltas map[int64]int) error
}

// HandRecorderFunc adapts a plain function to the HandRecorder interface
type HandRecorderFunc func(ctx context.Context, tableUUID, handID string, deltas map[int64]int) error

// RecordHand calls the wrapped function
func (f HandRecorderFunc) RecordHand(ctx context.Context, tableUUID, handID string, deltas map[int64]int) error {
	return f(ctx, tableUUID, handID, deltas)
}

// Dealer is responsible for running the game at a single table. All game
// mutations happen on the dealer's run loop, so the engine never needs its
// own locking.
type Dealer struct {
	pitBoss  *PitBoss
	table    *ledger.Table
	recorder HandRecorder
	clients  map[*Client]bool
	lock     sync.RWMutex
	game     *holdem.Game

	// seating records the order players first connected; seats at the next
	// game are handed out in this order
	seating []int64

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, table *ledger.Table, recorder HandRecorder) *Dealer {
	return &Dealer{
		pitBoss:       pitBoss,
		table:         table,
		recorder:      recorder,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	log := d.logger()

	log.Debug("creating dealer run loop")
	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendPlayerData()
			case stateGameEvent:
				d.sendGameData()
			case stateGameEnded:
				d.sendGameEnded()
				d.sendPlayerData()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			log.Debug("terminating dealer run loop")
			return
		}
	}
}

func (d *Dealer) logger() logrus.FieldLogger {
	return logrus.WithFields(logrus.Fields{
		"uuid": d.table.UUID,
		"name": d.table.Name,
	})
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true

	found := false
	for _, id := range d.seating {
		if id == client.player.ID {
			found = true
			break
		}
	}
	if !found {
		d.seating = append(d.seating, client.player.ID)
	}
	d.lock.Unlock()

	d.stateChanged <- stateClientEvent
	d.execInRunLoop <- func() {
		if d.game == nil {
			return
		}

		client.Send(&Response{Key: "game", Data: d.gameStateFor(client.player.ID)})
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	switch msg.Action {
	case "startHand":
		d.execInRunLoop <- func() {
			if err := d.startHand(); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(OK(msg.Context))
			d.stateChanged <- stateGameEvent
		}
	case "terminateGame":
		d.execInRunLoop <- func() {
			d.game = nil
			c.Send(OK(msg.Context))
			d.stateChanged <- stateGameEnded
		}
	case "state":
		d.execInRunLoop <- func() {
			if d.game == nil {
				c.Send(newErrorResponse(msg.Context, errors.New("no game in progress")))
				return
			}

			c.Send(&Response{Key: "game", Context: msg.Context, Data: d.gameStateFor(c.player.ID)})
		}
	default:
		action, err := holdem.ActionFromString(msg.Action)
		if err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		amount := msg.Amount
		d.execInRunLoop <- func() {
			if d.game == nil {
				c.Send(newErrorResponse(msg.Context, errors.New("no game in progress")))
				return
			}

			if err := d.game.Act(c.player.ID, holdem.PlayerAction{Action: action, Amount: amount}); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(OK(msg.Context))
			d.stateChanged <- stateGameEvent
			d.maybeFinishHand()
		}
	}
}

// startHand deals the next hand, creating a game first if none is running.
// NOTE: must only be called from the run loop
func (d *Dealer) startHand() error {
	if d.game == nil {
		if err := d.createGame(); err != nil {
			return err
		}
	} else {
		if d.game.Phase() != holdem.PhaseEnded {
			return errors.New("a hand is already in progress")
		}

		if !d.game.CanContinue() {
			return errors.New("not enough funded players to continue")
		}

		d.game.StartHand()
	}

	d.maybeFinishHand()
	return nil
}

// NOTE: must only be called from the run loop
func (d *Dealer) createGame() error {
	d.lock.RLock()
	connected := make(map[int64]*ledger.Player)
	for client := range d.clients {
		connected[client.player.ID] = client.player
	}
	seating := d.seating
	d.lock.RUnlock()

	seats := make([]holdem.Seat, 0, len(seating))
	for _, id := range seating {
		player, ok := connected[id]
		if !ok {
			continue
		}

		seats = append(seats, holdem.Seat{
			ID:       player.ID,
			Username: player.DisplayName,
		})
	}

	game, err := holdem.NewGame(d.logger(), seats, d.table.Options())
	if err != nil {
		return err
	}

	game.StartHand()
	d.game = game
	return nil
}

// maybeFinishHand records the hand once the engine reports it over. The
// blinds alone can resolve a hand, so this runs after dealing too.
// NOTE: must only be called from the run loop
func (d *Dealer) maybeFinishHand() {
	if d.game == nil || d.game.Phase() != holdem.PhaseEnded {
		return
	}

	deltas := d.game.HandDeltas()
	if len(deltas) == 0 {
		return
	}

	handID := d.game.HandID()
	if err := d.recorder.RecordHand(context.Background(), d.table.UUID, handID, deltas); err != nil {
		d.logger().WithError(err).WithField("handId", handID).Error("could not record hand")
	}

	for _, client := range d.Clients() {
		client.Send(&Response{Key: "handEnded", Data: deltas})
	}

	if !d.game.CanContinue() {
		d.game = nil
		d.stateChanged <- stateGameEnded
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) gameStateFor(playerID int64) *gameState {
	gs := &gameState{State: d.game.StateForPlayer(playerID)}
	if current := d.game.CurrentPlayer(); current != nil && current.ID == playerID {
		gs.Actions = d.game.AvailableActions()
	}

	return gs
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	if d.game == nil {
		return
	}

	for _, client := range d.Clients() {
		client.Send(&Response{Key: "game", Data: d.gameStateFor(client.player.ID)})
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameEnded() {
	for _, client := range d.Clients() {
		client.Send(&Response{Key: "gameEnded"})
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendPlayerData() {
	seated := make(map[int64]bool)
	if d.game != nil {
		for _, p := range d.game.FullState().Players {
			seated[p.ID] = true
		}
	}

	players := make(map[int64]*clientStatePlayer)
	for _, client := range d.Clients() {
		players[client.player.ID] = &clientStatePlayer{
			ID:          client.player.ID,
			DisplayName: client.player.DisplayName,
			IsConnected: true,
			IsSeated:    seated[client.player.ID],
		}
	}

	for _, client := range d.Clients() {
		client.Send(&Response{
			Key:  "clientState",
			Data: players,
		})
	}
}
