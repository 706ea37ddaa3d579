package holdem

import "fmt"

// ActionError is a recoverable refusal of a player action. The engine
// guarantees no state was mutated when one is returned; the transport layer
// relays the message to the offending client and play continues.
type ActionError string

func (e ActionError) Error() string {
	return string(e)
}

func newActionError(format string, a ...interface{}) ActionError {
	return ActionError(fmt.Sprintf(format, a...))
}

// ErrNotYourTurn is an error when a player acts out of turn
var ErrNotYourTurn = ActionError("it is not your turn")

// ErrNoHandInProgress is an error when an action arrives outside a betting round
var ErrNoHandInProgress = ActionError("there is no betting round in progress")
