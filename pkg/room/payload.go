package room

import (
	"cardroom-server/pkg/holdem"
)

// PayloadIn is the format we expect from the JS client.
// Action is either a table directive like "startHand" or one of the betting
// actions the engine understands. Amount only applies to a raise.
type PayloadIn struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// Response is a message sent to a connected client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

func newErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

// gameState is the per-player view of the table sent on every game event.
// Actions is only populated for the player whose turn it is.
type gameState struct {
	State   *holdem.State            `json:"state"`
	Actions []holdem.AvailableAction `json:"actions,omitempty"`
}

// clientStatePlayer describes a connected player in the lobby payload
type clientStatePlayer struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	IsConnected bool   `json:"isConnected"`
	IsSeated    bool   `json:"isSeated"`
}
