package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionFromString(t *testing.T) {
	a := assert.New(t)

	action, err := ActionFromString("fold")
	a.NoError(err)
	a.Equal(Fold, action)

	action, err = ActionFromString("all-in")
	a.NoError(err)
	a.Equal(AllIn, action)

	_, err = ActionFromString("bluff")
	a.EqualError(err, "unknown action for identifier: bluff")
}

func TestAction_String(t *testing.T) {
	a := assert.New(t)
	a.Equal("Fold", Fold.String())
	a.Equal("Check", Check.String())
	a.Equal("Call", Call.String())
	a.Equal("Raise", Raise.String())
	a.Equal("All-in", AllIn.String())

	a.PanicsWithValue("unknown action", func() {
		_ = Action("bluff").String()
	})
}

func TestAction_IsValid(t *testing.T) {
	assert.True(t, Raise.IsValid())
	assert.False(t, Action("bluff").IsValid())
	assert.False(t, Action("").IsValid())
}

func TestAction_LogMessage(t *testing.T) {
	a := assert.New(t)
	a.Equal("folded", Fold.LogMessage(0))
	a.Equal("checked", Check.LogMessage(0))
	a.Equal("called ${50}", Call.LogMessage(50))
	a.Equal("raised to ${150}", Raise.LogMessage(150))
	a.Equal("went all-in for ${5000}", AllIn.LogMessage(5000))
}

func TestPlayerActionFromJSON(t *testing.T) {
	a := assert.New(t)

	pa, err := PlayerActionFromJSON([]byte(`{"action":"raise","amount":150}`))
	a.NoError(err)
	a.Equal(PlayerAction{Action: Raise, Amount: 150}, pa)

	pa, err = PlayerActionFromJSON([]byte(`{"action":"check"}`))
	a.NoError(err)
	a.Equal(PlayerAction{Action: Check}, pa)

	_, err = PlayerActionFromJSON([]byte(`{`))
	a.Error(err)

	_, err = PlayerActionFromJSON([]byte(`{"action":"bluff"}`))
	a.EqualError(err, "unknown action for identifier: bluff")

	_, err = PlayerActionFromJSON([]byte(`{"action":"raise","amount":-5}`))
	a.EqualError(err, "amount cannot be negative")

	_, err = PlayerActionFromJSON([]byte(`{"action":"call","amount":50}`))
	a.EqualError(err, "call does not take an amount")
}
