package holdem

// AvailableAction is an action the player on the clock may take, with the
// legal amount bounds for call and raise
type AvailableAction struct {
	Action    Action `json:"action"`
	MinAmount int    `json:"minAmount,omitempty"`
	MaxAmount int    `json:"maxAmount,omitempty"`
}

// AvailableActions returns the legal actions for the player currently on the
// clock. This is advisory for client UIs and mirrors exactly what Act will
// accept.
func (g *Game) AvailableActions() []AvailableAction {
	p := g.CurrentPlayer()
	if p == nil {
		return nil
	}

	actions := make([]AvailableAction, 0, 4)
	actions = append(actions, AvailableAction{Action: Fold})

	if toCall := g.currentBet - p.currentBet; toCall == 0 {
		actions = append(actions, AvailableAction{Action: Check})
	} else {
		callAmount := toCall
		if callAmount > p.chips {
			callAmount = p.chips
		}

		actions = append(actions, AvailableAction{
			Action:    Call,
			MinAmount: callAmount,
			MaxAmount: callAmount,
		})
	}

	minTo := g.currentBet + g.minRaise
	maxTo := p.currentBet + p.chips
	if maxTo >= minTo {
		actions = append(actions, AvailableAction{
			Action:    Raise,
			MinAmount: minTo,
			MaxAmount: maxTo,
		})
	}

	actions = append(actions, AvailableAction{
		Action:    AllIn,
		MinAmount: maxTo,
		MaxAmount: maxTo,
	})

	return actions
}
