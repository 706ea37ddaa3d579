package holdem

import "errors"

// Options configures how Texas Hold'em is played
type Options struct {
	SmallBlind    int `json:"smallBlind"`
	BigBlind      int `json:"bigBlind"`
	StartingChips int `json:"startingChips"`
}

// DefaultOptions returns the default options for Texas Hold'em
func DefaultOptions() Options {
	return Options{
		SmallBlind:    25,
		BigBlind:      50,
		StartingChips: 5000,
	}
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be greater than zero")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}

	if opts.StartingChips < opts.BigBlind {
		return errors.New("starting chips must cover the big blind")
	}

	return nil
}
