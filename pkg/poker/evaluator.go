package poker

import (
	"errors"
	"sort"

	"cardroom-server/pkg/deck"
)

// ErrTooFewCards is an error when fewer than five cards are evaluated
var ErrTooFewCards = errors.New("a hand requires at least five cards")

// categoryWeight separates categories in the score. The kicker sum is bounded
// by 14*(15^4+15^3+15^2+15+1) < 10^6, so kickers can never overflow into the
// next category.
const categoryWeight = 10000000

// kickerWeights holds 15^4 down to 15^0. Base 15 exceeds the highest rank
// (ace, 14), so each kicker occupies its own significance slot.
var kickerWeights = [5]int{50625, 3375, 225, 15, 1}

// HandResult is a fully-evaluated best five-card hand
type HandResult struct {
	Category Hand      `json:"category"`
	Cards    deck.Hand `json:"cards"`
	Kickers  []int     `json:"kickers"`
	Score    int       `json:"score"`
}

func (r *HandResult) String() string {
	return r.Category.String()
}

// Compare returns a positive value if a beats b, negative if b beats a, and
// zero on an exact tie (identical for split-pot purposes)
func Compare(a, b *HandResult) int {
	return a.Score - b.Score
}

type sortByRank deck.Hand

func (s sortByRank) Len() int {
	return len(s)
}

func (s sortByRank) Less(i, j int) bool {
	return s[i].Rank < s[j].Rank
}

func (s sortByRank) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Evaluate determines the best five-card hand the given cards can make.
// At least five cards are required; with more than five, only the best five
// appear in the result.
func Evaluate(cards []*deck.Card) (*HandResult, error) {
	if len(cards) < 5 {
		return nil, ErrTooFewCards
	}

	// clone to prevent modifying the original
	sorted := make(deck.Hand, len(cards))
	copy(sorted, cards)
	sort.Sort(sort.Reverse(sortByRank(sorted)))

	bySuit := make(map[deck.Suit]deck.Hand)
	ranks := make(map[int]bool)
	for _, card := range sorted {
		bySuit[card.Suit] = append(bySuit[card.Suit], card)
		ranks[card.Rank] = true
	}

	quads, trips, pairs := rankGroups(sorted)

	// royal and straight flushes first: a suit-grouped straight check
	for _, suit := range deck.Suits {
		suited := bySuit[suit]
		if len(suited) < 5 {
			continue
		}

		suitedRanks := make(map[int]bool)
		for _, card := range suited {
			suitedRanks[card.Rank] = true
		}

		if high := straightHigh(suitedRanks); high > 0 {
			if high == deck.Ace {
				return newHandResult(RoyalFlush, straightCards(sorted, high, suit), nil), nil
			}

			return newHandResult(StraightFlush, straightCards(sorted, high, suit), []int{high}), nil
		}
	}

	if len(quads) > 0 {
		best := cardsOfRank(sorted, quads[0], 4)
		kicker := topKickers(sorted, best, 1)
		return newHandResult(FourOfAKind, append(best, kicker...), []int{quads[0], kicker[0].Rank}), nil
	}

	// a full house is a three-of-a-kind plus either a pair or a second
	// three-of-a-kind
	if len(trips) > 0 && (len(pairs) > 0 || len(trips) > 1) {
		pairRank := 0
		if len(pairs) > 0 {
			pairRank = pairs[0]
		}
		if len(trips) > 1 && trips[1] > pairRank {
			pairRank = trips[1]
		}

		best := cardsOfRank(sorted, trips[0], 3)
		best = append(best, cardsOfRank(sorted, pairRank, 2)...)
		return newHandResult(FullHouse, best, []int{trips[0], pairRank}), nil
	}

	for _, suit := range deck.Suits {
		suited := bySuit[suit]
		if len(suited) < 5 {
			continue
		}

		// keep the top five by rank
		best := suited[0:5].Clone()
		kickers := make([]int, 5)
		for i, card := range best {
			kickers[i] = card.Rank
		}

		return newHandResult(Flush, best, kickers), nil
	}

	if high := straightHigh(ranks); high > 0 {
		return newHandResult(Straight, straightCards(sorted, high, ""), []int{high}), nil
	}

	if len(trips) > 0 {
		best := cardsOfRank(sorted, trips[0], 3)
		kickers := topKickers(sorted, best, 2)
		return newHandResult(ThreeOfAKind, append(best, kickers...),
			[]int{trips[0], kickers[0].Rank, kickers[1].Rank}), nil
	}

	if len(pairs) >= 2 {
		best := cardsOfRank(sorted, pairs[0], 2)
		best = append(best, cardsOfRank(sorted, pairs[1], 2)...)
		kicker := topKickers(sorted, best, 1)
		return newHandResult(TwoPair, append(best, kicker...),
			[]int{pairs[0], pairs[1], kicker[0].Rank}), nil
	}

	if len(pairs) == 1 {
		best := cardsOfRank(sorted, pairs[0], 2)
		kickers := topKickers(sorted, best, 3)
		return newHandResult(OnePair, append(best, kickers...),
			[]int{pairs[0], kickers[0].Rank, kickers[1].Rank, kickers[2].Rank}), nil
	}

	best := sorted[0:5].Clone()
	kickers := make([]int, 5)
	for i, card := range best {
		kickers[i] = card.Rank
	}

	return newHandResult(HighCard, best, kickers), nil
}

// FindBest returns the best hand from the hole and community cards combined.
// With exactly five cards it short-circuits to a direct evaluation; otherwise
// every five-card subset is evaluated and the maximum score wins.
func FindBest(holeCards, boardCards []*deck.Card) (*HandResult, error) {
	combined := make(deck.Hand, 0, len(holeCards)+len(boardCards))
	combined = append(combined, holeCards...)
	combined = append(combined, boardCards...)

	if len(combined) < 5 {
		return nil, ErrTooFewCards
	}

	if len(combined) == 5 {
		return Evaluate(combined)
	}

	var best *HandResult
	for _, subset := range combinations(combined, 5) {
		result, err := Evaluate(subset)
		if err != nil {
			return nil, err
		}

		if best == nil || Compare(result, best) > 0 {
			best = result
		}
	}

	return best, nil
}

func newHandResult(category Hand, cards deck.Hand, kickers []int) *HandResult {
	score := int(category) * categoryWeight
	for i, kicker := range kickers {
		score += kicker * kickerWeights[i]
	}

	return &HandResult{
		Category: category,
		Cards:    cards,
		Kickers:  kickers,
		Score:    score,
	}
}

// rankGroups returns the quad, trip, and pair ranks, each in descending rank
// order. Cards must already be sorted descending.
func rankGroups(sorted deck.Hand) (quads, trips, pairs []int) {
	prevRank := -1
	count := 0

	flush := func() {
		switch count {
		case 4:
			quads = append(quads, prevRank)
		case 3:
			trips = append(trips, prevRank)
		case 2:
			pairs = append(pairs, prevRank)
		}
	}

	for _, card := range sorted {
		if card.Rank == prevRank {
			count++
			continue
		}

		flush()
		prevRank = card.Rank
		count = 1
	}
	flush()

	return
}

// straightHigh returns the high card of the best straight found among the
// given ranks, or 0 if there is none. The wheel (A-2-3-4-5) counts as a
// 5-high straight.
func straightHigh(ranks map[int]bool) int {
	for high := deck.Ace; high >= 6; high-- {
		found := true
		for r := high; r > high-5; r-- {
			if !ranks[r] {
				found = false
				break
			}
		}

		if found {
			return high
		}
	}

	if ranks[deck.Ace] && ranks[2] && ranks[3] && ranks[4] && ranks[5] {
		return 5
	}

	return 0
}

// straightCards picks one card per rank of the straight ending at high.
// If suit is non-empty only cards of that suit are used. For the wheel the
// ace is placed last.
func straightCards(sorted deck.Hand, high int, suit deck.Suit) deck.Hand {
	wanted := make([]int, 0, 5)
	if high == 5 {
		wanted = append(wanted, 5, 4, 3, 2, deck.Ace)
	} else {
		for r := high; r > high-5; r-- {
			wanted = append(wanted, r)
		}
	}

	cards := make(deck.Hand, 0, 5)
	for _, rank := range wanted {
		for _, card := range sorted {
			if card.Rank != rank {
				continue
			}

			if suit != "" && card.Suit != suit {
				continue
			}

			cards = append(cards, card)
			break
		}
	}

	return cards
}

// cardsOfRank returns the first n cards of the given rank
func cardsOfRank(sorted deck.Hand, rank, n int) deck.Hand {
	cards := make(deck.Hand, 0, n)
	for _, card := range sorted {
		if card.Rank != rank {
			continue
		}

		cards = append(cards, card)
		if len(cards) == n {
			break
		}
	}

	return cards
}

// topKickers returns the best n cards not already used
func topKickers(sorted deck.Hand, used deck.Hand, n int) deck.Hand {
	cards := make(deck.Hand, 0, n)
	for _, card := range sorted {
		if used.HasCard(card) {
			continue
		}

		cards = append(cards, card)
		if len(cards) == n {
			break
		}
	}

	return cards
}

// combinations returns every k-card subset
func combinations(cards deck.Hand, k int) []deck.Hand {
	if k == 0 {
		return []deck.Hand{{}}
	}

	if len(cards) < k {
		return nil
	}

	result := make([]deck.Hand, 0)

	// subsets containing the first card, then subsets without it
	for _, rest := range combinations(cards[1:], k-1) {
		subset := make(deck.Hand, 0, k)
		subset = append(subset, cards[0])
		subset = append(subset, rest...)
		result = append(result, subset)
	}

	return append(result, combinations(cards[1:], k)...)
}
