package blackjack

import (
	"sort"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// SideBet names an optional wager settled on the opening cards
type SideBet string

const (
	SideBetPerfectPairs       SideBet = "PERFECT_PAIRS"
	SideBetTwentyOnePlusThree SideBet = "TWENTY_ONE_PLUS_THREE"
)

// SideBetKind is the winning combination a side bet paid on
type SideBetKind string

const (
	KindNone SideBetKind = ""

	// Perfect Pairs
	KindPerfectPair SideBetKind = "PERFECT_PAIR"
	KindColoredPair SideBetKind = "COLORED_PAIR"
	KindMixedPair   SideBetKind = "MIXED_PAIR"

	// 21+3
	KindSuitedThreeOfAKind SideBetKind = "SUITED_THREE_OF_A_KIND"
	KindStraightFlush      SideBetKind = "STRAIGHT_FLUSH"
	KindThreeOfAKind       SideBetKind = "THREE_OF_A_KIND"
	KindStraight           SideBetKind = "STRAIGHT"
	KindFlush              SideBetKind = "FLUSH"
)

var sideBetRatios = map[SideBetKind]Ratio{
	KindPerfectPair:        50,
	KindColoredPair:        15,
	KindMixedPair:          5,
	KindSuitedThreeOfAKind: 100,
	KindStraightFlush:      50,
	KindThreeOfAKind:       40,
	KindStraight:           15,
	KindFlush:              10,
}

// SideBetResult is a settled side bet
type SideBetResult struct {
	Bet    SideBet
	Kind   SideBetKind
	Ratio  Ratio
	Stake  int64
	Payout int64
}

// Won reports whether the side bet paid
func (r SideBetResult) Won() bool {
	return r.Payout > 0
}

// EvaluatePerfectPairs grades the player's two opening cards
func EvaluatePerfectPairs(first, second *entities.Card) (SideBetKind, Ratio) {
	kind := KindNone
	switch {
	case first.Rank != second.Rank:
	case first.Suit == second.Suit:
		kind = KindPerfectPair
	case first.Suit.Color() == second.Suit.Color():
		kind = KindColoredPair
	default:
		kind = KindMixedPair
	}
	return kind, sideBetRatios[kind]
}

// EvaluateTwentyOnePlusThree grades the player's two opening cards together
// with the dealer's up card
func EvaluateTwentyOnePlusThree(first, second, upCard *entities.Card) (SideBetKind, Ratio) {
	cards := []*entities.Card{first, second, upCard}

	flush := first.Suit == second.Suit && second.Suit == upCard.Suit
	trips := first.Rank == second.Rank && second.Rank == upCard.Rank
	straight := isStraight(cards)

	kind := KindNone
	switch {
	case flush && trips:
		kind = KindSuitedThreeOfAKind
	case flush && straight:
		kind = KindStraightFlush
	case trips:
		kind = KindThreeOfAKind
	case straight:
		kind = KindStraight
	case flush:
		kind = KindFlush
	}
	return kind, sideBetRatios[kind]
}

// rankOrder places ranks on a line for straights; aces are high here and
// also play low in the wheel (A-2-3)
var rankOrder = map[entities.Rank]int{
	entities.Two: 2, entities.Three: 3, entities.Four: 4, entities.Five: 5,
	entities.Six: 6, entities.Seven: 7, entities.Eight: 8, entities.Nine: 9,
	entities.Ten: 10, entities.Jack: 11, entities.Queen: 12, entities.King: 13,
	entities.Ace: 14,
}

func isStraight(cards []*entities.Card) bool {
	values := make([]int, len(cards))
	for i, card := range cards {
		values[i] = rankOrder[card.Rank]
	}
	sort.Ints(values)

	if values[0] == 2 && values[1] == 3 && values[2] == 14 {
		return true
	}
	return values[0]+1 == values[1] && values[1]+1 == values[2]
}
