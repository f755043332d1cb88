package blackjack

import (
	"fmt"
	"math"

	"github.com/fadedpez/blackjack/pkg/entities"
)

const (
	StandardDecks    = 6  // Standard number of decks in the shoe
	DealerStandTotal = 17 // Dealer stands on hard 17 and hits soft 17
	Blackjack        = 21
)

// Stakes are the fixed amounts placed at the start of every round
type Stakes struct {
	Base               int64
	PerfectPairs       int64
	TwentyOnePlusThree int64
}

// DefaultStakes returns the house stakes: 100 on the hand, 10 on each side bet
func DefaultStakes() Stakes {
	return Stakes{
		Base:               100,
		PerfectPairs:       10,
		TwentyOnePlusThree: 10,
	}
}

// Minimum is the balance needed to start a round
func (s Stakes) Minimum() int64 {
	return s.Base + s.PerfectPairs + s.TwentyOnePlusThree
}

// Validate checks the stakes can be placed
func (s Stakes) Validate() error {
	if s.Base <= 0 {
		return fmt.Errorf("base bet must be positive, got %d", s.Base)
	}
	if s.PerfectPairs < 0 || s.TwentyOnePlusThree < 0 {
		return fmt.Errorf("side bets cannot be negative")
	}
	return nil
}

// Ratio is the multiple of a stake credited back to the player. A ratio of
// 1 returns the stake, 0 keeps it.
type Ratio float64

const (
	RatioLose      Ratio = 0
	RatioPush      Ratio = 1
	RatioWin       Ratio = 2.5
	RatioBlackjack Ratio = 4
)

// Apply returns the credit for a stake, rounded down to whole dollars
func (r Ratio) Apply(amount int64) int64 {
	return int64(math.Floor(float64(amount) * float64(r)))
}

// SettleHand compares a finished player hand to the dealer's and returns the
// outcome and payout ratio. Checks run in a fixed order: player bust, dealer
// bust, tie, player 21, higher total.
func SettleHand(player, dealer *Hand) (entities.Outcome, Ratio) {
	playerScore := player.Value()
	dealerScore := dealer.Value()

	switch {
	case playerScore > Blackjack:
		return entities.OutcomeLose, RatioLose
	case dealerScore > Blackjack:
		if playerScore == Blackjack {
			return entities.OutcomeBlackjack, RatioBlackjack
		}
		return entities.OutcomeWin, RatioWin
	case playerScore == dealerScore:
		return entities.OutcomePush, RatioPush
	case playerScore == Blackjack:
		return entities.OutcomeBlackjack, RatioBlackjack
	case playerScore > dealerScore:
		return entities.OutcomeWin, RatioWin
	default:
		return entities.OutcomeLose, RatioLose
	}
}

// DealerShouldHit applies the house strategy: hit below 17, and hit a soft 17
func DealerShouldHit(dealer *Hand) bool {
	total := dealer.Value()
	if dealer.IsSoft() {
		return total <= DealerStandTotal
	}
	return total < DealerStandTotal
}
