package blackjack

import (
	"time"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// HandView is what the table shows for one player hand
type HandView struct {
	Index     int
	Cards     []string
	Total     int
	Soft      bool
	Virgin    bool
	Active    bool
	Bust      bool
	Wager     int64
	Doubled   bool
	FromSplit bool
}

// DealerView is what the table shows for the dealer. While the hole card is
// concealed only the up card and its value are visible.
type DealerView struct {
	Cards     []string
	Total     int
	Concealed bool
}

// Snapshot is a read-only copy of the round for rendering
type Snapshot struct {
	RoundID    string
	Phase      Phase
	Hands      []HandView
	Dealer     DealerView
	Balance    int64
	SideBets   []SideBetResult
	Available  []Action
	ActiveHand int
}

// Snapshot captures the round as the player is allowed to see it
func (r *Round) Snapshot() Snapshot {
	hands := make([]HandView, len(r.Seats))
	for i, seat := range r.Seats {
		hands[i] = HandView{
			Index:     i,
			Cards:     seat.Hand.CardStrings(),
			Total:     seat.Hand.Value(),
			Soft:      seat.Hand.IsSoft(),
			Virgin:    seat.Hand.Virgin,
			Active:    seat.Hand.Active,
			Bust:      seat.Hand.IsBust(),
			Wager:     seat.Wager,
			Doubled:   seat.Doubled,
			FromSplit: seat.FromSplit,
		}
	}

	dealer := DealerView{
		Cards: r.Dealer.CardStrings(),
		Total: r.Dealer.Value(),
	}
	if r.Dealer.HoleCardHidden() {
		up := r.Dealer.UpCard()
		dealer = DealerView{
			Cards:     []string{up.String()},
			Total:     up.BaseValue(),
			Concealed: true,
		}
	}

	return Snapshot{
		RoundID:    r.ID,
		Phase:      r.Phase,
		Hands:      hands,
		Dealer:     dealer,
		Balance:    r.bankroll.Balance,
		SideBets:   append([]SideBetResult{}, r.SideBets...),
		Available:  r.AvailableActions(),
		ActiveHand: r.ActiveHandIndex(),
	}
}

// Record converts a settled round into its history record
func (r *Round) Record(startedAt, completedAt time.Time) *entities.RoundRecord {
	record := &entities.RoundRecord{
		ID:          r.ID,
		PlayerID:    r.bankroll.PlayerID,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		DealerCards: r.Dealer.CardStrings(),
		DealerScore: r.Dealer.Value(),
		DealerPlay:  r.DealerPlayed,
		BalanceEnd:  r.bankroll.Balance,
	}

	for i, seat := range r.Seats {
		actions := make([]string, len(seat.Actions))
		for j, a := range seat.Actions {
			actions[j] = string(a)
		}
		hand := entities.HandRecord{
			Index:         i,
			Cards:         seat.Hand.CardStrings(),
			FinalScore:    seat.Hand.Value(),
			Wager:         seat.Wager,
			IsSplit:       seat.FromSplit,
			IsDoubledDown: seat.Doubled,
			Actions:       actions,
		}
		if i < len(r.Settlements) {
			s := r.Settlements[i]
			hand.Outcome = s.Outcome
			hand.Ratio = float64(s.Ratio)
			hand.Payout = s.Payout
		}
		record.Hands = append(record.Hands, hand)
	}

	for _, sb := range r.SideBets {
		record.SideBets = append(record.SideBets, entities.SideBetRecord{
			Bet:    string(sb.Bet),
			Kind:   string(sb.Kind),
			Stake:  sb.Stake,
			Ratio:  float64(sb.Ratio),
			Payout: sb.Payout,
		})
	}

	return record
}
