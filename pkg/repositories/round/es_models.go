package round

import (
	"time"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// ESRoundDocument represents a round document in Elasticsearch
type ESRoundDocument struct {
	RoundID     string           `json:"round_id"`
	PlayerID    string           `json:"player_id"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
	DealerCards []string         `json:"dealer_cards"`
	DealerScore int              `json:"dealer_score"`
	DealerBust  bool             `json:"dealer_bust"`
	DealerPlay  bool             `json:"dealer_played"`
	Hands       []ESHandDocument `json:"hands"`
	SideBets    []ESSideBet      `json:"side_bets"`
	Wagered     int64            `json:"wagered"`
	Returned    int64            `json:"returned"`
	Net         int64            `json:"net"`
	BalanceEnd  int64            `json:"balance_end"`
}

// ESHandDocument represents one settled hand in Elasticsearch
type ESHandDocument struct {
	Index         int      `json:"index"`
	Cards         []string `json:"cards"`
	Score         int      `json:"score"`
	Wager         int64    `json:"wager"`
	Payout        int64    `json:"payout"`
	Outcome       string   `json:"outcome"`
	Ratio         float64  `json:"ratio"`
	Busted        bool     `json:"busted"`
	IsSplit       bool     `json:"is_split"`
	IsDoubledDown bool     `json:"is_doubled_down"`
	Actions       []string `json:"actions"`
}

// ESSideBet represents a side bet in Elasticsearch
type ESSideBet struct {
	Bet    string  `json:"bet"`
	Kind   string  `json:"kind,omitempty"`
	Stake  int64   `json:"stake"`
	Ratio  float64 `json:"ratio"`
	Payout int64   `json:"payout"`
}

// NewESRoundDocument flattens a round record for indexing
func NewESRoundDocument(record *entities.RoundRecord) *ESRoundDocument {
	doc := &ESRoundDocument{
		RoundID:     record.ID,
		PlayerID:    record.PlayerID,
		StartedAt:   record.StartedAt,
		CompletedAt: record.CompletedAt,
		DealerCards: record.DealerCards,
		DealerScore: record.DealerScore,
		DealerBust:  record.DealerScore > 21,
		DealerPlay:  record.DealerPlay,
		Wagered:     record.Wagered(),
		Returned:    record.Returned(),
		Net:         record.Net(),
		BalanceEnd:  record.BalanceEnd,
	}

	for _, h := range record.Hands {
		doc.Hands = append(doc.Hands, ESHandDocument{
			Index:         h.Index,
			Cards:         h.Cards,
			Score:         h.FinalScore,
			Wager:         h.Wager,
			Payout:        h.Payout,
			Outcome:       string(h.Outcome),
			Ratio:         h.Ratio,
			Busted:        h.FinalScore > 21,
			IsSplit:       h.IsSplit,
			IsDoubledDown: h.IsDoubledDown,
			Actions:       h.Actions,
		})
	}
	for _, sb := range record.SideBets {
		doc.SideBets = append(doc.SideBets, ESSideBet(sb))
	}

	return doc
}
