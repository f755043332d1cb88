package entities

import "time"

// Outcome represents how a settled hand ended
type Outcome string

const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLose      Outcome = "LOSE"
	OutcomePush      Outcome = "PUSH"
	OutcomeBlackjack Outcome = "BLACKJACK"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsWin returns true if this outcome represents a win
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

// RoundRecord represents a record of a completed round
type RoundRecord struct {
	ID          string          `json:"id"`
	PlayerID    string          `json:"player_id"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
	DealerCards []string        `json:"dealer_cards"`
	DealerScore int             `json:"dealer_score"`
	DealerPlay  bool            `json:"dealer_played"`
	Hands       []HandRecord    `json:"hands"`
	SideBets    []SideBetRecord `json:"side_bets"`
	BalanceEnd  int64           `json:"balance_end"`
}

// HandRecord represents one settled player hand
type HandRecord struct {
	Index         int      `json:"index"`
	Cards         []string `json:"cards"`
	FinalScore    int      `json:"final_score"`
	Wager         int64    `json:"wager"`
	IsSplit       bool     `json:"is_split"`
	IsDoubledDown bool     `json:"is_doubled_down"`
	Outcome       Outcome  `json:"outcome"`
	Ratio         float64  `json:"ratio"`
	Payout        int64    `json:"payout"`
	Actions       []string `json:"actions"`
}

// SideBetRecord represents a side bet evaluated at deal time
type SideBetRecord struct {
	Bet    string  `json:"bet"`
	Kind   string  `json:"kind,omitempty"`
	Stake  int64   `json:"stake"`
	Ratio  float64 `json:"ratio"`
	Payout int64   `json:"payout"`
}

// Wagered returns everything the player staked in the round
func (r *RoundRecord) Wagered() int64 {
	var total int64
	for _, h := range r.Hands {
		total += h.Wager
	}
	for _, sb := range r.SideBets {
		total += sb.Stake
	}
	return total
}

// Returned returns everything credited back to the player in the round
func (r *RoundRecord) Returned() int64 {
	var total int64
	for _, h := range r.Hands {
		total += h.Payout
	}
	for _, sb := range r.SideBets {
		total += sb.Payout
	}
	return total
}

// Net returns the round's profit or loss
func (r *RoundRecord) Net() int64 {
	return r.Returned() - r.Wagered()
}

// PlayerStatistics represents aggregated statistics for a player
type PlayerStatistics struct {
	PlayerID      string
	RoundsPlayed  int
	HandsPlayed   int
	Wins          int
	Losses        int
	Pushes        int
	Blackjacks    int
	Busts         int
	Splits        int
	DoubleDowns   int
	SideBetWins   int
	TotalBet      int64
	TotalWinnings int64
	LastUpdated   time.Time
}

// Add folds a round into the statistics
func (s *PlayerStatistics) Add(r *RoundRecord) {
	s.RoundsPlayed++
	for _, h := range r.Hands {
		s.HandsPlayed++
		switch h.Outcome {
		case OutcomeWin:
			s.Wins++
		case OutcomeBlackjack:
			s.Wins++
			s.Blackjacks++
		case OutcomePush:
			s.Pushes++
		case OutcomeLose:
			s.Losses++
		}
		if h.FinalScore > 21 {
			s.Busts++
		}
		if h.IsSplit {
			s.Splits++
		}
		if h.IsDoubledDown {
			s.DoubleDowns++
		}
	}
	for _, sb := range r.SideBets {
		if sb.Payout > 0 {
			s.SideBetWins++
		}
	}
	s.TotalBet += r.Wagered()
	s.TotalWinnings += r.Returned()
	if r.CompletedAt.After(s.LastUpdated) {
		s.LastUpdated = r.CompletedAt
	}
}

// Merge adds another player's totals into s
func (s *PlayerStatistics) Merge(other *PlayerStatistics) {
	s.RoundsPlayed += other.RoundsPlayed
	s.HandsPlayed += other.HandsPlayed
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
	s.Splits += other.Splits
	s.DoubleDowns += other.DoubleDowns
	s.SideBetWins += other.SideBetWins
	s.TotalBet += other.TotalBet
	s.TotalWinnings += other.TotalWinnings
	if other.LastUpdated.After(s.LastUpdated) {
		s.LastUpdated = other.LastUpdated
	}
}

// NetProfit calculates the player's net profit
func (s *PlayerStatistics) NetProfit() int64 {
	return s.TotalWinnings - s.TotalBet
}

// WinRate calculates the player's hand win rate as a percentage
func (s *PlayerStatistics) WinRate() float64 {
	if s.HandsPlayed == 0 {
		return 0.0
	}
	return float64(s.Wins) / float64(s.HandsPlayed) * 100.0
}
