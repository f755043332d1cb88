package statistics

import (
	"context"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/repositories/round"
)

// Service provides methods for retrieving and processing player statistics
type Service struct {
	repository round.Repository
}

// NewService creates a new statistics service
func NewService(repository round.Repository) *Service {
	return &Service{
		repository: repository,
	}
}

// Summary is a player's record with derived rates
type Summary struct {
	*entities.PlayerStatistics
	WinRate      float64                 `json:"win_rate"`    // Percentage of hands won
	ProfitRate   float64                 `json:"profit_rate"` // Returned per dollar staked
	NetProfit    int64                   `json:"net_profit"`
	AverageNet   float64                 `json:"average_net"` // Per round
	BiggestWin   int64                   `json:"biggest_win"`
	BiggestLoss  int64                   `json:"biggest_loss"`
	RecentRounds []*entities.RoundRecord `json:"recent_rounds"`
}

// Summary builds a player's statistics and attaches up to recent of their
// latest rounds
func (s *Service) Summary(ctx context.Context, playerID string, recent int) (*Summary, error) {
	stats, err := s.repository.GetPlayerStatistics(ctx, playerID)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to load statistics", err)
	}

	rounds, err := s.repository.GetPlayerRounds(ctx, playerID, 0)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to load rounds", err)
	}

	summary := &Summary{
		PlayerStatistics: stats,
		WinRate:          stats.WinRate(),
		NetProfit:        stats.NetProfit(),
	}
	if stats.TotalBet > 0 {
		summary.ProfitRate = float64(stats.TotalWinnings) / float64(stats.TotalBet)
	}
	if stats.RoundsPlayed > 0 {
		summary.AverageNet = float64(stats.NetProfit()) / float64(stats.RoundsPlayed)
	}

	for _, r := range rounds {
		net := r.Net()
		if net > summary.BiggestWin {
			summary.BiggestWin = net
		}
		if net < summary.BiggestLoss {
			summary.BiggestLoss = net
		}
	}

	if recent > len(rounds) {
		recent = len(rounds)
	}
	if recent > 0 {
		summary.RecentRounds = rounds[:recent]
	}

	return summary, nil
}

// History returns a player's latest rounds, newest first
func (s *Service) History(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error) {
	rounds, err := s.repository.GetPlayerRounds(ctx, playerID, limit)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to load rounds", err)
	}
	return rounds, nil
}
