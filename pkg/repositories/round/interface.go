package round

import (
	"context"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// Repository stores the history of settled rounds
type Repository interface {
	// SaveRound stores a settled round
	SaveRound(ctx context.Context, record *entities.RoundRecord) error

	// GetPlayerRounds returns a player's most recent rounds, newest first.
	// A limit of zero or less returns every round.
	GetPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error)

	// GetPlayerStatistics aggregates every round a player has finished
	GetPlayerStatistics(ctx context.Context, playerID string) (*entities.PlayerStatistics, error)

	// Close closes any resources used by the repository
	Close() error
}

// aggregate folds rounds into statistics
func aggregate(playerID string, rounds []*entities.RoundRecord) *entities.PlayerStatistics {
	stats := &entities.PlayerStatistics{PlayerID: playerID}
	for _, r := range rounds {
		stats.Add(r)
	}
	return stats
}
