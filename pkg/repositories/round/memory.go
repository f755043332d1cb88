package round

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	mu     sync.RWMutex
	rounds map[string][]*entities.RoundRecord // By player ID, oldest first
}

// NewMemoryRepository creates a new in-memory round repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rounds: make(map[string][]*entities.RoundRecord),
	}
}

// deepCopy keeps callers from sharing slices with the stored record
func deepCopy(record *entities.RoundRecord) (*entities.RoundRecord, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var out entities.RoundRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveRound stores a settled round
func (r *MemoryRepository) SaveRound(ctx context.Context, record *entities.RoundRecord) error {
	stored, err := deepCopy(record)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rounds := append(r.rounds[record.PlayerID], stored)
	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].CompletedAt.Before(rounds[j].CompletedAt)
	})
	r.rounds[record.PlayerID] = rounds
	return nil
}

// GetPlayerRounds returns a player's most recent rounds, newest first
func (r *MemoryRepository) GetPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rounds := r.rounds[playerID]
	result := make([]*entities.RoundRecord, 0, len(rounds))
	for i := len(rounds) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		c, err := deepCopy(rounds[i])
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

// GetPlayerStatistics aggregates every round a player has finished
func (r *MemoryRepository) GetPlayerStatistics(ctx context.Context, playerID string) (*entities.PlayerStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return aggregate(playerID, r.rounds[playerID]), nil
}

// Close is a no-op for the in-memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
