package mock

import (
	"context"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/stretchr/testify/mock"
)

// Repository is a mock implementation of round.Repository
type Repository struct {
	mock.Mock
}

func New() *Repository {
	return &Repository{}
}

func (m *Repository) SaveRound(ctx context.Context, record *entities.RoundRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *Repository) GetPlayerRounds(ctx context.Context, playerID string, limit int) ([]*entities.RoundRecord, error) {
	args := m.Called(ctx, playerID, limit)
	if rounds, ok := args.Get(0).([]*entities.RoundRecord); ok {
		return rounds, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) GetPlayerStatistics(ctx context.Context, playerID string) (*entities.PlayerStatistics, error) {
	args := m.Called(ctx, playerID)
	if stats, ok := args.Get(0).(*entities.PlayerStatistics); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) Close() error {
	args := m.Called()
	return args.Error(0)
}
