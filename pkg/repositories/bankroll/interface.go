package bankroll

import (
	"context"
	"errors"

	"github.com/fadedpez/blackjack/pkg/entities"
)

var ErrBankrollNotFound = errors.New("bankroll not found")

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_bankroll

// Repository defines the interface for bankroll data operations
type Repository interface {
	// GetBankroll retrieves a bankroll by player ID
	GetBankroll(ctx context.Context, playerID string) (*entities.Bankroll, error)

	// SaveBankroll creates or updates a bankroll
	SaveBankroll(ctx context.Context, bankroll *entities.Bankroll) error

	// AddTransaction records a new transaction
	AddTransaction(ctx context.Context, transaction *entities.Transaction) error

	// GetTransactions retrieves the most recent transactions for a player, newest first
	GetTransactions(ctx context.Context, playerID string, limit int) ([]*entities.Transaction, error)

	// Close closes any resources used by the repository
	Close() error
}
