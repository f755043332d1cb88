package bankroll

import (
	"context"
	"sync"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/google/uuid"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	bankrolls    map[string]*entities.Bankroll
	transactions map[string][]*entities.Transaction
	mu           sync.RWMutex
}

// NewMemoryRepository creates a new in-memory bankroll repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bankrolls:    make(map[string]*entities.Bankroll),
		transactions: make(map[string][]*entities.Transaction),
	}
}

func copyBankroll(b *entities.Bankroll) *entities.Bankroll {
	c := entities.NewBankroll(b.PlayerID, b.Balance)
	c.LastUpdated = b.LastUpdated
	return c
}

// GetBankroll retrieves a bankroll by player ID
func (r *MemoryRepository) GetBankroll(ctx context.Context, playerID string) (*entities.Bankroll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bankroll, exists := r.bankrolls[playerID]
	if !exists {
		return nil, ErrBankrollNotFound
	}

	return copyBankroll(bankroll), nil
}

// SaveBankroll creates or updates a bankroll
func (r *MemoryRepository) SaveBankroll(ctx context.Context, bankroll *entities.Bankroll) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bankrolls[bankroll.PlayerID] = copyBankroll(bankroll)
	return nil
}

// AddTransaction records a new transaction
func (r *MemoryRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}

	txCopy := *transaction
	r.transactions[transaction.PlayerID] = append(r.transactions[transaction.PlayerID], &txCopy)

	return nil
}

// GetTransactions retrieves recent transactions for a player, newest first
func (r *MemoryRepository) GetTransactions(ctx context.Context, playerID string, limit int) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions := r.transactions[playerID]
	result := make([]*entities.Transaction, 0, min(limit, len(transactions)))

	for i := len(transactions) - 1; i >= 0 && len(result) < limit; i-- {
		txCopy := *transactions[i]
		result = append(result, &txCopy)
	}

	return result, nil
}

// Close is a no-op for the in-memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
