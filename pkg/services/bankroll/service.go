package bankroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	bankrollRepo "github.com/fadedpez/blackjack/pkg/repositories/bankroll"
	"github.com/google/uuid"
)

const DefaultStartingBalance int64 = 1000

// Service handles bankroll business logic
type Service struct {
	repo            bankrollRepo.Repository
	startingBalance int64
	clock           quartz.Clock
	logger          *logging.Logger
}

// Option customizes the service
type Option func(*Service)

// WithClock sets the clock used to stamp bankrolls and transactions
func WithClock(clock quartz.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLogger sets the service logger
func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new bankroll service. New players start with
// startingBalance, or DefaultStartingBalance when it is not positive.
func NewService(repo bankrollRepo.Repository, startingBalance int64, opts ...Option) *Service {
	if startingBalance <= 0 {
		startingBalance = DefaultStartingBalance
	}
	s := &Service{
		repo:            repo,
		startingBalance: startingBalance,
		clock:           quartz.NewReal(),
		logger:          logging.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate retrieves a bankroll or opens one with the starting balance
func (s *Service) GetOrCreate(ctx context.Context, playerID string) (*entities.Bankroll, error) {
	bankroll, err := s.repo.GetBankroll(ctx, playerID)
	if err == nil {
		return bankroll, nil
	}
	if !errors.Is(err, bankrollRepo.ErrBankrollNotFound) {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to load bankroll", err)
	}

	bankroll = entities.NewBankroll(playerID, s.startingBalance)
	bankroll.LastUpdated = s.clock.Now()
	if err := s.repo.SaveBankroll(ctx, bankroll); err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to create bankroll", err)
	}

	s.logger.Info("Opened bankroll for player %s with %d", playerID, s.startingBalance)
	return bankroll, nil
}

// GetBalance returns the current balance for a player
func (s *Service) GetBalance(ctx context.Context, playerID string) (int64, error) {
	bankroll, err := s.repo.GetBankroll(ctx, playerID)
	if err != nil {
		if errors.Is(err, bankrollRepo.ErrBankrollNotFound) {
			return 0, types.WrapError(types.ErrPlayerNotFound, "no bankroll for "+playerID, err)
		}
		return 0, types.WrapError(types.ErrDatabaseError, "failed to load bankroll", err)
	}
	return bankroll.Balance, nil
}

// Commit stores the balance and every pending transaction, then clears the
// pending list
func (s *Service) Commit(ctx context.Context, bankroll *entities.Bankroll) error {
	now := s.clock.Now()
	bankroll.LastUpdated = now

	if err := s.repo.SaveBankroll(ctx, bankroll); err != nil {
		return types.WrapError(types.ErrDatabaseError, "failed to save bankroll", err)
	}

	pending := bankroll.Pending()
	for _, tx := range pending {
		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		tx.Timestamp = now
		if err := s.repo.AddTransaction(ctx, tx); err != nil {
			return types.WrapError(types.ErrDatabaseError,
				fmt.Sprintf("failed to record %s transaction", tx.Type), err)
		}
	}
	bankroll.ClearPending()

	s.logger.Debug("Committed bankroll for player %s: balance %d, %d transactions",
		bankroll.PlayerID, bankroll.Balance, len(pending))
	return nil
}

// Deposit adds funds to a player's bankroll, opening it if needed
func (s *Service) Deposit(ctx context.Context, playerID string, amount int64) (*entities.Bankroll, error) {
	bankroll, err := s.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := bankroll.Credit(amount, entities.TransactionTypeDeposit, "", "Deposit"); err != nil {
		return nil, types.WrapError(types.ErrInvalidArgument, "invalid deposit", err)
	}
	if err := s.Commit(ctx, bankroll); err != nil {
		return nil, err
	}
	s.logger.Info("Deposited %d for player %s, balance %d", amount, playerID, bankroll.Balance)
	return bankroll, nil
}

// GetRecentTransactions retrieves recent transactions for a player
func (s *Service) GetRecentTransactions(ctx context.Context, playerID string, limit int) ([]*entities.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetTransactions(ctx, playerID, limit)
}
