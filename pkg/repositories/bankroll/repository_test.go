package bankroll

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite runs the same checks against every implementation
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() Repository
	repo    Repository
	ctx     context.Context
}

func TestMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() Repository { return NewMemoryRepository() },
	})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() Repository {
			repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "blackjack.db"), logging.Discard())
			if err != nil {
				t.Fatalf("open sqlite repository: %v", err)
			}
			return repo
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo()
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.NoError(s.repo.Close())
}

func (s *RepositoryTestSuite) TestGetMissingBankroll() {
	_, err := s.repo.GetBankroll(s.ctx, "nobody")
	s.ErrorIs(err, ErrBankrollNotFound)
}

func (s *RepositoryTestSuite) TestSaveAndGetBankroll() {
	updated := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	bankroll := entities.NewBankroll("player-1", 1000)
	bankroll.LastUpdated = updated

	s.Require().NoError(s.repo.SaveBankroll(s.ctx, bankroll))

	got, err := s.repo.GetBankroll(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(1000), got.Balance)
	s.True(updated.Equal(got.LastUpdated))

	bankroll.Balance = 880
	s.Require().NoError(s.repo.SaveBankroll(s.ctx, bankroll))
	got, err = s.repo.GetBankroll(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(880), got.Balance)
}

func (s *RepositoryTestSuite) TestGetBankrollReturnsCopy() {
	s.Require().NoError(s.repo.SaveBankroll(s.ctx, entities.NewBankroll("player-1", 500)))

	got, err := s.repo.GetBankroll(s.ctx, "player-1")
	s.Require().NoError(err)
	got.Balance = 0

	again, err := s.repo.GetBankroll(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(500), again.Balance)
}

func (s *RepositoryTestSuite) TestTransactionsNewestFirst() {
	s.Require().NoError(s.repo.SaveBankroll(s.ctx, entities.NewBankroll("player-1", 1000)))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	amounts := []int64{-100, -10, -10, 150}
	for i, amount := range amounts {
		tx := &entities.Transaction{
			PlayerID:     "player-1",
			Amount:       amount,
			Type:         entities.TransactionTypeWager,
			ReferenceID:  "round-1",
			Description:  "test",
			Timestamp:    base.Add(time.Duration(i) * time.Second),
			BalanceAfter: 1000 + amount,
		}
		s.Require().NoError(s.repo.AddTransaction(s.ctx, tx))
		s.NotEmpty(tx.ID)
	}

	txs, err := s.repo.GetTransactions(s.ctx, "player-1", 3)
	s.Require().NoError(err)
	s.Require().Len(txs, 3)
	s.Equal(int64(150), txs[0].Amount)
	s.Equal(int64(-10), txs[2].Amount)
	s.Equal(entities.TransactionTypeWager, txs[0].Type)
	s.True(base.Add(3 * time.Second).Equal(txs[0].Timestamp))

	none, err := s.repo.GetTransactions(s.ctx, "someone-else", 10)
	s.Require().NoError(err)
	s.Empty(none)
}
