package bankroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	bankrollRepo "github.com/fadedpez/blackjack/pkg/repositories/bankroll"
	mock_bankroll "github.com/fadedpez/blackjack/pkg/repositories/bankroll/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newMockService(t *testing.T) (*Service, *mock_bankroll.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := mock_bankroll.NewMockRepository(ctrl)

	clock := quartz.NewMock(t)
	clock.Set(testNow)

	return NewService(repo, 1000, WithClock(clock), WithLogger(logging.Discard())), repo
}

func TestGetOrCreateExisting(t *testing.T) {
	service, repo := newMockService(t)
	ctx := context.Background()

	existing := entities.NewBankroll("player-1", 420)
	repo.EXPECT().GetBankroll(ctx, "player-1").Return(existing, nil)

	bankroll, err := service.GetOrCreate(ctx, "player-1")
	require.NoError(t, err)
	assert.Same(t, existing, bankroll)
}

func TestGetOrCreateOpensNewBankroll(t *testing.T) {
	service, repo := newMockService(t)
	ctx := context.Background()

	repo.EXPECT().GetBankroll(ctx, "player-1").Return(nil, bankrollRepo.ErrBankrollNotFound)
	repo.EXPECT().SaveBankroll(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, b *entities.Bankroll) error {
			assert.Equal(t, int64(1000), b.Balance)
			assert.Equal(t, testNow, b.LastUpdated)
			return nil
		})

	bankroll, err := service.GetOrCreate(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, "player-1", bankroll.PlayerID)
	assert.Equal(t, int64(1000), bankroll.Balance)
}

func TestGetOrCreateRepositoryError(t *testing.T) {
	service, repo := newMockService(t)
	ctx := context.Background()

	repo.EXPECT().GetBankroll(ctx, "player-1").Return(nil, errors.New("disk on fire"))

	_, err := service.GetOrCreate(ctx, "player-1")
	assert.True(t, types.IsGameError(err, types.ErrDatabaseError))
}

func TestGetBalance(t *testing.T) {
	service, repo := newMockService(t)
	ctx := context.Background()

	repo.EXPECT().GetBankroll(ctx, "player-1").Return(entities.NewBankroll("player-1", 250), nil)
	repo.EXPECT().GetBankroll(ctx, "ghost").Return(nil, bankrollRepo.ErrBankrollNotFound)

	balance, err := service.GetBalance(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, int64(250), balance)

	_, err = service.GetBalance(ctx, "ghost")
	assert.True(t, types.IsGameError(err, types.ErrPlayerNotFound))
}

func TestCommitFlushesPending(t *testing.T) {
	service, repo := newMockService(t)
	ctx := context.Background()

	bankroll := entities.NewBankroll("player-1", 1000)
	require.NoError(t, bankroll.Debit(100, entities.TransactionTypeWager, "round-1", "Blackjack bet"))
	require.NoError(t, bankroll.Credit(250, entities.TransactionTypePayout, "round-1", "Hand 1 WIN"))

	var recorded []*entities.Transaction
	gomock.InOrder(
		repo.EXPECT().SaveBankroll(ctx, bankroll).Return(nil),
		repo.EXPECT().AddTransaction(ctx, gomock.Any()).Times(2).DoAndReturn(
			func(_ context.Context, tx *entities.Transaction) error {
				recorded = append(recorded, tx)
				return nil
			}),
	)

	require.NoError(t, service.Commit(ctx, bankroll))
	assert.Equal(t, testNow, bankroll.LastUpdated)
	assert.Empty(t, bankroll.Pending())

	require.Len(t, recorded, 2)
	assert.Equal(t, int64(-100), recorded[0].Amount)
	assert.Equal(t, int64(900), recorded[0].BalanceAfter)
	assert.Equal(t, int64(250), recorded[1].Amount)
	assert.Equal(t, int64(1150), recorded[1].BalanceAfter)
	for _, tx := range recorded {
		assert.NotEmpty(t, tx.ID)
		assert.Equal(t, testNow, tx.Timestamp)
		assert.Equal(t, "round-1", tx.ReferenceID)
	}
}

func TestCommitKeepsPendingOnFailure(t *testing.T) {
	service, repo := newMockService(t)
	ctx := context.Background()

	bankroll := entities.NewBankroll("player-1", 1000)
	require.NoError(t, bankroll.Debit(100, entities.TransactionTypeWager, "round-1", "Blackjack bet"))

	repo.EXPECT().SaveBankroll(ctx, bankroll).Return(errors.New("locked"))

	err := service.Commit(ctx, bankroll)
	assert.True(t, types.IsGameError(err, types.ErrDatabaseError))
	assert.Len(t, bankroll.Pending(), 1)
}

func TestDepositWithMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := bankrollRepo.NewMemoryRepository()
	clock := quartz.NewMock(t)
	clock.Set(testNow)
	service := NewService(repo, 0, WithClock(clock), WithLogger(logging.Discard()))

	bankroll, err := service.Deposit(ctx, "player-1", 500)
	require.NoError(t, err)
	assert.Equal(t, DefaultStartingBalance+500, bankroll.Balance)

	balance, err := service.GetBalance(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), balance)

	txs, err := service.GetRecentTransactions(ctx, "player-1", 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entities.TransactionTypeDeposit, txs[0].Type)
	assert.Equal(t, int64(1500), txs[0].BalanceAfter)

	_, err = service.Deposit(ctx, "player-1", -5)
	assert.True(t, types.IsGameError(err, types.ErrInvalidArgument))
}
