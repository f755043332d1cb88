package blackjack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake stores for testing
type fakeBankrollStore struct {
	bankroll *entities.Bankroll
	commits  []int64
	stored   []*entities.Transaction
}

func (f *fakeBankrollStore) GetOrCreate(ctx context.Context, playerID string) (*entities.Bankroll, error) {
	return f.bankroll, nil
}

func (f *fakeBankrollStore) Commit(ctx context.Context, bankroll *entities.Bankroll) error {
	f.commits = append(f.commits, bankroll.Balance)
	f.stored = append(f.stored, bankroll.Pending()...)
	bankroll.ClearPending()
	return nil
}

type fakeRoundStore struct {
	records []*entities.RoundRecord
	err     error
}

func (f *fakeRoundStore) SaveRound(ctx context.Context, record *entities.RoundRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func stackedShoes(decks ...[]string) ShoeFactory {
	i := 0
	return func() *entities.Shoe {
		cards := entities.MustParseCards(decks[i%len(decks)]...)
		i++
		return entities.NewShoeFromCards(cards)
	}
}

func newTestSession(t *testing.T, balance int64, rounds *fakeRoundStore, shoes ShoeFactory) (*Session, *fakeBankrollStore, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	bankrolls := &fakeBankrollStore{bankroll: entities.NewBankroll("player-1", balance)}
	session, err := NewSession(context.Background(), SessionConfig{
		PlayerID:    "player-1",
		Clock:       clock,
		Logger:      logging.Discard(),
		ShoeFactory: shoes,
	}, bankrolls, rounds)
	require.NoError(t, err)
	return session, bankrolls, clock
}

func TestSessionPlaysRound(t *testing.T) {
	ctx := context.Background()
	rounds := &fakeRoundStore{}
	session, bankrolls, clock := newTestSession(t, 1000, rounds,
		stackedShoes([]string{"6h", "10c", "5d", "8s", "Kc"}))

	assert.True(t, session.CanPlay())
	assert.Equal(t, DefaultStakes(), session.Stakes())

	round, err := session.Deal(ctx)
	require.NoError(t, err)
	assert.Same(t, round, session.Current())
	assert.Equal(t, []int64{880}, bankrolls.commits)

	require.NoError(t, session.Act(ctx, ActionDoubleDown))
	assert.Equal(t, []int64{880, 780}, bankrolls.commits)

	clock.Advance(30 * time.Second)
	result, err := session.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.OutcomeBlackjack, result.Hands[0].Outcome)
	assert.Equal(t, int64(1580), session.Balance())
	assert.Equal(t, []int64{880, 780, 1580}, bankrolls.commits)
	assert.Len(t, bankrolls.stored, 5)

	require.Len(t, rounds.records, 1)
	record := rounds.records[0]
	assert.Equal(t, round.ID, record.ID)
	assert.Equal(t, 30*time.Second, record.CompletedAt.Sub(record.StartedAt))
	assert.Equal(t, int64(1580), record.BalanceEnd)
}

func TestSessionRejectsDealMidRound(t *testing.T) {
	ctx := context.Background()
	session, _, _ := newTestSession(t, 1000, &fakeRoundStore{},
		stackedShoes([]string{"10h", "10c", "9d", "8s"}))

	_, err := session.Deal(ctx)
	require.NoError(t, err)

	_, err = session.Deal(ctx)
	assert.True(t, types.IsGameError(err, types.ErrInvalidState))

	err = session.Act(ctx, ActionSplit)
	assert.True(t, errors.Is(err, ErrIllegalAction))

	_, err = session.Finish(ctx)
	assert.True(t, types.IsGameError(err, types.ErrRoundNotReady))

	require.NoError(t, session.Act(ctx, ActionStand))
	_, err = session.Finish(ctx)
	require.NoError(t, err)

	_, err = session.Deal(ctx)
	assert.NoError(t, err)
}

func TestSessionEndsWhenBankrollRunsOut(t *testing.T) {
	ctx := context.Background()
	session, _, _ := newTestSession(t, 250, &fakeRoundStore{},
		stackedShoes([]string{"10h", "10c", "6d", "9s"}))

	for session.CanPlay() {
		_, err := session.Deal(ctx)
		require.NoError(t, err)
		require.NoError(t, session.Act(ctx, ActionStand))
		_, err = session.Finish(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(10), session.Balance())
	_, err := session.Deal(ctx)
	assert.True(t, types.IsGameError(err, types.ErrInsufficientBankroll))
}

func TestSessionRoundStoreFailure(t *testing.T) {
	ctx := context.Background()
	rounds := &fakeRoundStore{err: errors.New("disk full")}
	session, _, _ := newTestSession(t, 1000, rounds,
		stackedShoes([]string{"10h", "10c", "9d", "8s"}))

	_, err := session.Deal(ctx)
	require.NoError(t, err)
	require.NoError(t, session.Act(ctx, ActionStand))

	_, err = session.Finish(ctx)
	assert.True(t, types.IsGameError(err, types.ErrDatabaseError))
	assert.Equal(t, int64(1130), session.Balance())
}

func TestNewSessionValidation(t *testing.T) {
	ctx := context.Background()
	store := &fakeBankrollStore{bankroll: entities.NewBankroll("p", 100)}

	_, err := NewSession(ctx, SessionConfig{}, store, nil)
	assert.True(t, types.IsGameError(err, types.ErrInvalidArgument))

	_, err = NewSession(ctx, SessionConfig{PlayerID: "p"}, nil, nil)
	assert.True(t, types.IsGameError(err, types.ErrInvalidArgument))

	_, err = NewSession(ctx, SessionConfig{PlayerID: "p", Stakes: Stakes{PerfectPairs: 10}}, store, nil)
	assert.True(t, types.IsGameError(err, types.ErrInvalidArgument))

	session, err := NewSession(ctx, SessionConfig{PlayerID: "p", Logger: logging.Discard()}, store, nil)
	require.NoError(t, err)
	assert.False(t, session.CanPlay())
}
