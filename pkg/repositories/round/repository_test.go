package round

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/stretchr/testify/suite"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleRound(id string, minute int, outcome entities.Outcome, payout int64) *entities.RoundRecord {
	return &entities.RoundRecord{
		ID:          id,
		PlayerID:    "player-1",
		StartedAt:   baseTime.Add(time.Duration(minute) * time.Minute),
		CompletedAt: baseTime.Add(time.Duration(minute)*time.Minute + 20*time.Second),
		DealerCards: []string{"10♣", "8♠"},
		DealerScore: 18,
		DealerPlay:  true,
		Hands: []entities.HandRecord{{
			Index:      0,
			Cards:      []string{"10♥", "9♦"},
			FinalScore: 19,
			Wager:      100,
			Outcome:    outcome,
			Ratio:      float64(payout) / 100,
			Payout:     payout,
			Actions:    []string{"STAND"},
		}},
		SideBets: []entities.SideBetRecord{
			{Bet: "PERFECT_PAIRS", Stake: 10},
			{Bet: "TWENTY_ONE_PLUS_THREE", Kind: "FLUSH", Stake: 10, Ratio: 10, Payout: 100},
		},
		BalanceEnd: 1000,
	}
}

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

func (s *RepositoryTestSuite) TestSaveAndLoadRound() {
	record := sampleRound("round-1", 0, entities.OutcomeWin, 250)
	record.Hands = append(record.Hands, entities.HandRecord{
		Index:         1,
		Cards:         []string{"8♦", "2♥", "9♠"},
		FinalScore:    19,
		Wager:         200,
		IsSplit:       true,
		IsDoubledDown: true,
		Outcome:       entities.OutcomeWin,
		Ratio:         2.5,
		Payout:        500,
		Actions:       []string{"SPLIT", "DOUBLE_DOWN"},
	})
	s.Require().NoError(s.repo.SaveRound(s.ctx, record))

	rounds, err := s.repo.GetPlayerRounds(s.ctx, "player-1", 10)
	s.Require().NoError(err)
	s.Require().Len(rounds, 1)

	got := rounds[0]
	s.Equal("round-1", got.ID)
	s.True(record.StartedAt.Equal(got.StartedAt))
	s.True(record.CompletedAt.Equal(got.CompletedAt))
	s.Equal(record.DealerCards, got.DealerCards)
	s.Equal(18, got.DealerScore)
	s.True(got.DealerPlay)
	s.Equal(record.Hands, got.Hands)
	s.Equal(record.SideBets, got.SideBets)
	s.Equal(record.Net(), got.Net())
}

func (s *RepositoryTestSuite) TestRoundsNewestFirstWithLimit() {
	s.Require().NoError(s.repo.SaveRound(s.ctx, sampleRound("round-2", 2, entities.OutcomeLose, 0)))
	s.Require().NoError(s.repo.SaveRound(s.ctx, sampleRound("round-1", 1, entities.OutcomeWin, 250)))
	s.Require().NoError(s.repo.SaveRound(s.ctx, sampleRound("round-3", 3, entities.OutcomePush, 100)))

	rounds, err := s.repo.GetPlayerRounds(s.ctx, "player-1", 2)
	s.Require().NoError(err)
	s.Require().Len(rounds, 2)
	s.Equal("round-3", rounds[0].ID)
	s.Equal("round-2", rounds[1].ID)

	all, err := s.repo.GetPlayerRounds(s.ctx, "player-1", 0)
	s.Require().NoError(err)
	s.Len(all, 3)

	none, err := s.repo.GetPlayerRounds(s.ctx, "player-2", 10)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositoryTestSuite) TestPlayerStatistics() {
	s.Require().NoError(s.repo.SaveRound(s.ctx, sampleRound("round-1", 1, entities.OutcomeWin, 250)))
	s.Require().NoError(s.repo.SaveRound(s.ctx, sampleRound("round-2", 2, entities.OutcomeLose, 0)))
	s.Require().NoError(s.repo.SaveRound(s.ctx, sampleRound("round-3", 3, entities.OutcomeBlackjack, 400)))

	stats, err := s.repo.GetPlayerStatistics(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("player-1", stats.PlayerID)
	s.Equal(3, stats.RoundsPlayed)
	s.Equal(3, stats.HandsPlayed)
	s.Equal(2, stats.Wins)
	s.Equal(1, stats.Losses)
	s.Equal(1, stats.Blackjacks)
	s.Equal(3, stats.SideBetWins)
	s.Equal(int64(360), stats.TotalBet)
	s.Equal(int64(950), stats.TotalWinnings)
	s.True(baseTime.Add(3*time.Minute + 20*time.Second).Equal(stats.LastUpdated))

	empty, err := s.repo.GetPlayerStatistics(s.ctx, "player-2")
	s.Require().NoError(err)
	s.Zero(empty.RoundsPlayed)
}
