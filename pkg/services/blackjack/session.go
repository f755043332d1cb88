package blackjack

import (
	"context"
	"math/rand"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
)

// BankrollStore loads and stores a player's bankroll
type BankrollStore interface {
	GetOrCreate(ctx context.Context, playerID string) (*entities.Bankroll, error)
	Commit(ctx context.Context, bankroll *entities.Bankroll) error
}

// RoundStore keeps the history of finished rounds
type RoundStore interface {
	SaveRound(ctx context.Context, record *entities.RoundRecord) error
}

// ShoeFactory builds the shoe for a new round
type ShoeFactory func() *entities.Shoe

// SessionConfig configures a Session
type SessionConfig struct {
	PlayerID    string
	Stakes      Stakes
	DeckCount   int
	Rand        *rand.Rand
	Clock       quartz.Clock
	Logger      *logging.Logger
	ShoeFactory ShoeFactory
}

// Session plays consecutive rounds for one player, persisting the bankroll
// after every change and a record after every settled round
type Session struct {
	playerID string
	stakes   Stakes
	clock    quartz.Clock
	logger   *logging.Logger
	newShoe  ShoeFactory

	bankrolls BankrollStore
	rounds    RoundStore

	bankroll  *entities.Bankroll
	current   *Round
	startedAt time.Time
}

// NewSession loads the player's bankroll and prepares a session
func NewSession(ctx context.Context, cfg SessionConfig, bankrolls BankrollStore, rounds RoundStore) (*Session, error) {
	if cfg.PlayerID == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "player ID is required")
	}
	if bankrolls == nil {
		return nil, types.NewGameError(types.ErrInvalidArgument, "bankroll store is required")
	}
	if cfg.Stakes == (Stakes{}) {
		cfg.Stakes = DefaultStakes()
	}
	if err := cfg.Stakes.Validate(); err != nil {
		return nil, types.WrapError(types.ErrInvalidArgument, "invalid stakes", err)
	}
	if cfg.DeckCount <= 0 {
		cfg.DeckCount = StandardDecks
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default
	}
	if cfg.ShoeFactory == nil {
		deckCount, rng := cfg.DeckCount, cfg.Rand
		cfg.ShoeFactory = func() *entities.Shoe {
			return entities.NewShoe(deckCount, rng)
		}
	}

	bankroll, err := bankrolls.GetOrCreate(ctx, cfg.PlayerID)
	if err != nil {
		return nil, err
	}

	return &Session{
		playerID:  cfg.PlayerID,
		stakes:    cfg.Stakes,
		clock:     cfg.Clock,
		logger:    cfg.Logger.With("player", cfg.PlayerID),
		newShoe:   cfg.ShoeFactory,
		bankrolls: bankrolls,
		rounds:    rounds,
		bankroll:  bankroll,
	}, nil
}

// Balance returns the player's current balance
func (s *Session) Balance() int64 {
	return s.bankroll.Balance
}

// Stakes returns the stakes placed every round
func (s *Session) Stakes() Stakes {
	return s.stakes
}

// CanPlay reports whether the balance covers another round
func (s *Session) CanPlay() bool {
	return s.bankroll.CanCover(s.stakes.Minimum())
}

// Current returns the round in progress, or nil
func (s *Session) Current() *Round {
	return s.current
}

// Deal starts a new round on a fresh shoe
func (s *Session) Deal(ctx context.Context) (*Round, error) {
	if s.current != nil && s.current.Phase != PhaseSettled {
		return nil, types.NewGameError(types.ErrInvalidState, "previous round is still in progress")
	}

	round, err := StartRound(s.bankroll, s.newShoe(), s.stakes, WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.current = round
	s.startedAt = s.clock.Now()

	if err := s.bankrolls.Commit(ctx, s.bankroll); err != nil {
		return nil, err
	}
	s.logger.Info("Dealt round %s, balance %d", round.ID, s.bankroll.Balance)
	return round, nil
}

// Act applies a player decision to the current round
func (s *Session) Act(ctx context.Context, action Action) error {
	if s.current == nil {
		return types.NewGameError(types.ErrRoundNotReady, "no round has been dealt")
	}
	if err := s.current.Apply(action); err != nil {
		return err
	}
	if action == ActionDoubleDown || action == ActionSplit {
		return s.bankrolls.Commit(ctx, s.bankroll)
	}
	return nil
}

// Finish plays the dealer, settles the round and stores its record
func (s *Session) Finish(ctx context.Context) (*Result, error) {
	if s.current == nil {
		return nil, types.NewGameError(types.ErrRoundNotReady, "no round has been dealt")
	}
	round := s.current

	if err := round.RunDealerPhase(); err != nil {
		return nil, err
	}
	result, err := round.Settle()
	if err != nil {
		return nil, err
	}

	if err := s.bankrolls.Commit(ctx, s.bankroll); err != nil {
		return nil, err
	}

	if s.rounds != nil {
		record := round.Record(s.startedAt, s.clock.Now())
		if err := s.rounds.SaveRound(ctx, record); err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "failed to save round", err)
		}
	}

	s.logger.Info("Settled round %s: net %d, balance %d", round.ID, result.Net(), s.bankroll.Balance)
	return result, nil
}
