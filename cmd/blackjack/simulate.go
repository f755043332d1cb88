package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/entities"
	bankrollRepo "github.com/fadedpez/blackjack/pkg/repositories/bankroll"
	roundRepo "github.com/fadedpez/blackjack/pkg/repositories/round"
	bankrollService "github.com/fadedpez/blackjack/pkg/services/bankroll"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
	"github.com/fadedpez/blackjack/pkg/services/statistics"
	"golang.org/x/sync/errgroup"
)

// SimulateCmd plays many sessions with a fixed strategy. Simulated players
// use in-memory stores so the configured database is left untouched.
type SimulateCmd struct {
	Sessions int `default:"8" help:"Number of independent sessions"`
	Rounds   int `default:"100" help:"Maximum rounds per session"`
	Workers  int `help:"Sessions run concurrently (default: number of CPUs)"`
}

// sessionOutcome summarizes one simulated session
type sessionOutcome struct {
	PlayerID     string
	RoundsPlayed int
	FinalBalance int64
	Busted       bool
}

func (cmd *SimulateCmd) Run(globals *Globals) error {
	ctx := context.Background()
	if cmd.Sessions <= 0 || cmd.Rounds <= 0 {
		return fmt.Errorf("sessions and rounds must be positive")
	}

	a, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	defer a.Close()

	workers := cmd.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	seed := globals.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	bankrolls := bankrollService.NewService(bankrollRepo.NewMemoryRepository(), a.cfg.StartingBalance,
		bankrollService.WithLogger(a.logger))
	rounds := roundRepo.NewMemoryRepository()
	defer rounds.Close()

	sim := &simulator{
		bankrolls: bankrolls,
		rounds:    rounds,
		stakes:    a.stakes(),
		deckCount: a.cfg.DeckCount,
		maxRounds: cmd.Rounds,
		logger:    a.logger,
	}

	start := time.Now()
	outcomes, err := sim.run(ctx, globals.Player, cmd.Sessions, workers, rng)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	return report(ctx, statistics.NewService(rounds), outcomes, a.cfg.StartingBalance, elapsed)
}

// simulator runs auto-played sessions against shared stores
type simulator struct {
	bankrolls *bankrollService.Service
	rounds    blackjack.RoundStore
	stakes    blackjack.Stakes
	deckCount int
	maxRounds int
	logger    *logging.Logger
}

func (s *simulator) run(ctx context.Context, prefix string, sessions, workers int, rng *rand.Rand) ([]sessionOutcome, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	outcomes := make([]sessionOutcome, 0, sessions)

	for i := 0; i < sessions; i++ {
		playerID := fmt.Sprintf("%s-sim-%d", prefix, i+1)
		// Independent RNG per session to avoid contention
		sessionSeed := rng.Int63()

		g.Go(func() error {
			outcome, err := s.playSession(ctx, playerID, sessionSeed)
			if err != nil {
				return fmt.Errorf("session %s: %w", playerID, err)
			}
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (s *simulator) playSession(ctx context.Context, playerID string, seed int64) (sessionOutcome, error) {
	session, err := blackjack.NewSession(ctx, blackjack.SessionConfig{
		PlayerID:  playerID,
		Stakes:    s.stakes,
		DeckCount: s.deckCount,
		Rand:      rand.New(rand.NewSource(seed)),
		Logger:    s.logger,
	}, s.bankrolls, s.rounds)
	if err != nil {
		return sessionOutcome{}, err
	}

	played := 0
	for played < s.maxRounds && session.CanPlay() {
		if err := ctx.Err(); err != nil {
			return sessionOutcome{}, err
		}

		round, err := session.Deal(ctx)
		if err != nil {
			return sessionOutcome{}, err
		}
		for round.Phase == blackjack.PhasePlayer {
			if err := session.Act(ctx, chooseByPolicy(round.Snapshot())); err != nil {
				return sessionOutcome{}, err
			}
		}
		if _, err := session.Finish(ctx); err != nil {
			return sessionOutcome{}, err
		}
		played++
	}

	return sessionOutcome{
		PlayerID:     playerID,
		RoundsPlayed: played,
		FinalBalance: session.Balance(),
		Busted:       !session.CanPlay(),
	}, nil
}

// chooseByPolicy is a simplified basic strategy: split aces and eights,
// double on 10 or 11 against a weaker dealer card, hit hard totals below 12,
// hit 12-16 against a dealer 7 or better, hit soft 17 and below, else stand.
func chooseByPolicy(s blackjack.Snapshot) blackjack.Action {
	if s.ActiveHand < 0 || s.ActiveHand >= len(s.Hands) {
		return blackjack.ActionStand
	}
	hand := s.Hands[s.ActiveHand]
	dealerUp := s.Dealer.Total
	available := func(action blackjack.Action) bool {
		for _, a := range s.Available {
			if a == action {
				return true
			}
		}
		return false
	}

	if available(blackjack.ActionSplit) && len(hand.Cards) == 2 {
		if c, err := entities.ParseCard(hand.Cards[0]); err == nil && (c.Rank == entities.Ace || c.Rank == entities.Eight) {
			return blackjack.ActionSplit
		}
	}

	if available(blackjack.ActionDoubleDown) && !hand.Soft && (hand.Total == 10 || hand.Total == 11) && dealerUp < hand.Total {
		return blackjack.ActionDoubleDown
	}

	switch {
	case hand.Soft && hand.Total <= 17:
		return blackjack.ActionHit
	case hand.Soft:
		return blackjack.ActionStand
	case hand.Total < 12:
		return blackjack.ActionHit
	case hand.Total < 17 && dealerUp >= 7:
		return blackjack.ActionHit
	}
	return blackjack.ActionStand
}

func report(ctx context.Context, stats *statistics.Service, outcomes []sessionOutcome, startingBalance int64, elapsed time.Duration) error {
	var rounds, busted int
	var net int64
	var statsErr error
	totals := &entities.PlayerStatistics{}

	for _, o := range outcomes {
		rounds += o.RoundsPlayed
		net += o.FinalBalance - startingBalance
		if o.Busted {
			busted++
		}

		summary, err := stats.Summary(ctx, o.PlayerID, 0)
		if err != nil {
			statsErr = err
			continue
		}
		totals.Merge(summary.PlayerStatistics)
	}

	out := os.Stdout
	fmt.Fprintf(out, "Simulated %d sessions, %d rounds in %s\n", len(outcomes), rounds, elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "Sessions out of funds: %d\n", busted)
	fmt.Fprintf(out, "Hands: %d  Wins: %d  Losses: %d  Pushes: %d  Blackjacks: %d\n",
		totals.HandsPlayed, totals.Wins, totals.Losses, totals.Pushes, totals.Blackjacks)
	fmt.Fprintf(out, "Win rate: %.1f%%\n", totals.WinRate())
	fmt.Fprintf(out, "Net across sessions: %+d\n", net)
	if rounds > 0 {
		fmt.Fprintf(out, "Average per round: %+.2f\n", float64(net)/float64(rounds))
	}
	return statsErr
}
