package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjack/internal/config"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/db/migrations"
	bankrollRepo "github.com/fadedpez/blackjack/pkg/repositories/bankroll"
	roundRepo "github.com/fadedpez/blackjack/pkg/repositories/round"
	"github.com/fadedpez/blackjack/pkg/scheduler"
	bankrollService "github.com/fadedpez/blackjack/pkg/services/bankroll"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
	"github.com/fadedpez/blackjack/pkg/services/statistics"
)

// app holds the wired services for one command invocation
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	bankrolls *bankrollService.Service
	rounds    roundRepo.Repository
	stats     *statistics.Service
	closers   []func() error
}

func newApp(ctx context.Context, globals *Globals) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if globals.Debug {
		level = logging.DEBUG
	}
	logger := logging.NewLogger(level)

	a := &app{cfg: cfg, logger: logger}

	var bankrolls bankrollRepo.Repository
	switch cfg.StorageType {
	case config.StorageSQLite:
		db, err := migrations.Open(cfg.DatabasePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		bankrolls = bankrollRepo.NewSQLiteRepositoryFromDB(db, logger)
		a.rounds = roundRepo.NewSQLiteRepositoryFromDB(db, logger)
		logger.Debug("Using SQLite storage at %s", cfg.DatabasePath())
	default:
		bankrolls = bankrollRepo.NewMemoryRepository()
		a.rounds = roundRepo.NewMemoryRepository()
		logger.Debug("Using in-memory storage")
	}

	stopMaintenance := func() error { return nil }
	if cfg.ElasticsearchURL != "" {
		esRepo, err := roundRepo.NewElasticsearchRepository(ctx, a.rounds, roundRepo.ElasticsearchConfig{
			URL:         cfg.ElasticsearchURL,
			Username:    cfg.ElasticsearchUsername,
			Password:    cfg.ElasticsearchPassword,
			IndexPrefix: cfg.ElasticsearchIndexPrefix,
		}, logger)
		if err != nil {
			logger.Warn("Round indexing disabled: %v", err)
		} else {
			a.rounds = esRepo
			maintenance := scheduler.NewIndexMaintenanceScheduler(esRepo, 0, quartz.NewReal(), logger)
			maintenance.Start(ctx)
			stopMaintenance = func() error {
				maintenance.Stop()
				// Last attempt for rounds that never made it into the index
				if _, err := esRepo.RetryFailed(context.Background()); err != nil {
					logger.Warn("Rounds left unindexed: %v", err)
				}
				return nil
			}
		}
	}

	// Repositories close before the shared database handle
	a.closers = append([]func() error{stopMaintenance, bankrolls.Close, a.rounds.Close}, a.closers...)

	a.bankrolls = bankrollService.NewService(bankrolls, cfg.StartingBalance, bankrollService.WithLogger(logger))
	a.stats = statistics.NewService(a.rounds)
	return a, nil
}

func (a *app) stakes() blackjack.Stakes {
	return blackjack.Stakes{
		Base:               a.cfg.BaseBet,
		PerfectPairs:       a.cfg.PerfectPairsBet,
		TwentyOnePlusThree: a.cfg.TwentyOnePlusThreeBet,
	}
}

// newSession starts a session for playerID using a shuffle source derived
// from seed
func (a *app) newSession(ctx context.Context, playerID string, seed int64, rounds blackjack.RoundStore) (*blackjack.Session, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return blackjack.NewSession(ctx, blackjack.SessionConfig{
		PlayerID:  playerID,
		Stakes:    a.stakes(),
		DeckCount: a.cfg.DeckCount,
		Rand:      rand.New(rand.NewSource(seed)),
		Logger:    a.logger,
	}, a.bankrolls, rounds)
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("Error during shutdown: %v", err)
		}
	}
}
