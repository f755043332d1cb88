package scheduler

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjack/internal/logging"
)

// DefaultIndexRetryInterval is how often rounds that failed to index are retried
const DefaultIndexRetryInterval = 5 * time.Minute

// IndexRetrier re-sends rounds whose indexing failed when they were saved
type IndexRetrier interface {
	RetryFailed(ctx context.Context) (int, error)
	PendingCount() int
}

// IndexMaintenanceScheduler periodically retries failed round indexing
type IndexMaintenanceScheduler struct {
	scheduler *Scheduler
	repo      IndexRetrier
}

// NewIndexMaintenanceScheduler creates a scheduler for repo; interval <= 0
// uses DefaultIndexRetryInterval
func NewIndexMaintenanceScheduler(repo IndexRetrier, interval time.Duration, clock quartz.Clock, logger *logging.Logger) *IndexMaintenanceScheduler {
	if interval <= 0 {
		interval = DefaultIndexRetryInterval
	}
	s := &IndexMaintenanceScheduler{
		scheduler: NewScheduler(clock, logger),
		repo:      repo,
	}
	s.scheduler.AddTask("index_retry", interval, s.retryIndexing)
	return s
}

// Start starts the maintenance scheduler
func (s *IndexMaintenanceScheduler) Start(ctx context.Context) {
	s.scheduler.Start(ctx)
}

// Stop stops the maintenance scheduler
func (s *IndexMaintenanceScheduler) Stop() {
	s.scheduler.Stop()
}

func (s *IndexMaintenanceScheduler) retryIndexing(ctx context.Context) error {
	if s.repo.PendingCount() == 0 {
		return nil
	}
	_, err := s.repo.RetryFailed(ctx)
	return err
}
