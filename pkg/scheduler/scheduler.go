package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/blackjack/internal/logging"
)

// Task represents a scheduled task
type Task struct {
	Name     string
	Interval time.Duration
	Fn       func(context.Context) error
}

// Scheduler runs tasks at fixed intervals on the given clock. A failing task
// is logged and keeps its schedule.
type Scheduler struct {
	clock   quartz.Clock
	logger  *logging.Logger
	tasks   []*Task
	running bool
	mutex   sync.Mutex
	cancel  context.CancelFunc
	waiters []quartz.Waiter
}

// NewScheduler creates a new scheduler
func NewScheduler(clock quartz.Clock, logger *logging.Logger) *Scheduler {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = logging.Default
	}
	return &Scheduler{
		clock:  clock,
		logger: logger,
		tasks:  make([]*Task, 0),
	}
}

// AddTask adds a task to the scheduler. Tasks added after Start wait for the
// next Start.
func (s *Scheduler) AddTask(name string, interval time.Duration, fn func(context.Context) error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
}

// Start runs every task once, then on its interval until Stop or ctx ends
func (s *Scheduler) Start(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.waiters = s.waiters[:0]

	for _, task := range s.tasks {
		s.logger.Debug("Running task %s immediately on startup", task.Name)
		s.run(ctx, task)

		task := task
		s.waiters = append(s.waiters, s.clock.TickerFunc(ctx, task.Interval, func() error {
			s.run(ctx, task)
			return nil
		}, "scheduler", task.Name))
	}

	s.logger.Info("Scheduler started with %d tasks", len(s.tasks))
}

// Stop stops the scheduler and waits for running tasks to return
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	for _, w := range s.waiters {
		_ = w.Wait()
	}
	s.running = false
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, task *Task) {
	if err := task.Fn(ctx); err != nil {
		s.logger.Warn("Error running task %s: %v", task.Name, err)
	}
}
