package warmup

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a Warmer on a fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	warmer  *Warmer
	timeout time.Duration
	log     *slog.Logger
}

// NewScheduler creates a Scheduler running w every interval. Each run is
// bounded by the interval so runs never overlap for long.
func NewScheduler(w *Warmer, interval time.Duration, log *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:    c,
		warmer:  w,
		timeout: interval,
		log:     log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), s.run); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled warmups.
func (s *Scheduler) Start() {
	s.log.Info("warmup scheduler started")
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once a running
// warmup has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("warmup scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// RunNow runs one warmup immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) (Result, error) {
	res, err := s.warmer.Run(ctx)
	if err != nil {
		s.log.Error("datasource warmup failed", "error", err)
	}
	return res, err
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.log.Info("scheduled datasource warmup starting")
	_, _ = s.RunNow(ctx)
}
