package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"atelier/web/internal/service"
)

// Scheduler periodically warms the public gallery cache. It only runs when
// a cache backend is configured; without one there is nothing to warm.
type Scheduler struct {
	cron     *cron.Cron
	works    *service.WorkService
	schedule string
	log      zerolog.Logger
}

func NewScheduler(works *service.WorkService, schedule string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		works:    works,
		schedule: schedule,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() error {
	if s.works == nil || s.schedule == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.warmWorks); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) warmWorks() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.works.WarmCache(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cache warm failed")
	}
}
