package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler enqueues the periodic document sweep so stuck uploads get
// confirmed or orphaned even when nobody calls confirm.
type Scheduler struct {
	cron          *cron.Cron
	queue         *Queue
	sweepSchedule string
	log           zerolog.Logger
}

func NewScheduler(queue *Queue, sweepSchedule string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:          c,
		queue:         queue,
		sweepSchedule: sweepSchedule,
		log:           log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.sweepSchedule, s.enqueueDocumentSweep); err != nil {
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

func (s *Scheduler) enqueueDocumentSweep() {
	err := s.queue.Enqueue(context.Background(), map[string]any{
		"type": "document_sweep",
	})
	if err != nil {
		s.log.Error().Err(err).Msg("enqueue document sweep failed")
	}
}
