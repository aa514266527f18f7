package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"larvatrack/internal/config"
)

// Scheduler enqueues periodic expiry sweeps on the alert stream. The sweep
// itself runs in the worker; the api process only produces the task.
type Scheduler struct {
	cron  *cron.Cron
	queue *redis.Client
	cfg   config.SweepConfig
	log   zerolog.Logger

	stream string
}

func NewScheduler(queue *redis.Client, stream string, cfg config.SweepConfig, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		queue:  queue,
		cfg:    cfg,
		log:    log,
		stream: stream,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.enqueueExpirySweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for any running enqueue to finish, up to a short grace period.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) enqueueExpirySweep() {
	_, err := s.queue.XAdd(context.Background(), &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"type":          "expiry_sweep",
			"lookAheadDays": s.cfg.LookAheadDays,
		},
	}).Result()
	if err != nil {
		s.log.Error().Err(err).Msg("enqueue expiry sweep failed")
		return
	}
	s.log.Debug().Msg("expiry sweep enqueued")
}
