package tasks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"larvatrack/internal/lifecycle"
	"larvatrack/internal/models"
	"larvatrack/internal/notify"
	"larvatrack/internal/repository"
)

const TaskExpirySweep = "expiry_sweep"

// Processor executes queued sweep tasks. Each sweep walks the active
// detections near expiry, alerts the ones that are due, and retires records
// whose alert grace window has closed.
type Processor struct {
	detections *repository.DetectionRepository
	engine     *lifecycle.Engine
	notifier   notify.Notifier
	log        zerolog.Logger

	defaultLookAheadDays int
}

func NewProcessor(pool *pgxpool.Pool, engine *lifecycle.Engine, notifier notify.Notifier, defaultLookAheadDays int, log zerolog.Logger) *Processor {
	return &Processor{
		detections:           repository.NewDetectionRepository(pool),
		engine:               engine,
		notifier:             notifier,
		log:                  log,
		defaultLookAheadDays: defaultLookAheadDays,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	taskType, _ := msg.Values["type"].(string)

	switch taskType {
	case TaskExpirySweep:
		return p.runExpirySweep(ctx, p.lookAheadDays(msg))
	default:
		// Unknown tasks are acked and dropped rather than poisoning the group.
		p.log.Warn().Str("type", taskType).Str("message_id", msg.ID).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) lookAheadDays(msg redis.XMessage) int {
	raw, ok := msg.Values["lookAheadDays"].(string)
	if !ok {
		return p.defaultLookAheadDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return p.defaultLookAheadDays
	}
	return days
}

func (p *Processor) runExpirySweep(ctx context.Context, lookAheadDays int) error {
	now := time.Now().UTC()

	detections, err := p.detections.ListExpiringWithin(ctx, now, lookAheadDays)
	if err != nil {
		return fmt.Errorf("list expiring detections: %w", err)
	}

	var alerted, retired int
	for _, d := range detections {
		graceEnd := d.ExpiresAt.Add(time.Duration(p.engine.Params().AlertGraceHours) * time.Hour)
		if !now.Before(graceEnd) {
			if err := p.detections.UpdateStatus(ctx, d.ID, models.DetectionStatusExpired); err != nil {
				p.log.Error().Err(err).Str("detection_id", d.ID).Msg("retire detection failed")
				continue
			}
			retired++
			continue
		}

		if !p.engine.ShouldSendExpirationAlert(d.ExpiresAt, d.LastAlertSentAt, now) {
			continue
		}

		assessment, err := p.engine.OnQuery(d.Record(), now)
		if err != nil {
			p.log.Error().Err(err).Str("detection_id", d.ID).Msg("assess detection failed")
			continue
		}
		if err := p.notifier.NotifyExpiration(ctx, d, assessment); err != nil {
			p.log.Error().Err(err).Str("detection_id", d.ID).Msg("expiration alert failed")
			continue
		}
		if err := p.detections.SetLastAlertAt(ctx, d.ID, now); err != nil {
			p.log.Error().Err(err).Str("detection_id", d.ID).Msg("record alert timestamp failed")
			continue
		}
		alerted++
	}

	p.log.Info().
		Int("candidates", len(detections)).
		Int("alerted", alerted).
		Int("retired", retired).
		Msg("expiry sweep complete")
	return nil
}
