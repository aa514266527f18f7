package notify

import (
	"context"

	"github.com/rs/zerolog"

	"larvatrack/internal/lifecycle"
	"larvatrack/internal/models"
)

// Notifier dispatches expiration alerts to field teams. The log notifier is
// the default sink; push or email channels plug in behind the same interface.
type Notifier interface {
	NotifyExpiration(ctx context.Context, d models.Detection, assessment lifecycle.ValidityAssessment) error
}

type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyExpiration(_ context.Context, d models.Detection, assessment lifecycle.ValidityAssessment) error {
	n.log.Warn().
		Str("detection_id", d.ID).
		Str("reporter_id", d.ReporterID).
		Str("site_type", string(d.SiteType)).
		Str("risk_level", string(d.RiskLevel)).
		Str("validity", string(assessment.Status)).
		Int("remaining_days", assessment.RemainingDays).
		Time("expires_at", d.ExpiresAt).
		Msg("detection expiring, revalidation needed")
	return nil
}
