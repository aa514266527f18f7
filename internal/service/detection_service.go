package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"larvatrack/internal/lifecycle"
	"larvatrack/internal/models"
	"larvatrack/internal/repository"
)

type DetectionService struct {
	detections *repository.DetectionRepository
	engine     *lifecycle.Engine
	log        zerolog.Logger
}

func NewDetectionService(detections *repository.DetectionRepository, engine *lifecycle.Engine, log zerolog.Logger) *DetectionService {
	return &DetectionService{
		detections: detections,
		engine:     engine,
		log:        log,
	}
}

type DetectionView struct {
	Detection models.Detection
	Validity  lifecycle.ValidityAssessment
}

// Get returns the stored detection with its validity assessment derived at
// the given instant.
func (s *DetectionService) Get(ctx context.Context, id string, now time.Time) (DetectionView, error) {
	detection, err := s.detections.GetByID(ctx, id)
	if err != nil {
		return DetectionView{}, err
	}
	return s.view(detection, now)
}

func (s *DetectionService) List(ctx context.Context, limit, offset int, now time.Time) ([]DetectionView, error) {
	detections, err := s.detections.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.views(detections, now)
}

func (s *DetectionService) ListByReporter(ctx context.Context, reporterID string, limit, offset int, now time.Time) ([]DetectionView, error) {
	detections, err := s.detections.ListByReporter(ctx, reporterID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.views(detections, now)
}

// Validate records an expert confirmation. The validation bonus stretches the
// validity window, so the stored expiry is recomputed from the detection date
// with is_validated set.
func (s *DetectionService) Validate(ctx context.Context, id, reviewerID string, now time.Time) (DetectionView, error) {
	detection, err := s.detections.GetByID(ctx, id)
	if err != nil {
		return DetectionView{}, err
	}

	rec := detection.Record()
	rec.IsValidated = true
	weather := rec.Weather
	if weather == nil {
		seasonal := lifecycle.SeasonalWeather(rec.DetectedAt.Month())
		weather = &seasonal
	}

	expiresAt, err := s.engine.ComputeExpirationDate(rec.DetectedAt, rec.SiteType, rec.RiskLevel, weather, rec.Confidence, true)
	if err != nil {
		return DetectionView{}, fmt.Errorf("recompute expiration: %w", err)
	}

	if err := s.detections.SetValidated(ctx, id, reviewerID, expiresAt); err != nil {
		return DetectionView{}, err
	}

	detection.IsValidated = true
	detection.ValidatedBy = &reviewerID
	detection.ExpiresAt = expiresAt

	s.log.Info().
		Str("detection_id", id).
		Str("reviewer_id", reviewerID).
		Time("expires_at", expiresAt).
		Msg("detection validated")

	return s.view(detection, now)
}

// Resolve marks a detection as no longer an active breeding site.
func (s *DetectionService) Resolve(ctx context.Context, id string) error {
	return s.detections.UpdateStatus(ctx, id, models.DetectionStatusResolved)
}

func (s *DetectionService) view(detection models.Detection, now time.Time) (DetectionView, error) {
	assessment, err := s.engine.OnQuery(detection.Record(), now)
	if err != nil {
		return DetectionView{}, fmt.Errorf("assess validity: %w", err)
	}
	return DetectionView{Detection: detection, Validity: assessment}, nil
}

func (s *DetectionService) views(detections []models.Detection, now time.Time) ([]DetectionView, error) {
	views := make([]DetectionView, 0, len(detections))
	for _, d := range detections {
		v, err := s.view(d, now)
		if err != nil {
			s.log.Warn().Err(err).Str("detection_id", d.ID).Msg("skipping unassessable detection")
			continue
		}
		views = append(views, v)
	}
	return views, nil
}
