package models

import (
	"time"

	"larvatrack/internal/lifecycle"
)

type DetectionStatus string

const (
	DetectionStatusActive   DetectionStatus = "active"
	DetectionStatusExpired  DetectionStatus = "expired"
	DetectionStatusResolved DetectionStatus = "resolved"
	DetectionStatusRejected DetectionStatus = "rejected"
)

// Detection is a stored breeding-site detection. The row is authoritative;
// validity assessments are derived from it on demand and never written back
// except for ExpiresAt and LastAlertSentAt, which the sweep worker maintains.
type Detection struct {
	ID         string
	ReporterID string

	Bucket    string
	ObjectKey string
	ImageURL  string

	ContentHash string
	MD5         string
	SizeBytes   int64
	Signature   []byte

	// DuplicateOfID points at the record whose stored bytes this detection
	// references; set when ingest decided not to re-store the image.
	DuplicateOfID *string

	CameraMake  *string
	CameraModel *string
	HasGPS      bool
	Latitude    *float64
	Longitude   *float64

	SiteType    lifecycle.BreedingSiteType
	RiskLevel   lifecycle.RiskLevel
	Weather     *lifecycle.WeatherCondition
	Confidence  float64
	IsValidated bool
	ValidatedBy *string

	Status          DetectionStatus
	DetectedAt      time.Time
	ExpiresAt       time.Time
	LastAlertSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Candidate converts the stored row into the shape the duplicate matcher
// consumes.
func (d Detection) Candidate() lifecycle.Candidate {
	c := lifecycle.Candidate{
		ID:          d.ID,
		ContentHash: d.ContentHash,
		SizeBytes:   d.SizeBytes,
		ImageURL:    d.ImageURL,
		HasGPS:      d.HasGPS,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
	}
	if d.CameraMake != nil {
		c.CameraMake = *d.CameraMake
	}
	if d.CameraModel != nil {
		c.CameraModel = *d.CameraModel
	}
	return c
}

// Record converts the stored row into the shape the validity calculator
// consumes.
func (d Detection) Record() lifecycle.DetectionRecord {
	return lifecycle.DetectionRecord{
		SiteType:    d.SiteType,
		RiskLevel:   d.RiskLevel,
		Weather:     d.Weather,
		Confidence:  d.Confidence,
		IsValidated: d.IsValidated,
		DetectedAt:  d.DetectedAt,
	}
}
