package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"larvatrack/internal/models"
)

var ErrDetectionNotFound = errors.New("detection not found")

const detectionColumns = `
	id, reporter_id, bucket, object_key, image_url,
	content_hash, md5, size_bytes, signature, duplicate_of_id,
	camera_make, camera_model, has_gps, latitude, longitude,
	site_type, risk_level, weather, confidence, is_validated, validated_by,
	status, detected_at, expires_at, last_alert_sent_at,
	created_at, updated_at
`

type DetectionRepository struct {
	pool *pgxpool.Pool
}

func NewDetectionRepository(pool *pgxpool.Pool) *DetectionRepository {
	return &DetectionRepository{pool: pool}
}

func (r *DetectionRepository) Create(ctx context.Context, d models.Detection) error {
	const query = `
		INSERT INTO detections (
			id, reporter_id, bucket, object_key, image_url,
			content_hash, md5, size_bytes, signature, duplicate_of_id,
			camera_make, camera_model, has_gps, latitude, longitude,
			site_type, risk_level, weather, confidence, is_validated, validated_by,
			status, detected_at, expires_at, last_alert_sent_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21,
			$22, $23, $24, $25,
			NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		d.ID,
		d.ReporterID,
		d.Bucket,
		d.ObjectKey,
		d.ImageURL,
		d.ContentHash,
		d.MD5,
		d.SizeBytes,
		d.Signature,
		d.DuplicateOfID,
		d.CameraMake,
		d.CameraModel,
		d.HasGPS,
		d.Latitude,
		d.Longitude,
		d.SiteType,
		d.RiskLevel,
		d.Weather,
		d.Confidence,
		d.IsValidated,
		d.ValidatedBy,
		d.Status,
		d.DetectedAt,
		d.ExpiresAt,
		d.LastAlertSentAt,
	)
	return err
}

func (r *DetectionRepository) GetByID(ctx context.Context, id string) (models.Detection, error) {
	const query = `SELECT ` + detectionColumns + ` FROM detections WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	d, err := scanDetection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Detection{}, ErrDetectionNotFound
		}
		return models.Detection{}, err
	}
	return d, nil
}

// ListByContentHash returns active detections with the given content hash and
// byte size, most recent first. The ordering matters: the duplicate matcher
// breaks score ties on first occurrence, so fresh records win.
func (r *DetectionRepository) ListByContentHash(ctx context.Context, contentHash string, sizeBytes int64) ([]models.Detection, error) {
	const query = `
		SELECT ` + detectionColumns + `
		FROM detections
		WHERE content_hash = $1 AND size_bytes = $2 AND status = 'active'
		ORDER BY detected_at DESC
	`
	rows, err := r.pool.Query(ctx, query, contentHash, sizeBytes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetections(rows)
}

func (r *DetectionRepository) List(ctx context.Context, limit, offset int) ([]models.Detection, error) {
	const query = `
		SELECT ` + detectionColumns + `
		FROM detections
		ORDER BY detected_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetections(rows)
}

func (r *DetectionRepository) ListByReporter(ctx context.Context, reporterID string, limit, offset int) ([]models.Detection, error) {
	const query = `
		SELECT ` + detectionColumns + `
		FROM detections
		WHERE reporter_id = $1
		ORDER BY detected_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, reporterID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetections(rows)
}

// ListExpiringWithin returns active detections whose expiry falls inside the
// sweep window, including records already past expiry that may still owe a
// final alert.
func (r *DetectionRepository) ListExpiringWithin(ctx context.Context, now time.Time, lookAheadDays int) ([]models.Detection, error) {
	const query = `
		SELECT ` + detectionColumns + `
		FROM detections
		WHERE status = 'active'
		  AND expires_at <= $1
		ORDER BY expires_at ASC
	`
	horizon := now.AddDate(0, 0, lookAheadDays)
	rows, err := r.pool.Query(ctx, query, horizon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetections(rows)
}

// SetValidated records an expert validation and the recomputed expiry.
func (r *DetectionRepository) SetValidated(ctx context.Context, id, reviewerID string, expiresAt time.Time) error {
	const query = `
		UPDATE detections
		SET is_validated = TRUE,
		    validated_by = $2,
		    expires_at = $3,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, reviewerID, expiresAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDetectionNotFound
	}
	return nil
}

// SetLastAlertAt persists the caller-owned debounce timestamp after an alert
// is dispatched.
func (r *DetectionRepository) SetLastAlertAt(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE detections SET last_alert_sent_at = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDetectionNotFound
	}
	return nil
}

func (r *DetectionRepository) UpdateStatus(ctx context.Context, id string, status models.DetectionStatus) error {
	const query = `
		UPDATE detections SET status = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDetectionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetection(row rowScanner) (models.Detection, error) {
	var d models.Detection
	err := row.Scan(
		&d.ID,
		&d.ReporterID,
		&d.Bucket,
		&d.ObjectKey,
		&d.ImageURL,
		&d.ContentHash,
		&d.MD5,
		&d.SizeBytes,
		&d.Signature,
		&d.DuplicateOfID,
		&d.CameraMake,
		&d.CameraModel,
		&d.HasGPS,
		&d.Latitude,
		&d.Longitude,
		&d.SiteType,
		&d.RiskLevel,
		&d.Weather,
		&d.Confidence,
		&d.IsValidated,
		&d.ValidatedBy,
		&d.Status,
		&d.DetectedAt,
		&d.ExpiresAt,
		&d.LastAlertSentAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func scanDetections(rows pgx.Rows) ([]models.Detection, error) {
	var detections []models.Detection
	for rows.Next() {
		d, err := scanDetection(rows)
		if err != nil {
			return nil, err
		}
		detections = append(detections, d)
	}
	return detections, rows.Err()
}
