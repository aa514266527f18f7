package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"larvatrack/internal/config"
	"larvatrack/internal/ids"
	"larvatrack/internal/lifecycle"
	"larvatrack/internal/media/sniffer"
	"larvatrack/internal/models"
	"larvatrack/internal/repository"
	"larvatrack/internal/security"
	"larvatrack/internal/storage"
)

type IngestInput struct {
	Reporter models.User
	File     multipart.File
	Header   *multipart.FileHeader

	SiteType   lifecycle.BreedingSiteType
	RiskLevel  lifecycle.RiskLevel
	Confidence float64
	Weather    *lifecycle.WeatherCondition

	CameraMake  string
	CameraModel string
	Latitude    *float64
	Longitude   *float64

	DetectedAt time.Time
}

type IngestResult struct {
	Detection models.Detection
	Duplicate lifecycle.DuplicateCheckResult
}

type IngestService struct {
	detections *repository.DetectionRepository
	store      *storage.ObjectStore
	engine     *lifecycle.Engine
	cfg        *config.AppConfig
	log        zerolog.Logger
}

func NewIngestService(detections *repository.DetectionRepository, store *storage.ObjectStore, engine *lifecycle.Engine, cfg *config.AppConfig, log zerolog.Logger) *IngestService {
	return &IngestService{
		detections: detections,
		store:      store,
		engine:     engine,
		cfg:        cfg,
		log:        log,
	}
}

// Ingest runs a new field photo through the duplicate check and persists the
// detection. Exact-content duplicates get a reference row pointing at the
// winning candidate's stored object instead of new bytes.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (IngestResult, error) {
	if input.File == nil || input.Header == nil {
		return IngestResult{}, errors.New("invalid file payload")
	}

	data, err := readAll(input.File)
	if err != nil {
		return IngestResult{}, err
	}
	if len(data) == 0 {
		return IngestResult{}, errors.New("empty file")
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	format, err := sniffer.DetectHead(head)
	if err != nil {
		return IngestResult{}, fmt.Errorf("detect type: %w", err)
	}
	declared := sniffer.MimeTypeFromHTTP(http.Header(input.Header.Header))
	if declared != "" && declared != format.MIME {
		return IngestResult{}, fmt.Errorf("content type mismatch: declared %s, actual %s", declared, format.MIME)
	}

	sig := lifecycle.ComputeSignature(data)

	stored, err := s.detections.ListByContentHash(ctx, sig.SHA256, sig.SizeBytes)
	if err != nil {
		return IngestResult{}, fmt.Errorf("load candidates: %w", err)
	}
	candidates := make([]lifecycle.Candidate, 0, len(stored))
	for _, d := range stored {
		candidates = append(candidates, d.Candidate())
	}

	var camera *lifecycle.CameraInfo
	if input.CameraMake != "" && input.CameraModel != "" {
		camera = &lifecycle.CameraInfo{Make: input.CameraMake, Model: input.CameraModel}
	}
	var gps *lifecycle.GPSInfo
	if input.Latitude != nil && input.Longitude != nil {
		gps = &lifecycle.GPSInfo{Latitude: *input.Latitude, Longitude: *input.Longitude}
	}

	dup, err := s.engine.OnIngest(data, candidates, camera, gps)
	if err != nil {
		return IngestResult{}, fmt.Errorf("duplicate check: %w", err)
	}

	detectedAt := input.DetectedAt
	if detectedAt.IsZero() {
		detectedAt = time.Now().UTC()
	}

	weather := input.Weather
	if weather == nil {
		seasonal := lifecycle.SeasonalWeather(detectedAt.Month())
		weather = &seasonal
	}

	expiresAt, err := s.engine.ComputeExpirationDate(detectedAt, input.SiteType, input.RiskLevel, weather, input.Confidence, false)
	if err != nil {
		return IngestResult{}, fmt.Errorf("compute expiration: %w", err)
	}

	detection := models.Detection{
		ID:          ids.New(),
		ReporterID:  input.Reporter.ID,
		ContentHash: sig.SHA256,
		MD5:         sig.MD5,
		SizeBytes:   sig.SizeBytes,
		HasGPS:      gps != nil,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		SiteType:    input.SiteType,
		RiskLevel:   input.RiskLevel,
		Weather:     input.Weather,
		Confidence:  input.Confidence,
		Status:      models.DetectionStatusActive,
		DetectedAt:  detectedAt,
		ExpiresAt:   expiresAt,
	}
	if input.CameraMake != "" {
		detection.CameraMake = &input.CameraMake
	}
	if input.CameraModel != "" {
		detection.CameraModel = &input.CameraModel
	}

	if dup.IsDuplicate {
		// Reference the already-stored bytes; nothing new goes to the
		// object store.
		original, err := s.detections.GetByID(ctx, dup.DuplicateRecordID)
		if err != nil {
			return IngestResult{}, fmt.Errorf("load duplicate original: %w", err)
		}
		detection.Bucket = original.Bucket
		detection.ObjectKey = original.ObjectKey
		detection.ImageURL = original.ImageURL
		detection.DuplicateOfID = &original.ID

		s.log.Info().
			Str("detection_id", detection.ID).
			Str("duplicate_of", original.ID).
			Int64("saved_bytes", dup.StorageSavedBytes).
			Float64("confidence", dup.Confidence).
			Msg("duplicate content referenced")
	} else {
		objectKey, url, err := s.store.PutPhoto(ctx, detection.ID, data, format.MIME)
		if err != nil {
			return IngestResult{}, fmt.Errorf("store photo: %w", err)
		}
		detection.Bucket = s.store.Bucket()
		detection.ObjectKey = objectKey
		detection.ImageURL = url
	}

	// Binds the row to its object so a repointed reference is detectable.
	detection.Signature = security.SignResource(s.cfg.Security.SignatureSecret, detection.ID, detection.ObjectKey)

	if err := s.detections.Create(ctx, detection); err != nil {
		return IngestResult{}, fmt.Errorf("save detection: %w", err)
	}

	return IngestResult{Detection: detection, Duplicate: dup}, nil
}

func readAll(file multipart.File) ([]byte, error) {
	if seeker, ok := file.(io.ReadSeeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind: %w", err)
		}
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}
