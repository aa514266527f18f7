package lifecycle

import "fmt"

type DuplicateType string

const (
	DuplicateNone         DuplicateType = "none"
	DuplicateExactContent DuplicateType = "exact_content"
)

// CameraInfo is EXIF-derived metadata supplied by the capturing client.
type CameraInfo struct {
	Make  string `json:"make"`
	Model string `json:"model"`
}

type GPSInfo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Candidate is a previously stored detection read from storage for comparison.
// The engine never mutates or retains candidates beyond a single call; the
// caller controls ordering, and earlier entries win score ties, so supplying
// most-recent-first makes the tie-break favor fresh records.
type Candidate struct {
	ID          string   `json:"id"`
	ContentHash string   `json:"contentHash"`
	SizeBytes   int64    `json:"sizeBytes"`
	ImageURL    string   `json:"imageUrl"`
	CameraMake  string   `json:"cameraMake,omitempty"`
	CameraModel string   `json:"cameraModel,omitempty"`
	HasGPS      bool     `json:"hasGPS"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

type DuplicateCheckResult struct {
	IsDuplicate           bool          `json:"isDuplicate"`
	DuplicateRecordID     string        `json:"duplicateRecordId,omitempty"`
	DuplicateType         DuplicateType `json:"duplicateType"`
	ShouldStoreSeparately bool          `json:"shouldStoreSeparately"`
	ReferenceImageURL     string        `json:"referenceImageUrl,omitempty"`
	Confidence            float64       `json:"confidence"`
	StorageSavedBytes     int64         `json:"storageSavedBytes"`
}

// CheckDuplicate decides whether newly ingested content duplicates a stored
// record. Any candidate with an identical content hash and byte size makes the
// result a duplicate; the similarity score only selects which match is
// referenced and sets the reported confidence.
//
// The score is a weighted sum over the factors that could actually be
// evaluated: identical content always earns WeightContent, a camera make and
// model match earns WeightCamera when both sides carry camera metadata, and
// GPS within GPSProximityKm earns WeightGPS when both sides carry
// coordinates. A content-only exact match therefore reports WeightContent
// (0.4 by default), and a match on all three factors reports 1.0.
func (e *Engine) CheckDuplicate(sig Signature, candidates []Candidate, camera *CameraInfo, gps *GPSInfo) (DuplicateCheckResult, error) {
	if sig.SizeBytes < 0 {
		return DuplicateCheckResult{}, fmt.Errorf("check duplicate: %w", ErrNegativeSize)
	}

	best := -1
	bestScore := 0.0
	for i, cand := range candidates {
		if cand.ContentHash != sig.SHA256 || cand.SizeBytes != sig.SizeBytes {
			continue
		}

		score := e.params.WeightContent

		if camera != nil && cand.CameraMake != "" && cand.CameraModel != "" {
			if camera.Make == cand.CameraMake && camera.Model == cand.CameraModel {
				score += e.params.WeightCamera
			}
		}

		if gps != nil && cand.HasGPS && cand.Latitude != nil && cand.Longitude != nil {
			dist := DistanceKm(gps.Latitude, gps.Longitude, *cand.Latitude, *cand.Longitude)
			if dist < e.params.GPSProximityKm {
				score += e.params.WeightGPS
			}
		}

		// Strict comparison keeps the first occurrence on ties.
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return DuplicateCheckResult{
			IsDuplicate:           false,
			DuplicateType:         DuplicateNone,
			ShouldStoreSeparately: true,
			Confidence:            0,
		}, nil
	}

	winner := candidates[best]
	return DuplicateCheckResult{
		IsDuplicate:           true,
		DuplicateRecordID:     winner.ID,
		DuplicateType:         DuplicateExactContent,
		ShouldStoreSeparately: false,
		ReferenceImageURL:     winner.ImageURL,
		Confidence:            bestScore,
		StorageSavedBytes:     sig.SizeBytes,
	}, nil
}
