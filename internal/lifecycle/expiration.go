package lifecycle

import (
	"math"
	"time"
)

type ValidityStatus string

const (
	StatusValid        ValidityStatus = "valid"
	StatusExpiringSoon ValidityStatus = "expiring_soon"
	StatusExpired      ValidityStatus = "expired"
)

// ValidityAssessment is a derived view over a stored detection; the record
// itself stays authoritative and the assessment is recomputed on demand.
type ValidityAssessment struct {
	ExpiresAt            time.Time      `json:"expiresAt"`
	ValidityDays         int            `json:"validityDays"`
	Status               ValidityStatus `json:"status"`
	RemainingDays        int            `json:"remainingDays"`
	ValidityPercentage   int            `json:"validityPercentage"`
	RequiresRevalidation bool           `json:"requiresRevalidation"`
}

func IsExpired(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}

// RemainingDays counts whole days until expiry, floored at zero no matter how
// long ago the record expired.
func RemainingDays(expiresAt, now time.Time) int {
	if IsExpired(expiresAt, now) {
		return 0
	}
	return int(math.Ceil(expiresAt.Sub(now).Hours() / 24))
}

// Status derives the validity view at the given instant. Within the
// expiring-soon window the percentage degrades across the final day so the UI
// can show urgency; squarely valid records always report 100 and expired ones 0.
func (e *Engine) Status(expiresAt time.Time, validityDays int, now time.Time) ValidityAssessment {
	assessment := ValidityAssessment{
		ExpiresAt:     expiresAt,
		ValidityDays:  validityDays,
		RemainingDays: RemainingDays(expiresAt, now),
	}

	window := time.Duration(e.params.ExpiringSoonWindowDays) * 24 * time.Hour

	switch {
	case IsExpired(expiresAt, now):
		assessment.Status = StatusExpired
		assessment.ValidityPercentage = 0
		assessment.RequiresRevalidation = true
	case expiresAt.Sub(now) <= window:
		assessment.Status = StatusExpiringSoon
		assessment.RequiresRevalidation = true
		fraction := float64(expiresAt.Sub(now)) / float64(window)
		pct := int(math.Round(fraction * 100))
		if pct < 1 {
			pct = 1
		}
		if pct > 99 {
			pct = 99
		}
		assessment.ValidityPercentage = pct
	default:
		assessment.Status = StatusValid
		assessment.ValidityPercentage = 100
	}

	return assessment
}

// ShouldSendExpirationAlert reports whether a notification is due: the record
// must sit inside the alert window around its expiry, and the previous alert,
// if any, must be older than the debounce interval. The lastAlertAt timestamp
// is owned and persisted by the caller; the engine only reads it.
func (e *Engine) ShouldSendExpirationAlert(expiresAt time.Time, lastAlertAt *time.Time, now time.Time) bool {
	windowStart := expiresAt.Add(-time.Duration(e.params.ExpiringSoonWindowDays) * 24 * time.Hour)
	windowEnd := expiresAt.Add(time.Duration(e.params.AlertGraceHours) * time.Hour)

	if now.Before(windowStart) || !now.Before(windowEnd) {
		return false
	}

	if lastAlertAt != nil {
		debounce := time.Duration(e.params.AlertDebounceHours) * time.Hour
		if now.Sub(*lastAlertAt) <= debounce {
			return false
		}
	}
	return true
}
