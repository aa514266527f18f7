package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnIngestComposesSignatureAndMatch(t *testing.T) {
	engine := New(DefaultParams())
	photo := []byte("raw jpeg bytes")
	sig := ComputeSignature(photo)

	candidates := []Candidate{
		{ID: "det_1", ContentHash: sig.SHA256, SizeBytes: sig.SizeBytes, ImageURL: "https://img/det_1.jpg"},
	}

	result, err := engine.OnIngest(photo, candidates, nil, nil)
	require.NoError(t, err)

	assert.True(t, result.IsDuplicate)
	assert.Equal(t, "det_1", result.DuplicateRecordID)
	assert.Equal(t, sig.SizeBytes, result.StorageSavedBytes)
}

func TestOnQueryDerivesAssessment(t *testing.T) {
	engine := New(DefaultParams())

	rec := DetectionRecord{
		SiteType:   SiteRoadStructuralDefect,
		RiskLevel:  RiskMedium,
		Confidence: 0.95,
		DetectedAt: time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC),
	}

	now := rec.DetectedAt.AddDate(0, 0, 10)
	a, err := engine.OnQuery(rec, now)
	require.NoError(t, err)

	assert.Equal(t, StatusValid, a.Status)
	assert.Equal(t, rec.DetectedAt.AddDate(0, 0, a.ValidityDays), a.ExpiresAt)
	assert.Greater(t, a.ValidityDays, 100)
}

func TestOnQueryExpiredTransient(t *testing.T) {
	engine := New(DefaultParams())

	rec := DetectionRecord{
		SiteType:   SiteStandingWater,
		RiskLevel:  RiskMedium,
		Weather:    weatherPtr(WeatherSunny),
		Confidence: 0.8,
		DetectedAt: time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC),
	}

	now := rec.DetectedAt.AddDate(0, 0, 30)
	a, err := engine.OnQuery(rec, now)
	require.NoError(t, err)

	assert.Equal(t, StatusExpired, a.Status)
	assert.True(t, a.RequiresRevalidation)
	assert.Equal(t, 0, a.RemainingDays)
}

func TestOnQuerySeasonalFallback(t *testing.T) {
	engine := New(DefaultParams())

	// January detection with no observed weather resolves to the wet season,
	// which stretches a transient site's window versus an explicit sunny day.
	rec := DetectionRecord{
		SiteType:   SiteStandingWater,
		RiskLevel:  RiskMedium,
		Confidence: 0.95,
		DetectedAt: time.Date(2026, time.January, 10, 8, 0, 0, 0, time.UTC),
	}

	fallback, err := engine.OnQuery(rec, rec.DetectedAt)
	require.NoError(t, err)

	rec.Weather = weatherPtr(WeatherSunny)
	sunny, err := engine.OnQuery(rec, rec.DetectedAt)
	require.NoError(t, err)

	assert.Greater(t, fallback.ValidityDays, sunny.ValidityDays)
}

func TestOnQueryInvalidConfidence(t *testing.T) {
	engine := New(DefaultParams())

	_, err := engine.OnQuery(DetectionRecord{
		SiteType:   SitePothole,
		RiskLevel:  RiskMedium,
		Confidence: 1.5,
		DetectedAt: time.Now().UTC(),
	}, time.Now().UTC())

	assert.ErrorIs(t, err, ErrConfidenceOutOfRange)
}

func TestSeasonalWeather(t *testing.T) {
	tests := []struct {
		month    time.Month
		expected WeatherCondition
	}{
		{time.December, WeatherWetSeason},
		{time.January, WeatherWetSeason},
		{time.February, WeatherWetSeason},
		{time.June, WeatherDrySeason},
		{time.July, WeatherDrySeason},
		{time.August, WeatherDrySeason},
		{time.March, WeatherCloudy},
		{time.October, WeatherCloudy},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, SeasonalWeather(tt.month))
		})
	}
}
