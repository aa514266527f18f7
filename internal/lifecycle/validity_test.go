package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherPtr(w WeatherCondition) *WeatherCondition { return &w }

func TestComputeValidityDaysFloor(t *testing.T) {
	engine := New(DefaultParams())

	// Worst case stack: transient base, minimal risk, dry season, rock-bottom
	// confidence. Must still report at least one day.
	days, err := engine.ComputeValidityDays(SiteStandingWater, RiskMinimal, weatherPtr(WeatherDrySeason), 0.1, false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, days, 1)
}

func TestComputeValidityDaysBaseOrdering(t *testing.T) {
	engine := New(DefaultParams())

	transient, err := engine.ComputeValidityDays(SiteStandingWater, RiskMedium, nil, 1.0, false)
	require.NoError(t, err)
	short, err := engine.ComputeValidityDays(SiteLooseDebris, RiskMedium, nil, 1.0, false)
	require.NoError(t, err)
	medium, err := engine.ComputeValidityDays(SitePothole, RiskMedium, nil, 1.0, false)
	require.NoError(t, err)
	long, err := engine.ComputeValidityDays(SiteRoadStructuralDefect, RiskMedium, nil, 1.0, false)
	require.NoError(t, err)

	assert.Less(t, transient, short)
	assert.Less(t, short, medium)
	assert.Less(t, medium, long)
	assert.Less(t, long, DefaultParams().BaseValidityDays[PersistencePermanent])
}

func TestWeatherOnlyAffectsTransient(t *testing.T) {
	engine := New(DefaultParams())

	sunnyLong, err := engine.ComputeValidityDays(SiteRoadStructuralDefect, RiskMedium, weatherPtr(WeatherSunny), 0.8, false)
	require.NoError(t, err)
	rainyLong, err := engine.ComputeValidityDays(SiteRoadStructuralDefect, RiskMedium, weatherPtr(WeatherRainy), 0.8, false)
	require.NoError(t, err)
	assert.Equal(t, sunnyLong, rainyLong)

	sunnyTransient, err := engine.ComputeValidityDays(SiteStandingWater, RiskMedium, weatherPtr(WeatherSunny), 1.0, false)
	require.NoError(t, err)
	rainyTransient, err := engine.ComputeValidityDays(SiteStandingWater, RiskMedium, weatherPtr(WeatherRainy), 1.0, false)
	require.NoError(t, err)
	assert.Greater(t, rainyTransient, sunnyTransient)
}

func TestHigherRiskNeverDecreasesValidity(t *testing.T) {
	engine := New(DefaultParams())
	risks := []RiskLevel{RiskMinimal, RiskLow, RiskMedium, RiskHigh}
	sites := []BreedingSiteType{SiteStandingWater, SiteLooseDebris, SitePothole, SiteRoadStructuralDefect}

	for _, site := range sites {
		prev := 0
		for _, risk := range risks {
			days, err := engine.ComputeValidityDays(site, risk, nil, 0.95, false)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, days, prev, "site %q risk %q", site, risk)
			prev = days
		}
	}
}

func TestTransientHighRiskAdditiveBump(t *testing.T) {
	params := DefaultParams()
	engine := New(params)

	medium, err := engine.ComputeValidityDays(SiteStandingWater, RiskMedium, nil, 1.0, false)
	require.NoError(t, err)
	high, err := engine.ComputeValidityDays(SiteStandingWater, RiskHigh, nil, 1.0, false)
	require.NoError(t, err)

	assert.Equal(t, medium+params.TransientHighRiskBonusDays, high)
}

func TestConfidencePenalty(t *testing.T) {
	engine := New(DefaultParams())

	tests := []struct {
		name    string
		conf    float64
		compare func(t *testing.T, days, full int)
	}{
		{"no penalty at 0.9", 0.9, func(t *testing.T, days, full int) { assert.Equal(t, full, days) }},
		{"no penalty at 1.0", 1.0, func(t *testing.T, days, full int) { assert.Equal(t, full, days) }},
		{"mild penalty at 0.8", 0.8, func(t *testing.T, days, full int) { assert.Less(t, days, full) }},
		{"proportional penalty at 0.5", 0.5, func(t *testing.T, days, full int) { assert.Less(t, days, full/2+1) }},
	}

	full, err := engine.ComputeValidityDays(SitePothole, RiskMedium, nil, 1.0, false)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := engine.ComputeValidityDays(SitePothole, RiskMedium, nil, tt.conf, false)
			require.NoError(t, err)
			tt.compare(t, days, full)
		})
	}
}

func TestValidationBonus(t *testing.T) {
	engine := New(DefaultParams())

	unvalidated, err := engine.ComputeValidityDays(SitePothole, RiskMedium, nil, 0.95, false)
	require.NoError(t, err)
	validated, err := engine.ComputeValidityDays(SitePothole, RiskMedium, nil, 0.95, true)
	require.NoError(t, err)

	assert.Greater(t, validated, unvalidated)
}

func TestStandingWaterScenarios(t *testing.T) {
	engine := New(DefaultParams())

	sunny, err := engine.ComputeValidityDays(SiteStandingWater, RiskMedium, weatherPtr(WeatherSunny), 0.8, false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sunny, 1)
	assert.Less(t, sunny, 10, "transient window stays single-digit")

	rainy, err := engine.ComputeValidityDays(SiteStandingWater, RiskMedium, weatherPtr(WeatherRainy), 0.8, false)
	require.NoError(t, err)
	assert.Greater(t, rainy, sunny)
}

func TestStructuralDefectScenario(t *testing.T) {
	engine := New(DefaultParams())

	days, err := engine.ComputeValidityDays(SiteRoadStructuralDefect, RiskMedium, weatherPtr(WeatherSunny), 0.8, false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, days, 90, "structural defects stay valid for months")
}

func TestUnknownSiteTypeUsesMediumTermBase(t *testing.T) {
	engine := New(DefaultParams())

	unknown, err := engine.ComputeValidityDays(BreedingSiteType("abandoned_pool"), RiskMedium, nil, 0.95, false)
	require.NoError(t, err)
	pothole, err := engine.ComputeValidityDays(SitePothole, RiskMedium, nil, 0.95, false)
	require.NoError(t, err)

	assert.Equal(t, pothole, unknown)
}

func TestComputeValidityDaysInvalidInput(t *testing.T) {
	engine := New(DefaultParams())

	_, err := engine.ComputeValidityDays(SitePothole, RiskMedium, nil, -0.1, false)
	assert.ErrorIs(t, err, ErrConfidenceOutOfRange)

	_, err = engine.ComputeValidityDays(SitePothole, RiskMedium, nil, 1.1, false)
	assert.ErrorIs(t, err, ErrConfidenceOutOfRange)

	_, err = engine.ComputeValidityDays(SitePothole, RiskLevel("catastrophic"), nil, 0.8, false)
	assert.ErrorIs(t, err, ErrUnknownRiskLevel)
}

func TestComputeExpirationDate(t *testing.T) {
	engine := New(DefaultParams())
	detectedAt := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	days, err := engine.ComputeValidityDays(SitePothole, RiskMedium, nil, 0.95, false)
	require.NoError(t, err)

	expiresAt, err := engine.ComputeExpirationDate(detectedAt, SitePothole, RiskMedium, nil, 0.95, false)
	require.NoError(t, err)

	assert.Equal(t, detectedAt.AddDate(0, 0, days), expiresAt)
}
