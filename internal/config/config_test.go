package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"larvatrack/internal/lifecycle"
)

func TestEngineParamsDefaultsWhenEmpty(t *testing.T) {
	var cfg LifecycleConfig

	params := cfg.EngineParams()

	assert.Equal(t, lifecycle.DefaultParams(), params)
}

func TestEngineParamsMergesOverrides(t *testing.T) {
	cfg := LifecycleConfig{
		GPSProximityKm: 0.25,
		BaseValidityDays: map[string]int{
			string(lifecycle.PersistenceTransient): 3,
		},
		RiskMultipliers: map[string]float64{
			string(lifecycle.RiskHigh): 2.0,
		},
		AlertDebounceHours: 48,
	}

	params := cfg.EngineParams()
	defaults := lifecycle.DefaultParams()

	assert.Equal(t, 0.25, params.GPSProximityKm)
	assert.Equal(t, 3, params.BaseValidityDays[lifecycle.PersistenceTransient])
	assert.Equal(t, 2.0, params.RiskMultipliers[lifecycle.RiskHigh])
	assert.Equal(t, 48, params.AlertDebounceHours)

	// Untouched keys keep their defaults.
	assert.Equal(t, defaults.WeightContent, params.WeightContent)
	assert.Equal(t, defaults.BaseValidityDays[lifecycle.PersistenceLongTerm], params.BaseValidityDays[lifecycle.PersistenceLongTerm])
	assert.Equal(t, defaults.AlertGraceHours, params.AlertGraceHours)
}

func TestEngineParamsIgnoresZeroOverrides(t *testing.T) {
	cfg := LifecycleConfig{
		BaseValidityDays: map[string]int{
			string(lifecycle.PersistenceShortTerm): 0,
		},
		WeatherFactors: map[string]float64{
			string(lifecycle.WeatherRainy): 0,
		},
	}

	params := cfg.EngineParams()
	defaults := lifecycle.DefaultParams()

	assert.Equal(t, defaults.BaseValidityDays[lifecycle.PersistenceShortTerm], params.BaseValidityDays[lifecycle.PersistenceShortTerm])
	assert.Equal(t, defaults.WeatherFactors[lifecycle.WeatherRainy], params.WeatherFactors[lifecycle.WeatherRainy])
}
