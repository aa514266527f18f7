package lifecycle

import (
	"fmt"
	"math"
	"time"
)

type RiskLevel string

const (
	RiskMinimal RiskLevel = "minimal"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

type WeatherCondition string

const (
	WeatherSunny     WeatherCondition = "sunny"
	WeatherRainy     WeatherCondition = "rainy"
	WeatherCloudy    WeatherCondition = "cloudy"
	WeatherWetSeason WeatherCondition = "wet_season"
	WeatherDrySeason WeatherCondition = "dry_season"
)

// ComputeValidityDays returns how many days a detection stays current before
// requiring re-verification.
//
// The base comes from the persistence class of the site type. Risk scales it
// (high risk on a transient site gets an additive bump instead, since 1.5x of
// a two-day base rounds away). Weather only matters for transient sites:
// puddles outlive a wet week and vanish in a dry one, while a cracked culvert
// does not care. Low detection confidence shortens the window, expert
// validation stretches it. The result never drops below one day.
func (e *Engine) ComputeValidityDays(site BreedingSiteType, risk RiskLevel, weather *WeatherCondition, confidence float64, validated bool) (int, error) {
	if confidence < 0 || confidence > 1 {
		return 0, fmt.Errorf("compute validity: %w: %v", ErrConfidenceOutOfRange, confidence)
	}
	mult, ok := e.params.RiskMultipliers[risk]
	if !ok {
		return 0, fmt.Errorf("compute validity: %w: %q", ErrUnknownRiskLevel, risk)
	}

	persistence := ClassifyPersistence(site)
	days := float64(e.params.BaseValidityDays[persistence])

	if persistence == PersistenceTransient && risk == RiskHigh {
		days += float64(e.params.TransientHighRiskBonusDays)
	} else {
		days *= mult
	}

	if persistence == PersistenceTransient && weather != nil {
		if factor, ok := e.params.WeatherFactors[*weather]; ok {
			days *= factor
		}
	}

	switch {
	case confidence >= e.params.FullConfidenceThreshold:
		// no penalty
	case confidence >= e.params.LowConfidenceThreshold:
		days *= e.params.MidConfidenceFactor
	default:
		days *= confidence
	}

	if validated {
		days *= e.params.ValidationBonusFactor
	}

	result := int(math.Round(days))
	if result < 1 {
		result = 1
	}
	return result, nil
}

// ComputeExpirationDate derives the expiry instant from the detection date.
// Time enters only through detectedAt; the engine never reads a clock.
func (e *Engine) ComputeExpirationDate(detectedAt time.Time, site BreedingSiteType, risk RiskLevel, weather *WeatherCondition, confidence float64, validated bool) (time.Time, error) {
	days, err := e.ComputeValidityDays(site, risk, weather, confidence, validated)
	if err != nil {
		return time.Time{}, err
	}
	return detectedAt.AddDate(0, 0, days), nil
}
