package lifecycle

// Heuristic thresholds carried over from field experience. The duplicate
// factor weights and the GPS radius in particular are pending domain-expert
// review; keep them configurable rather than inlined.
const (
	DefaultWeightContent = 0.4
	DefaultWeightCamera  = 0.3
	DefaultWeightGPS     = 0.3

	DefaultGPSProximityKm = 0.1

	DefaultExpiringSoonWindowDays = 1
	DefaultAlertDebounceHours     = 24
	DefaultAlertGraceHours        = 48
)

// Params holds every tunable the engine consults. Zero values are not usable;
// construct with DefaultParams and override selectively (the config layer maps
// lifecycle.* keys onto this struct).
type Params struct {
	// Duplicate matching.
	WeightContent  float64
	WeightCamera   float64
	WeightGPS      float64
	GPSProximityKm float64

	// Base validity in days per persistence class.
	BaseValidityDays map[PersistenceType]int

	// Risk multipliers. TransientHighRiskBonusDays replaces the High
	// multiplier for transient sites, where the small base makes a
	// multiplicative bump meaningless.
	RiskMultipliers            map[RiskLevel]float64
	TransientHighRiskBonusDays int

	// Weather factors, consulted only for transient sites.
	WeatherFactors map[WeatherCondition]float64

	// Confidence handling.
	FullConfidenceThreshold float64 // no penalty at or above this
	LowConfidenceThreshold  float64 // proportional penalty below this
	MidConfidenceFactor     float64 // applied between the two thresholds

	ValidationBonusFactor float64

	// Expiration alerting.
	ExpiringSoonWindowDays int
	AlertDebounceHours     int
	AlertGraceHours        int
}

func DefaultParams() Params {
	return Params{
		WeightContent:  DefaultWeightContent,
		WeightCamera:   DefaultWeightCamera,
		WeightGPS:      DefaultWeightGPS,
		GPSProximityKm: DefaultGPSProximityKm,
		BaseValidityDays: map[PersistenceType]int{
			PersistenceTransient:  2,
			PersistenceShortTerm:  14,
			PersistenceMediumTerm: 60,
			PersistenceLongTerm:   180,
			PersistencePermanent:  365,
		},
		RiskMultipliers: map[RiskLevel]float64{
			RiskMinimal: 0.8,
			RiskLow:     0.9,
			RiskMedium:  1.0,
			RiskHigh:    1.5,
		},
		TransientHighRiskBonusDays: 3,
		WeatherFactors: map[WeatherCondition]float64{
			WeatherWetSeason: 2.0,
			WeatherRainy:     1.5,
			WeatherCloudy:    1.0,
			WeatherSunny:     0.75,
			WeatherDrySeason: 0.5,
		},
		FullConfidenceThreshold: 0.9,
		LowConfidenceThreshold:  0.7,
		MidConfidenceFactor:     0.9,
		ValidationBonusFactor:   1.25,
		ExpiringSoonWindowDays:  DefaultExpiringSoonWindowDays,
		AlertDebounceHours:      DefaultAlertDebounceHours,
		AlertGraceHours:         DefaultAlertGraceHours,
	}
}
