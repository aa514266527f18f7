// Package lifecycle implements the detection lifecycle engine: exact-content
// duplicate matching and validity decay for geotagged breeding-site
// detections. Every operation is pure and stateless; callers own all
// persistence, including the alert debounce timestamp.
package lifecycle

import "time"

type Engine struct {
	params Params
}

func New(params Params) *Engine {
	return &Engine{params: params}
}

func (e *Engine) Params() Params {
	return e.params
}

// DetectionRecord carries the stored attributes OnQuery needs to derive a
// validity assessment. It mirrors the storage layer's detection row without
// depending on it.
type DetectionRecord struct {
	SiteType    BreedingSiteType  `json:"siteType"`
	RiskLevel   RiskLevel         `json:"riskLevel"`
	Weather     *WeatherCondition `json:"weather,omitempty"`
	Confidence  float64           `json:"confidence"`
	IsValidated bool              `json:"isValidated"`
	DetectedAt  time.Time         `json:"detectedAt"`
}

// OnIngest hashes the incoming image and checks it against the supplied
// candidate records. Callers persist a reference instead of new bytes when
// the result is a duplicate.
func (e *Engine) OnIngest(imageData []byte, candidates []Candidate, camera *CameraInfo, gps *GPSInfo) (DuplicateCheckResult, error) {
	return e.CheckDuplicate(ComputeSignature(imageData), candidates, camera, gps)
}

// OnQuery recomputes the validity view for a stored detection at the given
// instant. When the record carries no observed weather, the seasonal fallback
// for the detection month is used.
func (e *Engine) OnQuery(rec DetectionRecord, now time.Time) (ValidityAssessment, error) {
	weather := rec.Weather
	if weather == nil {
		seasonal := SeasonalWeather(rec.DetectedAt.Month())
		weather = &seasonal
	}

	days, err := e.ComputeValidityDays(rec.SiteType, rec.RiskLevel, weather, rec.Confidence, rec.IsValidated)
	if err != nil {
		return ValidityAssessment{}, err
	}

	expiresAt := rec.DetectedAt.AddDate(0, 0, days)
	return e.Status(expiresAt, days, now), nil
}

// SeasonalWeather is the deterministic calendar fallback used when no live
// weather feed is wired in. Southern-hemisphere seasons: December through
// February are the wet season, June through August the dry season.
func SeasonalWeather(month time.Month) WeatherCondition {
	switch month {
	case time.December, time.January, time.February:
		return WeatherWetSeason
	case time.June, time.July, time.August:
		return WeatherDrySeason
	default:
		return WeatherCloudy
	}
}
