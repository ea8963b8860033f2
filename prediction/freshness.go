package prediction

import (
	"fmt"
	"time"

	"urbanflux/ml"
)

var FreshnessSchema = ml.Schema{
	{Name: "days_in_storage", Type: ml.Numeric},
	{Name: "storage_type", Type: ml.Categorical},
	{Name: "quality_grade", Type: ml.Categorical},
}

// FreshnessRequest describes a stored batch. ExpiryDate is accepted but
// does not influence the score.
type FreshnessRequest struct {
	ProducedDate string
	ExpiryDate   string
	StorageType  string
	QualityGrade string
}

type FreshnessResult struct {
	Freshness  float64 `json:"freshness"`
	Confidence float64 `json:"confidence"`
}

type FreshnessService struct {
	model ml.Binding[ml.Regressor]
	now   func() time.Time
}

// NewFreshnessService uses time.Now when now is nil.
func NewFreshnessService(model ml.Binding[ml.Regressor], now func() time.Time) *FreshnessService {
	if now == nil {
		now = time.Now
	}
	return &FreshnessService{model: model, now: now}
}

func (s *FreshnessService) Loaded() bool {
	return s.model.IsLoaded()
}

func (s *FreshnessService) Predict(req FreshnessRequest) (Outcome[FreshnessResult], error) {
	model, ok := s.model.Model()
	if !ok {
		return degraded[FreshnessResult](), nil
	}

	row, days, err := FreshnessFeatures(req, s.now())
	if err != nil {
		return Outcome[FreshnessResult]{}, err
	}
	raw, err := model.Predict(row)
	if err != nil {
		return Outcome[FreshnessResult]{}, fmt.Errorf("predict freshness: %w", err)
	}
	score, err := clamp(raw, FreshnessMin, FreshnessMax)
	if err != nil {
		return Outcome[FreshnessResult]{}, fmt.Errorf("predict freshness: %w", err)
	}
	return ready(FreshnessResult{
		Freshness:  round(score, 1),
		Confidence: FreshnessConfidence(days),
	}), nil
}

// FreshnessFeatures builds the model row. Days in storage may be negative
// for future production dates and is passed through as is.
func FreshnessFeatures(req FreshnessRequest, now time.Time) (ml.Row, int, error) {
	days, err := DaysInStorage(req.ProducedDate, now)
	if err != nil {
		return nil, 0, err
	}
	row := ml.Row{
		ml.NumericFeature("days_in_storage", float64(days)),
		ml.CategoricalFeature("storage_type", req.StorageType),
		ml.CategoricalFeature("quality_grade", req.QualityGrade),
	}
	return row, days, nil
}

// DaysInStorage is the number of whole days from the production date to
// now, on the wall clock of now's location and rounded toward minus
// infinity.
func DaysInStorage(producedDate string, now time.Time) (int, error) {
	produced, err := time.Parse(DateLayout, producedDate)
	if err != nil {
		return 0, fmt.Errorf("produced_date %q does not match format YYYY-MM-DD", producedDate)
	}
	wall := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	// Whole seconds, since a Duration cannot span more than 292 years.
	secs := wall.Unix() - produced.Unix()
	days := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		days--
	}
	return int(days), nil
}

const secondsPerDay = 24 * 60 * 60

func FreshnessConfidence(days int) float64 {
	if days >= 0 && days <= FreshnessTrustedMaxDays {
		return FreshnessConfidenceTrusted
	}
	return FreshnessConfidenceExtrapolated
}
