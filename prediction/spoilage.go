package prediction

import (
	"errors"
	"fmt"
	"math"

	"urbanflux/ml"
)

var SpoilageSchema = ml.Schema{
	{Name: "current_freshness", Type: ml.Numeric},
	{Name: "delay_factor", Type: ml.Numeric},
	{Name: "temperature", Type: ml.Numeric},
	{Name: "congestion_level", Type: ml.Categorical},
}

type SpoilageRequest struct {
	Freshness   float64
	DelayHours  float64
	Temperature float64
	Congestion  string
}

// SpoilageResult carries the predicted risk class. RiskScore is the
// model's probability for that class, not a risk magnitude.
type SpoilageResult struct {
	RiskLevel string  `json:"risk_level"`
	RiskScore float64 `json:"risk_score"`
}

type SpoilageService struct {
	model ml.Binding[ml.Classifier]
}

func NewSpoilageService(model ml.Binding[ml.Classifier]) *SpoilageService {
	return &SpoilageService{model: model}
}

func (s *SpoilageService) Loaded() bool {
	return s.model.IsLoaded()
}

func (s *SpoilageService) Predict(req SpoilageRequest) (Outcome[SpoilageResult], error) {
	model, ok := s.model.Model()
	if !ok {
		return degraded[SpoilageResult](), nil
	}

	row := SpoilageFeatures(req)
	label, err := model.Predict(row)
	if err != nil {
		return Outcome[SpoilageResult]{}, fmt.Errorf("predict spoilage: %w", err)
	}
	probs, err := model.PredictProba(row)
	if err != nil {
		return Outcome[SpoilageResult]{}, fmt.Errorf("predict spoilage probabilities: %w", err)
	}
	confidence, err := maxProbability(probs)
	if err != nil {
		return Outcome[SpoilageResult]{}, fmt.Errorf("predict spoilage probabilities: %w", err)
	}
	return ready(SpoilageResult{
		RiskLevel: label,
		RiskScore: round(confidence, 2),
	}), nil
}

func SpoilageFeatures(req SpoilageRequest) ml.Row {
	return ml.Row{
		ml.NumericFeature("current_freshness", req.Freshness),
		ml.NumericFeature("delay_factor", DelayFactor(req.DelayHours)),
		ml.NumericFeature("temperature", req.Temperature),
		ml.CategoricalFeature("congestion_level", req.Congestion),
	}
}

func DelayFactor(delayHours float64) float64 {
	return DelayFactorBase + delayHours*DelayFactorPerHour
}

func maxProbability(probs []float64) (float64, error) {
	if len(probs) == 0 {
		return 0, errors.New("model returned no class probabilities")
	}
	best := probs[0]
	for _, p := range probs[1:] {
		if p > best {
			best = p
		}
	}
	if math.IsNaN(best) || best < 0 || best > 1 {
		return 0, fmt.Errorf("class probability %v outside [0, 1]", best)
	}
	return best, nil
}
