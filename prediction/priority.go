package prediction

import (
	"fmt"
	"strings"

	"urbanflux/ml"
)

var PrioritySchema = ml.Schema{
	{Name: "spoilage_risk", Type: ml.Categorical},
	{Name: "demand_score", Type: ml.Numeric},
	{Name: "distance_km", Type: ml.Numeric},
}

type PriorityRequest struct {
	SpoilageRisk   string
	CustomerDemand float64
	DistanceKm     float64
}

type PriorityResult struct {
	PriorityScore float64 `json:"priority_score"`
	Confidence    float64 `json:"confidence"`
	Reason        string  `json:"reason"`
}

type PriorityService struct {
	model ml.Binding[ml.Regressor]
}

func NewPriorityService(model ml.Binding[ml.Regressor]) *PriorityService {
	return &PriorityService{model: model}
}

func (s *PriorityService) Loaded() bool {
	return s.model.IsLoaded()
}

func (s *PriorityService) Predict(req PriorityRequest) (Outcome[PriorityResult], error) {
	model, ok := s.model.Model()
	if !ok {
		return degraded[PriorityResult](), nil
	}

	raw, err := model.Predict(PriorityFeatures(req))
	if err != nil {
		return Outcome[PriorityResult]{}, fmt.Errorf("predict priority: %w", err)
	}
	score, err := clamp(raw, PriorityMin, PriorityMax)
	if err != nil {
		return Outcome[PriorityResult]{}, fmt.Errorf("predict priority: %w", err)
	}
	return ready(PriorityResult{
		PriorityScore: round(score, 1),
		Confidence:    PriorityConfidence,
		Reason:        Rationale(req.CustomerDemand, req.SpoilageRisk, req.DistanceKm),
	}), nil
}

func PriorityFeatures(req PriorityRequest) ml.Row {
	return ml.Row{
		ml.CategoricalFeature("spoilage_risk", req.SpoilageRisk),
		ml.NumericFeature("demand_score", req.CustomerDemand),
		ml.NumericFeature("distance_km", req.DistanceKm),
	}
}

// Rationale explains a priority from its inputs alone. Every rule that
// fires contributes, in a fixed order.
func Rationale(demand float64, spoilageRisk string, distanceKm float64) string {
	var reasons []string
	if demand > HighDemandThreshold {
		reasons = append(reasons, "High customer demand")
	}
	if spoilageRisk == HighSpoilageRiskLevel {
		reasons = append(reasons, "High spoilage risk")
	}
	if distanceKm < ShortDistanceKm {
		reasons = append(reasons, "Short distance")
	}
	if len(reasons) == 0 {
		return "Balanced factors"
	}
	return strings.Join(reasons, ", ")
}
