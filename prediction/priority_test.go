package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanflux/ml"
)

func TestRationale(t *testing.T) {
	cases := []struct {
		demand   float64
		risk     string
		distance float64
		want     string
	}{
		{90, "High", 10, "High customer demand, High spoilage risk, Short distance"},
		{50, "Low", 200, "Balanced factors"},
		{81, "Medium", 50, "High customer demand"},
		{80, "High", 49.9, "High spoilage risk, Short distance"},
		{10, "high", 700, "Balanced factors"},
	}
	for _, tc := range cases {
		got := Rationale(tc.demand, tc.risk, tc.distance)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, got, Rationale(tc.demand, tc.risk, tc.distance))
	}
}

func TestPriorityRationaleIgnoresModel(t *testing.T) {
	req := PriorityRequest{SpoilageRisk: "High", CustomerDemand: 90, DistanceKm: 10}
	var reasons []string
	for _, raw := range []float64{-3, 0.2, 7.77, 42} {
		svc := NewPriorityService(ml.Bind[ml.Regressor](&stubRegressor{value: raw}))
		out, err := svc.Predict(req)
		require.NoError(t, err)
		reasons = append(reasons, out.Result.Reason)
	}
	for _, r := range reasons {
		assert.Equal(t, "High customer demand, High spoilage risk, Short distance", r)
	}
}

func TestPriorityClampsAndRounds(t *testing.T) {
	cases := []struct {
		raw  float64
		want float64
	}{
		{42, 10},
		{-3, 0},
		{7.77, 7.8},
		{4.04, 4},
		{0.15, 0.1},
		{0.25, 0.2},
	}
	for _, tc := range cases {
		svc := NewPriorityService(ml.Bind[ml.Regressor](&stubRegressor{value: tc.raw}))
		out, err := svc.Predict(PriorityRequest{SpoilageRisk: "Low", CustomerDemand: 50, DistanceKm: 200})
		require.NoError(t, err)
		assert.Equal(t, tc.want, out.Result.PriorityScore, "raw %v", tc.raw)
		assert.Equal(t, PriorityConfidence, out.Result.Confidence)
		assert.Equal(t, "Balanced factors", out.Result.Reason)
	}
}

func TestPriorityFeatureRow(t *testing.T) {
	model := &stubRegressor{value: 5}
	svc := NewPriorityService(ml.Bind[ml.Regressor](model))
	_, err := svc.Predict(PriorityRequest{SpoilageRisk: "Medium", CustomerDemand: 65.5, DistanceKm: 12})
	require.NoError(t, err)
	require.Len(t, model.rows, 1)
	assert.Equal(t, `spoilage_risk="Medium";demand_score=65.5;distance_km=12`, model.rows[0].Key())
}

func TestPriorityDegraded(t *testing.T) {
	svc := NewPriorityService(ml.Unavailable[ml.Regressor](nil))
	out, err := svc.Predict(PriorityRequest{SpoilageRisk: "High", CustomerDemand: 90, DistanceKm: 10})
	require.NoError(t, err)
	assert.True(t, out.Degraded)
}

func TestPriorityBundledModel(t *testing.T) {
	svc := NewPriorityService(Loader{}.Regressor(CapabilityPriority, "../models/priority_model.json", PrioritySchema))
	require.True(t, svc.Loaded())

	out, err := svc.Predict(PriorityRequest{SpoilageRisk: "High", CustomerDemand: 90, DistanceKm: 10})
	require.NoError(t, err)
	assert.Equal(t, PriorityResult{
		PriorityScore: 9.5,
		Confidence:    0.89,
		Reason:        "High customer demand, High spoilage risk, Short distance",
	}, out.Result)

	out, err = svc.Predict(PriorityRequest{SpoilageRisk: "Low", CustomerDemand: 50, DistanceKm: 200})
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.Result.PriorityScore)
	assert.Equal(t, "Balanced factors", out.Result.Reason)
}
