package prediction

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanflux/ml"
)

type stubClassifier struct {
	label string
	probs []float64
	err   error
	rows  []ml.Row
}

func (s *stubClassifier) Kind() ml.Kind     { return ml.KindTreeClassifier }
func (s *stubClassifier) Schema() ml.Schema { return nil }
func (s *stubClassifier) Classes() []string { return []string{"High", "Low", "Medium"} }

func (s *stubClassifier) PredictProba(ml.Row) ([]float64, error) {
	return s.probs, nil
}

func (s *stubClassifier) Predict(row ml.Row) (string, error) {
	s.rows = append(s.rows, row)
	return s.label, s.err
}

func TestDelayFactor(t *testing.T) {
	assert.Equal(t, 2.0, DelayFactor(5))
	assert.Equal(t, 1.0, DelayFactor(0))

	row := SpoilageFeatures(SpoilageRequest{Freshness: 70, DelayHours: 5, Temperature: 6, Congestion: "Medium"})
	v, ok := row.Get("delay_factor")
	require.True(t, ok)
	assert.Equal(t, 2.0, v.Num)
	assert.NoError(t, row.Schema().Match(SpoilageSchema))
}

func TestSpoilageScoreIsMaxProbability(t *testing.T) {
	cases := []struct {
		probs []float64
		want  float64
	}{
		{[]float64{0.1, 0.7, 0.2}, 0.7},
		{[]float64{0.333, 0.333, 0.334}, 0.33},
		{[]float64{0.125, 0.875}, 0.88},
		{[]float64{0.375, 0.625}, 0.62},
		{[]float64{1}, 1},
	}
	for _, tc := range cases {
		svc := NewSpoilageService(ml.Bind[ml.Classifier](&stubClassifier{label: "Medium", probs: tc.probs}))
		out, err := svc.Predict(SpoilageRequest{Freshness: 60, DelayHours: 2, Temperature: 12, Congestion: "High"})
		require.NoError(t, err)
		assert.Equal(t, "Medium", out.Result.RiskLevel)
		assert.Equal(t, tc.want, out.Result.RiskScore, "probs %v", tc.probs)
	}
}

func TestSpoilageEmptyProbabilities(t *testing.T) {
	svc := NewSpoilageService(ml.Bind[ml.Classifier](&stubClassifier{label: "Low"}))
	_, err := svc.Predict(SpoilageRequest{Congestion: "Low"})
	require.Error(t, err)
}

func TestSpoilageRejectsInvalidProbabilities(t *testing.T) {
	for _, probs := range [][]float64{
		{math.NaN(), 0.2},
		{math.Inf(1), 0},
		{1.5, 0.1},
		{-0.2, -0.5},
	} {
		svc := NewSpoilageService(ml.Bind[ml.Classifier](&stubClassifier{label: "High", probs: probs}))
		_, err := svc.Predict(SpoilageRequest{Congestion: "Low"})
		require.Error(t, err, "probs %v", probs)
	}
}

func TestSpoilageInferenceError(t *testing.T) {
	svc := NewSpoilageService(ml.Bind[ml.Classifier](&stubClassifier{err: errors.New("bad input")}))
	_, err := svc.Predict(SpoilageRequest{Congestion: "Low"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad input")
}

func TestSpoilageDegraded(t *testing.T) {
	svc := NewSpoilageService(ml.Binding[ml.Classifier]{})
	out, err := svc.Predict(SpoilageRequest{Freshness: 10})
	require.NoError(t, err)
	assert.True(t, out.Degraded)

	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Model not loaded"}`, string(body))
}

func TestSpoilageBundledModel(t *testing.T) {
	binding := Loader{CacheSize: 16}.Classifier(CapabilitySpoilage, "../models/spoilage_model.json", SpoilageSchema)
	require.True(t, binding.IsLoaded(), "load: %v", binding.Reason())

	svc := NewSpoilageService(binding)
	out, err := svc.Predict(SpoilageRequest{Freshness: 80, DelayHours: 5, Temperature: 4, Congestion: "Low"})
	require.NoError(t, err)
	assert.Equal(t, SpoilageResult{RiskLevel: "Low", RiskScore: 0.9}, out.Result)

	out, err = svc.Predict(SpoilageRequest{Freshness: 40, DelayHours: 1, Temperature: 4, Congestion: "Low"})
	require.NoError(t, err)
	assert.Equal(t, SpoilageResult{RiskLevel: "High", RiskScore: 0.8}, out.Result)
}
