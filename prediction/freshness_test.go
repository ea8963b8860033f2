package prediction

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanflux/ml"
)

type stubRegressor struct {
	value float64
	err   error
	rows  []ml.Row
}

func (s *stubRegressor) Kind() ml.Kind     { return ml.KindLinear }
func (s *stubRegressor) Schema() ml.Schema { return nil }

func (s *stubRegressor) Predict(row ml.Row) (float64, error) {
	s.rows = append(s.rows, row)
	return s.value, s.err
}

var fixedNow = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func daysAgo(n int) string {
	return fixedNow.AddDate(0, 0, -n).Format(DateLayout)
}

func TestFreshnessConfidenceBands(t *testing.T) {
	model := &stubRegressor{value: 80}
	svc := NewFreshnessService(ml.Bind[ml.Regressor](model), clock)

	cases := []struct {
		name string
		days int
		want float64
	}{
		{"fresh", 10, 0.95},
		{"band start", 0, 0.95},
		{"band end", 20, 0.95},
		{"past band", 21, 0.8},
		{"old", 30, 0.8},
		{"future production date", -2, 0.8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := svc.Predict(FreshnessRequest{
				ProducedDate: daysAgo(tc.days),
				ExpiryDate:   daysAgo(-30),
				StorageType:  "refrigerated",
				QualityGrade: "A",
			})
			require.NoError(t, err)
			require.False(t, out.Degraded)
			assert.Equal(t, tc.want, out.Result.Confidence)
		})
	}
}

func TestFreshnessFeatureRow(t *testing.T) {
	row, days, err := FreshnessFeatures(FreshnessRequest{
		ProducedDate: daysAgo(10),
		ExpiryDate:   "not even a date",
		StorageType:  "refrigerated",
		QualityGrade: "A",
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 10, days)
	assert.Equal(t, `days_in_storage=10;storage_type="refrigerated";quality_grade="A"`, row.Key())
	assert.NoError(t, row.Schema().Match(FreshnessSchema))
}

func TestDaysInStorage(t *testing.T) {
	days, err := DaysInStorage("2026-10-14", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	days, err = DaysInStorage("2026-10-15", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, -1, days)

	days, err = DaysInStorage("1990-01-01", fixedNow)
	require.NoError(t, err)
	assert.Greater(t, days, 13000)

	// Spans beyond what a time.Duration holds.
	for date, want := range map[string]int{
		"1700-01-01": 119355,
		"0001-01-01": 739902,
		"2500-06-01": -172990,
	} {
		days, err = DaysInStorage(date, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, want, days, date)
	}

	// The wall clock counts, not the offset from UTC.
	tokyo := time.FixedZone("JST", 9*60*60)
	days, err = DaysInStorage("2026-10-14", time.Date(2026, 10, 14, 1, 0, 0, 0, tokyo))
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestFreshnessClampsModelOutput(t *testing.T) {
	cases := []struct {
		raw  float64
		want float64
	}{
		{250, 100},
		{-40, 0},
		{73.46, 73.5},
		{72.25, 72.2},
		{72.35, 72.3},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
	}
	for _, tc := range cases {
		svc := NewFreshnessService(ml.Bind[ml.Regressor](&stubRegressor{value: tc.raw}), clock)
		out, err := svc.Predict(FreshnessRequest{ProducedDate: daysAgo(5), StorageType: "frozen", QualityGrade: "B"})
		require.NoError(t, err)
		assert.Equal(t, tc.want, out.Result.Freshness, "raw %v", tc.raw)
		assert.GreaterOrEqual(t, out.Result.Freshness, FreshnessMin)
		assert.LessOrEqual(t, out.Result.Freshness, FreshnessMax)
	}
}

func TestFreshnessRejectsNaN(t *testing.T) {
	svc := NewFreshnessService(ml.Bind[ml.Regressor](&stubRegressor{value: math.NaN()}), clock)
	_, err := svc.Predict(FreshnessRequest{ProducedDate: daysAgo(5), StorageType: "frozen", QualityGrade: "B"})
	require.Error(t, err)
}

func TestFreshnessMalformedDate(t *testing.T) {
	model := &stubRegressor{value: 50}
	svc := NewFreshnessService(ml.Bind[ml.Regressor](model), clock)
	_, err := svc.Predict(FreshnessRequest{ProducedDate: "14/10/2026", StorageType: "frozen", QualityGrade: "B"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "14/10/2026")
	assert.Empty(t, model.rows)
}

func TestFreshnessDegraded(t *testing.T) {
	svc := NewFreshnessService(ml.Unavailable[ml.Regressor](nil), clock)
	assert.False(t, svc.Loaded())

	// Even an unparseable date must not surface an error without a model.
	out, err := svc.Predict(FreshnessRequest{ProducedDate: "garbage"})
	require.NoError(t, err)
	assert.True(t, out.Degraded)

	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Model not loaded"}`, string(body))
}

func TestFreshnessBundledModel(t *testing.T) {
	binding := Loader{}.Regressor(CapabilityFreshness, "../models/freshness_model.json", FreshnessSchema)
	require.True(t, binding.IsLoaded(), "load: %v", binding.Reason())

	svc := NewFreshnessService(binding, clock)
	out, err := svc.Predict(FreshnessRequest{
		ProducedDate: daysAgo(10),
		ExpiryDate:   daysAgo(-20),
		StorageType:  "refrigerated",
		QualityGrade: "A",
	})
	require.NoError(t, err)

	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"freshness": 72, "confidence": 0.95}`, string(body))
}
