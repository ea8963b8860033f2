package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRegressor struct {
	calls int
	err   error
}

func (c *countingRegressor) Kind() Kind     { return KindLinear }
func (c *countingRegressor) Schema() Schema { return nil }

func (c *countingRegressor) Predict(row Row) (float64, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	v, _ := row.Get("x")
	return v.Num * 2, nil
}

type countingClassifier struct {
	calls int
}

func (c *countingClassifier) Kind() Kind        { return KindTreeClassifier }
func (c *countingClassifier) Schema() Schema    { return nil }
func (c *countingClassifier) Classes() []string { return []string{"High", "Low"} }

func (c *countingClassifier) Predict(row Row) (string, error) {
	c.calls++
	return "Low", nil
}

func (c *countingClassifier) PredictProba(row Row) ([]float64, error) {
	return []float64{0.25, 0.75}, nil
}

func TestCacheRegressor(t *testing.T) {
	inner := &countingRegressor{}
	reg, err := CacheRegressor(inner, 8)
	require.NoError(t, err)

	row := Row{NumericFeature("x", 21)}
	for i := 0; i < 3; i++ {
		got, err := reg.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, 42.0, got)
	}
	assert.Equal(t, 1, inner.calls)

	_, err = reg.Predict(Row{NumericFeature("x", 1)})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCacheRegressorSkipsErrors(t *testing.T) {
	inner := &countingRegressor{err: errors.New("boom")}
	reg, err := CacheRegressor(inner, 8)
	require.NoError(t, err)

	row := Row{NumericFeature("x", 1)}
	_, err = reg.Predict(row)
	require.Error(t, err)
	_, err = reg.Predict(row)
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCacheDisabled(t *testing.T) {
	inner := &countingRegressor{}
	reg, err := CacheRegressor(inner, 0)
	require.NoError(t, err)
	assert.Same(t, inner, reg)
}

func TestCacheClassifier(t *testing.T) {
	inner := &countingClassifier{}
	clf, err := CacheClassifier(inner, 4)
	require.NoError(t, err)

	row := Row{CategoricalFeature("congestion_level", "High")}
	label, err := clf.Predict(row)
	require.NoError(t, err)
	assert.Equal(t, "Low", label)

	probs, err := clf.PredictProba(row)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, probs)

	// Callers may not corrupt the cached vector.
	probs[0] = 1
	again, err := clf.PredictProba(row)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, again)
	assert.Equal(t, 1, inner.calls)
}
