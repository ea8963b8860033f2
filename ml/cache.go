package ml

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheRegressor memoises predictions of an immutable regressor by row.
// A size of zero or less returns r unchanged.
func CacheRegressor(r Regressor, size int) (Regressor, error) {
	if size <= 0 {
		return r, nil
	}
	cache, err := lru.New[string, float64](size)
	if err != nil {
		return nil, err
	}
	return &cachedRegressor{Regressor: r, cache: cache}, nil
}

type cachedRegressor struct {
	Regressor
	cache *lru.Cache[string, float64]
}

func (c *cachedRegressor) Predict(row Row) (float64, error) {
	key := row.Key()
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.Regressor.Predict(row)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// CacheClassifier memoises label and probabilities together.
func CacheClassifier(c Classifier, size int) (Classifier, error) {
	if size <= 0 {
		return c, nil
	}
	cache, err := lru.New[string, classification](size)
	if err != nil {
		return nil, err
	}
	return &cachedClassifier{Classifier: c, cache: cache}, nil
}

type classification struct {
	label string
	probs []float64
}

type cachedClassifier struct {
	Classifier
	cache *lru.Cache[string, classification]
}

func (c *cachedClassifier) classify(row Row) (classification, error) {
	key := row.Key()
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	label, err := c.Classifier.Predict(row)
	if err != nil {
		return classification{}, err
	}
	probs, err := c.Classifier.PredictProba(row)
	if err != nil {
		return classification{}, err
	}
	v := classification{label: label, probs: probs}
	c.cache.Add(key, v)
	return v, nil
}

func (c *cachedClassifier) Predict(row Row) (string, error) {
	v, err := c.classify(row)
	return v.label, err
}

func (c *cachedClassifier) PredictProba(row Row) ([]float64, error) {
	v, err := c.classify(row)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), v.probs...), nil
}
