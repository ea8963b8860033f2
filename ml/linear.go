package ml

import "fmt"

// LinearParams are the weights of a linear regressor, keyed by column.
type LinearParams struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// LinearRegressor computes intercept + w·x over the encoded columns.
type LinearRegressor struct {
	encoder   *encoder
	intercept float64
	weights   []float64
}

func newLinearRegressor(enc *encoder, params *LinearParams) (*LinearRegressor, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: linear model has no parameters", ErrInvalidArtifact)
	}
	weights := make([]float64, len(enc.columns))
	for name, w := range params.Coefficients {
		col, ok := enc.column(name)
		if !ok {
			return nil, fmt.Errorf("%w: coefficient for unknown column %q", ErrInvalidArtifact, name)
		}
		weights[col] = w
	}
	return &LinearRegressor{encoder: enc, intercept: params.Intercept, weights: weights}, nil
}

func (l *LinearRegressor) Kind() Kind { return KindLinear }

func (l *LinearRegressor) Schema() Schema { return l.encoder.schema() }

func (l *LinearRegressor) Predict(row Row) (float64, error) {
	x, err := l.encoder.encode(row)
	if err != nil {
		return 0, err
	}
	y := l.intercept
	for i, w := range l.weights {
		y += w * x[i]
	}
	return y, nil
}
