package prediction

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ModelNotLoaded is the error text of a degraded response.
const ModelNotLoaded = "Model not loaded"

// DegradedResponse is the body returned when a capability has no model.
type DegradedResponse struct {
	Error string `json:"error"`
}

// Outcome is either a result or the degraded marker. It encodes as the
// result itself or as {"error": "Model not loaded"}.
type Outcome[T any] struct {
	Result   T
	Degraded bool
}

func ready[T any](result T) Outcome[T] {
	return Outcome[T]{Result: result}
}

func degraded[T any]() Outcome[T] {
	return Outcome[T]{Degraded: true}
}

func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	if o.Degraded {
		return json.Marshal(DegradedResponse{Error: ModelNotLoaded})
	}
	return json.Marshal(o.Result)
}

var errNonFinite = errors.New("model returned a non-finite value")

// clamp bounds v to [lo, hi]. NaN has no place in the range and is an error.
func clamp(v, lo, hi float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, errNonFinite
	}
	return math.Max(lo, math.Min(hi, v)), nil
}

// round rounds the exact binary value of v, sending exact ties to the even
// digit. 0.625 rounds to 0.62 and 0.15, stored just below, to 0.1.
func round(v float64, places int32) float64 {
	return decimal.NewFromFloatWithExponent(v, -40).RoundBank(places).InexactFloat64()
}
