package ml

import "errors"

var (
	ErrSchemaMismatch  = errors.New("feature schema mismatch")
	ErrUnsupportedKind = errors.New("unsupported model kind")
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// Kind identifies the estimator stored in an artifact.
type Kind string

const (
	KindTreeRegressor  Kind = "decision_tree_regressor"
	KindTreeClassifier Kind = "decision_tree_classifier"
	KindLinear         Kind = "linear_regressor"
)

// IsClassifier reports whether the kind produces class labels.
func (k Kind) IsClassifier() bool {
	return k == KindTreeClassifier
}

// Model is an immutable, loaded estimator. Implementations are safe for
// concurrent use.
type Model interface {
	Kind() Kind
	Schema() Schema
}

// Regressor produces one number per row.
type Regressor interface {
	Model
	Predict(row Row) (float64, error)
}

// Classifier produces one label per row plus a probability per class.
type Classifier interface {
	Model
	Classes() []string
	Predict(row Row) (string, error)
	PredictProba(row Row) ([]float64, error)
}

// Binding holds either a loaded model or nothing. A zero Binding is
// unavailable.
type Binding[M Model] struct {
	model  M
	loaded bool
	reason error
}

// Bind wraps a successfully loaded model.
func Bind[M Model](m M) Binding[M] {
	return Binding[M]{model: m, loaded: true}
}

// Unavailable records why no model could be bound.
func Unavailable[M Model](reason error) Binding[M] {
	return Binding[M]{reason: reason}
}

// Model returns the bound model and true, or the zero value and false.
func (b Binding[M]) Model() (M, bool) {
	return b.model, b.loaded
}

func (b Binding[M]) IsLoaded() bool {
	return b.loaded
}

// Reason is the load error of an unavailable binding.
func (b Binding[M]) Reason() error {
	if b.loaded {
		return nil
	}
	if b.reason == nil {
		return errors.New("model not configured")
	}
	return b.reason
}
