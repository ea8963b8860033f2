package ml

import (
	"encoding/json"
	"fmt"
	"os"
)

// ArtifactFormat tags the JSON layout understood by ReadArtifact.
const ArtifactFormat = "urbanflux.model/v1"

// Artifact is the serialized form of a trained estimator.
type Artifact struct {
	Format   string            `json:"format"`
	Name     string            `json:"name,omitempty"`
	Kind     Kind              `json:"kind"`
	Features []ArtifactFeature `json:"features"`
	Classes  []string          `json:"classes,omitempty"`
	Tree     []TreeNode        `json:"tree,omitempty"`
	Linear   *LinearParams     `json:"linear,omitempty"`
}

func ReadArtifact(path string) (*Artifact, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if artifact.Format != ArtifactFormat {
		return nil, fmt.Errorf("%w: format %q, want %q", ErrInvalidArtifact, artifact.Format, ArtifactFormat)
	}
	return &artifact, nil
}

// Build turns the artifact into a ready model.
func (a *Artifact) Build() (Model, error) {
	enc, err := newEncoder(a.Features)
	if err != nil {
		return nil, err
	}
	switch a.Kind {
	case KindTreeRegressor:
		tree, err := newDecisionTree(enc, a.Tree, 0)
		if err != nil {
			return nil, err
		}
		return &TreeRegressor{DecisionTree: tree}, nil
	case KindTreeClassifier:
		if len(a.Classes) == 0 {
			return nil, fmt.Errorf("%w: classifier has no classes", ErrInvalidArtifact)
		}
		tree, err := newDecisionTree(enc, a.Tree, len(a.Classes))
		if err != nil {
			return nil, err
		}
		return &TreeClassifier{DecisionTree: tree, classes: append([]string(nil), a.Classes...)}, nil
	case KindLinear:
		return newLinearRegressor(enc, a.Linear)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, a.Kind)
	}
}

func LoadModel(path string) (Model, error) {
	artifact, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	return artifact.Build()
}

// LoadRegressor loads a regression artifact and checks it was trained on
// exactly the expected schema.
func LoadRegressor(path string, expected Schema) (Regressor, error) {
	model, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	r, ok := model.(Regressor)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a regressor", ErrUnsupportedKind, model.Kind())
	}
	if err := r.Schema().Match(expected); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadClassifier is LoadRegressor for classification artifacts.
func LoadClassifier(path string, expected Schema) (Classifier, error) {
	model, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	c, ok := model.(Classifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a classifier", ErrUnsupportedKind, model.Kind())
	}
	if err := c.Schema().Match(expected); err != nil {
		return nil, err
	}
	return c, nil
}
