package ml

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// ArtifactFeature declares one model input. Categorical features list their
// known levels; each level becomes a one-hot column named "name=level".
type ArtifactFeature struct {
	Name       string      `json:"name"`
	Type       FeatureType `json:"type"`
	Categories []string    `json:"categories,omitempty"`
}

type encodedFeature struct {
	spec   ArtifactFeature
	offset int
	levels map[string]int
}

// encoder turns a Row into the dense column vector a model indexes into.
type encoder struct {
	features []encodedFeature
	byName   map[string]int
	columns  []string
	index    map[string]int
}

func newEncoder(features []ArtifactFeature) (*encoder, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no features declared", ErrInvalidArtifact)
	}
	enc := &encoder{
		byName: make(map[string]int, len(features)),
		index:  make(map[string]int),
	}
	for i, f := range features {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: feature %d has no name", ErrInvalidArtifact, i)
		}
		if _, dup := enc.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrInvalidArtifact, f.Name)
		}
		ef := encodedFeature{spec: f, offset: len(enc.columns)}
		switch f.Type {
		case Numeric:
			if err := enc.addColumn(f.Name); err != nil {
				return nil, err
			}
		case Categorical:
			if len(f.Categories) == 0 {
				return nil, fmt.Errorf("%w: categorical feature %q has no categories", ErrInvalidArtifact, f.Name)
			}
			ef.levels = make(map[string]int, len(f.Categories))
			for j, c := range f.Categories {
				key := norm.NFC.String(c)
				if _, dup := ef.levels[key]; dup {
					return nil, fmt.Errorf("%w: feature %q repeats category %q", ErrInvalidArtifact, f.Name, c)
				}
				ef.levels[key] = j
				if err := enc.addColumn(f.Name + "=" + c); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("%w: feature %q has unknown type %q", ErrInvalidArtifact, f.Name, f.Type)
		}
		enc.byName[f.Name] = len(enc.features)
		enc.features = append(enc.features, ef)
	}
	return enc, nil
}

func (e *encoder) addColumn(name string) error {
	if _, dup := e.index[name]; dup {
		return fmt.Errorf("%w: column %q is produced twice", ErrInvalidArtifact, name)
	}
	e.index[name] = len(e.columns)
	e.columns = append(e.columns, name)
	return nil
}

func (e *encoder) column(name string) (int, bool) {
	idx, ok := e.index[name]
	return idx, ok
}

func (e *encoder) schema() Schema {
	schema := make(Schema, len(e.features))
	for i, f := range e.features {
		schema[i] = FeatureSpec{Name: f.spec.Name, Type: f.spec.Type}
	}
	return schema
}

// encode fails unless row carries exactly the declared features with the
// declared types. Unknown category levels encode as all zeros.
func (e *encoder) encode(row Row) ([]float64, error) {
	if len(row) != len(e.features) {
		if err := row.Schema().Match(e.schema()); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: row has %d features, model expects %d", ErrSchemaMismatch, len(row), len(e.features))
	}
	vector := make([]float64, len(e.columns))
	seen := make([]bool, len(e.features))
	for _, f := range row {
		i, ok := e.byName[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: unexpected feature %q", ErrSchemaMismatch, f.Name)
		}
		if seen[i] {
			return nil, fmt.Errorf("%w: feature %q given twice", ErrSchemaMismatch, f.Name)
		}
		seen[i] = true
		ef := e.features[i]
		if f.Value.Type != ef.spec.Type {
			return nil, fmt.Errorf("%w: %q is %s, want %s", ErrSchemaMismatch, f.Name, f.Value.Type, ef.spec.Type)
		}
		switch ef.spec.Type {
		case Numeric:
			vector[ef.offset] = f.Value.Num
		case Categorical:
			if level, ok := ef.levels[norm.NFC.String(f.Value.Cat)]; ok {
				vector[ef.offset+level] = 1
			}
		}
	}
	return vector, nil
}
