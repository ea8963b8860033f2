package ml

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FeatureType is the scalar kind a model expects for a named feature.
type FeatureType string

const (
	Numeric     FeatureType = "numeric"
	Categorical FeatureType = "categorical"
)

// FeatureSpec names one input of a model.
type FeatureSpec struct {
	Name string      `json:"name"`
	Type FeatureType `json:"type"`
}

// Schema is the set of inputs a model was trained against.
type Schema []FeatureSpec

// Value is a single scalar in a feature row.
type Value struct {
	Type FeatureType
	Num  float64
	Cat  string
}

func (v Value) String() string {
	if v.Type == Categorical {
		return strconv.Quote(v.Cat)
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// Feature is a named value.
type Feature struct {
	Name  string
	Value Value
}

// Row is the single-row input handed to a model, in mapper order.
type Row []Feature

func NumericFeature(name string, v float64) Feature {
	return Feature{Name: name, Value: Value{Type: Numeric, Num: v}}
}

func CategoricalFeature(name, v string) Feature {
	return Feature{Name: name, Value: Value{Type: Categorical, Cat: v}}
}

// Get returns the value stored under name.
func (r Row) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Schema returns the names and types carried by the row.
func (r Row) Schema() Schema {
	schema := make(Schema, len(r))
	for i, f := range r {
		schema[i] = FeatureSpec{Name: f.Name, Type: f.Value.Type}
	}
	return schema
}

// Key is a canonical string form of the row, stable across calls.
func (r Row) Key() string {
	var b strings.Builder
	for i, f := range r {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(f.Value.String())
	}
	return b.String()
}

func (r Row) String() string {
	return "{" + r.Key() + "}"
}

// Names returns the feature names sorted.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	sort.Strings(names)
	return names
}

// Match reports whether s and expected describe the same feature set.
// Order is not significant.
func (s Schema) Match(expected Schema) error {
	got := make(map[string]FeatureType, len(s))
	for _, f := range s {
		got[f.Name] = f.Type
	}
	var problems []string
	for _, want := range expected {
		typ, ok := got[want.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing %q", want.Name))
			continue
		}
		if typ != want.Type {
			problems = append(problems, fmt.Sprintf("%q is %s, want %s", want.Name, typ, want.Type))
		}
		delete(got, want.Name)
	}
	extra := make([]string, 0, len(got))
	for name := range got {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		problems = append(problems, fmt.Sprintf("unexpected %q", name))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(problems, ", "))
	}
	return nil
}
