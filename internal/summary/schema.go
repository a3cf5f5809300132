package summary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind is the declared type of a feature.
type Kind uint8

const (
	Numeric Kind = iota
	Categorical
)

// categoricalToken is the meta-file type that marks a categorical feature.
const categoricalToken = "string"

func (k Kind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "numeric"
}

// KindOf maps a meta-file type token to a Kind.
func KindOf(token string) Kind {
	if strings.TrimSpace(token) == categoricalToken {
		return Categorical
	}
	return Numeric
}

// Feature is one named column of the schema.
type Feature struct {
	Name string
	Kind Kind
	// Type is the raw token from the meta file, e.g. "string" or "float".
	Type string
}

// Schema is the ordered feature list plus a name lookup.
type Schema struct {
	features []Feature
	index    map[string]int
}

// NewSchema builds a Schema. A repeated name keeps its first position and
// takes the type of its last occurrence.
func NewSchema(features []Feature) *Schema {
	s := &Schema{index: make(map[string]int, len(features))}
	for _, f := range features {
		if i, ok := s.index[f.Name]; ok {
			s.features[i] = f
			continue
		}
		s.index[f.Name] = len(s.features)
		s.features = append(s.features, f)
	}
	return s
}

// ParseSchema reads the two header rows of a meta file: names, then types.
func ParseSchema(r io.Reader) (*Schema, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	names, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("meta file is empty")
		}
		return nil, fmt.Errorf("read names row: %w", err)
	}
	types, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("meta file has no types row")
		}
		return nil, fmt.Errorf("read types row: %w", err)
	}
	if len(names) != len(types) {
		return nil, fmt.Errorf("meta rows differ in length: %d names, %d types", len(names), len(types))
	}
	features := make([]Feature, len(names))
	for i := range names {
		tok := strings.TrimSpace(types[i])
		features[i] = Feature{Name: strings.TrimSpace(names[i]), Kind: KindOf(tok), Type: tok}
	}
	return NewSchema(features), nil
}

// Len returns the number of features.
func (s *Schema) Len() int { return len(s.features) }

// Features returns a copy of the features in schema order.
func (s *Schema) Features() []Feature {
	out := make([]Feature, len(s.features))
	copy(out, s.features)
	return out
}

// Names returns the feature names in schema order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.features))
	for i, f := range s.features {
		out[i] = f.Name
	}
	return out
}

// Lookup returns the feature and its column position.
func (s *Schema) Lookup(name string) (Feature, int, bool) {
	i, ok := s.index[name]
	if !ok {
		return Feature{}, -1, false
	}
	return s.features[i], i, true
}
