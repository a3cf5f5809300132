// Package summary answers per-feature statistics over a row dataset whose
// columns are declared by a separate meta schema.
//
// A Summary is read-only after construction and safe for concurrent reads.
package summary

// Summary owns a schema and its normalised rows.
type Summary struct {
	schema *Schema
	// rows[i][j] is the value of feature j (schema order) in row i.
	rows [][]Value
}

// New normalises raw rows against schema: keys outside the schema are
// dropped and schema features missing from a row become null. The input is
// not modified.
func New(schema *Schema, raw []map[string]*string) *Summary {
	features := schema.features
	rows := make([][]Value, len(raw))
	for i, r := range raw {
		row := make([]Value, len(features))
		for j, f := range features {
			p, ok := r[f.Name]
			if !ok || p == nil {
				continue
			}
			if f.Kind == Categorical {
				row[j] = Text(*p)
			} else {
				row[j] = numericValue(*p)
			}
		}
		rows[i] = row
	}
	return &Summary{schema: schema, rows: rows}
}

// Schema returns the feature schema.
func (s *Summary) Schema() *Schema { return s.schema }

// Len returns the number of rows.
func (s *Summary) Len() int { return len(s.rows) }

// Row returns a copy of row i.
func (s *Summary) Row(i int) (Record, error) {
	if i < 0 || i >= len(s.rows) {
		return nil, &IndexError{Index: i, Len: len(s.rows)}
	}
	rec := make(Record, len(s.schema.features))
	for j, f := range s.schema.features {
		rec[f.Name] = s.rows[i][j]
	}
	return rec, nil
}

// Column returns the values of a feature in row order.
func (s *Summary) Column(name string) ([]Value, error) {
	j, err := s.column(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(s.rows))
	for i, row := range s.rows {
		out[i] = row[j]
	}
	return out, nil
}

// Get returns Row for integer keys and Column for string keys.
func (s *Summary) Get(key any) (any, error) {
	switch k := key.(type) {
	case int:
		return s.Row(k)
	case int8:
		return s.Row(int(k))
	case int16:
		return s.Row(int(k))
	case int32:
		return s.Row(int(k))
	case int64:
		return s.Row(int(k))
	case uint:
		return s.rowUnsigned(uint64(k))
	case uint8:
		return s.Row(int(k))
	case uint16:
		return s.Row(int(k))
	case uint32:
		return s.rowUnsigned(uint64(k))
	case uint64:
		return s.rowUnsigned(k)
	case string:
		return s.Column(k)
	default:
		return nil, &KeyTypeError{Key: key}
	}
}

func (s *Summary) rowUnsigned(k uint64) (Record, error) {
	if k >= uint64(len(s.rows)) {
		return nil, &IndexError{Index: int(min(k, uint64(^uint(0)>>1))), Len: len(s.rows)}
	}
	return s.Row(int(k))
}

// IsFeature reports a FeatureNotFoundError unless name is in the schema.
func (s *Summary) IsFeature(name string) error {
	_, err := s.column(name)
	return err
}

// NumericFeatureCheck additionally rejects categorical features.
func (s *Summary) NumericFeatureCheck(name string) error {
	_, err := s.numericColumn(name)
	return err
}

func (s *Summary) column(name string) (int, error) {
	_, j, ok := s.schema.Lookup(name)
	if !ok {
		return -1, &FeatureNotFoundError{Name: name}
	}
	return j, nil
}

func (s *Summary) numericColumn(name string) (int, error) {
	f, j, ok := s.schema.Lookup(name)
	if !ok {
		return -1, &FeatureNotFoundError{Name: name}
	}
	if f.Kind == Categorical {
		return -1, &CategoricalFeatureError{Name: name}
	}
	return j, nil
}
