package summary

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrMissingSource is returned by Load when the data or meta path is empty.
var ErrMissingSource = errors.New("data file and meta file must be provided")

// ErrNoValues indicates an aggregate that needs at least one non-null value.
var ErrNoValues = errors.New("no non-null values")

// SourceNotFoundError indicates a data or meta path that does not exist.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source not found: %s", e.Path)
}

func (e *SourceNotFoundError) Unwrap() error { return fs.ErrNotExist }

// FeatureNotFoundError indicates a feature name absent from the schema.
type FeatureNotFoundError struct {
	Name string
}

func (e *FeatureNotFoundError) Error() string {
	return fmt.Sprintf("Feature '%s' not found in data", e.Name)
}

// CategoricalFeatureError indicates a numeric operation on a categorical feature.
type CategoricalFeatureError struct {
	Name string
}

func (e *CategoricalFeatureError) Error() string {
	return fmt.Sprintf("Cannot calculate for categorical feature '%s'", e.Name)
}

// ParseError indicates a numeric feature cell that is not a number.
type ParseError struct {
	Feature string
	Row     int
	Value   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feature '%s' row %d: cannot parse %q as number", e.Feature, e.Row, e.Value)
}

// IndexError indicates a row index outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("row index %d out of range [0, %d)", e.Index, e.Len)
}

// KeyTypeError indicates a Get key that is neither an integer nor a string.
type KeyTypeError struct {
	Key any
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("invalid key type %T: want integer index or feature name", e.Key)
}
