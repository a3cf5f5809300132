package summary

import (
	"fmt"
	"math"
	"sort"
)

// ModeSize is how many values Mode returns at most.
const ModeSize = 10

// ValueCount pairs a feature value with its frequency.
type ValueCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// numbers visits the parsed non-null values of a numeric feature.
func (s *Summary) numbers(name string, visit func(x float64)) error {
	j, err := s.numericColumn(name)
	if err != nil {
		return err
	}
	for i, row := range s.rows {
		v := row[j]
		if v.IsNull() {
			continue
		}
		x, ok := v.Float()
		if !ok {
			return &ParseError{Feature: name, Row: i, Value: v.String()}
		}
		visit(x)
	}
	return nil
}

func (s *Summary) sumCount(name string) (float64, int, error) {
	var sum float64
	var n int
	err := s.numbers(name, func(x float64) {
		sum += x
		n++
	})
	return sum, n, err
}

// Sum adds the non-null values of a numeric feature; 0 when there are none.
func (s *Summary) Sum(name string) (float64, error) {
	sum, _, err := s.sumCount(name)
	if err != nil {
		return 0, err
	}
	return sum, nil
}

// Count returns the number of non-null values.
func (s *Summary) Count(name string) (int, error) {
	j, err := s.column(name)
	if err != nil {
		return 0, err
	}
	var n int
	for _, row := range s.rows {
		if !row[j].IsNull() {
			n++
		}
	}
	return n, nil
}

// Empty returns the number of null values.
func (s *Summary) Empty(name string) (int, error) {
	n, err := s.Count(name)
	if err != nil {
		return 0, err
	}
	return len(s.rows) - n, nil
}

// Mean returns Sum/Count.
func (s *Summary) Mean(name string) (float64, error) {
	sum, n, err := s.sumCount(name)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("mean of '%s': %w", name, ErrNoValues)
	}
	return sum / float64(n), nil
}

// Min returns the smallest non-null value.
func (s *Summary) Min(name string) (float64, error) {
	lo, _, err := s.bounds(name, "min")
	return lo, err
}

// Max returns the largest non-null value.
func (s *Summary) Max(name string) (float64, error) {
	_, hi, err := s.bounds(name, "max")
	return hi, err
}

func (s *Summary) bounds(name, op string) (float64, float64, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	var n int
	err := s.numbers(name, func(x float64) {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
		n++
	})
	if err != nil {
		return 0, 0, err
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("%s of '%s': %w", op, name, ErrNoValues)
	}
	return lo, hi, nil
}

// frequencies counts non-null values in first-occurrence order.
func (s *Summary) frequencies(name string) ([]ValueCount, error) {
	j, err := s.column(name)
	if err != nil {
		return nil, err
	}
	pos := map[string]int{}
	var out []ValueCount
	for _, row := range s.rows {
		v := row[j]
		if v.IsNull() {
			continue
		}
		if i, ok := pos[v.String()]; ok {
			out[i].Count++
			continue
		}
		pos[v.String()] = len(out)
		out = append(out, ValueCount{Value: v.String(), Count: 1})
	}
	return out, nil
}

// Unique returns, in ascending order, the values that occur exactly once.
// Values seen more than once are excluded entirely.
func (s *Summary) Unique(name string) ([]string, error) {
	freq, err := s.frequencies(name)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, vc := range freq {
		if vc.Count == 1 {
			out = append(out, vc.Value)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Top returns up to n values by descending frequency. Equal frequencies
// keep first-occurrence order.
func (s *Summary) Top(name string, n int) ([]ValueCount, error) {
	freq, err := s.frequencies(name)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(freq, func(i, j int) bool { return freq[i].Count > freq[j].Count })
	if n >= 0 && len(freq) > n {
		freq = freq[:n]
	}
	return freq, nil
}

// Mode returns the ModeSize most frequent values.
func (s *Summary) Mode(name string) ([]string, error) {
	top, err := s.Top(name, ModeSize)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(top))
	for i, vc := range top {
		out[i] = vc.Value
	}
	return out, nil
}
