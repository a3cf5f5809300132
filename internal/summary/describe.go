package summary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// Report is a per-feature overview of a dataset.
type Report struct {
	Name     string           `json:"name,omitempty" yaml:"name,omitempty"`
	Rows     int              `json:"rows" yaml:"rows"`
	Features []FeatureSummary `json:"features" yaml:"features"`
	Warnings []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FeatureSummary holds the statistics of one feature. Numeric fields are
// set only for numeric features with at least one parsed value.
type FeatureSummary struct {
	Name       string       `json:"name" yaml:"name"`
	Kind       string       `json:"kind" yaml:"kind"`
	Count      int          `json:"count" yaml:"count"`
	Empty      int          `json:"empty" yaml:"empty"`
	Singletons int          `json:"singletons" yaml:"singletons"`
	Top        []ValueCount `json:"top,omitempty" yaml:"top,omitempty"`
	Numbers    *NumSummary  `json:"numbers,omitempty" yaml:"numbers,omitempty"`
}

// NumSummary is the numeric part of a FeatureSummary.
type NumSummary struct {
	Sum    float64 `json:"sum" yaml:"sum"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Median float64 `json:"median" yaml:"median"`
}

// Describe summarises every feature, keeping topN most frequent values.
func (s *Summary) Describe(topN int) *Report {
	rep := &Report{Rows: len(s.rows)}
	for _, f := range s.schema.features {
		// Errors below can only be ParseError; the feature exists.
		fs := FeatureSummary{Name: f.Name, Kind: f.Kind.String()}
		fs.Count, _ = s.Count(f.Name)
		fs.Empty = len(s.rows) - fs.Count
		uniq, _ := s.Unique(f.Name)
		fs.Singletons = len(uniq)
		fs.Top, _ = s.Top(f.Name, topN)
		if f.Kind == Numeric && fs.Count > 0 {
			ns, err := s.numSummary(f.Name)
			var pe *ParseError
			if errors.As(err, &pe) {
				rep.Warnings = append(rep.Warnings, pe.Error())
			} else if err == nil {
				fs.Numbers = ns
			}
		}
		rep.Features = append(rep.Features, fs)
	}
	return rep
}

func (s *Summary) numSummary(name string) (*NumSummary, error) {
	var xs []float64
	if err := s.numbers(name, func(x float64) { xs = append(xs, x) }); err != nil {
		return nil, err
	}
	sum, err := s.Sum(name)
	if err != nil {
		return nil, err
	}
	mean, err := s.Mean(name)
	if err != nil {
		return nil, err
	}
	sample := stats.Sample{Xs: xs}
	lo, hi := sample.Bounds()
	ns := &NumSummary{Sum: sum, Mean: mean, Min: lo, Max: hi}
	if len(xs) > 1 {
		ns.StdDev = sample.StdDev()
	}
	ns.Median = sample.Sort().Quantile(0.5)
	return ns, nil
}

// Markdown renders the report in the dataset summary layout.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Features: %d\n\n", len(r.Features)))

	b.WriteString("[SCHEMA]\n")
	for _, f := range r.Features {
		missPct := 0.0
		if total := f.Count + f.Empty; total > 0 {
			missPct = float64(f.Empty) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%, singletons %d)", f.Name, f.Kind, f.Count, missPct, f.Singletons))
		if n := f.Numbers; n != nil {
			b.WriteString(fmt.Sprintf(" — sum %.4g, min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", n.Sum, n.Min, n.Max, n.Mean, n.Median, n.StdDev))
		}
		if len(f.Top) > 0 {
			b.WriteString(" — top: ")
			for i, vc := range f.Top {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(vc.Value), vc.Count))
			}
		}
		b.WriteString("\n")
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
