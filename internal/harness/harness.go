// Package harness runs assertion suites against a loaded summary and
// reports each failed case as a single line without stopping the run.
package harness

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/datasum-cli/internal/summary"
	"gopkg.in/yaml.v3"
)

// Case is one assertion: apply Op to Arg and compare with Expect, or with
// the message of Error when the call is expected to fail.
type Case struct {
	Name   string `yaml:"name"`
	Op     string `yaml:"op"`
	Arg    any    `yaml:"arg"`
	Expect any    `yaml:"expect"`
	Error  string `yaml:"error"`
}

// Suite is the on-disk form of a check file.
type Suite struct {
	Data  string `yaml:"data"`
	Meta  string `yaml:"meta"`
	Cases []Case `yaml:"cases"`
}

// Result counts executed and failed cases.
type Result struct {
	Total  int
	Failed int
}

// Ops lists the operations a Case may name.
var Ops = []string{"get", "sum", "count", "mean", "min", "max", "unique", "mode", "empty"}

// LoadSuite reads a YAML suite. Relative data and meta paths are resolved
// against the suite's directory.
func LoadSuite(path string) (*Suite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}
	var s Suite
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse suite: %w", err)
	}
	dir := filepath.Dir(path)
	for _, p := range []*string{&s.Data, &s.Meta} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	for i, c := range s.Cases {
		if c.Name == "" {
			s.Cases[i].Name = fmt.Sprintf("case %d (%s)", i+1, c.Op)
		}
	}
	return &s, nil
}

// Run executes every case against s and writes one line per failure to w.
func Run(s *summary.Summary, cases []Case, w io.Writer) Result {
	var res Result
	for _, c := range cases {
		res.Total++
		got, err := Invoke(s, c.Op, c.Arg)
		if c.Error != "" {
			if err == nil || err.Error() != c.Error {
				res.Failed++
				fmt.Fprintf(w, "%s: Failure (Expected: %s, Got: %s)\n", c.Name, c.Error, describe(got, err))
			}
			continue
		}
		if err != nil || !equal(normalize(got), normalize(c.Expect)) {
			res.Failed++
			fmt.Fprintf(w, "%s: Failure (Expected: %s, Got: %s)\n", c.Name, format(normalize(c.Expect)), describe(got, err))
		}
	}
	return res
}

// Invoke applies a named operation. Integer args index rows for "get".
func Invoke(s *summary.Summary, op string, arg any) (any, error) {
	op = strings.ToLower(op)
	if op == "get" {
		return s.Get(arg)
	}
	name, ok := arg.(string)
	if !ok {
		return nil, fmt.Errorf("%s: feature argument must be a string, got %T", op, arg)
	}
	switch op {
	case "sum":
		return s.Sum(name)
	case "count":
		return s.Count(name)
	case "mean":
		return s.Mean(name)
	case "min":
		return s.Min(name)
	case "max":
		return s.Max(name)
	case "unique":
		return s.Unique(name)
	case "mode":
		return s.Mode(name)
	case "empty":
		return s.Empty(name)
	}
	return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownOp, op, strings.Join(Ops, ", "))
}

// ErrUnknownOp marks a case naming an unsupported op.
var ErrUnknownOp = errors.New("unknown op")

// Validate checks that every case names a supported op.
func Validate(cases []Case) error {
	for _, c := range cases {
		found := false
		for _, op := range Ops {
			if strings.EqualFold(c.Op, op) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: %w %q", c.Name, ErrUnknownOp, c.Op)
		}
	}
	return nil
}

func describe(got any, err error) string {
	if err != nil {
		return err.Error()
	}
	return format(normalize(got))
}

// normalize maps results and YAML values onto nil, string, float64,
// []any and map[string]any.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case summary.Value:
		if x.IsNull() {
			return nil
		}
		return x.String()
	case summary.Record:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case []summary.Value:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	}
	return v
}

func equal(a, b any) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		return math.Abs(x-y) <= 1e-9*math.Max(math.Abs(x), math.Abs(y))
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return a == b
}

func format(v any) string {
	if v == nil {
		return "null"
	}
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%g", f)
	}
	return fmt.Sprintf("%v", v)
}
