package summary_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/KaramelBytes/datasum-cli/internal/summary"
	"github.com/klauspost/compress/zstd"
)

const happinessMeta = "Country,Region,Happiness Rank,Happiness Score,Standard Error,Class\n" +
	"string,string,int,float,float,string\n"

const happinessData = `{"data": [
	{"Country": "Switzerland", "Region": "Western Europe", "Happiness Rank": "1", "Happiness Score": "7.587", "Standard Error": "0.03411", "Class": "A"},
	{"Country": "Iceland", "Region": "Western Europe", "Happiness Rank": "2", "Happiness Score": "7.561", "Standard Error": null, "Class": "B"},
	{"Country": "Denmark", "Region": "Western Europe", "Happiness Rank": "3", "Happiness Score": "7.527", "Standard Error": "0.03328", "Class": "A"},
	{"Country": "Norway", "Region": "Western Europe", "Happiness Rank": "4", "Happiness Score": "7.522", "Standard Error": "0.0388", "Class": "C", "GDP": "1.459"},
	{"Country": "Canada", "Region": "North America", "Happiness Rank": "5", "Happiness Score": "7.427", "Class": "B"},
	{"Country": "Togo", "Region": "Sub-Saharan Africa", "Happiness Rank": "158", "Happiness Score": "2.839", "Standard Error": "0.06727", "Class": "D"}
]}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func loadHappiness(t *testing.T) *summary.Summary {
	t.Helper()
	s, err := summary.Load(writeFixture(t, "happiness.json", happinessData), writeFixture(t, "happiness_meta.csv", happinessMeta))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func str(s string) *string { return &s }

func TestLoad_MissingSource(t *testing.T) {
	meta := writeFixture(t, "meta.csv", happinessMeta)
	cases := []struct{ data, meta string }{
		{"", ""},
		{"happiness.json", ""},
		{"", meta},
	}
	for _, c := range cases {
		_, err := summary.Load(c.data, c.meta)
		if !errors.Is(err, summary.ErrMissingSource) {
			t.Fatalf("Load(%q, %q) err = %v, want ErrMissingSource", c.data, c.meta, err)
		}
		if err.Error() != "data file and meta file must be provided" {
			t.Fatalf("message = %q", err.Error())
		}
	}
}

func TestLoad_NotFound(t *testing.T) {
	meta := writeFixture(t, "meta.csv", happinessMeta)
	missing := filepath.Join(t.TempDir(), "nope.json")
	_, err := summary.Load(missing, meta)
	var nf *summary.SourceNotFoundError
	if !errors.As(err, &nf) || nf.Path != missing {
		t.Fatalf("err = %v, want SourceNotFoundError for %s", err, missing)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected err to unwrap to fs.ErrNotExist")
	}
}

func TestLoad_BadInputs(t *testing.T) {
	meta := writeFixture(t, "meta.csv", happinessMeta)
	data := writeFixture(t, "d.json", happinessData)
	cases := []struct {
		name       string
		data, meta string
	}{
		{"no data key", writeFixture(t, "x.json", `{"rows": []}`), meta},
		{"nested object", writeFixture(t, "y.json", `{"data": [{"Country": {"a": 1}}]}`), meta},
		{"one meta row", data, writeFixture(t, "m1.csv", "a,b\n")},
		{"ragged meta", data, writeFixture(t, "m2.csv", "a,b\nstring\n")},
		{"empty meta", data, writeFixture(t, "m3.csv", "")},
	}
	for _, c := range cases {
		if _, err := summary.Load(c.data, c.meta); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestLoad_Zstd(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write([]byte(happinessData)); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	data := writeFixture(t, "happiness.json.zst", buf.String())
	s, err := summary.Load(data, writeFixture(t, "meta.csv", happinessMeta))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 6 {
		t.Fatalf("rows = %d, want 6", s.Len())
	}
}

func TestNormalization(t *testing.T) {
	s := loadHappiness(t)
	rec, err := s.Row(3)
	if err != nil {
		t.Fatalf("row: %v", err)
	}
	if _, ok := rec["GDP"]; ok {
		t.Fatalf("key outside the schema survived normalization")
	}
	if len(rec) != s.Schema().Len() {
		t.Fatalf("row has %d keys, want %d", len(rec), s.Schema().Len())
	}
	canada, _ := s.Row(4)
	if v, ok := canada["Standard Error"]; !ok || !v.IsNull() {
		t.Fatalf("missing key not filled with null: %#v", v)
	}
}

func TestConcreteScenario(t *testing.T) {
	schema := summary.NewSchema([]summary.Feature{
		{Name: "Country", Kind: summary.KindOf("string")},
		{Name: "Score", Kind: summary.KindOf("numeric")},
	})
	s := summary.New(schema, []map[string]*string{
		{"Country": str("Norway"), "Score": str("7.5")},
		{"Country": str("Iceland"), "Score": nil},
	})
	if n, _ := s.Count("Score"); n != 1 {
		t.Fatalf("count = %d", n)
	}
	if n, _ := s.Empty("Score"); n != 1 {
		t.Fatalf("empty = %d", n)
	}
	if sum, _ := s.Sum("Score"); sum != 7.5 {
		t.Fatalf("sum = %v", sum)
	}
	rec, err := s.Get(0)
	if err != nil {
		t.Fatalf("get 0: %v", err)
	}
	got := rec.(summary.Record)
	if got["Country"].String() != "Norway" || got["Score"].String() != "7.5" || len(got) != 2 {
		t.Fatalf("row 0 = %#v", got)
	}
	col, err := s.Get("Country")
	if err != nil {
		t.Fatalf("get Country: %v", err)
	}
	vals := col.([]summary.Value)
	if len(vals) != 2 || vals[0].String() != "Norway" || vals[1].String() != "Iceland" {
		t.Fatalf("column = %#v", vals)
	}
}

func TestRowIsCopy(t *testing.T) {
	s := loadHappiness(t)
	first, _ := s.Row(0)
	first["Country"] = summary.Text("Mutated")
	delete(first, "Region")
	again, _ := s.Row(0)
	if again["Country"].String() != "Switzerland" {
		t.Fatalf("mutation leaked: %q", again["Country"].String())
	}
	if _, ok := again["Region"]; !ok {
		t.Fatalf("deletion leaked")
	}
}

func TestGetErrors(t *testing.T) {
	s := loadHappiness(t)
	for _, i := range []int{-1, 6, 100} {
		_, err := s.Get(i)
		var ie *summary.IndexError
		if !errors.As(err, &ie) {
			t.Fatalf("Get(%d) err = %v, want IndexError", i, err)
		}
	}
	if _, err := s.Get(uint64(1 << 63)); err == nil {
		t.Fatalf("expected index error for huge unsigned key")
	}
	for _, name := range []string{"GDP", "data"} {
		_, err := s.Get(name)
		if err == nil || err.Error() != "Feature '"+name+"' not found in data" {
			t.Fatalf("Get(%q) err = %v", name, err)
		}
	}
	_, err := s.Get(1.5)
	var kt *summary.KeyTypeError
	if !errors.As(err, &kt) {
		t.Fatalf("Get(1.5) err = %v, want KeyTypeError", err)
	}
}

func TestUnknownFeatureEverywhere(t *testing.T) {
	s := loadHappiness(t)
	want := "Feature 'GDP' not found in data"
	ops := map[string]func(string) error{
		"sum":    func(f string) error { _, err := s.Sum(f); return err },
		"count":  func(f string) error { _, err := s.Count(f); return err },
		"mean":   func(f string) error { _, err := s.Mean(f); return err },
		"min":    func(f string) error { _, err := s.Min(f); return err },
		"max":    func(f string) error { _, err := s.Max(f); return err },
		"unique": func(f string) error { _, err := s.Unique(f); return err },
		"mode":   func(f string) error { _, err := s.Mode(f); return err },
		"empty":  func(f string) error { _, err := s.Empty(f); return err },
		"get":    func(f string) error { _, err := s.Get(f); return err },
	}
	for name, op := range ops {
		err := op("GDP")
		var nf *summary.FeatureNotFoundError
		if !errors.As(err, &nf) || err.Error() != want {
			t.Errorf("%s: err = %v, want %q", name, err, want)
		}
	}
}

func TestCategoricalRejectedByNumericOps(t *testing.T) {
	s := loadHappiness(t)
	want := "Cannot calculate for categorical feature 'Region'"
	ops := map[string]func(string) error{
		"sum":  func(f string) error { _, err := s.Sum(f); return err },
		"mean": func(f string) error { _, err := s.Mean(f); return err },
		"min":  func(f string) error { _, err := s.Min(f); return err },
		"max":  func(f string) error { _, err := s.Max(f); return err },
	}
	for name, op := range ops {
		err := op("Region")
		var ce *summary.CategoricalFeatureError
		if !errors.As(err, &ce) || err.Error() != want {
			t.Errorf("%s: err = %v, want %q", name, err, want)
		}
	}
	if err := s.NumericFeatureCheck("Region"); err == nil {
		t.Fatalf("NumericFeatureCheck accepted a categorical feature")
	}
	if err := s.NumericFeatureCheck("Happiness Score"); err != nil {
		t.Fatalf("NumericFeatureCheck: %v", err)
	}
}

func TestNumericProperties(t *testing.T) {
	s := loadHappiness(t)
	for _, f := range []string{"Happiness Rank", "Happiness Score", "Standard Error"} {
		sum, err := s.Sum(f)
		if err != nil {
			t.Fatalf("sum %s: %v", f, err)
		}
		n, _ := s.Count(f)
		mean, err := s.Mean(f)
		if err != nil {
			t.Fatalf("mean %s: %v", f, err)
		}
		if mean != sum/float64(n) {
			t.Fatalf("%s: mean %v != sum/count %v", f, mean, sum/float64(n))
		}
		lo, _ := s.Min(f)
		hi, _ := s.Max(f)
		if lo > mean || mean > hi {
			t.Fatalf("%s: expected min <= mean <= max, got %v %v %v", f, lo, mean, hi)
		}
	}
	se, _ := s.Sum("Standard Error")
	if math.Abs(se-(0.03411+0.03328+0.0388+0.06727)) > 1e-12 {
		t.Fatalf("sum Standard Error = %v", se)
	}
	if hi, _ := s.Max("Happiness Score"); hi != 7.587 {
		t.Fatalf("max = %v", hi)
	}
	if lo, _ := s.Min("Happiness Rank"); lo != 1 {
		t.Fatalf("min = %v", lo)
	}
}

func TestCountPlusEmptyIsRows(t *testing.T) {
	s := loadHappiness(t)
	for _, name := range s.Schema().Names() {
		n, _ := s.Count(name)
		e, _ := s.Empty(name)
		if n+e != s.Len() {
			t.Fatalf("%s: count %d + empty %d != %d", name, n, e, s.Len())
		}
	}
	if e, _ := s.Empty("Standard Error"); e != 2 {
		t.Fatalf("empty Standard Error = %d, want 2", e)
	}
}

func TestNoValues(t *testing.T) {
	schema := summary.NewSchema([]summary.Feature{{Name: "x", Kind: summary.Numeric}})
	s := summary.New(schema, []map[string]*string{{"x": nil}, {}})
	if sum, err := s.Sum("x"); err != nil || sum != 0 {
		t.Fatalf("sum = %v, %v; want 0, nil", sum, err)
	}
	for name, op := range map[string]func(string) (float64, error){"mean": s.Mean, "min": s.Min, "max": s.Max} {
		if _, err := op("x"); !errors.Is(err, summary.ErrNoValues) {
			t.Fatalf("%s err = %v, want ErrNoValues", name, err)
		}
	}
}

func TestUnparsableNumber(t *testing.T) {
	schema := summary.NewSchema([]summary.Feature{{Name: "x", Kind: summary.Numeric}})
	s := summary.New(schema, []map[string]*string{{"x": str("1")}, {"x": str("n/a")}})
	_, err := s.Sum("x")
	var pe *summary.ParseError
	if !errors.As(err, &pe) || pe.Row != 1 || pe.Value != "n/a" {
		t.Fatalf("err = %v, want ParseError at row 1", err)
	}
	if n, _ := s.Count("x"); n != 2 {
		t.Fatalf("count = %d", n)
	}
}

func TestUniqueSingletons(t *testing.T) {
	schema := summary.NewSchema([]summary.Feature{{Name: "Class", Kind: summary.Categorical}})
	s := summary.New(schema, []map[string]*string{
		{"Class": str("A")}, {"Class": str("B")}, {"Class": str("A")}, {"Class": str("C")}, {"Class": nil},
	})
	got, _ := s.Unique("Class")
	if strings.Join(got, ",") != "B,C" {
		t.Fatalf("unique = %v, want [B C]", got)
	}
	mode, _ := s.Mode("Class")
	if len(mode) != 3 || mode[0] != "A" {
		t.Fatalf("mode = %v", mode)
	}

	h := loadHappiness(t)
	if u, _ := h.Unique("Class"); strings.Join(u, ",") != "C,D" {
		t.Fatalf("unique Class = %v", u)
	}
	countries, _ := h.Unique("Country")
	if !sort.StringsAreSorted(countries) || len(countries) != 6 {
		t.Fatalf("unique Country = %v", countries)
	}
	regions, _ := h.Unique("Region")
	if strings.Join(regions, ",") != "North America,Sub-Saharan Africa" {
		t.Fatalf("unique Region = %v", regions)
	}
}

func TestModeOrderingAndLimit(t *testing.T) {
	schema := summary.NewSchema([]summary.Feature{{Name: "v", Kind: summary.Categorical}})
	// K x3, H x2, then eleven singletons in order.
	seq := []string{"K", "H", "K", "N", "B", "H", "L", "K", "A", "M", "D", "G", "C", "E", "F", "I"}
	var rows []map[string]*string
	for _, v := range seq {
		rows = append(rows, map[string]*string{"v": str(v)})
	}
	s := summary.New(schema, rows)
	mode, _ := s.Mode("v")
	want := []string{"K", "H", "N", "B", "L", "A", "M", "D", "G", "C"}
	if strings.Join(mode, ",") != strings.Join(want, ",") {
		t.Fatalf("mode = %v, want %v", mode, want)
	}
	top, _ := s.Top("v", 100)
	for i := 1; i < len(top); i++ {
		if top[i].Count > top[i-1].Count {
			t.Fatalf("top not ordered by frequency: %v", top)
		}
	}
	if len(top) != 13 {
		t.Fatalf("top length = %d, want 13 distinct values", len(top))
	}
}

func TestSchemaDuplicateLastKindWins(t *testing.T) {
	sch, err := summary.ParseSchema(strings.NewReader("a,b,a\nstring,int,float\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := strings.Join(sch.Names(), ","); got != "a,b" {
		t.Fatalf("names = %s", got)
	}
	f, pos, ok := sch.Lookup("a")
	if !ok || pos != 0 || f.Kind != summary.Numeric || f.Type != "float" {
		t.Fatalf("lookup a = %#v at %d", f, pos)
	}
}

func TestExportRoundTrip(t *testing.T) {
	s := loadHappiness(t)
	for _, delim := range []rune{',', ';', '\t'} {
		out := filepath.Join(t.TempDir(), "happiness.csv")
		if err := s.Export(out, delim); err != nil {
			t.Fatalf("export: %v", err)
		}
		f, err := os.Open(out)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		r := csv.NewReader(f)
		r.Comma = delim
		recs, err := r.ReadAll()
		f.Close()
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		names := s.Schema().Names()
		if strings.Join(recs[0], "|") != strings.Join(names, "|") {
			t.Fatalf("header = %v", recs[0])
		}
		if len(recs) != s.Len()+1 {
			t.Fatalf("records = %d, want %d", len(recs), s.Len()+1)
		}
		for i := 0; i < s.Len(); i++ {
			row, _ := s.Row(i)
			for j, name := range names {
				if recs[i+1][j] != row[name].String() {
					t.Fatalf("row %d %s = %q, want %q", i, name, recs[i+1][j], row[name].String())
				}
			}
		}
	}
}

func TestExportZstdAndErrors(t *testing.T) {
	s := loadHappiness(t)
	out := filepath.Join(t.TempDir(), "happiness.csv.zst")
	if err := s.Export(out, 0); err != nil {
		t.Fatalf("export: %v", err)
	}
	reloaded, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := zstd.NewReader(bytes.NewReader(reloaded))
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()
	var plain bytes.Buffer
	if _, err := plain.ReadFrom(dec); err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !strings.HasPrefix(plain.String(), "Country,Region,") {
		t.Fatalf("unexpected export head: %q", plain.String()[:20])
	}

	if err := s.Export(filepath.Join(t.TempDir(), "x.csv"), '\n'); err == nil {
		t.Fatalf("expected invalid delimiter error")
	}
	if err := s.Export(filepath.Join(t.TempDir(), "missing", "x.csv"), ','); err == nil {
		t.Fatalf("expected write error for missing directory")
	}
}

func TestDescribe(t *testing.T) {
	s := loadHappiness(t)
	rep := s.Describe(3)
	if rep.Rows != 6 || len(rep.Features) != 6 {
		t.Fatalf("report = %+v", rep)
	}
	var score, class *summary.FeatureSummary
	for i := range rep.Features {
		switch rep.Features[i].Name {
		case "Happiness Score":
			score = &rep.Features[i]
		case "Class":
			class = &rep.Features[i]
		}
	}
	if score == nil || score.Numbers == nil {
		t.Fatalf("missing numeric summary for Happiness Score")
	}
	if score.Numbers.Max != 7.587 || score.Numbers.Min != 2.839 {
		t.Fatalf("bounds = %v..%v", score.Numbers.Min, score.Numbers.Max)
	}
	if math.Abs(score.Numbers.Median-7.5245) > 1e-9 {
		t.Fatalf("median = %v", score.Numbers.Median)
	}
	if class == nil || class.Numbers != nil || len(class.Top) != 3 || class.Top[0].Value != "A" {
		t.Fatalf("class summary = %+v", class)
	}
	md := rep.Markdown()
	if !strings.Contains(md, "[DATASET SUMMARY]") || !strings.Contains(md, "- Class: categorical (non-null 6") {
		t.Fatalf("markdown = %s", md)
	}
}

func TestNumericWhitespaceAndRange(t *testing.T) {
	schema := summary.NewSchema([]summary.Feature{{Name: "x", Kind: summary.Numeric}})
	s := summary.New(schema, []map[string]*string{{"x": str(" 7.5")}, {"x": str("7.5 ")}, {"x": str("\t1\n")}})
	if sum, err := s.Sum("x"); err != nil || sum != 16 {
		t.Fatalf("sum = %v, %v; want 16", sum, err)
	}
	if mean, err := s.Mean("x"); err != nil || mean != 16.0/3 {
		t.Fatalf("mean = %v, %v", mean, err)
	}
	row, _ := s.Row(0)
	if row["x"].String() != " 7.5" {
		t.Fatalf("source text not kept: %q", row["x"].String())
	}

	s = summary.New(schema, []map[string]*string{{"x": str("1e400")}, {"x": str("-1e400")}, {"x": str("2")}})
	if hi, err := s.Max("x"); err != nil || !math.IsInf(hi, 1) {
		t.Fatalf("max = %v, %v; want +Inf", hi, err)
	}
	if lo, err := s.Min("x"); err != nil || !math.IsInf(lo, -1) {
		t.Fatalf("min = %v, %v; want -Inf", lo, err)
	}
	if _, err := s.Sum("x"); err != nil {
		t.Fatalf("sum: %v", err)
	}
}

func TestExportQuotesSpecialValues(t *testing.T) {
	schema := summary.NewSchema([]summary.Feature{
		{Name: "Country", Kind: summary.Categorical},
		{Name: "Note", Kind: summary.Categorical},
	})
	values := [][2]string{
		{"Congo, Rep.", `said "hi"`},
		{"a;b", "tab\there"},
	}
	var rows []map[string]*string
	for _, v := range values {
		rows = append(rows, map[string]*string{"Country": str(v[0]), "Note": str(v[1])})
	}
	s := summary.New(schema, rows)
	for _, delim := range []rune{',', ';', '\t'} {
		var buf bytes.Buffer
		if err := s.WriteCSV(&buf, delim); err != nil {
			t.Fatalf("write: %v", err)
		}
		if delim == ',' && !strings.Contains(buf.String(), `"Congo, Rep.","said ""hi"""`) {
			t.Fatalf("values not quoted: %q", buf.String())
		}
		r := csv.NewReader(&buf)
		r.Comma = delim
		recs, err := r.ReadAll()
		if err != nil {
			t.Fatalf("read back with %q: %v", delim, err)
		}
		if len(recs) != 3 {
			t.Fatalf("records = %d, want 3", len(recs))
		}
		for i, v := range values {
			if recs[i+1][0] != v[0] || recs[i+1][1] != v[1] {
				t.Fatalf("delim %q row %d = %q, want %q", delim, i, recs[i+1], v)
			}
		}
	}
}

func TestConcurrentReads(t *testing.T) {
	s := loadHappiness(t)
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			if _, err := s.Row(g % s.Len()); err != nil {
				errs <- err
			}
			if mode, err := s.Mode("Class"); err != nil || mode[0] != "A" {
				errs <- fmt.Errorf("mode = %v, %v", mode, err)
			}
			if _, err := s.Sum("Happiness Score"); err != nil {
				errs <- err
			}
			if _, err := s.Unique("Region"); err != nil {
				errs <- err
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
