package summary

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/datasum-cli/internal/utils"
	"github.com/klauspost/compress/zstd"
)

// Export writes the dataset as delimited text: a header of feature names in
// schema order, then one record per row with nulls as empty fields. A zero
// delim means ','. Paths ending in ".zst" are zstd-compressed.
func (s *Summary) Export(path string, delim rune) error {
	if delim == 0 {
		delim = ','
	}
	if !validDelim(delim) {
		return fmt.Errorf("export %s: invalid delimiter %q", path, delim)
	}
	var buf bytes.Buffer
	if err := s.WriteCSV(&buf, delim); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	data := buf.Bytes()
	if strings.HasSuffix(strings.ToLower(path), ".zst") {
		var zbuf bytes.Buffer
		enc, err := zstd.NewWriter(&zbuf)
		if err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
		if _, err := enc.Write(data); err != nil {
			_ = enc.Close()
			return fmt.Errorf("export %s: compress: %w", path, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("export %s: compress: %w", path, err)
		}
		data = zbuf.Bytes()
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// WriteCSV streams the export format to w.
func (s *Summary) WriteCSV(w io.Writer, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	if err := cw.Write(s.schema.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, s.schema.Len())
	for i, row := range s.rows {
		for j, v := range row {
			rec[j] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}
