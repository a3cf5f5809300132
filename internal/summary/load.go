package summary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Load reads the data file (JSON with a top-level "data" array) and the
// meta file (two CSV header rows) and builds a Summary. Paths ending in
// ".zst" are decompressed first.
func Load(dataPath, metaPath string) (*Summary, error) {
	if dataPath == "" || metaPath == "" {
		return nil, ErrMissingSource
	}
	metaBytes, err := readSource(metaPath)
	if err != nil {
		return nil, err
	}
	dataBytes, err := readSource(dataPath)
	if err != nil {
		return nil, err
	}
	schema, err := ParseSchema(bytes.NewReader(metaBytes))
	if err != nil {
		return nil, fmt.Errorf("parse meta %s: %w", metaPath, err)
	}
	rows, err := DecodeRows(bytes.NewReader(dataBytes))
	if err != nil {
		return nil, fmt.Errorf("parse data %s: %w", dataPath, err)
	}
	return New(schema, rows), nil
}

func readSource(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".zst") {
		return b, nil
	}
	dec, err := zstd.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()
	out, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	return out, nil
}

// DecodeRows decodes {"data": [{...}, ...]} into raw rows. String values are
// kept verbatim, numbers and booleans keep their JSON literal text, null
// becomes nil.
func DecodeRows(r io.Reader) ([]map[string]*string, error) {
	var doc struct {
		Data *[]map[string]any `json:"data"`
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if doc.Data == nil {
		return nil, errors.New(`missing top-level "data" array`)
	}
	rows := make([]map[string]*string, len(*doc.Data))
	for i, obj := range *doc.Data {
		row := make(map[string]*string, len(obj))
		for k, raw := range obj {
			var s string
			switch v := raw.(type) {
			case nil:
				row[k] = nil
				continue
			case string:
				s = v
			case json.Number:
				s = v.String()
			case bool:
				s = strconv.FormatBool(v)
			default:
				return nil, fmt.Errorf("row %d field %q: unsupported value type %T", i, k, raw)
			}
			row[k] = &s
		}
		rows[i] = row
	}
	return rows, nil
}
