// Package catalog persists named data/meta file pairs so commands can refer
// to a dataset by name.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/datasum-cli/internal/summary"
	"github.com/KaramelBytes/datasum-cli/internal/utils"
	"github.com/google/uuid"
)

const catalogFileName = "catalog.json"

// ErrNotRegistered is returned when a dataset name is unknown.
var ErrNotRegistered = errors.New("dataset not registered")

// Entry describes one registered dataset.
type Entry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DataPath    string    `json:"data_path"`
	MetaPath    string    `json:"meta_path"`
	Description string    `json:"description"`
	Rows        int       `json:"rows"`
	Features    int       `json:"features"`
	AddedAt     time.Time `json:"added_at"`
}

// Catalog is the on-disk registry of datasets.
type Catalog struct {
	Datasets  map[string]*Entry `json:"datasets"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Not serialized: directory holding catalog.json
	rootDir string
}

// Open loads catalog.json from dir, or returns an empty catalog when the
// file does not exist yet.
func Open(dir string) (*Catalog, error) {
	c := &Catalog{Datasets: map[string]*Entry{}, rootDir: dir}
	b, err := os.ReadFile(filepath.Join(dir, catalogFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c.Datasets == nil {
		c.Datasets = map[string]*Entry{}
	}
	return c, nil
}

// RootDir returns the directory holding catalog.json.
func (c *Catalog) RootDir() string { return c.rootDir }

// Save writes catalog.json using atomic write.
func (c *Catalog) Save() error {
	if c.rootDir == "" {
		return errors.New("catalog root directory not set")
	}
	if err := utils.EnsureDir(c.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	c.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(c)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(c.rootDir, catalogFileName), data)
}

// Add registers a dataset after checking that the pair loads.
func (c *Catalog) Add(name, dataPath, metaPath, description string) (*Entry, error) {
	if name == "" {
		return nil, errors.New("dataset name is required")
	}
	if _, ok := c.Datasets[name]; ok {
		return nil, fmt.Errorf("dataset %q already registered", name)
	}
	absData, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("resolve data path: %w", err)
	}
	absMeta, err := filepath.Abs(metaPath)
	if err != nil {
		return nil, fmt.Errorf("resolve meta path: %w", err)
	}
	s, err := summary.Load(absData, absMeta)
	if err != nil {
		return nil, fmt.Errorf("validate dataset: %w", err)
	}
	e := &Entry{
		ID:          uuid.NewString(),
		Name:        name,
		DataPath:    absData,
		MetaPath:    absMeta,
		Description: description,
		Rows:        s.Len(),
		Features:    s.Schema().Len(),
		AddedAt:     time.Now(),
	}
	c.Datasets[name] = e
	return e, nil
}

// Remove drops a dataset from the catalog.
func (c *Catalog) Remove(name string) error {
	if _, ok := c.Datasets[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	delete(c.Datasets, name)
	return nil
}

// Lookup returns the entry registered under name.
func (c *Catalog) Lookup(name string) (*Entry, error) {
	e, ok := c.Datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return e, nil
}

// Names returns registered names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Datasets))
	for n := range c.Datasets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
