package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/datasum-cli/internal/catalog"
	cfgpkg "github.com/KaramelBytes/datasum-cli/internal/config"
	"github.com/KaramelBytes/datasum-cli/internal/summary"
	"github.com/KaramelBytes/datasum-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Dataset selection: a registered name, or an explicit data/meta pair
	flagDataset string
	flagData    string
	flagMeta    string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:           "datasum",
	Short:         "datasum: per-feature statistics over a JSON dataset and its CSV schema",
	Long:          `datasum loads a JSON dataset ({"data": [...]}) together with a two-row CSV meta file (feature names, then types) and answers sum, count, mean, min, max, unique, mode and empty queries, row/column lookups and CSV export.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datasum/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&flagDataset, "dataset", "d", "", "registered dataset name")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "path to the JSON data file")
	rootCmd.PersistentFlags().StringVar(&flagMeta, "meta", "", "path to the CSV meta file")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c
	debugf("config loaded (catalog_dir=%s)", cfg.CatalogDir)
}

func debugf(format string, args ...any) {
	if !debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
}

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

func openCatalog() (*catalog.Catalog, error) {
	dir, err := utils.ExpandHome(currentConfig().CatalogDir)
	if err != nil {
		return nil, err
	}
	return catalog.Open(dir)
}

// openSummary loads the dataset selected by --dataset or --data/--meta.
func openSummary() (*summary.Summary, string, error) {
	dataPath, metaPath := flagData, flagMeta
	if flagDataset != "" {
		c, err := openCatalog()
		if err != nil {
			return nil, "", err
		}
		e, err := c.Lookup(flagDataset)
		if err != nil {
			return nil, "", err
		}
		dataPath, metaPath = e.DataPath, e.MetaPath
	}
	start := time.Now()
	s, err := summary.Load(dataPath, metaPath)
	if err != nil {
		return nil, "", err
	}
	debugf("loaded %s (%d rows, %d features) in %s", dataPath, s.Len(), s.Schema().Len(), time.Since(start))
	return s, filepath.Base(dataPath), nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",":
		return ',', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	case "\t", "tab":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s (use ',' | ';' | '|' | 'tab')", s)
}
