package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// DefaultDelimiter is used by export when --delimiter is not given.
	DefaultDelimiter string `mapstructure:"default_delimiter" yaml:"default_delimiter"`
	// TopValues caps the per-feature value list in describe output.
	TopValues    int    `mapstructure:"top_values" yaml:"top_values"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"` // markdown|json|yaml
	CatalogDir   string `mapstructure:"catalog_dir" yaml:"catalog_dir"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".datasum"), nil
}

// Defaults returns the configuration used when no file or env overrides
// apply. CatalogDir stays empty only if the home directory cannot be resolved.
func Defaults() *Global {
	c := &Global{DefaultDelimiter: ",", TopValues: 10, OutputFormat: "markdown"}
	if dir, err := configDir(); err == nil {
		c.CatalogDir = dir
	}
	return c
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datasum/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATASUM")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("default_delimiter", d.DefaultDelimiter)
	v.SetDefault("top_values", d.TopValues)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("catalog_dir", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.CatalogDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.CatalogDir = dir
	}
	return &c, nil
}
