package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/datasum-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set datasum configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "default_delimiter: %q\n", c.DefaultDelimiter)
		fmt.Fprintf(out, "top_values: %d\n", c.TopValues)
		fmt.Fprintf(out, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(out, "catalog_dir: %s\n", c.CatalogDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := currentConfig()
		switch key {
		case "default_delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			c.DefaultDelimiter = val
		case "top_values":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for top_values: %v", val)
			}
			c.TopValues = i
		case "output_format":
			switch strings.ToLower(val) {
			case "markdown", "md":
				c.OutputFormat = "markdown"
			case "json", "yaml":
				c.OutputFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid output_format: %s (use markdown, json or yaml)", val)
			}
		case "catalog_dir":
			c.CatalogDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
