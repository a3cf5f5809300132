package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/datasum-cli/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	descTop    int
	descFormat string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize every feature (counts, top values, numeric statistics)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, name, err := openSummary()
		if err != nil {
			return err
		}
		top := currentConfig().TopValues
		if cmd.Flags().Changed("top") {
			top = descTop
		}
		format := currentConfig().OutputFormat
		if descFormat != "" {
			format = descFormat
		}
		rep := s.Describe(top)
		rep.Name = name
		var out string
		switch strings.ToLower(format) {
		case "", "markdown", "md":
			out = rep.Markdown()
		case "json":
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			out = string(b)
		case "yaml":
			b, err := yaml.Marshal(rep)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			out = string(b)
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown, json or yaml)", format)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().IntVar(&descTop, "top", 10, "number of most frequent values per feature")
	describeCmd.Flags().StringVar(&descFormat, "format", "", "output format: markdown | json | yaml (default from config)")
}
