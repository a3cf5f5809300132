package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportDelimiter string

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the normalized dataset as CSV (append .zst to compress)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openSummary()
		if err != nil {
			return err
		}
		d := currentConfig().DefaultDelimiter
		if exportDelimiter != "" {
			d = exportDelimiter
		}
		delim, err := parseDelimiter(d)
		if err != nil {
			return err
		}
		if err := s.Export(args[0], delim); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d rows to %s\n", s.Len(), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDelimiter, "delimiter", "", "field delimiter: ',' | ';' | '|' | 'tab' (default from config)")
}
