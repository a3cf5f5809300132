package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/datasum-cli/internal/harness"
	"github.com/KaramelBytes/datasum-cli/internal/summary"
	"github.com/KaramelBytes/datasum-cli/internal/utils"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [--] <index|feature>",
	Short: "Print one row by index, or one feature's values in row order",
	Long: `Print one row by index, or one feature's values in row order.

A negative index would be read as a flag; put it after "--" so it reaches
the row lookup and is reported as out of range.`,
	Example: `  datasum get 0 -d happy
  datasum get "Happiness Score" -d happy
  datasum get -d happy -- -1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openSummary()
		if err != nil {
			return err
		}
		var key any = args[0]
		if i, err := strconv.Atoi(args[0]); err == nil {
			key = i
		}
		v, err := s.Get(key)
		if err != nil {
			return err
		}
		var out any
		switch x := v.(type) {
		case summary.Record:
			out = x.Strings()
		case []summary.Value:
			col := make([]*string, len(x))
			for i, val := range x {
				col[i] = val.Ptr()
			}
			out = col
		}
		b, err := utils.PrettyJSON(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var statCmd = &cobra.Command{
	Use:       "stat <op> <feature>",
	Short:     "Compute one statistic: sum|count|mean|min|max|unique|mode|empty",
	Args:      cobra.ExactArgs(2),
	ValidArgs: harness.Ops[1:],
	RunE: func(cmd *cobra.Command, args []string) error {
		op := strings.ToLower(args[0])
		if op == "get" {
			return fmt.Errorf("use 'datasum get' for row and column access")
		}
		s, _, err := openSummary()
		if err != nil {
			return err
		}
		v, err := harness.Invoke(s, op, args[1])
		if err != nil {
			return err
		}
		switch x := v.(type) {
		case float64:
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(x, 'g', -1, 64))
		case int:
			fmt.Fprintln(cmd.OutOrStdout(), x)
		default:
			b, err := utils.PrettyJSON(x)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(statCmd)
}
