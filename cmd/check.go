package cmd

import (
	"fmt"

	"github.com/KaramelBytes/datasum-cli/internal/harness"
	"github.com/KaramelBytes/datasum-cli/internal/summary"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <suite.yaml>",
	Short: "Run an assertion suite against a dataset and report failed cases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := harness.LoadSuite(args[0])
		if err != nil {
			return err
		}
		if err := harness.Validate(st.Cases); err != nil {
			return err
		}
		var s *summary.Summary
		if flagDataset != "" || flagData != "" || flagMeta != "" {
			s, _, err = openSummary()
		} else {
			debugf("suite sources: data=%s meta=%s", st.Data, st.Meta)
			s, err = summary.Load(st.Data, st.Meta)
		}
		if err != nil {
			return err
		}
		res := harness.Run(s, st.Cases, cmd.OutOrStdout())
		if res.Failed > 0 {
			return fmt.Errorf("%d of %d checks failed", res.Failed, res.Total)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %d checks passed\n", res.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
