package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var registerDesc string

var registerCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Register a data/meta pair under a name (use with --data and --meta)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagData == "" || flagMeta == "" {
			return errors.New("--data and --meta are required")
		}
		c, err := openCatalog()
		if err != nil {
			return err
		}
		e, err := c.Add(args[0], flagData, flagMeta, registerDesc)
		if err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered %s (%d rows, %d features)\n", e.Name, e.Rows, e.Features)
		return nil
	},
}

var unregisterCmd = &cobra.Command{
	Use:   "unregister <name>",
	Short: "Remove a dataset from the catalog (files are left untouched)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return err
		}
		if err := c.Remove(args[0]); err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Unregistered %s\n", args[0])
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered datasets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return err
		}
		names := c.Names()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(no datasets)")
			return nil
		}
		for _, n := range names {
			e := c.Datasets[n]
			fmt.Fprintf(cmd.OutOrStdout(), "- %s: %d rows, %d features (%s)\n", e.Name, e.Rows, e.Features, e.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(unregisterCmd)
	rootCmd.AddCommand(listCmd)
	registerCmd.Flags().StringVar(&registerDesc, "desc", "", "dataset description")
}
