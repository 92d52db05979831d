// Init command: create the commit, patch-id and fixes tables.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create any missing tables in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDatabase(true)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "database initialized:", d.Path())
		return nil
	},
}
