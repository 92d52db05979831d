// Dump command: print every table and its rows.
package main

import (
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every existing table and its rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDatabase(false)
		if err != nil {
			return err
		}
		return d.Dump(cmd.OutOrStdout())
	},
}
