// Insert command: add one row to a table.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/banana/pkg/types"
)

var insertCmd = &cobra.Command{
	Use:   "insert <table> key=value...",
	Short: "Insert one row into a table",
	Long: `Insert validates the columns, rejects duplicates of the table's unique
columns and stores one row. Columns ending in _at take integer Unix timestamps.

Tables: commit, patch_id, fixes

Example:
  banana insert fixes commit_id=<hash> fixes=<hash> fixes_id=<hash>
  banana insert patch_id commit_id=<hash> patch_id=<hash>`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}

		d, err := openDatabase(true)
		if err != nil {
			return err
		}
		t, err := d.Table(args[0])
		if err != nil {
			return err
		}

		row, err := t.Insert(values)
		if err != nil {
			return err
		}
		return writeRows(cmd.OutOrStdout(), t, []types.Row{row})
	},
}
