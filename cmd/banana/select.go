// Select command: list rows matching column filters.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/banana/pkg/types"
)

var selectCmd = &cobra.Command{
	Use:   "select <table> [key=value...]",
	Short: "List rows whose columns equal the given values",
	Long: `Select prints rows of the table matching every key=value filter. With no
filters every row is printed, in storage order.

Example:
  banana select commit
  banana select fixes commit_id=<hash>
  banana --json select commit author_name=alice`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}

		d, err := openDatabase(false)
		if err != nil {
			return err
		}
		t, err := d.Table(args[0])
		if err != nil {
			return err
		}

		seq, err := t.Select(filter)
		if err != nil {
			return err
		}
		var rows []types.Row
		for row, err := range seq {
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return writeRows(cmd.OutOrStdout(), t, rows)
	},
}
