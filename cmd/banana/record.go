// Record command: store commits resolved from a git repository.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/banana/internal/gitint"
)

var flagRepo string

var recordCmd = &cobra.Command{
	Use:   "record [rev...]",
	Short: "Record commits from a git repository",
	Long: `Record resolves each revision (default HEAD) in the repository and stores
the commit in the commit table. Commits already recorded are skipped.

Example:
  banana record
  banana record --repo ../linux v6.1 v6.1~1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		revs := args
		if len(revs) == 0 {
			revs = []string{"HEAD"}
		}

		repo, err := gitint.Open(flagRepo)
		if err != nil {
			return err
		}
		d, err := openDatabase(true)
		if err != nil {
			return err
		}

		n, err := repo.Record(d.Commit, revs...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recorded %d of %d commits\n", n, len(revs))
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVar(&flagRepo, "repo", ".", "git repository path")
}
