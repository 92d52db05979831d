// Export and import commands: move table rows to and from JSONL files.
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write each table to <dir>/<relation>.jsonl",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDatabase(false)
		if err != nil {
			return err
		}
		files, err := d.ExportJSONL(args[0])
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", f)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Insert rows from <dir>/<relation>.jsonl, skipping existing ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDatabase(false)
		if err != nil {
			return err
		}
		counts, err := d.ImportJSONL(args[0])
		if err != nil {
			return err
		}

		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		total := 0
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", name, counts[name])
			total += counts[name]
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows\n", total)
		return nil
	},
}
