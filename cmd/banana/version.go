// Version command for the banana CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/banana/pkg/banana"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the banana version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "banana", banana.Version)
	},
}
