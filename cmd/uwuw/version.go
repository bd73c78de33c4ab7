package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/uwuw"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of uwuw",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "uwuw version %s\n", strings.TrimSpace(uwuw.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
