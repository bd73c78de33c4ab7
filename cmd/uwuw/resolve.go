package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/uwuw"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Print the full path a library reference resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, err := uwuw.ResolvePath(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), full)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
