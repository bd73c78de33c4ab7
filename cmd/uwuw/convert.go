package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/uwuw"
)

var convertDatapath string

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Re-encode a library in the format implied by the output extension",
	Example: `  uwuw convert geometry.h5m materials.yaml
  uwuw convert lib.json lib.h5m --to-datapath /model/materials`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		wf, err := uwuw.Open(cmd.Context(), args[0], workflowOptions()...)
		if err != nil {
			return err
		}

		target := convertDatapath
		if target == "" {
			target = wf.Datapath
		}
		opts := workflowOptions(uwuw.WithDatapath(target))
		if err := uwuw.Save(cmd.Context(), args[1], wf.MaterialLibrary, opts...); err != nil {
			return err
		}
		slog.Info("library converted", "from", wf.FullFilepath, "to", args[1], "materials", wf.MaterialLibrary.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertDatapath, "to-datapath", "", "Datapath in the output file (default: same as input)")
}
