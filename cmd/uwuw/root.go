package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/uwuw"
)

var (
	verbose  bool
	datapath string

	// project holds the uwuw.toml settings found above the working directory.
	project uwuw.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uwuw",
	Short: "Load material libraries and render them for OpenMC",
	Long: `uwuw reads material libraries stored in HDF5 (.h5m), JSON, YAML or
msgpack files and writes the materials.xml consumed by OpenMC.

Defaults such as the datapath and the library files are read from the
nearest uwuw.toml above the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg, found, err := uwuw.DiscoverConfig(wd, logger)
		if err != nil {
			return fmt.Errorf("reading project file: %w", err)
		}
		if found {
			logger.Debug("using project file", "root", cfg.Root)
		}
		project = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&datapath, "datapath", "d", "", "Group holding the materials (default from uwuw.toml or /materials)")
}

// activeDatapath applies the flag over the project file.
func activeDatapath() string {
	if datapath != "" {
		return datapath
	}
	return project.Library.Datapath
}

// workflowOptions returns the options shared by every command.
func workflowOptions(extra ...uwuw.Option) []uwuw.Option {
	opts := []uwuw.Option{
		uwuw.WithDatapath(activeDatapath()),
		uwuw.WithLogger(slog.Default()),
	}
	return append(opts, extra...)
}
