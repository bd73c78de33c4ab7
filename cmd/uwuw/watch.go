package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/uwuw"
	libsource "github.com/aretw0/uwuw/pkg/adapters/lifecycle"
	"github.com/aretw0/uwuw/pkg/core"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render materials.xml whenever a library changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := watchOutput
		if out == "" {
			out = project.OpenMC.Output
		}

		full, err := uwuw.ResolvePath(args[0])
		if err != nil {
			return err
		}

		render := func() {
			wf, err := uwuw.Open(ctx, full, workflowOptions()...)
			if err != nil {
				slog.Error("reload failed", "path", full, "error", err)
				return
			}
			if err := renderTo(out, cmd.OutOrStdout(), wf.MaterialLibrary); err != nil {
				slog.Error("render failed", "output", out, "error", err)
				return
			}
			slog.Info("materials written", "output", out, "materials", wf.MaterialLibrary.Len())
		}
		render()

		svc := uwuw.NewService(workflowOptions(uwuw.WithWatcherErrorHandler(func(err error) {
			slog.Warn("watcher error", "error", err)
		}))...)
		events, err := svc.Watch(ctx, full)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", full, err)
		}

		src := libsource.NewSource(events)
		if err := src.Start(ctx); err != nil {
			return err
		}

		slog.Info("watching", "path", full)
		for e := range src.Events() {
			ev, ok := e.(core.Event)
			if !ok {
				continue
			}
			slog.Debug("change detected", "event", ev.String())
			if ev.Type == core.EventDelete {
				slog.Warn("library removed, keeping last output", "path", ev.Path)
				continue
			}
			render()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output file (default from uwuw.toml or materials.xml)")
}
