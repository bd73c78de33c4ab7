package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/uwuw"
	"github.com/aretw0/uwuw/pkg/core"
	"github.com/aretw0/uwuw/pkg/openmc"
)

var openmcOutput string

var openmcCmd = &cobra.Command{
	Use:   "openmc [file|glob]...",
	Short: "Render libraries as an OpenMC materials.xml",
	Long: `Render one or more libraries as a single materials.xml.

Arguments may be doublestar globs ("geometry/**/*.h5m"). Without arguments
the files listed in uwuw.toml are used. When several inputs define the same
material name, the later input wins. Use "-o -" to write to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		patterns := args
		if len(patterns) == 0 {
			patterns = project.LibraryPatterns()
		}
		if len(patterns) == 0 {
			return fmt.Errorf("no input libraries given and none configured in uwuw.toml")
		}

		files, err := expandInputs(patterns)
		if err != nil {
			return err
		}

		lib, err := mergeLibraries(cmd, files)
		if err != nil {
			return err
		}

		out := openmcOutput
		if out == "" {
			out = project.OpenMC.Output
		}
		if err := renderTo(out, cmd.OutOrStdout(), lib); err != nil {
			return err
		}
		slog.Info("materials written", "output", out, "materials", lib.Len(), "inputs", len(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openmcCmd)
	openmcCmd.Flags().StringVarP(&openmcOutput, "output", "o", "", "Output file (default from uwuw.toml or materials.xml)")
}

// expandInputs resolves globs in order. A pattern without matches is kept
// verbatim so that loading reports the missing file.
func expandInputs(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			matches = []string{p}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

func mergeLibraries(cmd *cobra.Command, files []string) (*core.Library, error) {
	lib := core.NewLibrary()
	for _, f := range files {
		wf, err := uwuw.Open(cmd.Context(), f, workflowOptions()...)
		if err != nil {
			return nil, err
		}
		lib.Merge(wf.MaterialLibrary)
	}
	return lib, nil
}

// renderTo writes lib to path, or to stdout when path is "-".
func renderTo(path string, stdout io.Writer, lib *core.Library) error {
	if path == "-" {
		return openmc.WriteLibrary(stdout, lib)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := openmc.WriteLibrary(f, lib); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
