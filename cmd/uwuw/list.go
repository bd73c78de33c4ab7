package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/uwuw"
	"github.com/aretw0/uwuw/pkg/core"
	"github.com/aretw0/uwuw/pkg/openmc"
)

var listJSON bool

type nuclideEntry struct {
	Nuclide  string  `json:"nuclide"`
	Fraction float64 `json:"fraction"`
}

type materialEntry struct {
	Name      string         `json:"name"`
	MatNumber string         `json:"mat_number,omitempty"`
	Density   float64        `json:"density"`
	Units     string         `json:"units"`
	Mass      float64        `json:"mass"`
	Nuclides  []nuclideEntry `json:"nuclides"`
	Metadata  core.Metadata  `json:"metadata,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the materials of a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wf, err := uwuw.Open(cmd.Context(), args[0], workflowOptions()...)
		if err != nil {
			return err
		}

		entries := make([]materialEntry, 0, wf.MaterialLibrary.Len())
		for it := wf.MaterialLibrary.Iter(); it.Next(); {
			m := it.Material()
			num, _ := m.Metadata.String(core.MetaMatNumber)
			e := materialEntry{
				Name:      m.Name(),
				MatNumber: num,
				Density:   m.Density,
				Units:     openmc.Units(m.Density),
				Mass:      m.Mass,
				Metadata:  m.Metadata,
			}
			for id, f := range m.Comp.All() {
				e.Nuclides = append(e.Nuclides, nuclideEntry{Nuclide: id.Name(), Fraction: f})
			}
			entries = append(entries, e)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(entries)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tDENSITY\tNUCLIDES")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%g %s\t%d\n", e.MatNumber, e.Name, e.Density, e.Units, len(e.Nuclides))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
