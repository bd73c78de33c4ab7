// Package openmc renders material libraries as OpenMC material declarations.
package openmc

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/uwuw/pkg/core"
)

// Density units written to the deck.
const (
	UnitsMass   = "g/cc"
	UnitsAtomic = "atoms/b-cm"
)

var attrEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// Units returns the unit string matching the sign of a density.
func Units(density float64) string {
	if density < 0 {
		return UnitsAtomic
	}
	return UnitsMass
}

// FormatMaterial renders one material block. The material must carry
// "mat_number" and "name" metadata; weights are renormalized to sum to one
// and listed in composition order.
func FormatMaterial(m *core.Material) (string, error) {
	var sb strings.Builder
	if err := writeMaterial(&sb, m); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteLibrary renders a complete materials.xml document, one block per
// material in library order.
func WriteLibrary(w io.Writer, lib *core.Library) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("<?xml version=\"1.0\"?>\n<materials>\n")
	for _, m := range lib.All() {
		if err := writeMaterial(bw, m); err != nil {
			return err
		}
	}
	bw.WriteString("</materials>\n")
	return bw.Flush()
}

func writeMaterial(w io.StringWriter, m *core.Material) error {
	id, err := m.Require(core.MetaMatNumber)
	if err != nil {
		return err
	}
	name, err := m.Require(core.MetaName)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  <material id=\"%s\" name=\"%s\" >\n", attrEscaper.Replace(id), attrEscaper.Replace(name))
	fmt.Fprintf(&sb, "    <density value=\"%s\" units=\"%s\" />\n", formatDensity(m.Density), Units(m.Density))
	for nuc, frac := range m.Comp.Normalized().All() {
		fmt.Fprintf(&sb, "    <nuclide name=\"%s\" wo=\"%s\" />\n", nuc.OpenMC(), formatWeight(frac))
	}
	sb.WriteString("  </material>\n")

	_, err = w.WriteString(sb.String())
	return err
}
